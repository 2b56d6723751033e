package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zamzam-app/feedback-service/internal/models"
)

const sessionContextKey = "auth_session"

// Middleware resolves the bearer token into a Session and stores it on
// the request context. Requests without a valid token are rejected.
func Middleware(verifier Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "missing bearer token",
			})
			return
		}

		session, err := verifier.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "invalid or expired token",
			})
			return
		}
		if !session.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "account is disabled",
			})
			return
		}

		c.Set(sessionContextKey, session)
		c.Next()
	}
}

// RequireRole rejects requests whose session role is below the given
// role. Ordering is staff < manager < admin.
func RequireRole(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := SessionFrom(c)
		if session == nil || !roleAtLeast(session.Role, role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "insufficient permissions",
			})
			return
		}
		c.Next()
	}
}

// SessionFrom returns the session stored by Middleware, or nil.
func SessionFrom(c *gin.Context) *Session {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return nil
	}
	session, ok := value.(*Session)
	if !ok {
		return nil
	}
	return session
}

func roleAtLeast(have, want models.UserRole) bool {
	rank := map[models.UserRole]int{
		models.RoleStaff:   1,
		models.RoleManager: 2,
		models.RoleAdmin:   3,
	}
	return rank[have] >= rank[want]
}
