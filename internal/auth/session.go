package auth

import (
	"errors"
	"fmt"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"

	"github.com/zamzam-app/feedback-service/internal/models"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Session is the authenticated caller identity. It is resolved once per
// request and passed explicitly to every service call that needs it;
// nothing reads auth state from globals.
type Session struct {
	UserID   string
	Name     string
	Email    string
	Role     models.UserRole
	IsActive bool
}

func (s *Session) IsAdmin() bool {
	return s.Role == models.RoleAdmin
}

// CanManage reports whether the session may perform manager-level
// actions (complaint resolution, outlet administration).
func (s *Session) CanManage() bool {
	return s.Role == models.RoleManager || s.Role == models.RoleAdmin
}

// Verifier parses bearer tokens into sessions.
type Verifier interface {
	Verify(token string) (*Session, error)
}

// CasdoorVerifier validates Casdoor-issued JWTs.
type CasdoorVerifier struct {
	client *casdoorsdk.Client
}

type CasdoorConfig struct {
	Endpoint     string
	ClientID     string
	ClientSecret string
	Certificate  string
	Organization string
	Application  string
}

func NewCasdoorVerifier(cfg CasdoorConfig) *CasdoorVerifier {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Certificate,
		cfg.Organization,
		cfg.Application,
	)
	return &CasdoorVerifier{client: client}
}

func (v *CasdoorVerifier) Verify(token string) (*Session, error) {
	claims, err := v.client.ParseJwtToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return &Session{
		UserID:   claims.User.Id,
		Name:     claims.User.DisplayName,
		Email:    claims.User.Email,
		Role:     roleFromClaims(&claims.User),
		IsActive: !claims.User.IsForbidden,
	}, nil
}

func roleFromClaims(user *casdoorsdk.User) models.UserRole {
	if user.IsAdmin {
		return models.RoleAdmin
	}
	if user.Tag == "manager" {
		return models.RoleManager
	}
	return models.RoleStaff
}

// StaticVerifier maps fixed tokens to sessions. Used in tests and
// local development without a Casdoor deployment.
type StaticVerifier struct {
	Sessions map[string]*Session
}

func (v *StaticVerifier) Verify(token string) (*Session, error) {
	session, ok := v.Sessions[token]
	if !ok {
		return nil, ErrInvalidToken
	}
	return session, nil
}
