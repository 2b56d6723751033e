package repositories

import (
	"context"
	"time"

	"github.com/zamzam-app/feedback-service/internal/models"
)

// UserRepository interface for staff and manager accounts. Identity
// lives in Casdoor; this store mirrors the profile and role fields the
// service needs for routing and complaint resolution.
type UserRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error

	// Query operations
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
	GetByRole(ctx context.Context, role models.UserRole, limit, offset int) ([]*models.User, error)

	// Validation and checks
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	HasRole(ctx context.Context, id string, role models.UserRole) (bool, error)

	// Activity tracking
	UpdateLastLogin(ctx context.Context, id string, loginTime time.Time) error
}
