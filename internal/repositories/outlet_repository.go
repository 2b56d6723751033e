package repositories

import (
	"context"

	"github.com/zamzam-app/feedback-service/internal/models"
)

// OutletRepository interface for outlet operations
type OutletRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, outlet *models.Outlet) error
	GetByID(ctx context.Context, id uint) (*models.Outlet, error)
	Update(ctx context.Context, outlet *models.Outlet) error
	Delete(ctx context.Context, id uint) error

	// Query operations
	List(ctx context.Context, filters OutletFilters) ([]*models.Outlet, int64, error)
	GetByManager(ctx context.Context, managerID string) ([]*models.Outlet, error)
	GetByCapability(ctx context.Context, tag models.CapabilityTag, filters OutletFilters) ([]*models.Outlet, int64, error)

	// QR token management
	GetByQRToken(ctx context.Context, token string) (*models.Outlet, error)
	SetQRToken(ctx context.Context, id uint, token string) error

	// Manager assignment
	AssignManager(ctx context.Context, id uint, managerID *string) error

	// Rating aggregate maintenance
	UpdateRating(ctx context.Context, id uint, avg float64, count int) error

	// Statistics
	GetStats(ctx context.Context) (*OutletStats, error)
}
