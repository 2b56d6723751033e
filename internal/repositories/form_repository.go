package repositories

import (
	"context"

	"github.com/zamzam-app/feedback-service/internal/models"
)

// FormRepository interface for form document operations
type FormRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, form *models.Form) error
	GetByID(ctx context.Context, id uint) (*models.Form, error)
	Update(ctx context.Context, form *models.Form) error
	Delete(ctx context.Context, id uint) error // Soft delete

	// Query operations
	List(ctx context.Context, filters FormFilters) ([]*models.Form, int64, error)
	GetByCreator(ctx context.Context, creatorID string, filters FormFilters) ([]*models.Form, int64, error)
	Search(ctx context.Context, query string, filters FormFilters) ([]*models.Form, int64, error)

	// Validation and checks
	Exists(ctx context.Context, id uint) (bool, error)
	HasResponses(ctx context.Context, id uint) (bool, error)

	// Statistics
	GetStats(ctx context.Context, id uint) (*FormStats, error)
	CountResponses(ctx context.Context, ids []uint) (map[uint]int, error)
}
