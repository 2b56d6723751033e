package repositories

import (
	"context"

	"github.com/zamzam-app/feedback-service/internal/models"
)

// ReviewRepository interface for persisted responses and their
// complaints
type ReviewRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uint) (*models.Review, error)
	GetByIDWithComplaints(ctx context.Context, id uint) (*models.Review, error)
	Delete(ctx context.Context, id uint) error

	// Query operations
	GetByForm(ctx context.Context, formID uint, filters ReviewFilters) ([]*models.Review, int64, error)
	GetByOutlet(ctx context.Context, outletID uint, filters ReviewFilters) ([]*models.Review, int64, error)
	// GetAllByForm reads every review of a form without the list
	// pagination cap. Export only.
	GetAllByForm(ctx context.Context, formID uint) ([]*models.Review, error)

	// Complaint management
	CreateComplaint(ctx context.Context, complaint *models.Complaint) error
	GetComplaint(ctx context.Context, id uint) (*models.Complaint, error)
	GetComplaintByQuestion(ctx context.Context, reviewID uint, questionID string) (*models.Complaint, error)
	UpdateComplaintStatus(ctx context.Context, id uint, status models.ComplaintStatus, resolvedBy string) error
	GetOpenComplaints(ctx context.Context, outletID uint, limit, offset int) ([]*models.Complaint, int64, error)

	// Statistics
	GetOutletRating(ctx context.Context, outletID uint) (*RatingAggregate, error)
}
