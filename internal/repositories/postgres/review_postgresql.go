package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/zamzam-app/feedback-service/internal/models"
	"github.com/zamzam-app/feedback-service/internal/repositories"
	"gorm.io/gorm"
)

type ReviewPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewReviewPostgreSQL(db *gorm.DB) repositories.ReviewRepository {
	return &ReviewPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

// Create persists a submitted response
func (r *ReviewPostgreSQL) Create(ctx context.Context, review *models.Review) error {
	if review.SubmittedAt.IsZero() {
		review.SubmittedAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// GetByID retrieves a review by ID
func (r *ReviewPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// GetByIDWithComplaints retrieves a review with its complaints
func (r *ReviewPostgreSQL) GetByIDWithComplaints(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Preload("Complaints", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&review, id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Delete soft deletes a review
func (r *ReviewPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Review{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetByForm retrieves reviews submitted against one form
func (r *ReviewPostgreSQL) GetByForm(ctx context.Context, formID uint, filters repositories.ReviewFilters) ([]*models.Review, int64, error) {
	filters.FormID = &formID
	return r.list(ctx, filters)
}

// GetAllByForm retrieves every review of a form in submission order.
// It skips ApplyPagination on purpose so exports see the full data set.
func (r *ReviewPostgreSQL) GetAllByForm(ctx context.Context, formID uint) ([]*models.Review, error) {
	var reviews []*models.Review
	err := r.db.WithContext(ctx).
		Where("form_id = ?", formID).
		Order("submitted_at ASC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// GetByOutlet retrieves reviews for one outlet
func (r *ReviewPostgreSQL) GetByOutlet(ctx context.Context, outletID uint, filters repositories.ReviewFilters) ([]*models.Review, int64, error) {
	filters.OutletID = &outletID
	return r.list(ctx, filters)
}

func (r *ReviewPostgreSQL) list(ctx context.Context, filters repositories.ReviewFilters) ([]*models.Review, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Review{})
	query = r.applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("submitted_at DESC")
	query = r.helpers.ApplyPagination(query, filters.Limit, filters.Offset)

	var reviews []*models.Review
	if err := query.Preload("Complaints").Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// ===== COMPLAINT OPERATIONS =====

// CreateComplaint flags a question within a review
func (r *ReviewPostgreSQL) CreateComplaint(ctx context.Context, complaint *models.Complaint) error {
	if complaint.Status == "" {
		complaint.Status = models.ComplaintOpen
	}
	if err := r.db.WithContext(ctx).Create(complaint).Error; err != nil {
		return fmt.Errorf("failed to create complaint: %w", err)
	}
	return nil
}

// GetComplaint retrieves a complaint by ID
func (r *ReviewPostgreSQL) GetComplaint(ctx context.Context, id uint) (*models.Complaint, error) {
	var complaint models.Complaint
	if err := r.db.WithContext(ctx).First(&complaint, id).Error; err != nil {
		return nil, err
	}
	return &complaint, nil
}

// GetComplaintByQuestion retrieves the complaint flagged for one
// question of a review
func (r *ReviewPostgreSQL) GetComplaintByQuestion(ctx context.Context, reviewID uint, questionID string) (*models.Complaint, error) {
	var complaint models.Complaint
	err := r.db.WithContext(ctx).
		Where("review_id = ? AND question_id = ?", reviewID, questionID).
		First(&complaint).Error
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

// UpdateComplaintStatus resolves or dismisses a complaint
func (r *ReviewPostgreSQL) UpdateComplaintStatus(ctx context.Context, id uint, status models.ComplaintStatus, resolvedBy string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&models.Complaint{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"resolved_by": resolvedBy,
			"resolved_at": now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update complaint status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetOpenComplaints lists open complaints for an outlet's reviews
func (r *ReviewPostgreSQL) GetOpenComplaints(ctx context.Context, outletID uint, limit, offset int) ([]*models.Complaint, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Complaint{}).
		Joins("JOIN reviews ON reviews.id = complaints.review_id").
		Where("reviews.outlet_id = ? AND complaints.status = ?", outletID, models.ComplaintOpen)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = r.helpers.ApplyPagination(query, limit, offset)

	var complaints []*models.Complaint
	if err := query.Order("complaints.created_at ASC").Find(&complaints).Error; err != nil {
		return nil, 0, err
	}
	return complaints, total, nil
}

// GetOutletRating recomputes the rating aggregate from stored reviews
func (r *ReviewPostgreSQL) GetOutletRating(ctx context.Context, outletID uint) (*repositories.RatingAggregate, error) {
	type row struct {
		Average *float64
		Count   int
	}
	var res row
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("outlet_id = ? AND rating > 0", outletID).
		Select("AVG(rating) AS average, COUNT(*) AS count").
		Scan(&res).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate rating: %w", err)
	}

	agg := &repositories.RatingAggregate{OutletID: outletID, Count: res.Count}
	if res.Average != nil {
		agg.Average = *res.Average
	}
	return agg, nil
}

func (r *ReviewPostgreSQL) applyFilters(query *gorm.DB, filters repositories.ReviewFilters) *gorm.DB {
	if filters.FormID != nil {
		query = query.Where("form_id = ?", *filters.FormID)
	}
	if filters.OutletID != nil {
		query = query.Where("outlet_id = ?", *filters.OutletID)
	}
	if filters.ComplaintStatus != nil {
		query = query.Joins("JOIN complaints ON complaints.review_id = reviews.id").
			Where("complaints.status = ?", *filters.ComplaintStatus)
	}
	if filters.RatingMin != nil {
		query = query.Where("rating >= ?", *filters.RatingMin)
	}
	if filters.RatingMax != nil {
		query = query.Where("rating <= ?", *filters.RatingMax)
	}
	if filters.DateFrom != nil {
		query = query.Where("submitted_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("submitted_at <= ?", *filters.DateTo)
	}
	return query
}
