package postgres

import (
	"context"
	"fmt"

	"github.com/zamzam-app/feedback-service/internal/models"
	"github.com/zamzam-app/feedback-service/internal/repositories"
	"gorm.io/gorm"
)

type FormPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewFormPostgreSQL(db *gorm.DB) repositories.FormRepository {
	return &FormPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

var formSortColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"title":      true,
}

// Create creates a new form document
func (f *FormPostgreSQL) Create(ctx context.Context, form *models.Form) error {
	if form.Questions == nil {
		form.Questions = models.QuestionList{}
	}
	if err := f.db.WithContext(ctx).Create(form).Error; err != nil {
		return fmt.Errorf("failed to create form: %w", err)
	}
	return nil
}

// GetByID retrieves a form by ID. Legacy seed-question markers are
// normalized on the way out.
func (f *FormPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Form, error) {
	var form models.Form
	if err := f.db.WithContext(ctx).First(&form, id).Error; err != nil {
		return nil, err
	}
	form.Normalize()
	return &form, nil
}

// Update persists the full document (title + questions). Last write
// wins; there is no conflict detection across sessions.
func (f *FormPostgreSQL) Update(ctx context.Context, form *models.Form) error {
	result := f.db.WithContext(ctx).Model(&models.Form{}).
		Where("id = ?", form.ID).
		Updates(map[string]interface{}{
			"title":     form.Title,
			"questions": form.Questions,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update form: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete soft deletes a form
func (f *FormPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := f.db.WithContext(ctx).Delete(&models.Form{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete form: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List retrieves forms with filters and pagination
func (f *FormPostgreSQL) List(ctx context.Context, filters repositories.FormFilters) ([]*models.Form, int64, error) {
	query := f.db.WithContext(ctx).Model(&models.Form{})
	query = f.applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = f.helpers.ApplySort(query, filters.SortBy, filters.SortOrder, formSortColumns)
	query = f.helpers.ApplyPagination(query, filters.Limit, filters.Offset)

	var forms []*models.Form
	if err := query.Find(&forms).Error; err != nil {
		return nil, 0, err
	}
	for _, form := range forms {
		form.Normalize()
	}
	return forms, total, nil
}

// GetByCreator retrieves forms created by a specific user
func (f *FormPostgreSQL) GetByCreator(ctx context.Context, creatorID string, filters repositories.FormFilters) ([]*models.Form, int64, error) {
	filters.CreatedBy = &creatorID
	return f.List(ctx, filters)
}

// Search performs a title search on forms
func (f *FormPostgreSQL) Search(ctx context.Context, query string, filters repositories.FormFilters) ([]*models.Form, int64, error) {
	db := f.db.WithContext(ctx).Model(&models.Form{})
	if query != "" {
		db = db.Where("title ILIKE ?", fmt.Sprintf("%%%s%%", query))
	}
	db = f.applyFilters(db, filters)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = f.helpers.ApplySort(db, filters.SortBy, filters.SortOrder, formSortColumns)
	db = f.helpers.ApplyPagination(db, filters.Limit, filters.Offset)

	var forms []*models.Form
	if err := db.Find(&forms).Error; err != nil {
		return nil, 0, err
	}
	return forms, total, nil
}

// Exists checks whether a form with the given id exists
func (f *FormPostgreSQL) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := f.db.WithContext(ctx).Model(&models.Form{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// HasResponses checks whether any reviews reference the form
func (f *FormPostgreSQL) HasResponses(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := f.db.WithContext(ctx).Model(&models.Review{}).
		Where("form_id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// GetStats aggregates response and complaint counts for one form
func (f *FormPostgreSQL) GetStats(ctx context.Context, id uint) (*repositories.FormStats, error) {
	stats := &repositories.FormStats{FormID: id}

	var responseCount int64
	if err := f.db.WithContext(ctx).Model(&models.Review{}).
		Where("form_id = ?", id).
		Count(&responseCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count responses: %w", err)
	}
	stats.ResponseCount = int(responseCount)

	var complaintCount int64
	if err := f.db.WithContext(ctx).Model(&models.Complaint{}).
		Joins("JOIN reviews ON reviews.id = complaints.review_id").
		Where("reviews.form_id = ?", id).
		Count(&complaintCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count complaints: %w", err)
	}
	stats.ComplaintCount = int(complaintCount)

	var avg *float64
	if err := f.db.WithContext(ctx).Model(&models.Review{}).
		Where("form_id = ? AND rating > 0", id).
		Select("AVG(rating)").
		Scan(&avg).Error; err != nil {
		return nil, fmt.Errorf("failed to average rating: %w", err)
	}
	if avg != nil {
		stats.AverageRating = *avg
	}

	return stats, nil
}

// CountResponses returns per-form response counts for the given ids
func (f *FormPostgreSQL) CountResponses(ctx context.Context, ids []uint) (map[uint]int, error) {
	counts := make(map[uint]int, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	type row struct {
		FormID uint
		Total  int
	}
	var rows []row
	err := f.db.WithContext(ctx).Model(&models.Review{}).
		Select("form_id, COUNT(*) AS total").
		Where("form_id IN ?", ids).
		Group("form_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count responses: %w", err)
	}

	for _, r := range rows {
		counts[r.FormID] = r.Total
	}
	return counts, nil
}

func (f *FormPostgreSQL) applyFilters(query *gorm.DB, filters repositories.FormFilters) *gorm.DB {
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}
