package postgres

import (
	"context"
	"fmt"

	"github.com/zamzam-app/feedback-service/internal/models"
	"github.com/zamzam-app/feedback-service/internal/repositories"
	"gorm.io/gorm"
)

type OutletPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewOutletPostgreSQL(db *gorm.DB) repositories.OutletRepository {
	return &OutletPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

var outletSortColumns = map[string]bool{
	"created_at": true,
	"name":       true,
	"rating_avg": true,
}

// Create creates a new outlet
func (o *OutletPostgreSQL) Create(ctx context.Context, outlet *models.Outlet) error {
	if outlet.Capabilities == nil {
		outlet.Capabilities = models.CapabilitySet{}
	}
	if err := o.db.WithContext(ctx).Create(outlet).Error; err != nil {
		return fmt.Errorf("failed to create outlet: %w", err)
	}
	return nil
}

// GetByID retrieves an outlet by ID
func (o *OutletPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Outlet, error) {
	var outlet models.Outlet
	if err := o.db.WithContext(ctx).First(&outlet, id).Error; err != nil {
		return nil, err
	}
	return &outlet, nil
}

// Update updates an outlet
func (o *OutletPostgreSQL) Update(ctx context.Context, outlet *models.Outlet) error {
	if err := o.db.WithContext(ctx).Save(outlet).Error; err != nil {
		return fmt.Errorf("failed to update outlet: %w", err)
	}
	return nil
}

// Delete soft deletes an outlet
func (o *OutletPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := o.db.WithContext(ctx).Delete(&models.Outlet{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete outlet: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List retrieves outlets with filters and pagination
func (o *OutletPostgreSQL) List(ctx context.Context, filters repositories.OutletFilters) ([]*models.Outlet, int64, error) {
	query := o.db.WithContext(ctx).Model(&models.Outlet{})
	query = o.applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = o.helpers.ApplySort(query, filters.SortBy, filters.SortOrder, outletSortColumns)
	query = o.helpers.ApplyPagination(query, filters.Limit, filters.Offset)

	var outlets []*models.Outlet
	if err := query.Find(&outlets).Error; err != nil {
		return nil, 0, err
	}
	return outlets, total, nil
}

// GetByManager retrieves outlets assigned to a manager
func (o *OutletPostgreSQL) GetByManager(ctx context.Context, managerID string) ([]*models.Outlet, error) {
	var outlets []*models.Outlet
	err := o.db.WithContext(ctx).
		Where("manager_id = ?", managerID).
		Order("name ASC").
		Find(&outlets).Error
	if err != nil {
		return nil, err
	}
	return outlets, nil
}

// GetByCapability retrieves outlets carrying a capability tag. The
// check is jsonb containment, not name matching.
func (o *OutletPostgreSQL) GetByCapability(ctx context.Context, tag models.CapabilityTag, filters repositories.OutletFilters) ([]*models.Outlet, int64, error) {
	filters.Capability = &tag
	return o.List(ctx, filters)
}

// GetByQRToken resolves a scanned QR token to its outlet
func (o *OutletPostgreSQL) GetByQRToken(ctx context.Context, token string) (*models.Outlet, error) {
	var outlet models.Outlet
	err := o.db.WithContext(ctx).
		Where("qr_token = ?", token).
		First(&outlet).Error
	if err != nil {
		return nil, err
	}
	return &outlet, nil
}

// SetQRToken overwrites the outlet's QR token; the previous token
// stops resolving immediately.
func (o *OutletPostgreSQL) SetQRToken(ctx context.Context, id uint, token string) error {
	result := o.db.WithContext(ctx).Model(&models.Outlet{}).
		Where("id = ?", id).
		Update("qr_token", token)
	if result.Error != nil {
		return fmt.Errorf("failed to set qr token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AssignManager sets or clears the outlet's manager
func (o *OutletPostgreSQL) AssignManager(ctx context.Context, id uint, managerID *string) error {
	result := o.db.WithContext(ctx).Model(&models.Outlet{}).
		Where("id = ?", id).
		Update("manager_id", managerID)
	if result.Error != nil {
		return fmt.Errorf("failed to assign manager: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateRating writes the maintained rating aggregate
func (o *OutletPostgreSQL) UpdateRating(ctx context.Context, id uint, avg float64, count int) error {
	result := o.db.WithContext(ctx).Model(&models.Outlet{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"rating_avg":   avg,
			"rating_count": count,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update rating: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetStats aggregates fleet-level counts
func (o *OutletPostgreSQL) GetStats(ctx context.Context) (*repositories.OutletStats, error) {
	stats := &repositories.OutletStats{}

	var total int64
	if err := o.db.WithContext(ctx).Model(&models.Outlet{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count outlets: %w", err)
	}
	stats.TotalOutlets = int(total)

	var managed int64
	if err := o.db.WithContext(ctx).Model(&models.Outlet{}).
		Where("manager_id IS NOT NULL").
		Count(&managed).Error; err != nil {
		return nil, fmt.Errorf("failed to count managed outlets: %w", err)
	}
	stats.ManagedOutlets = int(managed)

	var reviews int64
	if err := o.db.WithContext(ctx).Model(&models.Review{}).Count(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}
	stats.TotalReviews = int(reviews)

	var open int64
	if err := o.db.WithContext(ctx).Model(&models.Complaint{}).
		Where("status = ?", models.ComplaintOpen).
		Count(&open).Error; err != nil {
		return nil, fmt.Errorf("failed to count open complaints: %w", err)
	}
	stats.OpenComplaints = int(open)

	return stats, nil
}

func (o *OutletPostgreSQL) applyFilters(query *gorm.DB, filters repositories.OutletFilters) *gorm.DB {
	if filters.Capability != nil {
		query = query.Where("capabilities @> ?", fmt.Sprintf(`["%s"]`, *filters.Capability))
	}
	if filters.ManagerID != nil {
		query = query.Where("manager_id = ?", *filters.ManagerID)
	}
	return query
}
