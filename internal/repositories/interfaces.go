package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/zamzam-app/feedback-service/internal/models"
	"gorm.io/gorm"
)

// Repository is the aggregate access point the service layer depends
// on. WithTransaction yields a transaction-scoped Repository; all
// writes inside the callback commit or roll back together.
type Repository interface {
	Form() FormRepository
	Outlet() OutletRepository
	Review() ReviewRepository
	User() UserRepository

	WithTransaction(ctx context.Context, fn func(Repository) error) error
	Ping(ctx context.Context) error
	Close() error
}

// IsNotFoundError reports whether err is the storage-level "no rows"
// condition, so services can map it to their own sentinel errors.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// ===== SHARED FILTER STRUCTS =====

type FormFilters struct {
	CreatedBy *string    `json:"created_by"`
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
	SortBy    string     `json:"sort_by"`    // "created_at", "title", "updated_at"
	SortOrder string     `json:"sort_order"` // "asc", "desc"
}

type ReviewFilters struct {
	FormID          *uint                   `json:"form_id"`
	OutletID        *uint                   `json:"outlet_id"`
	ComplaintStatus *models.ComplaintStatus `json:"complaint_status"`
	RatingMin       *int                    `json:"rating_min"`
	RatingMax       *int                    `json:"rating_max"`
	DateFrom        *time.Time              `json:"date_from"`
	DateTo          *time.Time              `json:"date_to"`
	Limit           int                     `json:"limit"`
	Offset          int                     `json:"offset"`
}

type OutletFilters struct {
	Capability *models.CapabilityTag `json:"capability"`
	ManagerID  *string               `json:"manager_id"`
	Limit      int                   `json:"limit"`
	Offset     int                   `json:"offset"`
	SortBy     string                `json:"sort_by"`
	SortOrder  string                `json:"sort_order"`
}

type UserFilters struct {
	Role     *models.UserRole `json:"role"`
	IsActive *bool            `json:"is_active"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

type RatingAggregate struct {
	OutletID uint    `json:"outlet_id"`
	Average  float64 `json:"average"`
	Count    int     `json:"count"`
}

type FormStats struct {
	FormID         uint    `json:"form_id"`
	ResponseCount  int     `json:"response_count"`
	ComplaintCount int     `json:"complaint_count"`
	AverageRating  float64 `json:"average_rating"`
}

type OutletStats struct {
	TotalOutlets   int `json:"total_outlets"`
	ManagedOutlets int `json:"managed_outlets"`
	TotalReviews   int `json:"total_reviews"`
	OpenComplaints int `json:"open_complaints"`
}
