package postgres

import (
	"context"
	"fmt"

	"github.com/zamzam-app/feedback-service/internal/repositories"
	"gorm.io/gorm"
)

// Repository bundles the per-entity stores over one *gorm.DB. The
// transaction variant shares a tx-scoped DB across all of them.
type Repository struct {
	db     *gorm.DB
	form   repositories.FormRepository
	outlet repositories.OutletRepository
	review repositories.ReviewRepository
	user   repositories.UserRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &Repository{
		db:     db,
		form:   NewFormPostgreSQL(db),
		outlet: NewOutletPostgreSQL(db),
		review: NewReviewPostgreSQL(db),
		user:   NewUserPostgreSQL(db),
	}
}

func (r *Repository) Form() repositories.FormRepository     { return r.form }
func (r *Repository) Outlet() repositories.OutletRepository { return r.outlet }
func (r *Repository) Review() repositories.ReviewRepository { return r.review }
func (r *Repository) User() repositories.UserRepository     { return r.user }

// WithTransaction runs fn against a transaction-scoped Repository.
func (r *Repository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.Close()
}

// SharedHelpers carries pagination and ordering defaults reused by
// every store in this package.
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// ApplyPagination applies limit/offset with sane defaults.
func (h *SharedHelpers) ApplyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return query.Limit(limit).Offset(offset)
}

// ApplySort applies ordering from a whitelist of sortable columns.
func (h *SharedHelpers) ApplySort(query *gorm.DB, sortBy, sortOrder string, allowed map[string]bool) *gorm.DB {
	if !allowed[sortBy] {
		sortBy = "created_at"
	}
	if sortOrder != "asc" {
		sortOrder = "desc"
	}
	return query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))
}
