package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/zamzam-app/feedback-service/internal/cache"
	"github.com/zamzam-app/feedback-service/internal/models"
	"github.com/zamzam-app/feedback-service/internal/repositories"
)

// MockFormRepository is a mock implementation of FormRepository
type MockFormRepository struct {
	mock.Mock
}

func (m *MockFormRepository) Create(ctx context.Context, form *models.Form) error {
	args := m.Called(ctx, form)
	return args.Error(0)
}

func (m *MockFormRepository) GetByID(ctx context.Context, id uint) (*models.Form, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Form), args.Error(1)
}

func (m *MockFormRepository) Update(ctx context.Context, form *models.Form) error {
	args := m.Called(ctx, form)
	return args.Error(0)
}

func (m *MockFormRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFormRepository) List(ctx context.Context, filters repositories.FormFilters) ([]*models.Form, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Form), args.Get(1).(int64), args.Error(2)
}

func (m *MockFormRepository) GetByCreator(ctx context.Context, creatorID string, filters repositories.FormFilters) ([]*models.Form, int64, error) {
	args := m.Called(ctx, creatorID, filters)
	return args.Get(0).([]*models.Form), args.Get(1).(int64), args.Error(2)
}

func (m *MockFormRepository) Search(ctx context.Context, query string, filters repositories.FormFilters) ([]*models.Form, int64, error) {
	args := m.Called(ctx, query, filters)
	return args.Get(0).([]*models.Form), args.Get(1).(int64), args.Error(2)
}

func (m *MockFormRepository) Exists(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockFormRepository) HasResponses(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockFormRepository) GetStats(ctx context.Context, id uint) (*repositories.FormStats, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.FormStats), args.Error(1)
}

func (m *MockFormRepository) CountResponses(ctx context.Context, ids []uint) (map[uint]int, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]int), args.Error(1)
}

// MockReviewRepository is a mock implementation of ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) GetByIDWithComplaints(ctx context.Context, id uint) (*models.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByForm(ctx context.Context, formID uint, filters repositories.ReviewFilters) ([]*models.Review, int64, error) {
	args := m.Called(ctx, formID, filters)
	return args.Get(0).([]*models.Review), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewRepository) GetAllByForm(ctx context.Context, formID uint) ([]*models.Review, error) {
	args := m.Called(ctx, formID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Review), args.Error(1)
}

func (m *MockReviewRepository) GetByOutlet(ctx context.Context, outletID uint, filters repositories.ReviewFilters) ([]*models.Review, int64, error) {
	args := m.Called(ctx, outletID, filters)
	return args.Get(0).([]*models.Review), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewRepository) CreateComplaint(ctx context.Context, complaint *models.Complaint) error {
	args := m.Called(ctx, complaint)
	return args.Error(0)
}

func (m *MockReviewRepository) GetComplaint(ctx context.Context, id uint) (*models.Complaint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockReviewRepository) GetComplaintByQuestion(ctx context.Context, reviewID uint, questionID string) (*models.Complaint, error) {
	args := m.Called(ctx, reviewID, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockReviewRepository) UpdateComplaintStatus(ctx context.Context, id uint, status models.ComplaintStatus, resolvedBy string) error {
	args := m.Called(ctx, id, status, resolvedBy)
	return args.Error(0)
}

func (m *MockReviewRepository) GetOpenComplaints(ctx context.Context, outletID uint, limit, offset int) ([]*models.Complaint, int64, error) {
	args := m.Called(ctx, outletID, limit, offset)
	return args.Get(0).([]*models.Complaint), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewRepository) GetOutletRating(ctx context.Context, outletID uint) (*repositories.RatingAggregate, error) {
	args := m.Called(ctx, outletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.RatingAggregate), args.Error(1)
}

// MockOutletRepository is a mock implementation of OutletRepository
type MockOutletRepository struct {
	mock.Mock
}

func (m *MockOutletRepository) Create(ctx context.Context, outlet *models.Outlet) error {
	args := m.Called(ctx, outlet)
	return args.Error(0)
}

func (m *MockOutletRepository) GetByID(ctx context.Context, id uint) (*models.Outlet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Outlet), args.Error(1)
}

func (m *MockOutletRepository) Update(ctx context.Context, outlet *models.Outlet) error {
	args := m.Called(ctx, outlet)
	return args.Error(0)
}

func (m *MockOutletRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutletRepository) List(ctx context.Context, filters repositories.OutletFilters) ([]*models.Outlet, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Outlet), args.Get(1).(int64), args.Error(2)
}

func (m *MockOutletRepository) GetByManager(ctx context.Context, managerID string) ([]*models.Outlet, error) {
	args := m.Called(ctx, managerID)
	return args.Get(0).([]*models.Outlet), args.Error(1)
}

func (m *MockOutletRepository) GetByCapability(ctx context.Context, tag models.CapabilityTag, filters repositories.OutletFilters) ([]*models.Outlet, int64, error) {
	args := m.Called(ctx, tag, filters)
	return args.Get(0).([]*models.Outlet), args.Get(1).(int64), args.Error(2)
}

func (m *MockOutletRepository) GetByQRToken(ctx context.Context, token string) (*models.Outlet, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Outlet), args.Error(1)
}

func (m *MockOutletRepository) SetQRToken(ctx context.Context, id uint, token string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

func (m *MockOutletRepository) AssignManager(ctx context.Context, id uint, managerID *string) error {
	args := m.Called(ctx, id, managerID)
	return args.Error(0)
}

func (m *MockOutletRepository) UpdateRating(ctx context.Context, id uint, avg float64, count int) error {
	args := m.Called(ctx, id, avg, count)
	return args.Error(0)
}

func (m *MockOutletRepository) GetStats(ctx context.Context) (*repositories.OutletStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.OutletStats), args.Error(1)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) GetByRole(ctx context.Context, role models.UserRole, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, role, limit, offset)
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) HasRole(ctx context.Context, id string, role models.UserRole) (bool, error) {
	args := m.Called(ctx, id, role)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id string, loginTime time.Time) error {
	args := m.Called(ctx, id, loginTime)
	return args.Error(0)
}

// MockRepository aggregates the entity mocks behind the Repository
// interface. WithTransaction runs the callback against the same mocks,
// so expectations set on them cover transactional calls too.
type MockRepository struct {
	formRepo   *MockFormRepository
	reviewRepo *MockReviewRepository
	outletRepo *MockOutletRepository
	userRepo   *MockUserRepository
}

func newMockRepository() *MockRepository {
	return &MockRepository{
		formRepo:   &MockFormRepository{},
		reviewRepo: &MockReviewRepository{},
		outletRepo: &MockOutletRepository{},
		userRepo:   &MockUserRepository{},
	}
}

func (m *MockRepository) Form() repositories.FormRepository     { return m.formRepo }
func (m *MockRepository) Review() repositories.ReviewRepository { return m.reviewRepo }
func (m *MockRepository) Outlet() repositories.OutletRepository { return m.outletRepo }
func (m *MockRepository) User() repositories.UserRepository     { return m.userRepo }

func (m *MockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *MockRepository) Ping(ctx context.Context) error { return nil }
func (m *MockRepository) Close() error                   { return nil }

// stubCache is an in-memory CacheService that records invalidations.
type stubCache struct {
	mu              sync.Mutex
	entries         map[string][]byte
	deleted         []string
	deletedPatterns []string
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string][]byte)}
}

func (c *stubCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = data
	return nil
}

func (c *stubCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	data, ok := c.entries[key]
	c.mu.Unlock()
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *stubCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	c.deleted = append(c.deleted, key)
	return nil
}

func (c *stubCache) DeletePattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	c.deletedPatterns = append(c.deletedPatterns, pattern)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
