package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/zamzam-app/feedback-service/internal/auth"
	"github.com/zamzam-app/feedback-service/internal/cache"
	"github.com/zamzam-app/feedback-service/internal/events"
	"github.com/zamzam-app/feedback-service/internal/forms"
	"github.com/zamzam-app/feedback-service/internal/models"
	"github.com/zamzam-app/feedback-service/internal/repositories"
	"github.com/zamzam-app/feedback-service/internal/validator"
)

// ===== SERVICE INTERFACES =====

type FormService interface {
	Create(ctx context.Context, session *auth.Session) (*models.Form, error)
	GetByID(ctx context.Context, id uint) (*models.Form, error)
	List(ctx context.Context, filters repositories.FormFilters) (*FormListResponse, error)
	Save(ctx context.Context, id uint, req *SaveFormRequest, session *auth.Session) (*models.Form, error)
	Delete(ctx context.Context, id uint, session *auth.Session) error
	GetStats(ctx context.Context, id uint) (*repositories.FormStats, error)
}

type ReviewService interface {
	Submit(ctx context.Context, formID uint, req *SubmitReviewRequest) (*models.Review, error)
	GetByID(ctx context.Context, id uint) (*models.Review, error)
	ListByForm(ctx context.Context, formID uint, filters repositories.ReviewFilters) (*ReviewListResponse, error)
	ListByOutlet(ctx context.Context, outletID uint, filters repositories.ReviewFilters) (*ReviewListResponse, error)
	Delete(ctx context.Context, id uint, session *auth.Session) error
	OpenComplaint(ctx context.Context, reviewID uint, req *OpenComplaintRequest, session *auth.Session) (*models.Complaint, error)
	ResolveComplaint(ctx context.Context, reviewID uint, questionID string, session *auth.Session) (*models.Complaint, error)
	DismissComplaint(ctx context.Context, reviewID uint, questionID string, session *auth.Session) (*models.Complaint, error)
	OpenComplaints(ctx context.Context, outletID uint) ([]models.Complaint, error)
	OutletRating(ctx context.Context, outletID uint) (*repositories.RatingAggregate, error)
}

type OutletService interface {
	Create(ctx context.Context, req *CreateOutletRequest, session *auth.Session) (*models.Outlet, error)
	GetByID(ctx context.Context, id uint) (*models.Outlet, error)
	List(ctx context.Context, filters repositories.OutletFilters) (*OutletListResponse, error)
	Update(ctx context.Context, id uint, req *UpdateOutletRequest, session *auth.Session) (*models.Outlet, error)
	Delete(ctx context.Context, id uint, session *auth.Session) error
	AssignManager(ctx context.Context, id uint, managerID string, session *auth.Session) error
	IssueQRToken(ctx context.Context, id uint, session *auth.Session) (string, error)
	ResolveQRToken(ctx context.Context, token string) (*QRResolution, error)
	GetStats(ctx context.Context) (*repositories.OutletStats, error)
}

type UserService interface {
	Create(ctx context.Context, req *CreateUserRequest, session *auth.Session) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error)
	Update(ctx context.Context, id string, req *UpdateUserRequest, session *auth.Session) (*models.User, error)
	Deactivate(ctx context.Context, id string, session *auth.Session) error
	RecordLogin(ctx context.Context, id string) error
}

type ExportService interface {
	ExportResponses(ctx context.Context, formID uint, format ExportFormat, w io.Writer) error
}

type UploadService interface {
	SignUpload(ctx context.Context, req *SignUploadRequest, session *auth.Session) (*models.UploadTicket, error)
}

// ===== REQUEST / RESPONSE TYPES =====

type SaveFormRequest struct {
	Title     string            `json:"title" validate:"required,min=1,max=255"`
	Questions []models.Question `json:"questions" validate:"required"`
}

type FormListResponse struct {
	Forms []models.FormSummary `json:"forms"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Size  int                  `json:"size"`
}

type SubmitReviewRequest struct {
	OutletID    uint           `json:"outlet_id" validate:"required"`
	Answers     forms.Response `json:"answers" validate:"required"`
	SubmittedBy string         `json:"submitted_by,omitempty"`
}

type ReviewListResponse struct {
	Reviews []models.Review `json:"reviews"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	Size    int             `json:"size"`
}

type OpenComplaintRequest struct {
	QuestionID string `json:"question_id" validate:"required"`
	Note       string `json:"note" validate:"max=2000"`
}

type CreateOutletRequest struct {
	Name         string   `json:"name" validate:"required,min=1,max=255"`
	Address      string   `json:"address" validate:"max=500"`
	Capabilities []string `json:"capabilities" validate:"dive,capability_tag"`
	FormID       *uint    `json:"form_id,omitempty"`
}

type UpdateOutletRequest struct {
	Name         *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Address      *string  `json:"address,omitempty" validate:"omitempty,max=500"`
	Capabilities []string `json:"capabilities,omitempty" validate:"omitempty,dive,capability_tag"`
	FormID       *uint    `json:"form_id,omitempty"`
}

type OutletListResponse struct {
	Outlets []models.Outlet `json:"outlets"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	Size    int             `json:"size"`
}

// QRResolution is what a scanned QR code resolves to: the outlet and
// the feedback form it currently collects responses with.
type QRResolution struct {
	Outlet *models.Outlet `json:"outlet"`
	Form   *models.Form   `json:"form"`
}

type CreateUserRequest struct {
	ID          string          `json:"id" validate:"required"`
	FullName    string          `json:"full_name" validate:"required,min=1,max=255"`
	Email       string          `json:"email" validate:"required,email"`
	Role        models.UserRole `json:"role" validate:"required,user_role"`
	PhoneNumber string          `json:"phone_number,omitempty" validate:"max=32"`
	Language    string          `json:"language,omitempty" validate:"max=8"`
}

type UpdateUserRequest struct {
	FullName    *string          `json:"full_name,omitempty" validate:"omitempty,min=1,max=255"`
	Role        *models.UserRole `json:"role,omitempty" validate:"omitempty,user_role"`
	AvatarURL   *string          `json:"avatar_url,omitempty" validate:"omitempty,url"`
	PhoneNumber *string          `json:"phone_number,omitempty" validate:"omitempty,max=32"`
	Language    *string          `json:"language,omitempty" validate:"omitempty,max=8"`
}

type UserListResponse struct {
	Users []models.User `json:"users"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Size  int           `json:"size"`
}

type ExportFormat string

const (
	ExportFormatXLSX ExportFormat = "xlsx"
	ExportFormatCSV  ExportFormat = "csv"
)

type SignUploadRequest struct {
	FileName    string `json:"file_name" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required,max=128"`
	SizeBytes   int64  `json:"size_bytes" validate:"required,min=1,max=10485760"`
}

// ===== SERVICE MANAGER =====

// ServiceManager bundles all services for handler wiring.
type ServiceManager interface {
	Form() FormService
	Review() ReviewService
	Outlet() OutletService
	User() UserService
	Export() ExportService
	Upload() UploadService
}

type serviceManager struct {
	form   FormService
	review ReviewService
	outlet OutletService
	user   UserService
	export ExportService
	upload UploadService
}

type Dependencies struct {
	Repo      repositories.Repository
	Logger    *slog.Logger
	Validator *validator.Validator
	Cache     cache.CacheService
	Publisher events.EventPublisher
	Uploads   UploadSignerConfig
}

func NewServiceManager(deps Dependencies) ServiceManager {
	formSvc := NewFormService(deps.Repo, deps.Logger, deps.Validator, deps.Cache)
	return &serviceManager{
		form:   formSvc,
		review: NewReviewService(deps.Repo, deps.Logger, deps.Validator, deps.Cache, deps.Publisher),
		outlet: NewOutletService(deps.Repo, deps.Logger, deps.Validator, deps.Cache, deps.Publisher),
		user:   NewUserService(deps.Repo, deps.Logger, deps.Validator),
		export: NewExportService(deps.Repo, deps.Logger),
		upload: NewUploadService(deps.Logger, deps.Validator, deps.Uploads),
	}
}

func (m *serviceManager) Form() FormService     { return m.form }
func (m *serviceManager) Review() ReviewService { return m.review }
func (m *serviceManager) Outlet() OutletService { return m.outlet }
func (m *serviceManager) User() UserService     { return m.user }
func (m *serviceManager) Export() ExportService { return m.export }
func (m *serviceManager) Upload() UploadService { return m.upload }
