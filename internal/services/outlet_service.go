package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/zamzam-app/feedback-service/internal/auth"
	"github.com/zamzam-app/feedback-service/internal/cache"
	"github.com/zamzam-app/feedback-service/internal/events"
	"github.com/zamzam-app/feedback-service/internal/models"
	"github.com/zamzam-app/feedback-service/internal/repositories"
	"github.com/zamzam-app/feedback-service/internal/validator"
)

const qrResolutionCacheTTL = 10 * time.Minute

type outletService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	cache     cache.CacheService
	publisher events.EventPublisher
}

func NewOutletService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, c cache.CacheService, publisher events.EventPublisher) OutletService {
	return &outletService{
		repo:      repo,
		logger:    logger,
		validator: v,
		cache:     c,
		publisher: publisher,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *outletService) Create(ctx context.Context, req *CreateOutletRequest, session *auth.Session) (*models.Outlet, error) {
	s.logger.Info("Creating outlet", "name", req.Name, "user_id", session.UserID)

	if !session.CanManage() {
		return nil, NewPermissionError(session.UserID, 0, "outlet", "create", "manager role required")
	}
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	capabilities, err := toCapabilitySet(req.Capabilities)
	if err != nil {
		return nil, err
	}

	if req.FormID != nil {
		exists, err := s.repo.Form().Exists(ctx, *req.FormID)
		if err != nil {
			return nil, fmt.Errorf("failed to check form existence: %w", err)
		}
		if !exists {
			return nil, ErrFormNotFound
		}
	}

	outlet := &models.Outlet{
		Name:         req.Name,
		Address:      req.Address,
		Capabilities: capabilities,
		FormID:       req.FormID,
	}
	if err := s.repo.Outlet().Create(ctx, outlet); err != nil {
		return nil, fmt.Errorf("failed to create outlet: %w", err)
	}

	s.invalidateListCache(ctx)
	s.logger.Info("Outlet created", "outlet_id", outlet.ID)

	return outlet, nil
}

// GetByID returns one outlet from cache or storage. Outlet writes and
// incoming reviews clear "outlets:*", which covers this key.
func (s *outletService) GetByID(ctx context.Context, id uint) (*models.Outlet, error) {
	var cached models.Outlet
	if err := s.cache.Get(ctx, cache.OutletKey(id), &cached); err == nil {
		return &cached, nil
	}

	outlet, err := s.repo.Outlet().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrOutletNotFound
		}
		return nil, fmt.Errorf("failed to get outlet: %w", err)
	}

	if err := s.cache.Set(ctx, cache.OutletKey(id), outlet, formListCacheTTL); err != nil {
		s.logger.Warn("Failed to cache outlet", "outlet_id", id, "error", err)
	}
	return outlet, nil
}

func (s *outletService) List(ctx context.Context, filters repositories.OutletFilters) (*OutletListResponse, error) {
	cacheable := filters == repositories.OutletFilters{}
	if cacheable {
		var cached OutletListResponse
		if err := s.cache.Get(ctx, cache.OutletListKey, &cached); err == nil {
			return &cached, nil
		}
	}

	results, total, err := s.repo.Outlet().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list outlets: %w", err)
	}

	outlets := make([]models.Outlet, len(results))
	for i, o := range results {
		outlets[i] = *o
	}
	response := &OutletListResponse{
		Outlets: outlets,
		Total:   total,
		Page:    pageFromOffset(filters.Offset, filters.Limit),
		Size:    len(outlets),
	}

	if cacheable {
		if err := s.cache.Set(ctx, cache.OutletListKey, response, formListCacheTTL); err != nil {
			s.logger.Warn("Failed to cache outlet list", "error", err)
		}
	}

	return response, nil
}

func (s *outletService) Update(ctx context.Context, id uint, req *UpdateOutletRequest, session *auth.Session) (*models.Outlet, error) {
	if !session.CanManage() {
		return nil, NewPermissionError(session.UserID, id, "outlet", "update", "manager role required")
	}
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	outlet, err := s.repo.Outlet().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrOutletNotFound
		}
		return nil, fmt.Errorf("failed to get outlet: %w", err)
	}

	if req.Name != nil {
		outlet.Name = *req.Name
	}
	if req.Address != nil {
		outlet.Address = *req.Address
	}
	if req.Capabilities != nil {
		capabilities, err := toCapabilitySet(req.Capabilities)
		if err != nil {
			return nil, err
		}
		outlet.Capabilities = capabilities
	}
	if req.FormID != nil {
		exists, err := s.repo.Form().Exists(ctx, *req.FormID)
		if err != nil {
			return nil, fmt.Errorf("failed to check form existence: %w", err)
		}
		if !exists {
			return nil, ErrFormNotFound
		}
		outlet.FormID = req.FormID
	}

	if err := s.repo.Outlet().Update(ctx, outlet); err != nil {
		return nil, fmt.Errorf("failed to update outlet: %w", err)
	}

	s.invalidateOutletCache(ctx, outlet)
	s.logger.Info("Outlet updated", "outlet_id", id, "user_id", session.UserID)

	return outlet, nil
}

func (s *outletService) Delete(ctx context.Context, id uint, session *auth.Session) error {
	if !session.IsAdmin() {
		return NewPermissionError(session.UserID, id, "outlet", "delete", "admin role required")
	}

	outlet, err := s.repo.Outlet().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrOutletNotFound
		}
		return fmt.Errorf("failed to get outlet: %w", err)
	}
	if outlet.RatingCount > 0 {
		return ErrOutletHasReviews
	}

	if err := s.repo.Outlet().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete outlet: %w", err)
	}

	s.invalidateOutletCache(ctx, outlet)
	s.logger.Info("Outlet deleted", "outlet_id", id, "user_id", session.UserID)

	return nil
}

func (s *outletService) AssignManager(ctx context.Context, id uint, managerID string, session *auth.Session) error {
	if !session.IsAdmin() {
		return NewPermissionError(session.UserID, id, "outlet", "assign_manager", "admin role required")
	}

	isManager, err := s.repo.User().HasRole(ctx, managerID, models.RoleManager)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to check manager role: %w", err)
	}
	if !isManager {
		return ErrInvalidRole
	}

	if err := s.repo.Outlet().AssignManager(ctx, id, &managerID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrOutletNotFound
		}
		return fmt.Errorf("failed to assign manager: %w", err)
	}

	s.invalidateListCache(ctx)
	s.logger.Info("Manager assigned", "outlet_id", id, "manager_id", managerID)

	return nil
}

// ===== QR TOKENS =====

// IssueQRToken mints a fresh token for the outlet, replacing any
// previous one. The old token's cached resolution is invalidated so a
// stale poster stops resolving immediately.
func (s *outletService) IssueQRToken(ctx context.Context, id uint, session *auth.Session) (string, error) {
	if !session.CanManage() {
		return "", NewPermissionError(session.UserID, id, "outlet", "issue_qr", "manager role required")
	}

	outlet, err := s.repo.Outlet().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return "", ErrOutletNotFound
		}
		return "", fmt.Errorf("failed to get outlet: %w", err)
	}

	token := uuid.NewString()
	if err := s.repo.Outlet().SetQRToken(ctx, id, token); err != nil {
		return "", fmt.Errorf("failed to set qr token: %w", err)
	}

	if outlet.QRToken != "" {
		if err := s.cache.Delete(ctx, cache.QRTokenKey(outlet.QRToken)); err != nil {
			s.logger.Warn("Failed to invalidate old qr token", "outlet_id", id, "error", err)
		}
	}

	s.publish(ctx, events.NewQRTokenIssuedEvent(id, token, session.UserID))
	s.logger.Info("QR token issued", "outlet_id", id, "user_id", session.UserID)

	return token, nil
}

// ResolveQRToken maps a scanned token to its outlet and the form the
// outlet collects feedback with. This is the hot path behind the
// public QR landing page, so resolutions are cached.
func (s *outletService) ResolveQRToken(ctx context.Context, token string) (*QRResolution, error) {
	var cached QRResolution
	if err := s.cache.Get(ctx, cache.QRTokenKey(token), &cached); err == nil {
		return &cached, nil
	}

	outlet, err := s.repo.Outlet().GetByQRToken(ctx, token)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQRTokenNotFound
		}
		return nil, fmt.Errorf("failed to resolve qr token: %w", err)
	}
	if outlet.FormID == nil {
		return nil, ErrOutletNoForm
	}

	form, err := s.repo.Form().GetByID(ctx, *outlet.FormID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrOutletNoForm
		}
		return nil, fmt.Errorf("failed to get outlet form: %w", err)
	}
	form.Normalize()

	resolution := &QRResolution{Outlet: outlet, Form: form}
	if err := s.cache.Set(ctx, cache.QRTokenKey(token), resolution, qrResolutionCacheTTL); err != nil {
		s.logger.Warn("Failed to cache qr resolution", "error", err)
	}

	return resolution, nil
}

func (s *outletService) GetStats(ctx context.Context) (*repositories.OutletStats, error) {
	stats, err := s.repo.Outlet().GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get outlet stats: %w", err)
	}
	return stats, nil
}

// ===== HELPERS =====

func toCapabilitySet(tags []string) (models.CapabilitySet, error) {
	set := make(models.CapabilitySet, 0, len(tags))
	for _, tag := range tags {
		capability := models.CapabilityTag(tag)
		if !capability.Valid() {
			return nil, ErrInvalidCapability
		}
		if set.Has(capability) {
			continue
		}
		set = append(set, capability)
	}
	return set, nil
}

func (s *outletService) invalidateListCache(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, cache.OutletListPattern); err != nil {
		s.logger.Warn("Failed to invalidate outlet cache", "error", err)
	}
}

func (s *outletService) invalidateOutletCache(ctx context.Context, outlet *models.Outlet) {
	s.invalidateListCache(ctx)
	if outlet.QRToken != "" {
		if err := s.cache.Delete(ctx, cache.QRTokenKey(outlet.QRToken)); err != nil {
			s.logger.Warn("Failed to invalidate qr token cache", "outlet_id", outlet.ID, "error", err)
		}
	}
}

func (s *outletService) publish(ctx context.Context, event *events.Event) {
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish event", "event_type", event.Type, "error", err)
	}
}
