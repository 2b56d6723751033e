package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/zamzam-app/feedback-service/internal/auth"
	"github.com/zamzam-app/feedback-service/internal/cache"
	"github.com/zamzam-app/feedback-service/internal/forms"
	"github.com/zamzam-app/feedback-service/internal/models"
	"github.com/zamzam-app/feedback-service/internal/repositories"
	"github.com/zamzam-app/feedback-service/internal/validator"
)

const formListCacheTTL = 5 * time.Minute

type formService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	ops       *ServiceLogger
	validator *validator.Validator
	cache     cache.CacheService
}

func NewFormService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, c cache.CacheService) FormService {
	return &formService{
		repo:      repo,
		logger:    logger,
		ops:       NewServiceLogger(logger, "forms"),
		validator: v,
		cache:     c,
	}
}

// ===== CORE CRUD OPERATIONS =====

// Create inserts a new untitled form. The editor seed (the protected
// rating question) is injected on open, so a freshly created form is
// stored with an empty question list.
func (s *formService) Create(ctx context.Context, session *auth.Session) (*models.Form, error) {
	s.logger.Info("Creating form", "creator_id", session.UserID)

	form := &models.Form{
		Title:     "Untitled Form",
		Questions: models.QuestionList{},
		CreatedBy: session.UserID,
	}

	if err := s.repo.Form().Create(ctx, form); err != nil {
		return nil, fmt.Errorf("failed to create form: %w", err)
	}

	s.invalidateListCache(ctx)
	s.logger.Info("Form created", "form_id", form.ID)

	return form, nil
}

// GetByID returns the full form document, ready for the editor: legacy
// seed ids normalized and the protected rating question present. The
// opened document is cached; any form write clears "forms:*".
func (s *formService) GetByID(ctx context.Context, id uint) (*models.Form, error) {
	var cached models.Form
	if err := s.cache.Get(ctx, cache.FormKey(id), &cached); err == nil {
		return &cached, nil
	}

	form, err := s.repo.Form().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("failed to get form: %w", err)
	}

	opened := forms.Open(*form)
	if err := s.cache.Set(ctx, cache.FormKey(id), &opened, formListCacheTTL); err != nil {
		s.logger.Warn("Failed to cache form", "form_id", id, "error", err)
	}
	return &opened, nil
}

func (s *formService) List(ctx context.Context, filters repositories.FormFilters) (*FormListResponse, error) {
	// The unfiltered first page is the editor landing view; serve it
	// from cache when possible.
	cacheable := filters == repositories.FormFilters{}
	if cacheable {
		var cached FormListResponse
		if err := s.cache.Get(ctx, cache.FormListKey, &cached); err == nil {
			return &cached, nil
		}
	}

	results, total, err := s.repo.Form().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list forms: %w", err)
	}

	ids := make([]uint, len(results))
	for i, f := range results {
		ids[i] = f.ID
	}
	counts, err := s.repo.Form().CountResponses(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count responses: %w", err)
	}

	summaries := make([]models.FormSummary, len(results))
	for i, f := range results {
		f.ResponseCount = counts[f.ID]
		summaries[i] = f.Summary()
	}

	response := &FormListResponse{
		Forms: summaries,
		Total: total,
		Page:  pageFromOffset(filters.Offset, filters.Limit),
		Size:  len(summaries),
	}

	if cacheable {
		if err := s.cache.Set(ctx, cache.FormListKey, response, formListCacheTTL); err != nil {
			s.logger.Warn("Failed to cache form list", "error", err)
		}
	}

	return response, nil
}

// Save persists the whole document. Last write wins; there is no
// conflict detection between concurrent editors.
func (s *formService) Save(ctx context.Context, id uint, req *SaveFormRequest, session *auth.Session) (form *models.Form, err error) {
	op := s.ops.WithOperation(ctx, "save_form", session.UserID)
	defer func() { op.LogResult(id, "form", err) }()

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	stored, err := s.repo.Form().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	stored.Normalize()

	incoming := models.QuestionList(req.Questions)
	if verrs := s.validator.Form().ValidateQuestions(incoming); len(verrs) > 0 {
		return nil, verrs
	}
	if verrs := s.validator.Form().ValidateProtectedTransition(stored.Questions, incoming); len(verrs) > 0 {
		return nil, ErrProtectedQuestion
	}

	stored.Title = req.Title
	stored.Questions = incoming

	if err := s.repo.Form().Update(ctx, stored); err != nil {
		return nil, fmt.Errorf("failed to update form: %w", err)
	}

	s.invalidateListCache(ctx)
	return stored, nil
}

// Delete soft-deletes the form. Confirmation is a client concern; the
// operation itself is a plain delete.
func (s *formService) Delete(ctx context.Context, id uint, session *auth.Session) (err error) {
	op := s.ops.WithOperation(ctx, "delete_form", session.UserID)
	defer func() { op.LogResult(id, "form", err) }()

	exists, err := s.repo.Form().Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check form existence: %w", err)
	}
	if !exists {
		return ErrFormNotFound
	}

	if err := s.repo.Form().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete form: %w", err)
	}

	s.invalidateListCache(ctx)
	return nil
}

func (s *formService) GetStats(ctx context.Context, id uint) (*repositories.FormStats, error) {
	exists, err := s.repo.Form().Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check form existence: %w", err)
	}
	if !exists {
		return nil, ErrFormNotFound
	}

	stats, err := s.repo.Form().GetStats(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get form stats: %w", err)
	}
	return stats, nil
}

// ===== HELPERS =====

func (s *formService) invalidateListCache(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, cache.FormListPattern); err != nil {
		s.logger.Warn("Failed to invalidate form cache", "error", err)
	}
}

func pageFromOffset(offset, limit int) int {
	if limit <= 0 {
		return 1
	}
	return offset/limit + 1
}
