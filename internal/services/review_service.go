package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/zamzam-app/feedback-service/internal/auth"
	"github.com/zamzam-app/feedback-service/internal/cache"
	"github.com/zamzam-app/feedback-service/internal/events"
	"github.com/zamzam-app/feedback-service/internal/forms"
	"github.com/zamzam-app/feedback-service/internal/models"
	"github.com/zamzam-app/feedback-service/internal/repositories"
	"github.com/zamzam-app/feedback-service/internal/validator"
)

const outletRatingCacheTTL = 5 * time.Minute

type reviewService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	cache     cache.CacheService
	publisher events.EventPublisher
}

func NewReviewService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, c cache.CacheService, publisher events.EventPublisher) ReviewService {
	return &reviewService{
		repo:      repo,
		logger:    logger,
		validator: v,
		cache:     c,
		publisher: publisher,
	}
}

// ===== SUBMISSION =====

// Submit persists a captured response as a review and refreshes the
// outlet rating aggregate in the same transaction.
func (s *reviewService) Submit(ctx context.Context, formID uint, req *SubmitReviewRequest) (*models.Review, error) {
	s.logger.Info("Submitting review", "form_id", formID, "outlet_id", req.OutletID)

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	form, err := s.repo.Form().GetByID(ctx, formID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	form.Normalize()

	outlet, err := s.repo.Outlet().GetByID(ctx, req.OutletID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrOutletNotFound
		}
		return nil, fmt.Errorf("failed to get outlet: %w", err)
	}

	if err := s.checkAnswers(form, req.Answers); err != nil {
		return nil, err
	}

	answersJSON, err := json.Marshal(req.Answers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode answers: %w", err)
	}

	review := &models.Review{
		FormID:      form.ID,
		OutletID:    outlet.ID,
		Answers:     answersJSON,
		Rating:      forms.ExtractRating(*form, req.Answers),
		SubmittedBy: req.SubmittedBy,
		SubmittedAt: time.Now(),
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Review().Create(ctx, review); err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}
		return s.refreshOutletRating(ctx, tx, outlet.ID)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateOutletCache(ctx, outlet.ID)
	s.publish(ctx, events.NewReviewSubmittedEvent(review))
	s.logger.Info("Review submitted", "review_id", review.ID, "rating", review.Rating)

	return review, nil
}

// checkAnswers rejects answers that refer to questions the form does
// not have. Entry shape is the capture layer's concern; the backend
// only pins the document boundary.
func (s *reviewService) checkAnswers(form *models.Form, answers forms.Response) error {
	for questionID := range answers {
		if form.Question(questionID) == nil {
			return ErrReviewFormMismatch
		}
	}
	return nil
}

// ===== QUERIES =====

func (s *reviewService) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	review, err := s.repo.Review().GetByIDWithComplaints(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return review, nil
}

func (s *reviewService) ListByForm(ctx context.Context, formID uint, filters repositories.ReviewFilters) (*ReviewListResponse, error) {
	exists, err := s.repo.Form().Exists(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to check form existence: %w", err)
	}
	if !exists {
		return nil, ErrFormNotFound
	}

	results, total, err := s.repo.Review().GetByForm(ctx, formID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return s.buildListResponse(results, total, filters), nil
}

func (s *reviewService) ListByOutlet(ctx context.Context, outletID uint, filters repositories.ReviewFilters) (*ReviewListResponse, error) {
	results, total, err := s.repo.Review().GetByOutlet(ctx, outletID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return s.buildListResponse(results, total, filters), nil
}

func (s *reviewService) Delete(ctx context.Context, id uint, session *auth.Session) error {
	if !session.CanManage() {
		return NewPermissionError(session.UserID, id, "review", "delete", "manager role required")
	}

	review, err := s.repo.Review().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to get review: %w", err)
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Review().Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete review: %w", err)
		}
		return s.refreshOutletRating(ctx, tx, review.OutletID)
	})
	if err != nil {
		return err
	}

	s.invalidateOutletCache(ctx, review.OutletID)
	s.publish(ctx, events.NewReviewDeletedEvent(review, session.UserID))
	s.logger.Info("Review deleted", "review_id", id, "user_id", session.UserID)

	return nil
}

// ===== COMPLAINTS =====

func (s *reviewService) OpenComplaint(ctx context.Context, reviewID uint, req *OpenComplaintRequest, session *auth.Session) (*models.Complaint, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	review, err := s.repo.Review().GetByID(ctx, reviewID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	form, err := s.repo.Form().GetByID(ctx, review.FormID)
	if err != nil {
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	form.Normalize()
	if form.Question(req.QuestionID) == nil {
		return nil, ErrQuestionNotFound
	}

	existing, err := s.repo.Review().GetComplaintByQuestion(ctx, reviewID, req.QuestionID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check existing complaint: %w", err)
	}
	if existing != nil && existing.Status == models.ComplaintOpen {
		return nil, ErrComplaintAlreadyExists
	}

	complaint := &models.Complaint{
		ReviewID:   reviewID,
		QuestionID: req.QuestionID,
		Note:       req.Note,
		Status:     models.ComplaintOpen,
	}
	if err := s.repo.Review().CreateComplaint(ctx, complaint); err != nil {
		return nil, fmt.Errorf("failed to create complaint: %w", err)
	}

	s.publish(ctx, events.NewComplaintOpenedEvent(complaint, review.OutletID))
	s.logger.Info("Complaint opened", "review_id", reviewID, "question_id", req.QuestionID)

	return complaint, nil
}

func (s *reviewService) ResolveComplaint(ctx context.Context, reviewID uint, questionID string, session *auth.Session) (*models.Complaint, error) {
	return s.closeComplaint(ctx, reviewID, questionID, models.ComplaintResolved, session)
}

func (s *reviewService) DismissComplaint(ctx context.Context, reviewID uint, questionID string, session *auth.Session) (*models.Complaint, error) {
	return s.closeComplaint(ctx, reviewID, questionID, models.ComplaintDismissed, session)
}

func (s *reviewService) closeComplaint(ctx context.Context, reviewID uint, questionID string, status models.ComplaintStatus, session *auth.Session) (*models.Complaint, error) {
	if !session.CanManage() {
		return nil, NewPermissionError(session.UserID, reviewID, "complaint", string(status), "manager role required")
	}

	complaint, err := s.repo.Review().GetComplaintByQuestion(ctx, reviewID, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrComplaintNotFound
		}
		return nil, fmt.Errorf("failed to get complaint: %w", err)
	}
	if complaint.Status != models.ComplaintOpen {
		return nil, ErrComplaintAlreadyClosed
	}

	if err := s.repo.Review().UpdateComplaintStatus(ctx, complaint.ID, status, session.UserID); err != nil {
		return nil, fmt.Errorf("failed to update complaint: %w", err)
	}

	now := time.Now()
	complaint.Status = status
	complaint.ResolvedBy = &session.UserID
	complaint.ResolvedAt = &now

	s.publish(ctx, events.NewComplaintResolvedEvent(complaint, session.UserID))
	s.logger.Info("Complaint closed", "complaint_id", complaint.ID, "status", status, "user_id", session.UserID)

	return complaint, nil
}

func (s *reviewService) OpenComplaints(ctx context.Context, outletID uint) ([]models.Complaint, error) {
	results, _, err := s.repo.Review().GetOpenComplaints(ctx, outletID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list open complaints: %w", err)
	}
	complaints := make([]models.Complaint, len(results))
	for i, c := range results {
		complaints[i] = *c
	}
	return complaints, nil
}

// OutletRating returns the rating aggregate of one outlet. The value
// is cached under "outlets:<id>:rating"; every submission or deletion
// against the outlet deletes that key, so reads after a write recompute.
func (s *reviewService) OutletRating(ctx context.Context, outletID uint) (*repositories.RatingAggregate, error) {
	var cached repositories.RatingAggregate
	if err := s.cache.Get(ctx, cache.OutletRatingKey(outletID), &cached); err == nil {
		return &cached, nil
	}

	if _, err := s.repo.Outlet().GetByID(ctx, outletID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrOutletNotFound
		}
		return nil, fmt.Errorf("failed to get outlet: %w", err)
	}

	agg, err := s.repo.Review().GetOutletRating(ctx, outletID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute outlet rating: %w", err)
	}

	if err := s.cache.Set(ctx, cache.OutletRatingKey(outletID), agg, outletRatingCacheTTL); err != nil {
		s.logger.Warn("Failed to cache outlet rating", "outlet_id", outletID, "error", err)
	}
	return agg, nil
}

// ===== HELPERS =====

func (s *reviewService) refreshOutletRating(ctx context.Context, tx repositories.Repository, outletID uint) error {
	agg, err := tx.Review().GetOutletRating(ctx, outletID)
	if err != nil {
		return fmt.Errorf("failed to compute outlet rating: %w", err)
	}
	if err := tx.Outlet().UpdateRating(ctx, outletID, agg.Average, agg.Count); err != nil {
		return fmt.Errorf("failed to update outlet rating: %w", err)
	}
	s.publish(ctx, events.NewOutletRatingUpdatedEvent(outletID, agg.Average, agg.Count))
	return nil
}

func (s *reviewService) invalidateOutletCache(ctx context.Context, outletID uint) {
	if err := s.cache.Delete(ctx, cache.OutletRatingKey(outletID)); err != nil {
		s.logger.Warn("Failed to invalidate outlet rating cache", "outlet_id", outletID, "error", err)
	}
	if err := s.cache.DeletePattern(ctx, cache.OutletListPattern); err != nil {
		s.logger.Warn("Failed to invalidate outlet cache", "error", err)
	}
}

func (s *reviewService) publish(ctx context.Context, event *events.Event) {
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish event", "event_type", event.Type, "error", err)
	}
}

func (s *reviewService) buildListResponse(results []*models.Review, total int64, filters repositories.ReviewFilters) *ReviewListResponse {
	reviews := make([]models.Review, len(results))
	for i, r := range results {
		reviews[i] = *r
	}
	return &ReviewListResponse{
		Reviews: reviews,
		Total:   total,
		Page:    pageFromOffset(filters.Offset, filters.Limit),
		Size:    len(reviews),
	}
}
