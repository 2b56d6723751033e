package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zamzam-app/feedback-service/internal/services"
	"github.com/zamzam-app/feedback-service/internal/utils"
)

// ReviewHandler handles review inspection and complaint workflow.
type ReviewHandler struct {
	BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(reviewService services.ReviewService, logger utils.Logger) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   NewBaseHandler(logger),
		reviewService: reviewService,
	}
}

// GetReview returns a review with its complaints
// @Summary Get review
// @Tags reviews
// @Produce json
// @Param id path uint true "Review ID"
// @Success 200 {object} models.Review
// @Failure 404 {object} ErrorResponse
// @Router /reviews/{id} [get]
func (h *ReviewHandler) GetReview(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	review, err := h.reviewService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// DeleteReview removes a review and refreshes the outlet aggregate
// @Summary Delete review
// @Tags reviews
// @Param id path uint true "Review ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /reviews/{id} [delete]
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	session := h.session(c)
	if session == nil {
		return
	}

	h.LogRequest(c, "Deleting review", "review_id", id)

	if err := h.reviewService.Delete(c.Request.Context(), id, session); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Review deleted",
	})
}

// OpenComplaint opens a complaint against one answer
// @Summary Open complaint
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path uint true "Review ID"
// @Param complaint body services.OpenComplaintRequest true "Complaint"
// @Success 201 {object} models.Complaint
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /reviews/{id}/complaints [post]
func (h *ReviewHandler) OpenComplaint(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	session := h.session(c)
	if session == nil {
		return
	}

	var req services.OpenComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Opening complaint", "review_id", id, "question_id", req.QuestionID)

	complaint, err := h.reviewService.OpenComplaint(c.Request.Context(), id, &req, session)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, complaint)
}

// ResolveComplaint marks a complaint resolved
// @Summary Resolve complaint
// @Tags reviews
// @Produce json
// @Param id path uint true "Review ID"
// @Param question_id path string true "Question ID"
// @Success 200 {object} models.Complaint
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /reviews/{id}/complaints/{question_id}/resolve [post]
func (h *ReviewHandler) ResolveComplaint(c *gin.Context) {
	h.closeComplaint(c, true)
}

// DismissComplaint marks a complaint dismissed
// @Summary Dismiss complaint
// @Tags reviews
// @Produce json
// @Param id path uint true "Review ID"
// @Param question_id path string true "Question ID"
// @Success 200 {object} models.Complaint
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /reviews/{id}/complaints/{question_id}/dismiss [post]
func (h *ReviewHandler) DismissComplaint(c *gin.Context) {
	h.closeComplaint(c, false)
}

func (h *ReviewHandler) closeComplaint(c *gin.Context, resolve bool) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	questionID := c.Param("question_id")
	if questionID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid question_id",
		})
		return
	}
	session := h.session(c)
	if session == nil {
		return
	}

	h.LogRequest(c, "Closing complaint", "review_id", id, "question_id", questionID, "resolve", resolve)

	var (
		complaint interface{}
		err       error
	)
	if resolve {
		complaint, err = h.reviewService.ResolveComplaint(c.Request.Context(), id, questionID, session)
	} else {
		complaint, err = h.reviewService.DismissComplaint(c.Request.Context(), id, questionID, session)
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, complaint)
}
