package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zamzam-app/feedback-service/internal/repositories"
	"github.com/zamzam-app/feedback-service/internal/services"
	"github.com/zamzam-app/feedback-service/internal/utils"
)

// FormHandler handles the form editor endpoints: list, open, create,
// save, delete, plus response submission and export.
type FormHandler struct {
	BaseHandler
	formService   services.FormService
	reviewService services.ReviewService
	exportService services.ExportService
}

func NewFormHandler(formService services.FormService, reviewService services.ReviewService, exportService services.ExportService, logger utils.Logger) *FormHandler {
	return &FormHandler{
		BaseHandler:   NewBaseHandler(logger),
		formService:   formService,
		reviewService: reviewService,
		exportService: exportService,
	}
}

// ListForms returns form summaries
// @Summary List forms
// @Tags forms
// @Produce json
// @Success 200 {object} services.FormListResponse
// @Router /forms [get]
func (h *FormHandler) ListForms(c *gin.Context) {
	filters := repositories.FormFilters{
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if c.Query("limit") != "" || c.Query("offset") != "" {
		filters.Limit, filters.Offset = h.parsePagination(c)
	}
	if creator := c.Query("created_by"); creator != "" {
		filters.CreatedBy = &creator
	}

	response, err := h.formService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetForm returns the full form document
// @Summary Get form
// @Tags forms
// @Produce json
// @Param id path uint true "Form ID"
// @Success 200 {object} models.Form
// @Failure 404 {object} ErrorResponse
// @Router /forms/{id} [get]
func (h *FormHandler) GetForm(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	form, err := h.formService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, form)
}

// CreateForm creates an untitled form
// @Summary Create form
// @Tags forms
// @Produce json
// @Success 201 {object} models.Form
// @Router /forms [post]
func (h *FormHandler) CreateForm(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	h.LogRequest(c, "Creating form")

	form, err := h.formService.Create(c.Request.Context(), session)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, form)
}

// SaveForm persists the whole form document
// @Summary Save form
// @Tags forms
// @Accept json
// @Produce json
// @Param id path uint true "Form ID"
// @Param form body services.SaveFormRequest true "Form document"
// @Success 200 {object} models.Form
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /forms/{id} [patch]
func (h *FormHandler) SaveForm(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	session := h.session(c)
	if session == nil {
		return
	}

	var req services.SaveFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Saving form", "form_id", id)

	form, err := h.formService.Save(c.Request.Context(), id, &req, session)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, form)
}

// DeleteForm soft-deletes a form
// @Summary Delete form
// @Tags forms
// @Param id path uint true "Form ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /forms/{id} [delete]
func (h *FormHandler) DeleteForm(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	session := h.session(c)
	if session == nil {
		return
	}

	h.LogRequest(c, "Deleting form", "form_id", id)

	if err := h.formService.Delete(c.Request.Context(), id, session); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Form deleted",
	})
}

// GetFormStats returns response and complaint counts for a form
// @Summary Form statistics
// @Tags forms
// @Produce json
// @Param id path uint true "Form ID"
// @Success 200 {object} repositories.FormStats
// @Failure 404 {object} ErrorResponse
// @Router /forms/{id}/stats [get]
func (h *FormHandler) GetFormStats(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	stats, err := h.formService.GetStats(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// SubmitResponse accepts a captured response for a form
// @Summary Submit response
// @Tags forms
// @Accept json
// @Produce json
// @Param id path uint true "Form ID"
// @Param response body services.SubmitReviewRequest true "Captured response"
// @Success 201 {object} models.Review
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /forms/{id}/responses [post]
func (h *FormHandler) SubmitResponse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Submitting response", "form_id", id, "outlet_id", req.OutletID)

	review, err := h.reviewService.Submit(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// ListResponses lists reviews collected with a form
// @Summary List responses
// @Tags forms
// @Produce json
// @Param id path uint true "Form ID"
// @Success 200 {object} services.ReviewListResponse
// @Failure 404 {object} ErrorResponse
// @Router /forms/{id}/responses [get]
func (h *FormHandler) ListResponses(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	filters := repositories.ReviewFilters{}
	filters.Limit, filters.Offset = h.parsePagination(c)
	if ratingMin := c.Query("rating_min"); ratingMin != "" {
		if v, err := strconv.Atoi(ratingMin); err == nil {
			filters.RatingMin = &v
		}
	}
	if ratingMax := c.Query("rating_max"); ratingMax != "" {
		if v, err := strconv.Atoi(ratingMax); err == nil {
			filters.RatingMax = &v
		}
	}

	response, err := h.reviewService.ListByForm(c.Request.Context(), id, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ExportResponses streams responses as a spreadsheet
// @Summary Export responses
// @Tags forms
// @Produce application/octet-stream
// @Param id path uint true "Form ID"
// @Param format query string false "xlsx or csv" default(xlsx)
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Router /forms/{id}/export [get]
func (h *FormHandler) ExportResponses(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	format := services.ExportFormat(c.DefaultQuery("format", "xlsx"))
	h.LogRequest(c, "Exporting responses", "form_id", id, "format", format)

	// Render into a buffer first; an export failure must come back as
	// plain error JSON, not as a half-written attachment.
	var buf bytes.Buffer
	if err := h.exportService.ExportResponses(c.Request.Context(), id, format, &buf); err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("responses-%d-%s.%s", id, time.Now().Format("20060102"), format)
	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if format == services.ExportFormatCSV {
		contentType = "text/csv"
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
