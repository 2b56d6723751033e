package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zamzam-app/feedback-service/internal/models"
	"github.com/zamzam-app/feedback-service/internal/repositories"
	"github.com/zamzam-app/feedback-service/internal/services"
	"github.com/zamzam-app/feedback-service/internal/utils"
)

// OutletHandler handles outlet CRUD, manager assignment, rating
// queries and QR token flows.
type OutletHandler struct {
	BaseHandler
	outletService services.OutletService
	reviewService services.ReviewService
}

func NewOutletHandler(outletService services.OutletService, reviewService services.ReviewService, logger utils.Logger) *OutletHandler {
	return &OutletHandler{
		BaseHandler:   NewBaseHandler(logger),
		outletService: outletService,
		reviewService: reviewService,
	}
}

// CreateOutlet creates an outlet
// @Summary Create outlet
// @Tags outlets
// @Accept json
// @Produce json
// @Param outlet body services.CreateOutletRequest true "Outlet"
// @Success 201 {object} models.Outlet
// @Failure 400 {object} ErrorResponse
// @Router /outlets [post]
func (h *OutletHandler) CreateOutlet(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	var req services.CreateOutletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating outlet", "name", req.Name)

	outlet, err := h.outletService.Create(c.Request.Context(), &req, session)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, outlet)
}

// ListOutlets lists outlets with optional capability filter
// @Summary List outlets
// @Tags outlets
// @Produce json
// @Param capability query string false "Capability tag"
// @Success 200 {object} services.OutletListResponse
// @Router /outlets [get]
func (h *OutletHandler) ListOutlets(c *gin.Context) {
	filters := repositories.OutletFilters{
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if c.Query("limit") != "" || c.Query("offset") != "" {
		filters.Limit, filters.Offset = h.parsePagination(c)
	}
	if capability := c.Query("capability"); capability != "" {
		tag := models.CapabilityTag(capability)
		if !tag.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Unknown capability tag",
				Details: capability,
			})
			return
		}
		filters.Capability = &tag
	}
	if managerID := c.Query("manager_id"); managerID != "" {
		filters.ManagerID = &managerID
	}

	response, err := h.outletService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetOutlet returns one outlet
// @Summary Get outlet
// @Tags outlets
// @Produce json
// @Param id path uint true "Outlet ID"
// @Success 200 {object} models.Outlet
// @Failure 404 {object} ErrorResponse
// @Router /outlets/{id} [get]
func (h *OutletHandler) GetOutlet(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	outlet, err := h.outletService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, outlet)
}

// UpdateOutlet updates outlet fields
// @Summary Update outlet
// @Tags outlets
// @Accept json
// @Produce json
// @Param id path uint true "Outlet ID"
// @Param outlet body services.UpdateOutletRequest true "Fields to update"
// @Success 200 {object} models.Outlet
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /outlets/{id} [put]
func (h *OutletHandler) UpdateOutlet(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	session := h.session(c)
	if session == nil {
		return
	}

	var req services.UpdateOutletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating outlet", "outlet_id", id)

	outlet, err := h.outletService.Update(c.Request.Context(), id, &req, session)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, outlet)
}

// DeleteOutlet deletes an outlet without reviews
// @Summary Delete outlet
// @Tags outlets
// @Param id path uint true "Outlet ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /outlets/{id} [delete]
func (h *OutletHandler) DeleteOutlet(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	session := h.session(c)
	if session == nil {
		return
	}

	h.LogRequest(c, "Deleting outlet", "outlet_id", id)

	if err := h.outletService.Delete(c.Request.Context(), id, session); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Outlet deleted",
	})
}

// AssignManagerRequest binds the manager assignment body.
type AssignManagerRequest struct {
	ManagerID string `json:"manager_id" binding:"required"`
}

// AssignManager assigns a manager to an outlet
// @Summary Assign manager
// @Tags outlets
// @Accept json
// @Param id path uint true "Outlet ID"
// @Param body body AssignManagerRequest true "Manager"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /outlets/{id}/manager [put]
func (h *OutletHandler) AssignManager(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	session := h.session(c)
	if session == nil {
		return
	}

	var req AssignManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Assigning manager", "outlet_id", id, "manager_id", req.ManagerID)

	if err := h.outletService.AssignManager(c.Request.Context(), id, req.ManagerID, session); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Manager assigned",
	})
}

// IssueQRToken mints a fresh QR token for an outlet
// @Summary Issue QR token
// @Tags outlets
// @Produce json
// @Param id path uint true "Outlet ID"
// @Success 201 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /outlets/{id}/qr [post]
func (h *OutletHandler) IssueQRToken(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	session := h.session(c)
	if session == nil {
		return
	}

	h.LogRequest(c, "Issuing QR token", "outlet_id", id)

	token, err := h.outletService.IssueQRToken(c.Request.Context(), id, session)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "QR token issued",
		Data:    gin.H{"token": token},
	})
}

// ResolveQRToken resolves a scanned token to outlet and form
// @Summary Resolve QR token
// @Tags outlets
// @Produce json
// @Param token path string true "QR token"
// @Success 200 {object} services.QRResolution
// @Failure 404 {object} ErrorResponse
// @Router /qr/{token} [get]
func (h *OutletHandler) ResolveQRToken(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid token",
		})
		return
	}

	resolution, err := h.outletService.ResolveQRToken(c.Request.Context(), token)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resolution)
}

// ListOutletReviews lists reviews for one outlet
// @Summary List outlet reviews
// @Tags outlets
// @Produce json
// @Param id path uint true "Outlet ID"
// @Success 200 {object} services.ReviewListResponse
// @Router /outlets/{id}/reviews [get]
func (h *OutletHandler) ListOutletReviews(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	filters := repositories.ReviewFilters{}
	filters.Limit, filters.Offset = h.parsePagination(c)

	response, err := h.reviewService.ListByOutlet(c.Request.Context(), id, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetOutletRating returns the outlet's rating aggregate
// @Summary Outlet rating
// @Tags outlets
// @Produce json
// @Param id path uint true "Outlet ID"
// @Success 200 {object} repositories.RatingAggregate
// @Failure 404 {object} ErrorResponse
// @Router /outlets/{id}/rating [get]
func (h *OutletHandler) GetOutletRating(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	rating, err := h.reviewService.OutletRating(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rating)
}

// ListOpenComplaints lists the outlet's open complaints
// @Summary List open complaints
// @Tags outlets
// @Produce json
// @Param id path uint true "Outlet ID"
// @Success 200 {array} models.Complaint
// @Router /outlets/{id}/complaints [get]
func (h *OutletHandler) ListOpenComplaints(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	complaints, err := h.reviewService.OpenComplaints(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, complaints)
}

// GetOutletStats returns fleet-wide outlet statistics
// @Summary Outlet statistics
// @Tags outlets
// @Produce json
// @Success 200 {object} repositories.OutletStats
// @Router /outlets/stats [get]
func (h *OutletHandler) GetOutletStats(c *gin.Context) {
	stats, err := h.outletService.GetStats(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
