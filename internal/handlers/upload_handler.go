package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zamzam-app/feedback-service/internal/services"
	"github.com/zamzam-app/feedback-service/internal/utils"
)

// UploadHandler signs one-shot upload tickets for the external asset
// host. File bytes never pass through this service.
type UploadHandler struct {
	BaseHandler
	uploadService services.UploadService
}

func NewUploadHandler(uploadService services.UploadService, logger utils.Logger) *UploadHandler {
	return &UploadHandler{
		BaseHandler:   NewBaseHandler(logger),
		uploadService: uploadService,
	}
}

// SignUpload issues a signed upload ticket
// @Summary Sign upload
// @Tags uploads
// @Accept json
// @Produce json
// @Param upload body services.SignUploadRequest true "Upload descriptor"
// @Success 201 {object} models.UploadTicket
// @Failure 400 {object} ErrorResponse
// @Router /uploads/sign [post]
func (h *UploadHandler) SignUpload(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	var req services.SignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Signing upload", "file_name", req.FileName)

	ticket, err := h.uploadService.SignUpload(c.Request.Context(), &req, session)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ticket)
}
