package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zamzam-app/feedback-service/internal/auth"
	"github.com/zamzam-app/feedback-service/internal/models"
	"github.com/zamzam-app/feedback-service/internal/services"
	"github.com/zamzam-app/feedback-service/internal/utils"
)

type HandlerManager struct {
	formHandler   *FormHandler
	reviewHandler *ReviewHandler
	outletHandler *OutletHandler
	userHandler   *UserHandler
	uploadHandler *UploadHandler
	verifier      auth.Verifier
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	verifier auth.Verifier,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		formHandler:   NewFormHandler(serviceManager.Form(), serviceManager.Review(), serviceManager.Export(), logger),
		reviewHandler: NewReviewHandler(serviceManager.Review(), logger),
		outletHandler: NewOutletHandler(serviceManager.Outlet(), serviceManager.Review(), logger),
		userHandler:   NewUserHandler(serviceManager.User(), logger),
		uploadHandler: NewUploadHandler(serviceManager.Upload(), logger),
		verifier:      verifier,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "feedback-service",
		})
	})

	v1 := router.Group("/api/v1")

	// Public routes: QR resolution and response submission need no
	// session, they serve the customer-facing side of the QR flow.
	v1.GET("/qr/:token", hm.outletHandler.ResolveQRToken)
	v1.POST("/forms/:id/responses", hm.formHandler.SubmitResponse)

	authed := v1.Group("")
	authed.Use(auth.Middleware(hm.verifier))
	{
		authed.GET("/me", hm.userHandler.CurrentUser)

		// Form editor routes
		forms := authed.Group("/forms")
		{
			forms.GET("", hm.formHandler.ListForms)
			forms.POST("", hm.formHandler.CreateForm)
			forms.GET("/:id", hm.formHandler.GetForm)
			forms.PATCH("/:id", hm.formHandler.SaveForm)
			forms.DELETE("/:id", hm.formHandler.DeleteForm)
			forms.GET("/:id/stats", hm.formHandler.GetFormStats)
			forms.GET("/:id/responses", hm.formHandler.ListResponses)
			forms.GET("/:id/export", hm.formHandler.ExportResponses)
		}

		// Review and complaint routes
		reviews := authed.Group("/reviews")
		{
			reviews.GET("/:id", hm.reviewHandler.GetReview)
			reviews.DELETE("/:id", hm.reviewHandler.DeleteReview)
			reviews.POST("/:id/complaints", hm.reviewHandler.OpenComplaint)
			reviews.POST("/:id/complaints/:question_id/resolve", hm.reviewHandler.ResolveComplaint)
			reviews.POST("/:id/complaints/:question_id/dismiss", hm.reviewHandler.DismissComplaint)
		}

		// Outlet routes
		outlets := authed.Group("/outlets")
		{
			outlets.GET("", hm.outletHandler.ListOutlets)
			outlets.POST("", hm.outletHandler.CreateOutlet)
			outlets.GET("/stats", hm.outletHandler.GetOutletStats)
			outlets.GET("/:id", hm.outletHandler.GetOutlet)
			outlets.PUT("/:id", hm.outletHandler.UpdateOutlet)
			outlets.DELETE("/:id", hm.outletHandler.DeleteOutlet)
			outlets.PUT("/:id/manager", hm.outletHandler.AssignManager)
			outlets.POST("/:id/qr", hm.outletHandler.IssueQRToken)
			outlets.GET("/:id/rating", hm.outletHandler.GetOutletRating)
			outlets.GET("/:id/reviews", hm.outletHandler.ListOutletReviews)
			outlets.GET("/:id/complaints", hm.outletHandler.ListOpenComplaints)
		}

		// User routes, admin-gated except self profile reads
		users := authed.Group("/users")
		{
			users.GET("", auth.RequireRole(models.RoleManager), hm.userHandler.ListUsers)
			users.POST("", auth.RequireRole(models.RoleAdmin), hm.userHandler.CreateUser)
			users.GET("/:id", hm.userHandler.GetUser)
			users.PUT("/:id", hm.userHandler.UpdateUser)
			users.DELETE("/:id", auth.RequireRole(models.RoleAdmin), hm.userHandler.DeactivateUser)
		}

		// Upload ticket signing
		authed.POST("/uploads/sign", hm.uploadHandler.SignUpload)
	}
}
