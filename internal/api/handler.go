package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/eemerson/paybox-server/internal/apperr"
	"github.com/eemerson/paybox-server/internal/models"
	"github.com/eemerson/paybox-server/internal/ocr"
	"github.com/eemerson/paybox-server/internal/service"
)

// Extractor runs one OCR pass over an attachment image.
type Extractor interface {
	Extract(ctx context.Context, imageURL string) (*ocr.Extraction, error)
}

// FleetClient proxies the GPS vendor API.
type FleetClient interface {
	Vehicles(ctx context.Context) ([]models.Vehicle, error)
	CreateGeolink(ctx context.Context, trackerID int64, label string) (int64, error)
	Geolinks(ctx context.Context) ([]models.Geolink, error)
}

// Handler holds the dependencies for all HTTP handlers
type Handler struct {
	svc   service.Service
	ocr   Extractor
	fleet FleetClient
	log   zerolog.Logger
}

// NewHandler creates a new API handler with the given service
func NewHandler(svc service.Service, extractor Extractor, fleet FleetClient, log zerolog.Logger) *Handler {
	return &Handler{
		svc:   svc,
		ocr:   extractor,
		fleet: fleet,
		log:   log,
	}
}

// SetupRoutes configures all the routes for the API
func (h *Handler) SetupRoutes(router *gin.Engine) {
	auth := router.Group("/api/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)
		auth.GET("/me", AuthMiddleware(), h.Me)
	}

	api := router.Group("/api")
	api.Use(AuthMiddleware())
	{
		api.GET("/me", h.Me)

		api.GET("/users", h.ListUsers)
		api.POST("/users", h.CreateUser)
		api.PUT("/users/:id", h.UpdateUser)

		api.GET("/categories", h.ListCategories)
		api.POST("/categories", h.CreateCategory)
		api.PUT("/categories/:id", h.UpdateCategory)
		api.DELETE("/categories/:id", h.DeleteCategory)

		api.GET("/payments", h.ListPayments)
		api.POST("/payments", h.CreatePayment)
		api.GET("/payments/:id", h.GetPayment)
		api.PUT("/payments/:id", h.UpdatePayment)
		api.DELETE("/payments/:id", h.DeletePayment)

		api.POST("/payments/:id/attachments", h.UploadAttachments)
		api.DELETE("/payments/:id/attachments", h.DeleteAttachment)

		api.POST("/export", h.RunExport)
		api.GET("/export", h.ExportStats)
		api.GET("/export/stats", h.ExportStats)

		api.POST("/ocr", h.ExtractDocument)

		api.GET("/gps/vehicles", h.ListVehicles)
		api.GET("/gps/geolinks", h.ListGeolinks)
		api.POST("/gps/geolinks", h.CreateGeolink)

		api.GET("/trailer-services", h.ListTrailerServices)
		api.POST("/trailer-services", h.CreateTrailerService)
		api.PUT("/trailer-services/:id", h.UpdateTrailerService)
		api.DELETE("/trailer-services/:id", h.DeleteTrailerService)

		api.GET("/updates", h.ListSystemUpdates)
		api.POST("/updates", h.CreateSystemUpdate)
		api.PUT("/updates/:id", h.UpdateSystemUpdate)
		api.DELETE("/updates/:id", h.DeleteSystemUpdate)
	}
}

// currentUserID returns the authenticated user's id set by the middleware.
func currentUserID(c *gin.Context) string {
	return c.GetString("userId")
}

// respondError maps an application error kind to an HTTP status and a
// stable machine-readable code.
func (h *Handler) respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)

	var status int
	var code string
	switch kind {
	case apperr.KindValidation:
		status, code = http.StatusBadRequest, "VALIDATION_ERROR"
	case apperr.KindAuthorization:
		status, code = http.StatusForbidden, "FORBIDDEN"
	case apperr.KindNotFound:
		status, code = http.StatusNotFound, "NOT_FOUND"
	case apperr.KindExternalService:
		status, code = http.StatusBadGateway, "EXTERNAL_SERVICE_ERROR"
	case apperr.KindMalformedResponse:
		status, code = http.StatusBadGateway, "MALFORMED_RESPONSE"
	case apperr.KindEmptyBatch:
		// Benign: nothing pending is an expected outcome, not a failure.
		status, code = http.StatusNotFound, "NO_PENDING_RECORDS"
	case apperr.KindConversion:
		status, code = http.StatusUnprocessableEntity, "CONVERSION_ERROR"
	default:
		status, code = http.StatusInternalServerError, "INTERNAL_ERROR"
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled error")
	}

	message := "Error interno del servidor"
	var appErr *apperr.Error
	if kind != apperr.KindInternal && errors.As(err, &appErr) {
		message = appErr.Message
	}

	c.JSON(status, models.ErrorResponse{
		Status:  "error",
		Code:    code,
		Message: message,
	})
}

// badRequest reports a request binding failure.
func (h *Handler) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Status:  "error",
		Code:    "INVALID_REQUEST",
		Message: "Solicitud inválida",
		Details: err.Error(),
	})
}
