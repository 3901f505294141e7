package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eemerson/paybox-server/internal/models"
)

// ListTrailerServices handles GET /api/trailer-services
func (h *Handler) ListTrailerServices(c *gin.Context) {
	services, err := h.svc.ListTrailerServices(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

// CreateTrailerService handles POST /api/trailer-services
func (h *Handler) CreateTrailerService(c *gin.Context) {
	var req models.TrailerServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	svc, err := h.svc.CreateTrailerService(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

// UpdateTrailerService handles PUT /api/trailer-services/:id
func (h *Handler) UpdateTrailerService(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.TrailerServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	svc, err := h.svc.UpdateTrailerService(c.Request.Context(), currentUserID(c), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

// DeleteTrailerService handles DELETE /api/trailer-services/:id
func (h *Handler) DeleteTrailerService(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteTrailerService(c.Request.Context(), currentUserID(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ListSystemUpdates handles GET /api/updates
func (h *Handler) ListSystemUpdates(c *gin.Context) {
	updates, err := h.svc.ListSystemUpdates(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updates)
}

// CreateSystemUpdate handles POST /api/updates
func (h *Handler) CreateSystemUpdate(c *gin.Context) {
	var req models.SystemUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	upd, err := h.svc.CreateSystemUpdate(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, upd)
}

// UpdateSystemUpdate handles PUT /api/updates/:id
func (h *Handler) UpdateSystemUpdate(c *gin.Context) {
	var req models.SystemUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	upd, err := h.svc.UpdateSystemUpdate(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, upd)
}

// DeleteSystemUpdate handles DELETE /api/updates/:id
func (h *Handler) DeleteSystemUpdate(c *gin.Context) {
	if err := h.svc.DeleteSystemUpdate(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
