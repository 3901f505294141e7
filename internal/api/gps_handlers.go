package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eemerson/paybox-server/internal/models"
)

// ListVehicles handles GET /api/gps/vehicles
func (h *Handler) ListVehicles(c *gin.Context) {
	vehicles, err := h.fleet.Vehicles(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.VehiclesResponse{
		Success:  true,
		Vehicles: vehicles,
		Count:    len(vehicles),
	})
}

// ListGeolinks handles GET /api/gps/geolinks
func (h *Handler) ListGeolinks(c *gin.Context) {
	links, err := h.fleet.Geolinks(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"geolinks": links,
		"count":    len(links),
	})
}

// CreateGeolink handles POST /api/gps/geolinks
func (h *Handler) CreateGeolink(c *gin.Context) {
	var req models.GeolinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	id, err := h.fleet.CreateGeolink(c.Request.Context(), req.TrackerID, req.Label)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": id})
}
