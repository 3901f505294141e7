package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RunExport handles POST /api/export. On success the response body is
// the workbook itself; batch metadata travels in headers so the client
// can both save the file and refresh its counters.
func (h *Handler) RunExport(c *gin.Context) {
	result, err := h.svc.RunExport(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Header("X-Batch-Id", strconv.FormatInt(result.BatchID, 10))
	c.Header("X-Exported-Count", strconv.Itoa(result.Count))
	c.Data(http.StatusOK, xlsxContentType, result.Content)
}

// ExportStats handles GET /api/export/stats
func (h *Handler) ExportStats(c *gin.Context) {
	stats, err := h.svc.ExportStats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
