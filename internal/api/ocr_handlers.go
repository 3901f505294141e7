package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eemerson/paybox-server/internal/models"
)

// ExtractDocument handles POST /api/ocr. The extraction is advisory:
// the result pre-fills the expense form and the user corrects it before
// anything is saved.
func (h *Handler) ExtractDocument(c *gin.Context) {
	var req models.OCRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	extraction, err := h.ocr.Extract(c.Request.Context(), req.ImageURL)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.log.Info().
		Str("documentType", extraction.Data.DocumentType).
		Int("totalTokens", extraction.Tokens.TotalTokens).
		Msg("document extracted")

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   extraction.Data,
		"tokens": extraction.Tokens,
	})
}
