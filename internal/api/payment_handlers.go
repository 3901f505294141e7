package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eemerson/paybox-server/internal/models"
	"github.com/eemerson/paybox-server/internal/storage"
)

// ListCategories handles GET /api/categories
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// CreateCategory handles POST /api/categories
func (h *Handler) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	category, err := h.svc.CreateCategory(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// UpdateCategory handles PUT /api/categories/:id
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	category, err := h.svc.UpdateCategory(c.Request.Context(), currentUserID(c), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory handles DELETE /api/categories/:id
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteCategory(c.Request.Context(), currentUserID(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ListPayments handles GET /api/payments with an optional
// ?exported=true|false filter.
func (h *Handler) ListPayments(c *gin.Context) {
	var exported *bool
	if raw, present := c.GetQuery("exported"); present {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			h.badRequest(c, err)
			return
		}
		exported = &value
	}

	records, err := h.svc.ListPayments(c.Request.Context(), exported)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// CreatePayment handles POST /api/payments
func (h *Handler) CreatePayment(c *gin.Context) {
	var req models.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	record, err := h.svc.CreatePayment(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// GetPayment handles GET /api/payments/:id
func (h *Handler) GetPayment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	record, err := h.svc.GetPayment(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// UpdatePayment handles PUT /api/payments/:id
func (h *Handler) UpdatePayment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	record, err := h.svc.UpdatePayment(c.Request.Context(), currentUserID(c), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// DeletePayment handles DELETE /api/payments/:id
func (h *Handler) DeletePayment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeletePayment(c.Request.Context(), currentUserID(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// UploadAttachments handles POST /api/payments/:id/attachments with
// multipart form files under the "files" key.
func (h *Handler) UploadAttachments(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		h.badRequest(c, err)
		return
	}

	var files []storage.File
	for _, fh := range form.File["files"] {
		src, err := fh.Open()
		if err != nil {
			h.badRequest(c, err)
			return
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			h.badRequest(c, err)
			return
		}
		files = append(files, storage.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	results, record, err := h.svc.AddAttachments(c.Request.Context(), currentUserID(c), id, files)
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]gin.H, 0, len(results))
	for _, r := range results {
		item := gin.H{"name": r.Name}
		if r.Err != nil {
			item["error"] = r.Err.Error()
		} else {
			item["url"] = r.URL
		}
		out = append(out, item)
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"files":   out,
		"payment": record,
	})
}

// DeleteAttachment handles DELETE /api/payments/:id/attachments with a
// JSON body naming the attachment URL.
func (h *Handler) DeleteAttachment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	record, err := h.svc.RemoveAttachment(c.Request.Context(), currentUserID(c), id, req.URL)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// pathID parses the numeric :id path parameter, replying 400 itself on
// bad input.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:  "error",
			Code:    "INVALID_REQUEST",
			Message: "Identificador inválido",
		})
		return 0, false
	}
	return id, true
}
