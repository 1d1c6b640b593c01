package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scholars-edge/academy-api/internal/models"
	"github.com/scholars-edge/academy-api/internal/service"
	appErrors "github.com/scholars-edge/academy-api/pkg/errors"
	"github.com/scholars-edge/academy-api/pkg/response"
)

// ContactHandler wires the contact-message endpoints.
type ContactHandler struct {
	service *service.ContactService
}

// NewContactHandler creates a new handler.
func NewContactHandler(svc *service.ContactService) *ContactHandler {
	return &ContactHandler{service: svc}
}

// Create godoc
// @Summary Submit a contact message
// @Tags Contact
// @Accept json
// @Produce json
// @Param payload body models.InsertContactMessageRequest true "Message payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /api/contact [post]
func (h *ContactHandler) Create(c *gin.Context) {
	var req models.InsertContactMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid contact payload"))
		return
	}

	message, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, message)
}

// List godoc
// @Summary List contact messages, newest first
// @Tags Contact
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /api/contact [get]
func (h *ContactHandler) List(c *gin.Context) {
	messages, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, messages)
}

// MarkRead godoc
// @Summary Mark a contact message as read
// @Tags Contact
// @Produce json
// @Param id path int true "Message ID"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /api/contact/{id}/read [patch]
func (h *ContactHandler) MarkRead(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid message id"))
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"success": true})
}
