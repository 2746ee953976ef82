package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mealbenefits_backend/internal/clients/service"
	"mealbenefits_backend/internal/clients/transport"
	"mealbenefits_backend/platform/httpkit"
	"mealbenefits_backend/platform/validator"
)

// Handler handles HTTP requests for the client directory.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid client ID"
)

// New creates a new client directory handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// List retrieves a page of clients.
// GET /api/v1/clients
func (h *Handler) List(c *gin.Context) {
	var req transport.ListClientsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetByID retrieves a client by ID.
// GET /api/v1/clients/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetByPhone retrieves a client by phone number.
// GET /api/v1/clients/by-phone?phone=...
func (h *Handler) GetByPhone(c *gin.Context) {
	rawPhone := c.Query("phone")
	if rawPhone == "" {
		httpkit.Error(c, http.StatusBadRequest, "phone is required", nil)
		return
	}

	result, err := h.svc.GetByPhone(c.Request.Context(), rawPhone)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SetUpcomingOrder replaces a client's upcoming-order configuration.
// PUT /api/v1/clients/:id/upcoming-order
func (h *Handler) SetUpcomingOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.PutUpcomingOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if err := h.svc.SetUpcomingOrder(c.Request.Context(), id, req); httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusNoContent, nil)
}

// ClearUpcomingOrder removes a client's upcoming-order configuration.
// DELETE /api/v1/clients/:id/upcoming-order
func (h *Handler) ClearUpcomingOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	if err := h.svc.ClearUpcomingOrder(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusNoContent, nil)
}
