package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mealbenefits_backend/internal/orders/service"
	"mealbenefits_backend/internal/orders/transport"
	"mealbenefits_backend/platform/httpkit"
	"mealbenefits_backend/platform/validator"
)

// Handler handles HTTP requests for materialization runs and the order
// ledger.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidRunID     = "invalid run ID"
)

// New creates a new orders handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Materialize triggers a materialization run.
// POST /api/v1/orders/materialize
func (h *Handler) Materialize(c *gin.Context) {
	var req transport.MaterializeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Materialize(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetRun recaps the orders one creation run produced.
// GET /api/v1/orders/runs/:runId
func (h *Handler) GetRun(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("runId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRunID, nil)
		return
	}

	result, err := h.svc.GetRun(c.Request.Context(), runID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// List reads the order ledger with filters.
// GET /api/v1/orders
func (h *Handler) List(c *gin.Context) {
	var req transport.ListOrdersRequest
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
