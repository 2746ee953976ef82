// Package clients provides the client directory bounded context module.
package clients

import (
	"mealbenefits_backend/internal/clients/handler"
	"mealbenefits_backend/internal/clients/repository"
	"mealbenefits_backend/internal/clients/service"
	apphttp "mealbenefits_backend/internal/http"
	"mealbenefits_backend/platform/logger"
	"mealbenefits_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the client directory bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repo
}

// NewModule creates and initializes the client directory module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "clients"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() *repository.Repo {
	return m.repo
}

// RegisterRoutes mounts client directory routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/clients")
	group.GET("", m.handler.List)
	group.GET("/by-phone", m.handler.GetByPhone)
	group.GET("/:id", m.handler.GetByID)
	group.PUT("/:id/upcoming-order", m.handler.SetUpcomingOrder)
	group.DELETE("/:id/upcoming-order", m.handler.ClearUpcomingOrder)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
