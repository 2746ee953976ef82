// Package catalog provides the catalog bounded context module.
package catalog

import (
	"mealbenefits_backend/internal/catalog/handler"
	"mealbenefits_backend/internal/catalog/repository"
	"mealbenefits_backend/internal/catalog/service"
	apphttp "mealbenefits_backend/internal/http"
	"mealbenefits_backend/platform/logger"
	"mealbenefits_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the catalog module.
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
	return "catalog"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/catalog")

	group.GET("/vendors", m.handler.ListVendors)
	group.GET("/vendors/:id", m.handler.GetVendorByID)
	group.POST("/vendors", m.handler.CreateVendor)
	group.PUT("/vendors/:id", m.handler.UpdateVendor)
	group.DELETE("/vendors/:id", m.handler.DeleteVendor)

	group.GET("/items", m.handler.ListItems)
	group.GET("/items/:id", m.handler.GetItemByID)
	group.POST("/items", m.handler.CreateItem)
	group.PUT("/items/:id", m.handler.UpdateItem)
	group.DELETE("/items/:id", m.handler.DeleteItem)

	group.GET("/categories", m.handler.ListCategories)
	group.GET("/box-types", m.handler.ListBoxTypes)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
