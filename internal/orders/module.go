// Package orders provides the order materialization bounded context module.
package orders

import (
	catalogsvc "mealbenefits_backend/internal/catalog/service"
	clientrepo "mealbenefits_backend/internal/clients/repository"
	apphttp "mealbenefits_backend/internal/http"
	"mealbenefits_backend/internal/orders/handler"
	"mealbenefits_backend/internal/orders/repository"
	"mealbenefits_backend/internal/orders/service"
	"mealbenefits_backend/platform/config"
	"mealbenefits_backend/platform/events"
	"mealbenefits_backend/platform/logger"
	"mealbenefits_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the orders bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	ledger  repository.Ledger
}

// NewModule creates and initializes the orders module.
func NewModule(
	pool *pgxpool.Pool,
	clientRepo *clientrepo.Repo,
	catalogSvc *catalogsvc.Service,
	bus events.Bus,
	cfg *config.Config,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	ledger := repository.New(pool)
	runner := service.NewRunner(clientRepo, catalogSvc, ledger, cfg, log)
	svc := service.NewService(runner, ledger, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		ledger:  ledger,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "orders"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Ledger returns the order ledger for direct access if needed.
func (m *Module) Ledger() repository.Ledger {
	return m.ledger
}

// RegisterRoutes mounts order routes on the provided router context. The
// materialize route carries the stricter run rate limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/orders")
	group.POST("/materialize", ctx.RunRateLimiter.RateLimit(), m.handler.Materialize)
	group.GET("/runs/:runId", m.handler.GetRun)
	group.GET("", m.handler.List)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
