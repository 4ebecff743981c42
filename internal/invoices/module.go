// Package invoices provides the invoicing bounded context module.
package invoices

import (
	"studio_backend/internal/events"
	apphttp "studio_backend/internal/http"
	"studio_backend/internal/invoices/handler"
	"studio_backend/internal/invoices/repository"
	"studio_backend/internal/invoices/service"
	"studio_backend/platform/logger"
	"studio_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the invoices bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the invoices module.
func NewModule(pool *pgxpool.Pool, bus events.Bus, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "invoices"
}

// RegisterRoutes mounts invoice routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Admin.POST("/invoices/calculate", m.handler.Calculate)
	ctx.Admin.POST("/invoices", m.handler.Create)
	ctx.Admin.GET("/invoices", m.handler.List)
	ctx.Admin.GET("/invoices/:id", m.handler.Get)
	ctx.Admin.PUT("/invoices/:id", m.handler.Update)
	ctx.Admin.POST("/invoices/:id/send", m.handler.Send)
	ctx.Admin.POST("/invoices/:id/pay", m.handler.MarkPaid)
	ctx.Admin.POST("/invoices/:id/cancel", m.handler.Cancel)
	ctx.Admin.GET("/invoices/:id/qr", m.handler.PaymentQR)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
