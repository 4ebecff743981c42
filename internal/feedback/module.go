// Package feedback provides the site feedback bounded context module: the
// public feedback form, public testimonials, and admin moderation.
package feedback

import (
	"studio_backend/internal/events"
	"studio_backend/internal/feedback/handler"
	"studio_backend/internal/feedback/repository"
	"studio_backend/internal/feedback/service"
	apphttp "studio_backend/internal/http"
	"studio_backend/platform/logger"
	"studio_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the feedback bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the feedback module.
func NewModule(pool *pgxpool.Pool, bus events.Bus, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "feedback"
}

// RegisterRoutes mounts feedback routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public
	ctx.V1.POST("/feedback", m.handler.Submit)
	ctx.V1.GET("/testimonials", m.handler.Testimonials)

	// Admin moderation
	ctx.Admin.GET("/feedback", m.handler.List)
	ctx.Admin.GET("/feedback/:id", m.handler.Get)
	ctx.Admin.PATCH("/feedback/:id", m.handler.Review)
	ctx.Admin.DELETE("/feedback/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
