// Package newsletter provides the newsletter bounded context module:
// public subscribe/unsubscribe and admin campaign management.
package newsletter

import (
	"studio_backend/internal/email"
	"studio_backend/internal/events"
	apphttp "studio_backend/internal/http"
	"studio_backend/internal/newsletter/handler"
	"studio_backend/internal/newsletter/repository"
	"studio_backend/internal/newsletter/service"
	"studio_backend/internal/scheduler"
	"studio_backend/platform/logger"
	"studio_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the newsletter bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the newsletter module. The scheduler may
// be nil when redis is not configured; campaigns then cannot be scheduled.
func NewModule(pool *pgxpool.Pool, sender email.Sender, sched scheduler.CampaignScheduler, bus events.Bus, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, sender, sched, bus, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "newsletter"
}

// Service returns the newsletter service, used by the worker for dispatch.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts newsletter routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public
	ctx.V1.POST("/newsletter/subscribe", m.handler.Subscribe)
	ctx.V1.POST("/newsletter/unsubscribe", m.handler.Unsubscribe)

	// Admin
	ctx.Admin.GET("/newsletter/subscribers", m.handler.ListSubscribers)
	ctx.Admin.POST("/newsletter/campaigns", m.handler.CreateCampaign)
	ctx.Admin.GET("/newsletter/campaigns", m.handler.ListCampaigns)
	ctx.Admin.GET("/newsletter/campaigns/:id", m.handler.GetCampaign)
	ctx.Admin.PUT("/newsletter/campaigns/:id", m.handler.UpdateCampaign)
	ctx.Admin.POST("/newsletter/campaigns/:id/schedule", m.handler.ScheduleCampaign)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
