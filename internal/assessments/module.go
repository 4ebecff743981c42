// Package assessments provides the project assessment bounded context module:
// the public pricing wizard endpoints and the admin review surface.
package assessments

import (
	"studio_backend/internal/adapters/storage"
	"studio_backend/internal/assessments/handler"
	"studio_backend/internal/assessments/repository"
	"studio_backend/internal/assessments/service"
	"studio_backend/internal/events"
	apphttp "studio_backend/internal/http"
	"studio_backend/internal/pricing"
	"studio_backend/platform/logger"
	"studio_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the assessments bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the assessments module. The suggester,
// proposer and storage service may be nil when their backends are disabled.
func NewModule(pool *pgxpool.Pool, engine *pricing.Engine, suggester service.SuggestionProvider, proposer service.ProposalProvider, store storage.StorageService, bus events.Bus, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, engine, suggester, proposer, store, bus, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "assessments"
}

// Service returns the assessments service for use by other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts assessment routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public wizard endpoints
	ctx.V1.POST("/assessments/quote", m.handler.Quote)
	ctx.V1.POST("/assessments/suggestions", m.handler.Suggestions)
	ctx.V1.POST("/assessments", m.handler.Submit)
	// The assessment id acts as the wizard's continuation token, so answer
	// updates stay public.
	ctx.V1.PATCH("/assessments/:id", m.handler.UpdateAnswers)

	// Admin review surface
	ctx.Admin.GET("/assessments", m.handler.List)
	ctx.Admin.GET("/assessments/:id", m.handler.Get)
	ctx.Admin.PATCH("/assessments/:id/status", m.handler.UpdateStatus)
	ctx.Admin.POST("/assessments/:id/proposal", m.handler.GenerateProposal)
	ctx.Admin.GET("/assessments/:id/proposal", m.handler.GetProposal)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
