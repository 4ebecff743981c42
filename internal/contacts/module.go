// Package contacts provides the CRM bounded context module: the public
// contact form and the admin contact book.
package contacts

import (
	"context"

	"studio_backend/internal/contacts/handler"
	"studio_backend/internal/contacts/repository"
	"studio_backend/internal/contacts/service"
	"studio_backend/internal/events"
	apphttp "studio_backend/internal/http"
	"studio_backend/platform/logger"
	"studio_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the contacts bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the contacts module and subscribes it to
// assessment submissions so every lead lands in the contact book.
func NewModule(pool *pgxpool.Pool, bus events.Bus, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	h := handler.New(svc, val)

	bus.Subscribe(events.AssessmentSubmitted{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		submitted, ok := event.(events.AssessmentSubmitted)
		if !ok {
			return nil
		}
		return svc.RecordAssessmentContact(ctx, submitted.ContactName, submitted.ContactEmail)
	}))

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "contacts"
}

// RegisterRoutes mounts contact routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public contact form
	ctx.V1.POST("/contact", m.handler.SubmitMessage)

	// Admin contact book
	ctx.Admin.GET("/contacts", m.handler.List)
	ctx.Admin.POST("/contacts", m.handler.Create)
	ctx.Admin.GET("/contacts/:id", m.handler.Get)
	ctx.Admin.PUT("/contacts/:id", m.handler.Update)
	ctx.Admin.DELETE("/contacts/:id", m.handler.Delete)
	ctx.Admin.GET("/contacts/:id/notes", m.handler.ListNotes)
	ctx.Admin.POST("/contacts/:id/notes", m.handler.AddNote)
	ctx.Admin.GET("/contacts/:id/messages", m.handler.ListMessages)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
