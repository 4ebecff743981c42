package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"studio_backend/internal/events"
	"studio_backend/internal/feedback/repository"
	"studio_backend/platform/apperr"
	"studio_backend/platform/logger"
	"studio_backend/platform/sanitize"
)

// Store is the persistence surface the service needs. Satisfied by
// repository.Repository.
type Store interface {
	CreateEntry(ctx context.Context, e repository.Entry) (repository.Entry, error)
	GetEntry(ctx context.Context, id uuid.UUID) (repository.Entry, error)
	ListEntries(ctx context.Context, status string, limit, offset int) ([]repository.Entry, error)
	ListPublished(ctx context.Context, limit int) ([]repository.Entry, error)
	UpdateEntry(ctx context.Context, id uuid.UUID, status string, published bool) (repository.Entry, error)
	DeleteEntry(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	store Store
	bus   events.Bus
	log   *logger.Logger
}

func New(store Store, bus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, bus: bus, log: log}
}

// SubmitInput carries the raw public feedback form fields.
type SubmitInput struct {
	Name    string
	Email   string
	Rating  int
	Page    string
	Message string
}

// Submit stores sanitized visitor feedback and notifies subscribers.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (repository.Entry, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return repository.Entry{}, apperr.BadRequest("rating must be between 1 and 5")
	}

	entry := repository.Entry{
		Rating:  in.Rating,
		Page:    sanitize.Text(in.Page),
		Message: sanitize.Text(in.Message),
		Status:  repository.StatusNew,
	}
	if name := sanitize.Text(in.Name); name != "" {
		entry.Name = &name
	}
	if email := strings.ToLower(strings.TrimSpace(in.Email)); email != "" {
		entry.Email = &email
	}

	created, err := s.store.CreateEntry(ctx, entry)
	if err != nil {
		return repository.Entry{}, apperr.Wrap(apperr.KindInternal, "create feedback entry", err)
	}

	s.bus.Publish(ctx, events.FeedbackReceived{
		BaseEvent:  events.NewBaseEvent(),
		FeedbackID: created.ID,
		Rating:     created.Rating,
		Page:       created.Page,
		Message:    created.Message,
	})
	return created, nil
}

func (s *Service) List(ctx context.Context, status string, limit, offset int) ([]repository.Entry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	list, err := s.store.ListEntries(ctx, status, limit, offset)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list feedback", err)
	}
	return list, nil
}

// ListTestimonials returns published entries for the public site.
func (s *Service) ListTestimonials(ctx context.Context, limit int) ([]repository.Entry, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	list, err := s.store.ListPublished(ctx, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list testimonials", err)
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (repository.Entry, error) {
	e, err := s.store.GetEntry(ctx, id)
	if err != nil {
		return repository.Entry{}, apperr.NotFound("feedback entry")
	}
	return e, nil
}

// Review updates the moderation state of an entry. Publishing marks it for
// the public testimonials list.
func (s *Service) Review(ctx context.Context, id uuid.UUID, status string, published bool) (repository.Entry, error) {
	updated, err := s.store.UpdateEntry(ctx, id, status, published)
	if err != nil {
		if err == repository.ErrNotFound {
			return repository.Entry{}, apperr.NotFound("feedback entry")
		}
		return repository.Entry{}, apperr.Wrap(apperr.KindInternal, "update feedback entry", err)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteEntry(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return apperr.NotFound("feedback entry")
		}
		return apperr.Wrap(apperr.KindInternal, "delete feedback entry", err)
	}
	return nil
}
