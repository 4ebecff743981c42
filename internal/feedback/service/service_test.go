package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"studio_backend/internal/events"
	"studio_backend/internal/feedback/repository"
	"studio_backend/platform/apperr"
	"studio_backend/platform/logger"
)

type fakeStore struct {
	entries map[uuid.UUID]repository.Entry
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: make(map[uuid.UUID]repository.Entry)}
}

func (f *fakeStore) CreateEntry(_ context.Context, e repository.Entry) (repository.Entry, error) {
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	f.entries[e.ID] = e
	return e, nil
}

func (f *fakeStore) GetEntry(_ context.Context, id uuid.UUID) (repository.Entry, error) {
	e, ok := f.entries[id]
	if !ok {
		return repository.Entry{}, repository.ErrNotFound
	}
	return e, nil
}

func (f *fakeStore) ListEntries(_ context.Context, status string, limit, offset int) ([]repository.Entry, error) {
	var out []repository.Entry
	for _, e := range f.entries {
		if status == "" || e.Status == status {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) ListPublished(_ context.Context, limit int) ([]repository.Entry, error) {
	var out []repository.Entry
	for _, e := range f.entries {
		if e.Published {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateEntry(_ context.Context, id uuid.UUID, status string, published bool) (repository.Entry, error) {
	e, ok := f.entries[id]
	if !ok {
		return repository.Entry{}, repository.ErrNotFound
	}
	e.Status = status
	e.Published = published
	f.entries[id] = e
	return e, nil
}

func (f *fakeStore) DeleteEntry(_ context.Context, id uuid.UUID) error {
	if _, ok := f.entries[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.entries, id)
	return nil
}

type captureBus struct {
	published []events.Event
}

func (b *captureBus) Publish(_ context.Context, e events.Event)           { b.published = append(b.published, e) }
func (b *captureBus) PublishSync(_ context.Context, e events.Event) error { b.published = append(b.published, e); return nil }
func (b *captureBus) Subscribe(string, events.Handler)                    {}

func newTestService(store Store, bus events.Bus) *Service {
	return New(store, bus, logger.New("development"))
}

func TestSubmitSanitizesAndPublishes(t *testing.T) {
	store := newFakeStore()
	bus := &captureBus{}
	svc := newTestService(store, bus)

	created, err := svc.Submit(context.Background(), SubmitInput{
		Name:    "  Jane  ",
		Email:   "Jane@Example.com",
		Rating:  5,
		Page:    "/pricing",
		Message: "<script>alert(1)</script>Great work!",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if created.Name == nil || *created.Name != "Jane" {
		t.Fatalf("expected trimmed name, got %v", created.Name)
	}
	if created.Email == nil || *created.Email != "jane@example.com" {
		t.Fatalf("expected lowercased email, got %v", created.Email)
	}
	if created.Status != repository.StatusNew {
		t.Fatalf("expected new status, got %q", created.Status)
	}
	if created.Message == "" || created.Message[0] == '<' {
		t.Fatalf("expected stripped message, got %q", created.Message)
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(bus.published))
	}
	evt, ok := bus.published[0].(events.FeedbackReceived)
	if !ok {
		t.Fatalf("expected FeedbackReceived, got %T", bus.published[0])
	}
	if evt.Rating != 5 || evt.Page != "/pricing" {
		t.Fatalf("event fields wrong: %+v", evt)
	}
}

func TestSubmitRejectsRatingOutOfRange(t *testing.T) {
	svc := newTestService(newFakeStore(), &captureBus{})

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Submit(context.Background(), SubmitInput{Rating: rating, Page: "/", Message: "msg"})
		if !apperr.Is(err, apperr.KindBadRequest) {
			t.Fatalf("rating %d: expected bad request, got %v", rating, err)
		}
	}
}

func TestSubmitAnonymousAllowed(t *testing.T) {
	svc := newTestService(newFakeStore(), &captureBus{})

	created, err := svc.Submit(context.Background(), SubmitInput{Rating: 3, Page: "/", Message: "ok"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if created.Name != nil || created.Email != nil {
		t.Fatal("expected nil name and email for anonymous feedback")
	}
}

func TestReviewAndTestimonials(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &captureBus{})

	created, err := svc.Submit(context.Background(), SubmitInput{Rating: 5, Page: "/", Message: "great"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	testimonials, err := svc.ListTestimonials(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListTestimonials: %v", err)
	}
	if len(testimonials) != 0 {
		t.Fatalf("expected no testimonials before publishing, got %d", len(testimonials))
	}

	if _, err := svc.Review(context.Background(), created.ID, repository.StatusReviewed, true); err != nil {
		t.Fatalf("Review: %v", err)
	}

	testimonials, err = svc.ListTestimonials(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListTestimonials: %v", err)
	}
	if len(testimonials) != 1 {
		t.Fatalf("expected 1 testimonial, got %d", len(testimonials))
	}
}

func TestReviewUnknownEntry(t *testing.T) {
	svc := newTestService(newFakeStore(), &captureBus{})

	_, err := svc.Review(context.Background(), uuid.New(), repository.StatusReviewed, false)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
