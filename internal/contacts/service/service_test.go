package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"studio_backend/internal/contacts/repository"
	"studio_backend/internal/events"
	"studio_backend/platform/apperr"
	"studio_backend/platform/logger"
)

type fakeStore struct {
	contacts map[uuid.UUID]repository.Contact
	notes    map[uuid.UUID][]repository.ContactNote
	messages map[uuid.UUID][]repository.ContactMessage
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		contacts: make(map[uuid.UUID]repository.Contact),
		notes:    make(map[uuid.UUID][]repository.ContactNote),
		messages: make(map[uuid.UUID][]repository.ContactMessage),
	}
}

func (f *fakeStore) CreateContact(_ context.Context, c repository.Contact) (repository.Contact, error) {
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.contacts[c.ID] = c
	return c, nil
}

func (f *fakeStore) UpsertByEmail(ctx context.Context, c repository.Contact) (repository.Contact, error) {
	for id, existing := range f.contacts {
		if existing.Email == c.Email {
			if c.Name != "" {
				existing.Name = c.Name
			}
			if c.Phone != nil {
				existing.Phone = c.Phone
			}
			existing.UpdatedAt = time.Now()
			f.contacts[id] = existing
			return existing, nil
		}
	}
	return f.CreateContact(ctx, c)
}

func (f *fakeStore) GetContact(_ context.Context, id uuid.UUID) (repository.Contact, error) {
	c, ok := f.contacts[id]
	if !ok {
		return repository.Contact{}, repository.ErrNotFound
	}
	return c, nil
}

func (f *fakeStore) GetContactByEmail(_ context.Context, email string) (repository.Contact, error) {
	for _, c := range f.contacts {
		if c.Email == email {
			return c, nil
		}
	}
	return repository.Contact{}, repository.ErrNotFound
}

func (f *fakeStore) ListContacts(_ context.Context, search string, limit, offset int) ([]repository.Contact, error) {
	var out []repository.Contact
	for _, c := range f.contacts {
		if search == "" || strings.Contains(c.Name, search) || strings.Contains(c.Email, search) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateContact(_ context.Context, c repository.Contact) (repository.Contact, error) {
	existing, ok := f.contacts[c.ID]
	if !ok {
		return repository.Contact{}, repository.ErrNotFound
	}
	existing.Name = c.Name
	existing.Email = c.Email
	existing.Phone = c.Phone
	existing.Company = c.Company
	existing.UpdatedAt = time.Now()
	f.contacts[c.ID] = existing
	return existing, nil
}

func (f *fakeStore) DeleteContact(_ context.Context, id uuid.UUID) error {
	if _, ok := f.contacts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.contacts, id)
	return nil
}

func (f *fakeStore) CreateNote(_ context.Context, n repository.ContactNote) (repository.ContactNote, error) {
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	f.notes[n.ContactID] = append(f.notes[n.ContactID], n)
	return n, nil
}

func (f *fakeStore) ListNotes(_ context.Context, contactID uuid.UUID) ([]repository.ContactNote, error) {
	return f.notes[contactID], nil
}

func (f *fakeStore) CreateMessage(_ context.Context, m repository.ContactMessage) (repository.ContactMessage, error) {
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	f.messages[m.ContactID] = append(f.messages[m.ContactID], m)
	return m, nil
}

func (f *fakeStore) ListMessages(_ context.Context, contactID uuid.UUID) ([]repository.ContactMessage, error) {
	return f.messages[contactID], nil
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

func TestSubmitMessageUpsertsAndPublishes(t *testing.T) {
	store := newFakeStore()
	bus := &captureBus{}
	svc := newTestService(store, bus)

	in := ContactInput{Name: "Jane Doe", Email: "Jane@Example.com", Phone: "+1 415 555 0100"}
	if err := svc.SubmitMessage(context.Background(), in, "Project inquiry", "We need a new site."); err != nil {
		t.Fatalf("SubmitMessage: %v", err)
	}

	contact, err := store.GetContactByEmail(context.Background(), "jane@example.com")
	if err != nil {
		t.Fatalf("contact not stored: %v", err)
	}
	if contact.Source != repository.SourceContactForm {
		t.Fatalf("expected contact-form source, got %q", contact.Source)
	}
	if len(store.messages[contact.ID]) != 1 {
		t.Fatalf("expected 1 stored message, got %d", len(store.messages[contact.ID]))
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(bus.published))
	}
	evt, ok := bus.published[0].(events.ContactMessageReceived)
	if !ok {
		t.Fatalf("expected ContactMessageReceived, got %T", bus.published[0])
	}
	if evt.Email != "jane@example.com" || evt.Subject != "Project inquiry" {
		t.Fatalf("event fields wrong: %+v", evt)
	}
}

func TestSubmitMessageReusesExistingContact(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &captureBus{})

	in := ContactInput{Name: "Jane", Email: "jane@example.com"}
	if err := svc.SubmitMessage(context.Background(), in, "First", "first message"); err != nil {
		t.Fatalf("first SubmitMessage: %v", err)
	}
	if err := svc.SubmitMessage(context.Background(), in, "Second", "second message"); err != nil {
		t.Fatalf("second SubmitMessage: %v", err)
	}

	if len(store.contacts) != 1 {
		t.Fatalf("expected a single contact, got %d", len(store.contacts))
	}
	contact, _ := store.GetContactByEmail(context.Background(), "jane@example.com")
	if len(store.messages[contact.ID]) != 2 {
		t.Fatalf("expected 2 messages on one contact, got %d", len(store.messages[contact.ID]))
	}
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &captureBus{})

	if _, err := svc.Create(context.Background(), ContactInput{Name: "Jane", Email: "jane@example.com"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := svc.Create(context.Background(), ContactInput{Name: "Other Jane", Email: "JANE@example.com"})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateNormalizesPhone(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &captureBus{})

	created, err := svc.Create(context.Background(), ContactInput{
		Name: "Jane", Email: "jane@example.com", Phone: "(415) 555-0100",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Phone == nil || !strings.HasPrefix(*created.Phone, "+1") {
		t.Fatalf("expected E.164 phone, got %v", created.Phone)
	}
}

func TestRecordAssessmentContact(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &captureBus{})

	if err := svc.RecordAssessmentContact(context.Background(), "Jane", "jane@example.com"); err != nil {
		t.Fatalf("RecordAssessmentContact: %v", err)
	}
	contact, err := store.GetContactByEmail(context.Background(), "jane@example.com")
	if err != nil {
		t.Fatalf("contact not stored: %v", err)
	}
	if contact.Source != repository.SourceAssessment {
		t.Fatalf("expected assessment source, got %q", contact.Source)
	}
}

func TestAddNoteUnknownContact(t *testing.T) {
	svc := newTestService(newFakeStore(), &captureBus{})

	_, err := svc.AddNote(context.Background(), uuid.New(), uuid.New(), "note body")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
