package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"studio_backend/internal/contacts/repository"
	"studio_backend/internal/events"
	"studio_backend/platform/apperr"
	"studio_backend/platform/logger"
	"studio_backend/platform/phone"
	"studio_backend/platform/sanitize"
)

// Store is the persistence surface the service needs. Satisfied by
// repository.Repository.
type Store interface {
	CreateContact(ctx context.Context, c repository.Contact) (repository.Contact, error)
	UpsertByEmail(ctx context.Context, c repository.Contact) (repository.Contact, error)
	GetContact(ctx context.Context, id uuid.UUID) (repository.Contact, error)
	GetContactByEmail(ctx context.Context, email string) (repository.Contact, error)
	ListContacts(ctx context.Context, search string, limit, offset int) ([]repository.Contact, error)
	UpdateContact(ctx context.Context, c repository.Contact) (repository.Contact, error)
	DeleteContact(ctx context.Context, id uuid.UUID) error
	CreateNote(ctx context.Context, n repository.ContactNote) (repository.ContactNote, error)
	ListNotes(ctx context.Context, contactID uuid.UUID) ([]repository.ContactNote, error)
	CreateMessage(ctx context.Context, m repository.ContactMessage) (repository.ContactMessage, error)
	ListMessages(ctx context.Context, contactID uuid.UUID) ([]repository.ContactMessage, error)
}

type Service struct {
	store Store
	bus   events.Bus
	log   *logger.Logger
}

func New(store Store, bus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, bus: bus, log: log}
}

// ContactInput carries normalized-on-write contact fields.
type ContactInput struct {
	Name    string
	Email   string
	Phone   string
	Company string
}

func (in ContactInput) toContact(source string) repository.Contact {
	c := repository.Contact{
		Name:   sanitize.Text(in.Name),
		Email:  strings.ToLower(strings.TrimSpace(in.Email)),
		Source: source,
	}
	if in.Phone != "" {
		normalized := phone.NormalizeE164(in.Phone)
		c.Phone = &normalized
	}
	if company := sanitize.Text(in.Company); company != "" {
		c.Company = &company
	}
	return c
}

// SubmitMessage handles the public contact form: the sender is upserted as a
// contact and the message stored against it.
func (s *Service) SubmitMessage(ctx context.Context, in ContactInput, subject, body string) error {
	contact, err := s.store.UpsertByEmail(ctx, in.toContact(repository.SourceContactForm))
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "upsert contact", err)
	}

	message, err := s.store.CreateMessage(ctx, repository.ContactMessage{
		ContactID: contact.ID,
		Subject:   sanitize.Text(subject),
		Body:      sanitize.Text(body),
	})
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "create contact message", err)
	}

	s.bus.Publish(ctx, events.ContactMessageReceived{
		BaseEvent: events.NewBaseEvent(),
		ContactID: contact.ID,
		Name:      contact.Name,
		Email:     contact.Email,
		Subject:   message.Subject,
		Message:   message.Body,
	})
	return nil
}

// RecordAssessmentContact upserts a contact from a submitted assessment so the
// CRM view stays complete without manual entry. Used by the event subscriber.
func (s *Service) RecordAssessmentContact(ctx context.Context, name, email string) error {
	_, err := s.store.UpsertByEmail(ctx, ContactInput{Name: name, Email: email}.toContact(repository.SourceAssessment))
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "upsert assessment contact", err)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in ContactInput) (repository.Contact, error) {
	contact := in.toContact(repository.SourceManual)
	if _, err := s.store.GetContactByEmail(ctx, contact.Email); err == nil {
		return repository.Contact{}, apperr.Conflict("a contact with this email already exists")
	}

	created, err := s.store.CreateContact(ctx, contact)
	if err != nil {
		return repository.Contact{}, apperr.Wrap(apperr.KindInternal, "create contact", err)
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (repository.Contact, error) {
	c, err := s.store.GetContact(ctx, id)
	if err != nil {
		return repository.Contact{}, apperr.NotFound("contact")
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, search string, limit, offset int) ([]repository.Contact, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	list, err := s.store.ListContacts(ctx, strings.TrimSpace(search), limit, offset)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list contacts", err)
	}
	return list, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in ContactInput) (repository.Contact, error) {
	existing, err := s.store.GetContact(ctx, id)
	if err != nil {
		return repository.Contact{}, apperr.NotFound("contact")
	}

	next := in.toContact(existing.Source)
	next.ID = existing.ID

	updated, err := s.store.UpdateContact(ctx, next)
	if err != nil {
		return repository.Contact{}, apperr.Wrap(apperr.KindInternal, "update contact", err)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteContact(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return apperr.NotFound("contact")
		}
		return apperr.Wrap(apperr.KindInternal, "delete contact", err)
	}
	return nil
}

func (s *Service) AddNote(ctx context.Context, contactID, authorID uuid.UUID, body string) (repository.ContactNote, error) {
	if _, err := s.store.GetContact(ctx, contactID); err != nil {
		return repository.ContactNote{}, apperr.NotFound("contact")
	}

	note, err := s.store.CreateNote(ctx, repository.ContactNote{
		ContactID: contactID,
		AuthorID:  authorID,
		Body:      sanitize.Text(body),
	})
	if err != nil {
		return repository.ContactNote{}, apperr.Wrap(apperr.KindInternal, "create note", err)
	}
	return note, nil
}

func (s *Service) ListNotes(ctx context.Context, contactID uuid.UUID) ([]repository.ContactNote, error) {
	notes, err := s.store.ListNotes(ctx, contactID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list notes", err)
	}
	return notes, nil
}

func (s *Service) ListMessages(ctx context.Context, contactID uuid.UUID) ([]repository.ContactMessage, error) {
	messages, err := s.store.ListMessages(ctx, contactID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list messages", err)
	}
	return messages, nil
}
