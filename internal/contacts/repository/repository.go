// Package repository provides postgres persistence for the contacts module.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

// Contact sources.
const (
	SourceContactForm = "contact-form"
	SourceAssessment  = "assessment"
	SourceManual      = "manual"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Contact struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Phone     *string
	Company   *string
	Source    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ContactNote struct {
	ID        uuid.UUID
	ContactID uuid.UUID
	AuthorID  uuid.UUID
	Body      string
	CreatedAt time.Time
}

type ContactMessage struct {
	ID        uuid.UUID
	ContactID uuid.UUID
	Subject   string
	Body      string
	CreatedAt time.Time
}

func (r *Repository) CreateContact(ctx context.Context, c Contact) (Contact, error) {
	query := `
		INSERT INTO contacts (name, email, phone, company, source)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query, c.Name, c.Email, c.Phone, c.Company, c.Source).Scan(
		&c.ID, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// UpsertByEmail creates the contact or refreshes name/phone on the existing
// row with the same email. Existing non-empty fields win over blanks.
func (r *Repository) UpsertByEmail(ctx context.Context, c Contact) (Contact, error) {
	query := `
		INSERT INTO contacts (name, email, phone, company, source)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE SET
			name = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE contacts.name END,
			phone = COALESCE(EXCLUDED.phone, contacts.phone),
			company = COALESCE(EXCLUDED.company, contacts.company),
			updated_at = now()
		RETURNING id, name, email, phone, company, source, created_at, updated_at
	`
	var out Contact
	err := r.pool.QueryRow(ctx, query, c.Name, c.Email, c.Phone, c.Company, c.Source).Scan(
		&out.ID, &out.Name, &out.Email, &out.Phone, &out.Company, &out.Source, &out.CreatedAt, &out.UpdatedAt,
	)
	return out, err
}

func (r *Repository) GetContact(ctx context.Context, id uuid.UUID) (Contact, error) {
	query := `
		SELECT id, name, email, phone, company, source, created_at, updated_at
		FROM contacts WHERE id = $1
	`
	var c Contact
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Source, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Contact{}, ErrNotFound
	}
	return c, err
}

func (r *Repository) GetContactByEmail(ctx context.Context, email string) (Contact, error) {
	query := `
		SELECT id, name, email, phone, company, source, created_at, updated_at
		FROM contacts WHERE email = $1
	`
	var c Contact
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Source, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Contact{}, ErrNotFound
	}
	return c, err
}

func (r *Repository) ListContacts(ctx context.Context, search string, limit, offset int) ([]Contact, error) {
	query := `
		SELECT id, name, email, phone, company, source, created_at, updated_at
		FROM contacts
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Source, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateContact(ctx context.Context, c Contact) (Contact, error) {
	query := `
		UPDATE contacts
		SET name = $2, email = $3, phone = $4, company = $5, updated_at = now()
		WHERE id = $1
		RETURNING id, name, email, phone, company, source, created_at, updated_at
	`
	var out Contact
	err := r.pool.QueryRow(ctx, query, c.ID, c.Name, c.Email, c.Phone, c.Company).Scan(
		&out.ID, &out.Name, &out.Email, &out.Phone, &out.Company, &out.Source, &out.CreatedAt, &out.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Contact{}, ErrNotFound
	}
	return out, err
}

func (r *Repository) DeleteContact(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) CreateNote(ctx context.Context, n ContactNote) (ContactNote, error) {
	query := `
		INSERT INTO contact_notes (contact_id, author_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query, n.ContactID, n.AuthorID, n.Body).Scan(&n.ID, &n.CreatedAt)
	return n, err
}

func (r *Repository) ListNotes(ctx context.Context, contactID uuid.UUID) ([]ContactNote, error) {
	query := `
		SELECT id, contact_id, author_id, body, created_at
		FROM contact_notes
		WHERE contact_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, contactID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ContactNote
	for rows.Next() {
		var n ContactNote
		if err := rows.Scan(&n.ID, &n.ContactID, &n.AuthorID, &n.Body, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *Repository) CreateMessage(ctx context.Context, m ContactMessage) (ContactMessage, error) {
	query := `
		INSERT INTO contact_messages (contact_id, subject, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query, m.ContactID, m.Subject, m.Body).Scan(&m.ID, &m.CreatedAt)
	return m, err
}

func (r *Repository) ListMessages(ctx context.Context, contactID uuid.UUID) ([]ContactMessage, error) {
	query := `
		SELECT id, contact_id, subject, body, created_at
		FROM contact_messages
		WHERE contact_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, contactID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ContactMessage
	for rows.Next() {
		var m ContactMessage
		if err := rows.Scan(&m.ID, &m.ContactID, &m.Subject, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
