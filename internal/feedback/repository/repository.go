// Package repository provides postgres persistence for the feedback module.
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

// Feedback statuses.
const (
	StatusNew      = "new"
	StatusReviewed = "reviewed"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Entry struct {
	ID        uuid.UUID
	Name      *string
	Email     *string
	Rating    int
	Page      string
	Message   string
	Status    string
	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *Repository) CreateEntry(ctx context.Context, e Entry) (Entry, error) {
	query := `
		INSERT INTO feedback (name, email, rating, page, message, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query, e.Name, e.Email, e.Rating, e.Page, e.Message, e.Status).Scan(
		&e.ID, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (r *Repository) GetEntry(ctx context.Context, id uuid.UUID) (Entry, error) {
	query := `
		SELECT id, name, email, rating, page, message, status, published, created_at, updated_at
		FROM feedback WHERE id = $1
	`
	var e Entry
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.Name, &e.Email, &e.Rating, &e.Page, &e.Message, &e.Status, &e.Published, &e.CreatedAt, &e.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

func (r *Repository) ListEntries(ctx context.Context, status string, limit, offset int) ([]Entry, error) {
	query := `
		SELECT id, name, email, rating, page, message, status, published, created_at, updated_at
		FROM feedback
		WHERE $1 = '' OR status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.Rating, &e.Page, &e.Message, &e.Status, &e.Published, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListPublished returns testimonial entries marked for the public site.
func (r *Repository) ListPublished(ctx context.Context, limit int) ([]Entry, error) {
	query := `
		SELECT id, name, email, rating, page, message, status, published, created_at, updated_at
		FROM feedback
		WHERE published = true
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.Rating, &e.Page, &e.Message, &e.Status, &e.Published, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateEntry(ctx context.Context, id uuid.UUID, status string, published bool) (Entry, error) {
	query := `
		UPDATE feedback SET status = $2, published = $3, updated_at = now()
		WHERE id = $1
		RETURNING id, name, email, rating, page, message, status, published, created_at, updated_at
	`
	var e Entry
	err := r.pool.QueryRow(ctx, query, id, status, published).Scan(
		&e.ID, &e.Name, &e.Email, &e.Rating, &e.Page, &e.Message, &e.Status, &e.Published, &e.CreatedAt, &e.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

func (r *Repository) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM feedback WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
