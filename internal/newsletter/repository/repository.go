// Package repository provides postgres persistence for the newsletter module.
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

// Subscriber statuses.
const (
	SubscriberActive       = "active"
	SubscriberUnsubscribed = "unsubscribed"
)

// Campaign statuses.
const (
	CampaignDraft     = "draft"
	CampaignScheduled = "scheduled"
	CampaignSending   = "sending"
	CampaignSent      = "sent"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Subscriber struct {
	ID                   uuid.UUID
	Email                string
	Name                 *string
	Status               string
	UnsubscribeTokenHash string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type Campaign struct {
	ID             uuid.UUID
	Subject        string
	Body           string
	Status         string
	ScheduledAt    *time.Time
	SentAt         *time.Time
	RecipientCount int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UpsertSubscriber re-activates a previously unsubscribed address instead of
// failing on the unique email constraint.
func (r *Repository) UpsertSubscriber(ctx context.Context, s Subscriber) (Subscriber, error) {
	query := `
		INSERT INTO newsletter_subscribers (email, name, status, unsubscribe_token_hash)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET
			name = COALESCE(EXCLUDED.name, newsletter_subscribers.name),
			status = EXCLUDED.status,
			unsubscribe_token_hash = EXCLUDED.unsubscribe_token_hash,
			updated_at = now()
		RETURNING id, email, name, status, unsubscribe_token_hash, created_at, updated_at
	`
	var out Subscriber
	err := r.pool.QueryRow(ctx, query, s.Email, s.Name, s.Status, s.UnsubscribeTokenHash).Scan(
		&out.ID, &out.Email, &out.Name, &out.Status, &out.UnsubscribeTokenHash, &out.CreatedAt, &out.UpdatedAt,
	)
	return out, err
}

func (r *Repository) GetSubscriberByTokenHash(ctx context.Context, tokenHash string) (Subscriber, error) {
	query := `
		SELECT id, email, name, status, unsubscribe_token_hash, created_at, updated_at
		FROM newsletter_subscribers WHERE unsubscribe_token_hash = $1
	`
	var s Subscriber
	err := r.pool.QueryRow(ctx, query, tokenHash).Scan(
		&s.ID, &s.Email, &s.Name, &s.Status, &s.UnsubscribeTokenHash, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Subscriber{}, ErrNotFound
	}
	return s, err
}

func (r *Repository) SetSubscriberStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE newsletter_subscribers SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) ListActiveSubscribers(ctx context.Context) ([]Subscriber, error) {
	query := `
		SELECT id, email, name, status, unsubscribe_token_hash, created_at, updated_at
		FROM newsletter_subscribers
		WHERE status = $1
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, SubscriberActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Subscriber
	for rows.Next() {
		var s Subscriber
		if err := rows.Scan(&s.ID, &s.Email, &s.Name, &s.Status, &s.UnsubscribeTokenHash, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) ListSubscribers(ctx context.Context, status string, limit, offset int) ([]Subscriber, error) {
	query := `
		SELECT id, email, name, status, unsubscribe_token_hash, created_at, updated_at
		FROM newsletter_subscribers
		WHERE $1 = '' OR status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Subscriber
	for rows.Next() {
		var s Subscriber
		if err := rows.Scan(&s.ID, &s.Email, &s.Name, &s.Status, &s.UnsubscribeTokenHash, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) CreateCampaign(ctx context.Context, c Campaign) (Campaign, error) {
	query := `
		INSERT INTO newsletter_campaigns (subject, body, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query, c.Subject, c.Body, c.Status).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *Repository) GetCampaign(ctx context.Context, id uuid.UUID) (Campaign, error) {
	query := `
		SELECT id, subject, body, status, scheduled_at, sent_at, recipient_count, created_at, updated_at
		FROM newsletter_campaigns WHERE id = $1
	`
	var c Campaign
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Subject, &c.Body, &c.Status, &c.ScheduledAt, &c.SentAt, &c.RecipientCount, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Campaign{}, ErrNotFound
	}
	return c, err
}

func (r *Repository) ListCampaigns(ctx context.Context, limit, offset int) ([]Campaign, error) {
	query := `
		SELECT id, subject, body, status, scheduled_at, sent_at, recipient_count, created_at, updated_at
		FROM newsletter_campaigns
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Campaign
	for rows.Next() {
		var c Campaign
		if err := rows.Scan(&c.ID, &c.Subject, &c.Body, &c.Status, &c.ScheduledAt, &c.SentAt, &c.RecipientCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateCampaignContent(ctx context.Context, id uuid.UUID, subject, body string) (Campaign, error) {
	query := `
		UPDATE newsletter_campaigns SET subject = $2, body = $3, updated_at = now()
		WHERE id = $1
		RETURNING id, subject, body, status, scheduled_at, sent_at, recipient_count, created_at, updated_at
	`
	var c Campaign
	err := r.pool.QueryRow(ctx, query, id, subject, body).Scan(
		&c.ID, &c.Subject, &c.Body, &c.Status, &c.ScheduledAt, &c.SentAt, &c.RecipientCount, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Campaign{}, ErrNotFound
	}
	return c, err
}

func (r *Repository) MarkCampaignScheduled(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE newsletter_campaigns SET status = $2, scheduled_at = $3, updated_at = now()
		WHERE id = $1
	`, id, CampaignScheduled, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ClaimCampaignForSending flips a scheduled or draft campaign to sending.
// Returns ErrNotFound when the campaign is already being sent or was sent,
// which makes dispatch idempotent under task retries.
func (r *Repository) ClaimCampaignForSending(ctx context.Context, id uuid.UUID) (Campaign, error) {
	query := `
		UPDATE newsletter_campaigns SET status = $2, updated_at = now()
		WHERE id = $1 AND status IN ($3, $4)
		RETURNING id, subject, body, status, scheduled_at, sent_at, recipient_count, created_at, updated_at
	`
	var c Campaign
	err := r.pool.QueryRow(ctx, query, id, CampaignSending, CampaignDraft, CampaignScheduled).Scan(
		&c.ID, &c.Subject, &c.Body, &c.Status, &c.ScheduledAt, &c.SentAt, &c.RecipientCount, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Campaign{}, ErrNotFound
	}
	return c, err
}

func (r *Repository) MarkCampaignSent(ctx context.Context, id uuid.UUID, recipients int) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE newsletter_campaigns SET status = $2, sent_at = now(), recipient_count = $3, updated_at = now()
		WHERE id = $1
	`, id, CampaignSent, recipients)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
