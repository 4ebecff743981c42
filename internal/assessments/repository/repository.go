package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"studio_backend/internal/pricing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

const (
	StatusPending   = "pending"
	StatusReviewed  = "reviewed"
	StatusContacted = "contacted"
	StatusArchived  = "archived"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Assessment is a persisted project assessment: the client's answers plus
// the latest pricing breakdown computed from them.
type Assessment struct {
	ID           uuid.UUID
	ContactName  string
	ContactEmail string
	ContactPhone *string
	Answers      pricing.Answers
	Breakdown    pricing.Breakdown
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Proposal is a generated proposal document for an assessment.
type Proposal struct {
	ID           uuid.UUID
	AssessmentID uuid.UUID
	Title        string
	Markdown     string
	Breakdown    pricing.Breakdown
	UsedFallback bool
	DocumentKey  *string
	CreatedAt    time.Time
}

func (r *Repository) CreateAssessment(ctx context.Context, a Assessment) (Assessment, error) {
	answersJSON, err := json.Marshal(a.Answers)
	if err != nil {
		return Assessment{}, err
	}
	breakdownJSON, err := json.Marshal(a.Breakdown)
	if err != nil {
		return Assessment{}, err
	}

	err = r.pool.QueryRow(ctx, `
		INSERT INTO assessments (contact_name, contact_email, contact_phone, answers, breakdown, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, a.ContactName, a.ContactEmail, a.ContactPhone, answersJSON, breakdownJSON, a.Status).Scan(
		&a.ID, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return Assessment{}, err
	}
	return a, nil
}

func (r *Repository) GetAssessment(ctx context.Context, id uuid.UUID) (Assessment, error) {
	var (
		a             Assessment
		answersJSON   []byte
		breakdownJSON []byte
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, contact_name, contact_email, contact_phone, answers, breakdown, status, created_at, updated_at
		FROM assessments WHERE id = $1
	`, id).Scan(
		&a.ID, &a.ContactName, &a.ContactEmail, &a.ContactPhone,
		&answersJSON, &breakdownJSON, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Assessment{}, ErrNotFound
	}
	if err != nil {
		return Assessment{}, err
	}
	if err := json.Unmarshal(answersJSON, &a.Answers); err != nil {
		return Assessment{}, err
	}
	if err := json.Unmarshal(breakdownJSON, &a.Breakdown); err != nil {
		return Assessment{}, err
	}
	return a, nil
}

func (r *Repository) ListAssessments(ctx context.Context, status string, limit, offset int) ([]Assessment, error) {
	query := `
		SELECT id, contact_name, contact_email, contact_phone, answers, breakdown, status, created_at, updated_at
		FROM assessments`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`
	if status != "" {
		query += ` LIMIT $2 OFFSET $3`
	} else {
		query += ` LIMIT $1 OFFSET $2`
	}
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Assessment
	for rows.Next() {
		var (
			a             Assessment
			answersJSON   []byte
			breakdownJSON []byte
		)
		if err := rows.Scan(
			&a.ID, &a.ContactName, &a.ContactEmail, &a.ContactPhone,
			&answersJSON, &breakdownJSON, &a.Status, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(answersJSON, &a.Answers); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(breakdownJSON, &a.Breakdown); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateAssessment replaces the answers and the breakdown together. The
// breakdown is always recomputed from the answers by the service, never
// patched in place.
func (r *Repository) UpdateAssessment(ctx context.Context, id uuid.UUID, answers pricing.Answers, breakdown pricing.Breakdown) (Assessment, error) {
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return Assessment{}, err
	}
	breakdownJSON, err := json.Marshal(breakdown)
	if err != nil {
		return Assessment{}, err
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE assessments SET answers = $2, breakdown = $3, updated_at = now()
		WHERE id = $1
	`, id, answersJSON, breakdownJSON)
	if err != nil {
		return Assessment{}, err
	}
	if tag.RowsAffected() == 0 {
		return Assessment{}, ErrNotFound
	}
	return r.GetAssessment(ctx, id)
}

func (r *Repository) UpdateAssessmentStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE assessments SET status = $2, updated_at = now()
		WHERE id = $1
	`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) CreateProposal(ctx context.Context, p Proposal) (Proposal, error) {
	breakdownJSON, err := json.Marshal(p.Breakdown)
	if err != nil {
		return Proposal{}, err
	}

	err = r.pool.QueryRow(ctx, `
		INSERT INTO proposals (assessment_id, title, markdown, breakdown, used_fallback, document_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, p.AssessmentID, p.Title, p.Markdown, breakdownJSON, p.UsedFallback, p.DocumentKey).Scan(
		&p.ID, &p.CreatedAt,
	)
	if err != nil {
		return Proposal{}, err
	}
	return p, nil
}

// GetLatestProposal returns the most recent proposal for an assessment.
func (r *Repository) GetLatestProposal(ctx context.Context, assessmentID uuid.UUID) (Proposal, error) {
	var (
		p             Proposal
		breakdownJSON []byte
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, assessment_id, title, markdown, breakdown, used_fallback, document_key, created_at
		FROM proposals
		WHERE assessment_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, assessmentID).Scan(
		&p.ID, &p.AssessmentID, &p.Title, &p.Markdown, &breakdownJSON, &p.UsedFallback, &p.DocumentKey, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Proposal{}, ErrNotFound
	}
	if err != nil {
		return Proposal{}, err
	}
	if err := json.Unmarshal(breakdownJSON, &p.Breakdown); err != nil {
		return Proposal{}, err
	}
	return p, nil
}
