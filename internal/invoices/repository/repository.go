// Package repository provides postgres persistence for the invoices module.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

// Invoice statuses.
const (
	StatusDraft     = "draft"
	StatusSent      = "sent"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Invoice struct {
	ID                  uuid.UUID
	Number              string
	ClientName          string
	ClientEmail         string
	Status              string
	PricingMode         string
	DiscountType        string
	DiscountValue       int64
	PaymentURL          *string
	SubtotalCents       int64
	DiscountAmountCents int64
	TaxTotalCents       int64
	TotalCents          int64
	Items               []InvoiceItem
	IssuedAt            *time.Time
	PaidAt              *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type InvoiceItem struct {
	ID             uuid.UUID
	InvoiceID      uuid.UUID
	Position       int
	Description    string
	Quantity       string
	UnitPriceCents int64
	TaxRateBps     int
}

// nextNumber issues the next sequential invoice number for the current year,
// e.g. INV-2026-0007. Must run inside the insert transaction so concurrent
// creates cannot race on the same number.
func nextNumber(ctx context.Context, tx pgx.Tx, now time.Time) (string, error) {
	year := now.Year()
	prefix := fmt.Sprintf("INV-%d-", year)

	var count int
	err := tx.QueryRow(ctx,
		`SELECT count(*) FROM invoices WHERE number LIKE $1 || '%'`, prefix,
	).Scan(&count)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

func (r *Repository) CreateInvoice(ctx context.Context, inv Invoice) (Invoice, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Invoice{}, err
	}
	defer tx.Rollback(ctx)

	number, err := nextNumber(ctx, tx, time.Now())
	if err != nil {
		return Invoice{}, err
	}
	inv.Number = number
	inv.Status = StatusDraft

	query := `
		INSERT INTO invoices (
			number, client_name, client_email, status, pricing_mode, discount_type,
			discount_value, payment_url, subtotal_cents, discount_amount_cents,
			tax_total_cents, total_cents
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRow(ctx, query,
		inv.Number, inv.ClientName, inv.ClientEmail, inv.Status, inv.PricingMode,
		inv.DiscountType, inv.DiscountValue, inv.PaymentURL, inv.SubtotalCents,
		inv.DiscountAmountCents, inv.TaxTotalCents, inv.TotalCents,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return Invoice{}, err
	}

	if err := insertItems(ctx, tx, inv.ID, inv.Items); err != nil {
		return Invoice{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Invoice{}, err
	}
	return r.GetInvoice(ctx, inv.ID)
}

func insertItems(ctx context.Context, tx pgx.Tx, invoiceID uuid.UUID, items []InvoiceItem) error {
	for i, item := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO invoice_items (invoice_id, position, description, quantity, unit_price_cents, tax_rate_bps)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, invoiceID, i, item.Description, item.Quantity, item.UnitPriceCents, item.TaxRateBps)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) GetInvoice(ctx context.Context, id uuid.UUID) (Invoice, error) {
	query := `
		SELECT id, number, client_name, client_email, status, pricing_mode,
			discount_type, discount_value, payment_url, subtotal_cents,
			discount_amount_cents, tax_total_cents, total_cents,
			issued_at, paid_at, created_at, updated_at
		FROM invoices WHERE id = $1
	`
	var inv Invoice
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&inv.ID, &inv.Number, &inv.ClientName, &inv.ClientEmail, &inv.Status,
		&inv.PricingMode, &inv.DiscountType, &inv.DiscountValue, &inv.PaymentURL,
		&inv.SubtotalCents, &inv.DiscountAmountCents, &inv.TaxTotalCents,
		&inv.TotalCents, &inv.IssuedAt, &inv.PaidAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Invoice{}, ErrNotFound
	}
	if err != nil {
		return Invoice{}, err
	}

	inv.Items, err = r.listItems(ctx, id)
	return inv, err
}

func (r *Repository) listItems(ctx context.Context, invoiceID uuid.UUID) ([]InvoiceItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, invoice_id, position, description, quantity, unit_price_cents, tax_rate_bps
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position
	`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []InvoiceItem
	for rows.Next() {
		var item InvoiceItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Position, &item.Description, &item.Quantity, &item.UnitPriceCents, &item.TaxRateBps); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *Repository) ListInvoices(ctx context.Context, status string, limit, offset int) ([]Invoice, error) {
	query := `
		SELECT id, number, client_name, client_email, status, pricing_mode,
			discount_type, discount_value, payment_url, subtotal_cents,
			discount_amount_cents, tax_total_cents, total_cents,
			issued_at, paid_at, created_at, updated_at
		FROM invoices
		WHERE $1 = '' OR status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Invoice
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(
			&inv.ID, &inv.Number, &inv.ClientName, &inv.ClientEmail, &inv.Status,
			&inv.PricingMode, &inv.DiscountType, &inv.DiscountValue, &inv.PaymentURL,
			&inv.SubtotalCents, &inv.DiscountAmountCents, &inv.TaxTotalCents,
			&inv.TotalCents, &inv.IssuedAt, &inv.PaidAt, &inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// ReplaceInvoice rewrites a draft invoice's fields and line items.
func (r *Repository) ReplaceInvoice(ctx context.Context, inv Invoice) (Invoice, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Invoice{}, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE invoices SET
			client_name = $2, client_email = $3, pricing_mode = $4,
			discount_type = $5, discount_value = $6, payment_url = $7,
			subtotal_cents = $8, discount_amount_cents = $9,
			tax_total_cents = $10, total_cents = $11, updated_at = now()
		WHERE id = $1
	`, inv.ID, inv.ClientName, inv.ClientEmail, inv.PricingMode, inv.DiscountType,
		inv.DiscountValue, inv.PaymentURL, inv.SubtotalCents, inv.DiscountAmountCents,
		inv.TaxTotalCents, inv.TotalCents)
	if err != nil {
		return Invoice{}, err
	}
	if tag.RowsAffected() == 0 {
		return Invoice{}, ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, inv.ID); err != nil {
		return Invoice{}, err
	}
	if err := insertItems(ctx, tx, inv.ID, inv.Items); err != nil {
		return Invoice{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Invoice{}, err
	}
	return r.GetInvoice(ctx, inv.ID)
}

// SetStatus transitions the invoice and stamps issued_at/paid_at as needed.
func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE invoices SET
			status = $2,
			issued_at = CASE WHEN $2 = 'sent' THEN now() ELSE issued_at END,
			paid_at = CASE WHEN $2 = 'paid' THEN now() ELSE paid_at END,
			updated_at = now()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
