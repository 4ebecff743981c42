package service

import (
	"context"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"studio_backend/internal/events"
	"studio_backend/internal/invoices/repository"
	"studio_backend/internal/invoices/transport"
	"studio_backend/platform/apperr"
	"studio_backend/platform/logger"
	"studio_backend/platform/sanitize"
)

// qrSize is the pixel width of generated payment QR codes.
const qrSize = 256

// Store is the persistence surface the service needs. Satisfied by
// repository.Repository.
type Store interface {
	CreateInvoice(ctx context.Context, inv repository.Invoice) (repository.Invoice, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (repository.Invoice, error)
	ListInvoices(ctx context.Context, status string, limit, offset int) ([]repository.Invoice, error)
	ReplaceInvoice(ctx context.Context, inv repository.Invoice) (repository.Invoice, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
}

type Service struct {
	store Store
	bus   events.Bus
	log   *logger.Logger
}

func New(store Store, bus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, bus: bus, log: log}
}

// Calculate prices line items without persisting anything.
func (s *Service) Calculate(req transport.CalculateRequest) transport.CalculateResponse {
	return CalculateInvoice(req)
}

func (s *Service) Create(ctx context.Context, req transport.CreateInvoiceRequest) (repository.Invoice, error) {
	inv := buildInvoice(req)

	created, err := s.store.CreateInvoice(ctx, inv)
	if err != nil {
		return repository.Invoice{}, apperr.Wrap(apperr.KindInternal, "create invoice", err)
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (repository.Invoice, error) {
	inv, err := s.store.GetInvoice(ctx, id)
	if err != nil {
		return repository.Invoice{}, apperr.NotFound("invoice")
	}
	return inv, nil
}

func (s *Service) List(ctx context.Context, status string, limit, offset int) ([]repository.Invoice, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	list, err := s.store.ListInvoices(ctx, status, limit, offset)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list invoices", err)
	}
	return list, nil
}

// Update rewrites a draft invoice. Sent and paid invoices are immutable.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateInvoiceRequest) (repository.Invoice, error) {
	existing, err := s.store.GetInvoice(ctx, id)
	if err != nil {
		return repository.Invoice{}, apperr.NotFound("invoice")
	}
	if existing.Status != repository.StatusDraft {
		return repository.Invoice{}, apperr.Conflict("only draft invoices can be edited")
	}

	inv := buildInvoice(req)
	inv.ID = id

	updated, err := s.store.ReplaceInvoice(ctx, inv)
	if err != nil {
		return repository.Invoice{}, apperr.Wrap(apperr.KindInternal, "update invoice", err)
	}
	return updated, nil
}

// Send marks a draft invoice as sent and notifies subscribers so the client
// receives the invoice email.
func (s *Service) Send(ctx context.Context, id uuid.UUID) (repository.Invoice, error) {
	inv, err := s.transition(ctx, id, repository.StatusDraft, repository.StatusSent)
	if err != nil {
		return repository.Invoice{}, err
	}

	paymentURL := ""
	if inv.PaymentURL != nil {
		paymentURL = *inv.PaymentURL
	}
	s.bus.Publish(ctx, events.InvoiceIssued{
		BaseEvent:     events.NewBaseEvent(),
		InvoiceID:     inv.ID,
		InvoiceNumber: inv.Number,
		ClientName:    inv.ClientName,
		ClientEmail:   inv.ClientEmail,
		TotalCents:    inv.TotalCents,
		PaymentURL:    paymentURL,
	})
	return inv, nil
}

// MarkPaid records payment of a sent invoice.
func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID) (repository.Invoice, error) {
	inv, err := s.transition(ctx, id, repository.StatusSent, repository.StatusPaid)
	if err != nil {
		return repository.Invoice{}, err
	}

	s.bus.Publish(ctx, events.InvoicePaid{
		BaseEvent:     events.NewBaseEvent(),
		InvoiceID:     inv.ID,
		InvoiceNumber: inv.Number,
		ClientName:    inv.ClientName,
		ClientEmail:   inv.ClientEmail,
		TotalCents:    inv.TotalCents,
	})
	return inv, nil
}

// Cancel voids a draft or sent invoice.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (repository.Invoice, error) {
	existing, err := s.store.GetInvoice(ctx, id)
	if err != nil {
		return repository.Invoice{}, apperr.NotFound("invoice")
	}
	if existing.Status == repository.StatusPaid {
		return repository.Invoice{}, apperr.Conflict("paid invoices cannot be cancelled")
	}
	if existing.Status == repository.StatusCancelled {
		return existing, nil
	}

	if err := s.store.SetStatus(ctx, id, repository.StatusCancelled); err != nil {
		return repository.Invoice{}, apperr.Wrap(apperr.KindInternal, "cancel invoice", err)
	}
	existing.Status = repository.StatusCancelled
	return existing, nil
}

// PaymentQR renders the invoice's payment link as a PNG QR code.
func (s *Service) PaymentQR(ctx context.Context, id uuid.UUID) ([]byte, error) {
	inv, err := s.store.GetInvoice(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("invoice")
	}
	if inv.PaymentURL == nil || *inv.PaymentURL == "" {
		return nil, apperr.NotFound("payment link")
	}

	png, err := qrcode.Encode(*inv.PaymentURL, qrcode.Medium, qrSize)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "encode payment qr", err)
	}
	return png, nil
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, from, to string) (repository.Invoice, error) {
	inv, err := s.store.GetInvoice(ctx, id)
	if err != nil {
		return repository.Invoice{}, apperr.NotFound("invoice")
	}
	if inv.Status != from {
		return repository.Invoice{}, apperr.Conflict("invoice is " + inv.Status + ", expected " + from)
	}

	if err := s.store.SetStatus(ctx, id, to); err != nil {
		return repository.Invoice{}, apperr.Wrap(apperr.KindInternal, "set invoice status", err)
	}
	inv.Status = to
	return inv, nil
}

func buildInvoice(req transport.CreateInvoiceRequest) repository.Invoice {
	inv := repository.Invoice{
		ClientName:    sanitize.Text(req.ClientName),
		ClientEmail:   req.ClientEmail,
		PricingMode:   req.PricingMode,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
	}
	if inv.PricingMode == "" {
		inv.PricingMode = "exclusive"
	}
	if inv.DiscountType == "" {
		inv.DiscountType = "percentage"
	}
	if req.PaymentURL != "" {
		url := req.PaymentURL
		inv.PaymentURL = &url
	}

	totals := CalculateInvoice(transport.CalculateRequest{
		PricingMode:   inv.PricingMode,
		DiscountType:  inv.DiscountType,
		DiscountValue: inv.DiscountValue,
		Items:         req.Items,
	})
	inv.SubtotalCents = totals.SubtotalCents
	inv.DiscountAmountCents = totals.DiscountAmountCents
	inv.TaxTotalCents = totals.TaxTotalCents
	inv.TotalCents = totals.TotalCents

	for i, item := range req.Items {
		inv.Items = append(inv.Items, repository.InvoiceItem{
			Position:       i,
			Description:    sanitize.Text(item.Description),
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			TaxRateBps:     item.TaxRateBps,
		})
	}
	return inv
}
