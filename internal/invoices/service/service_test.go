package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"studio_backend/internal/events"
	"studio_backend/internal/invoices/repository"
	"studio_backend/internal/invoices/transport"
	"studio_backend/platform/apperr"
	"studio_backend/platform/logger"
)

type fakeStore struct {
	invoices map[uuid.UUID]repository.Invoice
	seq      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{invoices: make(map[uuid.UUID]repository.Invoice)}
}

func (f *fakeStore) CreateInvoice(_ context.Context, inv repository.Invoice) (repository.Invoice, error) {
	f.seq++
	inv.ID = uuid.New()
	inv.Number = fmt.Sprintf("INV-2026-%04d", f.seq)
	inv.Status = repository.StatusDraft
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = inv.CreatedAt
	f.invoices[inv.ID] = inv
	return inv, nil
}

func (f *fakeStore) GetInvoice(_ context.Context, id uuid.UUID) (repository.Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok {
		return repository.Invoice{}, repository.ErrNotFound
	}
	return inv, nil
}

func (f *fakeStore) ListInvoices(_ context.Context, status string, limit, offset int) ([]repository.Invoice, error) {
	var out []repository.Invoice
	for _, inv := range f.invoices {
		if status == "" || inv.Status == status {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeStore) ReplaceInvoice(_ context.Context, inv repository.Invoice) (repository.Invoice, error) {
	existing, ok := f.invoices[inv.ID]
	if !ok {
		return repository.Invoice{}, repository.ErrNotFound
	}
	inv.Number = existing.Number
	inv.Status = existing.Status
	inv.CreatedAt = existing.CreatedAt
	inv.UpdatedAt = time.Now()
	f.invoices[inv.ID] = inv
	return inv, nil
}

func (f *fakeStore) SetStatus(_ context.Context, id uuid.UUID, status string) error {
	inv, ok := f.invoices[id]
	if !ok {
		return repository.ErrNotFound
	}
	inv.Status = status
	f.invoices[id] = inv
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

func draftRequest() transport.CreateInvoiceRequest {
	return transport.CreateInvoiceRequest{
		ClientName:  "Acme Corp",
		ClientEmail: "billing@acme.example",
		PaymentURL:  "https://pay.example/inv/123",
		Items: []transport.LineItemRequest{
			{Description: "Design sprint", Quantity: "1", UnitPriceCents: 250000, TaxRateBps: 2100},
		},
	}
}

func TestCreateComputesTotals(t *testing.T) {
	svc := newTestService(newFakeStore(), &captureBus{})

	inv, err := svc.Create(context.Background(), draftRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if inv.Status != repository.StatusDraft {
		t.Fatalf("expected draft status, got %q", inv.Status)
	}
	if inv.SubtotalCents != 250000 {
		t.Fatalf("expected subtotal 250000, got %d", inv.SubtotalCents)
	}
	if inv.TotalCents != 302500 {
		t.Fatalf("expected total 302500, got %d", inv.TotalCents)
	}
}

func TestSendPublishesInvoiceIssued(t *testing.T) {
	store := newFakeStore()
	bus := &captureBus{}
	svc := newTestService(store, bus)

	inv, err := svc.Create(context.Background(), draftRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	sent, err := svc.Send(context.Background(), inv.ID)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if sent.Status != repository.StatusSent {
		t.Fatalf("expected sent status, got %q", sent.Status)
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(bus.published))
	}
	evt, ok := bus.published[0].(events.InvoiceIssued)
	if !ok {
		t.Fatalf("expected InvoiceIssued, got %T", bus.published[0])
	}
	if evt.InvoiceID != inv.ID || evt.TotalCents != inv.TotalCents {
		t.Fatal("event does not match invoice")
	}
}

func TestSendRejectsNonDraft(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &captureBus{})

	inv, _ := svc.Create(context.Background(), draftRequest())
	if _, err := svc.Send(context.Background(), inv.ID); err != nil {
		t.Fatalf("first Send: %v", err)
	}

	_, err := svc.Send(context.Background(), inv.ID)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict on double send, got %v", err)
	}
}

func TestMarkPaidFlow(t *testing.T) {
	store := newFakeStore()
	bus := &captureBus{}
	svc := newTestService(store, bus)

	inv, _ := svc.Create(context.Background(), draftRequest())

	if _, err := svc.MarkPaid(context.Background(), inv.ID); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict paying a draft, got %v", err)
	}

	if _, err := svc.Send(context.Background(), inv.ID); err != nil {
		t.Fatalf("Send: %v", err)
	}
	paid, err := svc.MarkPaid(context.Background(), inv.ID)
	if err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if paid.Status != repository.StatusPaid {
		t.Fatalf("expected paid status, got %q", paid.Status)
	}

	if _, ok := bus.published[len(bus.published)-1].(events.InvoicePaid); !ok {
		t.Fatalf("expected InvoicePaid event, got %T", bus.published[len(bus.published)-1])
	}
}

func TestUpdateOnlyDraft(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &captureBus{})

	inv, _ := svc.Create(context.Background(), draftRequest())

	req := draftRequest()
	req.Items[0].UnitPriceCents = 300000
	updated, err := svc.Update(context.Background(), inv.ID, req)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.SubtotalCents != 300000 {
		t.Fatalf("expected recomputed subtotal 300000, got %d", updated.SubtotalCents)
	}

	if _, err := svc.Send(context.Background(), inv.ID); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if _, err := svc.Update(context.Background(), inv.ID, req); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict editing sent invoice, got %v", err)
	}
}

func TestCancelPaidRejected(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &captureBus{})

	inv, _ := svc.Create(context.Background(), draftRequest())
	if _, err := svc.Send(context.Background(), inv.ID); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if _, err := svc.MarkPaid(context.Background(), inv.ID); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}

	_, err := svc.Cancel(context.Background(), inv.ID)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict cancelling paid invoice, got %v", err)
	}
}

func TestPaymentQR(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &captureBus{})

	inv, _ := svc.Create(context.Background(), draftRequest())

	png, err := svc.PaymentQR(context.Background(), inv.ID)
	if err != nil {
		t.Fatalf("PaymentQR: %v", err)
	}
	if len(png) == 0 {
		t.Fatal("expected PNG bytes")
	}
	// PNG magic header
	if png[0] != 0x89 || png[1] != 'P' || png[2] != 'N' || png[3] != 'G' {
		t.Fatal("expected PNG header")
	}
}

func TestPaymentQRWithoutLink(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &captureBus{})

	req := draftRequest()
	req.PaymentURL = ""
	inv, _ := svc.Create(context.Background(), req)

	_, err := svc.PaymentQR(context.Background(), inv.ID)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found without payment link, got %v", err)
	}
}
