package notification

import (
	"context"
	"strings"
	"testing"

	"studio_backend/internal/email"
	"studio_backend/internal/events"
	"studio_backend/platform/logger"

	"github.com/google/uuid"
)

type testNotificationConfig struct{}

func (testNotificationConfig) GetAppBaseURL() string        { return "https://studio.example.com" }
func (testNotificationConfig) GetStudioNotifyEmail() string { return "hello@studio.example.com" }

type testSender struct {
	resetURL          string
	confirmLow        float64
	confirmHigh       float64
	confirmCalls      int
	notifyTo          string
	notifyAdminURL    string
	proposalURL       string
	followUpSubject   string
	followUpBody      string
	contactSubject    string
	feedbackRating    int
	invoiceNumber     string
	invoicePaymentURL string
	paidNumber        string
	unsubscribeURL    string
}

func (s *testSender) SendPasswordResetEmail(_ context.Context, _, resetURL string) error {
	s.resetURL = resetURL
	return nil
}

func (s *testSender) SendAssessmentConfirmationEmail(_ context.Context, _, _, _ string, low, high float64) error {
	s.confirmCalls++
	s.confirmLow = low
	s.confirmHigh = high
	return nil
}

func (s *testSender) SendAssessmentNotificationEmail(_ context.Context, toEmail, _, _ string, _ float64, adminURL string) error {
	s.notifyTo = toEmail
	s.notifyAdminURL = adminURL
	return nil
}

func (s *testSender) SendProposalEmail(_ context.Context, _, _, proposalURL string) error {
	s.proposalURL = proposalURL
	return nil
}

func (s *testSender) SendInvoiceEmail(_ context.Context, _, _, invoiceNumber string, _ int64, paymentURL string, _ ...email.Attachment) error {
	s.invoiceNumber = invoiceNumber
	s.invoicePaymentURL = paymentURL
	return nil
}

func (s *testSender) SendInvoicePaidEmail(_ context.Context, _, _, invoiceNumber string, _ int64) error {
	s.paidNumber = invoiceNumber
	return nil
}

func (s *testSender) SendContactNotificationEmail(_ context.Context, _, _, _, subject, _ string) error {
	s.contactSubject = subject
	return nil
}

func (s *testSender) SendFeedbackNotificationEmail(_ context.Context, _ string, rating int, _, _ string) error {
	s.feedbackRating = rating
	return nil
}

func (s *testSender) SendNewsletterConfirmationEmail(_ context.Context, _, unsubscribeURL string) error {
	s.unsubscribeURL = unsubscribeURL
	return nil
}

func (s *testSender) SendCustomEmail(_ context.Context, _, subject, htmlContent string) error {
	s.followUpSubject = subject
	s.followUpBody = htmlContent
	return nil
}

func newTestModule(sender *testSender) *Module {
	return NewModule(sender, testNotificationConfig{}, logger.New("development"))
}

func TestHandlePasswordResetRequestedBuildsResetURL(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender)

	err := m.Handle(context.Background(), events.PasswordResetRequested{
		UserID:     uuid.New(),
		Email:      "admin@studio.example.com",
		ResetToken: "tok-123",
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	want := "https://studio.example.com/reset-password?token=tok-123"
	if sender.resetURL != want {
		t.Fatalf("expected reset URL %q, got %q", want, sender.resetURL)
	}
}

func TestHandleAssessmentSubmittedSendsBothEmails(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender)
	assessmentID := uuid.New()

	err := m.Handle(context.Background(), events.AssessmentSubmitted{
		AssessmentID: assessmentID,
		ContactEmail: "client@example.com",
		ContactName:  "Dana",
		ProjectType:  "web-app",
		Subtotal:     13750,
		RangeLow:     11688,
		RangeHigh:    17188,
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if sender.confirmCalls != 1 {
		t.Fatalf("expected 1 confirmation email, got %d", sender.confirmCalls)
	}
	if sender.confirmLow != 11688 || sender.confirmHigh != 17188 {
		t.Fatalf("expected price band 11688-17188, got %v-%v", sender.confirmLow, sender.confirmHigh)
	}
	if sender.notifyTo != "hello@studio.example.com" {
		t.Fatalf("expected studio notification, got %q", sender.notifyTo)
	}
	if !strings.Contains(sender.notifyAdminURL, assessmentID.String()) {
		t.Fatalf("expected admin URL to reference the assessment, got %q", sender.notifyAdminURL)
	}
}

func TestHandleProposalGeneratedLinksAdminProposal(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender)
	assessmentID := uuid.New()

	err := m.Handle(context.Background(), events.ProposalGenerated{
		AssessmentID: assessmentID,
		ProposalID:   uuid.New(),
		ContactName:  "Dana",
		ContactEmail: "client@example.com",
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	want := "https://studio.example.com/admin/assessments/" + assessmentID.String() + "/proposal"
	if sender.proposalURL != want {
		t.Fatalf("expected proposal URL %q, got %q", want, sender.proposalURL)
	}
}

func TestHandleAssessmentFollowUpDueEmailsStudio(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender)

	err := m.Handle(context.Background(), events.AssessmentFollowUpDue{
		AssessmentID: uuid.New(),
		ContactName:  "Dana",
		ContactEmail: "client@example.com",
		ProjectType:  "web-app",
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !strings.Contains(sender.followUpSubject, "still pending") {
		t.Fatalf("unexpected follow-up subject %q", sender.followUpSubject)
	}
	if !strings.Contains(sender.followUpBody, "client@example.com") {
		t.Fatalf("expected follow-up body to name the contact, got %q", sender.followUpBody)
	}
}

func TestHandleInvoiceIssuedForwardsPaymentLink(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender)

	err := m.Handle(context.Background(), events.InvoiceIssued{
		InvoiceID:     uuid.New(),
		InvoiceNumber: "INV-2026-0007",
		ClientName:    "Acme",
		ClientEmail:   "billing@acme.test",
		TotalCents:    302500,
		PaymentURL:    "https://pay.example.com/abc",
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if sender.invoiceNumber != "INV-2026-0007" {
		t.Fatalf("expected invoice number forwarded, got %q", sender.invoiceNumber)
	}
	if sender.invoicePaymentURL != "https://pay.example.com/abc" {
		t.Fatalf("expected payment URL forwarded, got %q", sender.invoicePaymentURL)
	}
}

func TestHandleInvoicePaid(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender)

	err := m.Handle(context.Background(), events.InvoicePaid{
		InvoiceID:     uuid.New(),
		InvoiceNumber: "INV-2026-0008",
		ClientName:    "Acme",
		ClientEmail:   "billing@acme.test",
		TotalCents:    10890,
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if sender.paidNumber != "INV-2026-0008" {
		t.Fatalf("expected paid receipt for INV-2026-0008, got %q", sender.paidNumber)
	}
}

func TestHandleContactAndFeedbackNotifications(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender)

	if err := m.Handle(context.Background(), events.ContactMessageReceived{
		ContactID: uuid.New(),
		Name:      "Dana",
		Email:     "dana@example.com",
		Subject:   "Project inquiry",
		Message:   "Hi there",
	}); err != nil {
		t.Fatalf("handle contact: %v", err)
	}
	if sender.contactSubject != "Project inquiry" {
		t.Fatalf("expected contact subject forwarded, got %q", sender.contactSubject)
	}

	if err := m.Handle(context.Background(), events.FeedbackReceived{
		FeedbackID: uuid.New(),
		Rating:     4,
		Page:       "/work",
		Message:    "Nice portfolio",
	}); err != nil {
		t.Fatalf("handle feedback: %v", err)
	}
	if sender.feedbackRating != 4 {
		t.Fatalf("expected rating 4 forwarded, got %d", sender.feedbackRating)
	}
}

func TestHandleNewsletterSubscribedBuildsUnsubscribeURL(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender)

	err := m.Handle(context.Background(), events.NewsletterSubscribed{
		SubscriberID:     uuid.New(),
		Email:            "reader@example.com",
		UnsubscribeToken: "raw-token",
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	want := "https://studio.example.com/newsletter/unsubscribe?token=raw-token"
	if sender.unsubscribeURL != want {
		t.Fatalf("expected unsubscribe URL %q, got %q", want, sender.unsubscribeURL)
	}
}
