package email

import (
	"context"

	"studio_backend/platform/config"
)

// Attachment represents a file attachment for an email.
type Attachment struct {
	Content  []byte
	FileName string // e.g. "invoice-INV-00042.pdf"
	MIMEType string // e.g. "application/pdf"
}

type Sender interface {
	SendPasswordResetEmail(ctx context.Context, toEmail, resetURL string) error
	SendAssessmentConfirmationEmail(ctx context.Context, toEmail, name, projectType string, low, high float64) error
	SendAssessmentNotificationEmail(ctx context.Context, toEmail, name, projectType string, subtotal float64, adminURL string) error
	SendProposalEmail(ctx context.Context, toEmail, name, proposalURL string) error
	SendInvoiceEmail(ctx context.Context, toEmail, clientName, invoiceNumber string, totalCents int64, paymentURL string, attachments ...Attachment) error
	SendInvoicePaidEmail(ctx context.Context, toEmail, clientName, invoiceNumber string, totalCents int64) error
	SendContactNotificationEmail(ctx context.Context, toEmail, name, fromEmail, subject, message string) error
	SendFeedbackNotificationEmail(ctx context.Context, toEmail string, rating int, page, message string) error
	SendNewsletterConfirmationEmail(ctx context.Context, toEmail, unsubscribeURL string) error
	SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error
}

// NoopSender is used when email delivery is disabled (local development).
type NoopSender struct{}

func (NoopSender) SendPasswordResetEmail(ctx context.Context, toEmail, resetURL string) error {
	return nil
}

func (NoopSender) SendAssessmentConfirmationEmail(ctx context.Context, toEmail, name, projectType string, low, high float64) error {
	return nil
}

func (NoopSender) SendAssessmentNotificationEmail(ctx context.Context, toEmail, name, projectType string, subtotal float64, adminURL string) error {
	return nil
}

func (NoopSender) SendProposalEmail(ctx context.Context, toEmail, name, proposalURL string) error {
	return nil
}

func (NoopSender) SendInvoiceEmail(ctx context.Context, toEmail, clientName, invoiceNumber string, totalCents int64, paymentURL string, attachments ...Attachment) error {
	return nil
}

func (NoopSender) SendInvoicePaidEmail(ctx context.Context, toEmail, clientName, invoiceNumber string, totalCents int64) error {
	return nil
}

func (NoopSender) SendContactNotificationEmail(ctx context.Context, toEmail, name, fromEmail, subject, message string) error {
	return nil
}

func (NoopSender) SendFeedbackNotificationEmail(ctx context.Context, toEmail string, rating int, page, message string) error {
	return nil
}

func (NoopSender) SendNewsletterConfirmationEmail(ctx context.Context, toEmail, unsubscribeURL string) error {
	return nil
}

func (NoopSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return nil
}

// NewSender returns the configured Sender implementation. With email
// delivery disabled it returns a NoopSender so callers never need to branch.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	), nil
}
