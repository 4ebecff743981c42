package email

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface using a direct SMTP connection
// via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string, attachments ...Attachment) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	for _, att := range attachments {
		msg.AttachReader(att.FileName, bytes.NewReader(att.Content))
	}

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendPasswordResetEmail(ctx context.Context, toEmail, resetURL string) error {
	content, err := renderEmailTemplate("password_reset.html", passwordResetEmailData{
		baseEmailData: baseEmailData{
			Title:    "Reset your password",
			Heading:  "Reset your password",
			CTALabel: "Choose a new password",
			CTAURL:   resetURL,
		},
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectPasswordReset, content)
}

func (s *SMTPSender) SendAssessmentConfirmationEmail(ctx context.Context, toEmail, name, projectType string, low, high float64) error {
	content, err := renderEmailTemplate("assessment_confirmation.html", assessmentConfirmationEmailData{
		baseEmailData: baseEmailData{
			Title:   "We received your project assessment",
			Heading: "Thanks for telling us about your project",
		},
		Name:         name,
		ProjectType:  projectType,
		EstimateLow:  formatCurrencyUSD(low),
		EstimateHigh: formatCurrencyUSD(high),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectAssessmentConfirmation, content)
}

func (s *SMTPSender) SendAssessmentNotificationEmail(ctx context.Context, toEmail, name, projectType string, subtotal float64, adminURL string) error {
	content, err := renderEmailTemplate("assessment_notification.html", assessmentNotificationEmailData{
		baseEmailData: baseEmailData{
			Title:    "New project assessment",
			Heading:  "New project assessment",
			CTALabel: "Review in dashboard",
			CTAURL:   adminURL,
		},
		Name:        name,
		ProjectType: projectType,
		Subtotal:    formatCurrencyUSD(subtotal),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectAssessmentNotificationFmt, name), content)
}

func (s *SMTPSender) SendProposalEmail(ctx context.Context, toEmail, name, proposalURL string) error {
	content, err := renderEmailTemplate("proposal.html", proposalEmailData{
		baseEmailData: baseEmailData{
			Title:    "Your project proposal",
			Heading:  "Your project proposal is ready",
			CTALabel: "View proposal",
			CTAURL:   proposalURL,
		},
		Name: name,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectProposal, content)
}

func (s *SMTPSender) SendInvoiceEmail(ctx context.Context, toEmail, clientName, invoiceNumber string, totalCents int64, paymentURL string, attachments ...Attachment) error {
	content, err := renderEmailTemplate("invoice.html", invoiceEmailData{
		baseEmailData: baseEmailData{
			Title:    "Invoice " + invoiceNumber,
			Heading:  "Invoice " + invoiceNumber,
			CTALabel: "Pay online",
			CTAURL:   paymentURL,
		},
		ClientName:     clientName,
		InvoiceNumber:  invoiceNumber,
		TotalFormatted: formatCurrencyCents(totalCents),
		HasAttachments: len(attachments) > 0,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectInvoiceFmt, invoiceNumber), content, attachments...)
}

func (s *SMTPSender) SendInvoicePaidEmail(ctx context.Context, toEmail, clientName, invoiceNumber string, totalCents int64) error {
	content, err := renderEmailTemplate("invoice_paid.html", invoicePaidEmailData{
		baseEmailData: baseEmailData{
			Title:   "Payment received",
			Heading: "Payment received, thank you",
		},
		ClientName:     clientName,
		InvoiceNumber:  invoiceNumber,
		TotalFormatted: formatCurrencyCents(totalCents),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectInvoicePaidFmt, invoiceNumber), content)
}

func (s *SMTPSender) SendContactNotificationEmail(ctx context.Context, toEmail, name, fromEmail, subject, message string) error {
	content, err := renderEmailTemplate("contact_notification.html", contactNotificationEmailData{
		baseEmailData: baseEmailData{
			Title:   "New contact message",
			Heading: "New contact message",
		},
		Name:    name,
		Email:   fromEmail,
		Subject: subject,
		Message: message,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectContactNotificationFmt, name), content)
}

func (s *SMTPSender) SendFeedbackNotificationEmail(ctx context.Context, toEmail string, rating int, page, message string) error {
	content, err := renderEmailTemplate("feedback_notification.html", feedbackNotificationEmailData{
		baseEmailData: baseEmailData{
			Title:   "New site feedback",
			Heading: "New site feedback",
		},
		Rating:  rating,
		Page:    page,
		Message: message,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectFeedbackNotification, content)
}

func (s *SMTPSender) SendNewsletterConfirmationEmail(ctx context.Context, toEmail, unsubscribeURL string) error {
	content, err := renderEmailTemplate("newsletter_confirmation.html", newsletterConfirmationEmailData{
		baseEmailData: baseEmailData{
			Title:    "You're subscribed",
			Heading:  "You're subscribed",
			CTALabel: "Unsubscribe",
			CTAURL:   unsubscribeURL,
		},
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectNewsletterConfirmation, content)
}

func (s *SMTPSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return s.send(ctx, toEmail, subject, htmlContent)
}
