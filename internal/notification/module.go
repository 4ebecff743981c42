// Package notification provides event handlers for sending emails in
// response to domain events. It subscribes to events and inverts the
// dependency: domain modules never need to know about email providers
// or templates.
package notification

import (
	"context"
	"fmt"
	"html"
	"strings"

	"studio_backend/internal/email"
	"studio_backend/internal/events"
	apphttp "studio_backend/internal/http"
	"studio_backend/platform/config"
	"studio_backend/platform/logger"
)

// Module handles all notification-related event subscriptions.
type Module struct {
	sender email.Sender
	cfg    config.NotificationConfig
	log    *logger.Logger
}

func NewModule(sender email.Sender, cfg config.NotificationConfig, log *logger.Logger) *Module {
	return &Module{
		sender: sender,
		cfg:    cfg,
		log:    log,
	}
}

func (m *Module) Name() string { return "notification" }

// RegisterRoutes is a no-op. The module's only surface is event handlers.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {}

// RegisterHandlers subscribes the module to all domain events it cares about.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.PasswordResetRequested{}.EventName(), m)
	bus.Subscribe(events.AssessmentSubmitted{}.EventName(), m)
	bus.Subscribe(events.ProposalGenerated{}.EventName(), m)
	bus.Subscribe(events.AssessmentFollowUpDue{}.EventName(), m)
	bus.Subscribe(events.ContactMessageReceived{}.EventName(), m)
	bus.Subscribe(events.FeedbackReceived{}.EventName(), m)
	bus.Subscribe(events.InvoiceIssued{}.EventName(), m)
	bus.Subscribe(events.InvoicePaid{}.EventName(), m)
	bus.Subscribe(events.NewsletterSubscribed{}.EventName(), m)
}

// Handle dispatches an event to its typed handler.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.PasswordResetRequested:
		return m.handlePasswordResetRequested(ctx, e)
	case events.AssessmentSubmitted:
		return m.handleAssessmentSubmitted(ctx, e)
	case events.ProposalGenerated:
		return m.handleProposalGenerated(ctx, e)
	case events.AssessmentFollowUpDue:
		return m.handleAssessmentFollowUpDue(ctx, e)
	case events.ContactMessageReceived:
		return m.handleContactMessageReceived(ctx, e)
	case events.FeedbackReceived:
		return m.handleFeedbackReceived(ctx, e)
	case events.InvoiceIssued:
		return m.handleInvoiceIssued(ctx, e)
	case events.InvoicePaid:
		return m.handleInvoicePaid(ctx, e)
	case events.NewsletterSubscribed:
		return m.handleNewsletterSubscribed(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handlePasswordResetRequested(ctx context.Context, e events.PasswordResetRequested) error {
	resetURL := m.buildURL("/reset-password", e.ResetToken)
	if err := m.sender.SendPasswordResetEmail(ctx, e.Email, resetURL); err != nil {
		m.log.Error("failed to send password reset email",
			"userId", e.UserID,
			"email", e.Email,
			"error", err,
		)
		return err
	}
	m.log.Info("password reset email sent", "userId", e.UserID, "email", e.Email)
	return nil
}

// handleAssessmentSubmitted sends the estimate confirmation to the client
// and a new-lead alert to the studio inbox. The client email carries the
// price band rather than the exact subtotal.
func (m *Module) handleAssessmentSubmitted(ctx context.Context, e events.AssessmentSubmitted) error {
	if err := m.sender.SendAssessmentConfirmationEmail(ctx, e.ContactEmail, e.ContactName, e.ProjectType, e.RangeLow, e.RangeHigh); err != nil {
		m.log.Error("failed to send assessment confirmation email",
			"assessmentId", e.AssessmentID,
			"email", e.ContactEmail,
			"error", err,
		)
		return err
	}

	adminURL := m.adminURL("/admin/assessments/" + e.AssessmentID.String())
	if err := m.sender.SendAssessmentNotificationEmail(ctx, m.cfg.GetStudioNotifyEmail(), e.ContactName, e.ProjectType, e.Subtotal, adminURL); err != nil {
		m.log.Error("failed to send assessment notification email",
			"assessmentId", e.AssessmentID,
			"error", err,
		)
		return err
	}
	m.log.Info("assessment emails sent", "assessmentId", e.AssessmentID, "email", e.ContactEmail)
	return nil
}

func (m *Module) handleProposalGenerated(ctx context.Context, e events.ProposalGenerated) error {
	proposalURL := m.adminURL("/admin/assessments/" + e.AssessmentID.String() + "/proposal")
	if err := m.sender.SendProposalEmail(ctx, m.cfg.GetStudioNotifyEmail(), e.ContactName, proposalURL); err != nil {
		m.log.Error("failed to send proposal email",
			"assessmentId", e.AssessmentID,
			"proposalId", e.ProposalID,
			"error", err,
		)
		return err
	}
	m.log.Info("proposal email sent",
		"assessmentId", e.AssessmentID,
		"proposalId", e.ProposalID,
		"usedFallback", e.UsedFallback,
	)
	return nil
}

func (m *Module) handleAssessmentFollowUpDue(ctx context.Context, e events.AssessmentFollowUpDue) error {
	subject := fmt.Sprintf("Follow up: %s assessment from %s still pending", e.ProjectType, e.ContactName)
	body := fmt.Sprintf(
		"<p>The %s assessment submitted by %s (%s) has not been reviewed yet.</p><p><a href=%q>Open it in the admin panel</a></p>",
		html.EscapeString(e.ProjectType),
		html.EscapeString(e.ContactName),
		html.EscapeString(e.ContactEmail),
		m.adminURL("/admin/assessments/"+e.AssessmentID.String()),
	)
	if err := m.sender.SendCustomEmail(ctx, m.cfg.GetStudioNotifyEmail(), subject, body); err != nil {
		m.log.Error("failed to send follow-up reminder email",
			"assessmentId", e.AssessmentID,
			"error", err,
		)
		return err
	}
	m.log.Info("follow-up reminder email sent", "assessmentId", e.AssessmentID)
	return nil
}

func (m *Module) handleContactMessageReceived(ctx context.Context, e events.ContactMessageReceived) error {
	if err := m.sender.SendContactNotificationEmail(ctx, m.cfg.GetStudioNotifyEmail(), e.Name, e.Email, e.Subject, e.Message); err != nil {
		m.log.Error("failed to send contact notification email",
			"contactId", e.ContactID,
			"error", err,
		)
		return err
	}
	m.log.Info("contact notification email sent", "contactId", e.ContactID)
	return nil
}

func (m *Module) handleFeedbackReceived(ctx context.Context, e events.FeedbackReceived) error {
	if err := m.sender.SendFeedbackNotificationEmail(ctx, m.cfg.GetStudioNotifyEmail(), e.Rating, e.Page, e.Message); err != nil {
		m.log.Error("failed to send feedback notification email",
			"feedbackId", e.FeedbackID,
			"error", err,
		)
		return err
	}
	m.log.Info("feedback notification email sent", "feedbackId", e.FeedbackID, "rating", e.Rating)
	return nil
}

func (m *Module) handleInvoiceIssued(ctx context.Context, e events.InvoiceIssued) error {
	if err := m.sender.SendInvoiceEmail(ctx, e.ClientEmail, e.ClientName, e.InvoiceNumber, e.TotalCents, e.PaymentURL); err != nil {
		m.log.Error("failed to send invoice email",
			"invoiceId", e.InvoiceID,
			"invoiceNumber", e.InvoiceNumber,
			"error", err,
		)
		return err
	}
	m.log.Info("invoice email sent", "invoiceId", e.InvoiceID, "invoiceNumber", e.InvoiceNumber)
	return nil
}

func (m *Module) handleInvoicePaid(ctx context.Context, e events.InvoicePaid) error {
	if err := m.sender.SendInvoicePaidEmail(ctx, e.ClientEmail, e.ClientName, e.InvoiceNumber, e.TotalCents); err != nil {
		m.log.Error("failed to send invoice paid email",
			"invoiceId", e.InvoiceID,
			"invoiceNumber", e.InvoiceNumber,
			"error", err,
		)
		return err
	}
	m.log.Info("invoice paid email sent", "invoiceId", e.InvoiceID, "invoiceNumber", e.InvoiceNumber)
	return nil
}

func (m *Module) handleNewsletterSubscribed(ctx context.Context, e events.NewsletterSubscribed) error {
	unsubscribeURL := m.buildURL("/newsletter/unsubscribe", e.UnsubscribeToken)
	if err := m.sender.SendNewsletterConfirmationEmail(ctx, e.Email, unsubscribeURL); err != nil {
		m.log.Error("failed to send newsletter confirmation email",
			"subscriberId", e.SubscriberID,
			"email", e.Email,
			"error", err,
		)
		return err
	}
	m.log.Info("newsletter confirmation email sent", "subscriberId", e.SubscriberID, "email", e.Email)
	return nil
}

func (m *Module) buildURL(path string, tokenValue string) string {
	base := strings.TrimRight(m.cfg.GetAppBaseURL(), "/")
	return base + path + "?token=" + tokenValue
}

func (m *Module) adminURL(path string) string {
	return strings.TrimRight(m.cfg.GetAppBaseURL(), "/") + path
}
