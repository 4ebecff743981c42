// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"studio_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Auth Domain Events
// =============================================================================

// PasswordResetRequested is published when an admin requests a password reset.
type PasswordResetRequested struct {
	BaseEvent
	UserID     uuid.UUID `json:"userId"`
	Email      string    `json:"email"`
	ResetToken string    `json:"resetToken"`
}

func (e PasswordResetRequested) EventName() string { return "auth.password.reset_requested" }

// =============================================================================
// Assessment Domain Events
// =============================================================================

// AssessmentSubmitted is published when a visitor completes the project
// assessment wizard.
type AssessmentSubmitted struct {
	BaseEvent
	AssessmentID uuid.UUID `json:"assessmentId"`
	ContactEmail string    `json:"contactEmail"`
	ContactName  string    `json:"contactName"`
	ProjectType  string    `json:"projectType"`
	Subtotal     float64   `json:"subtotal"`
	RangeLow     float64   `json:"rangeLow"`
	RangeHigh    float64   `json:"rangeHigh"`
}

func (e AssessmentSubmitted) EventName() string { return "assessments.assessment.submitted" }

// ProposalGenerated is published when a proposal document has been produced
// for an assessment.
type ProposalGenerated struct {
	BaseEvent
	AssessmentID uuid.UUID `json:"assessmentId"`
	ProposalID   uuid.UUID `json:"proposalId"`
	ContactName  string    `json:"contactName"`
	ContactEmail string    `json:"contactEmail"`
	UsedFallback bool      `json:"usedFallback"`
}

func (e ProposalGenerated) EventName() string { return "assessments.proposal.generated" }

// AssessmentFollowUpDue is published by the worker when a submitted
// assessment is still pending after the follow-up delay.
type AssessmentFollowUpDue struct {
	BaseEvent
	AssessmentID uuid.UUID `json:"assessmentId"`
	ContactName  string    `json:"contactName"`
	ContactEmail string    `json:"contactEmail"`
	ProjectType  string    `json:"projectType"`
}

func (e AssessmentFollowUpDue) EventName() string { return "assessments.followup.due" }

// =============================================================================
// Contact Domain Events
// =============================================================================

// ContactMessageReceived is published when a visitor sends a contact message.
type ContactMessageReceived struct {
	BaseEvent
	ContactID uuid.UUID `json:"contactId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
}

func (e ContactMessageReceived) EventName() string { return "contacts.message.received" }

// =============================================================================
// Invoice Domain Events
// =============================================================================

// InvoiceIssued is published when an invoice is sent to a client.
type InvoiceIssued struct {
	BaseEvent
	InvoiceID     uuid.UUID `json:"invoiceId"`
	InvoiceNumber string    `json:"invoiceNumber"`
	ClientName    string    `json:"clientName"`
	ClientEmail   string    `json:"clientEmail"`
	TotalCents    int64     `json:"totalCents"`
	PaymentURL    string    `json:"paymentUrl,omitempty"`
}

func (e InvoiceIssued) EventName() string { return "invoices.invoice.issued" }

// InvoicePaid is published when an invoice is marked as paid.
type InvoicePaid struct {
	BaseEvent
	InvoiceID     uuid.UUID `json:"invoiceId"`
	InvoiceNumber string    `json:"invoiceNumber"`
	ClientName    string    `json:"clientName"`
	ClientEmail   string    `json:"clientEmail"`
	TotalCents    int64     `json:"totalCents"`
}

func (e InvoicePaid) EventName() string { return "invoices.invoice.paid" }

// =============================================================================
// Feedback Domain Events
// =============================================================================

// FeedbackReceived is published when a visitor submits site feedback.
type FeedbackReceived struct {
	BaseEvent
	FeedbackID uuid.UUID `json:"feedbackId"`
	Rating     int       `json:"rating"`
	Page       string    `json:"page"`
	Message    string    `json:"message"`
}

func (e FeedbackReceived) EventName() string { return "feedback.entry.received" }

// =============================================================================
// Newsletter Domain Events
// =============================================================================

// NewsletterSubscribed is published when a visitor subscribes to the
// newsletter.
type NewsletterSubscribed struct {
	BaseEvent
	SubscriberID uuid.UUID `json:"subscriberId"`
	Email        string    `json:"email"`
	// UnsubscribeToken is the raw opt-out token, only available at
	// subscription time. Consumers build the unsubscribe link from it.
	UnsubscribeToken string `json:"-"`
}

func (e NewsletterSubscribed) EventName() string { return "newsletter.subscriber.subscribed" }

// CampaignScheduled is published when a newsletter campaign is queued for
// dispatch.
type CampaignScheduled struct {
	BaseEvent
	CampaignID uuid.UUID `json:"campaignId"`
	Subject    string    `json:"subject"`
	SendAt     string    `json:"sendAt"`
}

func (e CampaignScheduled) EventName() string { return "newsletter.campaign.scheduled" }
