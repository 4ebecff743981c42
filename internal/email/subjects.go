package email

const (
	subjectPasswordReset             = "Reset your password"
	subjectAssessmentConfirmation    = "We received your project assessment"
	subjectAssessmentNotificationFmt = "New project assessment from %s"
	subjectProposal                  = "Your project proposal"
	subjectInvoiceFmt                = "Invoice %s"
	subjectInvoicePaidFmt            = "Payment received for invoice %s"
	subjectContactNotificationFmt    = "New contact message from %s"
	subjectFeedbackNotification      = "New site feedback"
	subjectNewsletterConfirmation    = "You're subscribed to the newsletter"
)
