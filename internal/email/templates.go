package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
	CTALabel   string
	CTAURL     string
}

type passwordResetEmailData struct {
	baseEmailData
}

type assessmentConfirmationEmailData struct {
	baseEmailData
	Name         string
	ProjectType  string
	EstimateLow  string
	EstimateHigh string
}

type assessmentNotificationEmailData struct {
	baseEmailData
	Name        string
	ProjectType string
	Subtotal    string
}

type proposalEmailData struct {
	baseEmailData
	Name string
}

type invoiceEmailData struct {
	baseEmailData
	ClientName     string
	InvoiceNumber  string
	TotalFormatted string
	HasAttachments bool
}

type invoicePaidEmailData struct {
	baseEmailData
	ClientName     string
	InvoiceNumber  string
	TotalFormatted string
}

type contactNotificationEmailData struct {
	baseEmailData
	Name    string
	Email   string
	Subject string
	Message string
}

type feedbackNotificationEmailData struct {
	baseEmailData
	Rating  int
	Page    string
	Message string
}

type newsletterConfirmationEmailData struct {
	baseEmailData
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func formatCurrencyCents(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}

func formatCurrencyUSD(amount float64) string {
	return fmt.Sprintf("$%.0f", amount)
}
