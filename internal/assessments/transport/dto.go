package transport

import (
	"time"

	"studio_backend/internal/pricing"
)

// QuoteRequest carries the wizard answers for an interim price calculation.
// Unknown answer fields are ignored so new wizard questions do not break
// older backends.
type QuoteRequest struct {
	Answers pricing.Answers `json:"answers"`
}

type SuggestionsRequest struct {
	Answers pricing.Answers `json:"answers"`
}

type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

type SubmitAssessmentRequest struct {
	ContactName  string          `json:"contactName" validate:"required,min=2,max=120"`
	ContactEmail string          `json:"contactEmail" validate:"required,email"`
	ContactPhone string          `json:"contactPhone" validate:"omitempty,max=32"`
	Answers      pricing.Answers `json:"answers"`
}

type UpdateAssessmentRequest struct {
	Answers pricing.Answers `json:"answers"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending reviewed contacted archived"`
}

type AssessmentResponse struct {
	ID           string            `json:"id"`
	ContactName  string            `json:"contactName"`
	ContactEmail string            `json:"contactEmail"`
	ContactPhone *string           `json:"contactPhone,omitempty"`
	Answers      pricing.Answers   `json:"answers"`
	Breakdown    pricing.Breakdown `json:"breakdown"`
	Status       string            `json:"status"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

type ProposalResponse struct {
	ID           string            `json:"id"`
	AssessmentID string            `json:"assessmentId"`
	Title        string            `json:"title"`
	Markdown     string            `json:"markdown"`
	Breakdown    pricing.Breakdown `json:"breakdown"`
	UsedFallback bool              `json:"usedFallback"`
	DocumentKey  *string           `json:"documentKey,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
}
