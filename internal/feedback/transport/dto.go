package transport

import "time"

type SubmitFeedbackRequest struct {
	Name    string `json:"name" validate:"omitempty,max=120"`
	Email   string `json:"email" validate:"omitempty,email"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Page    string `json:"page" validate:"required,max=300"`
	Message string `json:"message" validate:"required,min=2,max=5000"`
}

type ReviewFeedbackRequest struct {
	Status    string `json:"status" validate:"required,oneof=new reviewed"`
	Published bool   `json:"published"`
}

type FeedbackResponse struct {
	ID        string    `json:"id"`
	Name      *string   `json:"name,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Rating    int       `json:"rating"`
	Page      string    `json:"page"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
}

// TestimonialResponse is the public view of a published entry. Email is
// never exposed.
type TestimonialResponse struct {
	Name      *string   `json:"name,omitempty"`
	Rating    int       `json:"rating"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
