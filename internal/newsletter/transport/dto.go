package transport

import "time"

type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"omitempty,max=120"`
}

type UnsubscribeRequest struct {
	Token string `json:"token" validate:"required,min=10,max=200"`
}

type CreateCampaignRequest struct {
	Subject string `json:"subject" validate:"required,min=2,max=300"`
	Body    string `json:"body" validate:"required,min=10"`
}

type UpdateCampaignRequest = CreateCampaignRequest

type ScheduleCampaignRequest struct {
	SendAt time.Time `json:"sendAt" validate:"required"`
}

type SubscriberResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type CampaignResponse struct {
	ID             string     `json:"id"`
	Subject        string     `json:"subject"`
	Body           string     `json:"body"`
	Status         string     `json:"status"`
	ScheduledAt    *time.Time `json:"scheduledAt,omitempty"`
	SentAt         *time.Time `json:"sentAt,omitempty"`
	RecipientCount int        `json:"recipientCount"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}
