package handler

import (
	"net/http"
	"strconv"

	"studio_backend/internal/newsletter/repository"
	"studio_backend/internal/newsletter/service"
	"studio_backend/internal/newsletter/transport"
	"studio_backend/platform/httpkit"
	"studio_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid campaign id"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Subscribe handles the public newsletter signup form.
func (h *Handler) Subscribe(c *gin.Context) {
	var req transport.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if err := h.svc.Subscribe(c.Request.Context(), req.Email, req.Name); httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusAccepted, gin.H{"status": "subscribed"})
}

// Unsubscribe deactivates the subscription owning the token. The token comes
// from the link in every newsletter email.
func (h *Handler) Unsubscribe(c *gin.Context) {
	var req transport.UnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if err := h.svc.Unsubscribe(c.Request.Context(), req.Token); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"status": "unsubscribed"})
}

func (h *Handler) ListSubscribers(c *gin.Context) {
	status := c.Query("status")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, err := h.svc.ListSubscribers(c.Request.Context(), status, limit, offset)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.SubscriberResponse, 0, len(list))
	for _, sub := range list {
		out = append(out, transport.SubscriberResponse{
			ID:        sub.ID.String(),
			Email:     sub.Email,
			Name:      sub.Name,
			Status:    sub.Status,
			CreatedAt: sub.CreatedAt,
		})
	}
	httpkit.OK(c, out)
}

func (h *Handler) CreateCampaign(c *gin.Context) {
	var req transport.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	created, err := h.svc.CreateCampaign(c.Request.Context(), req.Subject, req.Body)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, toCampaignResponse(created))
}

func (h *Handler) ListCampaigns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, err := h.svc.ListCampaigns(c.Request.Context(), limit, offset)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.CampaignResponse, 0, len(list))
	for _, campaign := range list {
		out = append(out, toCampaignResponse(campaign))
	}
	httpkit.OK(c, out)
}

func (h *Handler) GetCampaign(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	campaign, err := h.svc.GetCampaign(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toCampaignResponse(campaign))
}

func (h *Handler) UpdateCampaign(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	updated, err := h.svc.UpdateCampaign(c.Request.Context(), id, req.Subject, req.Body)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toCampaignResponse(updated))
}

func (h *Handler) ScheduleCampaign(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.ScheduleCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if err := h.svc.Schedule(c.Request.Context(), id, req.SendAt); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"status": "scheduled", "sendAt": req.SendAt})
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, false
	}
	return id, true
}

func toCampaignResponse(c repository.Campaign) transport.CampaignResponse {
	return transport.CampaignResponse{
		ID:             c.ID.String(),
		Subject:        c.Subject,
		Body:           c.Body,
		Status:         c.Status,
		ScheduledAt:    c.ScheduledAt,
		SentAt:         c.SentAt,
		RecipientCount: c.RecipientCount,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
