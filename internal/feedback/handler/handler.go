package handler

import (
	"net/http"
	"strconv"

	"studio_backend/internal/feedback/repository"
	"studio_backend/internal/feedback/service"
	"studio_backend/internal/feedback/transport"
	"studio_backend/platform/httpkit"
	"studio_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid feedback id"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Submit handles the public feedback form.
func (h *Handler) Submit(c *gin.Context) {
	var req transport.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	_, err := h.svc.Submit(c.Request.Context(), service.SubmitInput{
		Name: req.Name, Email: req.Email, Rating: req.Rating, Page: req.Page, Message: req.Message,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusAccepted, gin.H{"status": "received"})
}

// Testimonials lists published feedback for the public site.
func (h *Handler) Testimonials(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	list, err := h.svc.ListTestimonials(c.Request.Context(), limit)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.TestimonialResponse, 0, len(list))
	for _, e := range list {
		out = append(out, transport.TestimonialResponse{
			Name: e.Name, Rating: e.Rating, Message: e.Message, CreatedAt: e.CreatedAt,
		})
	}
	httpkit.OK(c, out)
}

func (h *Handler) List(c *gin.Context) {
	status := c.Query("status")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, err := h.svc.List(c.Request.Context(), status, limit, offset)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.FeedbackResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toFeedbackResponse(e))
	}
	httpkit.OK(c, out)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	e, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toFeedbackResponse(e))
}

func (h *Handler) Review(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.ReviewFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	updated, err := h.svc.Review(c.Request.Context(), id, req.Status, req.Published)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toFeedbackResponse(updated))
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, false
	}
	return id, true
}

func toFeedbackResponse(e repository.Entry) transport.FeedbackResponse {
	return transport.FeedbackResponse{
		ID:        e.ID.String(),
		Name:      e.Name,
		Email:     e.Email,
		Rating:    e.Rating,
		Page:      e.Page,
		Message:   e.Message,
		Status:    e.Status,
		Published: e.Published,
		CreatedAt: e.CreatedAt,
	}
}
