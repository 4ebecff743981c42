package handler

import (
	"net/http"
	"strconv"

	"studio_backend/internal/assessments/repository"
	"studio_backend/internal/assessments/service"
	"studio_backend/internal/assessments/transport"
	"studio_backend/platform/httpkit"
	"studio_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid assessment id"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Quote prices the current wizard answers without persisting anything.
func (h *Handler) Quote(c *gin.Context) {
	var req transport.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	httpkit.OK(c, h.svc.Quote(req.Answers))
}

// Suggestions returns follow-up suggestions for the current answers.
func (h *Handler) Suggestions(c *gin.Context) {
	var req transport.SuggestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	suggestions := h.svc.Suggest(c.Request.Context(), req.Answers)
	httpkit.OK(c, transport.SuggestionsResponse{Suggestions: suggestions})
}

// Submit stores a completed assessment.
func (h *Handler) Submit(c *gin.Context) {
	var req transport.SubmitAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	created, err := h.svc.Submit(c.Request.Context(), req.ContactName, req.ContactEmail, req.ContactPhone, req.Answers)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, toAssessmentResponse(created))
}

func (h *Handler) List(c *gin.Context) {
	status := c.Query("status")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, err := h.svc.List(c.Request.Context(), status, limit, offset)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.AssessmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAssessmentResponse(a))
	}
	httpkit.OK(c, out)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	a, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toAssessmentResponse(a))
}

// UpdateAnswers replaces the stored answers and reprices the assessment.
func (h *Handler) UpdateAnswers(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.UpdateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	updated, err := h.svc.UpdateAnswers(c.Request.Context(), id, req.Answers)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toAssessmentResponse(updated))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"status": req.Status})
}

// GenerateProposal drafts a new proposal for the assessment.
func (h *Handler) GenerateProposal(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	proposal, err := h.svc.GenerateProposal(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, toProposalResponse(proposal))
}

// GetProposal returns the most recent proposal for the assessment.
func (h *Handler) GetProposal(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	proposal, err := h.svc.GetProposal(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toProposalResponse(proposal))
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, false
	}
	return id, true
}

func toAssessmentResponse(a repository.Assessment) transport.AssessmentResponse {
	return transport.AssessmentResponse{
		ID:           a.ID.String(),
		ContactName:  a.ContactName,
		ContactEmail: a.ContactEmail,
		ContactPhone: a.ContactPhone,
		Answers:      a.Answers,
		Breakdown:    a.Breakdown,
		Status:       a.Status,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func toProposalResponse(p repository.Proposal) transport.ProposalResponse {
	return transport.ProposalResponse{
		ID:           p.ID.String(),
		AssessmentID: p.AssessmentID.String(),
		Title:        p.Title,
		Markdown:     p.Markdown,
		Breakdown:    p.Breakdown,
		UsedFallback: p.UsedFallback,
		DocumentKey:  p.DocumentKey,
		CreatedAt:    p.CreatedAt,
	}
}
