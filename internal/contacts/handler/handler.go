package handler

import (
	"net/http"
	"strconv"

	"studio_backend/internal/contacts/repository"
	"studio_backend/internal/contacts/service"
	"studio_backend/internal/contacts/transport"
	"studio_backend/platform/httpkit"
	"studio_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid contact id"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// SubmitMessage handles the public contact form.
func (h *Handler) SubmitMessage(c *gin.Context) {
	var req transport.SubmitMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	in := service.ContactInput{Name: req.Name, Email: req.Email, Phone: req.Phone}
	if err := h.svc.SubmitMessage(c.Request.Context(), in, req.Subject, req.Message); httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusAccepted, gin.H{"status": "received"})
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	created, err := h.svc.Create(c.Request.Context(), service.ContactInput{
		Name: req.Name, Email: req.Email, Phone: req.Phone, Company: req.Company,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, toContactResponse(created))
}

func (h *Handler) List(c *gin.Context) {
	search := c.Query("search")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, err := h.svc.List(c.Request.Context(), search, limit, offset)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.ContactResponse, 0, len(list))
	for _, contact := range list {
		out = append(out, toContactResponse(contact))
	}
	httpkit.OK(c, out)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	contact, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toContactResponse(contact))
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), id, service.ContactInput{
		Name: req.Name, Email: req.Email, Phone: req.Phone, Company: req.Company,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toContactResponse(updated))
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

func (h *Handler) AddNote(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	userID, found := httpkit.GetUserID(c)
	if !found {
		httpkit.Error(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	var req transport.AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	note, err := h.svc.AddNote(c.Request.Context(), id, userID, req.Body)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, toNoteResponse(note))
}

func (h *Handler) ListNotes(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	notes, err := h.svc.ListNotes(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.NoteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteResponse(n))
	}
	httpkit.OK(c, out)
}

func (h *Handler) ListMessages(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	messages, err := h.svc.ListMessages(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, transport.MessageResponse{
			ID:        m.ID.String(),
			ContactID: m.ContactID.String(),
			Subject:   m.Subject,
			Body:      m.Body,
			CreatedAt: m.CreatedAt,
		})
	}
	httpkit.OK(c, out)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, false
	}
	return id, true
}

func toContactResponse(c repository.Contact) transport.ContactResponse {
	return transport.ContactResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Company:   c.Company,
		Source:    c.Source,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toNoteResponse(n repository.ContactNote) transport.NoteResponse {
	return transport.NoteResponse{
		ID:        n.ID.String(),
		ContactID: n.ContactID.String(),
		AuthorID:  n.AuthorID.String(),
		Body:      n.Body,
		CreatedAt: n.CreatedAt,
	}
}
