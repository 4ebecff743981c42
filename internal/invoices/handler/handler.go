package handler

import (
	"context"
	"net/http"
	"strconv"

	"studio_backend/internal/invoices/repository"
	"studio_backend/internal/invoices/service"
	"studio_backend/internal/invoices/transport"
	"studio_backend/platform/httpkit"
	"studio_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid invoice id"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Calculate prices line items without creating an invoice.
func (h *Handler) Calculate(c *gin.Context) {
	var req transport.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	httpkit.OK(c, h.svc.Calculate(req))
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	created, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, toInvoiceResponse(created))
}

func (h *Handler) List(c *gin.Context) {
	status := c.Query("status")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, err := h.svc.List(c.Request.Context(), status, limit, offset)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, toInvoiceResponse(inv))
	}
	httpkit.OK(c, out)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	inv, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toInvoiceResponse(inv))
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toInvoiceResponse(updated))
}

func (h *Handler) Send(c *gin.Context) {
	h.statusAction(c, h.svc.Send)
}

func (h *Handler) MarkPaid(c *gin.Context) {
	h.statusAction(c, h.svc.MarkPaid)
}

func (h *Handler) Cancel(c *gin.Context) {
	h.statusAction(c, h.svc.Cancel)
}

func (h *Handler) statusAction(c *gin.Context, action func(ctx context.Context, id uuid.UUID) (repository.Invoice, error)) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	inv, err := action(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toInvoiceResponse(inv))
}

// PaymentQR streams the payment-link QR code as a PNG.
func (h *Handler) PaymentQR(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	png, err := h.svc.PaymentQR(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, false
	}
	return id, true
}

func toInvoiceResponse(inv repository.Invoice) transport.InvoiceResponse {
	lines := make([]transport.CalculatedLineItem, 0, len(inv.Items))
	for _, item := range inv.Items {
		lines = append(lines, transport.CalculatedLineItem{
			Description:    item.Description,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			TaxRateBps:     item.TaxRateBps,
		})
	}
	return transport.InvoiceResponse{
		ID:                  inv.ID.String(),
		Number:              inv.Number,
		ClientName:          inv.ClientName,
		ClientEmail:         inv.ClientEmail,
		Status:              inv.Status,
		PricingMode:         inv.PricingMode,
		DiscountType:        inv.DiscountType,
		DiscountValue:       inv.DiscountValue,
		PaymentURL:          inv.PaymentURL,
		Lines:               lines,
		SubtotalCents:       inv.SubtotalCents,
		DiscountAmountCents: inv.DiscountAmountCents,
		TaxTotalCents:       inv.TaxTotalCents,
		TotalCents:          inv.TotalCents,
		IssuedAt:            inv.IssuedAt,
		PaidAt:              inv.PaidAt,
		CreatedAt:           inv.CreatedAt,
		UpdatedAt:           inv.UpdatedAt,
	}
}
