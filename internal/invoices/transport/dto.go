package transport

import "time"

type LineItemRequest struct {
	Description    string `json:"description" validate:"required,max=500"`
	Quantity       string `json:"quantity" validate:"required,max=50"`
	UnitPriceCents int64  `json:"unitPriceCents" validate:"gte=0"`
	TaxRateBps     int    `json:"taxRateBps" validate:"gte=0,lte=10000"`
}

type CreateInvoiceRequest struct {
	ClientName    string            `json:"clientName" validate:"required,min=2,max=200"`
	ClientEmail   string            `json:"clientEmail" validate:"required,email"`
	PricingMode   string            `json:"pricingMode" validate:"omitempty,oneof=exclusive inclusive"`
	DiscountType  string            `json:"discountType" validate:"omitempty,oneof=percentage fixed"`
	DiscountValue int64             `json:"discountValue" validate:"gte=0"`
	PaymentURL    string            `json:"paymentUrl" validate:"omitempty,url,max=2000"`
	Items         []LineItemRequest `json:"items" validate:"required,min=1,dive"`
}

type UpdateInvoiceRequest = CreateInvoiceRequest

// CalculateRequest prices line items without persisting an invoice.
type CalculateRequest struct {
	PricingMode   string            `json:"pricingMode" validate:"omitempty,oneof=exclusive inclusive"`
	DiscountType  string            `json:"discountType" validate:"omitempty,oneof=percentage fixed"`
	DiscountValue int64             `json:"discountValue" validate:"gte=0"`
	Items         []LineItemRequest `json:"items" validate:"required,min=1,dive"`
}

type TaxBreakdownLine struct {
	RateBps     int   `json:"rateBps"`
	AmountCents int64 `json:"amountCents"`
}

type CalculatedLineItem struct {
	Description         string `json:"description"`
	Quantity            string `json:"quantity"`
	UnitPriceCents      int64  `json:"unitPriceCents"`
	TaxRateBps          int    `json:"taxRateBps"`
	TotalBeforeTaxCents int64  `json:"totalBeforeTaxCents"`
	TotalTaxCents       int64  `json:"totalTaxCents"`
	LineTotalCents      int64  `json:"lineTotalCents"`
}

type CalculateResponse struct {
	Lines               []CalculatedLineItem `json:"lines"`
	SubtotalCents       int64                `json:"subtotalCents"`
	DiscountAmountCents int64                `json:"discountAmountCents"`
	TaxTotalCents       int64                `json:"taxTotalCents"`
	TaxBreakdown        []TaxBreakdownLine   `json:"taxBreakdown"`
	TotalCents          int64                `json:"totalCents"`
}

type InvoiceResponse struct {
	ID                  string               `json:"id"`
	Number              string               `json:"number"`
	ClientName          string               `json:"clientName"`
	ClientEmail         string               `json:"clientEmail"`
	Status              string               `json:"status"`
	PricingMode         string               `json:"pricingMode"`
	DiscountType        string               `json:"discountType"`
	DiscountValue       int64                `json:"discountValue"`
	PaymentURL          *string              `json:"paymentUrl,omitempty"`
	Lines               []CalculatedLineItem `json:"lines"`
	SubtotalCents       int64                `json:"subtotalCents"`
	DiscountAmountCents int64                `json:"discountAmountCents"`
	TaxTotalCents       int64                `json:"taxTotalCents"`
	TotalCents          int64                `json:"totalCents"`
	IssuedAt            *time.Time           `json:"issuedAt,omitempty"`
	PaidAt              *time.Time           `json:"paidAt,omitempty"`
	CreatedAt           time.Time            `json:"createdAt"`
	UpdatedAt           time.Time            `json:"updatedAt"`
}
