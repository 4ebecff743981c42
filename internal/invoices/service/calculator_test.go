package service

import (
	"testing"

	"studio_backend/internal/invoices/transport"
)

func TestCalculateInvoice_ExclusivePricing(t *testing.T) {
	req := transport.CalculateRequest{
		PricingMode: "exclusive",
		Items: []transport.LineItemRequest{
			{Description: "Design work", Quantity: "1", UnitPriceCents: 10000, TaxRateBps: 2100},
		},
	}

	result := CalculateInvoice(req)

	if result.SubtotalCents != 10000 {
		t.Fatalf("expected subtotal 10000, got %d", result.SubtotalCents)
	}
	if result.TaxTotalCents != 2100 {
		t.Fatalf("expected tax 2100, got %d", result.TaxTotalCents)
	}
	if result.TotalCents != 12100 {
		t.Fatalf("expected total 12100, got %d", result.TotalCents)
	}
}

func TestCalculateInvoice_InclusivePricing(t *testing.T) {
	req := transport.CalculateRequest{
		PricingMode: "inclusive",
		Items: []transport.LineItemRequest{
			{Description: "Design work", Quantity: "1", UnitPriceCents: 12100, TaxRateBps: 2100},
		},
	}

	result := CalculateInvoice(req)

	if result.SubtotalCents != 10000 {
		t.Fatalf("expected net subtotal 10000, got %d", result.SubtotalCents)
	}
	if result.TaxTotalCents != 2100 {
		t.Fatalf("expected tax 2100, got %d", result.TaxTotalCents)
	}
	if result.TotalCents != 12100 {
		t.Fatalf("expected total 12100, got %d", result.TotalCents)
	}
}

func TestCalculateInvoice_FixedDiscountReducesTaxProportionally(t *testing.T) {
	req := transport.CalculateRequest{
		DiscountType:  "fixed",
		DiscountValue: 1000,
		Items: []transport.LineItemRequest{
			{Description: "Design work", Quantity: "1", UnitPriceCents: 10000, TaxRateBps: 2100},
		},
	}

	result := CalculateInvoice(req)

	if result.DiscountAmountCents != 1000 {
		t.Fatalf("expected discount 1000, got %d", result.DiscountAmountCents)
	}
	// 10% discount means 10% less tax: 2100 * 0.9 = 1890
	if result.TaxTotalCents != 1890 {
		t.Fatalf("expected tax 1890, got %d", result.TaxTotalCents)
	}
	if result.TotalCents != 10890 {
		t.Fatalf("expected total 10890, got %d", result.TotalCents)
	}
}

func TestCalculateInvoice_PercentageDiscount(t *testing.T) {
	req := transport.CalculateRequest{
		DiscountType:  "percentage",
		DiscountValue: 25,
		Items: []transport.LineItemRequest{
			{Description: "Development", Quantity: "2", UnitPriceCents: 50000, TaxRateBps: 0},
		},
	}

	result := CalculateInvoice(req)

	if result.SubtotalCents != 100000 {
		t.Fatalf("expected subtotal 100000, got %d", result.SubtotalCents)
	}
	if result.DiscountAmountCents != 25000 {
		t.Fatalf("expected discount 25000, got %d", result.DiscountAmountCents)
	}
	if result.TotalCents != 75000 {
		t.Fatalf("expected total 75000, got %d", result.TotalCents)
	}
}

func TestCalculateInvoice_DiscountCappedAtSubtotal(t *testing.T) {
	req := transport.CalculateRequest{
		DiscountType:  "fixed",
		DiscountValue: 99999,
		Items: []transport.LineItemRequest{
			{Description: "Small job", Quantity: "1", UnitPriceCents: 5000, TaxRateBps: 2100},
		},
	}

	result := CalculateInvoice(req)

	if result.DiscountAmountCents != 5000 {
		t.Fatalf("expected discount capped at 5000, got %d", result.DiscountAmountCents)
	}
	if result.TaxTotalCents != 0 {
		t.Fatalf("expected zero tax on fully discounted invoice, got %d", result.TaxTotalCents)
	}
	if result.TotalCents != 0 {
		t.Fatalf("expected total 0, got %d", result.TotalCents)
	}
}

func TestCalculateInvoice_MixedTaxRates(t *testing.T) {
	req := transport.CalculateRequest{
		Items: []transport.LineItemRequest{
			{Description: "Standard rate", Quantity: "1", UnitPriceCents: 10000, TaxRateBps: 2100},
			{Description: "Reduced rate", Quantity: "1", UnitPriceCents: 10000, TaxRateBps: 900},
		},
	}

	result := CalculateInvoice(req)

	if len(result.TaxBreakdown) != 2 {
		t.Fatalf("expected 2 tax breakdown lines, got %d", len(result.TaxBreakdown))
	}
	if result.TaxBreakdown[0].RateBps != 900 || result.TaxBreakdown[1].RateBps != 2100 {
		t.Fatalf("expected breakdown sorted by rate, got %+v", result.TaxBreakdown)
	}
	if result.TaxTotalCents != 3000 {
		t.Fatalf("expected tax 3000, got %d", result.TaxTotalCents)
	}
}

func TestParseQuantityNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"5 x", 5.0},
		{"12 hours", 12.0},
		{"3.5", 3.5},
		{"2,5", 2.5},
		{"", 1.0},
		{"lump sum", 1.0},
		{"-3", 1.0},
	}
	for _, tt := range tests {
		if got := parseQuantityNumber(tt.in); got != tt.want {
			t.Errorf("parseQuantityNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
