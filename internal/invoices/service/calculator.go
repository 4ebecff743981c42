package service

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"studio_backend/internal/invoices/transport"
)

var quantityRegex = regexp.MustCompile(`^([\d.,]+)`)

// parseQuantityNumber extracts the numeric value from a free-form quantity
// string. Examples: "5 x" -> 5.0, "12 hours" -> 12.0, "3.5" -> 3.5
func parseQuantityNumber(quantity string) float64 {
	matches := quantityRegex.FindStringSubmatch(strings.TrimSpace(quantity))
	if len(matches) < 2 {
		return 1.0
	}
	cleaned := strings.ReplaceAll(matches[1], ",", ".")
	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || val <= 0 {
		return 1.0
	}
	return val
}

// roundCents rounds a float to the nearest cent (integer)
func roundCents(v float64) int64 {
	return int64(math.Round(v))
}

// lineNetPrice returns the net (excl. tax) unit price given the pricing mode.
func lineNetPrice(unitPriceCents int64, taxRateBps int, pricingMode string) float64 {
	price := float64(unitPriceCents)
	if pricingMode == "inclusive" && taxRateBps > 0 {
		price /= 1.0 + float64(taxRateBps)/10000.0
	}
	return price
}

// discountAmount returns the discount in float-cents, capped at the subtotal.
func discountAmount(subtotalFloat float64, discountType string, discountValue int64) float64 {
	var amount float64
	switch {
	case discountType == "percentage" && discountValue > 0:
		amount = subtotalFloat * (float64(discountValue) / 100.0)
	case discountType == "fixed" && discountValue > 0:
		amount = float64(discountValue)
	}
	if amount > subtotalFloat {
		return subtotalFloat
	}
	return amount
}

// taxBreakdown applies the proportional discount multiplier per tax rate and
// returns the total tax in cents plus a sorted breakdown slice.
func taxBreakdown(taxMap map[int]float64, multiplier float64) (int64, []transport.TaxBreakdownLine) {
	var taxTotal int64
	breakdown := make([]transport.TaxBreakdownLine, 0, len(taxMap))
	for rate, amount := range taxMap {
		adjusted := roundCents(amount * multiplier)
		taxTotal += adjusted
		breakdown = append(breakdown, transport.TaxBreakdownLine{RateBps: rate, AmountCents: adjusted})
	}
	sort.Slice(breakdown, func(i, j int) bool { return breakdown[i].RateBps < breakdown[j].RateBps })
	return taxTotal, breakdown
}

// CalculateInvoice computes financial totals for a set of line items. Tax is
// calculated per line and summed per rate, then the discount is applied
// proportionally across the tax breakdown so a 10% discount also reduces the
// tax owed by 10%.
func CalculateInvoice(req transport.CalculateRequest) transport.CalculateResponse {
	pricingMode := req.PricingMode
	if pricingMode == "" {
		pricingMode = "exclusive"
	}
	discountType := req.DiscountType
	if discountType == "" {
		discountType = "percentage"
	}

	var subtotalFloat float64
	taxMap := make(map[int]float64)
	lines := make([]transport.CalculatedLineItem, 0, len(req.Items))

	for _, item := range req.Items {
		qty := parseQuantityNumber(item.Quantity)
		netUnitPrice := lineNetPrice(item.UnitPriceCents, item.TaxRateBps, pricingMode)
		lineSubtotal := qty * netUnitPrice
		lineTax := lineSubtotal * (float64(item.TaxRateBps) / 10000.0)

		lines = append(lines, transport.CalculatedLineItem{
			Description:         item.Description,
			Quantity:            item.Quantity,
			UnitPriceCents:      item.UnitPriceCents,
			TaxRateBps:          item.TaxRateBps,
			TotalBeforeTaxCents: roundCents(lineSubtotal),
			TotalTaxCents:       roundCents(lineTax),
			LineTotalCents:      roundCents(lineSubtotal + lineTax),
		})

		subtotalFloat += lineSubtotal
		taxMap[item.TaxRateBps] += lineTax
	}

	subtotalCents := roundCents(subtotalFloat)
	discountFloat := discountAmount(subtotalFloat, discountType, req.DiscountValue)
	discountCents := roundCents(discountFloat)

	multiplier := 1.0
	if subtotalFloat > 0 && discountFloat > 0 {
		multiplier = (subtotalFloat - discountFloat) / subtotalFloat
	}

	taxTotal, breakdown := taxBreakdown(taxMap, multiplier)
	totalCents := subtotalCents - discountCents + taxTotal

	return transport.CalculateResponse{
		Lines:               lines,
		SubtotalCents:       subtotalCents,
		DiscountAmountCents: discountCents,
		TaxTotalCents:       taxTotal,
		TaxBreakdown:        breakdown,
		TotalCents:          totalCents,
	}
}
