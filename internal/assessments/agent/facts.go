// Package agent generates project suggestions and proposal prose for
// assessments. The language model only ever sees a structured fact sheet
// derived from the answers and the computed pricing; when the model is
// unavailable, deterministic fallbacks are assembled from the same facts.
package agent

import (
	"fmt"
	"strings"

	"studio_backend/internal/pricing"
)

// FactSheet is the structured input handed to the prose generators.
type FactSheet struct {
	ProjectType  string
	Features     []string // display names
	Timeline     string
	DesignTier   string
	Integrations []string
	Description  string
	Subtotal     float64
	RangeLow     float64
	RangeHigh    float64
	LineItems    []pricing.LineItem
}

// BuildFactSheet resolves answers and a breakdown into the fact sheet.
func BuildFactSheet(engine *pricing.Engine, a pricing.Answers, b pricing.Breakdown) FactSheet {
	ids := engine.NormalizeFeatures(a.Features)
	features := make([]string, 0, len(ids))
	for _, id := range ids {
		features = append(features, engine.LabelFor(id))
	}

	projectType := a.ProjectType
	if projectType == "" {
		projectType = pricing.DefaultTier
	}

	return FactSheet{
		ProjectType:  projectType,
		Features:     features,
		Timeline:     a.Timeline,
		DesignTier:   a.DesignTier,
		Integrations: a.Integrations,
		Description:  a.Description,
		Subtotal:     b.Subtotal,
		RangeLow:     b.EstimatedRange.Low,
		RangeHigh:    b.EstimatedRange.High,
		LineItems:    b.LineItems,
	}
}

func (f FactSheet) priceRange() string {
	return fmt.Sprintf("$%.0f - $%.0f", f.RangeLow, f.RangeHigh)
}

func (f FactSheet) featureList() string {
	if len(f.Features) == 0 {
		return "none selected yet"
	}
	return strings.Join(f.Features, ", ")
}
