// Package pricing implements the project assessment pricing engine: feature
// label normalization, base price lookup, an ordered modifier rule table and
// the aggregation that turns wizard answers into a priced breakdown.
//
// The engine is stateless after construction. Calculate is a pure function
// of its input plus the read-only tables, so concurrent requests need no
// synchronization and recalculating the same answers always reproduces the
// same breakdown.
package pricing

import (
	"fmt"
	"math"

	"studio_backend/platform/logger"
)

// LineItem is one row of the price justification shown to the client.
type LineItem struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
	Kind   string  `json:"kind"`
}

// Range is the estimated price band around the subtotal.
type Range struct {
	Low     float64 `json:"low"`
	Average float64 `json:"average"`
	High    float64 `json:"high"`
}

// Breakdown is the result of one pricing calculation. A fresh value is built
// on every call; callers replace the previous breakdown rather than mutating
// it.
type Breakdown struct {
	Subtotal        float64    `json:"subtotal"`
	EstimatedRange  Range      `json:"estimatedRange"`
	LineItems       []LineItem `json:"lineItems"`
	BasePrice       float64    `json:"basePrice"`
	TotalMultiplier float64    `json:"totalMultiplier"`
}

// Banding holds the range factors applied around the subtotal.
type Banding struct {
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`
}

// Engine holds the static tables, loaded once at process start.
type Engine struct {
	log        *logger.Logger
	normalizer *Normalizer
	baseRates  map[string]BaseRate
	rules      []Rule
	banding    Banding
}

// Option adjusts engine construction.
type Option func(*Engine) error

// New builds an engine with the default tables. A malformed table is a
// deployment defect, so any validation failure here should abort startup.
func New(log *logger.Logger, opts ...Option) (*Engine, error) {
	e := &Engine{
		log:        log,
		normalizer: NewNormalizer(),
		baseRates:  defaultBaseRates(),
		rules:      defaultRules(),
		banding:    Banding{Low: 0.85, High: 1.25},
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	if err := e.validate(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) validate() error {
	if _, ok := e.baseRates[DefaultTier]; !ok {
		return fmt.Errorf("pricing: base rate table is missing the %q fallback tier", DefaultTier)
	}
	for tier, rate := range e.baseRates {
		if rate.BasePrice < 0 || rate.ComplexityMultiplier <= 0 {
			return fmt.Errorf("pricing: invalid base rate for tier %q", tier)
		}
	}
	for i, rule := range e.rules {
		if !isRegistered(rule.Feature) {
			return fmt.Errorf("pricing: rule %d references unregistered feature %q", i, rule.Feature)
		}
		if rule.Kind != KindAdditive && rule.Kind != KindMultiplicative {
			return fmt.Errorf("pricing: rule %d has unknown kind %q", i, rule.Kind)
		}
		if rule.Value < 0 {
			return fmt.Errorf("pricing: rule %d has negative value", i)
		}
	}
	if e.banding.Low <= 0 || e.banding.High < 1 || e.banding.Low > 1 {
		return fmt.Errorf("pricing: invalid range banding %+v", e.banding)
	}
	return nil
}

// NormalizeFeatures resolves raw feature labels to canonical ids, logging
// dropped labels at debug level.
func (e *Engine) NormalizeFeatures(labels []string) []FeatureID {
	resolved, dropped := e.normalizer.NormalizeSet(labels)
	for _, label := range dropped {
		e.log.Debug("dropping unrecognized feature label", "label", label)
	}
	return resolved
}

// LabelFor exposes the display label for a feature id.
func (e *Engine) LabelFor(id FeatureID) string {
	return labelFor(id)
}

// Calculate prices a set of wizard answers.
//
// Additive modifiers are summed onto the base price first, then the product
// of the multiplicative surcharges and the tier's complexity multiplier is
// applied. Rounding to whole currency units happens only at the final step;
// intermediate values stay unrounded so repeated modifiers do not drift.
// Line items carry the unrounded amounts, so their sum reconciles with the
// subtotal within one currency unit.
func (e *Engine) Calculate(a Answers) Breakdown {
	features := e.NormalizeFeatures(a.Features)
	base := e.BaseFor(a.ProjectType)
	rules := e.applicableRules(features, a)

	additiveTotal := base.BasePrice
	totalMultiplier := 1.0
	for _, rule := range rules {
		switch rule.Kind {
		case KindAdditive:
			additiveTotal += rule.Value
		case KindMultiplicative:
			totalMultiplier *= 1 + rule.Value
		}
	}

	items := make([]LineItem, 0, len(rules)+2)
	items = append(items, LineItem{
		Label:  "Base price",
		Amount: base.BasePrice,
		Kind:   "base",
	})
	for _, rule := range rules {
		if rule.Kind != KindAdditive {
			continue
		}
		items = append(items, LineItem{
			Label:  labelFor(rule.Feature),
			Amount: rule.Value,
			Kind:   string(KindAdditive),
		})
	}
	// Multiplicative items carry the marginal amount they add on top of the
	// running total, so the item list stays additive end to end.
	running := additiveTotal
	for _, rule := range rules {
		if rule.Kind != KindMultiplicative {
			continue
		}
		marginal := running * rule.Value
		items = append(items, LineItem{
			Label:  labelFor(rule.Feature),
			Amount: marginal,
			Kind:   string(KindMultiplicative),
		})
		running += marginal
	}
	if base.ComplexityMultiplier != 1 {
		items = append(items, LineItem{
			Label:  "Complexity adjustment",
			Amount: running * (base.ComplexityMultiplier - 1),
			Kind:   string(KindMultiplicative),
		})
	}

	subtotal := math.Round(additiveTotal * totalMultiplier * base.ComplexityMultiplier)

	return Breakdown{
		Subtotal: subtotal,
		EstimatedRange: Range{
			Low:     math.Round(subtotal * e.banding.Low),
			Average: subtotal,
			High:    math.Round(subtotal * e.banding.High),
		},
		LineItems:       items,
		BasePrice:       base.BasePrice,
		TotalMultiplier: totalMultiplier,
	}
}
