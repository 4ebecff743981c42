package pricing

// BaseRate is the starting point for a project type: a flat base price plus
// a complexity multiplier applied after all modifiers.
type BaseRate struct {
	BasePrice            float64 `yaml:"basePrice"`
	ComplexityMultiplier float64 `yaml:"complexityMultiplier"`
}

// DefaultTier is used when the project type is missing or not recognized.
// The wizard must never dead-end on an unusual project type, so an unknown
// type prices as a mid-range custom project instead of failing.
const DefaultTier = "custom"

func defaultBaseRates() map[string]BaseRate {
	return map[string]BaseRate{
		"landing-page":  {BasePrice: 1500, ComplexityMultiplier: 1.0},
		"portfolio":     {BasePrice: 2500, ComplexityMultiplier: 1.0},
		"business-site": {BasePrice: 4000, ComplexityMultiplier: 1.1},
		"web-app":       {BasePrice: 8000, ComplexityMultiplier: 1.25},
		"e-commerce":    {BasePrice: 9500, ComplexityMultiplier: 1.3},
		"mobile-app":    {BasePrice: 12000, ComplexityMultiplier: 1.4},
		DefaultTier:     {BasePrice: 5000, ComplexityMultiplier: 1.15},
	}
}

// BaseFor looks up the base rate for a project type, falling back to the
// default tier for unknown or empty types.
func (e *Engine) BaseFor(projectType string) BaseRate {
	if rate, ok := e.baseRates[projectType]; ok {
		return rate
	}
	return e.baseRates[DefaultTier]
}
