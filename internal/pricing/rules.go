package pricing

// RuleKind separates flat surcharges from fractional ones. Additive values
// are currency amounts summed onto the base price; multiplicative values are
// fractional surcharges composed by product (0.15 means +15%).
type RuleKind string

const (
	KindAdditive       RuleKind = "additive"
	KindMultiplicative RuleKind = "multiplicative"
)

// Rule is one pricing modifier. When AppliesWhen is nil the rule applies
// whenever its feature appears in the normalized feature set; a non-nil
// predicate replaces that check entirely, which is how answer-driven
// surcharges (design tier, timeline) are expressed.
type Rule struct {
	Feature     FeatureID
	Kind        RuleKind
	Value       float64
	AppliesWhen func(Answers) bool
}

func (r Rule) applies(features map[FeatureID]bool, a Answers) bool {
	if r.AppliesWhen != nil {
		return r.AppliesWhen(a)
	}
	return features[r.Feature]
}

// defaultRules returns the modifier table in registration order. Line items
// are listed in this order, so additive feature surcharges come before the
// answer-driven multiplicative ones.
func defaultRules() []Rule {
	return []Rule{
		{Feature: FeaturePaymentProcessing, Kind: KindAdditive, Value: 1200},
		{Feature: FeatureShoppingCart, Kind: KindAdditive, Value: 1800},
		{Feature: FeatureUserAccounts, Kind: KindAdditive, Value: 900},
		{Feature: FeatureRealTimeChat, Kind: KindAdditive, Value: 1500},
		{Feature: FeatureAdminDashboard, Kind: KindAdditive, Value: 2000},
		{Feature: FeatureBooking, Kind: KindAdditive, Value: 1400},
		{Feature: FeatureCMS, Kind: KindAdditive, Value: 1600},
		{Feature: FeatureFileUploads, Kind: KindAdditive, Value: 600},
		{Feature: FeatureSearch, Kind: KindAdditive, Value: 800},
		{Feature: FeatureSocialLogin, Kind: KindAdditive, Value: 500},
		{Feature: FeatureAPIIntegration, Kind: KindAdditive, Value: 1000},
		{Feature: FeatureEmailAutomation, Kind: KindAdditive, Value: 700},
		{Feature: FeatureAnalytics, Kind: KindAdditive, Value: 900},
		{Feature: FeatureMultiLanguage, Kind: KindAdditive, Value: 750},
		{Feature: FeaturePushNotifications, Kind: KindAdditive, Value: 850},

		{Feature: FeaturePremiumDesign, Kind: KindMultiplicative, Value: 0.20,
			AppliesWhen: Answers.WantsPremiumDesign},
		{Feature: FeatureRushDelivery, Kind: KindMultiplicative, Value: 0.25,
			AppliesWhen: Answers.HasRushTimeline},
		{Feature: FeatureIntegrationsHeavy, Kind: KindMultiplicative, Value: 0.10,
			AppliesWhen: func(a Answers) bool { return len(a.Integrations) >= 3 }},
	}
}

// applicableRules filters the rule table against the normalized features and
// raw answers, preserving registration order.
func (e *Engine) applicableRules(features []FeatureID, a Answers) []Rule {
	set := make(map[FeatureID]bool, len(features))
	for _, id := range features {
		set[id] = true
	}
	applied := make([]Rule, 0, len(e.rules))
	for _, rule := range e.rules {
		if rule.applies(set, a) {
			applied = append(applied, rule)
		}
	}
	return applied
}
