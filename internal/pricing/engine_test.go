package pricing

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"studio_backend/platform/logger"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(logger.New("development"), opts...)
	if err != nil {
		t.Fatalf("engine construction failed: %v", err)
	}
	return e
}

func TestCalculate_WebAppWithCartAndPayments(t *testing.T) {
	e := newTestEngine(t)

	b := e.Calculate(Answers{
		ProjectType: "web-app",
		Features:    []string{"Shopping Cart", "Payment Processing"},
	})

	// base 8000 + cart 1800 + payments 1200 = 11000, complexity 1.25
	if b.BasePrice != 8000 {
		t.Fatalf("expected base price 8000, got %v", b.BasePrice)
	}
	if b.Subtotal != 13750 {
		t.Fatalf("expected subtotal 13750, got %v", b.Subtotal)
	}
	if b.TotalMultiplier != 1.0 {
		t.Fatalf("expected total multiplier 1.0, got %v", b.TotalMultiplier)
	}

	labels := make([]string, 0, len(b.LineItems))
	for _, item := range b.LineItems {
		labels = append(labels, item.Label)
	}
	want := []string{"Base price", "Shopping Cart", "Payment Processing", "Complexity adjustment"}
	if !reflect.DeepEqual(labels, want) {
		t.Fatalf("expected line items %v, got %v", want, labels)
	}
	if b.LineItems[0].Kind != "base" {
		t.Fatalf("expected first line item kind base, got %q", b.LineItems[0].Kind)
	}
}

func TestCalculate_UnknownProjectTypeFallsBack(t *testing.T) {
	e := newTestEngine(t)

	b := e.Calculate(Answers{ProjectType: "quantum-widget"})

	def := e.BaseFor(DefaultTier)
	if b.BasePrice != def.BasePrice {
		t.Fatalf("expected fallback base price %v, got %v", def.BasePrice, b.BasePrice)
	}
	if b.Subtotal != math.Round(def.BasePrice*def.ComplexityMultiplier) {
		t.Fatalf("unexpected subtotal %v for fallback tier", b.Subtotal)
	}
}

func TestCalculate_EmptyAnswers(t *testing.T) {
	e := newTestEngine(t)

	b := e.Calculate(Answers{})

	if b.Subtotal <= 0 {
		t.Fatalf("expected positive subtotal for empty answers, got %v", b.Subtotal)
	}
	if len(b.LineItems) == 0 || b.LineItems[0].Kind != "base" {
		t.Fatalf("expected base line item, got %v", b.LineItems)
	}
}

func TestCalculate_RangeOrdering(t *testing.T) {
	e := newTestEngine(t)

	cases := []Answers{
		{},
		{ProjectType: "landing-page"},
		{ProjectType: "e-commerce", Features: []string{"cart", "payments", "search"}},
		{ProjectType: "mobile-app", DesignTier: "premium", Timeline: "rush"},
	}
	for _, a := range cases {
		b := e.Calculate(a)
		r := b.EstimatedRange
		if r.Low > r.Average || r.Average > r.High {
			t.Fatalf("range out of order for %+v: %+v", a, r)
		}
		if r.Average != b.Subtotal {
			t.Fatalf("expected average to equal subtotal, got %v vs %v", r.Average, b.Subtotal)
		}
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	e := newTestEngine(t)

	a := Answers{
		ProjectType:  "web-app",
		Features:     []string{"User Accounts", "Admin Dashboard", "Search"},
		DesignTier:   "premium",
		Timeline:     "rush",
		Integrations: []string{"stripe", "mailchimp", "hubspot"},
	}

	first := e.Calculate(a)
	for i := 0; i < 20; i++ {
		if got := e.Calculate(a); !reflect.DeepEqual(got, first) {
			t.Fatalf("calculation %d differs from first: %+v vs %+v", i, got, first)
		}
	}
}

func TestCalculate_AddingFeatureNeverDecreasesSubtotal(t *testing.T) {
	e := newTestEngine(t)

	features := []string{}
	prev := e.Calculate(Answers{ProjectType: "business-site"}).Subtotal
	for _, next := range []string{"User Accounts", "Shopping Cart", "Payment Processing", "Search", "Multi-Language"} {
		features = append(features, next)
		got := e.Calculate(Answers{ProjectType: "business-site", Features: features}).Subtotal
		if got < prev {
			t.Fatalf("subtotal decreased from %v to %v after adding %q", prev, got, next)
		}
		prev = got
	}
}

func TestCalculate_LineItemsReconcileWithSubtotal(t *testing.T) {
	e := newTestEngine(t)

	cases := []Answers{
		{ProjectType: "web-app", Features: []string{"Shopping Cart", "Payment Processing"}},
		{ProjectType: "e-commerce", Features: []string{"cart", "User Accounts", "Search"}, DesignTier: "premium"},
		{ProjectType: "mobile-app", Features: []string{"Push Notifications"}, Timeline: "asap", Integrations: []string{"a", "b", "c"}},
		{ProjectType: "landing-page"},
	}
	for _, a := range cases {
		b := e.Calculate(a)
		var sum float64
		for _, item := range b.LineItems {
			sum += item.Amount
		}
		if math.Abs(sum-b.Subtotal) > 1 {
			t.Fatalf("line items sum %v does not reconcile with subtotal %v for %+v", sum, b.Subtotal, a)
		}
	}
}

func TestCalculate_MultiplicativeSurcharges(t *testing.T) {
	e := newTestEngine(t)

	b := e.Calculate(Answers{
		ProjectType:  "portfolio",
		DesignTier:   "premium",
		Timeline:     "rush",
		Integrations: []string{"stripe", "mailchimp", "hubspot"},
	})

	// 1.20 * 1.25 * 1.10
	want := 1.2 * 1.25 * 1.1
	if math.Abs(b.TotalMultiplier-want) > 1e-9 {
		t.Fatalf("expected total multiplier %v, got %v", want, b.TotalMultiplier)
	}
	// portfolio base 2500, complexity 1.0
	if b.Subtotal != math.Round(2500*want) {
		t.Fatalf("expected subtotal %v, got %v", math.Round(2500*want), b.Subtotal)
	}

	kinds := map[string]int{}
	for _, item := range b.LineItems {
		kinds[item.Kind]++
	}
	if kinds["multiplicative"] != 3 {
		t.Fatalf("expected 3 multiplicative line items, got %d", kinds["multiplicative"])
	}
}

func TestCalculate_TwoIntegrationsNoSurcharge(t *testing.T) {
	e := newTestEngine(t)

	b := e.Calculate(Answers{ProjectType: "portfolio", Integrations: []string{"stripe", "mailchimp"}})

	if b.TotalMultiplier != 1.0 {
		t.Fatalf("expected no surcharge below 3 integrations, got multiplier %v", b.TotalMultiplier)
	}
}

func TestCalculate_UnresolvedFeatureLabelIsIgnored(t *testing.T) {
	e := newTestEngine(t)

	with := e.Calculate(Answers{ProjectType: "web-app", Features: []string{"Search", "hologram projector"}})
	without := e.Calculate(Answers{ProjectType: "web-app", Features: []string{"Search"}})

	if with.Subtotal != without.Subtotal {
		t.Fatalf("unresolved label changed subtotal: %v vs %v", with.Subtotal, without.Subtotal)
	}
}

func TestNew_RejectsRuleWithUnregisteredFeature(t *testing.T) {
	_, err := New(logger.New("development"), func(e *Engine) error {
		e.rules = append(e.rules, Rule{Feature: "made-up", Kind: KindAdditive, Value: 100})
		return nil
	})
	if err == nil {
		t.Fatalf("expected construction to fail for unregistered feature")
	}
}

func TestWithTablesFile_OverridesRates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	content := `baseRates:
  web-app:
    basePrice: 10000
    complexityMultiplier: 1.0
additive:
  shopping-cart: 2000
range:
  low: 0.9
  high: 1.2
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write tables file: %v", err)
	}

	e := newTestEngine(t, WithTablesFile(path))

	b := e.Calculate(Answers{ProjectType: "web-app", Features: []string{"Shopping Cart"}})
	if b.Subtotal != 12000 {
		t.Fatalf("expected subtotal 12000 with overrides, got %v", b.Subtotal)
	}
	if b.EstimatedRange.Low != math.Round(12000*0.9) {
		t.Fatalf("expected overridden low band, got %v", b.EstimatedRange.Low)
	}
}

func TestWithTablesFile_UnknownFeatureFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	if err := os.WriteFile(path, []byte("additive:\n  flux-capacitor: 500\n"), 0o600); err != nil {
		t.Fatalf("write tables file: %v", err)
	}

	if _, err := New(logger.New("development"), WithTablesFile(path)); err == nil {
		t.Fatalf("expected construction to fail on unknown additive feature")
	}
}

func TestWithTablesFile_MalformedYAMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	if err := os.WriteFile(path, []byte("baseRates: [not a map"), 0o600); err != nil {
		t.Fatalf("write tables file: %v", err)
	}

	if _, err := New(logger.New("development"), WithTablesFile(path)); err == nil {
		t.Fatalf("expected construction to fail on malformed yaml")
	}
}
