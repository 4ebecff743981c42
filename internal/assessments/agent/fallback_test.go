package agent

import (
	"strings"
	"testing"

	"studio_backend/internal/pricing"
)

func testFacts() FactSheet {
	return FactSheet{
		ProjectType: "web-app",
		Features:    []string{"Shopping Cart", "Payment Processing"},
		Timeline:    "rush",
		DesignTier:  "premium",
		Subtotal:    13750,
		RangeLow:    11688,
		RangeHigh:   17188,
		LineItems: []pricing.LineItem{
			{Label: "Base price", Amount: 8000, Kind: "base"},
			{Label: "Shopping Cart", Amount: 1800, Kind: "additive"},
			{Label: "Payment Processing", Amount: 1200, Kind: "additive"},
		},
	}
}

func TestFallbackSuggestions_Deterministic(t *testing.T) {
	facts := testFacts()

	first := FallbackSuggestions(facts)
	second := FallbackSuggestions(facts)

	if len(first) == 0 {
		t.Fatalf("expected suggestions, got none")
	}
	if len(first) != len(second) {
		t.Fatalf("expected deterministic output, got %d vs %d items", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("suggestion %d differs between runs", i)
		}
	}
}

func TestFallbackSuggestions_ReflectAnswers(t *testing.T) {
	suggestions := FallbackSuggestions(testFacts())

	joined := strings.Join(suggestions, "\n")
	if !strings.Contains(joined, "Shopping Cart") {
		t.Fatalf("expected features in suggestions, got: %s", joined)
	}
	if !strings.Contains(joined, "rush surcharge") {
		t.Fatalf("expected rush note for rush timeline, got: %s", joined)
	}
	if !strings.Contains(joined, "premium design tier") {
		t.Fatalf("expected premium design note, got: %s", joined)
	}
}

func TestFallbackSuggestions_EmptyFacts(t *testing.T) {
	suggestions := FallbackSuggestions(FactSheet{ProjectType: "custom"})

	if len(suggestions) < 2 {
		t.Fatalf("expected baseline suggestions even without features, got %v", suggestions)
	}
}

func TestFallbackProposal_ContainsFactsOnly(t *testing.T) {
	facts := testFacts()
	draft := FallbackProposal(facts)

	if draft.Title == "" {
		t.Fatalf("expected a title")
	}
	for _, heading := range []string{"## Project Understanding", "## Proposed Scope", "## Investment", "## Next Steps"} {
		if !strings.Contains(draft.Markdown, heading) {
			t.Fatalf("expected heading %q in proposal", heading)
		}
	}
	if !strings.Contains(draft.Markdown, "$11688 - $17188") {
		t.Fatalf("expected price range from the fact sheet, got:\n%s", draft.Markdown)
	}
	if !strings.Contains(draft.Markdown, "- Payment Processing: $1200") {
		t.Fatalf("expected line items in investment section, got:\n%s", draft.Markdown)
	}
}

func TestParseBulletList(t *testing.T) {
	output := "Here are some ideas:\n- First suggestion\n* Second suggestion\n\nnot a bullet\n- \n- Third suggestion"

	items := parseBulletList(output)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d: %v", len(items), items)
	}
	if items[0] != "First suggestion" || items[2] != "Third suggestion" {
		t.Fatalf("unexpected items: %v", items)
	}
}
