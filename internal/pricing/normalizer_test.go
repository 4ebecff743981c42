package pricing

import "testing"

func TestNormalize_ExactLabel(t *testing.T) {
	n := NewNormalizer()

	id, ok := n.Normalize("Shopping Cart")
	if !ok {
		t.Fatalf("expected Shopping Cart to resolve")
	}
	if id != FeatureShoppingCart {
		t.Fatalf("expected %q, got %q", FeatureShoppingCart, id)
	}
}

func TestNormalize_CanonicalID(t *testing.T) {
	n := NewNormalizer()

	id, ok := n.Normalize("payment-processing")
	if !ok || id != FeaturePaymentProcessing {
		t.Fatalf("expected payment-processing, got %q (ok=%v)", id, ok)
	}
}

func TestNormalize_CaseInsensitive(t *testing.T) {
	n := NewNormalizer()

	id, ok := n.Normalize("SHOPPING CART")
	if !ok || id != FeatureShoppingCart {
		t.Fatalf("expected shopping-cart, got %q (ok=%v)", id, ok)
	}
}

func TestNormalize_Synonym(t *testing.T) {
	n := NewNormalizer()

	id, ok := n.Normalize("webshop")
	if !ok || id != FeatureShoppingCart {
		t.Fatalf("expected webshop to resolve to shopping-cart, got %q (ok=%v)", id, ok)
	}
}

func TestNormalize_SubstringLabelContainsKey(t *testing.T) {
	n := NewNormalizer()

	// "stripe" is a registered synonym inside a longer label.
	id, ok := n.Normalize("We need Stripe integration for billing")
	if !ok || id != FeaturePaymentProcessing {
		t.Fatalf("expected payment-processing, got %q (ok=%v)", id, ok)
	}
}

func TestNormalize_SubstringKeyContainsLabel(t *testing.T) {
	n := NewNormalizer()

	// "booking" is a fragment of the canonical "Booking & Scheduling" label.
	id, ok := n.Normalize("booking")
	if !ok || id != FeatureBooking {
		t.Fatalf("expected booking-scheduling, got %q (ok=%v)", id, ok)
	}
}

func TestNormalize_UnknownLabel(t *testing.T) {
	n := NewNormalizer()

	if id, ok := n.Normalize("quantum widget"); ok {
		t.Fatalf("expected quantum widget to be unresolved, got %q", id)
	}
	if _, ok := n.Normalize(""); ok {
		t.Fatalf("expected empty label to be unresolved")
	}
}

func TestNormalize_SubstringTieBreakIsDeterministic(t *testing.T) {
	n := NewNormalizer()

	// Run the same ambiguous label repeatedly; the longest-key-first order
	// must make every resolution identical.
	first, ok := n.Normalize("dashboard")
	if !ok {
		t.Fatalf("expected dashboard to resolve")
	}
	for i := 0; i < 50; i++ {
		id, ok := n.Normalize("dashboard")
		if !ok || id != first {
			t.Fatalf("resolution changed between runs: %q vs %q", first, id)
		}
	}
}

func TestNormalizeSet_DropsUnknownAndDeduplicates(t *testing.T) {
	n := NewNormalizer()

	resolved, dropped := n.NormalizeSet([]string{
		"Shopping Cart",
		"cart",
		"Payment Processing",
		"hologram projector",
	})

	if len(resolved) != 2 {
		t.Fatalf("expected 2 resolved features, got %d: %v", len(resolved), resolved)
	}
	if resolved[0] != FeatureShoppingCart || resolved[1] != FeaturePaymentProcessing {
		t.Fatalf("expected [shopping-cart payment-processing], got %v", resolved)
	}
	if len(dropped) != 1 || dropped[0] != "hologram projector" {
		t.Fatalf("expected one dropped label, got %v", dropped)
	}
}

func TestNormalizeSet_PreservesFirstSeenOrder(t *testing.T) {
	n := NewNormalizer()

	resolved, _ := n.NormalizeSet([]string{"User Accounts", "Search", "login"})

	if len(resolved) != 2 {
		t.Fatalf("expected 2 features, got %v", resolved)
	}
	if resolved[0] != FeatureUserAccounts || resolved[1] != FeatureSearch {
		t.Fatalf("expected order [user-accounts search], got %v", resolved)
	}
}
