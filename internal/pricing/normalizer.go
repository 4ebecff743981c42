package pricing

import (
	"sort"
	"strings"
)

// Normalizer resolves free-form feature labels from the wizard to canonical
// feature ids. Lookup keys are the canonical labels, the ids themselves and
// all registered synonyms.
type Normalizer struct {
	exact map[string]FeatureID // case-sensitive
	lower map[string]FeatureID // lowercased
	keys  []string             // lowercased, longest first, for substring matching
}

// NewNormalizer builds the lookup tables from the feature registry.
func NewNormalizer() *Normalizer {
	n := &Normalizer{
		exact: make(map[string]FeatureID),
		lower: make(map[string]FeatureID),
	}
	for _, f := range featureRegistry {
		n.addKey(f.Label, f.ID)
		n.addKey(string(f.ID), f.ID)
		for _, syn := range f.Synonyms {
			n.addKey(syn, f.ID)
		}
	}
	// Longest key first so substring matching is deterministic when several
	// registry keys would match the same label. Ties break lexicographically.
	sort.Slice(n.keys, func(i, j int) bool {
		if len(n.keys[i]) != len(n.keys[j]) {
			return len(n.keys[i]) > len(n.keys[j])
		}
		return n.keys[i] < n.keys[j]
	})
	return n
}

func (n *Normalizer) addKey(key string, id FeatureID) {
	if key == "" {
		return
	}
	if _, exists := n.exact[key]; !exists {
		n.exact[key] = id
	}
	lowered := strings.ToLower(key)
	if _, exists := n.lower[lowered]; !exists {
		n.lower[lowered] = id
		n.keys = append(n.keys, lowered)
	}
}

// Normalize maps a single label to its feature id. Resolution order: exact
// case-sensitive match, then case-insensitive exact match, then
// case-insensitive substring match in either direction.
func (n *Normalizer) Normalize(label string) (FeatureID, bool) {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return "", false
	}
	if id, ok := n.exact[trimmed]; ok {
		return id, true
	}
	lowered := strings.ToLower(trimmed)
	if id, ok := n.lower[lowered]; ok {
		return id, true
	}
	for _, key := range n.keys {
		if strings.Contains(lowered, key) || strings.Contains(key, lowered) {
			return n.lower[key], true
		}
	}
	return "", false
}

// NormalizeSet resolves a batch of labels, preserving first-seen order and
// dropping duplicates. Unresolved labels are omitted and reported back so the
// caller can log them; the questionnaire may ship new option text before the
// registry learns about it, and that must never abort pricing.
func (n *Normalizer) NormalizeSet(labels []string) (resolved []FeatureID, dropped []string) {
	seen := make(map[FeatureID]bool, len(labels))
	for _, label := range labels {
		id, ok := n.Normalize(label)
		if !ok {
			dropped = append(dropped, label)
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		resolved = append(resolved, id)
	}
	return resolved, dropped
}
