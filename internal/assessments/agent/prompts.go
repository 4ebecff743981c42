package agent

import (
	"fmt"
	"strings"
)

func getSuggesterSystemPrompt() string {
	return `You are a web studio consultant helping scope client projects.
You receive a fact sheet about a prospective project: project type, selected
features, timeline, design tier and a computed price estimate.

Task: propose concrete, useful suggestions the client should consider for
this project.

Rules:
- Output ONLY a markdown bullet list, one suggestion per line, starting with "- ".
- 3 to 6 suggestions, each a single sentence.
- Ground every suggestion in the fact sheet. Never invent prices or features.
- No greeting, no closing, no commentary outside the list.`
}

func getProposerSystemPrompt() string {
	return `You are a web studio consultant writing a short project proposal.
You receive a fact sheet: project type, selected features, timeline, design
tier and a computed price estimate with line items.

Task: write the proposal body in markdown.

Rules:
- Structure: "## Project Understanding", "## Proposed Scope", "## Investment", "## Next Steps".
- Use ONLY amounts from the fact sheet. Never invent prices, dates or features.
- Keep it under 400 words, professional and plain-spoken.
- Output only markdown, no extra commentary.`
}

func buildFactPrompt(f FactSheet) string {
	var sb strings.Builder
	sb.WriteString("Fact sheet:\n")
	fmt.Fprintf(&sb, "- Project type: %s\n", f.ProjectType)
	fmt.Fprintf(&sb, "- Selected features: %s\n", f.featureList())
	if f.Timeline != "" {
		fmt.Fprintf(&sb, "- Timeline: %s\n", f.Timeline)
	}
	if f.DesignTier != "" {
		fmt.Fprintf(&sb, "- Design tier: %s\n", f.DesignTier)
	}
	if len(f.Integrations) > 0 {
		fmt.Fprintf(&sb, "- Integrations: %s\n", strings.Join(f.Integrations, ", "))
	}
	if f.Description != "" {
		fmt.Fprintf(&sb, "- Client notes: %s\n", f.Description)
	}
	fmt.Fprintf(&sb, "- Estimated investment: %s (subtotal $%.0f)\n", f.priceRange(), f.Subtotal)

	if len(f.LineItems) > 0 {
		sb.WriteString("\nPrice breakdown:\n")
		for _, item := range f.LineItems {
			fmt.Fprintf(&sb, "- %s: $%.0f\n", item.Label, item.Amount)
		}
	}
	return sb.String()
}
