package agent

import (
	"fmt"
	"strings"
)

// FallbackSuggestions assembles deterministic suggestions purely from the
// fact sheet. Used whenever the model call fails, so the wizard never shows
// an error for this step.
func FallbackSuggestions(facts FactSheet) []string {
	suggestions := []string{
		fmt.Sprintf("Based on your answers, a %s is a good fit with an estimated investment of %s.", facts.ProjectType, facts.priceRange()),
	}

	if len(facts.Features) > 0 {
		suggestions = append(suggestions,
			fmt.Sprintf("Your selected features (%s) are included in the estimate as separate line items.", facts.featureList()))
	} else {
		suggestions = append(suggestions,
			"Selecting the features you need will refine the estimate with itemized pricing.")
	}

	if facts.Timeline == "rush" || facts.Timeline == "asap" {
		suggestions = append(suggestions,
			"An accelerated timeline adds a rush surcharge; a standard timeline would reduce the estimate.")
	}
	if facts.DesignTier == "premium" {
		suggestions = append(suggestions,
			"The premium design tier covers bespoke visual design and applies a percentage surcharge.")
	}
	if len(facts.Integrations) >= 3 {
		suggestions = append(suggestions,
			"Connecting three or more external services adds an integration surcharge to cover coordination work.")
	}

	suggestions = append(suggestions,
		"Submit the assessment and we will follow up with a detailed proposal within two business days.")
	return suggestions
}

// FallbackProposal assembles a templated proposal document purely from the
// fact sheet.
func FallbackProposal(facts FactSheet) ProposalDraft {
	var sb strings.Builder

	sb.WriteString("## Project Understanding\n\n")
	fmt.Fprintf(&sb, "You are planning a %s project", facts.ProjectType)
	if len(facts.Features) > 0 {
		fmt.Fprintf(&sb, " including %s", facts.featureList())
	}
	sb.WriteString(".")
	if facts.Timeline != "" {
		fmt.Fprintf(&sb, " Your preferred timeline is %s.", facts.Timeline)
	}
	sb.WriteString("\n\n## Proposed Scope\n\n")
	if len(facts.Features) > 0 {
		for _, feature := range facts.Features {
			fmt.Fprintf(&sb, "- %s\n", feature)
		}
	} else {
		sb.WriteString("- Core build for the selected project type\n")
	}

	sb.WriteString("\n## Investment\n\n")
	fmt.Fprintf(&sb, "Estimated investment: **%s**\n\n", facts.priceRange())
	for _, item := range facts.LineItems {
		fmt.Fprintf(&sb, "- %s: $%.0f\n", item.Label, item.Amount)
	}

	sb.WriteString("\n## Next Steps\n\n")
	sb.WriteString("We will review your assessment and schedule a call to confirm scope and timeline before any commitment.\n")

	return ProposalDraft{
		Title:    proposalTitle(facts),
		Markdown: sb.String(),
	}
}
