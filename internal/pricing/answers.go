package pricing

// Answers is the raw questionnaire payload from the assessment wizard.
// Every field is optional; the wizard calls the engine after each step, so
// pricing must work with whatever has been filled in so far. Unknown JSON
// keys are ignored on decode, which keeps the engine forward-compatible
// with new wizard questions.
type Answers struct {
	ProjectType  string   `json:"projectType"`
	Features     []string `json:"features"`
	DesignTier   string   `json:"designTier"`
	Timeline     string   `json:"timeline"`
	Integrations []string `json:"integrations"`
	BudgetHint   string   `json:"budgetHint"`
	Description  string   `json:"description"`
}

// HasRushTimeline reports whether the client asked for an accelerated delivery.
func (a Answers) HasRushTimeline() bool {
	switch a.Timeline {
	case "rush", "asap":
		return true
	}
	return false
}

// WantsPremiumDesign reports whether the premium design tier was selected.
func (a Answers) WantsPremiumDesign() bool {
	return a.DesignTier == "premium"
}
