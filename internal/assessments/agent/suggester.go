package agent

import (
	"context"
	"fmt"
	"strings"

	"studio_backend/platform/ai/textmodel"
)

// Suggester produces a short list of project suggestions from a fact sheet.
type Suggester struct {
	agent *textAgent
}

// NewSuggester creates the suggestion agent.
func NewSuggester(cfg textmodel.Config) (*Suggester, error) {
	a, err := newTextAgent(cfg,
		"project-suggester",
		"Generates concrete project suggestions from an assessment fact sheet.",
		getSuggesterSystemPrompt(),
	)
	if err != nil {
		return nil, err
	}
	return &Suggester{agent: a}, nil
}

// Suggest returns the model's suggestions as an ordered list.
func (s *Suggester) Suggest(ctx context.Context, facts FactSheet) ([]string, error) {
	output, err := s.agent.run(ctx, "suggester", buildFactPrompt(facts))
	if err != nil {
		return nil, err
	}

	suggestions := parseBulletList(output)
	if len(suggestions) == 0 {
		return nil, fmt.Errorf("suggester: model output contained no suggestions")
	}
	return suggestions, nil
}

// parseBulletList extracts "- " and "* " prefixed lines from model output,
// tolerating stray prose around the list.
func parseBulletList(output string) []string {
	var items []string
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		var item string
		switch {
		case strings.HasPrefix(trimmed, "- "):
			item = strings.TrimSpace(trimmed[2:])
		case strings.HasPrefix(trimmed, "* "):
			item = strings.TrimSpace(trimmed[2:])
		default:
			continue
		}
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
