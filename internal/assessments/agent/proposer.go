package agent

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"studio_backend/platform/ai/textmodel"
)

// ProposalDraft is the prose part of a proposal document. The structured
// facts (pricing breakdown, features) travel alongside it in the service.
type ProposalDraft struct {
	Title    string
	Markdown string
}

// Proposer writes proposal prose from a fact sheet.
type Proposer struct {
	agent *textAgent
}

// NewProposer creates the proposal agent.
func NewProposer(cfg textmodel.Config) (*Proposer, error) {
	a, err := newTextAgent(cfg,
		"proposal-writer",
		"Writes short project proposals from an assessment fact sheet.",
		getProposerSystemPrompt(),
	)
	if err != nil {
		return nil, err
	}
	return &Proposer{agent: a}, nil
}

// Propose returns a proposal draft for the given assessment.
func (p *Proposer) Propose(ctx context.Context, assessmentID uuid.UUID, facts FactSheet) (ProposalDraft, error) {
	output, err := p.agent.run(ctx, "proposal-"+assessmentID.String(), buildFactPrompt(facts))
	if err != nil {
		return ProposalDraft{}, err
	}
	if output == "" {
		return ProposalDraft{}, fmt.Errorf("proposer: model returned empty proposal")
	}

	return ProposalDraft{
		Title:    proposalTitle(facts),
		Markdown: output,
	}, nil
}

func proposalTitle(facts FactSheet) string {
	return fmt.Sprintf("Project proposal: %s", facts.ProjectType)
}
