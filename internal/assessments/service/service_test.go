package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"studio_backend/internal/assessments/agent"
	"studio_backend/internal/assessments/repository"
	"studio_backend/internal/events"
	"studio_backend/internal/pricing"
	"studio_backend/platform/apperr"
	"studio_backend/platform/logger"
)

type fakeStore struct {
	assessments map[uuid.UUID]repository.Assessment
	proposals   map[uuid.UUID]repository.Proposal
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		assessments: make(map[uuid.UUID]repository.Assessment),
		proposals:   make(map[uuid.UUID]repository.Proposal),
	}
}

func (f *fakeStore) CreateAssessment(_ context.Context, a repository.Assessment) (repository.Assessment, error) {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	f.assessments[a.ID] = a
	return a, nil
}

func (f *fakeStore) GetAssessment(_ context.Context, id uuid.UUID) (repository.Assessment, error) {
	a, ok := f.assessments[id]
	if !ok {
		return repository.Assessment{}, repository.ErrNotFound
	}
	return a, nil
}

func (f *fakeStore) ListAssessments(_ context.Context, status string, limit, offset int) ([]repository.Assessment, error) {
	var out []repository.Assessment
	for _, a := range f.assessments {
		if status == "" || a.Status == status {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateAssessment(_ context.Context, id uuid.UUID, answers pricing.Answers, breakdown pricing.Breakdown) (repository.Assessment, error) {
	a, ok := f.assessments[id]
	if !ok {
		return repository.Assessment{}, repository.ErrNotFound
	}
	a.Answers = answers
	a.Breakdown = breakdown
	a.UpdatedAt = time.Now()
	f.assessments[id] = a
	return a, nil
}

func (f *fakeStore) UpdateAssessmentStatus(_ context.Context, id uuid.UUID, status string) error {
	a, ok := f.assessments[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Status = status
	f.assessments[id] = a
	return nil
}

func (f *fakeStore) CreateProposal(_ context.Context, p repository.Proposal) (repository.Proposal, error) {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	f.proposals[p.AssessmentID] = p
	return p, nil
}

func (f *fakeStore) GetLatestProposal(_ context.Context, assessmentID uuid.UUID) (repository.Proposal, error) {
	p, ok := f.proposals[assessmentID]
	if !ok {
		return repository.Proposal{}, repository.ErrNotFound
	}
	return p, nil
}

type captureBus struct {
	published []events.Event
}

func (b *captureBus) Publish(_ context.Context, e events.Event)           { b.published = append(b.published, e) }
func (b *captureBus) PublishSync(_ context.Context, e events.Event) error { b.published = append(b.published, e); return nil }
func (b *captureBus) Subscribe(string, events.Handler)                    {}

type fakeSuggester struct {
	suggestions []string
	err         error
}

func (f *fakeSuggester) Suggest(context.Context, agent.FactSheet) ([]string, error) {
	return f.suggestions, f.err
}

type fakeProposer struct {
	draft agent.ProposalDraft
	err   error
}

func (f *fakeProposer) Propose(context.Context, uuid.UUID, agent.FactSheet) (agent.ProposalDraft, error) {
	return f.draft, f.err
}

func newTestService(t *testing.T, store Store, suggester SuggestionProvider, proposer ProposalProvider, bus events.Bus) *Service {
	t.Helper()
	log := logger.New("development")
	engine, err := pricing.New(log)
	if err != nil {
		t.Fatalf("pricing.New: %v", err)
	}
	return New(store, engine, suggester, proposer, nil, bus, log)
}

func TestQuoteMatchesEngine(t *testing.T) {
	svc := newTestService(t, newFakeStore(), nil, nil, &captureBus{})

	answers := pricing.Answers{
		ProjectType: "web-app",
		Features:    []string{"Shopping Cart", "Payment Processing"},
	}
	breakdown := svc.Quote(answers)
	if breakdown.Subtotal != 13750 {
		t.Fatalf("expected subtotal 13750, got %v", breakdown.Subtotal)
	}
}

func TestSubmitPersistsAndPublishes(t *testing.T) {
	store := newFakeStore()
	bus := &captureBus{}
	svc := newTestService(t, store, nil, nil, bus)

	created, err := svc.Submit(context.Background(), "  Jane Doe  ", "Jane@Example.COM", "+1 415 555 0100", pricing.Answers{
		ProjectType: "e-commerce",
		Features:    []string{"webshop"},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if created.ContactName != "Jane Doe" {
		t.Fatalf("expected trimmed name, got %q", created.ContactName)
	}
	if created.ContactEmail != "jane@example.com" {
		t.Fatalf("expected lowercased email, got %q", created.ContactEmail)
	}
	if created.ContactPhone == nil || !strings.HasPrefix(*created.ContactPhone, "+") {
		t.Fatalf("expected normalized phone, got %v", created.ContactPhone)
	}
	if created.Status != repository.StatusPending {
		t.Fatalf("expected pending status, got %q", created.Status)
	}
	if created.Breakdown.Subtotal == 0 {
		t.Fatal("expected breakdown to be computed on submit")
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(bus.published))
	}
	evt, ok := bus.published[0].(events.AssessmentSubmitted)
	if !ok {
		t.Fatalf("expected AssessmentSubmitted, got %T", bus.published[0])
	}
	if evt.AssessmentID != created.ID || evt.Subtotal != created.Breakdown.Subtotal {
		t.Fatal("event does not match stored assessment")
	}
}

type fakeFollowUps struct {
	scheduled []uuid.UUID
	runAt     time.Time
}

func (f *fakeFollowUps) ScheduleAssessmentFollowUp(_ context.Context, id uuid.UUID, runAt time.Time) error {
	f.scheduled = append(f.scheduled, id)
	f.runAt = runAt
	return nil
}

func TestSubmitSchedulesFollowUp(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store, nil, nil, &captureBus{})
	followUps := &fakeFollowUps{}
	svc.SetFollowUpScheduler(followUps)

	created, err := svc.Submit(context.Background(), "Jane", "jane@example.com", "", pricing.Answers{
		ProjectType: "web-app",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(followUps.scheduled) != 1 || followUps.scheduled[0] != created.ID {
		t.Fatalf("expected follow-up scheduled for %s, got %v", created.ID, followUps.scheduled)
	}
	if !followUps.runAt.After(time.Now().Add(24 * time.Hour)) {
		t.Fatalf("expected follow-up at least a day out, got %v", followUps.runAt)
	}
}

func TestSuggestPrefersAI(t *testing.T) {
	svc := newTestService(t, newFakeStore(), &fakeSuggester{suggestions: []string{"Add a blog"}}, nil, &captureBus{})

	got := svc.Suggest(context.Background(), pricing.Answers{ProjectType: "portfolio"})
	if len(got) != 1 || got[0] != "Add a blog" {
		t.Fatalf("expected AI suggestions, got %v", got)
	}
}

func TestSuggestFallsBackOnError(t *testing.T) {
	svc := newTestService(t, newFakeStore(), &fakeSuggester{err: errors.New("model unavailable")}, nil, &captureBus{})

	got := svc.Suggest(context.Background(), pricing.Answers{ProjectType: "web-app"})
	if len(got) == 0 {
		t.Fatal("expected fallback suggestions when the model fails")
	}
}

func TestSuggestWithoutProviderUsesFallback(t *testing.T) {
	svc := newTestService(t, newFakeStore(), nil, nil, &captureBus{})

	got := svc.Suggest(context.Background(), pricing.Answers{ProjectType: "landing-page"})
	if len(got) == 0 {
		t.Fatal("expected fallback suggestions when AI is disabled")
	}
}

func TestUpdateAnswersRecomputesBreakdown(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store, nil, nil, &captureBus{})

	created, err := svc.Submit(context.Background(), "Jane", "jane@example.com", "", pricing.Answers{ProjectType: "portfolio"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	before := created.Breakdown.Subtotal

	updated, err := svc.UpdateAnswers(context.Background(), created.ID, pricing.Answers{
		ProjectType: "web-app",
		Features:    []string{"Admin Dashboard"},
	})
	if err != nil {
		t.Fatalf("UpdateAnswers: %v", err)
	}
	if updated.Breakdown.Subtotal <= before {
		t.Fatalf("expected recomputed subtotal above %v, got %v", before, updated.Breakdown.Subtotal)
	}
}

func TestUpdateStatusUnknownAssessment(t *testing.T) {
	svc := newTestService(t, newFakeStore(), nil, nil, &captureBus{})

	err := svc.UpdateStatus(context.Background(), uuid.New(), repository.StatusReviewed)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGenerateProposalUsesAIDraft(t *testing.T) {
	store := newFakeStore()
	bus := &captureBus{}
	proposer := &fakeProposer{draft: agent.ProposalDraft{Title: "Project proposal: web-app", Markdown: "## Project Understanding\n..."}}
	svc := newTestService(t, store, nil, proposer, bus)

	created, err := svc.Submit(context.Background(), "Jane", "jane@example.com", "", pricing.Answers{ProjectType: "web-app"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	bus.published = nil

	proposal, err := svc.GenerateProposal(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GenerateProposal: %v", err)
	}
	if proposal.UsedFallback {
		t.Fatal("expected AI draft, got fallback")
	}
	if proposal.Title != "Project proposal: web-app" {
		t.Fatalf("unexpected title %q", proposal.Title)
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(bus.published))
	}
	evt, ok := bus.published[0].(events.ProposalGenerated)
	if !ok {
		t.Fatalf("expected ProposalGenerated, got %T", bus.published[0])
	}
	if evt.ProposalID != proposal.ID || evt.UsedFallback {
		t.Fatal("event does not match stored proposal")
	}
}

func TestGenerateProposalFallsBackOnModelError(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store, nil, &fakeProposer{err: errors.New("timeout")}, &captureBus{})

	created, err := svc.Submit(context.Background(), "Jane", "jane@example.com", "", pricing.Answers{
		ProjectType: "e-commerce",
		Features:    []string{"Payment Processing"},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	proposal, err := svc.GenerateProposal(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GenerateProposal: %v", err)
	}
	if !proposal.UsedFallback {
		t.Fatal("expected fallback proposal on model error")
	}
	if !strings.Contains(proposal.Markdown, "## Investment") {
		t.Fatalf("fallback proposal missing sections: %q", proposal.Markdown)
	}
}

func TestGetProposalNotFound(t *testing.T) {
	svc := newTestService(t, newFakeStore(), nil, nil, &captureBus{})

	_, err := svc.GetProposal(context.Background(), uuid.New())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
