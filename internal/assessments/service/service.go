package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"studio_backend/internal/adapters/storage"
	"studio_backend/internal/assessments/agent"
	"studio_backend/internal/assessments/repository"
	"studio_backend/internal/events"
	"studio_backend/internal/pricing"
	"studio_backend/platform/apperr"
	"studio_backend/platform/logger"
	"studio_backend/platform/phone"
	"studio_backend/platform/sanitize"
)

// ProposalBucket is the object storage bucket proposal documents land in.
const ProposalBucket = "proposals"

// Store is the persistence surface the service needs. Satisfied by
// repository.Repository.
type Store interface {
	CreateAssessment(ctx context.Context, a repository.Assessment) (repository.Assessment, error)
	GetAssessment(ctx context.Context, id uuid.UUID) (repository.Assessment, error)
	ListAssessments(ctx context.Context, status string, limit, offset int) ([]repository.Assessment, error)
	UpdateAssessment(ctx context.Context, id uuid.UUID, answers pricing.Answers, breakdown pricing.Breakdown) (repository.Assessment, error)
	UpdateAssessmentStatus(ctx context.Context, id uuid.UUID, status string) error
	CreateProposal(ctx context.Context, p repository.Proposal) (repository.Proposal, error)
	GetLatestProposal(ctx context.Context, assessmentID uuid.UUID) (repository.Proposal, error)
}

// SuggestionProvider produces follow-up suggestions for a fact sheet.
// Satisfied by agent.Suggester; nil means AI is disabled.
type SuggestionProvider interface {
	Suggest(ctx context.Context, facts agent.FactSheet) ([]string, error)
}

// ProposalProvider drafts a proposal document for a fact sheet.
// Satisfied by agent.Proposer; nil means AI is disabled.
type ProposalProvider interface {
	Propose(ctx context.Context, assessmentID uuid.UUID, facts agent.FactSheet) (agent.ProposalDraft, error)
}

// FollowUpScheduler queues a reminder in case a submission sits unreviewed.
// Satisfied by scheduler.Client; nil means background scheduling is disabled.
type FollowUpScheduler interface {
	ScheduleAssessmentFollowUp(ctx context.Context, assessmentID uuid.UUID, runAt time.Time) error
}

// followUpDelay is how long a submission may sit in pending before the
// studio gets a reminder.
const followUpDelay = 72 * time.Hour

type Service struct {
	store     Store
	engine    *pricing.Engine
	suggester SuggestionProvider
	proposer  ProposalProvider
	storage   storage.StorageService
	followUps FollowUpScheduler
	bus       events.Bus
	log       *logger.Logger
}

func New(store Store, engine *pricing.Engine, suggester SuggestionProvider, proposer ProposalProvider, store2 storage.StorageService, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		store:     store,
		engine:    engine,
		suggester: suggester,
		proposer:  proposer,
		storage:   store2,
		bus:       bus,
		log:       log,
	}
}

// SetFollowUpScheduler enables follow-up reminders for pending submissions.
func (s *Service) SetFollowUpScheduler(f FollowUpScheduler) { s.followUps = f }

// Quote prices a set of answers without persisting anything. Used by the
// public wizard to show a live estimate.
func (s *Service) Quote(a pricing.Answers) pricing.Breakdown {
	return s.engine.Calculate(a)
}

// Suggest returns follow-up suggestions for a set of answers. The AI path is
// best effort: any failure falls back to the deterministic template, so the
// endpoint never errors because of the model.
func (s *Service) Suggest(ctx context.Context, a pricing.Answers) []string {
	breakdown := s.engine.Calculate(a)
	facts := agent.BuildFactSheet(s.engine, a, breakdown)

	if s.suggester != nil {
		suggestions, err := s.suggester.Suggest(ctx, facts)
		if err == nil {
			return suggestions
		}
		s.log.AIFallback("assessment_suggester", err)
	}
	return agent.FallbackSuggestions(facts)
}

// Submit persists a completed assessment with its computed price breakdown
// and notifies subscribers.
func (s *Service) Submit(ctx context.Context, contactName, contactEmail, contactPhone string, a pricing.Answers) (repository.Assessment, error) {
	contactName = sanitize.Text(contactName)
	contactEmail = strings.ToLower(strings.TrimSpace(contactEmail))
	a.Description = sanitize.Text(a.Description)

	var phonePtr *string
	if contactPhone != "" {
		normalized := phone.NormalizeE164(contactPhone)
		phonePtr = &normalized
	}

	breakdown := s.engine.Calculate(a)

	created, err := s.store.CreateAssessment(ctx, repository.Assessment{
		ContactName:  contactName,
		ContactEmail: contactEmail,
		ContactPhone: phonePtr,
		Answers:      a,
		Breakdown:    breakdown,
		Status:       repository.StatusPending,
	})
	if err != nil {
		return repository.Assessment{}, apperr.Wrap(apperr.KindInternal, "create assessment", err)
	}

	s.bus.Publish(ctx, events.AssessmentSubmitted{
		BaseEvent:    events.NewBaseEvent(),
		AssessmentID: created.ID,
		ContactEmail: created.ContactEmail,
		ContactName:  created.ContactName,
		ProjectType:  created.Answers.ProjectType,
		Subtotal:     created.Breakdown.Subtotal,
		RangeLow:     created.Breakdown.EstimatedRange.Low,
		RangeHigh:    created.Breakdown.EstimatedRange.High,
	})

	if s.followUps != nil {
		runAt := time.Now().Add(followUpDelay)
		if err := s.followUps.ScheduleAssessmentFollowUp(ctx, created.ID, runAt); err != nil {
			s.log.Error("failed to schedule assessment follow-up", "assessment_id", created.ID, "error", err)
		}
	}

	return created, nil
}

func (s *Service) List(ctx context.Context, status string, limit, offset int) ([]repository.Assessment, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	list, err := s.store.ListAssessments(ctx, status, limit, offset)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list assessments", err)
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (repository.Assessment, error) {
	a, err := s.store.GetAssessment(ctx, id)
	if err != nil {
		return repository.Assessment{}, apperr.NotFound("assessment")
	}
	return a, nil
}

// UpdateAnswers replaces the answers of an assessment and recomputes the
// breakdown so price and answers never drift apart.
func (s *Service) UpdateAnswers(ctx context.Context, id uuid.UUID, a pricing.Answers) (repository.Assessment, error) {
	if _, err := s.store.GetAssessment(ctx, id); err != nil {
		return repository.Assessment{}, apperr.NotFound("assessment")
	}

	a.Description = sanitize.Text(a.Description)
	breakdown := s.engine.Calculate(a)

	updated, err := s.store.UpdateAssessment(ctx, id, a, breakdown)
	if err != nil {
		return repository.Assessment{}, apperr.Wrap(apperr.KindInternal, "update assessment", err)
	}
	return updated, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	if err := s.store.UpdateAssessmentStatus(ctx, id, status); err != nil {
		if err == repository.ErrNotFound {
			return apperr.NotFound("assessment")
		}
		return apperr.Wrap(apperr.KindInternal, "update assessment status", err)
	}
	return nil
}

// GenerateProposal produces a proposal document for an assessment. The AI
// draft is preferred; on any model failure the deterministic template is used
// instead, and the result records which path produced it. When object storage
// is configured the markdown is also archived there.
func (s *Service) GenerateProposal(ctx context.Context, assessmentID uuid.UUID) (repository.Proposal, error) {
	assessment, err := s.store.GetAssessment(ctx, assessmentID)
	if err != nil {
		return repository.Proposal{}, apperr.NotFound("assessment")
	}

	facts := agent.BuildFactSheet(s.engine, assessment.Answers, assessment.Breakdown)

	var draft agent.ProposalDraft
	usedFallback := true
	if s.proposer != nil {
		draft, err = s.proposer.Propose(ctx, assessmentID, facts)
		if err != nil {
			s.log.AIFallback("proposal_writer", err)
		} else {
			usedFallback = false
		}
	}
	if usedFallback {
		draft = agent.FallbackProposal(facts)
	}

	var documentKey *string
	if s.storage != nil {
		key, uploadErr := s.uploadProposalDocument(ctx, assessmentID, draft)
		if uploadErr != nil {
			s.log.Error("failed to archive proposal document", "assessment_id", assessmentID, "error", uploadErr)
		} else {
			documentKey = &key
		}
	}

	created, err := s.store.CreateProposal(ctx, repository.Proposal{
		AssessmentID: assessmentID,
		Title:        draft.Title,
		Markdown:     draft.Markdown,
		Breakdown:    assessment.Breakdown,
		UsedFallback: usedFallback,
		DocumentKey:  documentKey,
	})
	if err != nil {
		return repository.Proposal{}, apperr.Wrap(apperr.KindInternal, "create proposal", err)
	}

	s.bus.Publish(ctx, events.ProposalGenerated{
		BaseEvent:    events.NewBaseEvent(),
		AssessmentID: assessmentID,
		ProposalID:   created.ID,
		ContactName:  assessment.ContactName,
		ContactEmail: assessment.ContactEmail,
		UsedFallback: usedFallback,
	})

	return created, nil
}

func (s *Service) GetProposal(ctx context.Context, assessmentID uuid.UUID) (repository.Proposal, error) {
	p, err := s.store.GetLatestProposal(ctx, assessmentID)
	if err != nil {
		return repository.Proposal{}, apperr.NotFound("proposal")
	}
	return p, nil
}

func (s *Service) uploadProposalDocument(ctx context.Context, assessmentID uuid.UUID, draft agent.ProposalDraft) (string, error) {
	body := strings.NewReader(draft.Markdown)
	fileName := "proposal-" + time.Now().UTC().Format("20060102-150405") + ".md"
	return s.storage.UploadFile(ctx, ProposalBucket, assessmentID.String(), fileName, "text/markdown", body, int64(len(draft.Markdown)))
}
