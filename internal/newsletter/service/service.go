package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"studio_backend/internal/auth/token"
	"studio_backend/internal/email"
	"studio_backend/internal/events"
	"studio_backend/internal/newsletter/repository"
	"studio_backend/internal/scheduler"
	"studio_backend/platform/apperr"
	"studio_backend/platform/logger"
	"studio_backend/platform/sanitize"
)

// dispatchConcurrency bounds parallel SMTP sends during a campaign.
const dispatchConcurrency = 5

// Store is the persistence surface the service needs. Satisfied by
// repository.Repository.
type Store interface {
	UpsertSubscriber(ctx context.Context, s repository.Subscriber) (repository.Subscriber, error)
	GetSubscriberByTokenHash(ctx context.Context, tokenHash string) (repository.Subscriber, error)
	SetSubscriberStatus(ctx context.Context, id uuid.UUID, status string) error
	ListActiveSubscribers(ctx context.Context) ([]repository.Subscriber, error)
	ListSubscribers(ctx context.Context, status string, limit, offset int) ([]repository.Subscriber, error)
	CreateCampaign(ctx context.Context, c repository.Campaign) (repository.Campaign, error)
	GetCampaign(ctx context.Context, id uuid.UUID) (repository.Campaign, error)
	ListCampaigns(ctx context.Context, limit, offset int) ([]repository.Campaign, error)
	UpdateCampaignContent(ctx context.Context, id uuid.UUID, subject, body string) (repository.Campaign, error)
	MarkCampaignScheduled(ctx context.Context, id uuid.UUID, at time.Time) error
	ClaimCampaignForSending(ctx context.Context, id uuid.UUID) (repository.Campaign, error)
	MarkCampaignSent(ctx context.Context, id uuid.UUID, recipients int) error
}

type Service struct {
	store     Store
	sender    email.Sender
	scheduler scheduler.CampaignScheduler
	bus       events.Bus
	log       *logger.Logger
}

func New(store Store, sender email.Sender, sched scheduler.CampaignScheduler, bus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, sender: sender, scheduler: sched, bus: bus, log: log}
}

// Subscribe registers an email address. Resubscribing a previously
// unsubscribed address re-activates it with a fresh opt-out token.
func (s *Service) Subscribe(ctx context.Context, emailAddr, name string) error {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	rawToken, err := token.GenerateRandomToken(32)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "generate unsubscribe token", err)
	}

	sub := repository.Subscriber{
		Email:                emailAddr,
		Status:               repository.SubscriberActive,
		UnsubscribeTokenHash: token.HashSHA256(rawToken),
	}
	if cleaned := sanitize.Text(name); cleaned != "" {
		sub.Name = &cleaned
	}

	created, err := s.store.UpsertSubscriber(ctx, sub)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "upsert subscriber", err)
	}

	s.bus.Publish(ctx, events.NewsletterSubscribed{
		BaseEvent:        events.NewBaseEvent(),
		SubscriberID:     created.ID,
		Email:            created.Email,
		UnsubscribeToken: rawToken,
	})
	return nil
}

// Unsubscribe deactivates the subscriber owning the raw opt-out token.
func (s *Service) Unsubscribe(ctx context.Context, rawToken string) error {
	sub, err := s.store.GetSubscriberByTokenHash(ctx, token.HashSHA256(rawToken))
	if err != nil {
		return apperr.NotFound("subscription")
	}

	if err := s.store.SetSubscriberStatus(ctx, sub.ID, repository.SubscriberUnsubscribed); err != nil {
		return apperr.Wrap(apperr.KindInternal, "unsubscribe", err)
	}
	return nil
}

func (s *Service) ListSubscribers(ctx context.Context, status string, limit, offset int) ([]repository.Subscriber, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	list, err := s.store.ListSubscribers(ctx, status, limit, offset)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list subscribers", err)
	}
	return list, nil
}

func (s *Service) CreateCampaign(ctx context.Context, subject, body string) (repository.Campaign, error) {
	created, err := s.store.CreateCampaign(ctx, repository.Campaign{
		Subject: sanitize.Text(subject),
		Body:    body,
		Status:  repository.CampaignDraft,
	})
	if err != nil {
		return repository.Campaign{}, apperr.Wrap(apperr.KindInternal, "create campaign", err)
	}
	return created, nil
}

func (s *Service) GetCampaign(ctx context.Context, id uuid.UUID) (repository.Campaign, error) {
	c, err := s.store.GetCampaign(ctx, id)
	if err != nil {
		return repository.Campaign{}, apperr.NotFound("campaign")
	}
	return c, nil
}

func (s *Service) ListCampaigns(ctx context.Context, limit, offset int) ([]repository.Campaign, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	list, err := s.store.ListCampaigns(ctx, limit, offset)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list campaigns", err)
	}
	return list, nil
}

func (s *Service) UpdateCampaign(ctx context.Context, id uuid.UUID, subject, body string) (repository.Campaign, error) {
	existing, err := s.store.GetCampaign(ctx, id)
	if err != nil {
		return repository.Campaign{}, apperr.NotFound("campaign")
	}
	if existing.Status != repository.CampaignDraft {
		return repository.Campaign{}, apperr.Conflict("only draft campaigns can be edited")
	}

	updated, err := s.store.UpdateCampaignContent(ctx, id, sanitize.Text(subject), body)
	if err != nil {
		return repository.Campaign{}, apperr.Wrap(apperr.KindInternal, "update campaign", err)
	}
	return updated, nil
}

// Schedule queues the campaign for dispatch at the given time. Requires the
// scheduler backend; without redis configured scheduling is unavailable.
func (s *Service) Schedule(ctx context.Context, id uuid.UUID, sendAt time.Time) error {
	if s.scheduler == nil {
		return apperr.Conflict("campaign scheduling is not configured")
	}

	campaign, err := s.store.GetCampaign(ctx, id)
	if err != nil {
		return apperr.NotFound("campaign")
	}
	if campaign.Status != repository.CampaignDraft {
		return apperr.Conflict("campaign is " + campaign.Status + ", expected draft")
	}
	if sendAt.Before(time.Now()) {
		return apperr.BadRequest("sendAt must be in the future")
	}

	if err := s.scheduler.ScheduleCampaignDispatch(ctx, id, sendAt); err != nil {
		return apperr.Wrap(apperr.KindInternal, "schedule campaign", err)
	}
	if err := s.store.MarkCampaignScheduled(ctx, id, sendAt); err != nil {
		return apperr.Wrap(apperr.KindInternal, "mark campaign scheduled", err)
	}

	s.bus.Publish(ctx, events.CampaignScheduled{
		BaseEvent:  events.NewBaseEvent(),
		CampaignID: id,
		Subject:    campaign.Subject,
		SendAt:     sendAt.UTC().Format(time.RFC3339),
	})
	return nil
}

// DispatchCampaign sends the campaign to all active subscribers with bounded
// concurrency. Individual send failures are logged and skipped so one bad
// address cannot stall the whole campaign.
func (s *Service) DispatchCampaign(ctx context.Context, id uuid.UUID) error {
	campaign, err := s.store.ClaimCampaignForSending(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			s.log.Info("campaign already dispatched or unknown, skipping", "campaign_id", id)
			return nil
		}
		return err
	}

	subscribers, err := s.store.ListActiveSubscribers(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(dispatchConcurrency)
	for _, sub := range subscribers {
		g.Go(func() error {
			if err := s.sender.SendCustomEmail(gctx, sub.Email, campaign.Subject, campaign.Body); err != nil {
				s.log.Error("failed to send campaign email", "campaign_id", id, "subscriber_id", sub.ID, "error", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return s.store.MarkCampaignSent(ctx, id, len(subscribers))
}
