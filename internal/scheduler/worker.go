package scheduler

import (
	"context"
	"fmt"

	"studio_backend/internal/assessments/repository"
	"studio_backend/internal/events"
	"studio_backend/platform/config"
	"studio_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultConcurrency = 10

// CampaignDispatcher sends a queued newsletter campaign to its recipients.
// Satisfied by the newsletter service.
type CampaignDispatcher interface {
	DispatchCampaign(ctx context.Context, campaignID uuid.UUID) error
}

type Worker struct {
	server     *asynq.Server
	mux        *asynq.ServeMux
	repo       *repository.Repository
	dispatcher CampaignDispatcher
	bus        events.Bus
	log        *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, dispatcher CampaignDispatcher, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: defaultConcurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:     server,
		mux:        mux,
		repo:       repository.New(pool),
		dispatcher: dispatcher,
		bus:        bus,
		log:        log,
	}

	mux.HandleFunc(TaskCampaignDispatch, w.handleCampaignDispatch)
	mux.HandleFunc(TaskAssessmentFollowUp, w.handleAssessmentFollowUp)

	return w, nil
}

func (w *Worker) Run() error {
	return w.server.Run(w.mux)
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

func (w *Worker) handleCampaignDispatch(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseCampaignDispatchPayload(task)
	if err != nil {
		return err
	}

	campaignID, err := uuid.Parse(payload.CampaignID)
	if err != nil {
		return err
	}

	w.log.Info("dispatching newsletter campaign", "campaign_id", campaignID)
	return w.dispatcher.DispatchCampaign(ctx, campaignID)
}

// handleAssessmentFollowUp checks whether the assessment was picked up by the
// studio. Still pending means nobody reached out, so subscribers get nudged.
func (w *Worker) handleAssessmentFollowUp(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseAssessmentFollowUpPayload(task)
	if err != nil {
		return err
	}

	assessmentID, err := uuid.Parse(payload.AssessmentID)
	if err != nil {
		return err
	}

	assessment, err := w.repo.GetAssessment(ctx, assessmentID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil
		}
		return err
	}
	if assessment.Status != repository.StatusPending {
		return nil
	}

	return w.bus.PublishSync(ctx, events.AssessmentFollowUpDue{
		BaseEvent:    events.NewBaseEvent(),
		AssessmentID: assessment.ID,
		ContactName:  assessment.ContactName,
		ContactEmail: assessment.ContactEmail,
		ProjectType:  assessment.Answers.ProjectType,
	})
}
