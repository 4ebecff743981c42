package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studio_backend/internal/adapters/storage"
	"studio_backend/internal/assessments"
	"studio_backend/internal/assessments/agent"
	assessmentservice "studio_backend/internal/assessments/service"
	"studio_backend/internal/auth"
	"studio_backend/internal/contacts"
	"studio_backend/internal/email"
	"studio_backend/internal/events"
	"studio_backend/internal/feedback"
	apphttp "studio_backend/internal/http"
	"studio_backend/internal/http/router"
	"studio_backend/internal/invoices"
	"studio_backend/internal/newsletter"
	"studio_backend/internal/notification"
	"studio_backend/internal/pricing"
	"studio_backend/internal/scheduler"
	"studio_backend/platform/ai/textmodel"
	"studio_backend/platform/config"
	"studio_backend/platform/db"
	"studio_backend/platform/logger"
	"studio_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	schedulerClient, closeScheduler := initScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// Proposal documents are archived in MinIO when it is configured.
	var storageSvc storage.StorageService
	if cfg.IsMinIOEnabled() {
		minioSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		if err := withRetry(ctx, log, "ensure proposals bucket", 5, 2*time.Second, func() error {
			return minioSvc.EnsureBucketExists(ctx, cfg.GetMinioBucketProposals())
		}); err != nil {
			log.Error("failed to ensure storage bucket exists", "error", err, "bucket", cfg.GetMinioBucketProposals())
			panic("failed to ensure storage bucket exists: " + err.Error())
		}
		storageSvc = minioSvc
		log.Info("storage service initialized", "proposalsBucket", cfg.GetMinioBucketProposals())
	} else {
		log.Warn("MinIO not configured; proposal documents will not be archived")
	}

	// Pricing engine with optional table overrides from disk
	var pricingOpts []pricing.Option
	if cfg.GetPricingTablesPath() != "" {
		pricingOpts = append(pricingOpts, pricing.WithTablesFile(cfg.GetPricingTablesPath()))
	}
	engine, err := pricing.New(log, pricingOpts...)
	if err != nil {
		log.Error("failed to initialize pricing engine", "error", err)
		panic("failed to initialize pricing engine: " + err.Error())
	}

	suggester, proposer := initAgents(cfg, log)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.NewModule(sender, cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	authModule := auth.NewModule(pool, cfg, eventBus, log, val)
	assessmentsModule := assessments.NewModule(pool, engine, suggester, proposer, storageSvc, eventBus, log, val)
	if schedulerClient != nil {
		assessmentsModule.Service().SetFollowUpScheduler(schedulerClient)
	}

	contactsModule := contacts.NewModule(pool, eventBus, log, val)
	invoicesModule := invoices.NewModule(pool, eventBus, log, val)
	feedbackModule := feedback.NewModule(pool, eventBus, log, val)

	var campaignScheduler scheduler.CampaignScheduler
	if schedulerClient != nil {
		campaignScheduler = schedulerClient
	}
	newsletterModule := newsletter.NewModule(pool, sender, campaignScheduler, eventBus, log, val)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			assessmentsModule,
			contactsModule,
			invoicesModule,
			feedbackModule,
			newsletterModule,
			notificationModule,
		},
	}

	ginEngine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- ginEngine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initAgents builds the AI suggestion and proposal providers when an API key
// is configured. Nil providers mean the deterministic fallbacks are used.
func initAgents(cfg *config.Config, log *logger.Logger) (assessmentservice.SuggestionProvider, assessmentservice.ProposalProvider) {
	if !cfg.IsAIEnabled() {
		log.Warn("AI not configured; suggestions and proposals use deterministic fallbacks")
		return nil, nil
	}

	modelCfg := textmodel.Config{
		APIKey:  cfg.GetAIAPIKey(),
		BaseURL: cfg.GetAIBaseURL(),
		Model:   cfg.GetAIModel(),
	}

	suggester, err := agent.NewSuggester(modelCfg)
	if err != nil {
		log.Error("failed to initialize suggestion agent", "error", err)
		return nil, nil
	}
	proposer, err := agent.NewProposer(modelCfg)
	if err != nil {
		log.Error("failed to initialize proposal agent", "error", err)
		return suggester, nil
	}
	log.Info("AI agents initialized", "model", cfg.GetAIModel())
	return suggester, proposer
}

func initScheduler(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; campaign dispatch and follow-up reminders disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
