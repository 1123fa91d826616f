package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"NewsletterDigest/internal/config"
	"NewsletterDigest/internal/digest"
	"NewsletterDigest/internal/domain"
	"NewsletterDigest/internal/extract"
	"NewsletterDigest/internal/fetch"
	"NewsletterDigest/internal/infrastructure/llm"
	"NewsletterDigest/internal/infrastructure/scheduler"
	smtpout "NewsletterDigest/internal/infrastructure/smtp"
	"NewsletterDigest/internal/infrastructure/storage"
	"NewsletterDigest/internal/logging"
	"NewsletterDigest/internal/pipeline"
	"NewsletterDigest/internal/ports"
	"NewsletterDigest/internal/server"
)

// Application wires config to the pipeline, HTTP API, and scheduler.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	db       *sql.DB
	pipeline *pipeline.Pipeline
	tracker  *server.StatusTracker
	server   *server.Server
	cron     *scheduler.Cron
}

// New builds a runnable application instance. The newsletter source is
// injected: the mailbox transport lives outside this module.
func New(cfg config.Config, heuristics config.Heuristics, source ports.NewsletterSource, baseLogger *slog.Logger) (*Application, error) {
	db, err := storage.Open(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect storage: %w", err)
	}
	repo := storage.NewPostgresRepository(db)

	extractor := extract.NewURLExtractor(heuristics, logging.Component(baseLogger, "extractor"))
	fetcher := fetch.NewFetcher(nil,
		time.Duration(cfg.Pipeline.FetchTimeoutSeconds)*time.Second,
		cfg.Pipeline.FetchWorkers,
		logging.Component(baseLogger, "fetcher"))

	summarizer := llm.NewSummarizer(cfg.OpenAI, heuristics, logging.Component(baseLogger, "summarizer"))
	renderer := digest.NewRenderer(heuristics)
	sender := smtpout.NewSender(cfg.Mailbox, cfg.Digest.Recipient, renderer, logging.Component(baseLogger, "smtp"))

	tracker := server.NewStatusTracker()

	pipe := pipeline.New(pipeline.Deps{
		Source:       source,
		Extractor:    extractor,
		Fetcher:      fetcher,
		Filter:       pipeline.NewArticleFilter(heuristics),
		Deduplicator: pipeline.NewDeduplicator(cfg.Pipeline.SimilarityThreshold, heuristics, logging.Component(baseLogger, "dedup")),
		JunkFilterer: pipeline.NewJunkFilterer(logging.Component(baseLogger, "junk")),
		Ranker:       pipeline.NewSourceRanker(logging.Component(baseLogger, "ranker")),
		Categorizer:  pipeline.NewCategorizer(heuristics),
		Store:        repo,
		Summarizer:   summarizer,
		Sender:       sender,
		Progress:     tracker,
		Logger:       logging.Component(baseLogger, "pipeline"),
	})

	srv := server.New(cfg, heuristics, tracker, pipe.Run, repo, repo, logging.Component(baseLogger, "server"))
	cr := scheduler.New(cfg.Digest.Location(), logging.Component(baseLogger, "scheduler"))

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		db:       db,
		pipeline: pipe,
		tracker:  tracker,
		server:   srv,
		cron:     cr,
	}, nil
}

// Run schedules the daily digest and serves the API until it fails.
func (a *Application) Run(ctx context.Context) error {
	job := func() {
		if !a.tracker.TryBegin() {
			a.logger.Warn("scheduled run skipped, another run in progress")
			return
		}
		outcome, err := a.pipeline.Run(ctx, a.cfg.Digest.DaysBack)
		if err != nil {
			a.logger.Error("scheduled run failed", "outcome", outcome, "error", err)
		}
	}

	if err := a.cron.ScheduleDaily(a.cfg.Digest.Hour, a.cfg.Digest.Minute, job); err != nil {
		return err
	}
	a.cron.Start()
	defer a.cron.Stop()

	return a.server.Start()
}

// TriggerOnce executes a single pipeline run outside any schedule.
func (a *Application) TriggerOnce(ctx context.Context, daysBack int) (domain.RunOutcome, error) {
	if !a.tracker.TryBegin() {
		return domain.OutcomeRunning, fmt.Errorf("a run is already in progress")
	}
	return a.pipeline.Run(ctx, daysBack)
}

// Close releases held resources.
func (a *Application) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
