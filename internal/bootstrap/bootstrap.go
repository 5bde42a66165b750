package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/citecheck/internal/config"
	"github.com/kirillkom/citecheck/internal/core/usecase"
	"github.com/kirillkom/citecheck/internal/infrastructure/extractor/plaintext"
	"github.com/kirillkom/citecheck/internal/infrastructure/lookup/courtlistener"
	"github.com/kirillkom/citecheck/internal/infrastructure/pathguard"
	"github.com/kirillkom/citecheck/internal/infrastructure/queue/nats"
	"github.com/kirillkom/citecheck/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/citecheck/internal/infrastructure/resilience"
	"github.com/kirillkom/citecheck/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/citecheck/internal/infrastructure/storage/s3archive"
	"github.com/kirillkom/citecheck/internal/observability/metrics"
)

type App struct {
	Config config.Config

	CheckUC *usecase.TrackedCheckUseCase
	Metrics *metrics.Metrics

	closers []func()
}

// New wires the check pipeline. Postgres, NATS and S3 are attached only when
// configured; a configured sink that cannot start fails startup.
func New(ctx context.Context, cfg config.Config, service string) (_ *App, err error) {
	app := &App{Config: cfg, Metrics: metrics.New(service)}
	defer func() {
		if err != nil {
			app.Close()
		}
	}()

	lookupOpts := courtlistener.Options{Endpoint: cfg.CourtListenerURL}
	if cfg.BreakerEnabled {
		lookupOpts.Guard = resilience.NewGuard(breakerConfig(cfg))
	}

	checkUC := usecase.NewCheckCitationsUseCase(
		pathguard.NewValidator(),
		plaintext.NewExtractor(),
		courtlistener.NewProvider(cfg.CourtListenerToken, lookupOpts),
		localfs.NewReportStore(),
	)

	sinks := usecase.TrackingSinks{Observer: app.Metrics}

	if cfg.PostgresDSN != "" {
		db, err := postgres.OpenDB(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		app.closers = append(app.closers, func() { _ = db.Close() })

		repo := postgres.NewCheckRunRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		sinks.Runs = repo
	}

	if cfg.NATSURL != "" {
		publisher, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
			Guard: resilience.NewGuard(breakerConfig(cfg)),
		})
		if err != nil {
			return nil, fmt.Errorf("init event publisher: %w", err)
		}
		app.closers = append(app.closers, publisher.Close)
		sinks.Events = publisher
	}

	if cfg.S3Bucket != "" {
		archiver, err := s3archive.New(ctx, s3archive.Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.AWSRegion,
			Prefix:    cfg.S3Prefix,
			AccessKey: cfg.AWSAccessKey,
			SecretKey: cfg.AWSSecretKey,
		})
		if err != nil {
			return nil, fmt.Errorf("init report archive: %w", err)
		}
		sinks.Archiver = archiver
	}

	slog.Debug("bootstrap_sinks",
		"history", sinks.Runs != nil,
		"events", sinks.Events != nil,
		"archive", sinks.Archiver != nil,
		"breaker", cfg.BreakerEnabled,
	)

	app.CheckUC = usecase.NewTrackedCheckUseCase(checkUC, sinks)
	return app, nil
}

func breakerConfig(cfg config.Config) resilience.Config {
	return resilience.Config{
		Enabled:      cfg.BreakerEnabled,
		MinRequests:  uint32(max(cfg.BreakerMinRequests, 0)),
		FailureRatio: cfg.BreakerFailureRatio,
		OpenTimeout:  cfg.BreakerOpenTimeout,
	}
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
