// Package app initializes and holds long-lived application services, acting
// as a dependency injection container. It is initialized once at startup and
// torn down by Close.
package app

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	gcstorage "cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/fitfindr/fitfindr-server/internal/activity"
	"github.com/fitfindr/fitfindr-server/internal/activity/sinks"
	"github.com/fitfindr/fitfindr-server/internal/analyzer"
	"github.com/fitfindr/fitfindr-server/internal/api"
	"github.com/fitfindr/fitfindr-server/internal/archive"
	gcsarchive "github.com/fitfindr/fitfindr-server/internal/archive/gcs"
	localarchive "github.com/fitfindr/fitfindr-server/internal/archive/local"
	memarchive "github.com/fitfindr/fitfindr-server/internal/archive/memory"
	"github.com/fitfindr/fitfindr-server/internal/clock/system"
	"github.com/fitfindr/fitfindr-server/internal/config"
	"github.com/fitfindr/fitfindr-server/internal/feedback"
	"github.com/fitfindr/fitfindr-server/internal/id/uuid"
	"github.com/fitfindr/fitfindr-server/internal/logging"
	"github.com/fitfindr/fitfindr-server/internal/metrics"
	"github.com/fitfindr/fitfindr-server/internal/pinterest"
	pubsubpub "github.com/fitfindr/fitfindr-server/internal/publisher/pubsub"
	"github.com/fitfindr/fitfindr-server/internal/storage"
	filestore "github.com/fitfindr/fitfindr-server/internal/storage/file"
	memstore "github.com/fitfindr/fitfindr-server/internal/storage/memory"
	pgstore "github.com/fitfindr/fitfindr-server/internal/storage/postgres"
)

// App holds all the shared, long-lived services for the application: the
// logger, persistence, archival, the activity hub, the ingestion pipeline,
// and the HTTP server built on top of them.
type App struct {
	cfg    config.Config
	logger *zap.Logger

	store    storage.Store
	archiver archive.BlobStore
	hub      *activity.Hub
	pipeline *pinterest.Pipeline
	server   *api.Server

	gcsClient    *gcstorage.Client
	pubsubClient *pubsub.Client
}

// Config returns the configuration the container was built from.
func (a *App) Config() config.Config {
	return a.cfg
}

// Logger returns the shared zap logger instance.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Store exposes the configured persistence backend.
func (a *App) Store() storage.Store {
	return a.store
}

// Pipeline exposes the pin ingestion pipeline for direct (CLI) use.
func (a *App) Pipeline() *pinterest.Pipeline {
	return a.pipeline
}

// Server returns the wired HTTP server.
func (a *App) Server() *api.Server {
	return a.server
}

// New creates and initializes an App from configuration. It is the central
// point for service initialization and fails fast when any critical service
// cannot be built.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	logger.Info("initializing application services")
	metrics.Init()

	a := &App{cfg: cfg, logger: logger}

	if a.store, err = newStore(ctx, cfg); err != nil {
		return nil, fmt.Errorf("initialize storage: %w", err)
	}
	if a.archiver, err = a.newArchiver(ctx, cfg); err != nil {
		return nil, fmt.Errorf("initialize archive: %w", err)
	}

	hubSinks := []activity.Sink{
		sinks.NewLogSink(logger),
		sinks.NewPrometheusSink(),
	}
	if cfg.Storage.Backend == config.StorageBackendFile {
		journal, jerr := sinks.NewJournalSink(cfg.Storage.DataDir)
		if jerr != nil {
			return nil, fmt.Errorf("initialize activity journal: %w", jerr)
		}
		hubSinks = append(hubSinks, journal)
	}
	if cfg.PubSub.Enabled {
		logger.Info("connecting to pub/sub",
			zap.String("project", cfg.PubSub.ProjectID),
			zap.String("topic", cfg.PubSub.TopicName),
		)
		a.pubsubClient, err = pubsub.NewClient(ctx, cfg.PubSub.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("initialize pub/sub client: %w", err)
		}
		pub := pubsubpub.New(a.pubsubClient.Topic(cfg.PubSub.TopicName))
		hubSinks = append(hubSinks, sinks.NewPublisherSink(pub, cfg.PubSub.TopicName))
	}
	a.hub = activity.NewHub(activity.HubConfig{Logger: logger}, hubSinks...)

	client, err := pinterest.NewClient(pinterest.ClientConfig{
		Endpoint: cfg.Pinterest.Endpoint,
		APIKey:   cfg.Pinterest.APIKey,
		Timeout:  cfg.PinterestTimeout(),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize pinterest client: %w", err)
	}
	a.pipeline = pinterest.NewPipeline(client, pinterest.SystemRand(), a.archiver, logger)

	ids := uuid.NewGenerator()
	clock := system.New()
	fbSvc := feedback.NewService(a.store, ids, clock)

	var explainer analyzer.Explainer = analyzer.NewTemplateExplainer()
	if cfg.Analyzer.APIKey != "" {
		llm, lerr := analyzer.NewLLMExplainer(cfg.Analyzer.APIKey, cfg.Analyzer.Model, logger)
		if lerr != nil {
			return nil, fmt.Errorf("initialize analyzer: %w", lerr)
		}
		explainer = llm
	}

	a.server = api.NewServer(cfg, api.Deps{
		Store:     a.store,
		Pipeline:  a.pipeline,
		Feedback:  fbSvc,
		Explainer: explainer,
		Archiver:  a.archiver,
		IDs:       ids,
		Clock:     clock,
		Emitter:   a.hub,
		Logger:    logger,
	})

	logger.Info("application services initialized")
	return a, nil
}

func newStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendFile:
		return filestore.New(cfg.Storage.DataDir)
	case config.StorageBackendMemory:
		return memstore.New(), nil
	case config.StorageBackendPostgres:
		return pgstore.New(ctx, pgstore.Config{DSN: cfg.Storage.DSN})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func (a *App) newArchiver(ctx context.Context, cfg config.Config) (archive.BlobStore, error) {
	switch cfg.Archive.Backend {
	case config.ArchiveBackendNone:
		return nil, nil
	case config.ArchiveBackendLocal:
		return localarchive.New(cfg.Archive.Dir)
	case config.ArchiveBackendMemory:
		return memarchive.New(), nil
	case config.ArchiveBackendGCS:
		client, err := gcstorage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("initialize gcs client: %w", err)
		}
		a.gcsClient = client
		return gcsarchive.New(client, cfg.Archive.Bucket)
	default:
		return nil, fmt.Errorf("unknown archive backend %q", cfg.Archive.Backend)
	}
}

// Close gracefully shuts down all services in the App container. The activity
// hub closes first so its final batch still reaches the sinks.
func (a *App) Close() {
	a.logger.Info("shutting down application services")
	if a.hub != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := a.hub.Close(ctx); err != nil {
			a.logger.Warn("error closing activity hub", zap.Error(err))
		}
		cancel()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("error closing store", zap.Error(err))
		}
	}
	if a.pubsubClient != nil {
		if err := a.pubsubClient.Close(); err != nil {
			a.logger.Warn("error closing pub/sub client", zap.Error(err))
		}
	}
	if a.gcsClient != nil {
		if err := a.gcsClient.Close(); err != nil {
			a.logger.Warn("error closing gcs client", zap.Error(err))
		}
	}
	if err := a.logger.Sync(); err != nil {
		// Best effort; stderr sync failures are expected on some platforms.
		_ = err
	}
}
