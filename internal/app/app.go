// Package app wires configuration, storage, the detection capability and the
// HTTP surface into a runnable server.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"findit/internal/config"
	"findit/internal/logger"
	"findit/internal/repository/sqlite"
	"findit/internal/route"
	"findit/internal/service/ai"
	"findit/internal/service/alias"
	"findit/internal/service/analysis"
	"findit/internal/service/cache"
	"findit/internal/service/relay"
	"findit/internal/service/search"
	"findit/internal/service/storage"
	"findit/internal/service/vision"
	"findit/internal/service/websocket"
	"findit/internal/service/zone"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config     *config.Config
	logger     *logger.Logger
	db         *sqlite.DB
	capability vision.Capability
	cache      cache.AnalysisCache
	hub        *websocket.Hub
	handler    http.Handler
}

// NewApp builds every component from cfg. Missing zone and alias tables, an
// unreachable Redis and absent model files all degrade; only the logger,
// database and image directory are required.
func NewApp(cfg *config.Config) (*App, error) {
	log, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	images := sqlite.NewImageRepository(db)
	observations := sqlite.NewObservationRepository(db)

	store, err := storage.NewImageStore(cfg.ImageDirectory, log)
	if err != nil {
		db.Close()
		return nil, err
	}

	classifier := zone.NewClassifier(zone.LoadOrEmpty(cfg.ZonesPath, log), zone.LabelsFor(cfg.ZoneLocale))
	resolver := alias.NewResolver(alias.LoadOrEmpty(cfg.AliasesPath, log))
	log.Info("Loaded %d zones and %d alias entries", len(classifier.Zones()), resolver.Len())

	capability := ai.Load(cfg, log)
	analysisCache := openCache(cfg, log)
	hub := websocket.NewHub(log)

	streamer := relay.New(capability, relay.Options{
		ConnectTimeout:     cfg.RelayConnectTimeout,
		ReadTimeout:        cfg.RelayReadTimeout,
		ChunkSize:          cfg.RelayChunkSize,
		MaxFrameBytes:      cfg.RelayMaxFrameBytes,
		PassThroughOnError: cfg.RelayPassThrough,
	}, log)

	analyzer := analysis.New(analysis.Deps{
		Capability: capability,
		Classifier: classifier,
		Resolver:   resolver,
		Store:      store,
		Images:     images,
		Cache:      analysisCache,
		Publisher:  hub,
		Logger:     log,
		Threshold:  cfg.ConfidenceThreshold,
	})

	searcher := search.New(resolver, observations, store, log)

	handler := route.SetupRoutes(route.Services{
		Capability:     capability,
		Images:         images,
		Streamer:       streamer,
		Analyzer:       analyzer,
		Searcher:       searcher,
		Hub:            hub,
		ImageDirectory: store.Dir(),
		LogDirectory:   cfg.LogDirectory,
		UploadMaxBytes: cfg.UploadMaxBytes,
		RecentLimit:    cfg.RecentLimit,
	}, log)

	return &App{
		config:     cfg,
		logger:     log,
		db:         db,
		capability: capability,
		cache:      analysisCache,
		hub:        hub,
		handler:    handler,
	}, nil
}

// openCache connects to Redis when configured, falling back to no cache when
// the server does not answer.
func openCache(cfg *config.Config, log *logger.Logger) cache.AnalysisCache {
	c := cache.New(cfg)
	redisCache, ok := c.(*cache.RedisCache)
	if !ok {
		return c
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := redisCache.Ping(ctx); err != nil {
		log.Warning("Redis at %s unavailable, analysis cache disabled: %v", cfg.RedisAddr, err)
		redisCache.Close()
		return cache.Nop{}
	}
	log.Info("Analysis cache connected to %s", cfg.RedisAddr)
	return redisCache
}

// Handler exposes the routed handler.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run serves HTTP and the event hub until ctx is cancelled, then shuts the
// server down gracefully. Open streams see their request context cancelled.
func (a *App) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.config.Port),
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.hub.Run(gctx)
	})

	g.Go(func() error {
		a.logger.Info("FindIt server listening on http://localhost:%d (model: %s, images: %s)",
			a.config.Port, a.capability.Name(), a.config.ImageDirectory)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("Shutting down server")
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close releases the database, cache, model and logger.
func (a *App) Close() error {
	err := multierr.Combine(
		a.db.Close(),
		a.cache.Close(),
	)
	if closer, ok := a.capability.(io.Closer); ok {
		err = multierr.Append(err, closer.Close())
	}
	// Sync fails on terminal sinks; ignored.
	a.logger.Sync()
	return err
}
