package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/XavierBriggs/Argus/adapters/atplive"
	"github.com/XavierBriggs/Argus/endpoints/livedraw"
	"github.com/XavierBriggs/Argus/endpoints/livematches"
	"github.com/XavierBriggs/Argus/internal/cache"
	"github.com/XavierBriggs/Argus/internal/config"
	"github.com/XavierBriggs/Argus/internal/deliver"
	"github.com/XavierBriggs/Argus/internal/detect"
	"github.com/XavierBriggs/Argus/internal/logging"
	"github.com/XavierBriggs/Argus/internal/pubsub"
	"github.com/XavierBriggs/Argus/internal/registry"
	"github.com/XavierBriggs/Argus/internal/schedule"
	"github.com/XavierBriggs/Argus/pkg/contracts"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Pretty)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis backs the cache provider and the live-subscriber fan-out.
	// A configured-but-unreachable cache store is fatal: serving from a
	// misconfigured cache would be incorrect.
	var redisClient *redis.Client
	if cfg.Cache.Provider == "redis" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable")
		}
		defer redisClient.Close()
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	}

	var cacheProvider contracts.CacheProvider
	switch cfg.Cache.Provider {
	case "redis":
		cacheProvider = cache.NewRedisProvider(redisClient)
	case "memory":
		cacheProvider = cache.NewMemoryProvider()
	default:
		cacheProvider = cache.NewNoopProvider()
	}

	var publisher contracts.SnapshotPublisher = pubsub.NoopPublisher{}
	if redisClient != nil {
		publisher = pubsub.NewRedisPublisher(redisClient)
	}

	adapter := atplive.NewClient(cfg.Feed.BaseURL, cfg.Feed.APIKey)

	endpointRegistry := registry.NewEndpointRegistry()
	if err := endpointRegistry.Register(livematches.NewModuleWithConfig(&livematches.Config{
		Path:          livematches.DefaultConfig().Path,
		DisplayName:   livematches.DefaultConfig().DisplayName,
		PollInterval:  cfg.Matches.PollInterval,
		CacheTTL:      cfg.Matches.CacheTTL,
		MonitorEvents: cfg.Matches.MonitorEvents,
	})); err != nil {
		logger.Fatal().Err(err).Msg("register live-matches endpoint")
	}
	if err := endpointRegistry.Register(livedraw.NewModuleWithConfig(&livedraw.Config{
		Path:          livedraw.DefaultConfig().Path,
		DisplayName:   livedraw.DefaultConfig().DisplayName,
		PollInterval:  cfg.Draw.PollInterval,
		CacheTTL:      cfg.Draw.CacheTTL,
		MonitorEvents: cfg.Draw.MonitorEvents,
	})); err != nil {
		logger.Fatal().Err(err).Msg("register live-draw endpoint")
	}

	engine := detect.NewEngine(endpointRegistry, logger)

	sinks := []contracts.EventSink{deliver.NewConsoleSink(logger)}
	if cfg.Webhook.Enabled {
		sinks = append(sinks, deliver.NewWebhookSink(deliver.WebhookConfig{
			URL:            cfg.Webhook.URL,
			Secret:         cfg.Webhook.Secret,
			BatchSize:      cfg.Webhook.BatchSize,
			FlushInterval:  cfg.Webhook.FlushInterval,
			MaxAttempts:    cfg.Webhook.MaxAttempts,
			RetryBaseDelay: cfg.Webhook.RetryBaseDelay,
			RetryMaxDelay:  cfg.Webhook.RetryMaxDelay,
			Timeout:        cfg.Webhook.Timeout,
		}, logger))
	}
	pipeline := deliver.NewPipeline(logger, sinks...)

	directory := pubsub.NewDirectory(logger)

	sched := schedule.NewScheduler(
		adapter,
		engine,
		pipeline,
		cacheProvider,
		directory,
		publisher,
		endpointRegistry,
		schedule.BackoffConfig{
			Factor:         cfg.Backoff.Factor,
			MaxMultiplier:  cfg.Backoff.MaxMultiplier,
			ResetOnSuccess: cfg.Backoff.ResetOnSuccess,
		},
		logger,
	)
	directory.BindControl(sched)

	if err := sched.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("start scheduler")
	}

	for _, module := range endpointRegistry.GetAll() {
		logger.Info().
			Str("endpoint", module.GetPath()).
			Str("kind", string(module.GetKind())).
			Dur("interval", module.GetBaseInterval()).
			Bool("events", module.MonitorEvents()).
			Msg("endpoint registered")
	}
	logger.Info().Msg("argus started")

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown)
	defer cancel()

	sched.Stop()
	// Drain any queued webhook batch before exiting.
	pipeline.Close(shutdownCtx)

	logger.Info().Msg("argus stopped")
}
