package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"signalfeed/aggregator"
	"signalfeed/api"
	"signalfeed/cache"
	"signalfeed/config"
	"signalfeed/logging"
	"signalfeed/publish"
	"signalfeed/rssfeeds"
	"signalfeed/sources"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := config.Load()
	logging.Init(cfg.LogLevel)
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	feedCache := initCache(cfg.Redis)
	_, noCache := feedCache.(cache.Nop)
	cacheEnabled := !noCache
	publisher := initPublisher(cfg.Kafka)
	defer publisher.Close()

	fetcher := rssfeeds.NewFetcher(
		rssfeeds.WithTimeout(cfg.FetchTimeout),
		rssfeeds.WithUserAgent(cfg.UserAgent),
		rssfeeds.WithCache(feedCache),
	)
	catalog := sources.Default()
	agg := aggregator.New(fetcher, catalog, cfg.MaxConcurrentFetches)

	r := api.NewRouter(api.Dependencies{
		Aggregator: agg,
		Catalog:    catalog,
		Publisher:  publisher,

		FeedCacheEnabled: cacheEnabled,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Logger.Info("starting API server", "addr", srv.Addr, "categories", len(catalog.Categories()))
		logging.Logger.Info("API endpoints available: GET /api/rss, GET /api/rss/sources, GET /api/health")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Logger.Fatal("server error", "err", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logging.Logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Error("shutdown error", "err", err)
	}
	if closer, ok := feedCache.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}

// initCache returns a Redis feed cache when REDIS_ADDR is set, otherwise a no-op cache
func initCache(cfg config.RedisConfig) cache.FeedCache {
	if !cfg.Enabled() {
		return cache.Nop{}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rc, err := cache.NewRedis(ctx, cfg)
	if err != nil {
		logging.Logger.Warn("redis unavailable, feed caching disabled", "addr", cfg.Addr, "err", err)
		return cache.Nop{}
	}
	logging.Logger.Info("feed cache enabled", "addr", cfg.Addr, "ttl", cfg.TTL)
	return rc
}

// initPublisher returns a Kafka snapshot publisher when KAFKA_BROKERS is set
func initPublisher(cfg config.KafkaConfig) publish.Publisher {
	if !cfg.Enabled() {
		return publish.Nop{}
	}
	p, err := publish.NewKafka(cfg)
	if err != nil {
		logging.Logger.Warn("kafka unavailable, snapshot publishing disabled", "brokers", cfg.Brokers, "err", err)
		return publish.Nop{}
	}
	logging.Logger.Info("snapshot publishing enabled", "topic", cfg.Topic)
	return p
}
