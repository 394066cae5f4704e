package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fortuna/mystats/internal/api/rest"
	"github.com/fortuna/mystats/internal/cache"
	"github.com/fortuna/mystats/internal/config"
	"github.com/fortuna/mystats/internal/ingest"
	"github.com/fortuna/mystats/internal/scheduler"
	"github.com/fortuna/mystats/internal/store"
)

const (
	serviceName    = "mystats"
	serviceVersion = "1.0.0"

	redisAttempts   = 5
	redisRetryDelay = 2 * time.Second
)

func main() {
	configPath := flag.String("config", "", "Path to TOML config (default $MYSTATS_CONFIG)")
	flag.Parse()

	log.Printf("Starting %s v%s - League Stats Service", serviceName, serviceVersion)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Fetched sheet text is cached in Redis when configured. The service
	// runs without it.
	var redisCache *cache.RedisCache
	var sheetCache ingest.Cache
	var invalidator scheduler.Invalidator
	if cfg.Redis.Enabled {
		if redisCache = connectRedis(cfg); redisCache != nil {
			defer redisCache.Close()
			sheetCache = redisCache
			invalidator = redisCache
		}
	}

	fetcher, closeFetcher := ingest.NewFetcherForMode(cfg.Sources.FetchMode, cfg.Sources.RequestsPerSecond, cfg.FetchTimeout(), sheetCache)
	defer closeFetcher()

	log.Printf("✓ Fetcher ready (mode: %s, %.1f req/s)", cfg.Sources.FetchMode, cfg.Sources.RequestsPerSecond)

	ingester := ingest.NewIngester(fetcher, cfg.Sources)
	st := store.New()

	sched := scheduler.NewOrchestrator(ingester, st, invalidator, &scheduler.Config{
		Interval:   cfg.RefreshInterval(),
		MaxRetries: cfg.Refresh.MaxRetries,
		RetryDelay: cfg.RetryDelay(),
		WatchFiles: cfg.Refresh.WatchFiles,
		WatchPaths: ingest.LocalSources(
			cfg.Sources.Teams,
			cfg.Sources.Players,
			cfg.Sources.Games,
			cfg.Sources.BoxScoreIndex,
		),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sched.Start(ctx)

	log.Println("✓ Scheduler started")

	handler := rest.NewHandler(st, ingester, sched)
	if redisCache != nil {
		handler.WithCache(redisCache)
	}
	restServer := rest.NewServer(cfg.Server.RESTPort, cfg.Server.CORSOrigins, handler)
	go func() {
		log.Printf("Starting REST API server on port %s", cfg.Server.RESTPort)
		if err := restServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("REST server error: %v", err)
		}
	}()

	log.Printf("✓ %s v%s started successfully", serviceName, serviceVersion)
	log.Printf("  REST API: http://0.0.0.0:%s", cfg.Server.RESTPort)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")

	cancel()
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("REST API server shutdown error: %v", err)
	}

	log.Printf("%s stopped", serviceName)
}

// connectRedis retries the connection a few times and returns nil when Redis
// stays unreachable.
func connectRedis(cfg *config.Config) *cache.RedisCache {
	log.Println("Connecting to Redis...")
	for i := 0; i < redisAttempts; i++ {
		redisCache, err := cache.NewRedisCache(cfg.Redis.URL, cfg.RedisTTL())
		if err == nil {
			log.Printf("✓ Connected to Redis (ttl: %v)", cfg.RedisTTL())
			return redisCache
		}

		if i < redisAttempts-1 {
			log.Printf("Redis connection attempt %d/%d failed: %v (retrying in %v)", i+1, redisAttempts, err, redisRetryDelay)
			time.Sleep(redisRetryDelay)
		} else {
			log.Printf("⚠️  Redis unavailable after %d attempts: %v (continuing without cache)", redisAttempts, err)
		}
	}
	return nil
}
