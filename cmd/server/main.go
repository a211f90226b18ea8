package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/keshavjha123/paragraph-analytics/internal/analytics"
	"github.com/keshavjha123/paragraph-analytics/internal/dictionary"
	"github.com/keshavjha123/paragraph-analytics/internal/frequency"
	"github.com/keshavjha123/paragraph-analytics/internal/httpapi"
	"github.com/keshavjha123/paragraph-analytics/internal/ingest"
	"github.com/keshavjha123/paragraph-analytics/internal/paragraph"
	"github.com/keshavjha123/paragraph-analytics/internal/search"
	"github.com/keshavjha123/paragraph-analytics/pkg/config"
	"github.com/keshavjha123/paragraph-analytics/pkg/health"
	"github.com/keshavjha123/paragraph-analytics/pkg/kafka"
	"github.com/keshavjha123/paragraph-analytics/pkg/logger"
	"github.com/keshavjha123/paragraph-analytics/pkg/metrics"
	"github.com/keshavjha123/paragraph-analytics/pkg/middleware"
	"github.com/keshavjha123/paragraph-analytics/pkg/postgres"
	pkgredis "github.com/keshavjha123/paragraph-analytics/pkg/redis"
	"github.com/keshavjha123/paragraph-analytics/pkg/resilience"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting paragraph analytics service", "port", cfg.Server.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *postgres.Client
	err = resilience.Retry(ctx, "postgres connect", resilience.RetryConfig{MaxAttempts: 5, InitialDelay: time.Second}, func() error {
		var connErr error
		db, connErr = postgres.New(cfg.Postgres)
		return connErr
	})
	if err != nil {
		slog.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		slog.Error("failed to apply schema", "error", err)
		os.Exit(1)
	}
	slog.Info("postgres ready", "host", cfg.Postgres.Host, "database", cfg.Postgres.Database)

	store := paragraph.NewPostgresStore(db)

	var searchCache *search.Cache
	var redisClient *pkgredis.Client
	redisClient, err = pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, search caching disabled", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
		searchCache = search.NewCache(redisClient, cfg.Redis.CacheTTL)
		slog.Info("search cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
	}

	producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.AnalyticsTopic)
	defer producer.Close()
	collector := analytics.NewCollector(producer, 10000)
	collector.Start(ctx)
	defer collector.Close()

	aggregator := analytics.NewAggregator()
	consumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.AnalyticsTopic, analytics.HandleEvent(aggregator))
	aggregator.Attach(consumer)
	go func() {
		if err := aggregator.Start(ctx); err != nil {
			slog.Error("analytics aggregator error", "error", err)
		}
	}()
	slog.Info("analytics pipeline started", "topic", cfg.Kafka.AnalyticsTopic)

	fetcher := ingest.NewFetcher(cfg.Fetcher)
	dictClient := dictionary.NewClient(cfg.Dictionary)
	freqAgg := frequency.New(cfg.Analysis.StopWords, dictClient, cfg.Dictionary.LookupConcurrency)

	var invalidator ingest.CacheInvalidator
	if searchCache != nil {
		invalidator = searchCache
	}
	ingestSvc := ingest.NewService(fetcher, store, invalidator)
	searchSvc := search.NewService(store, searchCache)

	var m *metrics.Metrics
	var metricsShutdown func(context.Context) error
	if cfg.Metrics.Enabled {
		m = metrics.New()
		metricsShutdown = metrics.StartServer(cfg.Metrics.Port)
	}

	checker := health.NewChecker()
	checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
		if err := db.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusUnhealthy, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusHealthy}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusHealthy}
	})

	h := httpapi.New(searchSvc, ingestSvc, store, freqAgg, collector, m,
		cfg.Analysis.DefaultLimit, cfg.Analysis.MaxLimit)
	analyticsH := analytics.NewHandler(aggregator)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("POST /fetch", h.Fetch)
	mux.HandleFunc("POST /search", h.Search)
	mux.HandleFunc("GET /dictionary", h.Dictionary)
	mux.HandleFunc("GET /stats", analyticsH.Stats)
	mux.HandleFunc("GET /health", checker.Handler())

	var chain http.Handler = mux
	if m != nil {
		chain = middleware.Metrics(m)(chain)
	}
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
		if metricsShutdown != nil {
			if err := metricsShutdown(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown error", "error", err)
			}
		}
	}()

	slog.Info("paragraph analytics service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("paragraph analytics service stopped")
}
