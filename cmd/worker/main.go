package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"text-summarizer/internal/config"
	"text-summarizer/internal/domain/summary"
	"text-summarizer/internal/infra/fetcher"
	"text-summarizer/internal/infra/scraper"
	"text-summarizer/internal/infra/summarizer"
	workerPkg "text-summarizer/internal/infra/worker"
	"text-summarizer/internal/observability/logging"
	"text-summarizer/internal/observability/tracing"
	pkgconfig "text-summarizer/internal/pkg/config"
	sumUC "text-summarizer/internal/usecase/summarize"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	logger := initLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector := pkgconfig.NewCollector(pkgconfig.NewConfigMetrics("worker", nil))
	workerConfig := workerPkg.LoadConfigFromEnv(collector)
	fetchConfig := fetcher.LoadConfigFromEnv(collector)
	collector.Finish("worker")

	logger.Info("worker configuration loaded",
		slog.Int("feeds", len(workerConfig.Feeds)),
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Int("digest_max_concurrent", workerConfig.DigestMaxConcurrent),
		slog.Duration("digest_timeout", workerConfig.DigestTimeout),
		slog.Int("health_port", workerConfig.HealthPort))
	if len(workerConfig.Feeds) == 0 {
		logger.Warn("FEED_URLS is empty, scheduled runs will do nothing")
	}

	shutdownTracing := tracing.Setup("text-summarizer-worker", pkgconfig.LoadEnvBool("TRACING_ENABLED", false).Value, logger)
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("tracer shutdown failed", slog.Any("error", err))
		}
	}()

	svc, feedFetcher := setupDigestService(logger, workerConfig, fetchConfig)
	job := workerPkg.NewDigestJob(svc, workerConfig, workerPkg.NewWorkerMetrics(nil), logger)

	startMetricsServer(ctx, logger, workerConfig.MetricsPort, job, feedFetcher.CircuitBreaker())

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger, job)
	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	startCronWorker(ctx, logger, job, workerConfig, healthServer)
}

// initLogger initializes the structured logger from LOG_LEVEL and LOG_FORMAT.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// setupDigestService wires the summarization service with a feed fetcher and,
// when enabled, an article fetcher for items that only carry an excerpt.
func setupDigestService(
	logger *slog.Logger,
	cfg workerPkg.WorkerConfig,
	fetchConfig fetcher.ContentFetchConfig,
) (*sumUC.Service, *scraper.RSSFetcher) {
	stopwords, err := config.LoadStopwords(os.Getenv("STOPWORDS_FILE"))
	if err != nil {
		logger.Error("failed to load stopwords", slog.Any("error", err))
		os.Exit(1)
	}

	feedFetcher := scraper.NewRSSFetcher(createHTTPClient())

	opts := []sumUC.Option{
		sumUC.WithFeedFetcher(feedFetcher),
		sumUC.WithHTMLExtractor(fetcher.NewHTMLExtractor()),
		sumUC.WithMetrics(summarizer.NewPrometheusSummaryMetrics()),
	}

	if err := fetchConfig.Validate(); err != nil {
		logger.Warn("content fetching disabled due to configuration error", slog.Any("error", err))
		fetchConfig.Enabled = false
	}
	if fetchConfig.Enabled {
		opts = append(opts, sumUC.WithContentFetcher(fetcher.NewReadabilityFetcher(fetchConfig)))
		logger.Info("content fetching enabled",
			slog.Int("threshold", fetchConfig.Threshold),
			slog.Duration("timeout", fetchConfig.Timeout))
	} else {
		logger.Info("content fetching disabled")
	}

	svcCfg := sumUC.DefaultConfig()
	svcCfg.DefaultMode = summary.ModeFrequency
	svcCfg.Language = pkgconfig.LoadEnvString("SUMMARY_LANGUAGE", svcCfg.Language)
	svcCfg.DigestConcurrency = cfg.DigestMaxConcurrent
	svcCfg.FetchThreshold = fetchConfig.Threshold
	if !fetchConfig.Enabled {
		svcCfg.FetchThreshold = 0
	}

	return sumUC.NewService(svcCfg, stopwords, opts...), feedFetcher
}

// createHTTPClient creates an HTTP client with timeouts and connection pooling.
// TLS 1.2+ is enforced for security.
func createHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}

// startCronWorker schedules the digest job and blocks until ctx is done.
// A run still in progress when the next one is due is skipped.
func startCronWorker(
	ctx context.Context,
	logger *slog.Logger,
	job *workerPkg.DigestJob,
	cfg workerPkg.WorkerConfig,
	healthServer *workerPkg.HealthServer,
) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(
			cron.Recover(cron.DiscardLogger),
			cron.SkipIfStillRunning(cron.DiscardLogger),
		),
	)

	if _, err := c.AddFunc(cfg.CronSchedule, func() { job.Run(ctx) }); err != nil {
		logger.Error("failed to schedule digest job", slog.Any("error", err))
		os.Exit(1)
	}

	c.Start()
	healthServer.SetReady(true)
	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", loc.String()))

	if cfg.RunOnStart {
		go job.Run(ctx)
	}

	<-ctx.Done()
	logger.Info("shutting down worker...")
	healthServer.SetReady(false)

	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(cfg.DigestTimeout):
		logger.Warn("digest run did not finish before shutdown")
	}
	logger.Info("worker stopped")
}
