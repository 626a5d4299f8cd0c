package worker

import (
	"errors"
	"fmt"
	"time"

	"text-summarizer/internal/domain/entity"
	"text-summarizer/internal/pkg/config"
)

// WorkerConfig controls the scheduled feed digest worker.
type WorkerConfig struct {
	// Feeds are digested on every run. Entries come from FEED_URLS as
	// comma separated "name=url" pairs or bare URLs.
	Feeds []entity.Feed

	// CronSchedule is a standard 5-field cron expression. Default: "0 * * * *"
	CronSchedule string

	// Timezone is the IANA zone the schedule is evaluated in. Default: UTC
	Timezone string

	// DigestTimeout bounds one run over all feeds. Default: 10 minutes
	DigestTimeout time.Duration

	// DigestMaxConcurrent bounds parallel item summarization per feed (1-50).
	// Default: 5
	DigestMaxConcurrent int

	// SentenceCount is the summary length for every item. Default: 3
	SentenceCount int

	// MaxItems limits the newest items digested per feed; 0 means all.
	// Default: 20
	MaxItems int

	// RunOnStart triggers one run immediately after startup.
	RunOnStart bool

	// HealthPort serves /health and /health/ready (1024-65535). Default: 9091
	HealthPort int

	// MetricsPort serves /metrics and /health/feeds (1024-65535). Default: 9090
	MetricsPort int
}

// DefaultConfig returns the worker defaults: hourly digests in UTC.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:        "0 * * * *",
		Timezone:            "UTC",
		DigestTimeout:       10 * time.Minute,
		DigestMaxConcurrent: 5,
		SentenceCount:       3,
		MaxItems:            20,
		HealthPort:          9091,
		MetricsPort:         9090,
	}
}

// Validate checks every field and reports all problems together.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateIntRange(c.DigestMaxConcurrent, 1, 50); err != nil {
		errs = append(errs, fmt.Errorf("digest max concurrent: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.DigestTimeout); err != nil {
		errs = append(errs, fmt.Errorf("digest timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.SentenceCount, 1, 50); err != nil {
		errs = append(errs, fmt.Errorf("sentence count: %w", err))
	}
	if c.MaxItems < 0 {
		errs = append(errs, fmt.Errorf("max items: must be non-negative, got %d", c.MaxItems))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if err := config.ValidateIntRange(c.MetricsPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("metrics port: %w", err))
	}
	if c.HealthPort == c.MetricsPort {
		errs = append(errs, fmt.Errorf("health port and metrics port must differ"))
	}

	return errors.Join(errs...)
}

// LoadConfigFromEnv loads the worker configuration. Invalid values fall back
// to their defaults and are recorded on c; the result is always usable.
// Feed entries that do not parse are skipped with a warning.
//
// Environment variables:
//   - FEED_URLS
//   - CRON_SCHEDULE, WORKER_TIMEZONE
//   - DIGEST_TIMEOUT (1m-4h), DIGEST_MAX_CONCURRENT (1-50)
//   - DIGEST_SENTENCES (1-50), DIGEST_MAX_ITEMS
//   - DIGEST_RUN_ON_START
//   - WORKER_HEALTH_PORT, METRICS_PORT
func LoadConfigFromEnv(c *config.Collector) WorkerConfig {
	cfg := DefaultConfig()

	for _, ref := range config.LoadEnvList("FEED_URLS", nil) {
		feed, err := entity.ParseFeed(ref)
		if err != nil {
			c.Warn("feed_urls", fmt.Sprintf("FEED_URLS entry %q skipped: %v", ref, err))
			continue
		}
		cfg.Feeds = append(cfg.Feeds, feed)
	}

	cfg.CronSchedule = c.String("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.Timezone = c.String("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.DigestTimeout = c.Duration("DIGEST_TIMEOUT", cfg.DigestTimeout, config.DurationRange(time.Minute, 4*time.Hour))
	cfg.DigestMaxConcurrent = c.Int("DIGEST_MAX_CONCURRENT", cfg.DigestMaxConcurrent, config.IntRange(1, 50))
	cfg.SentenceCount = c.Int("DIGEST_SENTENCES", cfg.SentenceCount, config.IntRange(1, 50))
	cfg.MaxItems = c.Int("DIGEST_MAX_ITEMS", cfg.MaxItems, config.IntRange(0, 1000))
	cfg.RunOnStart = c.Bool("DIGEST_RUN_ON_START", cfg.RunOnStart)
	cfg.HealthPort = c.Int("WORKER_HEALTH_PORT", cfg.HealthPort, config.IntRange(1024, 65535))
	cfg.MetricsPort = c.Int("METRICS_PORT", cfg.MetricsPort, config.IntRange(1024, 65535))

	if cfg.HealthPort == cfg.MetricsPort {
		c.Warn("metrics_port", fmt.Sprintf("METRICS_PORT equals WORKER_HEALTH_PORT (%d), using %d",
			cfg.HealthPort, DefaultConfig().MetricsPort))
		cfg.MetricsPort = DefaultConfig().MetricsPort
		if cfg.MetricsPort == cfg.HealthPort {
			cfg.MetricsPort = DefaultConfig().HealthPort
		}
	}

	return cfg
}
