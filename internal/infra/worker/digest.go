// Package worker runs scheduled feed digests: configuration, the digest
// job itself, its metrics and the health endpoints of the worker process.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"text-summarizer/internal/domain/entity"
	"text-summarizer/internal/observability/logging"
	sumUC "text-summarizer/internal/usecase/summarize"
)

// Run statuses.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailure = "failure"
)

// Digester summarizes the items of one feed.
type Digester interface {
	DigestFeed(ctx context.Context, in sumUC.DigestInput) (*entity.Digest, error)
}

// FeedReport is the outcome of one feed in a run.
type FeedReport struct {
	Feed   string `json:"feed"`
	Items  int    `json:"items"`
	Failed int    `json:"failed_items"`
	Error  string `json:"error,omitempty"`
}

// RunReport summarizes one run over all configured feeds.
type RunReport struct {
	Status     string        `json:"status"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration_ns"`
	Feeds      []FeedReport  `json:"feeds"`
	FailedFeed int           `json:"failed_feeds"`
}

// DigestJob digests every configured feed and logs each item summary.
type DigestJob struct {
	svc     Digester
	cfg     WorkerConfig
	metrics *WorkerMetrics
	logger  *slog.Logger

	mu   sync.RWMutex
	last *RunReport
}

// NewDigestJob returns a job over cfg.Feeds. metrics may be nil.
func NewDigestJob(svc Digester, cfg WorkerConfig, metrics *WorkerMetrics, logger *slog.Logger) *DigestJob {
	return &DigestJob{svc: svc, cfg: cfg, metrics: metrics, logger: logger}
}

// Run digests the feeds one after another within DigestTimeout. A feed that
// fails does not stop the run.
func (j *DigestJob) Run(ctx context.Context) RunReport {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, j.cfg.DigestTimeout)
	defer cancel()
	ctx = logging.WithLogger(ctx, j.logger)

	j.logger.Info("digest run started", slog.Int("feeds", len(j.cfg.Feeds)))

	count := j.cfg.SentenceCount
	report := RunReport{StartedAt: start.UTC(), Feeds: make([]FeedReport, 0, len(j.cfg.Feeds))}

	for _, feed := range j.cfg.Feeds {
		fr := FeedReport{Feed: feed.Name}

		digest, err := j.svc.DigestFeed(ctx, sumUC.DigestInput{
			Feed:          feed,
			SentenceCount: &count,
			MaxItems:      j.cfg.MaxItems,
		})
		if err != nil {
			fr.Error = err.Error()
			report.FailedFeed++
			j.logger.Warn("feed digest failed",
				slog.String("feed", feed.Name),
				slog.String("url", feed.URL),
				slog.Any("error", err))
			if j.metrics != nil {
				j.metrics.RecordFeed(false, 0, 0)
			}
		} else {
			fr.Items = len(digest.Items)
			fr.Failed = digest.Failed
			j.logDigest(digest)
			if j.metrics != nil {
				j.metrics.RecordFeed(true, fr.Items, fr.Failed)
			}
		}
		report.Feeds = append(report.Feeds, fr)

		if ctx.Err() != nil {
			break
		}
	}

	report.Duration = time.Since(start)
	switch {
	case len(j.cfg.Feeds) > 0 && report.FailedFeed == len(j.cfg.Feeds):
		report.Status = StatusFailure
	case report.FailedFeed > 0 || len(report.Feeds) < len(j.cfg.Feeds):
		report.Status = StatusPartial
	default:
		report.Status = StatusSuccess
	}

	if j.metrics != nil {
		j.metrics.RecordRun(report.Status, report.Duration.Seconds())
	}
	j.mu.Lock()
	j.last = &report
	j.mu.Unlock()

	j.logger.Info("digest run completed",
		slog.String("status", report.Status),
		slog.Int("feeds", len(report.Feeds)),
		slog.Int("failed_feeds", report.FailedFeed),
		slog.Duration("duration", report.Duration))
	return report
}

func (j *DigestJob) logDigest(d *entity.Digest) {
	for _, item := range d.Items {
		if item.Error != "" {
			j.logger.Warn("item not summarized",
				slog.String("feed", d.Feed.Name),
				slog.String("title", item.Title),
				slog.String("url", item.URL),
				slog.String("error", item.Error))
			continue
		}
		j.logger.Info("item summarized",
			slog.String("feed", d.Feed.Name),
			slog.String("title", item.Title),
			slog.String("url", item.URL),
			slog.Time("published_at", item.PublishedAt),
			slog.String("summary", item.Summary),
			slog.Int("total_sentences", item.TotalSentences))
	}
}

// LastReport returns the most recent run, if any.
func (j *DigestJob) LastReport() (RunReport, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.last == nil {
		return RunReport{}, false
	}
	return *j.last, true
}
