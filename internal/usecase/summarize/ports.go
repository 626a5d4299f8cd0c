package summarize

import (
	"context"
	"time"

	"text-summarizer/internal/domain/entity"
	"text-summarizer/internal/domain/summary"
)

// FeedFetcher reads the items of an RSS or Atom feed.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]entity.FeedItem, error)
}

// HTMLExtractor converts an HTML document or fragment to plain text.
type HTMLExtractor interface {
	ExtractText(html string) (string, error)
}

// MetricsRecorder receives summarization measurements.
type MetricsRecorder interface {
	// RecordRequest counts a summarization attempt by mode and outcome
	// ("success", "invalid", "error").
	RecordRequest(mode summary.Mode, outcome string)

	// RecordDuration records time spent in the summarizer.
	RecordDuration(mode summary.Mode, d time.Duration)

	// RecordSentences records the input sentence count and how many were kept.
	RecordSentences(total, selected int)

	// RecordInputLength records the input size in runes.
	RecordInputLength(runes int)
}

type noopMetrics struct{}

func (noopMetrics) RecordRequest(summary.Mode, string)        {}
func (noopMetrics) RecordDuration(summary.Mode, time.Duration) {}
func (noopMetrics) RecordSentences(int, int)                   {}
func (noopMetrics) RecordInputLength(int)                      {}
