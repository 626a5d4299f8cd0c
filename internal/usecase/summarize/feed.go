package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"text-summarizer/internal/domain/entity"
	"text-summarizer/internal/observability/logging"
	"text-summarizer/internal/observability/metrics"
	"text-summarizer/internal/observability/tracing"
)

// DigestInput is a request to summarize every item of a feed.
type DigestInput struct {
	Feed          entity.Feed
	SentenceCount *int
	Mode          string
	Language      string
	// MaxItems limits how many of the newest items are processed; 0 means all.
	MaxItems int
}

// DigestFeed fetches a feed and summarizes its items concurrently, at most
// Config.DigestConcurrency at a time. Items that cannot be summarized are
// reported in the digest with Error set; only feed-level failures and
// cancellation are returned as errors.
func (s *Service) DigestFeed(ctx context.Context, in DigestInput) (*entity.Digest, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "summarize.DigestFeed")
	defer span.End()
	span.SetAttributes(attribute.String("feed.url", in.Feed.URL))

	logger := logging.FromContext(ctx).With(slog.String("feed", in.Feed.Name))

	if s.feeds == nil {
		return nil, ErrFeedUnavailable
	}
	opts, err := s.resolve(in.SentenceCount, in.Mode, in.Language)
	if err != nil {
		return nil, err
	}

	items, err := s.feeds.Fetch(ctx, in.Feed.URL)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	if in.MaxItems > 0 && len(items) > in.MaxItems {
		items = items[:in.MaxItems]
	}

	results := make([]entity.ItemSummary, len(items))
	var failed atomic.Int64

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.cfg.DigestConcurrency)
	for i, item := range items {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			results[i] = s.summarizeItem(egCtx, item, opts)
			if results[i].Error != "" {
				failed.Add(1)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	digest := &entity.Digest{
		Feed:        in.Feed,
		GeneratedAt: time.Now().UTC(),
		Items:       results,
		Failed:      int(failed.Load()),
	}
	span.SetAttributes(
		attribute.Int("feed.items", len(results)),
		attribute.Int("feed.failed", digest.Failed),
	)
	logger.InfoContext(ctx, "feed digested",
		slog.Int("items", len(results)),
		slog.Int("failed", digest.Failed))
	return digest, nil
}

func (s *Service) summarizeItem(ctx context.Context, item entity.FeedItem, opts options) entity.ItemSummary {
	out := entity.ItemSummary{
		Title:       item.Title,
		URL:         item.URL,
		PublishedAt: item.PublishedAt,
	}

	text := s.itemText(ctx, item)
	if strings.TrimSpace(text) == "" {
		out.Error = ErrEmptyText.Error()
		return out
	}
	if s.cfg.MaxTextBytes > 0 {
		text = truncateUTF8(text, s.cfg.MaxTextBytes)
	}

	res, err := s.run(ctx, text, opts, item.URL)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Summary = res.Summary
	out.TotalSentences = res.TotalSentences
	return out
}

// itemText returns the best available text for a feed item: the feed
// content with markup removed, or the fetched article when the feed only
// carries a short excerpt. Fetch failures fall back to the feed content.
func (s *Service) itemText(ctx context.Context, item entity.FeedItem) string {
	text := item.Content
	if s.html != nil && looksLikeHTML(text) {
		if extracted, err := s.html.ExtractText(text); err == nil {
			text = extracted
		}
	}

	if s.fetcher == nil || item.URL == "" {
		return text
	}
	if utf8.RuneCountInString(text) >= s.cfg.FetchThreshold {
		metrics.RecordContentFetchSkipped()
		return text
	}

	fetched, err := s.fetcher.FetchContent(ctx, item.URL)
	if err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "article fetch failed, using feed content",
			slog.String("url", item.URL),
			slog.Any("error", err))
		return text
	}
	if utf8.RuneCountInString(fetched) > utf8.RuneCountInString(text) {
		return fetched
	}
	return text
}

func looksLikeHTML(s string) bool {
	i := strings.IndexByte(s, '<')
	return i >= 0 && strings.IndexByte(s[i:], '>') > 0
}
