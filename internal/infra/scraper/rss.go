// Package scraper reads RSS, Atom and JSON feeds into feed items.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"text-summarizer/internal/domain/entity"
	"text-summarizer/internal/observability/metrics"
	"text-summarizer/internal/resilience/circuitbreaker"
	"text-summarizer/internal/resilience/retry"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"
)

// RSSFetcher implements summarize.FeedFetcher with gofeed.
// Fetches are retried with backoff and guarded by a circuit breaker.
type RSSFetcher struct {
	client    *http.Client
	breaker   *circuitbreaker.Breaker
	policy    retry.Policy
	userAgent string
}

// Option configures an RSSFetcher.
type Option func(*RSSFetcher)

// WithRetryPolicy replaces the default feed retry policy.
func WithRetryPolicy(p retry.Policy) Option {
	return func(f *RSSFetcher) { f.policy = p }
}

// WithUserAgent sets the User-Agent header sent to feed servers.
func WithUserAgent(ua string) Option {
	return func(f *RSSFetcher) { f.userAgent = ua }
}

// NewRSSFetcher returns a fetcher that uses client for HTTP. A nil client
// gets a 30 second timeout.
func NewRSSFetcher(client *http.Client, opts ...Option) *RSSFetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	f := &RSSFetcher{
		client:    client,
		breaker:   newFeedBreaker(),
		policy:    retry.FeedPolicy(),
		userAgent: "TextSummarizerBot/1.0",
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func newFeedBreaker() *circuitbreaker.Breaker {
	s := circuitbreaker.FeedSettings()
	s.OnTransition = func(name string, to gobreaker.State) {
		metrics.SetCircuitBreakerState(name, int(to))
	}
	return circuitbreaker.New(s)
}

// CircuitBreaker exposes the breaker for health reporting.
func (f *RSSFetcher) CircuitBreaker() *circuitbreaker.Breaker {
	return f.breaker
}

// Fetch downloads and parses the feed at feedURL.
func (f *RSSFetcher) Fetch(ctx context.Context, feedURL string) ([]entity.FeedItem, error) {
	start := time.Now()
	items, err := retry.Do(ctx, f.policy, func(ctx context.Context) ([]entity.FeedItem, error) {
		return circuitbreaker.Call(f.breaker, func() ([]entity.FeedItem, error) {
			return f.doFetch(ctx, feedURL)
		})
	})
	metrics.RecordFeedFetch(err == nil, time.Since(start), len(items))
	if errors.Is(err, circuitbreaker.ErrOpen) {
		slog.WarnContext(ctx, "feed fetch rejected, circuit breaker open",
			slog.String("breaker", f.breaker.Name()),
			slog.String("url", feedURL))
	}
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Parse reads a feed document from r, for feeds stored on disk.
func Parse(r io.Reader) ([]entity.FeedItem, error) {
	feed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return toItems(feed), nil
}

func (f *RSSFetcher) doFetch(ctx context.Context, feedURL string) ([]entity.FeedItem, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = f.userAgent
	fp.Client = f.client

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		// Surface the status so the retry policy can tell 5xx from 4xx.
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return nil, &retry.StatusError{Code: httpErr.StatusCode, Status: httpErr.Status}
		}
		return nil, err
	}

	return toItems(feed), nil
}

func toItems(feed *gofeed.Feed) []entity.FeedItem {
	items := make([]entity.FeedItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		var pubAt time.Time
		switch {
		case it.PublishedParsed != nil:
			pubAt = *it.PublishedParsed
		case it.UpdatedParsed != nil:
			pubAt = *it.UpdatedParsed
		}

		content := it.Content
		if content == "" {
			content = it.Description
		}

		items = append(items, entity.FeedItem{
			Title:       it.Title,
			URL:         it.Link,
			Content:     content,
			PublishedAt: pubAt,
		})
	}
	return items
}
