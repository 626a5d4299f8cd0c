package summarize

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"text-summarizer/internal/domain/entity"
)

// MockFeedFetcher implements FeedFetcher for testing.
type MockFeedFetcher struct {
	fetchFn func(ctx context.Context, url string) ([]entity.FeedItem, error)
}

func (m *MockFeedFetcher) Fetch(ctx context.Context, url string) ([]entity.FeedItem, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, url)
	}
	return nil, nil
}

func feedOf(items ...entity.FeedItem) *MockFeedFetcher {
	return &MockFeedFetcher{fetchFn: func(context.Context, string) ([]entity.FeedItem, error) {
		return items, nil
	}}
}

var testFeed = entity.Feed{Name: "example", URL: "https://example.com/feed.xml"}

func TestService_DigestFeed(t *testing.T) {
	published := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	feeds := feedOf(
		entity.FeedItem{Title: "Cats", URL: "https://example.com/cats", Content: cats, PublishedAt: published},
		entity.FeedItem{Title: "Empty", URL: "https://example.com/empty", Content: "   "},
		entity.FeedItem{Title: "Short", URL: "https://example.com/short", Content: "Only one sentence here."},
	)
	svc := NewService(Config{}, nil, WithFeedFetcher(feeds))

	digest, err := svc.DigestFeed(context.Background(), DigestInput{Feed: testFeed, SentenceCount: intPtr(2)})
	require.NoError(t, err)

	assert.Equal(t, testFeed, digest.Feed)
	assert.False(t, digest.GeneratedAt.IsZero())
	require.Len(t, digest.Items, 3)
	assert.Equal(t, 1, digest.Failed)

	assert.Equal(t, entity.ItemSummary{
		Title:          "Cats",
		URL:            "https://example.com/cats",
		PublishedAt:    published,
		Summary:        "Cats chase mice. Mice flee cats.",
		TotalSentences: 3,
	}, digest.Items[0])
	assert.Equal(t, "Text cannot be empty", digest.Items[1].Error)
	assert.Equal(t, "Only one sentence here.", digest.Items[2].Summary)
}

func TestService_DigestFeed_MaxItems(t *testing.T) {
	feeds := feedOf(
		entity.FeedItem{Title: "1", Content: "One."},
		entity.FeedItem{Title: "2", Content: "Two."},
		entity.FeedItem{Title: "3", Content: "Three."},
	)
	svc := NewService(Config{}, nil, WithFeedFetcher(feeds))

	digest, err := svc.DigestFeed(context.Background(), DigestInput{Feed: testFeed, MaxItems: 2})
	require.NoError(t, err)
	require.Len(t, digest.Items, 2)
	assert.Equal(t, "One.", digest.Items[0].Summary)
	assert.Equal(t, "Two.", digest.Items[1].Summary)
}

func TestService_DigestFeed_TruncatesLongItems(t *testing.T) {
	feeds := feedOf(entity.FeedItem{
		Title:   "Long",
		Content: "Short one. Then a much longer second sentence follows here.",
	})
	svc := NewService(Config{MaxTextBytes: 12}, nil, WithFeedFetcher(feeds))

	digest, err := svc.DigestFeed(context.Background(), DigestInput{Feed: testFeed})
	require.NoError(t, err)
	require.Len(t, digest.Items, 1)
	assert.Empty(t, digest.Items[0].Error)
	assert.Equal(t, "Short one. T", digest.Items[0].Summary)
	assert.Equal(t, 2, digest.Items[0].TotalSentences)
}

func TestService_DigestFeed_StripsHTMLAndFetchesShortItems(t *testing.T) {
	feeds := feedOf(
		entity.FeedItem{Title: "html", URL: "https://example.com/a", Content: "<p>Teaser text.</p>"},
		entity.FeedItem{Title: "long", URL: "https://example.com/b", Content: strings.Repeat("Long body sentence. ", 100)},
	)
	extractor := &MockHTMLExtractor{extractFn: func(html string) (string, error) {
		return strings.NewReplacer("<p>", "", "</p>", "").Replace(html), nil
	}}
	fetcher := &MockContentFetcher{}
	svc := NewService(Config{FetchThreshold: 100}, nil,
		WithFeedFetcher(feeds), WithHTMLExtractor(extractor), WithContentFetcher(fetcher))

	digest, err := svc.DigestFeed(context.Background(), DigestInput{Feed: testFeed, SentenceCount: intPtr(1), Mode: "truncation"})
	require.NoError(t, err)

	assert.Equal(t, "Fetched article text.", digest.Items[0].Summary)
	assert.Equal(t, "Long body sentence.", digest.Items[1].Summary)
	assert.Equal(t, []string{"https://example.com/a"}, fetcher.calls)
}

func TestService_DigestFeed_FetchFailureFallsBack(t *testing.T) {
	feeds := feedOf(entity.FeedItem{Title: "t", URL: "https://example.com/a", Content: "Feed excerpt."})
	fetcher := &MockContentFetcher{fetchFn: func(context.Context, string) (string, error) {
		return "", ErrTimeout
	}}
	svc := NewService(Config{FetchThreshold: 1000}, nil, WithFeedFetcher(feeds), WithContentFetcher(fetcher))

	digest, err := svc.DigestFeed(context.Background(), DigestInput{Feed: testFeed})
	require.NoError(t, err)
	assert.Equal(t, "Feed excerpt.", digest.Items[0].Summary)
	assert.Zero(t, digest.Failed)
}

func TestService_DigestFeed_Errors(t *testing.T) {
	t.Run("no feed fetcher", func(t *testing.T) {
		_, err := NewService(Config{}, nil).DigestFeed(context.Background(), DigestInput{Feed: testFeed})
		assert.ErrorIs(t, err, ErrFeedUnavailable)
	})

	t.Run("feed fetch fails", func(t *testing.T) {
		cause := errors.New("status 503")
		feeds := &MockFeedFetcher{fetchFn: func(context.Context, string) ([]entity.FeedItem, error) { return nil, cause }}
		_, err := NewService(Config{}, nil, WithFeedFetcher(feeds)).DigestFeed(context.Background(), DigestInput{Feed: testFeed})
		assert.ErrorIs(t, err, ErrFetchFailed)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("invalid options", func(t *testing.T) {
		_, err := NewService(Config{}, nil, WithFeedFetcher(feedOf())).DigestFeed(context.Background(),
			DigestInput{Feed: testFeed, SentenceCount: intPtr(0)})
		assert.ErrorIs(t, err, ErrSentenceCountTooSmall)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		items := make([]entity.FeedItem, 20)
		for i := range items {
			items[i] = entity.FeedItem{Content: "Text."}
		}
		svc := NewService(Config{DigestConcurrency: 1}, nil, WithFeedFetcher(feedOf(items...)))

		_, err := svc.DigestFeed(ctx, DigestInput{Feed: testFeed})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestService_DigestFeed_BoundsConcurrency(t *testing.T) {
	items := make([]entity.FeedItem, 12)
	for i := range items {
		items[i] = entity.FeedItem{URL: "https://example.com/x", Content: "Tiny."}
	}

	var inFlight, peak atomic.Int32
	fetcher := &MockContentFetcher{fetchFn: func(context.Context, string) (string, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return "", errors.New("unavailable")
	}}
	svc := NewService(Config{DigestConcurrency: 3, FetchThreshold: 100}, nil,
		WithFeedFetcher(feedOf(items...)), WithContentFetcher(fetcher))

	_, err := svc.DigestFeed(context.Background(), DigestInput{Feed: testFeed})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestLooksLikeHTML(t *testing.T) {
	assert.True(t, looksLikeHTML("<p>x</p>"))
	assert.True(t, looksLikeHTML("text <b>bold</b>"))
	assert.False(t, looksLikeHTML("a < b"))
	assert.False(t, looksLikeHTML("plain"))
}
