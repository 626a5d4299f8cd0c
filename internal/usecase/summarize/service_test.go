package summarize

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"text-summarizer/internal/domain/summary"
)

// MockMetrics implements MetricsRecorder for testing.
type MockMetrics struct {
	mu        sync.Mutex
	requests  []string
	durations int
	sentences [][2]int

	recordSentencesFn func(total, selected int)
}

func (m *MockMetrics) RecordRequest(mode summary.Mode, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, string(mode)+":"+outcome)
}

func (m *MockMetrics) RecordDuration(summary.Mode, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.durations++
}

func (m *MockMetrics) RecordSentences(total, selected int) {
	if m.recordSentencesFn != nil {
		m.recordSentencesFn(total, selected)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sentences = append(m.sentences, [2]int{total, selected})
}

func (m *MockMetrics) RecordInputLength(int) {}

// MockContentFetcher implements ContentFetcher for testing.
type MockContentFetcher struct {
	fetchFn func(ctx context.Context, url string) (string, error)
	calls   []string
	mu      sync.Mutex
}

func (m *MockContentFetcher) FetchContent(ctx context.Context, url string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, url)
	m.mu.Unlock()
	if m.fetchFn != nil {
		return m.fetchFn(ctx, url)
	}
	return "Fetched article text. It has two sentences.", nil
}

// MockHTMLExtractor implements HTMLExtractor for testing.
type MockHTMLExtractor struct {
	extractFn func(html string) (string, error)
}

func (m *MockHTMLExtractor) ExtractText(html string) (string, error) {
	if m.extractFn != nil {
		return m.extractFn(html)
	}
	return "Extracted text.", nil
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

const cats = "Cats chase mice. Mice flee cats. Dogs chase cats."

func TestNewService_Defaults(t *testing.T) {
	svc := NewService(Config{}, nil)

	cfg := svc.Config()
	assert.Equal(t, 3, cfg.DefaultSentences)
	assert.Equal(t, 50, cfg.MaxSentences)
	assert.Equal(t, summary.ModeFrequency, cfg.DefaultMode)
	assert.Equal(t, "english", cfg.Language)
	assert.Equal(t, 5, cfg.DigestConcurrency)
	assert.Contains(t, svc.Languages(), "english")
}

func TestService_Summarize(t *testing.T) {
	four := "This is sentence one. This is sentence two. This is sentence three. This is sentence four."

	tests := []struct {
		name    string
		input   Input
		want    string
		wantErr error
		check   func(t *testing.T, out *Output)
	}{
		{
			name:    "missing text",
			input:   Input{},
			wantErr: ErrNoText,
		},
		{
			name:    "empty text",
			input:   Input{Text: strPtr("")},
			wantErr: ErrEmptyText,
		},
		{
			name:    "whitespace text",
			input:   Input{Text: strPtr("  \n\t ")},
			wantErr: ErrEmptyText,
		},
		{
			name:    "zero sentence count rejected",
			input:   Input{Text: strPtr(cats), SentenceCount: intPtr(0)},
			wantErr: ErrSentenceCountTooSmall,
		},
		{
			name:    "negative sentence count rejected",
			input:   Input{Text: strPtr(cats), SentenceCount: intPtr(-2)},
			wantErr: ErrSentenceCountTooSmall,
		},
		{
			name:    "sentence count above max rejected",
			input:   Input{Text: strPtr(cats), SentenceCount: intPtr(51)},
			wantErr: ErrSentenceCountTooLarge,
		},
		{
			name:    "unknown mode",
			input:   Input{Text: strPtr(cats), Mode: "abstractive"},
			wantErr: ErrInvalidMode,
		},
		{
			name:    "unknown format",
			input:   Input{Text: strPtr(cats), Format: "pdf"},
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "html without extractor",
			input:   Input{Text: strPtr("<p>Hi.</p>"), Format: "html"},
			wantErr: ErrUnsupportedFormat,
		},
		{
			name:  "default count is three",
			input: Input{Text: strPtr(four), Mode: "truncation"},
			want:  "This is sentence one. This is sentence two. This is sentence three.",
			check: func(t *testing.T, out *Output) {
				assert.Equal(t, 3, out.SentenceCount)
				assert.Equal(t, 4, out.TotalSentences)
				assert.Equal(t, summary.ModeTruncation, out.Mode)
			},
		},
		{
			name:  "frequency mode",
			input: Input{Text: strPtr(cats), SentenceCount: intPtr(2)},
			want:  "Cats chase mice. Mice flee cats.",
		},
		{
			name:  "count above sentences returns everything",
			input: Input{Text: strPtr("hello world"), SentenceCount: intPtr(50)},
			want:  "hello world",
		},
		{
			name:  "unknown language scores without stopwords",
			input: Input{Text: strPtr("The cat. The the dog."), SentenceCount: intPtr(1), Language: "klingon"},
			want:  "The the dog.",
			check: func(t *testing.T, out *Output) {
				assert.Equal(t, "klingon", out.Language)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(Config{}, nil)

			out, err := svc.Summarize(context.Background(), tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, out)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Summary)
			if tt.check != nil {
				tt.check(t, out)
			}
		})
	}
}

func TestService_Summarize_ErrorMessages(t *testing.T) {
	svc := NewService(Config{MaxSentences: 10}, nil)

	_, err := svc.Summarize(context.Background(), Input{})
	assert.EqualError(t, err, "No text provided")

	_, err = svc.Summarize(context.Background(), Input{Text: strPtr(" ")})
	assert.EqualError(t, err, "Text cannot be empty")

	_, err = svc.Summarize(context.Background(), Input{Text: strPtr(cats), SentenceCount: intPtr(11)})
	assert.EqualError(t, err, "sentence_count is too large: must be at most 10")
}

func TestService_Summarize_TextTooLong(t *testing.T) {
	svc := NewService(Config{MaxTextBytes: 10}, nil)

	_, err := svc.Summarize(context.Background(), Input{Text: strPtr("This text is longer than ten bytes.")})
	assert.ErrorIs(t, err, ErrTextTooLong)
}

func TestService_Summarize_HTML(t *testing.T) {
	t.Run("extracted text is summarized", func(t *testing.T) {
		extractor := &MockHTMLExtractor{extractFn: func(html string) (string, error) {
			assert.Equal(t, "<p>One.</p><p>Two.</p>", html)
			return "One. Two.", nil
		}}
		svc := NewService(Config{}, nil, WithHTMLExtractor(extractor))

		out, err := svc.Summarize(context.Background(), Input{
			Text:          strPtr("<p>One.</p><p>Two.</p>"),
			Format:        "html",
			SentenceCount: intPtr(1),
			Mode:          "truncation",
		})
		require.NoError(t, err)
		assert.Equal(t, "One.", out.Summary)
	})

	t.Run("markup without text is empty", func(t *testing.T) {
		extractor := &MockHTMLExtractor{extractFn: func(string) (string, error) { return "  ", nil }}
		svc := NewService(Config{}, nil, WithHTMLExtractor(extractor))

		_, err := svc.Summarize(context.Background(), Input{Text: strPtr("<br>"), Format: "html"})
		assert.ErrorIs(t, err, ErrEmptyText)
	})

	t.Run("extractor failure", func(t *testing.T) {
		extractor := &MockHTMLExtractor{extractFn: func(string) (string, error) { return "", errors.New("boom") }}
		svc := NewService(Config{}, nil, WithHTMLExtractor(extractor))

		_, err := svc.Summarize(context.Background(), Input{Text: strPtr("<p"), Format: "html"})
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})
}

func TestService_Summarize_RecoversPanics(t *testing.T) {
	metrics := &MockMetrics{recordSentencesFn: func(int, int) { panic("scorer exploded") }}
	svc := NewService(Config{}, nil, WithMetrics(metrics))

	out, err := svc.Summarize(context.Background(), Input{Text: strPtr(cats)})

	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, []string{"frequency:error"}, metrics.requests)
}

func TestService_Summarize_RecordsMetrics(t *testing.T) {
	metrics := &MockMetrics{}
	svc := NewService(Config{}, nil, WithMetrics(metrics))

	_, err := svc.Summarize(context.Background(), Input{Text: strPtr(cats), SentenceCount: intPtr(2)})
	require.NoError(t, err)
	_, err = svc.Summarize(context.Background(), Input{Text: strPtr("")})
	require.Error(t, err)

	assert.Equal(t, []string{"frequency:success", "frequency:invalid"}, metrics.requests)
	assert.Equal(t, 1, metrics.durations)
	assert.Equal(t, [][2]int{{3, 2}}, metrics.sentences)
}

func TestService_SummarizeURL(t *testing.T) {
	t.Run("fetched content is summarized", func(t *testing.T) {
		fetcher := &MockContentFetcher{}
		svc := NewService(Config{}, nil, WithContentFetcher(fetcher))

		out, err := svc.SummarizeURL(context.Background(), URLInput{
			URL:           "https://example.com/post",
			SentenceCount: intPtr(1),
			Mode:          "truncation",
		})
		require.NoError(t, err)
		assert.Equal(t, "Fetched article text.", out.Summary)
		assert.Equal(t, "https://example.com/post", out.Source)
		assert.Equal(t, []string{"https://example.com/post"}, fetcher.calls)
	})

	t.Run("missing url", func(t *testing.T) {
		svc := NewService(Config{}, nil, WithContentFetcher(&MockContentFetcher{}))
		_, err := svc.SummarizeURL(context.Background(), URLInput{})
		assert.ErrorIs(t, err, ErrURLRequired)
	})

	t.Run("no fetcher configured", func(t *testing.T) {
		svc := NewService(Config{}, nil)
		_, err := svc.SummarizeURL(context.Background(), URLInput{URL: "https://example.com"})
		assert.ErrorIs(t, err, ErrFetchUnavailable)
	})

	t.Run("fetch failure keeps the cause", func(t *testing.T) {
		fetcher := &MockContentFetcher{fetchFn: func(context.Context, string) (string, error) {
			return "", fmt.Errorf("validate: %w", ErrPrivateIP)
		}}
		svc := NewService(Config{}, nil, WithContentFetcher(fetcher))

		_, err := svc.SummarizeURL(context.Background(), URLInput{URL: "http://10.0.0.1"})
		assert.ErrorIs(t, err, ErrFetchFailed)
		assert.ErrorIs(t, err, ErrPrivateIP)
		assert.True(t, IsClientFetchError(err))
	})

	t.Run("page without text", func(t *testing.T) {
		fetcher := &MockContentFetcher{fetchFn: func(context.Context, string) (string, error) { return "", nil }}
		svc := NewService(Config{}, nil, WithContentFetcher(fetcher))

		_, err := svc.SummarizeURL(context.Background(), URLInput{URL: "https://example.com"})
		assert.ErrorIs(t, err, ErrEmptyText)
	})

	t.Run("oversized content is truncated", func(t *testing.T) {
		fetcher := &MockContentFetcher{fetchFn: func(context.Context, string) (string, error) {
			return "Short one. Then a much longer second sentence follows here.", nil
		}}
		svc := NewService(Config{MaxTextBytes: 12}, nil, WithContentFetcher(fetcher))

		out, err := svc.SummarizeURL(context.Background(), URLInput{URL: "https://example.com"})
		require.NoError(t, err)
		assert.Equal(t, "Short one. T", out.Summary)
	})
}

func TestTruncateUTF8(t *testing.T) {
	assert.Equal(t, "abc", truncateUTF8("abc", 10))
	assert.Equal(t, "ab", truncateUTF8("abc", 2))
	assert.Equal(t, "a", truncateUTF8("aé", 2))
	assert.Equal(t, "aé", truncateUTF8("aé", 3))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "TEXT": FormatText, "plain": FormatText, "html": FormatHTML} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("markdown")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
