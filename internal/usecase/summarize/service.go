package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"text-summarizer/internal/domain/summary"
	"text-summarizer/internal/observability/logging"
	"text-summarizer/internal/observability/tracing"
)

// Format describes how request text is encoded.
type Format string

const (
	// FormatText is plain text and is summarized as is.
	FormatText Format = "text"
	// FormatHTML is converted to text by the configured HTMLExtractor first.
	FormatHTML Format = "html"
)

// ParseFormat resolves a user supplied format; the empty string means text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "plain":
		return FormatText, nil
	case "html":
		return FormatHTML, nil
	default:
		return "", ErrInvalidFormat
	}
}

// Config holds request defaults and limits for the Service.
type Config struct {
	// DefaultSentences is used when a request does not specify a count.
	DefaultSentences int
	// MaxSentences is the largest count a request may ask for.
	MaxSentences int
	// DefaultMode is used when a request does not specify a mode.
	DefaultMode summary.Mode
	// Language selects the stopword list when a request does not name one.
	Language string
	// MaxTextBytes bounds the accepted input. Zero disables the check.
	MaxTextBytes int
	// DigestConcurrency bounds parallel item processing in DigestFeed.
	DigestConcurrency int
	// FetchThreshold is the feed content length (in runes) below which the
	// full article is fetched from the item URL, if a ContentFetcher is set.
	// Zero disables fetching.
	FetchThreshold int
}

// DefaultConfig returns the limits used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		DefaultSentences:  summary.DefaultSentenceCount,
		MaxSentences:      50,
		DefaultMode:       summary.ModeFrequency,
		Language:          summary.DefaultLanguage,
		MaxTextBytes:      1 << 20,
		DigestConcurrency: 5,
		FetchThreshold:    1500,
	}
}

// Input is a text summarization request. Nil pointers mean "not supplied".
type Input struct {
	Text          *string
	SentenceCount *int
	Mode          string
	Language      string
	Format        string
}

// URLInput is a request to summarize the article at URL.
type URLInput struct {
	URL           string
	SentenceCount *int
	Mode          string
	Language      string
}

// Output is a completed summarization.
type Output struct {
	Summary        string
	SentenceCount  int
	TotalSentences int
	Mode           summary.Mode
	Language       string
	Source         string
}

// options are the resolved per-request settings.
type options struct {
	count    int
	mode     summary.Mode
	language string
}

// Service runs summarization requests.
type Service struct {
	cfg       Config
	stopwords *summary.StopwordRegistry
	fetcher   ContentFetcher
	feeds     FeedFetcher
	html      HTMLExtractor
	metrics   MetricsRecorder
}

// Option configures optional Service collaborators.
type Option func(*Service)

// WithContentFetcher enables URL summarization and full-article fetches in digests.
func WithContentFetcher(f ContentFetcher) Option {
	return func(s *Service) { s.fetcher = f }
}

// WithFeedFetcher enables DigestFeed.
func WithFeedFetcher(f FeedFetcher) Option {
	return func(s *Service) { s.feeds = f }
}

// WithHTMLExtractor enables the html input format.
func WithHTMLExtractor(e HTMLExtractor) Option {
	return func(s *Service) { s.html = e }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates a Service. Zero-valued fields of cfg take the values
// from DefaultConfig, and a nil registry means the built-in stopwords.
func NewService(cfg Config, stopwords *summary.StopwordRegistry, opts ...Option) *Service {
	def := DefaultConfig()
	if cfg.DefaultSentences <= 0 {
		cfg.DefaultSentences = def.DefaultSentences
	}
	if cfg.MaxSentences <= 0 {
		cfg.MaxSentences = def.MaxSentences
	}
	if cfg.DefaultMode == "" {
		cfg.DefaultMode = def.DefaultMode
	}
	if cfg.Language == "" {
		cfg.Language = def.Language
	}
	if cfg.DigestConcurrency <= 0 {
		cfg.DigestConcurrency = def.DigestConcurrency
	}
	if stopwords == nil {
		stopwords = summary.DefaultStopwords()
	}

	s := &Service{
		cfg:       cfg,
		stopwords: stopwords,
		metrics:   noopMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the effective configuration.
func (s *Service) Config() Config {
	return s.cfg
}

// Languages returns the languages with a stopword list.
func (s *Service) Languages() []string {
	return s.stopwords.Languages()
}

// Summarize validates in and returns its summary.
//
// Errors:
//   - ErrNoText, ErrEmptyText, ErrTextTooLong: problems with the text
//   - ErrSentenceCountTooSmall, ErrSentenceCountTooLarge, ErrInvalidMode,
//     ErrInvalidFormat, ErrUnsupportedFormat: invalid options
//   - ErrInternal: the summarizer failed unexpectedly
func (s *Service) Summarize(ctx context.Context, in Input) (*Output, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "summarize.Summarize")
	defer span.End()

	logger := logging.FromContext(ctx)

	if in.Text == nil {
		return nil, s.reject(ctx, s.cfg.DefaultMode, ErrNoText)
	}
	text := *in.Text
	if strings.TrimSpace(text) == "" {
		return nil, s.reject(ctx, s.cfg.DefaultMode, ErrEmptyText)
	}
	if s.cfg.MaxTextBytes > 0 && len(text) > s.cfg.MaxTextBytes {
		return nil, s.reject(ctx, s.cfg.DefaultMode,
			fmt.Errorf("%w: limit is %d bytes", ErrTextTooLong, s.cfg.MaxTextBytes))
	}

	opts, err := s.resolve(in.SentenceCount, in.Mode, in.Language)
	if err != nil {
		return nil, s.reject(ctx, s.cfg.DefaultMode, err)
	}

	format, err := ParseFormat(in.Format)
	if err != nil {
		return nil, s.reject(ctx, opts.mode, err)
	}
	if format == FormatHTML {
		if s.html == nil {
			return nil, s.reject(ctx, opts.mode, ErrUnsupportedFormat)
		}
		text, err = s.html.ExtractText(text)
		if err != nil {
			logger.WarnContext(ctx, "html extraction failed", slog.Any("error", err))
			return nil, s.reject(ctx, opts.mode, fmt.Errorf("%w: html could not be parsed", ErrInvalidFormat))
		}
		if strings.TrimSpace(text) == "" {
			return nil, s.reject(ctx, opts.mode, ErrEmptyText)
		}
	}

	return s.run(ctx, text, opts, "")
}

// SummarizeURL fetches the article at in.URL and summarizes its text.
// Fetch and extraction failures are wrapped in ErrFetchFailed.
func (s *Service) SummarizeURL(ctx context.Context, in URLInput) (*Output, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "summarize.SummarizeURL")
	defer span.End()
	span.SetAttributes(attribute.String("summary.source_url", in.URL))

	opts, err := s.resolve(in.SentenceCount, in.Mode, in.Language)
	if err != nil {
		return nil, s.reject(ctx, s.cfg.DefaultMode, err)
	}
	if strings.TrimSpace(in.URL) == "" {
		return nil, s.reject(ctx, opts.mode, ErrURLRequired)
	}
	if s.fetcher == nil {
		return nil, s.reject(ctx, opts.mode, ErrFetchUnavailable)
	}

	content, err := s.fetcher.FetchContent(ctx, in.URL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		s.metrics.RecordRequest(opts.mode, "error")
		logging.FromContext(ctx).WarnContext(ctx, "content fetch failed",
			slog.String("url", in.URL),
			slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	if strings.TrimSpace(content) == "" {
		return nil, s.reject(ctx, opts.mode, ErrEmptyText)
	}
	if s.cfg.MaxTextBytes > 0 && len(content) > s.cfg.MaxTextBytes {
		content = truncateUTF8(content, s.cfg.MaxTextBytes)
	}

	return s.run(ctx, content, opts, in.URL)
}

// resolve applies defaults and limits to the per-request options.
func (s *Service) resolve(count *int, mode, language string) (options, error) {
	opts := options{
		count:    s.cfg.DefaultSentences,
		mode:     s.cfg.DefaultMode,
		language: s.cfg.Language,
	}

	if count != nil {
		switch {
		case *count < 1:
			return opts, ErrSentenceCountTooSmall
		case *count > s.cfg.MaxSentences:
			return opts, fmt.Errorf("%w: must be at most %d", ErrSentenceCountTooLarge, s.cfg.MaxSentences)
		}
		opts.count = *count
	}

	if strings.TrimSpace(mode) != "" {
		m, err := summary.ParseMode(mode)
		if err != nil {
			return opts, ErrInvalidMode
		}
		opts.mode = m
	}

	if strings.TrimSpace(language) != "" {
		opts.language = language
	}
	return opts, nil
}

// run executes the summarizer and converts panics into ErrInternal so that
// a failure inside the algorithm never escapes the request.
func (s *Service) run(ctx context.Context, text string, opts options, source string) (out *Output, err error) {
	ctx, span := tracing.GetTracer().Start(ctx, "summary.Extract")
	defer span.End()

	logger := logging.FromContext(ctx)
	start := time.Now()

	// The outcome is counted exactly once, here.
	outcome := "error"
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("%w: %v", ErrInternal, r)
			outcome = "error"
			span.SetStatus(codes.Error, "summarizer panic")
			logger.ErrorContext(ctx, "summarizer panicked",
				slog.Any("panic", r),
				slog.String("mode", string(opts.mode)))
		}
		s.metrics.RecordRequest(opts.mode, outcome)
	}()

	set := s.stopwords.Lookup(opts.language)
	if set.Len() == 0 {
		logger.DebugContext(ctx, "no stopword list for language, scoring without filtering",
			slog.String("language", opts.language))
	}

	sum := summary.New(summary.WithMode(opts.mode), summary.WithStopwords(set))
	res, err := sum.Extract(text, opts.count)
	duration := time.Since(start)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	s.metrics.RecordDuration(opts.mode, duration)
	s.metrics.RecordSentences(res.TotalSentences, len(res.Sentences))
	s.metrics.RecordInputLength(utf8.RuneCountInString(text))

	span.SetAttributes(
		attribute.String("summary.mode", string(opts.mode)),
		attribute.Int("summary.sentences_total", res.TotalSentences),
		attribute.Int("summary.sentences_selected", len(res.Sentences)),
	)

	logger.InfoContext(ctx, "text summarized",
		slog.String("mode", string(opts.mode)),
		slog.String("language", opts.language),
		slog.Int("requested", opts.count),
		slog.Int("total_sentences", res.TotalSentences),
		slog.Int("selected", len(res.Sentences)),
		slog.Duration("duration", duration))

	outcome = "success"
	return &Output{
		Summary:        res.Summary,
		SentenceCount:  len(res.Sentences),
		TotalSentences: res.TotalSentences,
		Mode:           res.Mode,
		Language:       opts.language,
		Source:         source,
	}, nil
}

// reject records and logs a validation failure and returns err unchanged.
func (s *Service) reject(ctx context.Context, mode summary.Mode, err error) error {
	s.metrics.RecordRequest(mode, "invalid")
	logging.FromContext(ctx).DebugContext(ctx, "summarization request rejected", slog.Any("error", err))
	return err
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// probeText is summarized by Probe.
const probeText = "Health checks run a real summary. The summary must contain sentences. Nothing else is needed."

// Probe runs the summarizer on a fixed text without recording metrics and
// reports whether it produced a non-empty summary.
func (s *Service) Probe(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	sum := summary.New(summary.WithStopwords(s.stopwords.Lookup(s.cfg.Language)))
	res, err := sum.Extract(probeText, 1)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
	if res.Summary == "" {
		return fmt.Errorf("%w: empty probe summary", ErrInternal)
	}
	return ctx.Err()
}
