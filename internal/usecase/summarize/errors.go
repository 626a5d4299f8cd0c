// Package summarize provides the summarization use cases: plain text, a
// remote article fetched by URL, and a digest of every item in a feed.
// It validates requests, applies configured defaults and limits, and runs
// the extractive summarizer from the summary domain package.
package summarize

import "errors"

// Sentinel errors for summarization requests. The messages of the
// validation errors are safe to show to API clients verbatim.
var (
	// ErrNoText indicates that the request carried no text field at all.
	ErrNoText = errors.New("No text provided")

	// ErrEmptyText indicates that the text was present but blank.
	ErrEmptyText = errors.New("Text cannot be empty")

	// ErrInvalidJSON indicates that the transport could not decode the request body.
	ErrInvalidJSON = errors.New("Invalid JSON")

	// ErrTextTooLong indicates that the text exceeds the configured byte limit.
	ErrTextTooLong = errors.New("text is too long")

	// ErrSentenceCountTooSmall indicates a requested summary length below one.
	ErrSentenceCountTooSmall = errors.New("sentence_count must be at least 1")

	// ErrSentenceCountTooLarge indicates a requested summary length above the configured maximum.
	ErrSentenceCountTooLarge = errors.New("sentence_count is too large")

	// ErrInvalidMode indicates an unrecognised summarization mode.
	ErrInvalidMode = errors.New("invalid mode: must be frequency or truncation")

	// ErrInvalidFormat indicates an unrecognised input format.
	ErrInvalidFormat = errors.New("invalid format: must be text or html")

	// ErrUnsupportedFormat indicates a known format with no extractor configured.
	ErrUnsupportedFormat = errors.New("format not supported by this server")

	// ErrURLRequired indicates a URL request without a URL.
	ErrURLRequired = errors.New("url is required")

	// ErrFetchUnavailable indicates that no content fetcher is configured.
	ErrFetchUnavailable = errors.New("url summarization is not configured")

	// ErrFetchFailed indicates that remote content could not be retrieved or extracted.
	ErrFetchFailed = errors.New("failed to fetch content")

	// ErrFeedUnavailable indicates that no feed fetcher is configured.
	ErrFeedUnavailable = errors.New("feed summarization is not configured")

	// ErrInternal indicates an unexpected failure inside the summarizer.
	ErrInternal = errors.New("internal summarization failure")
)
