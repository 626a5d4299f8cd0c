package summary

import "errors"

// Sentinel errors returned by the summarization pipeline.
var (
	// ErrInvalidSentenceCount indicates that fewer than one sentence was requested.
	ErrInvalidSentenceCount = errors.New("sentence count must be at least 1")

	// ErrUnknownMode indicates a mode name that ParseMode does not recognise.
	ErrUnknownMode = errors.New("unknown summarization mode")
)
