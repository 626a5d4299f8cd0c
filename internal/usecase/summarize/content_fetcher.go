package summarize

import (
	"context"
	"errors"
)

// ContentFetcher retrieves the readable text of a web page.
//
// Implementations must:
//   - reject non-http(s) URLs and hosts on private networks (SSRF)
//   - bound the response body size and the request duration
//   - validate redirect targets
//
// Failures should wrap one of the sentinel errors below so callers can
// tell client mistakes from upstream problems.
type ContentFetcher interface {
	FetchContent(ctx context.Context, url string) (string, error)
}

// Sentinel errors for content fetching.
var (
	// ErrInvalidURL indicates a malformed URL or an unsupported scheme.
	ErrInvalidURL = errors.New("invalid URL or unsupported scheme")

	// ErrPrivateIP indicates a URL resolving to a private network address.
	ErrPrivateIP = errors.New("private IP access denied")

	// ErrTooManyRedirects indicates that the redirect chain exceeded the configured maximum.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge indicates that the response body exceeded the size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTimeout indicates that the request exceeded the configured timeout.
	ErrTimeout = errors.New("request timeout")

	// ErrReadabilityFailed indicates that no article text could be extracted.
	ErrReadabilityFailed = errors.New("content extraction failed")
)

// IsClientFetchError reports whether err was caused by the URL the client
// supplied rather than by the remote server.
func IsClientFetchError(err error) bool {
	return errors.Is(err, ErrInvalidURL) || errors.Is(err, ErrPrivateIP)
}
