package fetcher

import (
	"fmt"
	"time"

	pkgconfig "text-summarizer/internal/pkg/config"
)

// ContentFetchConfig controls how article pages are downloaded.
//
// Security settings:
//   - DenyPrivateIPs blocks SSRF to loopback, link-local and private ranges
//   - MaxBodySize bounds memory used per response
//   - MaxRedirects bounds redirect chains; every hop is re-validated
//   - Timeout bounds a single request
type ContentFetchConfig struct {
	// Enabled turns article fetching on. When false, URL summarization is
	// unavailable and feed digests use the feed content only.
	// Default: true
	Enabled bool

	// Threshold is the feed content length (in characters) below which the
	// article page is fetched during a digest.
	// Default: 1500
	Threshold int

	// Timeout is the maximum duration of one HTTP request.
	// Default: 10s
	Timeout time.Duration

	// MaxBodySize is the largest response body accepted, in bytes. It is
	// enforced while reading, not from Content-Length.
	// Default: 10485760 (10MB)
	MaxBodySize int64

	// MaxRedirects is the maximum number of redirects to follow.
	// Default: 5
	MaxRedirects int

	// DenyPrivateIPs rejects URLs and connections to private addresses.
	// Should always be true in production.
	// Default: true
	DenyPrivateIPs bool

	// UserAgent is sent with every request.
	UserAgent string
}

// DefaultConfig returns production defaults.
func DefaultConfig() ContentFetchConfig {
	return ContentFetchConfig{
		Enabled:        true,
		Threshold:      1500,
		Timeout:        10 * time.Second,
		MaxBodySize:    10 * 1024 * 1024,
		MaxRedirects:   5,
		DenyPrivateIPs: true,
		UserAgent:      "TextSummarizerBot/1.0",
	}
}

// Validate checks that the values are usable and safe.
func (c *ContentFetchConfig) Validate() error {
	if c.Threshold < 0 {
		return fmt.Errorf("threshold must be non-negative, got %d", c.Threshold)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	minBodySize := int64(1024)
	maxBodySize := int64(100 * 1024 * 1024)
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}
	return nil
}

// LoadConfigFromEnv reads CONTENT_FETCH_* variables on top of DefaultConfig.
// Invalid values fall back to the defaults and are recorded on c.
//
// Environment variables:
//   - CONTENT_FETCH_ENABLED (default: true)
//   - CONTENT_FETCH_THRESHOLD (default: 1500)
//   - CONTENT_FETCH_TIMEOUT (default: 10s)
//   - CONTENT_FETCH_MAX_BODY_SIZE (default: 10485760)
//   - CONTENT_FETCH_MAX_REDIRECTS (default: 5)
//   - CONTENT_FETCH_DENY_PRIVATE_IPS (default: true)
//   - CONTENT_FETCH_USER_AGENT
func LoadConfigFromEnv(c *pkgconfig.Collector) ContentFetchConfig {
	cfg := DefaultConfig()

	cfg.Enabled = c.Bool("CONTENT_FETCH_ENABLED", cfg.Enabled)
	cfg.Threshold = c.Int("CONTENT_FETCH_THRESHOLD", cfg.Threshold, pkgconfig.IntRange(0, 1<<20))
	cfg.Timeout = c.Duration("CONTENT_FETCH_TIMEOUT", cfg.Timeout, pkgconfig.DurationRange(100*time.Millisecond, 5*time.Minute))
	cfg.MaxBodySize = c.Int64("CONTENT_FETCH_MAX_BODY_SIZE", cfg.MaxBodySize, func(v int64) error {
		if v < 1024 || v > 100*1024*1024 {
			return fmt.Errorf("must be between 1KB and 100MB")
		}
		return nil
	})
	cfg.MaxRedirects = c.Int("CONTENT_FETCH_MAX_REDIRECTS", cfg.MaxRedirects, pkgconfig.IntRange(0, 10))
	cfg.DenyPrivateIPs = c.Bool("CONTENT_FETCH_DENY_PRIVATE_IPS", cfg.DenyPrivateIPs)
	cfg.UserAgent = pkgconfig.LoadEnvString("CONTENT_FETCH_USER_AGENT", cfg.UserAgent)

	return cfg
}
