package fetcher

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"text-summarizer/internal/observability/metrics"
	"text-summarizer/internal/resilience/circuitbreaker"
	"text-summarizer/internal/resilience/retry"
	"text-summarizer/internal/usecase/summarize"

	"github.com/go-shiori/go-readability"
	"github.com/sony/gobreaker"
)

// ReadabilityFetcher implements summarize.ContentFetcher by downloading a
// page and extracting its main article text with go-readability.
//
// Requests go through a circuit breaker so a failing site does not slow down
// every caller. Errors caused by the URL itself (bad scheme, private address)
// do not count against the breaker.
type ReadabilityFetcher struct {
	client         *http.Client
	breaker *circuitbreaker.Breaker
	policy  retry.Policy
	config  ContentFetchConfig
}

// NewReadabilityFetcher returns a fetcher using config.
func NewReadabilityFetcher(config ContentFetchConfig) *ReadabilityFetcher {
	settings := circuitbreaker.PageSettings()
	settings.OnTransition = recordBreakerState
	settings.Ignore = func(err error) bool {
		return summarize.IsClientFetchError(err) || errors.Is(err, summarize.ErrBodyTooLarge)
	}

	fetcher := &ReadabilityFetcher{
		breaker: circuitbreaker.New(settings),
		policy:  retry.PagePolicy(),
		config:  config,
	}

	dialer := &net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}
	if config.DenyPrivateIPs {
		dialer.Control = denyPrivateDial
	}

	fetcher.client = &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         dialer.DialContext,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= fetcher.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", summarize.ErrTooManyRedirects, len(via))
			}
			if err := validateURL(req.URL.String(), fetcher.config.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}

	return fetcher
}

func recordBreakerState(name string, to gobreaker.State) {
	metrics.SetCircuitBreakerState(name, int(to))
}

// CircuitBreaker exposes the breaker for health reporting.
func (f *ReadabilityFetcher) CircuitBreaker() *circuitbreaker.Breaker {
	return f.breaker
}

// FetchContent downloads urlStr and returns its article text.
func (f *ReadabilityFetcher) FetchContent(ctx context.Context, urlStr string) (string, error) {
	if err := validateURL(urlStr, f.config.DenyPrivateIPs); err != nil {
		return "", err
	}

	start := time.Now()
	text, err := retry.Do(ctx, f.policy, func(ctx context.Context) (string, error) {
		return circuitbreaker.Call(f.breaker, func() (string, error) {
			return f.doFetch(ctx, urlStr)
		})
	})
	if err != nil {
		result := metrics.ResultFailure
		if summarize.IsClientFetchError(err) {
			result = metrics.ResultClientError
		}
		metrics.RecordContentFetch(result, time.Since(start), 0)
		return "", err
	}
	metrics.RecordContentFetch(metrics.ResultSuccess, time.Since(start), len(text))
	return text, nil
}

func (f *ReadabilityFetcher) doFetch(ctx context.Context, urlStr string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", summarize.ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return "", fmt.Errorf("%w: request exceeded %v", summarize.ErrTimeout, f.config.Timeout)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Err != nil {
			return "", urlErr.Err
		}
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", &retry.StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodySize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > f.config.MaxBodySize {
		return "", fmt.Errorf("%w: response exceeds limit of %d bytes",
			summarize.ErrBodyTooLarge, f.config.MaxBodySize)
	}

	// Relative links resolve against the final URL after redirects.
	pageURL := resp.Request.URL
	if pageURL == nil {
		pageURL, _ = url.Parse(urlStr)
	}

	if ct := resp.Header.Get("Content-Type"); strings.HasPrefix(ct, "text/plain") {
		return string(body), nil
	}

	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", summarize.ErrReadabilityFailed, err)
	}

	if strings.TrimSpace(article.TextContent) == "" {
		if article.Content == "" {
			return "", fmt.Errorf("%w: no readable content found", summarize.ErrReadabilityFailed)
		}
		slog.DebugContext(ctx, "using article Content instead of TextContent",
			slog.String("url", urlStr),
			slog.Int("content_length", len(article.Content)))
		return article.Content, nil
	}

	return article.TextContent, nil
}
