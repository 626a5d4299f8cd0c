// Package retry re-runs operations that fail with transient network or
// server errors, waiting an exponentially growing delay between attempts.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"syscall"
	"time"
)

// ErrExhausted is wrapped together with the last failure once every attempt
// has been used.
var ErrExhausted = errors.New("retry attempts exhausted")

// Policy controls how often and how patiently Do retries.
type Policy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
	Factor    float64
	// Jitter adds up to this fraction of each delay at random. 0 disables it.
	Jitter float64
	// Retryable overrides Transient when set.
	Retryable func(error) bool
}

// FeedPolicy suits feed downloads run by the background digest job.
func FeedPolicy() Policy {
	return Policy{
		Attempts:  4,
		BaseDelay: time.Second,
		MaxDelay:  20 * time.Second,
		Factor:    2,
		Jitter:    0.2,
	}
}

// PagePolicy suits page downloads made while a client waits for the answer.
func PagePolicy() Policy {
	return Policy{
		Attempts:  2,
		BaseDelay: 300 * time.Millisecond,
		MaxDelay:  time.Second,
		Factor:    2,
		Jitter:    0.1,
	}
}

// Backoff returns the wait after the given failed attempt, counting from 1,
// before jitter.
func (p Policy) Backoff(attempt int) time.Duration {
	d := float64(p.BaseDelay)
	for i := 1; i < attempt; i++ {
		d *= p.Factor
		if p.MaxDelay > 0 && d >= float64(p.MaxDelay) {
			return p.MaxDelay
		}
	}
	return time.Duration(d)
}

func (p Policy) wait(attempt int) time.Duration {
	d := p.Backoff(attempt)
	if p.Jitter <= 0 || d <= 0 {
		return d
	}
	j := min(p.Jitter, 1)
	// #nosec G404 -- jitter does not need a cryptographic source.
	return d + time.Duration(rand.Float64()*j*float64(d))
}

func (p Policy) retryable(err error) bool {
	if p.Retryable != nil {
		return p.Retryable(err)
	}
	return Transient(err)
}

// Do runs op until it succeeds, fails with an error that is not retryable,
// runs out of attempts or ctx ends. A Policy with fewer than one attempt
// still runs op once.
func Do[T any](ctx context.Context, p Policy, op func(context.Context) (T, error)) (T, error) {
	attempts := max(p.Attempts, 1)
	var zero T
	for attempt := 1; ; attempt++ {
		v, err := op(ctx)
		if err == nil {
			if attempt > 1 {
				slog.DebugContext(ctx, "retry succeeded", slog.Int("attempt", attempt))
			}
			return v, nil
		}
		if !p.retryable(err) {
			return zero, err
		}
		if attempt >= attempts {
			return zero, fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempt, err)
		}

		delay := p.wait(attempt)
		slog.WarnContext(ctx, "transient failure, retrying",
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.Any("error", err))

		t := time.NewTimer(delay)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return zero, errors.Join(ctx.Err(), err)
		}
	}
}

// StatusError is a non-2xx response from a remote server.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	if e.Status == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return "unexpected status " + e.Status
}

// Temporary reports whether the server may answer differently later.
func (e *StatusError) Temporary() bool {
	switch {
	case e.Code >= 500:
		return true
	case e.Code == http.StatusTooManyRequests, e.Code == http.StatusRequestTimeout:
		return true
	}
	return false
}

// Transient reports whether err looks like a failure worth another try:
// network timeouts, refused or reset connections and temporary HTTP
// statuses. Context cancellation never is.
func Transient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}

	for _, errno := range []syscall.Errno{syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ETIMEDOUT, syscall.ENETUNREACH} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
