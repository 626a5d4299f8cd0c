package retry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quick(attempts int) Policy {
	return Policy{Attempts: attempts, BaseDelay: time.Millisecond, MaxDelay: 4 * time.Millisecond, Factor: 2}
}

func TestDo(t *testing.T) {
	unavailable := &StatusError{Code: http.StatusServiceUnavailable}
	notFound := &StatusError{Code: http.StatusNotFound}

	tests := []struct {
		name      string
		failures  []error
		attempts  int
		wantCalls int
		wantErr   error
	}{
		{name: "first try", attempts: 3, wantCalls: 1},
		{name: "recovers", failures: []error{unavailable, unavailable}, attempts: 3, wantCalls: 3},
		{name: "permanent error stops", failures: []error{notFound}, attempts: 3, wantCalls: 1, wantErr: notFound},
		{name: "exhausted", failures: []error{unavailable, unavailable, unavailable}, attempts: 3, wantCalls: 3, wantErr: ErrExhausted},
		{name: "zero attempts still runs once", failures: []error{unavailable}, attempts: 0, wantCalls: 1, wantErr: ErrExhausted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			v, err := Do(context.Background(), quick(tt.attempts), func(context.Context) (string, error) {
				calls++
				if calls <= len(tt.failures) {
					return "", tt.failures[calls-1]
				}
				return "ok", nil
			})

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, v)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "ok", v)
		})
	}
}

func TestDo_ExhaustedKeepsLastError(t *testing.T) {
	last := &StatusError{Code: http.StatusBadGateway, Status: "502 Bad Gateway"}

	_, err := Do(context.Background(), quick(2), func(context.Context) (int, error) {
		return 0, last
	})

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.Code)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestDo_ContextCanceledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{Attempts: 5, BaseDelay: time.Hour, Factor: 1}

	calls := 0
	_, err := Do(ctx, p, func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, syscall.ECONNRESET
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, syscall.ECONNRESET)
	assert.Equal(t, 1, calls)
}

func TestDo_CustomClassifier(t *testing.T) {
	flaky := errors.New("flaky")
	p := quick(3)
	p.Retryable = func(err error) bool { return errors.Is(err, flaky) }

	calls := 0
	_, err := Do(context.Background(), p, func(context.Context) (struct{}, error) {
		calls++
		if calls == 1 {
			return struct{}{}, flaky
		}
		return struct{}{}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestPolicy_Backoff(t *testing.T) {
	p := Policy{BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second, Factor: 3}

	assert.Equal(t, 100*time.Millisecond, p.Backoff(1))
	assert.Equal(t, 300*time.Millisecond, p.Backoff(2))
	assert.Equal(t, 900*time.Millisecond, p.Backoff(3))
	assert.Equal(t, time.Second, p.Backoff(4))
	assert.Equal(t, time.Second, p.Backoff(10))
}

func TestPolicy_WaitJitterBounds(t *testing.T) {
	p := Policy{BaseDelay: 100 * time.Millisecond, Factor: 2, Jitter: 0.5}

	for i := 0; i < 50; i++ {
		d := p.wait(1)
		assert.GreaterOrEqual(t, d, 100*time.Millisecond)
		assert.LessOrEqual(t, d, 150*time.Millisecond)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("fetch: %w", context.DeadlineExceeded), false},
		{"net timeout", timeoutErr{}, true},
		{"connection refused", fmt.Errorf("dial: %w", syscall.ECONNREFUSED), true},
		{"connection reset", syscall.ECONNRESET, true},
		{"500", &StatusError{Code: 500}, true},
		{"503 wrapped", fmt.Errorf("feed: %w", &StatusError{Code: 503}), true},
		{"429", &StatusError{Code: http.StatusTooManyRequests}, true},
		{"408", &StatusError{Code: http.StatusRequestTimeout}, true},
		{"404", &StatusError{Code: http.StatusNotFound}, false},
		{"403", &StatusError{Code: http.StatusForbidden}, false},
		{"plain", errors.New("parse failure"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Transient(tt.err))
		})
	}
}

func TestStatusError_Error(t *testing.T) {
	assert.Equal(t, "unexpected status 404 Not Found", (&StatusError{Code: 404, Status: "404 Not Found"}).Error())
	assert.Equal(t, "unexpected status 502", (&StatusError{Code: 502}).Error())
}
