package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"text-summarizer/internal/handler/http/respond"
)

// TimeoutMessage is the error sent with 504 responses.
const TimeoutMessage = "request timeout"

// Timeout returns middleware that answers 504 Gateway Timeout when the
// handler has not started its response within duration. The handler's
// context is cancelled at the deadline so fetches and feed digests stop
// early.
//
// The handler runs in its own goroutine and writes through a guarded
// writer: whichever of the handler and the timeout writes first owns the
// response, and later writes from the handler fail with
// http.ErrHandlerTimeout. A panic in the handler is re-raised on the
// serving goroutine so Recover still sees it.
func Timeout(duration time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), duration)
			defer cancel()
			r = r.WithContext(ctx)

			tw := &timeoutWriter{w: w, header: make(http.Header)}
			done := make(chan struct{})
			panicked := make(chan any, 1)

			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
					}
				}()
				next.ServeHTTP(tw, r)
				close(done)
			}()

			select {
			case p := <-panicked:
				panic(p)
			case <-done:
				tw.mu.Lock()
				defer tw.mu.Unlock()
				if !tw.wroteHeader {
					tw.commit(http.StatusOK)
				}
			case <-ctx.Done():
				tw.mu.Lock()
				defer tw.mu.Unlock()
				tw.timedOut = true
				if !tw.wroteHeader {
					respond.JSON(w, http.StatusGatewayTimeout, respond.ErrorBody{Error: TimeoutMessage})
				}
			}
		})
	}
}

// timeoutWriter buffers headers until the status is written, so the
// handler goroutine never touches the real header map after a timeout.
type timeoutWriter struct {
	w      http.ResponseWriter
	header http.Header

	mu          sync.Mutex
	wroteHeader bool
	timedOut    bool
}

func (tw *timeoutWriter) Header() http.Header {
	return tw.header
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut || tw.wroteHeader {
		return
	}
	tw.commit(code)
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if !tw.wroteHeader {
		tw.commit(http.StatusOK)
	}
	return tw.w.Write(b)
}

// commit copies buffered headers and writes the status. Callers hold mu.
func (tw *timeoutWriter) commit(code int) {
	dst := tw.w.Header()
	for k, vv := range tw.header {
		dst[k] = vv
	}
	tw.wroteHeader = true
	tw.w.WriteHeader(code)
}
