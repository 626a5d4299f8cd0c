package http

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"text-summarizer/internal/handler/http/pathutil"
	"text-summarizer/internal/handler/http/requestid"
	"text-summarizer/internal/handler/http/respond"
	"text-summarizer/internal/handler/http/responsewriter"
	"text-summarizer/internal/observability/logging"

	"go.opentelemetry.io/otel/trace"
)

// BodyTooLargeMessage is sent when Content-Length already exceeds the limit.
const BodyTooLargeMessage = "request body too large"

// Logging stores a request-scoped logger carrying request_id (and trace_id
// when a span is active) in the context, then writes one access line per
// request: INFO for success, WARN for 4xx and ERROR for 5xx.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			scoped := logging.WithRequestID(r.Context(), logger)
			if sc := trace.SpanFromContext(r.Context()).SpanContext(); sc.HasTraceID() {
				scoped = scoped.With(slog.String("trace_id", sc.TraceID().String()))
			}
			ctx := logging.WithLogger(r.Context(), scoped)

			rw := responsewriter.Wrap(w)
			next.ServeHTTP(rw, r.WithContext(ctx))

			status := rw.StatusCode()
			level := slog.LevelInfo
			switch {
			case status >= http.StatusInternalServerError:
				level = slog.LevelError
			case status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			scoped.LogAttrs(ctx, level, "request completed",
				slog.String("method", r.Method),
				slog.String("route", pathutil.NormalizePath(r.URL.Path)),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("user_agent", r.Header.Get("User-Agent")),
				slog.Int64("request_bytes", r.ContentLength),
				slog.Int("status", status),
				slog.Int("bytes", rw.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// Recover turns a panic into a generic 500 and logs the stack.
// http.ErrAbortHandler is re-panicked for net/http to handle.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				logger.Error("panic recovered",
					slog.String("request_id", requestid.FromContext(r.Context())),
					slog.String("route", pathutil.RouteName(r)),
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())),
				)
				respond.JSON(w, http.StatusInternalServerError,
					respond.ErrorBody{Error: respond.GenericErrorMessage})
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// LimitRequestBody caps request bodies at maxBytes. A declared
// Content-Length over the limit is answered with 413 before the handler
// runs; otherwise reads past the limit fail with *http.MaxBytesError.
func LimitRequestBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				respond.JSON(w, http.StatusRequestEntityTooLarge, respond.ErrorBody{Error: BodyTooLargeMessage})
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
