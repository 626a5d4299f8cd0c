package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sony/gobreaker"

	workerPkg "text-summarizer/internal/infra/worker"
)

// FeedHealthResponse reports the feed breaker and the latest digest run.
type FeedHealthResponse struct {
	Healthy            bool                 `json:"healthy"`
	CircuitBreaker     string               `json:"circuit_breaker"`
	CircuitBreakerOpen bool                 `json:"circuit_breaker_open"`
	LastRun            *workerPkg.RunReport `json:"last_run,omitempty"`
}

type breakerState interface {
	State() gobreaker.State
}

// startMetricsServer serves GET /metrics and GET /health/feeds on port until
// ctx is cancelled.
//
// /health/feeds returns 503 while the feed circuit breaker is open or when
// the last run failed for every feed.
func startMetricsServer(ctx context.Context, logger *slog.Logger, port int, job *workerPkg.DigestJob, breaker breakerState) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /health/feeds", feedHealthHandler(job, breaker))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("metrics server starting", slog.Int("port", port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", slog.Any("error", err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", slog.Any("error", err))
		} else {
			logger.Info("metrics server stopped")
		}
	}()

	return server
}

func feedHealthHandler(job *workerPkg.DigestJob, breaker breakerState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := breaker.State()
		resp := FeedHealthResponse{
			Healthy:            state != gobreaker.StateOpen,
			CircuitBreaker:     state.String(),
			CircuitBreakerOpen: state == gobreaker.StateOpen,
		}
		if last, ok := job.LastReport(); ok {
			resp.LastRun = &last
			if last.Status == workerPkg.StatusFailure {
				resp.Healthy = false
			}
		}

		statusCode := http.StatusOK
		if !resp.Healthy {
			statusCode = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
