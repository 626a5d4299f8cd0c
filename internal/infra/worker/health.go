package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"
)

// RunReporter exposes the outcome of the most recent digest run.
type RunReporter interface {
	LastReport() (RunReport, bool)
}

// HealthServer serves the worker's probes:
//
//	GET /health        200 while the process is up
//	GET /health/ready  200 once the scheduler is running, 503 before
//
// Both include a summary of the last digest run when there has been one.
type HealthServer struct {
	addr    string
	logger  *slog.Logger
	runs    RunReporter
	ready   atomic.Bool
	started time.Time
}

type lastRun struct {
	Status      string    `json:"status"`
	StartedAt   time.Time `json:"started_at"`
	FailedFeeds int       `json:"failed_feeds"`
}

type healthResponse struct {
	Status  string   `json:"status"`
	Uptime  string   `json:"uptime"`
	LastRun *lastRun `json:"last_run,omitempty"`
}

// NewHealthServer returns a server for addr that starts as not ready. runs
// may be nil.
func NewHealthServer(addr string, logger *slog.Logger, runs RunReporter) *HealthServer {
	return &HealthServer{addr: addr, logger: logger, runs: runs, started: time.Now()}
}

// Handler returns the probe routes.
func (h *HealthServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		h.write(w, http.StatusOK, "ok")
	})
	mux.HandleFunc("GET /health/ready", func(w http.ResponseWriter, _ *http.Request) {
		if !h.ready.Load() {
			h.write(w, http.StatusServiceUnavailable, "not ready")
			return
		}
		h.write(w, http.StatusOK, "ok")
	})
	return mux
}

// Start listens on addr and serves until ctx is cancelled. It returns
// http.ErrServerClosed after a graceful shutdown.
func (h *HealthServer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", h.addr)
	if err != nil {
		return err
	}
	return h.Serve(ctx, ln)
}

// Serve is Start with a caller-provided listener.
func (h *HealthServer) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      5 * time.Second,
	}
	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			h.logger.Error("health server shutdown failed", slog.Any("error", err))
		}
	})
	defer stop()

	h.logger.Info("health server listening", slog.String("addr", ln.Addr().String()))
	err := srv.Serve(ln)
	if !errors.Is(err, http.ErrServerClosed) {
		h.logger.Error("health server failed", slog.Any("error", err))
	}
	return err
}

// SetReady sets the readiness reported by /health/ready.
func (h *HealthServer) SetReady(ready bool) {
	if h.ready.Swap(ready) != ready {
		h.logger.Info("worker readiness changed", slog.Bool("ready", ready))
	}
}

func (h *HealthServer) write(w http.ResponseWriter, code int, status string) {
	resp := healthResponse{
		Status: status,
		Uptime: time.Since(h.started).Truncate(time.Second).String(),
	}
	if h.runs != nil {
		if r, ok := h.runs.LastReport(); ok {
			resp.LastRun = &lastRun{Status: r.Status, StartedAt: r.StartedAt, FailedFeeds: r.FailedFeed}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode health response", slog.Any("error", err))
	}
}
