// Package http provides the HTTP middleware and operational endpoints of the
// summarizer API: request logging, panic recovery, body limits, timeouts,
// metrics, and health, readiness and liveness probes.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/sony/gobreaker"

	"text-summarizer/internal/observability/logging"
)

// Health check statuses.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy", "degraded" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`    // Status of each check item
	Version   string                 `json:"version"`   // Application version
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Prober is the summarizer self-check used by HealthHandler.
type Prober interface {
	Probe(ctx context.Context) error
	Languages() []string
}

// BreakerReporter exposes a circuit breaker's state.
type BreakerReporter interface {
	Name() string
	State() gobreaker.State
}

// HealthHandler reports whether the summarizer works and whether the
// remote fetchers are currently usable.
//
// A failing summarizer makes the service unhealthy (503). An open circuit
// breaker only degrades it: text summarization still works.
type HealthHandler struct {
	Summarizer Prober
	Breakers   []BreakerReporter
	Version    string
}

// ServeHTTP performs health checks and returns the application health status.
// @Summary      Health check
// @Description  Runs a summarizer self-check and reports circuit breaker states
// @Tags         health
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]CheckStatus)
	status := StatusHealthy

	if h.Summarizer == nil {
		checks["summarizer"] = CheckStatus{Status: StatusUnhealthy, Message: "not configured"}
		status = StatusUnhealthy
	} else {
		check := h.checkSummarizer(ctx)
		checks["summarizer"] = check
		if check.Status == StatusUnhealthy {
			status = StatusUnhealthy
		}
	}

	for _, b := range h.Breakers {
		check := checkBreaker(b)
		checks["circuit_breaker:"+b.Name()] = check
		if check.Status == StatusDegraded && status == StatusHealthy {
			status = StatusDegraded
		}
	}

	statusCode := http.StatusOK
	if status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.FromContext(r.Context()).Error("failed to encode health response", slog.Any("error", err))
	}
}

func (h *HealthHandler) checkSummarizer(ctx context.Context) CheckStatus {
	start := time.Now()
	if err := h.Summarizer.Probe(ctx); err != nil {
		return CheckStatus{Status: StatusUnhealthy, Message: err.Error()}
	}
	return CheckStatus{
		Status: StatusHealthy,
		Details: map[string]interface{}{
			"languages":  h.Summarizer.Languages(),
			"latency_ms": time.Since(start).Milliseconds(),
		},
	}
}

func checkBreaker(b BreakerReporter) CheckStatus {
	state := b.State()
	check := CheckStatus{
		Status:  StatusHealthy,
		Details: map[string]interface{}{"state": state.String()},
	}
	if state == gobreaker.StateOpen {
		check.Status = StatusDegraded
		check.Message = "circuit open, remote requests are rejected"
	}
	return check
}

// ReadyHandler handles readiness probe requests. The service is ready while
// Ready is true; a nil Ready is always ready.
type ReadyHandler struct {
	Ready *atomic.Bool
}

// ServeHTTP returns 200 "ready", or 503 while starting up or shutting down.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Ready != nil && !h.Ready.Load() {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ready")); err != nil {
		logging.FromContext(r.Context()).Error("failed to write readiness response", slog.Any("error", err))
	}
}

// LiveHandler handles liveness probe requests.
// It performs a lightweight check to verify the application is responsive.
type LiveHandler struct{}

// ServeHTTP always returns 200 OK while the process can serve requests.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("alive")); err != nil {
		logging.FromContext(r.Context()).Error("failed to write liveness response", slog.Any("error", err))
	}
}
