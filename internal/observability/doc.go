// Package observability groups the logging, metrics and tracing packages
// shared by the API server, the worker and the CLI.
//
// Subpackages:
//   - logging: slog construction and context propagation
//   - metrics: Prometheus collectors for HTTP traffic, fetching and digests
//   - tracing: OpenTelemetry tracer, provider setup and HTTP middleware
package observability
