// Package tracing wires OpenTelemetry into the service.
//
// Setup installs a TracerProvider and the W3C propagators; Middleware starts
// a server span per HTTP request; GetTracer is used by the use cases for
// their own spans. With tracing disabled the global no-op provider stays in
// place and spans cost almost nothing.
package tracing
