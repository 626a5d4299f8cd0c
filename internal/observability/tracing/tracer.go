package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName identifies spans created by this module.
const InstrumentationName = "text-summarizer"

// GetTracer returns the module tracer from the currently installed global
// provider.
//
//	ctx, span := tracing.GetTracer().Start(ctx, "summarize.Summarize")
//	defer span.End()
func GetTracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}
