// Package tracing provides the OpenTelemetry tracer handle and HTTP
// middleware used across the service.
package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("chat-integration")

// GetTracer returns the service tracer for creating spans.
//
//	ctx, span := tracing.GetTracer().Start(ctx, "dispatch.cycle")
//	defer span.End()
func GetTracer() trace.Tracer {
	return tracer
}
