// Package observability groups the logging and tracing infrastructure
// shared by the HTTP surface and the dispatch pipeline.
//
// Subpackages:
//   - logging: slog construction helpers with request ID propagation
//   - tracing: OpenTelemetry tracer handle and HTTP middleware
package observability
