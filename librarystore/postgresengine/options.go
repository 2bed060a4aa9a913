package postgresengine

import (
	"github.com/libraryops/library-records-go/librarystore"
)

// Interface aliases for convenience when configuring the Gateway.
// These match the librarystore observability interfaces for consistency.

// Logger interface for SQL query logging, operational summaries, warnings, and error reporting.
type Logger = librarystore.Logger

// MetricsCollector interface for collecting gateway performance and operational metrics.
type MetricsCollector = librarystore.MetricsCollector

// TracingCollector interface for distributed tracing of gateway operations.
type TracingCollector = librarystore.TracingCollector

// SpanContext represents an active tracing span.
type SpanContext = librarystore.SpanContext

// ContextualLogger interface for context-aware logging with automatic trace correlation.
type ContextualLogger = librarystore.ContextualLogger

// Option defines a functional option for configuring the Gateway.
type Option func(*Gateway) error

// WithTablePrefix prepends a prefix to every table name the Gateway touches,
// for deployments where the library schema shares a database with other
// applications (e.g. "library_").
func WithTablePrefix(prefix string) Option {
	return func(gw *Gateway) error {
		if prefix == "" {
			return librarystore.ErrEmptyTablePrefix
		}

		gw.tablePrefix = prefix

		return nil
	}
}

// WithReadErrorPolicy sets the read-error policy for the Gateway.
//
// SuppressReadErrors (the default) degrades failed reads to an empty result,
// matching the historical behavior where callers cannot distinguish "no data"
// from "query failed". PropagateReadErrors returns wrapped sentinel errors
// instead, so callers and tests can observe the failure.
func WithReadErrorPolicy(policy librarystore.ReadErrorPolicy) Option {
	return func(gw *Gateway) error {
		gw.readErrorPolicy = policy
		return nil
	}
}

// WithLogger sets the logger for the Gateway.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL statements with execution timing (development use)
// Info level: record counts, durations, rows affected (production-safe)
// Warn level: suppressed read errors
// Error level: critical failures that cause operation failures.
func WithLogger(logger Logger) Option {
	return func(gw *Gateway) error {
		gw.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Gateway.
// The metrics collector will receive performance and operational metrics including
// per-operation durations, record counts, and database errors.
func WithMetrics(collector MetricsCollector) Option {
	return func(gw *Gateway) error {
		gw.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Gateway.
// The tracing collector will receive distributed tracing information including
// span creation for every operation, context propagation, and error tracking.
func WithTracing(collector TracingCollector) Option {
	return func(gw *Gateway) error {
		gw.tracingCollector = collector
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Gateway.
// The contextual logger will receive log messages with context information including
// automatic trace/span correlation when tracing is enabled, enabling unified observability.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(gw *Gateway) error {
		gw.contextualLogger = logger
		return nil
	}
}
