package postgresengine

import (
	"github.com/dappfi/track-marketplace-go/journal"
)

// Option defines a functional option for configuring RecordStore.
type Option func(*RecordStore) error

// WithTableName sets the table name for the RecordStore.
func WithTableName(tableName string) Option {
	return func(rs *RecordStore) error {
		if tableName == "" {
			return journal.ErrEmptyTableNameSupplied
		}

		rs.recordTableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the RecordStore.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: Record counts, durations, concurrency conflicts (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger journal.Logger) Option {
	return func(rs *RecordStore) error {
		rs.logger = logger
		return nil
	}
}

// WithMetrics sets the metricsCollector collector for the RecordStore.
// The metricsCollector collector will receive performance and operational metricsCollector including
// query/append durations, record counts, concurrency conflicts, and database errors.
func WithMetrics(collector journal.MetricsCollector) Option {
	return func(rs *RecordStore) error {
		rs.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the RecordStore.
// The tracing collector will receive distributed tracing information including
// span creation for query/append operations, context propagation, and error tracking.
func WithTracing(collector journal.TracingCollector) Option {
	return func(rs *RecordStore) error {
		rs.tracingCollector = collector
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the RecordStore.
// The contextual logger will receive log messages with context information including
// automatic trace/span correlation when tracing is enabled, enabling unified observability.
func WithContextualLogger(logger journal.ContextualLogger) Option {
	return func(rs *RecordStore) error {
		rs.contextualLogger = logger
		return nil
	}
}
