package postgresengine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/dappfi/track-marketplace-go/journal"
)

// logQueryWithDuration logs SQL queries with execution time at debug level if the logger is configured.
func (rs RecordStore) logQueryWithDuration(
	sqlQuery string,
	action string,
	duration time.Duration,
) {
	if rs.logger != nil {
		rs.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, rs.toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level if the logger is configured.
func (rs RecordStore) logOperation(action string, args ...any) {
	if rs.logger != nil {
		rs.logger.Info(logMsgOperation+action, args...)
	}
}

// logError logs error information at the error level if the logger is configured.
func (rs RecordStore) logError(
	message string,
	err error,
	args ...any,
) {
	if rs.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		rs.logger.Error(message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (rs RecordStore) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// recordErrorMetricsContext records error metricsCollector with context if the collector supports it.
func (rs RecordStore) recordErrorMetricsContext(ctx context.Context, operation, errorType string) {
	if rs.metricsCollector != nil {
		labels := map[string]string{
			spanAttrOperation: operation,
			"status":          statusError,
			spanAttrErrorType: errorType,
		}

		// Use context-aware method if available
		if contextualCollector, ok := rs.metricsCollector.(journal.ContextualMetricsCollector); ok {
			contextualCollector.IncrementCounterContext(ctx, metricDatabaseErrors, labels)
		} else {
			rs.metricsCollector.IncrementCounter(metricDatabaseErrors, labels)
		}
	}
}

// recordDurationMetricsContext records duration metricsCollector with context if the collector supports it.
func (rs RecordStore) recordDurationMetricsContext(
	ctx context.Context,
	metricName string,
	duration time.Duration,
	operation, status string,
) {
	if rs.metricsCollector != nil {
		labels := map[string]string{
			spanAttrOperation: operation,
			"status":          status,
		}

		// Use context-aware method if available
		if contextualCollector, ok := rs.metricsCollector.(journal.ContextualMetricsCollector); ok {
			contextualCollector.RecordDurationContext(ctx, metricName, duration, labels)
		} else {
			rs.metricsCollector.RecordDuration(metricName, duration, labels)
		}
	}
}

// recordValueMetricsContext records value metricsCollector with context if the collector supports it.
func (rs RecordStore) recordValueMetricsContext(
	ctx context.Context,
	metricName string,
	value float64,
	operation,
	status string,
) {
	if rs.metricsCollector != nil {
		labels := map[string]string{
			spanAttrOperation: operation,
			"status":          status,
		}

		// Use context-aware method if available
		if contextualCollector, ok := rs.metricsCollector.(journal.ContextualMetricsCollector); ok {
			contextualCollector.RecordValueContext(ctx, metricName, value, labels)
		} else {
			rs.metricsCollector.RecordValue(metricName, value, labels)
		}
	}
}

// recordConcurrencyConflictMetrics records concurrency conflict metricsCollector if the metricsCollector collector is configured.
func (rs RecordStore) recordConcurrencyConflictMetrics(operation string) {
	if rs.metricsCollector != nil {
		labels := map[string]string{
			spanAttrOperation: operation,
			"conflict_type":   "concurrency",
		}
		rs.metricsCollector.IncrementCounter(metricConcurrencyConflicts, labels)
	}
}

// startTraceSpan starts a tracing span if the tracing collector is configured.
func (rs RecordStore) startTraceSpan(
	ctx context.Context,
	operation string,
	attrs map[string]string,
) (context.Context, journal.SpanContext) {
	if rs.tracingCollector != nil {
		return rs.tracingCollector.StartSpan(ctx, operation, attrs)
	}

	return ctx, nil
}

// finishTraceSpan finishes a tracing span if the tracing collector is configured.
func (rs RecordStore) finishTraceSpan(
	spanCtx journal.SpanContext,
	status string,
	attrs map[string]string,
) {
	if rs.tracingCollector != nil && spanCtx != nil {
		rs.tracingCollector.FinishSpan(spanCtx, status, attrs)
	}
}

// startQuerySpan starts a tracing span for query operations.
func (rs RecordStore) startQuerySpan(ctx context.Context) (context.Context, journal.SpanContext) {
	spanAttrs := map[string]string{
		spanAttrOperation: operationQuery,
	}

	return rs.startTraceSpan(ctx, spanNameQuery, spanAttrs)
}

// finishQuerySpanSuccess finishes a successful query span with results.
func (rs RecordStore) finishQuerySpanSuccess(
	span journal.SpanContext,
	recordStream journal.StorableRecords,
	maxSequenceNumber journal.MaxSequenceNumberUint,
	duration time.Duration,
) {
	if span != nil {
		span.SetStatus(statusSuccess)
		if recordStream != nil {
			span.AddAttribute(spanAttrRecordCount, fmt.Sprintf("%d", len(recordStream)))
		}
		span.AddAttribute(spanAttrMaxSequence, fmt.Sprintf("%d", maxSequenceNumber))
		span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", float64(duration.Nanoseconds())/1e6))
	}

	attrs := map[string]string{
		spanAttrMaxSequence: fmt.Sprintf("%d", maxSequenceNumber),
	}

	if recordStream != nil {
		attrs[spanAttrRecordCount] = fmt.Sprintf("%d", len(recordStream))
	}

	rs.finishTraceSpan(span, statusSuccess, attrs)
}

// finishQuerySpanError finishes a query span with error details.
func (rs RecordStore) finishQuerySpanError(
	span journal.SpanContext,
	errorType string,
	duration time.Duration,
) {
	if span != nil {
		span.SetStatus(statusError)
		span.AddAttribute(spanAttrErrorType, errorType)

		if duration > 0 {
			span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", float64(duration.Nanoseconds())/1e6))
		}
	}

	rs.finishTraceSpan(span, statusError, map[string]string{spanAttrErrorType: errorType})
}

// startAppendSpan starts a tracing span for append operations.
func (rs RecordStore) startAppendSpan(
	ctx context.Context,
	allRecords journal.StorableRecords,
	expectedMaxSequenceNumber journal.MaxSequenceNumberUint,
) (context.Context, journal.SpanContext) {
	spanAttrs := map[string]string{
		spanAttrOperation:   operationAppend,
		spanAttrRecordCount: fmt.Sprintf("%d", len(allRecords)),
		spanAttrExpectedSeq: fmt.Sprintf("%d", expectedMaxSequenceNumber),
	}

	if len(allRecords) > 0 {
		spanAttrs[spanAttrRecordType] = allRecords[0].RecordType
	}

	return rs.startTraceSpan(ctx, spanNameAppend, spanAttrs)
}

// finishAppendSpanSuccess finishes a successful append span with results.
func (rs RecordStore) finishAppendSpanSuccess(
	span journal.SpanContext,
	rowsAffected int64,
	duration time.Duration,
) {
	if span != nil {
		span.SetStatus(statusSuccess)
		span.AddAttribute(spanAttrRowsAffected, fmt.Sprintf("%d", rowsAffected))
		span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", float64(duration.Nanoseconds())/1e6))
	}

	rs.finishTraceSpan(span, statusSuccess, map[string]string{
		spanAttrRowsAffected: fmt.Sprintf("%d", rowsAffected),
	})
}

// finishAppendSpanError finishes an append span with error details.
func (rs RecordStore) finishAppendSpanError(
	span journal.SpanContext,
	errorType string,
	additionalAttrs map[string]string,
) {
	if span != nil {
		span.SetStatus(statusError)
		span.AddAttribute(spanAttrErrorType, errorType)
		for key, value := range additionalAttrs {
			span.AddAttribute(key, value)
		}
	}

	attrs := map[string]string{spanAttrErrorType: errorType}
	for key, value := range additionalAttrs {
		attrs[key] = value
	}

	rs.finishTraceSpan(span, statusError, attrs)
}

// === Tracing Observer Pattern ===
// These observers simplify tracing span management by encapsulating lifecycle complexity.

// queryTracingObserver encapsulates tracing span lifecycle management for query operations.
type queryTracingObserver struct {
	rs   RecordStore
	span journal.SpanContext
}

// appendTracingObserver encapsulates tracing span lifecycle management for append operations.
type appendTracingObserver struct {
	rs   RecordStore
	span journal.SpanContext
}

// startQueryTracing creates a new tracing observer for query operations.
func (rs RecordStore) startQueryTracing(ctx context.Context) (*queryTracingObserver, context.Context) {
	newCtx, span := rs.startQuerySpan(ctx)

	return &queryTracingObserver{
		rs:   rs,
		span: span,
	}, newCtx
}

// startAppendTracing creates a new tracing observer for append operations.
func (rs RecordStore) startAppendTracing(
	ctx context.Context,
	records journal.StorableRecords,
	expectedMaxSequenceNumber journal.MaxSequenceNumberUint,
) (*appendTracingObserver, context.Context) {

	newCtx, span := rs.startAppendSpan(ctx, records, expectedMaxSequenceNumber)

	return &appendTracingObserver{
		rs:   rs,
		span: span,
	}, newCtx
}

// finishError completes the query tracing span with error details.
func (qto *queryTracingObserver) finishError(errorType string, duration time.Duration) {
	if qto.span == nil {
		return
	}

	qto.rs.finishQuerySpanError(qto.span, errorType, duration)
}

// finishSuccess completes the query tracing span for successful operations.
func (qto *queryTracingObserver) finishSuccess(
	recordStream journal.StorableRecords,
	maxSequenceNumber journal.MaxSequenceNumberUint,
	duration time.Duration,
) {
	if qto.span == nil {
		return
	}

	qto.rs.finishQuerySpanSuccess(qto.span, recordStream, maxSequenceNumber, duration)
}

// finishError completes the append operation's tracing span with error details.
func (ato *appendTracingObserver) finishError(errorType string, duration time.Duration) {
	if ato.span == nil {
		return
	}

	// For append operations, we may need additional attributes
	var attrs map[string]string
	if duration > 0 {
		attrs = map[string]string{
			spanAttrDurationMS: ato.formatDuration(duration),
		}
	}

	ato.rs.finishAppendSpanError(ato.span, errorType, attrs)
}

// finishErrorWithAttrs completes the append operation's tracing span with error details and additional attributes.
func (ato *appendTracingObserver) finishErrorWithAttrs(errorType string, attrs map[string]string) {
	if ato.span == nil {
		return
	}

	ato.rs.finishAppendSpanError(ato.span, errorType, attrs)
}

// finishSuccess completes the append operation's tracing span for successful operations.
func (ato *appendTracingObserver) finishSuccess(rowsAffected int64, duration time.Duration) {
	if ato.span == nil {
		return
	}

	ato.rs.finishAppendSpanSuccess(ato.span, rowsAffected, duration)
}

// formatDuration formats duration for span attributes using the RecordStore's helper.
func (ato *appendTracingObserver) formatDuration(duration time.Duration) string {
	return fmt.Sprintf("%.2f", ato.rs.toMilliseconds(duration))
}

// === Metrics Observer Pattern ===
// These observers simplify the metrics collection by encapsulating recording complexity.

// queryMetricsObserver encapsulates the metrics collection for query operations.
type queryMetricsObserver struct {
	rs  RecordStore
	ctx context.Context
}

// appendMetricsObserver encapsulates the metrics collection for append operations.
type appendMetricsObserver struct {
	rs  RecordStore
	ctx context.Context
}

// startQueryMetrics creates a new metrics observer for query operations.
func (rs RecordStore) startQueryMetrics(ctx context.Context) *queryMetricsObserver {
	return &queryMetricsObserver{
		rs:  rs,
		ctx: ctx,
	}
}

// startAppendMetrics creates a new metrics observer for append operations.
func (rs RecordStore) startAppendMetrics(ctx context.Context) *appendMetricsObserver {
	return &appendMetricsObserver{
		rs:  rs,
		ctx: ctx,
	}
}

// recordSuccess records all metrics for a successful query operation.
func (qmo *queryMetricsObserver) recordSuccess(recordStream journal.StorableRecords, duration time.Duration) {
	qmo.rs.recordDurationMetricsContext(qmo.ctx, metricQueryDuration, duration, operationQuery, statusSuccess)

	recordCount := float64(0)
	if recordStream != nil {
		recordCount = float64(len(recordStream))
	}

	qmo.rs.recordValueMetricsContext(qmo.ctx, metricRecordsQueried, recordCount, operationQuery, statusSuccess)
}

// recordError records all metrics for a failed query operation.
func (qmo *queryMetricsObserver) recordError(errorType string, duration time.Duration) {
	qmo.rs.recordDurationMetricsContext(qmo.ctx, metricQueryDuration, duration, operationQuery, statusError)
	qmo.rs.recordErrorMetricsContext(qmo.ctx, operationQuery, errorType)
}

// recordSuccess records all metrics for a successful append operation.
func (amo *appendMetricsObserver) recordSuccess(recordCount int, duration time.Duration) {
	amo.rs.recordDurationMetricsContext(amo.ctx, metricAppendDuration, duration, operationAppend, statusSuccess)
	amo.rs.recordValueMetricsContext(amo.ctx, metricRecordsAppended, float64(recordCount), operationAppend, statusSuccess)
}

// recordError records all metrics for a failed append operation.
func (amo *appendMetricsObserver) recordError(errorType string, duration time.Duration) {
	amo.rs.recordDurationMetricsContext(amo.ctx, metricAppendDuration, duration, operationAppend, statusError)
	amo.rs.recordErrorMetricsContext(amo.ctx, operationAppend, errorType)
}

// recordConcurrencyConflict records metrics for concurrency conflicts during append operations.
func (amo *appendMetricsObserver) recordConcurrencyConflict() {
	amo.rs.recordConcurrencyConflictMetrics(operationAppend)
}

// === Contextual Logging Pattern ===
// These methods provide context-aware logging with automatic trace correlation when available.

// logQueryWithDurationContext logs SQL queries with execution time and context correlation.
func (rs RecordStore) logQueryWithDurationContext(
	ctx context.Context,
	sqlQuery string,
	action string,
	duration time.Duration,
) {
	if rs.contextualLogger != nil {
		rs.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, logAttrDurationMS, rs.toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperationContext logs operational information with context correlation.
func (rs RecordStore) logOperationContext(ctx context.Context, action string, args ...any) {
	if rs.contextualLogger != nil {
		rs.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	}
}

// logErrorContext logs error information with context correlation.
func (rs RecordStore) logErrorContext(
	ctx context.Context,
	message string,
	err error,
	args ...any,
) {
	if rs.contextualLogger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		rs.contextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}
