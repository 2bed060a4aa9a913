package postgresengine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/libraryops/library-records-go/librarystore"
)

// logQueryWithDuration logs SQL statements with execution time at debug level if a logger is configured.
func (gw *Gateway) logQueryWithDuration(
	ctx context.Context,
	operation string,
	sqlQuery string,
	duration time.Duration,
) {
	if gw.logger != nil {
		gw.logger.Debug(logMsgSQLExecuted+operation, logAttrDurationMS, gw.toMilliseconds(duration), logAttrQuery, sqlQuery)
	}

	if gw.contextualLogger != nil {
		gw.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+operation, logAttrDurationMS, gw.toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level if a logger is configured.
func (gw *Gateway) logOperation(ctx context.Context, operation string, args ...any) {
	if gw.logger != nil {
		gw.logger.Info(logMsgOperation+operation, args...)
	}

	if gw.contextualLogger != nil {
		gw.contextualLogger.InfoContext(ctx, logMsgOperation+operation, args...)
	}
}

// logSuppressedReadError logs a swallowed read failure at warn level if a logger is configured.
func (gw *Gateway) logSuppressedReadError(ctx context.Context, operation string, err error) {
	args := []any{logAttrOperation, operation, logAttrError, err.Error(), logAttrPolicy, gw.readErrorPolicy.String()}

	if gw.logger != nil {
		gw.logger.Warn(logMsgReadErrorSuppressed, args...)
	}

	if gw.contextualLogger != nil {
		gw.contextualLogger.WarnContext(ctx, logMsgReadErrorSuppressed, args...)
	}
}

// logError logs error information at the error level if a logger is configured.
func (gw *Gateway) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if gw.logger != nil {
		gw.logger.Error(message, allArgs...)
	}

	if gw.contextualLogger != nil {
		gw.contextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (gw *Gateway) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// recordDurationMetrics records per-operation duration metrics with context if the collector supports it.
func (gw *Gateway) recordDurationMetrics(
	ctx context.Context,
	operation string,
	status string,
	duration time.Duration,
) {
	if gw.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		labelStatus:       status,
	}

	// Use context-aware method if available
	if contextualCollector, ok := gw.metricsCollector.(librarystore.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metricOperationDuration, duration, labels)
	} else {
		gw.metricsCollector.RecordDuration(metricOperationDuration, duration, labels)
	}
}

// recordErrorMetrics records error counters with context if the collector supports it.
func (gw *Gateway) recordErrorMetrics(ctx context.Context, operation string, errorType string) {
	if gw.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		labelStatus:       statusError,
		spanAttrErrorType: errorType,
	}

	// Use context-aware method if available
	if contextualCollector, ok := gw.metricsCollector.(librarystore.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricDatabaseErrors, labels)
	} else {
		gw.metricsCollector.IncrementCounter(metricDatabaseErrors, labels)
	}
}

// recordRecordCountMetrics records the number of records returned by a read operation.
func (gw *Gateway) recordRecordCountMetrics(ctx context.Context, operation string, count int) {
	if gw.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		labelStatus:       statusSuccess,
	}

	// Use context-aware method if available
	if contextualCollector, ok := gw.metricsCollector.(librarystore.ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metricRecordsFetched, float64(count), labels)
	} else {
		gw.metricsCollector.RecordValue(metricRecordsFetched, float64(count), labels)
	}
}

// startOperationSpan starts a tracing span for the given operation if the tracing collector is configured.
func (gw *Gateway) startOperationSpan(ctx context.Context, operation string) (context.Context, SpanContext) {
	if gw.tracingCollector == nil {
		return ctx, nil
	}

	return gw.tracingCollector.StartSpan(ctx, spanNamePrefix+operation, map[string]string{
		spanAttrOperation: operation,
	})
}

// finishOperationSpanSuccess finishes a successful operation span with result details.
func (gw *Gateway) finishOperationSpanSuccess(span SpanContext, recordCount int, duration time.Duration) {
	if gw.tracingCollector == nil || span == nil {
		return
	}

	span.SetStatus(statusSuccess)
	span.AddAttribute(spanAttrRecordCount, fmt.Sprintf("%d", recordCount))
	span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", gw.toMilliseconds(duration)))

	gw.tracingCollector.FinishSpan(span, statusSuccess, map[string]string{
		spanAttrRecordCount: fmt.Sprintf("%d", recordCount),
	})
}

// finishOperationSpanError finishes an operation span with error details.
func (gw *Gateway) finishOperationSpanError(span SpanContext, errorType string) {
	if gw.tracingCollector == nil || span == nil {
		return
	}

	span.SetStatus(statusError)
	span.AddAttribute(spanAttrErrorType, errorType)

	gw.tracingCollector.FinishSpan(span, statusError, map[string]string{
		spanAttrErrorType: errorType,
	})
}
