package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// RecordError centralises error bookkeeping across all domains: records the
// error on the span, increments counter, and logs with trace context. attrs
// are added to both the metric and the span. Writing the HTTP response is
// left to the caller.
func RecordError(ctx context.Context, span trace.Span, logger *zap.Logger, counter metric.Int64Counter, opName, msg string, err error, attrs ...attribute.KeyValue) {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	span.SetAttributes(attrs...)

	metricAttrs := append([]attribute.KeyValue{attribute.String("operation", opName)}, attrs...)
	counter.Add(ctx, 1, metric.WithAttributes(metricAttrs...))

	fields := []zap.Field{
		zap.String("operation", opName),
		zap.Error(err),
		zap.String("request_id", RequestIDFromContext(ctx)),
	}
	for _, a := range attrs {
		fields = append(fields, zap.String(string(a.Key), a.Value.Emit()))
	}

	logger.Error(msg, fields...)
}
