package obs

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type fieldsKey struct{}

// ContextWithFields attaches log fields to ctx. WithTrace adds them to every
// logger derived from that context, after the fields already attached.
func ContextWithFields(ctx context.Context, fields ...zap.Field) context.Context {
	if len(fields) == 0 {
		return ctx
	}
	prev, _ := ctx.Value(fieldsKey{}).([]zap.Field)
	merged := make([]zap.Field, 0, len(prev)+len(fields))
	merged = append(merged, prev...)
	merged = append(merged, fields...)
	return context.WithValue(ctx, fieldsKey{}, merged)
}

// WithTrace decorates log with the context fields and the trace and span
// ids found in ctx.
func WithTrace(ctx context.Context, log *zap.Logger) *zap.Logger {
	if log == nil {
		log = zap.NewNop()
	}
	if fs, ok := ctx.Value(fieldsKey{}).([]zap.Field); ok {
		log = log.With(fs...)
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return log
	}
	return log.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}
