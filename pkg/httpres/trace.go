package httpres

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name used by WithTracing("").
const defaultTracerName = "sigflow"

// startSpan opens a client span for one exchange. Tracing is off unless
// WithTracing was supplied; a nil tracer short-circuits to no-ops.
func (r *Resource) startSpan(ctx context.Context, c call) (context.Context, trace.Span) {
	if r.tracer == nil {
		return ctx, nil
	}
	return r.tracer.Start(ctx, "httpres.request",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", c.method),
			attribute.String("http.url", r.url(c.path)),
		),
	)
}

func (r *Resource) endSpan(span trace.Span, status int, err error) {
	if span == nil {
		return
	}
	if status != 0 {
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
