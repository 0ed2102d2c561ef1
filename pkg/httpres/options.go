package httpres

import (
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/sigflow-dev/sigflow/pkg/retry"
)

// Option configures a Resource at construction time.
type Option func(*Resource)

// WithClient substitutes the transport client. The resource shares it with
// the caller and never closes it.
func WithClient(c *http.Client) Option {
	return func(r *Resource) {
		if c != nil {
			r.client = c
		}
	}
}

// WithTimeout bounds each call with a per-request deadline. Zero means no
// deadline beyond the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(r *Resource) { r.timeout = d }
}

// WithHeader adds a default header sent on every request.
func WithHeader(name, value string) Option {
	return func(r *Resource) { r.headers.Add(name, value) }
}

// WithRetry configures the retry policy.
func WithRetry(opts retry.Options) Option {
	return func(r *Resource) { r.retryOpts = opts }
}

// WithShapeMatcher substitutes the structural validator used to route error
// payloads to typed handlers. Defaults to OverlapMatcher.
func WithShapeMatcher(m ShapeMatcher) Option {
	return func(r *Resource) {
		if m != nil {
			r.shape = m
		}
	}
}

// WithLogger substitutes the logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resource) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics attaches Prometheus collectors to the resource.
func WithMetrics(m *Metrics) Option {
	return func(r *Resource) { r.metrics = m }
}

// WithTracing enables an OpenTelemetry client span per request, using the
// globally registered tracer provider. An empty name uses the default.
func WithTracing(tracerName string) Option {
	return func(r *Resource) {
		if tracerName == "" {
			tracerName = defaultTracerName
		}
		r.tracer = otel.Tracer(tracerName)
	}
}
