package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var (
	httpTracer = otel.Tracer("tournament-engine/internal/interfaces/httpapi")

	// passiveSpan is handed out when nothing should be recorded; End on it is
	// a no-op.
	passiveSpan = trace.SpanFromContext(context.Background())
)

// startSpan opens a child span when the tracing middleware already opened a
// request span. Helper and middleware names are filtered so a trace carries
// one span per handler, not one per function.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, passiveSpan
	}
	if !shouldCreateHTTPAPISpan(name) {
		return ctx, passiveSpan
	}
	return httpTracer.Start(ctx, name)
}

func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, "httpapi.Handler.")
}
