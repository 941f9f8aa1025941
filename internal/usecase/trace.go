package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var (
	serviceTracer = otel.Tracer("tournament-engine/internal/usecase")
	ambientSpan   = trace.SpanFromContext(context.Background())
)

// startServiceSpan opens a child span under the caller's request span.
// Without a valid parent it hands back the ambient noop span so background
// work never produces orphan root traces.
func startServiceSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if strings.TrimSpace(name) == "" || !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, ambientSpan
	}
	return serviceTracer.Start(ctx, name)
}
