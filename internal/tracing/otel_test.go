package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInjectHeaders(t *testing.T) {
	tp, err := ConfigureTraceProvider("", "booking-service-test")
	require.NoError(t, err)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	assert.Empty(t, InjectHeaders(context.Background()))

	ctx, span := otel.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	headers := InjectHeaders(ctx)
	require.Contains(t, headers, "traceparent")
	assert.Contains(t, headers["traceparent"], span.SpanContext().TraceID().String())
}
