package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/organiser/deploy-trigger/pkg/telemetry"
)

const traceParent = "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"

func TestTraceParentRoundTrip(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	ctx := telemetry.WithTraceParent(context.Background(), traceParent)
	assert.Equal(t, traceParent, telemetry.TraceParentHeader(ctx))
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", telemetry.TraceID(ctx))
}

func TestTraceParentGarbage(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	ctx := telemetry.WithTraceParent(context.Background(), "not-a-traceparent")
	assert.Empty(t, telemetry.TraceParentHeader(ctx))
}
