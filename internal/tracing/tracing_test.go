package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartSpan_NoTracer(t *testing.T) {
	SetTracer(nil)

	ctx := context.Background()
	got, span := StartSpan(ctx, "noop")
	defer span.End()

	assert.Equal(t, ctx, got)
	assert.False(t, span.SpanContext().IsValid())
	assert.Empty(t, GetTraceID(got))
}

func TestStartSpan_RecordsSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	SetTracer(tp.Tracer("test"))
	t.Cleanup(func() { SetTracer(nil) })

	ctx, span := StartSpan(context.Background(), "stage", attribute.Int("records", 3))
	assert.NotEmpty(t, GetTraceID(ctx))
	RecordError(span, errors.New("boom"))
	RecordError(span, nil)
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "stage", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Contains(t, ended[0].Attributes(), attribute.Int("records", 3))
	assert.Len(t, ended[0].Events(), 1)
}
