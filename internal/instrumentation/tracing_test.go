package instrumentation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newRecordingTracer(t *testing.T) (trace.Tracer, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return provider.Tracer(TracerName), recorder
}

func TestStartSpanAndStatus(t *testing.T) {
	tracer, recorder := newRecordingTracer(t)

	ctx, span := StartSpan(context.Background(), tracer, "pipeline.run")
	assert.NotEmpty(t, GetTraceID(ctx))
	assert.NotEmpty(t, GetSpanID(ctx))
	SetSpanSuccess(span)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "pipeline.run", spans[0].Name())
}

func TestSetSpanError(t *testing.T) {
	tracer, recorder := newRecordingTracer(t)

	_, span := StartSpan(context.Background(), tracer, "pipeline.message")
	SetSpanError(span, errors.New("draft creation failed"))
	SetSpanError(span, nil) // no-op
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestTraceIDEmptyWithoutSpan(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
	assert.Empty(t, GetSpanID(context.Background()))
}

func TestMessageAttributes(t *testing.T) {
	attrs := MessageAttributes("t1", "m1")
	assert.Len(t, attrs, 2)

	attrs = MessageAttributes("", "m1")
	assert.Len(t, attrs, 1)

	assert.Empty(t, MessageAttributes("", ""))
}
