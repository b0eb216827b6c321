package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope name used for all spans.
const TracerName = "github.com/xecurify/draftpilot"

// Span attribute keys.
const (
	AttrPipelineOperation = "pipeline.operation"
	AttrMailboxOperation  = "mailbox.operation"
	AttrMailboxAccount    = "mailbox.account"
	AttrThreadID          = "mail.thread_id"
	AttrMessageID         = "mail.message_id"
	AttrCategory          = "reply.category"
	AttrAnalysisTier      = "analysis.tier"
	AttrGeneratorModel    = "generator.model"
	AttrErrorType         = "error.type"
)

// StartSpan starts a span using the given tracer.
func StartSpan(ctx context.Context, tracer trace.Tracer, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, opts...)
}

// SetSpanError records an error on the span and sets its status.
func SetSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetSpanSuccess marks the span as successful.
func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// GetTraceID returns the trace ID from the context, or empty when no
// recording span is present.
func GetTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// GetSpanID returns the span ID from the context, or empty when no
// recording span is present.
func GetSpanID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.SpanID().String()
}

// MessageAttributes builds the span attributes for one message's trip
// through the pipeline.
func MessageAttributes(threadID, messageID string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 2)
	if threadID != "" {
		attrs = append(attrs, attribute.String(AttrThreadID, threadID))
	}
	if messageID != "" {
		attrs = append(attrs, attribute.String(AttrMessageID, messageID))
	}
	return attrs
}
