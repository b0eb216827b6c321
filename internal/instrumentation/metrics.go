package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrStatus    = "status"
	attrOperation = "operation"
	attrCategory  = "category"
	attrTier      = "tier"
	attrTransport = "transport"
	attrAccount   = "account"
)

// Metrics records the pipeline's observability metrics. The zero value
// is a no-op recorder; every method nil-guards its instruments so a
// disabled provider costs nothing.
type Metrics struct {
	messagesProcessedTotal metric.Int64Counter
	draftsCreatedTotal     metric.Int64Counter
	analysisTotal          metric.Int64Counter

	mailboxOperationsTotal   metric.Int64Counter
	mailboxOperationDuration metric.Float64Histogram

	generatorCallsTotal   metric.Int64Counter
	generatorCallDuration metric.Float64Histogram

	runsTotal   metric.Int64Counter
	runDuration metric.Float64Histogram

	// detailedLabels controls whether high-cardinality labels are added.
	detailedLabels bool
}

// NewMetrics creates a Metrics instance with all instruments
// initialized on the given meter.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{detailedLabels: detailedLabels}

	var err error

	m.messagesProcessedTotal, err = meter.Int64Counter(
		"messages_processed_total",
		metric.WithDescription("Total number of messages handled by the pipeline"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create messages_processed_total counter: %w", err)
	}

	m.draftsCreatedTotal, err = meter.Int64Counter(
		"drafts_created_total",
		metric.WithDescription("Total number of reply drafts created"),
		metric.WithUnit("{draft}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drafts_created_total counter: %w", err)
	}

	m.analysisTotal, err = meter.Int64Counter(
		"analysis_total",
		metric.WithDescription("Total number of thread analyses by producing tier"),
		metric.WithUnit("{analysis}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis_total counter: %w", err)
	}

	m.mailboxOperationsTotal, err = meter.Int64Counter(
		"mailbox_operations_total",
		metric.WithDescription("Total number of mailbox API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mailbox_operations_total counter: %w", err)
	}

	m.mailboxOperationDuration, err = meter.Float64Histogram(
		"mailbox_operation_duration_seconds",
		metric.WithDescription("Mailbox API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mailbox_operation_duration_seconds histogram: %w", err)
	}

	m.generatorCallsTotal, err = meter.Int64Counter(
		"generator_calls_total",
		metric.WithDescription("Total number of remote generator calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator_calls_total counter: %w", err)
	}

	m.generatorCallDuration, err = meter.Float64Histogram(
		"generator_call_duration_seconds",
		metric.WithDescription("Remote generator call duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator_call_duration_seconds histogram: %w", err)
	}

	m.runsTotal, err = meter.Int64Counter(
		"runs_total",
		metric.WithDescription("Total number of pipeline runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create runs_total counter: %w", err)
	}

	m.runDuration, err = meter.Float64Histogram(
		"run_duration_seconds",
		metric.WithDescription("Pipeline run duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1.0, 5.0, 15.0, 30.0, 60.0, 120.0, 300.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordMessageProcessed records the outcome of one message:
// "success", "error" or "skipped".
func (m *Metrics) RecordMessageProcessed(ctx context.Context, status string) {
	if m.messagesProcessedTotal == nil {
		return
	}
	m.messagesProcessedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrStatus, status),
	))
}

// RecordDraftCreated records a created draft with its response
// category. The account label is only added when detailed labels are
// enabled.
func (m *Metrics) RecordDraftCreated(ctx context.Context, category, account string) {
	if m.draftsCreatedTotal == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(attrCategory, category),
	}
	if m.detailedLabels && account != "" {
		attrs = append(attrs, attribute.String(attrAccount, account))
	}
	m.draftsCreatedTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordAnalysis records which tier produced a thread analysis.
func (m *Metrics) RecordAnalysis(ctx context.Context, tier string) {
	if m.analysisTotal == nil {
		return
	}
	m.analysisTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrTier, tier),
	))
}

// RecordMailboxOperation records a mailbox API operation (list, get,
// draft, modify) with status and duration.
func (m *Metrics) RecordMailboxOperation(ctx context.Context, operation, status string, duration time.Duration) {
	if m.mailboxOperationsTotal == nil || m.mailboxOperationDuration == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}
	m.mailboxOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.mailboxOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordGeneratorCall records a remote generator call by transport
// ("primary", "secondary", "reply") with status and duration.
func (m *Metrics) RecordGeneratorCall(ctx context.Context, transport, status string, duration time.Duration) {
	if m.generatorCallsTotal == nil || m.generatorCallDuration == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(attrTransport, transport),
		attribute.String(attrStatus, status),
	}
	m.generatorCallsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.generatorCallDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordRun records a completed pipeline run with status and duration.
func (m *Metrics) RecordRun(ctx context.Context, status string, duration time.Duration) {
	if m.runsTotal == nil || m.runDuration == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(attrStatus, status),
	}
	m.runsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
