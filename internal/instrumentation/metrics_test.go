package instrumentation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T, detailed bool) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewMetrics(provider.Meter("test"), detailed)
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, scope := range rm.ScopeMetrics {
		for _, metric := range scope.Metrics {
			out[metric.Name] = metric
		}
	}
	return out
}

func TestMetricsRecordCounters(t *testing.T) {
	m, reader := newTestMetrics(t, false)
	ctx := context.Background()

	m.RecordMessageProcessed(ctx, StatusSuccess)
	m.RecordMessageProcessed(ctx, StatusSuccess)
	m.RecordMessageProcessed(ctx, StatusSkipped)
	m.RecordDraftCreated(ctx, "support", "me@xecurify.com")
	m.RecordAnalysis(ctx, "heuristic")
	m.RecordRun(ctx, StatusSuccess, 2*time.Second)

	metrics := collect(t, reader)
	assert.Contains(t, metrics, "messages_processed_total")
	assert.Contains(t, metrics, "drafts_created_total")
	assert.Contains(t, metrics, "analysis_total")
	assert.Contains(t, metrics, "runs_total")
	assert.Contains(t, metrics, "run_duration_seconds")

	sum, ok := metrics["messages_processed_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(3), total)
}

func TestMetricsDetailedLabelsGateAccount(t *testing.T) {
	m, reader := newTestMetrics(t, false)
	m.RecordDraftCreated(context.Background(), "pricing", "me@xecurify.com")

	metrics := collect(t, reader)
	sum, ok := metrics["drafts_created_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	_, hasAccount := sum.DataPoints[0].Attributes.Value(attribute.Key(attrAccount))
	assert.False(t, hasAccount)

	detailed, detailedReader := newTestMetrics(t, true)
	detailed.RecordDraftCreated(context.Background(), "pricing", "me@xecurify.com")

	metrics = collect(t, detailedReader)
	sum, ok = metrics["drafts_created_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	_, hasAccount = sum.DataPoints[0].Attributes.Value(attribute.Key(attrAccount))
	assert.True(t, hasAccount)
}

func TestMetricsZeroValueIsNoOp(t *testing.T) {
	var m Metrics
	ctx := context.Background()

	// Must not panic with uninitialized instruments.
	m.RecordMessageProcessed(ctx, StatusError)
	m.RecordDraftCreated(ctx, "support", "")
	m.RecordAnalysis(ctx, "primary")
	m.RecordMailboxOperation(ctx, "list", StatusSuccess, time.Second)
	m.RecordGeneratorCall(ctx, "primary", StatusError, time.Second)
	m.RecordRun(ctx, StatusError, time.Second)
}

func TestMetricsDurationsRecorded(t *testing.T) {
	m, reader := newTestMetrics(t, false)
	ctx := context.Background()

	m.RecordMailboxOperation(ctx, "draft", StatusSuccess, 120*time.Millisecond)
	m.RecordGeneratorCall(ctx, "primary", StatusSuccess, 800*time.Millisecond)

	metrics := collect(t, reader)

	hist, ok := metrics["mailbox_operation_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.InDelta(t, 0.12, hist.DataPoints[0].Sum, 1e-9)

	hist, ok = metrics["generator_call_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.InDelta(t, 0.8, hist.DataPoints[0].Sum, 1e-9)
}
