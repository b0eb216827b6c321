package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xecurify/draftpilot/internal/instrumentation"
)

func newTestProvider(t *testing.T) *instrumentation.Provider {
	t.Helper()
	cfg := instrumentation.DefaultConfig()
	cfg.Enabled = true
	cfg.MetricsExporter = instrumentation.ExporterPrometheus
	cfg.TracingExporter = instrumentation.ExporterNone

	provider, err := instrumentation.NewProvider(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return provider
}

func TestNewMetricsServerRequiresProvider(t *testing.T) {
	_, err := NewMetricsServer(MetricsServerConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "instrumentation provider is required")
}

func TestNewMetricsServerRequiresEnabledProvider(t *testing.T) {
	cfg := instrumentation.DefaultConfig()
	cfg.Enabled = false
	provider, err := instrumentation.NewProvider(context.Background(), cfg)
	require.NoError(t, err)

	_, err = NewMetricsServer(MetricsServerConfig{InstrumentationProvider: provider})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not enabled")
}

func TestNewMetricsServerDefaults(t *testing.T) {
	s, err := NewMetricsServer(MetricsServerConfig{
		InstrumentationProvider: newTestProvider(t),
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultMetricsAddr, s.Addr())
}

func TestMetricsEndpoint(t *testing.T) {
	s, err := NewMetricsServer(MetricsServerConfig{
		Addr:                    ":0",
		InstrumentationProvider: newTestProvider(t),
	})
	require.NoError(t, err)

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealthAndReadinessProbes(t *testing.T) {
	s, err := NewMetricsServer(MetricsServerConfig{
		Addr:                    ":0",
		InstrumentationProvider: newTestProvider(t),
	})
	require.NoError(t, err)

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Not ready until the watch loop reports a successful check.
	resp, err = http.Get(ts.URL + "/readyz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	s.SetReady(true)

	resp, err = http.Get(ts.URL + "/readyz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var probe struct {
		Status string `json:"status"`
		Uptime string `json:"uptime"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&probe))
	assert.Equal(t, "ok", probe.Status)
	assert.NotEmpty(t, probe.Uptime)
}

func TestShutdownBeforeStart(t *testing.T) {
	s, err := NewMetricsServer(MetricsServerConfig{
		InstrumentationProvider: newTestProvider(t),
	})
	require.NoError(t, err)
	assert.NoError(t, s.Shutdown(context.Background()))
}

func TestServerConstructedBeforeStart(t *testing.T) {
	s, err := NewMetricsServer(MetricsServerConfig{
		InstrumentationProvider: newTestProvider(t),
	})
	require.NoError(t, err)

	// Shutdown must always see the same server Start serves, even when
	// Start has not run yet in its goroutine.
	require.NotNil(t, s.httpServer)
	assert.Equal(t, DefaultMetricsAddr, s.httpServer.Addr)
}
