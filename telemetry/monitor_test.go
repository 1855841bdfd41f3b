package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMonitor(t *testing.T) (*Monitor, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewMonitor(WithMeterProvider(provider))
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	found := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			found[m.Name] = m
		}
	}
	return found
}

// sumBy returns counter totals keyed by the value of attribute key.
func sumBy(t *testing.T, m metricdata.Metrics, key string) map[string]int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "expected Sum[int64], got %T", m.Data)

	totals := make(map[string]int64)
	for _, dp := range sum.DataPoints {
		v, ok := dp.Attributes.Value(attribute.Key(key))
		require.True(t, ok, "missing attribute %q", key)
		totals[v.AsString()] += dp.Value
	}
	return totals
}

func TestMonitor_Queries(t *testing.T) {
	m, reader := newTestMonitor(t)

	m.QueryReceived("p")
	m.QueryReceived("pi")
	m.QueryReceived("")
	m.Debounced("pi")
	m.Cleared()

	metrics := collect(t, reader)
	require.Contains(t, metrics, QueriesMetric)
	assert.Equal(t, map[string]int64{"input": 2, "clear": 1}, sumBy(t, metrics[QueriesMetric], "kind"))
}

func TestMonitor_Searches(t *testing.T) {
	m, reader := newTestMonitor(t)

	m.PrimarySearch("xyz123", 0, nil)
	m.FallbackSearch("xyz123", 2, nil)
	m.PrimarySearch("pizza", 0, errors.New("timeout"))
	m.FallbackSearch("pizza", 0, errors.New("timeout"))
	m.PrimarySearch("cafe", 3, nil)

	metrics := collect(t, reader)
	require.Contains(t, metrics, ProviderSearchMetric)
	assert.Equal(t, map[string]int64{"primary": 3, "fallback": 2}, sumBy(t, metrics[ProviderSearchMetric], "tier"))
	assert.Equal(t, map[string]int64{"ok": 2, "empty": 1, "error": 2}, sumBy(t, metrics[ProviderSearchMetric], "outcome"))
}

func TestMonitor_Rounds(t *testing.T) {
	m, reader := newTestMonitor(t)

	m.RoundPublished(1, 3)
	m.RoundPublished(3, 0)
	m.RoundDiscarded(2)

	metrics := collect(t, reader)
	assert.Equal(t, map[string]int64{"published": 2, "discarded": 1}, sumBy(t, metrics[RoundsMetric], "outcome"))

	hist, ok := metrics[ResultsMetric].Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
	assert.Equal(t, int64(3), hist.DataPoints[0].Sum)
}

func TestMonitor_Suggestions(t *testing.T) {
	m, reader := newTestMonitor(t)

	m.SuggestionsReceived(5)
	m.SuggestionResolved(nil)
	m.SuggestionResolved(nil)
	m.SuggestionResolved(errors.New("not found"))
	m.SuggestionsMerged(1)

	metrics := collect(t, reader)
	assert.Equal(t, map[string]int64{"received": 5, "resolved": 2, "failed": 1, "merged": 1},
		sumBy(t, metrics[SuggestionsMetric], "stage"))
}

func TestMonitor_ObserveRequest(t *testing.T) {
	m, reader := newTestMonitor(t)

	m.ObserveRequest("nominatim", 250*time.Millisecond)
	m.ObserveRequest("nominatim", 750*time.Millisecond)

	metrics := collect(t, reader)
	hist, ok := metrics[RequestDurationMetric].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
	assert.InDelta(t, 1.0, hist.DataPoints[0].Sum, 1e-9)

	v, ok := hist.DataPoints[0].Attributes.Value(attribute.Key("provider"))
	require.True(t, ok)
	assert.Equal(t, "nominatim", v.AsString())
}

func TestNewMonitor_GlobalProvider(t *testing.T) {
	m, err := NewMonitor()
	require.NoError(t, err)
	m.QueryReceived("noop provider accepts records")
}
