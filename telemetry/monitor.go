package telemetry

import (
	"context"
	"time"

	"github.com/poiesic/waypoint/search"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/poiesic/waypoint"

// Metric names.
const (
	QueriesMetric         = "waypoint.search.queries"
	ProviderSearchMetric  = "waypoint.search.provider.requests"
	RoundsMetric          = "waypoint.search.rounds"
	ResultsMetric         = "waypoint.search.results"
	SuggestionsMetric     = "waypoint.search.suggestions"
	RequestDurationMetric = "waypoint.provider.request.duration"
)

// Monitor records pipeline events as OpenTelemetry metrics.
type Monitor struct {
	queries     metric.Int64Counter
	searches    metric.Int64Counter
	rounds      metric.Int64Counter
	results     metric.Int64Histogram
	suggestions metric.Int64Counter
	durations   metric.Float64Histogram
}

var _ search.SearchMonitor = (*Monitor)(nil)

type options struct {
	provider metric.MeterProvider
}

// Option configures a Monitor.
type Option func(*options)

// WithMeterProvider uses mp instead of the global meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		o.provider = mp
	}
}

// NewMonitor creates the instruments and returns a ready Monitor.
func NewMonitor(opts ...Option) (*Monitor, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.provider == nil {
		o.provider = otel.GetMeterProvider()
	}
	meter := o.provider.Meter(meterName)

	m := &Monitor{}
	var err error
	if m.queries, err = meter.Int64Counter(QueriesMetric,
		metric.WithDescription("Queries received from the consumer, by kind (input, clear)"),
		metric.WithUnit("{query}")); err != nil {
		return nil, err
	}
	if m.searches, err = meter.Int64Counter(ProviderSearchMetric,
		metric.WithDescription("Dispatch searches by tier (primary, fallback) and outcome (ok, empty, error)"),
		metric.WithUnit("{request}")); err != nil {
		return nil, err
	}
	if m.rounds, err = meter.Int64Counter(RoundsMetric,
		metric.WithDescription("Completed dispatch rounds by outcome (published, discarded)"),
		metric.WithUnit("{round}")); err != nil {
		return nil, err
	}
	if m.results, err = meter.Int64Histogram(ResultsMetric,
		metric.WithDescription("Candidates published per round"),
		metric.WithUnit("{candidate}")); err != nil {
		return nil, err
	}
	if m.suggestions, err = meter.Int64Counter(SuggestionsMetric,
		metric.WithDescription("Suggestion channel activity by stage (received, resolved, failed, merged)"),
		metric.WithUnit("{suggestion}")); err != nil {
		return nil, err
	}
	if m.durations, err = meter.Float64Histogram(RequestDurationMetric,
		metric.WithDescription("Upstream place service request latency"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Monitor) QueryReceived(query string) {
	kind := "input"
	if query == "" {
		kind = "clear"
	}
	m.queries.Add(context.Background(), 1, metric.WithAttributes(attribute.String("kind", kind)))
}

func (m *Monitor) Debounced(_ string) {}

func (m *Monitor) PrimarySearch(_ string, results int, err error) {
	m.recordSearch("primary", results, err)
}

func (m *Monitor) FallbackSearch(_ string, results int, err error) {
	m.recordSearch("fallback", results, err)
}

func (m *Monitor) recordSearch(tier string, results int, err error) {
	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case results == 0:
		outcome = "empty"
	}
	m.searches.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("tier", tier),
		attribute.String("outcome", outcome),
	))
}

func (m *Monitor) RoundPublished(_ uint64, results int) {
	ctx := context.Background()
	m.rounds.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "published")))
	m.results.Record(ctx, int64(results))
}

func (m *Monitor) RoundDiscarded(_ uint64) {
	m.rounds.Add(context.Background(), 1, metric.WithAttributes(attribute.String("outcome", "discarded")))
}

func (m *Monitor) SuggestionsReceived(count int) {
	m.addSuggestions("received", count)
}

func (m *Monitor) SuggestionResolved(err error) {
	if err != nil {
		m.addSuggestions("failed", 1)
		return
	}
	m.addSuggestions("resolved", 1)
}

func (m *Monitor) SuggestionsMerged(added int) {
	m.addSuggestions("merged", added)
}

func (m *Monitor) Cleared() {}

func (m *Monitor) addSuggestions(stage string, n int) {
	m.suggestions.Add(context.Background(), int64(n), metric.WithAttributes(attribute.String("stage", stage)))
}

// ObserveRequest records the latency of an upstream request.
func (m *Monitor) ObserveRequest(label string, duration time.Duration) {
	m.durations.Record(context.Background(), duration.Seconds(),
		metric.WithAttributes(attribute.String("provider", label)))
}
