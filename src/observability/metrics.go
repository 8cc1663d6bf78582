// Package observability provides Prometheus metrics for the report engine.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "taxreport"

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds the collectors of the service. A nil *Metrics records nothing.
type Metrics struct {
	// Report metrics
	ReportsComputed *prometheus.CounterVec
	ReportDuration  *prometheus.HistogramVec
	DealsMatched    prometheus.Counter

	// Rate metrics
	RateLookups       *prometheus.CounterVec
	RateLookupLatency *prometheus.HistogramVec

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
}

// NewMetrics registers every collector with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ReportsComputed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reports",
			Name:      "computed_total",
			Help:      "Total number of reports computed by kind and outcome",
		}, []string{"kind", "outcome"}),
		ReportDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "reports",
			Name:      "duration_seconds",
			Help:      "Report computation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		DealsMatched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reports",
			Name:      "deals_matched_total",
			Help:      "Total number of matched deals valued",
		}),
		RateLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rates",
			Name:      "lookups_total",
			Help:      "Total number of exchange rate lookups by source and outcome",
		}, []string{"source", "outcome"}),
		RateLookupLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rates",
			Name:      "lookup_latency_seconds",
			Help:      "Latency of exchange rate lookups against the upstream API",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}, []string{"source"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status code",
		}, []string{"route", "code"}),
	}
}

// Handler returns the /metrics handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// RecordReport records one report computation.
func (m *Metrics) RecordReport(kind string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.ReportsComputed.WithLabelValues(kind, outcome(err)).Inc()
	m.ReportDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// RecordDeals adds n valued deals.
func (m *Metrics) RecordDeals(n int) {
	if m == nil {
		return
	}
	m.DealsMatched.Add(float64(n))
}

// RecordRateLookup counts a lookup answered by source: "cache", "store",
// "nbu" or "local".
func (m *Metrics) RecordRateLookup(source string, err error) {
	if m == nil {
		return
	}
	m.RateLookups.WithLabelValues(source, outcome(err)).Inc()
}

// ObserveUpstreamLatency records the duration of one upstream call.
func (m *Metrics) ObserveUpstreamLatency(source string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RateLookupLatency.WithLabelValues(source).Observe(elapsed.Seconds())
}

// RecordHTTPRequest counts a served request.
func (m *Metrics) RecordHTTPRequest(route, code string) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, code).Inc()
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}
