package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelsMatch(m, labels) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func labelsMatch(m *dto.Metric, labels map[string]string) bool {
	if len(m.GetLabel()) != len(labels) {
		return false
	}
	for _, lp := range m.GetLabel() {
		if labels[lp.GetName()] != lp.GetValue() {
			return false
		}
	}
	return true
}

func TestRecordReport(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordReport("short", 10*time.Millisecond, nil)
	m.RecordReport("short", 10*time.Millisecond, errors.New("boom"))
	m.RecordReport("short", 10*time.Millisecond, nil)

	assert.Equal(t, 2.0, counterValue(t, reg, "taxreport_reports_computed_total", map[string]string{"kind": "short", "outcome": "ok"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "taxreport_reports_computed_total", map[string]string{"kind": "short", "outcome": "error"}))
}

func TestRecordRateLookupAndDeals(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordRateLookup("cache", nil)
	m.RecordRateLookup("upstream", errors.New("timeout"))
	m.RecordDeals(3)
	m.RecordDeals(2)

	assert.Equal(t, 1.0, counterValue(t, reg, "taxreport_rates_lookups_total", map[string]string{"source": "cache", "outcome": "ok"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "taxreport_rates_lookups_total", map[string]string{"source": "upstream", "outcome": "error"}))
	assert.Equal(t, 5.0, counterValue(t, reg, "taxreport_reports_deals_matched_total", map[string]string{}))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordReport("short", time.Second, nil)
		m.RecordDeals(1)
		m.RecordRateLookup("cache", nil)
		m.ObserveUpstreamLatency("nbu", time.Second)
		m.RecordHTTPRequest("/api/report", "200")
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.RecordHTTPRequest("/api/health", "200")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `taxreport_http_requests_total{code="200",route="/api/health"} 1`))
}
