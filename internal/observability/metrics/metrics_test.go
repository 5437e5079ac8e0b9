package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestAPIMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAPIMetrics(reg)
	m.ObserveRequest("GET", "/admin/hospital", "200", 0.05)
	m.ObserveCacheLookup("hospitals", true)
	m.ObserveCacheLookup("hospitals", false)
	m.ObserveInvalidation("hospitals")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var lookups *dto.MetricFamily
	for _, f := range families {
		if f.GetName() == "upcharify_querycache_lookups_total" {
			lookups = f
		}
	}
	if lookups == nil {
		t.Fatal("cache lookup counter not registered")
	}
	if len(lookups.Metric) != 2 {
		t.Fatalf("expected hit and miss series, got %d", len(lookups.Metric))
	}
}

func TestAPIMetricsNilSafe(t *testing.T) {
	var m *APIMetrics
	m.ObserveRequest("GET", "/health", "200", 0.001)
	m.ObserveCacheLookup("users", false)
	m.ObserveInvalidation("users")
}
