package metrics

import (
	"testing"
)

// Global metrics instance (reused across enabled tests to avoid Prometheus registry conflicts)
var globalMetrics *Metrics

func init() {
	globalMetrics = New(true)
}

func TestMetricsEnabled(t *testing.T) {
	if globalMetrics == nil {
		t.Fatal("metrics should not be nil")
	}
}

func TestMetricsDisabled(t *testing.T) {
	m := New(false)

	if m == nil {
		t.Fatal("metrics should not be nil (noop)")
	}

	// These should not panic even though they're noop
	m.RecordRequest("GET", "success", 0.01)
	m.RecordRefresh("success")
	m.RecordSessionClear()
	m.RecordResolve("active")
}

func TestRecordRequest(t *testing.T) {
	// Should not panic
	globalMetrics.RecordRequest("GET", "success", 0.02)
	globalMetrics.RecordRequest("POST", "http_error", 0.5)
	globalMetrics.RecordRequest("DELETE", "auth_error", 0.1)
}

func TestRecordRefresh(t *testing.T) {
	// Should not panic
	globalMetrics.RecordRefresh("success")
	globalMetrics.RecordRefresh("http_error")
}

func TestRecordSessionClear(t *testing.T) {
	globalMetrics.RecordSessionClear()
}

func TestRecordResolve(t *testing.T) {
	globalMetrics.RecordResolve("active")
	globalMetrics.RecordResolve("tiers_available")
}
