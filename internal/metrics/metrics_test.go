package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func gatherValue(t *testing.T, m *Metrics, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := m.Registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if !labelsMatch(metric, labels) {
				continue
			}
			switch {
			case metric.GetCounter() != nil:
				return metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				return metric.GetGauge().GetValue()
			case metric.GetHistogram() != nil:
				return float64(metric.GetHistogram().GetSampleCount())
			}
		}
	}
	t.Fatalf("metric %s%v not found", name, labels)
	return 0
}

func labelsMatch(metric *dto.Metric, labels map[string]string) bool {
	for _, pair := range metric.GetLabel() {
		if want, ok := labels[pair.GetName()]; ok && want != pair.GetValue() {
			return false
		}
	}
	return true
}

func TestObserveSync(t *testing.T) {
	m := New("")
	finished := time.Unix(1700000000, 0)

	m.ObserveSync(OutcomePartial, 3, 5, 2, 1, 2*time.Second, finished)

	if got := gatherValue(t, m, "docsync_sync_runs_total", map[string]string{"outcome": "partial"}); got != 1 {
		t.Fatalf("expected one partial run, got %v", got)
	}
	if got := gatherValue(t, m, "docsync_sync_documents_total", map[string]string{"result": "skipped"}); got != 5 {
		t.Fatalf("expected 5 skipped, got %v", got)
	}
	if got := gatherValue(t, m, "docsync_fetch_subtree_failures_total", nil); got != 1 {
		t.Fatalf("expected one subtree failure, got %v", got)
	}
	if got := gatherValue(t, m, "docsync_sync_duration_seconds", nil); got != 1 {
		t.Fatalf("expected one duration sample, got %v", got)
	}
	if got := gatherValue(t, m, "docsync_sync_last_success_timestamp_seconds", nil); got != 1700000000 {
		t.Fatalf("expected last success timestamp, got %v", got)
	}
}

func TestObserveSync_FailedDoesNotMoveLastSuccess(t *testing.T) {
	m := New("docs")
	m.ObserveSync(OutcomeFailed, 0, 0, 0, 0, time.Second, time.Unix(42, 0))
	if got := gatherValue(t, m, "docs_sync_last_success_timestamp_seconds", nil); got != 0 {
		t.Fatalf("expected untouched gauge, got %v", got)
	}
}

func TestRegistriesAreIsolated(t *testing.T) {
	a, b := New(""), New("")
	a.ObserveNavigationCache(true)
	a.ObserveNavigationCache(false)
	b.ObserveNavigationCache(true)

	if got := gatherValue(t, a, "docsync_navigation_cache_requests_total", map[string]string{"result": "hit"}); got != 1 {
		t.Fatalf("expected one hit on a, got %v", got)
	}
	if got := gatherValue(t, b, "docsync_navigation_cache_requests_total", map[string]string{"result": "hit"}); got != 1 {
		t.Fatalf("expected one hit on b, got %v", got)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveSync(OutcomeSuccess, 1, 1, 1, 1, time.Second, time.Now())
	m.ObserveNavigationCache(true)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 404 {
		t.Fatalf("expected 404 from nil handler, got %d", rec.Code)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New("")
	m.ObserveNavigationCache(false)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `docsync_navigation_cache_requests_total{result="miss"} 1`) {
		t.Fatalf("expected navigation metric in output:\n%s", body)
	}
}
