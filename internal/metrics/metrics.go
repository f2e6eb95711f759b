package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "docsync"

// Metrics holds the pipeline collectors on an isolated registry so several
// modules, and every test, get their own counters. All recording methods are
// safe on a nil receiver.
type Metrics struct {
	Registry *prometheus.Registry

	SyncRunsTotal       *prometheus.CounterVec
	SyncDocumentsTotal  *prometheus.CounterVec
	SyncDuration        prometheus.Histogram
	LastSuccessUnixTime prometheus.Gauge
	SubtreeFailures     prometheus.Counter
	NavigationCache     *prometheus.CounterVec
}

// New builds the collectors under namespace; an empty value uses
// DefaultNamespace.
func New(namespace string) *Metrics {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		namespace = DefaultNamespace
	}
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		SyncRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sync_runs_total",
				Help:      "Sync passes by outcome (success, partial, failed).",
			},
			[]string{"outcome"},
		),
		SyncDocumentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sync_documents_total",
				Help:      "Documents processed by sync, by result (changed, skipped, failed).",
			},
			[]string{"result"},
		),
		SyncDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "sync_duration_seconds",
				Help:      "Wall-clock duration of sync passes.",
				Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
		),
		LastSuccessUnixTime: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "sync_last_success_timestamp_seconds",
				Help:      "Unix time of the last sync pass that completed without a fatal error.",
			},
		),
		SubtreeFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_subtree_failures_total",
				Help:      "Directory listings skipped during tree walks.",
			},
		),
		NavigationCache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "navigation_cache_requests_total",
				Help:      "Navigation reads by cache result (hit, miss).",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(
		m.SyncRunsTotal,
		m.SyncDocumentsTotal,
		m.SyncDuration,
		m.LastSuccessUnixTime,
		m.SubtreeFailures,
		m.NavigationCache,
	)
	return m
}

// SyncOutcome labels a finished pass.
type SyncOutcome string

const (
	OutcomeSuccess SyncOutcome = "success"
	OutcomePartial SyncOutcome = "partial"
	OutcomeFailed  SyncOutcome = "failed"
)

// ObserveSync records one pass.
func (m *Metrics) ObserveSync(outcome SyncOutcome, changed, skipped, failed, subtreeFailures int, duration time.Duration, finishedAt time.Time) {
	if m == nil {
		return
	}
	m.SyncRunsTotal.WithLabelValues(string(outcome)).Inc()
	m.SyncDocumentsTotal.WithLabelValues("changed").Add(float64(changed))
	m.SyncDocumentsTotal.WithLabelValues("skipped").Add(float64(skipped))
	m.SyncDocumentsTotal.WithLabelValues("failed").Add(float64(failed))
	m.SubtreeFailures.Add(float64(subtreeFailures))
	m.SyncDuration.Observe(duration.Seconds())
	if outcome != OutcomeFailed {
		m.LastSuccessUnixTime.Set(float64(finishedAt.Unix()))
	}
}

// ObserveNavigationCache records a navigation cache lookup.
func (m *Metrics) ObserveNavigationCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.NavigationCache.WithLabelValues(result).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
