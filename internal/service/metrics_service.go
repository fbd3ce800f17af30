package service

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the scheduling
// engine. Exposing the handler on an HTTP mux is the embedding application's
// concern; the engine only records.
type MetricsService struct {
	registry          *prometheus.Registry
	handler           http.Handler
	editTotal         *prometheus.CounterVec
	overlapConflicts  prometheus.Counter
	gridSessions      prometheus.Gauge
	hydrationDuration prometheus.Histogram
}

// NewMetricsService registers the scheduling collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	editTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_edits_total",
		Help: "Total schedule edit attempts by operation and outcome",
	}, []string{"operation", "outcome"})

	overlapConflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_overlap_conflicts_total",
		Help: "Total edits rejected because of a same-track overlap",
	})

	gridSessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "schedule_grid_sessions",
		Help: "Number of sessions in the most recently hydrated grid",
	})

	hydrationDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_grid_hydration_seconds",
		Help:    "Time spent hydrating the scheduling grid from stored sessions",
		Buckets: prometheus.DefBuckets,
	})

	registry.MustRegister(editTotal, overlapConflicts, gridSessions, hydrationDuration)

	return &MetricsService{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		editTotal:         editTotal,
		overlapConflicts:  overlapConflicts,
		gridSessions:      gridSessions,
		hydrationDuration: hydrationDuration,
	}
}

// ObserveEdit records one edit attempt. All methods tolerate a nil receiver
// so instrumentation stays optional.
func (m *MetricsService) ObserveEdit(operation, outcome string) {
	if m == nil {
		return
	}
	m.editTotal.WithLabelValues(operation, outcome).Inc()
}

// ObserveOverlapConflict counts a rejected double-booking.
func (m *MetricsService) ObserveOverlapConflict() {
	if m == nil {
		return
	}
	m.overlapConflicts.Inc()
}

// ObserveHydration records a grid hydration.
func (m *MetricsService) ObserveHydration(sessions int, duration time.Duration) {
	if m == nil {
		return
	}
	m.gridSessions.Set(float64(sessions))
	m.hydrationDuration.Observe(duration.Seconds())
}

// Handler serves the engine's metric families.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return m.handler
}

// Registry exposes the underlying registry for embedding applications that
// aggregate collectors themselves.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}
