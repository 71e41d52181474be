package metrics

import "github.com/prometheus/client_golang/prometheus"

// FetchMetrics exposes counters for the appointment fetch and search
// coordinators. A nil receiver is a no-op so callers can run unmetered.
type FetchMetrics struct {
	fetchTotal    *prometheus.CounterVec
	fetchErrors   *prometheus.CounterVec
	staleDiscards *prometheus.CounterVec
	debounceFires prometheus.Counter
	fetchLatency  *prometheus.HistogramVec
}

func NewFetchMetrics(reg prometheus.Registerer) *FetchMetrics {
	m := &FetchMetrics{
		fetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "practicekit",
			Subsystem: "fetch",
			Name:      "requests_total",
			Help:      "Total fetches issued, by trigger",
		}, []string{"kind", "trigger"}),
		fetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "practicekit",
			Subsystem: "fetch",
			Name:      "errors_total",
			Help:      "Total fetches that returned an error",
		}, []string{"kind"}),
		staleDiscards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "practicekit",
			Subsystem: "fetch",
			Name:      "stale_discards_total",
			Help:      "Responses dropped because a newer fetch superseded them",
		}, []string{"kind"}),
		debounceFires: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "practicekit",
			Subsystem: "search",
			Name:      "debounce_fires_total",
			Help:      "Search queries actually issued after the quiet period",
		}),
		fetchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "practicekit",
			Subsystem: "fetch",
			Name:      "latency_seconds",
			Help:      "Latency of backend fetches",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.fetchTotal, m.fetchErrors, m.staleDiscards, m.debounceFires, m.fetchLatency)
	return m
}

func (m *FetchMetrics) ObserveFetch(kind, trigger string) {
	if m == nil {
		return
	}
	m.fetchTotal.WithLabelValues(kind, trigger).Inc()
}

func (m *FetchMetrics) ObserveError(kind string) {
	if m == nil {
		return
	}
	m.fetchErrors.WithLabelValues(kind).Inc()
}

func (m *FetchMetrics) ObserveStaleDiscard(kind string) {
	if m == nil {
		return
	}
	m.staleDiscards.WithLabelValues(kind).Inc()
}

func (m *FetchMetrics) ObserveDebounceFire() {
	if m == nil {
		return
	}
	m.debounceFires.Inc()
}

func (m *FetchMetrics) ObserveLatency(kind string, seconds float64) {
	if m == nil {
		return
	}
	m.fetchLatency.WithLabelValues(kind).Observe(seconds)
}
