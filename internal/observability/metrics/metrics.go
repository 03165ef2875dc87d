package metrics

import "github.com/prometheus/client_golang/prometheus"

// TurnMetrics exposes counters/histograms for turn processing.
type TurnMetrics struct {
	turnsTotal       *prometheus.CounterVec
	turnLatency      *prometheus.HistogramVec
	bookingsTotal    *prometheus.CounterVec
	classifications  *prometheus.CounterVec
	remindersTotal   *prometheus.CounterVec
	oracleFailsTotal *prometheus.CounterVec
}

func NewTurnMetrics(reg prometheus.Registerer) *TurnMetrics {
	m := &TurnMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wiral",
			Subsystem: "turn",
			Name:      "processed_total",
			Help:      "Total inbound turns processed",
		}, []string{"outcome"}),
		turnLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wiral",
			Subsystem: "turn",
			Name:      "latency_seconds",
			Help:      "Latency of full turn processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wiral",
			Subsystem: "booking",
			Name:      "events_total",
			Help:      "Pending booking lifecycle events",
		}, []string{"event"}),
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wiral",
			Subsystem: "leads",
			Name:      "classifications_total",
			Help:      "Lead classification outcomes",
		}, []string{"category"}),
		remindersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wiral",
			Subsystem: "reminder",
			Name:      "events_total",
			Help:      "Follow-up reminder lifecycle events",
		}, []string{"event"}),
		oracleFailsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wiral",
			Subsystem: "oracle",
			Name:      "failures_total",
			Help:      "Degraded oracle calls by component",
		}, []string{"component"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.turnLatency, m.bookingsTotal, m.classifications, m.remindersTotal, m.oracleFailsTotal)
	return m
}

func (m *TurnMetrics) ObserveTurn(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(outcome).Inc()
	m.turnLatency.WithLabelValues(outcome).Observe(seconds)
}

func (m *TurnMetrics) ObserveBookingEvent(event string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(event).Inc()
}

func (m *TurnMetrics) ObserveClassification(category string) {
	if m == nil {
		return
	}
	m.classifications.WithLabelValues(category).Inc()
}

func (m *TurnMetrics) ObserveReminderEvent(event string) {
	if m == nil {
		return
	}
	m.remindersTotal.WithLabelValues(event).Inc()
}

func (m *TurnMetrics) ObserveOracleFailure(component string) {
	if m == nil {
		return
	}
	m.oracleFailsTotal.WithLabelValues(component).Inc()
}
