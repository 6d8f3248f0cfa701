package metrics

import "github.com/prometheus/client_golang/prometheus"

// MutationLatencyMetricName is the fully qualified histogram consumed by the
// stats snapshot endpoint.
const MutationLatencyMetricName = "glidebook_bookings_mutation_latency_seconds"

// BookingMetrics exposes counters/histograms for booking operations.
type BookingMetrics struct {
	statusChanges   *prometheus.CounterVec
	assignments     *prometheus.CounterVec
	snapshotLoads   *prometheus.CounterVec
	mutationLatency *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "glidebook",
			Subsystem: "bookings",
			Name:      "status_changes_total",
			Help:      "Total booking status change attempts",
		}, []string{"target_status", "result"}),
		assignments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "glidebook",
			Subsystem: "bookings",
			Name:      "provider_assignments_total",
			Help:      "Total provider assignment attempts",
		}, []string{"result"}),
		snapshotLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "glidebook",
			Subsystem: "bookings",
			Name:      "snapshot_loads_total",
			Help:      "Total per-business booking list fetches",
		}, []string{"result"}),
		mutationLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "glidebook",
			Subsystem: "bookings",
			Name:      "mutation_latency_seconds",
			Help:      "Latency of booking mutation writes",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.statusChanges, m.assignments, m.snapshotLoads, m.mutationLatency)
	return m
}

func (m *BookingMetrics) ObserveStatusChange(targetStatus, result string) {
	if m == nil {
		return
	}
	m.statusChanges.WithLabelValues(targetStatus, result).Inc()
}

func (m *BookingMetrics) ObserveAssignment(result string) {
	if m == nil {
		return
	}
	m.assignments.WithLabelValues(result).Inc()
}

func (m *BookingMetrics) ObserveSnapshotLoad(result string) {
	if m == nil {
		return
	}
	m.snapshotLoads.WithLabelValues(result).Inc()
}

func (m *BookingMetrics) ObserveMutationLatency(op, status string, seconds float64) {
	if m == nil {
		return
	}
	m.mutationLatency.WithLabelValues(op, status).Observe(seconds)
}
