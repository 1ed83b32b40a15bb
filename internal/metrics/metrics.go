package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bikerent"

type Metrics struct {
	HTTPRequests        *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
	ReservationsCreated *prometheus.CounterVec
	ReservationsByState *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Handled HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		ReservationsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_created_total",
			Help:      "Reservations created, by channel (checkout or admin).",
		}, []string{"channel"}),
		ReservationsByState: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reservations",
			Help:      "Reservations by effective state, refreshed by the report job.",
		}, []string{"state"}),
	}
}

func (m *Metrics) ReservationCreated(channel string) {
	m.ReservationsCreated.WithLabelValues(channel).Inc()
}

// SetReservationStates replaces the per state gauge values.
func (m *Metrics) SetReservationStates(counts map[string]int64) {
	m.ReservationsByState.Reset()
	for state, n := range counts {
		m.ReservationsByState.WithLabelValues(state).Set(float64(n))
	}
}
