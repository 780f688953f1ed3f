package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the server's prometheus collectors.
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RegisteredTypes *prometheus.GaugeVec
}

// New registers the collectors with reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loom_requests_total",
				Help: "Total number of SWF requests by action and result",
			},
			[]string{"action", "result"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "loom_request_duration_seconds",
				Help:    "Duration of SWF request handling in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"action"},
		),
		RegisteredTypes: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "loom_registered_types",
				Help: "Number of types in REGISTERED status registered since startup",
			},
			[]string{"kind"},
		),
	}
}

// ObserveRequest records one handled action. result is "ok" or the fault name.
func (m *Metrics) ObserveRequest(action, result string, elapsed time.Duration) {
	m.Requests.WithLabelValues(action, result).Inc()
	m.RequestDuration.WithLabelValues(action).Observe(elapsed.Seconds())
}

func (m *Metrics) TypeRegistered(kind string) {
	m.RegisteredTypes.WithLabelValues(kind).Inc()
}

func (m *Metrics) TypeDeprecated(kind string) {
	m.RegisteredTypes.WithLabelValues(kind).Dec()
}

func (m *Metrics) TypeUndeprecated(kind string) {
	m.RegisteredTypes.WithLabelValues(kind).Inc()
}
