package client

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments the gateway. A nil *Metrics records nothing.
type Metrics struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	forcedLogouts prometheus.Counter
}

// NewMetrics creates the gateway instruments and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fitclub_gateway_requests_total",
				Help: "API calls made through the gateway, by outcome.",
			},
			[]string{"method", "path", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fitclub_gateway_request_duration_seconds",
				Help:    "API call latency in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		forcedLogouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fitclub_gateway_forced_logouts_total",
			Help: "Sessions cleared because the API rejected the credential.",
		}),
	}
	reg.MustRegister(m.requests, m.duration, m.forcedLogouts)
	return m
}

func (m *Metrics) observe(method, path, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, path, outcome).Inc()
	m.duration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func (m *Metrics) forcedLogout() {
	if m == nil {
		return
	}
	m.forcedLogouts.Inc()
}

func outcomeOf(status int) string {
	switch {
	case status == 0:
		return "network"
	case status < 300:
		return "2xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
