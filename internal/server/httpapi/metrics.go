package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Reasons recorded by fitclub_api_rejected_tokens_total.
const (
	rejectMissing = "missing"
	rejectInvalid = "invalid"
	rejectExpired = "expired"
	rejectRevoked = "revoked"
)

// metrics instruments the router. A nil *metrics records nothing.
type metrics struct {
	inFlight       prometheus.Gauge
	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	rejectedTokens *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fitclub_api_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fitclub_api_requests_total",
				Help: "HTTP requests served, by route and status.",
			},
			[]string{"method", "route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fitclub_api_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		rejectedTokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fitclub_api_rejected_tokens_total",
				Help: "Bearer tokens refused with 401; each one ends a client session.",
			},
			[]string{"reason"},
		),
	}
	reg.MustRegister(m.inFlight, m.requests, m.duration, m.rejectedTokens)
	return m
}

// instrument labels requests by chi route pattern so path parameters and
// unknown paths do not create new series.
func (m *metrics) instrument(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func (m *metrics) rejectedToken(reason string) {
	if m == nil {
		return
	}
	m.rejectedTokens.WithLabelValues(reason).Inc()
}
