package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the HTTP and authorization collectors of one registry.
type Metrics struct {
	inFlight  prometheus.Gauge
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	decisions *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latencies in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authz_decisions_total",
				Help: "Authorization gate outcomes by stage.",
			},
			[]string{"stage", "outcome"},
		),
	}
	reg.MustRegister(m.inFlight, m.requests, m.duration, m.decisions)
	return m
}

// ObserveDecision counts one gate outcome. Outcomes are error codes or
// decision names, never user input.
func (m *Metrics) ObserveDecision(stage, outcome string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(stage, outcome).Inc()
}

// Instrument labels requests by chi route pattern so ids do not explode
// the label space.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := strconv.Itoa(sw.code)

		m.duration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
		m.requests.WithLabelValues(r.Method, route, status).Inc()
	})
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
