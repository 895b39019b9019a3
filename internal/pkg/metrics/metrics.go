package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors exported on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	Punches       *prometheus.CounterVec
	Reviews       *prometheus.CounterVec
	Notifications *prometheus.CounterVec
	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Punches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timekeeper",
			Name:      "punches_total",
			Help:      "Punch actions by action and outcome.",
		}, []string{"action", "result"}),
		Reviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timekeeper",
			Name:      "reviews_total",
			Help:      "Workflow reviews by kind and decision.",
		}, []string{"kind", "decision"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timekeeper",
			Name:      "notifications_total",
			Help:      "Notification deliveries by channel and result.",
		}, []string{"channel", "result"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timekeeper",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "timekeeper",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Punches,
		m.Reviews,
		m.Notifications,
		m.HTTPRequests,
		m.HTTPDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records request counts and latency keyed by the chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// ObservePunch counts a punch attempt.
func (m *Metrics) ObservePunch(action string, err error) {
	if m == nil {
		return
	}
	m.Punches.WithLabelValues(action, result(err)).Inc()
}

// ObserveReview counts a review decision.
func (m *Metrics) ObserveReview(kind, decision string) {
	if m == nil {
		return
	}
	m.Reviews.WithLabelValues(kind, decision).Inc()
}

// ObserveNotification counts a delivery attempt.
func (m *Metrics) ObserveNotification(channel, outcome string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(channel, outcome).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
