package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the API's Prometheus collectors. A nil *Metrics, or one built
// with a nil registerer, records nothing.
type Metrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	uploads   *prometheus.CounterVec
	published *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route pattern and status.",
	}, []string{"method", "route", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	uploads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "uploaded_files_total",
		Help: "Files written to local storage by folder.",
	}, []string{"folder"})
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "domain_events_published_total",
		Help: "Domain events handed to the broker by type and outcome.",
	}, []string{"type", "outcome"})
	reg.MustRegister(requests, duration, uploads, published)
	return &Metrics{
		requests:  requests,
		duration:  duration,
		uploads:   uploads,
		published: published,
	}
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	route = normalizeLabel(route)
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// AddUploads counts n files saved under folder.
func (m *Metrics) AddUploads(folder string, n int) {
	if m == nil || m.uploads == nil || n <= 0 {
		return
	}
	m.uploads.WithLabelValues(normalizeLabel(folder)).Add(float64(n))
}

// IncPublished counts a publish attempt; ok selects the outcome label.
func (m *Metrics) IncPublished(eventType string, ok bool) {
	if m == nil || m.published == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.published.WithLabelValues(normalizeLabel(eventType), outcome).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
