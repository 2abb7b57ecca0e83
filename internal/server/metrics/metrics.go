// Package metrics exposes the server's Prometheus collectors on a private
// registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Mirror upload outcomes.
const (
	ResultCompleted = "completed"
	ResultFailed    = "failed"
	ResultDisabled  = "disabled"
)

type Metrics struct {
	registry *prometheus.Registry

	SubmissionsCreated prometheus.Counter
	MirrorUploads      *prometheus.CounterVec
	Votes              prometheus.Counter
	RequestDuration    *prometheus.HistogramVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		SubmissionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "ideabank_submissions_created_total",
			Help: "Total number of submissions stored",
		}),
		MirrorUploads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ideabank_mirror_uploads_total",
			Help: "Total number of document mirror attempts by result",
		}, []string{"result"}),
		Votes: factory.NewCounter(prometheus.CounterOpts{
			Name: "ideabank_votes_total",
			Help: "Total number of votes cast",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ideabank_http_request_duration_seconds",
			Help:    "HTTP request latency by method, route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) ObserveRequest(method, route, status string, elapsed time.Duration) {
	m.RequestDuration.WithLabelValues(method, route, status).Observe(elapsed.Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
