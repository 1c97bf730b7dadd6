package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RequestsTotal *prometheus.CounterVec
	ReqDuration   *prometheus.HistogramVec
	InFlight      prometheus.Gauge
	AIRequests    *prometheus.CounterVec
}

// New registers the service collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests"},
			[]string{"route", "method", "status"},
		),
		ReqDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Request duration seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		InFlight: f.NewGauge(
			prometheus.GaugeOpts{Name: "http_in_flight_requests", Help: "In-flight HTTP requests"},
		),
		AIRequests: f.NewCounterVec(
			prometheus.CounterOpts{Name: "ai_provider_requests_total", Help: "AI completion attempts by provider and outcome"},
			[]string{"provider", "outcome"},
		),
	}
}
