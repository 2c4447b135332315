// Package metrics holds the Prometheus collectors shared by the server and the client.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bookthreads"

var (
	// HTTPRequests counts served requests.
	// Labels: method, route (gin route template), status
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests served",
	}, []string{"method", "route", "status"})

	// HTTPDuration measures request latency.
	// Labels: method, route
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// Mutations counts comment mutations by flow and final outcome.
	// Labels: flow (create, vote, delete), outcome
	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "discussion",
		Name:      "mutations_total",
		Help:      "Comment mutations by flow and outcome",
	}, []string{"flow", "outcome"})

	// RemoteLatency measures calls made by the comment client.
	// Labels: method, status_code
	RemoteLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "remote",
		Name:      "request_duration_seconds",
		Help:      "Comment service request latency in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"method", "status_code"})

	// ThreadSize is the number of comments in the mounted thread.
	ThreadSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "discussion",
		Name:      "thread_comments",
		Help:      "Comments currently held by the mounted thread",
	})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
