package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated registry served on /metrics.
	Registry = prometheus.NewRegistry()

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// PlanRuns counts planning runs by construction strategy and outcome.
	PlanRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "plan_runs_total", Help: "Planning runs by strategy and outcome."},
		[]string{"strategy", "outcome"},
	)
	// PlanCost records the final fuel cost of successful runs.
	PlanCost = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "plan_cost",
			Help:    "Final fuel cost of successful planning runs.",
			Buckets: prometheus.ExponentialBuckets(10, 2, 14),
		},
		[]string{"strategy"},
	)
	// LocalSearchMoves counts accepted improving moves per neighbourhood.
	LocalSearchMoves = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "local_search_moves_total", Help: "Accepted local search moves."},
		[]string{"neighborhood"},
	)
	// DistanceRequests counts outbound routing API calls by result.
	DistanceRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "distance_api_requests_total", Help: "Routing API requests by result."},
		[]string{"result"},
	)
)

var regOnce sync.Once

// RegisterDefault registers every collector on Registry once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(
			HTTPRequests,
			HTTPDuration,
			PlanRuns,
			PlanCost,
			LocalSearchMoves,
			DistanceRequests,
		)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
