// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bi_worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bi_worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "bi_worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bi_worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bi_queries_total",
			Help: "Chat questions answered, by primary intent",
		},
		[]string{"intent"},
	)

	ClarificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bi_clarifications_total",
			Help: "Clarifying questions asked, by reason",
		},
		[]string{"reason"},
	)

	ReportsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bi_reports_generated_total",
			Help: "Leadership reports generated, by health status",
		},
		[]string{"status"},
	)

	BoardFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bi_board_fetch_duration_seconds",
			Help:    "Duration of board fetches against the configured source",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"source", "result"},
	)

	BoardCacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bi_board_cache_results_total",
			Help: "Board cache lookups by result (hit, stale, miss, error)",
		},
		[]string{"result"},
	)
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheStale = "stale"
	CacheMiss  = "miss"
	CacheError = "error"
)
