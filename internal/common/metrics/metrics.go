package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	// ResolutionOutcomes counts resolved results by the rung that produced
	// them: direct, normalized or fallback.
	ResolutionOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flow_resolution_outcomes_total",
			Help: "Structured results per flow and source",
		},
		[]string{"flow", "source"},
	)

	ResolutionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flow_resolution_failures_total",
			Help: "Rejected attempts per flow, stage and error code",
		},
		[]string{"flow", "stage", "error_code"},
	)

	GenerationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_generation_failures_total",
			Help: "Failed generation calls per provider",
		},
		[]string{"provider", "error_code"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_generation_duration_seconds",
			Help:    "Duration of generation calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
		[]string{"provider"},
	)

	ProviderFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_provider_fallbacks_total",
			Help: "Calls rerouted from the primary to the secondary provider",
		},
		[]string{"from", "to"},
	)

	GenerationCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_generation_cache_total",
			Help: "Generation cache lookups by result",
		},
		[]string{"result"},
	)
)
