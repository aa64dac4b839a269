// internal/common/metrics/metrics.go
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

	VerificationResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verification_results_total",
			Help: "Verification outcomes by kind and verdict",
		},
		[]string{"kind", "verdict"},
	)

	VerificationHardFails = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verification_hard_fails_total",
			Help: "Document comparisons that hit a hard-fail rule",
		},
		[]string{"doc_type"},
	)

	VerificationFinalScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "verification_final_score",
			Help:    "Distribution of verification scores on a 0-100 scale",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
		[]string{"kind"},
	)

	PlateRecoveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plate_recoveries_total",
			Help: "Plate recovery attempts by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	VehicleRegistryLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vehicle_registry_lookups_total",
			Help: "Vehicle registry lookups by source and outcome",
		},
		[]string{"source", "outcome"},
	)
)

// RecordVerification updates the result counter and score histogram.
func RecordVerification(kind, verdict string, score float64) {
	VerificationResults.WithLabelValues(kind, verdict).Inc()
	VerificationFinalScore.WithLabelValues(kind).Observe(score)
}

// RecordPlateRecovery counts one recovery. An empty plate is a miss.
func RecordPlateRecovery(mode, plate string) {
	outcome := "recovered"
	if plate == "" {
		outcome = "empty"
	}
	PlateRecoveries.WithLabelValues(mode, outcome).Inc()
}
