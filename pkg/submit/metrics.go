package submit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	submissionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobctl_submission_total",
			Help: "Total number of Job create requests by outcome",
		},
		[]string{"outcome"}, // created, already_exists, rejected, transport_failure
	)

	submissionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jobctl_submission_duration_seconds",
			Help:    "Duration of a single Job create request",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
	)

	submissionAttempts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jobctl_submission_attempts",
			Help:    "Number of attempts made by a retried submission",
			Buckets: []float64{1, 2, 3, 5, 8},
		},
	)
)

// metricLabel converts a status to its metric label value.
func metricLabel(s Status) string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusAlreadyExists:
		return "already_exists"
	case StatusRejected:
		return "rejected"
	default:
		return "transport_failure"
	}
}
