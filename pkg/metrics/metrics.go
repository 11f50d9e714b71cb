package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "healthcheck", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "healthcheck", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)

	// Submissions counts create attempts by outcome: success, validation_error or a failure stage code.
	Submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "healthcheck", Name: "submissions_total", Help: "Submission create attempts by outcome."},
		[]string{"outcome"},
	)
	Notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "healthcheck", Name: "notifications_total", Help: "Loan officer notification attempts by result."},
		[]string{"result"},
	)
	DocumentUploadBytes = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "healthcheck",
		Name:      "document_upload_bytes",
		Help:      "Size of uploaded mortgage statements.",
		Buckets:   prometheus.ExponentialBuckets(16*1024, 4, 7),
	})
	SubmissionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "healthcheck",
		Name:      "submission_duration_seconds",
		Help:      "Wall time of the submission create procedure.",
		Buckets:   prometheus.DefBuckets,
	})
	OrphansRemoved = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "healthcheck",
		Name:      "orphans_removed_total",
		Help:      "Stored documents removed because no submission references them.",
	})
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(Submissions)
	reg.MustRegister(Notifications)
	reg.MustRegister(DocumentUploadBytes)
	reg.MustRegister(SubmissionDuration)
	reg.MustRegister(OrphansRemoved)
}
