// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeBlocked  = "blocked"
	OutcomeRejected = "rejected"
)

var (
	// HTTPRequestDuration records request latency by chi route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		},
		[]string{"method", "route", "status"},
	)

	// LLMCallDuration records generative AI latency including retries.
	LLMCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_call_duration_seconds",
			Help:    "Generative AI call duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10), // 250ms to ~2m
		},
		[]string{"operation", "outcome"},
	)

	RefinementsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refinements_generated_total",
			Help: "Total number of label refinements persisted",
		},
		[]string{"difficulty"},
	)

	ImagesUploaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "images_uploaded_total",
			Help: "Total number of image uploads by outcome",
		},
		[]string{"outcome"},
	)

	RevokedTokensCleaned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "revoked_tokens_cleaned_total",
			Help: "Total number of expired revoked tokens deleted",
		},
	)
)

// ObserveHTTPRequest records one served request.
func ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// ObserveLLMCall records one generator call.
func ObserveLLMCall(operation, outcome string, duration time.Duration) {
	LLMCallDuration.WithLabelValues(operation, outcome).Observe(duration.Seconds())
}

// IncRefinementsGenerated counts a persisted refinement.
func IncRefinementsGenerated(difficulty string) {
	RefinementsGenerated.WithLabelValues(difficulty).Inc()
}

// IncImagesUploaded counts an upload attempt.
func IncImagesUploaded(outcome string) {
	ImagesUploaded.WithLabelValues(outcome).Inc()
}

// AddRevokedTokensCleaned adds n deleted revocation records.
func AddRevokedTokensCleaned(n int64) {
	if n > 0 {
		RevokedTokensCleaned.Add(float64(n))
	}
}
