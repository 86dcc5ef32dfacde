package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Scoring metrics
	ScoresComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecomap_scores_computed_total",
			Help: "Total number of EcoScores computed",
		},
		[]string{"strategy"},
	)

	ScoreValue = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ecomap_score_value",
			Help:    "Distribution of computed EcoScores",
			Buckets: []float64{100, 200, 300, 400, 500, 600, 700, 800, 900, 1000},
		},
		[]string{"strategy"},
	)

	EvaluationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecomap_evaluation_failures_total",
			Help: "Context-aware evaluations that produced no result, by reason",
		},
		[]string{"reason"},
	)

	// Collaborator metrics
	GeneratorRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ecomap_generator_request_duration_seconds",
			Help:    "Latency of text generation requests",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"status"},
	)

	ChallengeFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ecomap_challenge_fallbacks_total",
			Help: "Challenge areas served from the curated set after a quota error",
		},
	)

	// Placement metrics
	PlacementsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecomap_placements_total",
			Help: "Placement attempts by intervention kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	// HTTP metrics
	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecomap_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"route"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ecomap_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "status"},
	)
)
