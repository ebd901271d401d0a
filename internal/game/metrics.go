package game

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK               = "ok"
	outcomeEmpty            = "empty"
	outcomeInsufficientData = "insufficient_data"
	outcomeNotConfigured    = "not_configured"
	outcomeUpstreamError    = "upstream_error"
	outcomeParseError       = "parse_error"
)

var (
	generationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "game_generations_total",
		Help: "Question generation calls by mode and outcome.",
	}, []string{"mode", "outcome"})

	questionsReturned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "game_questions_returned_total",
		Help: "Total questions returned to callers.",
	})

	generationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "game_generation_duration_seconds",
		Help:    "Wall-clock duration of generation calls, including the model round trip.",
		Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 90},
	})
)
