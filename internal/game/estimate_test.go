package game

import (
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestEstimateSecondsMonotonic(t *testing.T) {
	assert.LessOrEqual(t, estimateSeconds(100, 1280), estimateSeconds(200, 1280))
	assert.LessOrEqual(t, estimateSeconds(100, 500), estimateSeconds(100, 1280))
	assert.InDelta(t, 0.6, estimateSeconds(0, 0), 1e-9)
}

func TestEstimateGenerationTimeFallback(t *testing.T) {
	svc := NewService(&stubCompleter{configured: true}, ServiceOptions{Seed: 1, Model: "gpt-4o-mini"}, zerolog.New(io.Discard))

	assert.Equal(t, 10.0, svc.EstimateGenerationTime(nil))
	assert.Equal(t, 10.0, svc.EstimateGenerationTime(testRoster(2)))
}

func TestEstimateGenerationTimeMinimalRoster(t *testing.T) {
	svc := NewService(&stubCompleter{configured: true}, ServiceOptions{Seed: 1, Model: "gpt-4o-mini"}, zerolog.New(io.Discard))

	// 3 small members: the estimate is dominated by the expected output
	// term, 1280/70 ≈ 18.3s, plus overhead and a small input term.
	seconds := svc.EstimateGenerationTime(testRoster(3))
	assert.InDelta(t, 19.3, seconds, 3.0)
}

func TestCountTokensFallback(t *testing.T) {
	assert.Equal(t, 0, CountTokens("", "gpt-4o-mini"))
	assert.GreaterOrEqual(t, CountTokens("hi", "no-such-model"), 1)
	assert.GreaterOrEqual(t, CountTokens("four characters at least", "no-such-model"), 6)
}
