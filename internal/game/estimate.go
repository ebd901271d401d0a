package game

import "math/rand"

// Throughput model calibrated against observed gpt-4o-mini latencies.
const (
	estimateOverheadSeconds     = 0.6
	estimateInputTokensPerSec   = 4000.0
	estimateOutputTokensPerSec  = 70.0
	defaultExpectedOutputTokens = 1280
	maxExpectedOutputTokens     = 1500
	fallbackEstimateSeconds     = 10.0
)

// estimateSeconds predicts wall-clock completion time from token counts.
func estimateSeconds(promptTokens, expectedOutputTokens int) float64 {
	return estimateOverheadSeconds +
		float64(promptTokens)/estimateInputTokensPerSec +
		float64(expectedOutputTokens)/estimateOutputTokensPerSec
}

// estimateGenerationTime predicts how long a full batch would take without
// calling the model. Any shortfall degrades to a fixed fallback.
func estimateGenerationTime(members []Member, model string, rng *rand.Rand) float64 {
	system, user := buildEstimationPrompts(members, rng)
	if system == "" && user == "" {
		return fallbackEstimateSeconds
	}
	promptTokens := CountTokens(system+"\n\n"+user, model)
	expected := defaultExpectedOutputTokens
	if expected > maxExpectedOutputTokens {
		expected = maxExpectedOutputTokens
	}
	return estimateSeconds(promptTokens, expected)
}
