package routing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateCost_Linear(t *testing.T) {
	base := EstimateCost("gpt-4o-mini", 1000, 500)
	double := EstimateCost("gpt-4o-mini", 2000, 1000)
	assert.InDelta(t, base*2, double, 1e-12)
}

func TestEstimateCost_KnownRate(t *testing.T) {
	// 1M input + 1M output at the table rate.
	cost := EstimateCost("gpt-4o", 1_000_000, 1_000_000)
	assert.InDelta(t, 12.50, cost, 1e-9)
}

func TestEstimateCost_UnknownModelIsZero(t *testing.T) {
	assert.Zero(t, EstimateCost("some-future-model", 10_000, 10_000))
}

func TestEstimateCost_ZeroTokens(t *testing.T) {
	assert.Zero(t, EstimateCost("gpt-4o", 0, 0))
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("a"))
	assert.Equal(t, 1, EstimateTokens("abcd"))
	assert.Equal(t, 2, EstimateTokens("abcde"))
	assert.Equal(t, 25, EstimateTokens(strings.Repeat("x", 100)))
}

func TestRateFor(t *testing.T) {
	rate, ok := RateFor("gpt-4o-mini")
	assert.True(t, ok)
	assert.Greater(t, rate.OutputPerMillion, rate.InputPerMillion)

	_, ok = RateFor("nope")
	assert.False(t, ok)
}
