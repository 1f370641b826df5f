package routing

// ModelRate holds per-million-token pricing for one model.
type ModelRate struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// modelRates is the static pricing table. Models absent from the table
// estimate at zero cost rather than guessing a rate.
var modelRates = map[string]ModelRate{
	"gpt-4o":           {InputPerMillion: 2.50, OutputPerMillion: 10.00},
	"gpt-4o-mini":      {InputPerMillion: 0.15, OutputPerMillion: 0.60},
	"gpt-4.1":          {InputPerMillion: 2.00, OutputPerMillion: 8.00},
	"gpt-4.1-mini":     {InputPerMillion: 0.40, OutputPerMillion: 1.60},
	"gemini-1.5-flash": {InputPerMillion: 0.075, OutputPerMillion: 0.30},
	"gemini-1.5-pro":   {InputPerMillion: 1.25, OutputPerMillion: 5.00},
	"claude-sonnet-4-20250514": {
		InputPerMillion:  3.00,
		OutputPerMillion: 15.00,
	},
}

// RateFor returns the pricing entry for a model. The second return is
// false when the model has no known rate.
func RateFor(model string) (ModelRate, bool) {
	rate, ok := modelRates[model]
	return rate, ok
}

// EstimateCost returns the dollar cost of a call given its token counts.
// The estimate is linear in both counts; unknown models cost zero.
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	rate, ok := modelRates[model]
	if !ok {
		return 0
	}
	in := float64(inputTokens) * rate.InputPerMillion / 1_000_000
	out := float64(outputTokens) * rate.OutputPerMillion / 1_000_000
	return in + out
}

// EstimateTokens approximates the token count of a text as one token per
// four characters, rounded up. Empty text is zero tokens.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + 3) / 4
}
