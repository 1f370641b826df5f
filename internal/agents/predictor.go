package agents

import (
	"context"

	"github.com/applyforge/applyforge/internal/prompts"
	"github.com/applyforge/applyforge/internal/routing"
	"github.com/applyforge/applyforge/internal/schemas"
)

// PredictInput is an application success prediction request.
type PredictInput struct {
	RoleTitle      string `validate:"required"`
	CompanyName    string
	JobDescription string
	ProfileSummary string
}

// PredictResult estimates interview odds with the factors behind them.
type PredictResult struct {
	Score             int      `json:"score"`
	PositiveFactors   []string `json:"positive_factors"`
	RiskFactors       []string `json:"risk_factors"`
	RecommendedAction string   `json:"recommended_action"`
}

type predictWire struct {
	Score             float64  `json:"score"`
	PositiveFactors   []string `json:"positive_factors"`
	RiskFactors       []string `json:"risk_factors"`
	RecommendedAction string   `json:"recommended_action"`
}

const maxPredictFactors = 5

var predictSchema = schemas.MustCompile(&schemas.OutputSchema{
	Name:        "success_prediction",
	Description: "Probability of advancing to an interview",
	Fields: []schemas.Field{
		{Name: "score", Type: schemas.TypeNumber, Required: true,
			Description: "0 to 100 where 50 is an average qualified applicant"},
		{Name: "positive_factors", Type: schemas.TypeArray, Required: true,
			Items: &schemas.Field{Type: schemas.TypeString}},
		{Name: "risk_factors", Type: schemas.TypeArray, Required: true,
			Items: &schemas.Field{Type: schemas.TypeString}},
		{Name: "recommended_action", Type: schemas.TypeString,
			Description: "The single action that most improves the odds"},
	},
})

// PredictSuccess estimates the odds an application leads to an interview.
func (rt *Runtime) PredictSuccess(ctx context.Context, in PredictInput) Outcome[PredictResult] {
	return runAgent(ctx, rt, routing.TaskPredictSuccess, in, predictSuccess)
}

func predictSuccess(ctx context.Context, rt *Runtime, in PredictInput) Outcome[PredictResult] {
	raw, err := completeJSON[predictWire](ctx, rt, callSpec{
		Task:   routing.TaskPredictSuccess,
		System: prompts.MustGet("insights.json", "predict-system"),
		User: prompts.Format(prompts.MustGet("insights.json", "predict-user"), map[string]string{
			"RoleTitle":      in.RoleTitle,
			"CompanyName":    in.CompanyName,
			"JobDescription": prompts.TruncateToTokens(prompts.CompressText(in.JobDescription), 2500),
			"Profile":        prompts.TruncateToTokens(prompts.CompressText(in.ProfileSummary), 2500),
		}),
		Schema: predictSchema,
	})
	if err != nil {
		return outcomeFromError[PredictResult](err)
	}

	return success(PredictResult{
		Score:             clampScore(raw.Score),
		PositiveFactors:   capSlice(raw.PositiveFactors, maxPredictFactors),
		RiskFactors:       capSlice(raw.RiskFactors, maxPredictFactors),
		RecommendedAction: defaultString(raw.RecommendedAction, "Tailor the resume to this role before applying."),
	})
}
