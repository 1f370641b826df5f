package agents

import (
	"context"
	"strings"

	"github.com/applyforge/applyforge/internal/prompts"
	"github.com/applyforge/applyforge/internal/routing"
	"github.com/applyforge/applyforge/internal/schemas"
)

// RoastInput is a resume critique request.
type RoastInput struct {
	Resume     string
	TargetRole string
}

// RoastProblem is one identified weakness with its fix.
type RoastProblem struct {
	Quote      string `json:"quote"`
	Problem    string `json:"problem"`
	Suggestion string `json:"suggestion"`
}

// RoastResult is the full critique.
type RoastResult struct {
	Score           int            `json:"score"`
	Problems        []RoastProblem `json:"problems"`
	RewrittenBullet string         `json:"rewritten_bullet"`
}

// roastWire matches the raw model output; scores arrive as JSON numbers
// that may be fractional or out of range.
type roastWire struct {
	Score           float64        `json:"score"`
	Problems        []RoastProblem `json:"problems"`
	RewrittenBullet string         `json:"rewritten_bullet"`
}

// minRoastInputChars rejects inputs too short to critique before
// spending a model call on them.
const minRoastInputChars = 50

const maxRoastProblems = 10

var roastSchema = schemas.MustCompile(&schemas.OutputSchema{
	Name:        "resume_roast",
	Description: "An honest critique of a resume",
	Fields: []schemas.Field{
		{Name: "score", Type: schemas.TypeNumber, Required: true,
			Description: "Overall resume quality from 0 to 100"},
		{Name: "problems", Type: schemas.TypeArray, Required: true,
			Items: &schemas.Field{Type: schemas.TypeObject, Properties: []schemas.Field{
				{Name: "quote", Type: schemas.TypeString, Required: true},
				{Name: "problem", Type: schemas.TypeString, Required: true},
				{Name: "suggestion", Type: schemas.TypeString, Required: true},
			}}},
		{Name: "rewritten_bullet", Type: schemas.TypeString, Required: true,
			Description: "The worst bullet, rewritten"},
	},
})

// RoastResume produces a critical review of a resume.
func (rt *Runtime) RoastResume(ctx context.Context, in RoastInput) Outcome[RoastResult] {
	return runAgent(ctx, rt, routing.TaskResumeRoast, in, roastResume)
}

func roastResume(ctx context.Context, rt *Runtime, in RoastInput) Outcome[RoastResult] {
	if len(strings.TrimSpace(in.Resume)) < minRoastInputChars {
		return failure[RoastResult]("Resume text must be at least 50 characters.")
	}

	raw, err := completeJSON[roastWire](ctx, rt, callSpec{
		Task:   routing.TaskResumeRoast,
		System: prompts.MustGet("profiler.json", "roast-system"),
		User: prompts.Format(prompts.MustGet("profiler.json", "roast-user"), map[string]string{
			"Resume":     prompts.TruncateToTokens(prompts.CompressText(in.Resume), 5000),
			"TargetRole": defaultString(in.TargetRole, "not specified"),
		}),
		Schema: roastSchema,
	})
	if err != nil {
		return outcomeFromError[RoastResult](err)
	}

	return success(RoastResult{
		Score:           clampScore(raw.Score),
		Problems:        capSlice(raw.Problems, maxRoastProblems),
		RewrittenBullet: raw.RewrittenBullet,
	})
}
