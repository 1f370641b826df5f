package agents

import (
	"context"
	"strings"

	"github.com/applyforge/applyforge/internal/prompts"
	"github.com/applyforge/applyforge/internal/routing"
	"github.com/applyforge/applyforge/internal/schemas"
)

// PivotInput describes a career pivot to analyze.
type PivotInput struct {
	CurrentRole string `validate:"required"`
	Experience  string
	TargetField string `validate:"required"`
}

// BridgeSkill is an existing ability that transfers to the target field.
// All four fields are required and non-empty in a valid result.
type BridgeSkill struct {
	Skill             string `json:"skill"`
	CurrentEvidence   string `json:"current_evidence"`
	TargetApplication string `json:"target_application"`
	DevelopmentPath   string `json:"development_path"`
}

// PivotResult is the full pivot analysis.
type PivotResult struct {
	BridgeSkills     []BridgeSkill `json:"bridge_skills"`
	FeasibilityScore int           `json:"feasibility_score"`
	Timeline         string        `json:"timeline"`
	BiggestObstacle  string        `json:"biggest_obstacle"`
}

type pivotWire struct {
	BridgeSkills     []BridgeSkill `json:"bridge_skills"`
	FeasibilityScore float64       `json:"feasibility_score"`
	Timeline         string        `json:"timeline"`
	BiggestObstacle  string        `json:"biggest_obstacle"`
}

const (
	minBridgeSkills = 3
	maxBridgeSkills = 5
)

var pivotSchema = schemas.MustCompile(&schemas.OutputSchema{
	Name:        "pivot_analysis",
	Description: "A career pivot feasibility analysis",
	Fields: []schemas.Field{
		{Name: "bridge_skills", Type: schemas.TypeArray, Required: true,
			MinItems: minBridgeSkills, MaxItems: maxBridgeSkills,
			Items: &schemas.Field{Type: schemas.TypeObject, Properties: []schemas.Field{
				{Name: "skill", Type: schemas.TypeString, Required: true},
				{Name: "current_evidence", Type: schemas.TypeString, Required: true},
				{Name: "target_application", Type: schemas.TypeString, Required: true},
				{Name: "development_path", Type: schemas.TypeString, Required: true},
			}}},
		{Name: "feasibility_score", Type: schemas.TypeNumber, Required: true},
		{Name: "timeline", Type: schemas.TypeString, Required: true},
		{Name: "biggest_obstacle", Type: schemas.TypeString, Required: true},
	},
})

// AnalyzePivot evaluates a career change and the skills that bridge it.
func (rt *Runtime) AnalyzePivot(ctx context.Context, in PivotInput) Outcome[PivotResult] {
	return runAgent(ctx, rt, routing.TaskPivotAnalysis, in, analyzePivot)
}

func analyzePivot(ctx context.Context, rt *Runtime, in PivotInput) Outcome[PivotResult] {
	raw, err := completeJSON[pivotWire](ctx, rt, callSpec{
		Task:   routing.TaskPivotAnalysis,
		System: prompts.MustGet("insights.json", "pivot-system"),
		User: prompts.Format(prompts.MustGet("insights.json", "pivot-user"), map[string]string{
			"CurrentRole": in.CurrentRole,
			"Experience":  prompts.TruncateToTokens(prompts.CompressText(in.Experience), 3000),
			"TargetField": in.TargetField,
		}),
		Schema: pivotSchema,
	})
	if err != nil {
		return outcomeFromError[PivotResult](err)
	}

	skills := capSlice(raw.BridgeSkills, maxBridgeSkills)
	if len(skills) < minBridgeSkills {
		return failure[PivotResult]("The analysis did not produce enough bridge skills. Please try again.")
	}
	for i, s := range skills {
		if strings.TrimSpace(s.Skill) == "" ||
			strings.TrimSpace(s.CurrentEvidence) == "" ||
			strings.TrimSpace(s.TargetApplication) == "" ||
			strings.TrimSpace(s.DevelopmentPath) == "" {
			return failure[PivotResult]("The analysis came back incomplete. Please try again.")
		}
		skills[i] = BridgeSkill{
			Skill:             scrubFiller(s.Skill),
			CurrentEvidence:   scrubFiller(s.CurrentEvidence),
			TargetApplication: scrubFiller(s.TargetApplication),
			DevelopmentPath:   scrubFiller(s.DevelopmentPath),
		}
	}

	return success(PivotResult{
		BridgeSkills:     skills,
		FeasibilityScore: clampScore(raw.FeasibilityScore),
		Timeline:         scrubFiller(defaultString(raw.Timeline, "6 to 12 months")),
		BiggestObstacle:  scrubFiller(raw.BiggestObstacle),
	})
}
