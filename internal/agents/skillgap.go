package agents

import (
	"context"
	"strings"

	"github.com/applyforge/applyforge/internal/prompts"
	"github.com/applyforge/applyforge/internal/routing"
	"github.com/applyforge/applyforge/internal/schemas"
)

// SkillGapInput is a readiness analysis request against a target role.
type SkillGapInput struct {
	TargetRole   string `validate:"required"`
	Requirements string
	Skills       []string
}

// SkillGap is one missing skill with its learning plan.
type SkillGap struct {
	Skill       string `json:"skill"`
	EffortWeeks int    `json:"effort_weeks"`
	Resource    string `json:"resource"`
}

// SkillGapResult is the prioritized gap analysis.
type SkillGapResult struct {
	ReadinessScore int        `json:"readiness_score"`
	Gaps           []SkillGap `json:"gaps"`
}

type skillGapWire struct {
	ReadinessScore float64 `json:"readiness_score"`
	Gaps           []struct {
		Skill       string  `json:"skill"`
		EffortWeeks float64 `json:"effort_weeks"`
		Resource    string  `json:"resource"`
	} `json:"gaps"`
}

const maxSkillGaps = 10

var skillGapSchema = schemas.MustCompile(&schemas.OutputSchema{
	Name:        "skill_gap_analysis",
	Description: "Gaps between current skills and a target role",
	Fields: []schemas.Field{
		{Name: "readiness_score", Type: schemas.TypeNumber, Required: true,
			Description: "Readiness for the target role, 0 to 100"},
		{Name: "gaps", Type: schemas.TypeArray, Required: true,
			Description: "Missing skills ordered by impact on hireability",
			Items: &schemas.Field{Type: schemas.TypeObject, Properties: []schemas.Field{
				{Name: "skill", Type: schemas.TypeString, Required: true},
				{Name: "effort_weeks", Type: schemas.TypeNumber, Required: true},
				{Name: "resource", Type: schemas.TypeString, Required: true},
			}}},
	},
})

// AnalyzeSkillGap identifies what a candidate must learn for a target role.
func (rt *Runtime) AnalyzeSkillGap(ctx context.Context, in SkillGapInput) Outcome[SkillGapResult] {
	return runAgent(ctx, rt, routing.TaskSkillGap, in, analyzeSkillGap)
}

func analyzeSkillGap(ctx context.Context, rt *Runtime, in SkillGapInput) Outcome[SkillGapResult] {
	raw, err := completeJSON[skillGapWire](ctx, rt, callSpec{
		Task:   routing.TaskSkillGap,
		System: prompts.MustGet("insights.json", "skill-gap-system"),
		User: prompts.Format(prompts.MustGet("insights.json", "skill-gap-user"), map[string]string{
			"TargetRole":   in.TargetRole,
			"Requirements": prompts.TruncateToTokens(prompts.CompressText(in.Requirements), 2500),
			"Skills":       strings.Join(in.Skills, ", "),
		}),
		Schema: skillGapSchema,
	})
	if err != nil {
		return outcomeFromError[SkillGapResult](err)
	}

	result := SkillGapResult{
		ReadinessScore: clampScore(raw.ReadinessScore),
		Gaps:           make([]SkillGap, 0, len(raw.Gaps)),
	}
	for _, gap := range raw.Gaps {
		weeks := int(gap.EffortWeeks)
		if weeks < 1 {
			weeks = 1
		}
		result.Gaps = append(result.Gaps, SkillGap{
			Skill:       gap.Skill,
			EffortWeeks: weeks,
			Resource:    defaultString(gap.Resource, "No specific resource suggested."),
		})
	}
	result.Gaps = capSlice(result.Gaps, maxSkillGaps)
	return success(result)
}
