package agents

import (
	"context"

	"github.com/applyforge/applyforge/internal/prompts"
	"github.com/applyforge/applyforge/internal/routing"
	"github.com/applyforge/applyforge/internal/schemas"
)

// JDInput is a job-description drafting request from a hiring team.
type JDInput struct {
	Title       string `validate:"required"`
	Company     string
	Seniority   string
	Notes       string
	SalaryRange string
}

// JDResult is the drafted posting.
type JDResult struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	MustHaves   []string `json:"must_haves"`
	NiceToHaves []string `json:"nice_to_haves"`
}

const (
	maxMustHaves   = 5
	maxNiceToHaves = 8
)

var jdSchema = schemas.MustCompile(&schemas.OutputSchema{
	Name:        "job_description",
	Description: "A drafted job posting",
	Fields: []schemas.Field{
		{Name: "title", Type: schemas.TypeString, Required: true},
		{Name: "description", Type: schemas.TypeString, Required: true,
			Description: "The full posting body"},
		{Name: "must_haves", Type: schemas.TypeArray, Required: true,
			MaxItems: maxMustHaves,
			Items:    &schemas.Field{Type: schemas.TypeString}},
		{Name: "nice_to_haves", Type: schemas.TypeArray, Required: true,
			Items: &schemas.Field{Type: schemas.TypeString}},
	},
})

// BuildJobDescription drafts a posting from a hiring team's raw notes.
func (rt *Runtime) BuildJobDescription(ctx context.Context, in JDInput) Outcome[JDResult] {
	return runAgent(ctx, rt, routing.TaskJDBuilder, in, buildJobDescription)
}

func buildJobDescription(ctx context.Context, rt *Runtime, in JDInput) Outcome[JDResult] {
	result, err := completeJSON[JDResult](ctx, rt, callSpec{
		Task:   routing.TaskJDBuilder,
		System: prompts.MustGet("jd.json", "jd-builder-system"),
		User: prompts.Format(prompts.MustGet("jd.json", "jd-builder-user"), map[string]string{
			"Title":       in.Title,
			"Company":     in.Company,
			"Seniority":   defaultString(in.Seniority, "not specified"),
			"Notes":       prompts.TruncateToTokens(prompts.CompressText(in.Notes), 2000),
			"SalaryRange": defaultString(in.SalaryRange, "not disclosed"),
		}),
		Schema: jdSchema,
	})
	if err != nil {
		return outcomeFromError[JDResult](err)
	}

	result.Title = defaultString(result.Title, in.Title)
	result.Description = scrubFiller(result.Description)
	result.MustHaves = capSlice(result.MustHaves, maxMustHaves)
	result.NiceToHaves = capSlice(result.NiceToHaves, maxNiceToHaves)
	return success(result)
}
