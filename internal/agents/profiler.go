package agents

import (
	"context"
	"time"

	"github.com/applyforge/applyforge/internal/cache"
	"github.com/applyforge/applyforge/internal/prompts"
	"github.com/applyforge/applyforge/internal/routing"
	"github.com/applyforge/applyforge/internal/schemas"
)

// ProfilerInput is raw resume or profile text to structure.
type ProfilerInput struct {
	SourceText string `validate:"required"`
}

// WorkEntry is one position in a candidate's history.
type WorkEntry struct {
	Company string `json:"company"`
	Title   string `json:"title"`
	Period  string `json:"period"`
	Summary string `json:"summary"`
}

// Profile is the structured candidate profile.
type Profile struct {
	Name            string      `json:"name"`
	Title           string      `json:"title"`
	YearsExperience int         `json:"years_experience"`
	Skills          []string    `json:"skills"`
	WorkHistory     []WorkEntry `json:"work_history"`
	Education       []string    `json:"education"`
}

const maxProfileSkills = 50

var profileSchema = schemas.MustCompile(&schemas.OutputSchema{
	Name:        "candidate_profile",
	Description: "Structured profile extracted from resume text",
	Fields: []schemas.Field{
		{Name: "name", Type: schemas.TypeString, Required: true},
		{Name: "title", Type: schemas.TypeString, Required: true,
			Description: "Current or most recent title"},
		{Name: "years_experience", Type: schemas.TypeInteger, Required: true},
		{Name: "skills", Type: schemas.TypeArray, Required: true,
			Items: &schemas.Field{Type: schemas.TypeString}},
		{Name: "work_history", Type: schemas.TypeArray, Required: true,
			Items: &schemas.Field{Type: schemas.TypeObject, Properties: []schemas.Field{
				{Name: "company", Type: schemas.TypeString, Required: true},
				{Name: "title", Type: schemas.TypeString, Required: true},
				{Name: "period", Type: schemas.TypeString},
				{Name: "summary", Type: schemas.TypeString},
			}}},
		{Name: "education", Type: schemas.TypeArray,
			Items: &schemas.Field{Type: schemas.TypeString}},
	},
})

// ExtractProfile structures raw resume or profile text into a Profile.
// Results are cached: the same source text always yields the same
// profile, and extraction is one of the most repeated calls.
func (rt *Runtime) ExtractProfile(ctx context.Context, in ProfilerInput) Outcome[Profile] {
	return runAgent(ctx, rt, routing.TaskProfileExtract, in, extractProfile)
}

func extractProfile(ctx context.Context, rt *Runtime, in ProfilerInput) Outcome[Profile] {
	source := prompts.TruncateToTokens(prompts.CompressText(in.SourceText), 6000)
	if source == "" {
		return failure[Profile]("No source text to extract a profile from.")
	}

	profile, err := completeJSON[Profile](ctx, rt, callSpec{
		Task:   routing.TaskProfileExtract,
		System: prompts.MustGet("profiler.json", "profile-extract-system"),
		User: prompts.Format(prompts.MustGet("profiler.json", "profile-extract-user"), map[string]string{
			"SourceText": source,
		}),
		Schema:   profileSchema,
		CacheKey: cache.Key("profile", hashKey(source)),
		CacheTTL: 24 * time.Hour,
	})
	if err != nil {
		return outcomeFromError[Profile](err)
	}

	if profile.YearsExperience < 0 {
		profile.YearsExperience = 0
	}
	profile.Skills = capSlice(profile.Skills, maxProfileSkills)
	profile.Title = defaultString(profile.Title, "Unknown")
	return success(profile)
}
