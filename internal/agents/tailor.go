package agents

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/applyforge/applyforge/internal/cache"
	"github.com/applyforge/applyforge/internal/prompts"
	"github.com/applyforge/applyforge/internal/routing"
	"github.com/applyforge/applyforge/internal/schemas"
)

// TailorInput describes the role and source material for a resume
// tailoring run.
type TailorInput struct {
	RoleTitle      string
	CompanyName    string
	JobDescription string `validate:"required"`
	Resume         string `validate:"required"`
}

// TailorResult is the tailored resume plus the change audit trail.
type TailorResult struct {
	TailoredResume string   `json:"tailored_resume"`
	KeywordsUsed   []string `json:"keywords_used"`
	ChangeSummary  string   `json:"change_summary"`
}

const maxTailorKeywords = 20

// maxBulletChars bounds each bullet line of the tailored resume.
const maxBulletChars = 220

var tailorSchema = schemas.MustCompile(&schemas.OutputSchema{
	Name:        "tailored_resume",
	Description: "A resume rewritten for a specific role",
	Fields: []schemas.Field{
		{Name: "tailored_resume", Type: schemas.TypeString, Required: true,
			Description: "The full rewritten resume text"},
		{Name: "keywords_used", Type: schemas.TypeArray, Required: true,
			Items:       &schemas.Field{Type: schemas.TypeString},
			Description: "Job-description keywords incorporated into the rewrite"},
		{Name: "change_summary", Type: schemas.TypeString,
			Description: "One paragraph describing the changes made"},
	},
})

// TailorResume rewrites a resume to target a specific role.
func (rt *Runtime) TailorResume(ctx context.Context, in TailorInput) Outcome[TailorResult] {
	return runAgent(ctx, rt, routing.TaskTailorResume, in, tailorResume)
}

func tailorResume(ctx context.Context, rt *Runtime, in TailorInput) Outcome[TailorResult] {
	jd := prompts.TruncateToTokens(prompts.CompressText(in.JobDescription), 3000)
	resume := prompts.TruncateToTokens(prompts.CompressText(in.Resume), 4000)

	result, err := completeJSON[TailorResult](ctx, rt, callSpec{
		Task:   routing.TaskTailorResume,
		System: prompts.MustGet("tailor.json", "tailor-system"),
		User: prompts.Format(prompts.MustGet("tailor.json", "tailor-user"), map[string]string{
			"RoleTitle":      in.RoleTitle,
			"CompanyName":    in.CompanyName,
			"JobDescription": jd,
			"Resume":         resume,
		}),
		Schema:   tailorSchema,
		CacheKey: cache.Key("tailor", hashKey(in.RoleTitle, in.CompanyName, jd, resume)),
		CacheTTL: time.Hour,
	})
	if err != nil {
		return outcomeFromError[TailorResult](err)
	}

	result.TailoredResume = clampBullets(scrubFiller(result.TailoredResume))
	result.KeywordsUsed = capSlice(result.KeywordsUsed, maxTailorKeywords)
	result.ChangeSummary = defaultString(result.ChangeSummary, "Resume restructured to match the role requirements.")
	return success(result)
}

// clampBullets truncates overlong bullet lines, cutting on a rune
// boundary so multibyte text stays valid.
func clampBullets(resume string) string {
	lines := strings.Split(resume, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		bullet := strings.HasPrefix(trimmed, "-") ||
			strings.HasPrefix(trimmed, "•") ||
			strings.HasPrefix(trimmed, "*")
		if !bullet || len(line) <= maxBulletChars {
			continue
		}
		cut := maxBulletChars - 3
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		lines[i] = strings.TrimRight(line[:cut], " ") + "..."
	}
	return strings.Join(lines, "\n")
}
