package agents

import (
	"context"
	"strings"
	"time"

	"github.com/applyforge/applyforge/internal/cache"
	"github.com/applyforge/applyforge/internal/prompts"
	"github.com/applyforge/applyforge/internal/routing"
	"github.com/applyforge/applyforge/internal/schemas"
)

// QualifyInput is a candidate-to-role match request.
type QualifyInput struct {
	JobDescription string `validate:"required"`
	ProfileSummary string
	Skills         []string
}

// MatchBand buckets a match score.
type MatchBand string

// Match bands by score: >=80, 60-79, 40-59, <40.
const (
	BandStrong MatchBand = "strong_match"
	BandGood   MatchBand = "good_match"
	BandWeak   MatchBand = "weak_match"
	BandPoor   MatchBand = "poor_match"
)

// QualifyResult is the scored match assessment.
type QualifyResult struct {
	Score         int       `json:"score"`
	Band          MatchBand `json:"band"`
	MatchedSkills []string  `json:"matched_skills"`
	MissingSkills []string  `json:"missing_skills"`
	Rationale     string    `json:"rationale"`
}

type qualifyWire struct {
	Score         float64  `json:"score"`
	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
	Rationale     string   `json:"rationale"`
}

var qualifySchema = schemas.MustCompile(&schemas.OutputSchema{
	Name:        "match_assessment",
	Description: "How well a candidate matches a job description",
	Fields: []schemas.Field{
		{Name: "score", Type: schemas.TypeNumber, Required: true,
			Description: "Match quality from 0 to 100"},
		{Name: "matched_skills", Type: schemas.TypeArray, Required: true,
			Items: &schemas.Field{Type: schemas.TypeString}},
		{Name: "missing_skills", Type: schemas.TypeArray, Required: true,
			Items: &schemas.Field{Type: schemas.TypeString}},
		{Name: "rationale", Type: schemas.TypeString, Required: true},
	},
})

// QualifyMatch scores how well a candidate matches a job description.
//
// The model provides the score and rationale, but skill matching is
// corrected deterministically afterwards: a candidate skill that appears
// verbatim in the job description is always a match, and a skill the
// candidate holds is never reported missing. When every job-relevant
// skill is covered the score is floored at the good-match boundary.
func (rt *Runtime) QualifyMatch(ctx context.Context, in QualifyInput) Outcome[QualifyResult] {
	return runAgent(ctx, rt, routing.TaskQualifyMatch, in, qualifyMatch)
}

func qualifyMatch(ctx context.Context, rt *Runtime, in QualifyInput) Outcome[QualifyResult] {
	jd := prompts.TruncateToTokens(prompts.CompressText(in.JobDescription), 3000)

	raw, err := completeJSON[qualifyWire](ctx, rt, callSpec{
		Task:   routing.TaskQualifyMatch,
		System: prompts.MustGet("qualify.json", "qualify-system"),
		User: prompts.Format(prompts.MustGet("qualify.json", "qualify-user"), map[string]string{
			"JobDescription": jd,
			"Profile":        prompts.TruncateToTokens(prompts.CompressText(in.ProfileSummary), 2000),
			"Skills":         strings.Join(in.Skills, ", "),
		}),
		Schema:   qualifySchema,
		CacheKey: cache.Key("qualify", hashKey(jd, in.ProfileSummary, strings.Join(in.Skills, ","))),
		CacheTTL: time.Hour,
	})
	if err != nil {
		return outcomeFromError[QualifyResult](err)
	}

	matched, missing := reconcileSkills(in.JobDescription, in.Skills, raw.MatchedSkills, raw.MissingSkills)
	score := clampScore(raw.Score)
	if len(missing) == 0 && len(matched) > 0 && score < 60 {
		score = 60
	}

	return success(QualifyResult{
		Score:         score,
		Band:          bandFor(score),
		MatchedSkills: matched,
		MissingSkills: missing,
		Rationale:     defaultString(raw.Rationale, "Assessment based on skill overlap with the job description."),
	})
}

// bandFor maps a clamped score to its band.
func bandFor(score int) MatchBand {
	switch {
	case score >= 80:
		return BandStrong
	case score >= 60:
		return BandGood
	case score >= 40:
		return BandWeak
	default:
		return BandPoor
	}
}

// reconcileSkills corrects the model's skill lists against the ground
// truth of the inputs. Candidate skills found in the job description are
// matched regardless of what the model said; skills the candidate holds
// are removed from the missing list.
func reconcileSkills(jobDescription string, candidateSkills, modelMatched, modelMissing []string) (matched, missing []string) {
	jdLower := strings.ToLower(jobDescription)
	held := make(map[string]bool, len(candidateSkills))
	for _, s := range candidateSkills {
		held[strings.ToLower(strings.TrimSpace(s))] = true
	}

	seen := make(map[string]bool)
	add := func(list []string, skill string) []string {
		key := strings.ToLower(strings.TrimSpace(skill))
		if key == "" || seen[key] {
			return list
		}
		seen[key] = true
		return append(list, strings.TrimSpace(skill))
	}

	matched = []string{}
	for _, skill := range candidateSkills {
		if strings.Contains(jdLower, strings.ToLower(strings.TrimSpace(skill))) {
			matched = add(matched, skill)
		}
	}
	for _, skill := range modelMatched {
		if held[strings.ToLower(strings.TrimSpace(skill))] {
			matched = add(matched, skill)
		}
	}

	missing = []string{}
	for _, skill := range modelMissing {
		key := strings.ToLower(strings.TrimSpace(skill))
		if key == "" || held[key] || seen[key] {
			continue
		}
		seen[key] = true
		missing = append(missing, strings.TrimSpace(skill))
	}
	return matched, missing
}
