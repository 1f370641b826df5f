package agents

import (
	"context"
	"strings"

	"github.com/applyforge/applyforge/internal/prompts"
	"github.com/applyforge/applyforge/internal/routing"
	"github.com/applyforge/applyforge/internal/schemas"
)

// ScribeInput describes a cover letter request.
type ScribeInput struct {
	RoleTitle      string
	CompanyName    string
	JobDescription string
	TailoredResume string `validate:"required"`
	// Tone adjusts register, e.g. "professional", "warm". Blank means
	// professional.
	Tone string
}

// ScribeResult is the generated cover letter.
type ScribeResult struct {
	CoverLetter string `json:"cover_letter"`
	Subject     string `json:"subject"`
	WordCount   int    `json:"word_count"`
	// GenericOpener flags letters the model opened with a banned
	// cliche despite instructions, so callers can offer a regenerate.
	GenericOpener bool `json:"generic_opener"`
}

const maxCoverLetterWords = 250

var scribeSchema = schemas.MustCompile(&schemas.OutputSchema{
	Name:        "cover_letter",
	Description: "A cover letter for a specific application",
	Fields: []schemas.Field{
		{Name: "cover_letter", Type: schemas.TypeString, Required: true,
			Description: "The full cover letter body"},
		{Name: "subject", Type: schemas.TypeString, Required: true,
			Description: "Email subject line for the submission"},
	},
})

// WriteCoverLetter generates a cover letter from a tailored resume.
func (rt *Runtime) WriteCoverLetter(ctx context.Context, in ScribeInput) Outcome[ScribeResult] {
	return runAgent(ctx, rt, routing.TaskCoverLetter, in, writeCoverLetter)
}

func writeCoverLetter(ctx context.Context, rt *Runtime, in ScribeInput) Outcome[ScribeResult] {
	result, err := completeJSON[ScribeResult](ctx, rt, callSpec{
		Task:   routing.TaskCoverLetter,
		System: prompts.MustGet("scribe.json", "cover-letter-system"),
		User: prompts.Format(prompts.MustGet("scribe.json", "cover-letter-user"), map[string]string{
			"RoleTitle":      in.RoleTitle,
			"CompanyName":    in.CompanyName,
			"JobDescription": prompts.TruncateToTokens(prompts.CompressText(in.JobDescription), 2000),
			"TailoredResume": prompts.TruncateToTokens(prompts.CompressText(in.TailoredResume), 3000),
			"Tone":           defaultString(in.Tone, "professional"),
		}),
		Schema: scribeSchema,
	})
	if err != nil {
		return outcomeFromError[ScribeResult](err)
	}

	result.CoverLetter = scrubFiller(strings.TrimSpace(result.CoverLetter))
	result.Subject = defaultString(result.Subject, "Application: "+in.RoleTitle)
	result.WordCount = len(strings.Fields(result.CoverLetter))
	result.GenericOpener = hasBannedOpener(result.CoverLetter)
	if result.WordCount > maxCoverLetterWords {
		result.CoverLetter = truncateWords(result.CoverLetter, maxCoverLetterWords)
		result.WordCount = maxCoverLetterWords
	}
	return success(result)
}

func truncateWords(text string, max int) string {
	words := strings.Fields(text)
	if len(words) <= max {
		return text
	}
	return strings.Join(words[:max], " ")
}
