package agents

import (
	"context"
	"strconv"
	"strings"

	"github.com/applyforge/applyforge/internal/prompts"
	"github.com/applyforge/applyforge/internal/routing"
	"github.com/applyforge/applyforge/internal/schemas"
)

// FindRecruitersInput is a lead extraction request over source data.
type FindRecruitersInput struct {
	Vertical   string
	SourceData string `validate:"required"`
	Limit      int
}

// RecruiterLead is one extracted contact. Email and URL are empty when
// the source data does not contain them; the extractor is instructed
// never to fabricate either.
type RecruiterLead struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Title   string `json:"title"`
	Email   string `json:"email"`
	URL     string `json:"url"`
}

// FindRecruitersResult is the extracted lead list.
type FindRecruitersResult struct {
	Leads []RecruiterLead `json:"leads"`
}

const defaultLeadLimit = 25

var findRecruitersSchema = schemas.MustCompile(&schemas.OutputSchema{
	Name:        "recruiter_leads",
	Description: "Recruiter contacts extracted from source data",
	Fields: []schemas.Field{
		{Name: "leads", Type: schemas.TypeArray, Required: true,
			Items: &schemas.Field{Type: schemas.TypeObject, Properties: []schemas.Field{
				{Name: "name", Type: schemas.TypeString, Required: true},
				{Name: "company", Type: schemas.TypeString, Required: true},
				{Name: "title", Type: schemas.TypeString},
				{Name: "email", Type: schemas.TypeString},
				{Name: "url", Type: schemas.TypeString},
			}}},
	},
})

// FindRecruiters extracts recruiter leads from source data.
func (rt *Runtime) FindRecruiters(ctx context.Context, in FindRecruitersInput) Outcome[FindRecruitersResult] {
	return runAgent(ctx, rt, routing.TaskFindRecruiters, in, findRecruiters)
}

func findRecruiters(ctx context.Context, rt *Runtime, in FindRecruitersInput) Outcome[FindRecruitersResult] {
	limit := in.Limit
	if limit < 1 || limit > defaultLeadLimit {
		limit = defaultLeadLimit
	}
	source := prompts.TruncateToTokens(prompts.CompressText(in.SourceData), 5000)
	if source == "" {
		return failure[FindRecruitersResult]("No source data to extract leads from.")
	}

	result, err := completeJSON[FindRecruitersResult](ctx, rt, callSpec{
		Task:   routing.TaskFindRecruiters,
		System: prompts.MustGet("gtm.json", "find-recruiters-system"),
		User: prompts.Format(prompts.MustGet("gtm.json", "find-recruiters-user"), map[string]string{
			"Vertical":   defaultString(in.Vertical, "recruiting"),
			"SourceData": source,
			"Limit":      strconv.Itoa(limit),
		}),
		Schema: findRecruitersSchema,
	})
	if err != nil {
		return outcomeFromError[FindRecruitersResult](err)
	}

	// Drop leads with no name: there is nothing to dedupe or contact.
	kept := make([]RecruiterLead, 0, len(result.Leads))
	for _, lead := range result.Leads {
		if strings.TrimSpace(lead.Name) == "" {
			continue
		}
		kept = append(kept, lead)
	}
	result.Leads = capSlice(kept, limit)
	return success(result)
}

// OutreachInput is a cold outreach drafting request for one lead.
type OutreachInput struct {
	Name           string `validate:"required"`
	Title          string
	Company        string
	Context        string
	Channel        string
	ProductContext string
}

// OutreachResult is the drafted message.
type OutreachResult struct {
	Message string `json:"message"`
	Subject string `json:"subject"`
}

var outreachSchema = schemas.MustCompile(&schemas.OutputSchema{
	Name:        "outreach_message",
	Description: "A cold outreach message for one recruiter lead",
	Fields: []schemas.Field{
		{Name: "message", Type: schemas.TypeString, Required: true},
		{Name: "subject", Type: schemas.TypeString, Required: true},
	},
})

// DraftOutreach writes a cold outreach message for one lead.
func (rt *Runtime) DraftOutreach(ctx context.Context, in OutreachInput) Outcome[OutreachResult] {
	return runAgent(ctx, rt, routing.TaskRecruiterOutreach, in, draftOutreach)
}

func draftOutreach(ctx context.Context, rt *Runtime, in OutreachInput) Outcome[OutreachResult] {
	result, err := completeJSON[OutreachResult](ctx, rt, callSpec{
		Task:   routing.TaskRecruiterOutreach,
		System: prompts.MustGet("gtm.json", "outreach-system"),
		User: prompts.Format(prompts.MustGet("gtm.json", "outreach-user"), map[string]string{
			"Name":           in.Name,
			"Title":          defaultString(in.Title, "recruiter"),
			"Company":        defaultString(in.Company, "their company"),
			"Context":        prompts.TruncateToTokens(prompts.CompressText(in.Context), 1000),
			"Channel":        defaultString(in.Channel, "email"),
			"ProductContext": prompts.TruncateToTokens(prompts.CompressText(in.ProductContext), 1000),
		}),
		Schema: outreachSchema,
	})
	if err != nil {
		return outcomeFromError[OutreachResult](err)
	}

	result.Message = scrubFiller(strings.TrimSpace(result.Message))
	result.Subject = scrubFiller(defaultString(result.Subject, "Quick question about hiring at "+in.Company))
	return success(result)
}
