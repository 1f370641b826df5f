package agents

import (
	"context"
	"strconv"

	"github.com/applyforge/applyforge/internal/prompts"
	"github.com/applyforge/applyforge/internal/routing"
	"github.com/applyforge/applyforge/internal/schemas"
)

// ContentInput requests marketing content for one channel and vertical.
type ContentInput struct {
	Channel        string
	Vertical       string
	Topic          string `validate:"required"`
	ProductContext string
	Count          int
}

// ContentPiece is one generated content item.
type ContentPiece struct {
	Title        string `json:"title"`
	Body         string `json:"body"`
	CallToAction string `json:"call_to_action"`
}

// ContentResult is the generated batch.
type ContentResult struct {
	Pieces []ContentPiece `json:"pieces"`
}

const maxContentPieces = 10

var contentSchema = schemas.MustCompile(&schemas.OutputSchema{
	Name:        "marketing_content",
	Description: "A batch of channel-specific content pieces",
	Fields: []schemas.Field{
		{Name: "pieces", Type: schemas.TypeArray, Required: true,
			Items: &schemas.Field{Type: schemas.TypeObject, Properties: []schemas.Field{
				{Name: "title", Type: schemas.TypeString, Required: true},
				{Name: "body", Type: schemas.TypeString, Required: true},
				{Name: "call_to_action", Type: schemas.TypeString},
			}}},
	},
})

// GenerateContent produces channel-specific marketing content.
func (rt *Runtime) GenerateContent(ctx context.Context, in ContentInput) Outcome[ContentResult] {
	return runAgent(ctx, rt, routing.TaskGTMContent, in, generateContent)
}

func generateContent(ctx context.Context, rt *Runtime, in ContentInput) Outcome[ContentResult] {
	count := in.Count
	if count < 1 {
		count = 3
	}
	if count > maxContentPieces {
		count = maxContentPieces
	}

	result, err := completeJSON[ContentResult](ctx, rt, callSpec{
		Task:   routing.TaskGTMContent,
		System: prompts.MustGet("gtm.json", "content-system"),
		User: prompts.Format(prompts.MustGet("gtm.json", "content-user"), map[string]string{
			"Channel":        defaultString(in.Channel, "linkedin"),
			"Vertical":       defaultString(in.Vertical, "recruiting"),
			"Topic":          in.Topic,
			"ProductContext": prompts.TruncateToTokens(prompts.CompressText(in.ProductContext), 1500),
			"Count":          strconv.Itoa(count),
		}),
		Schema: contentSchema,
	})
	if err != nil {
		return outcomeFromError[ContentResult](err)
	}

	result.Pieces = capSlice(result.Pieces, count)
	for i, p := range result.Pieces {
		result.Pieces[i].Title = scrubFiller(p.Title)
		result.Pieces[i].Body = scrubFiller(p.Body)
		result.Pieces[i].CallToAction = scrubFiller(p.CallToAction)
	}
	if len(result.Pieces) == 0 {
		return failure[ContentResult]("No content was generated. Please try again.")
	}
	return success(result)
}

// StrategyInput requests a go-to-market channel plan.
type StrategyInput struct {
	Vertical       string `validate:"required"`
	ProductContext string
	Traction       string
}

// ChannelPlan is one recommended channel with its first experiment.
type ChannelPlan struct {
	Channel     string `json:"channel"`
	Rationale   string `json:"rationale"`
	CoreMessage string `json:"core_message"`
	Experiment  string `json:"experiment"`
}

// StrategyResult is the channel plan.
type StrategyResult struct {
	Persona  string        `json:"persona"`
	Channels []ChannelPlan `json:"channels"`
}

const maxStrategyChannels = 3

var strategySchema = schemas.MustCompile(&schemas.OutputSchema{
	Name:        "gtm_strategy",
	Description: "A go-to-market channel plan for one vertical",
	Fields: []schemas.Field{
		{Name: "persona", Type: schemas.TypeString, Required: true,
			Description: "The economic buyer being targeted"},
		{Name: "channels", Type: schemas.TypeArray, Required: true,
			MaxItems: maxStrategyChannels,
			Items: &schemas.Field{Type: schemas.TypeObject, Properties: []schemas.Field{
				{Name: "channel", Type: schemas.TypeString, Required: true},
				{Name: "rationale", Type: schemas.TypeString, Required: true},
				{Name: "core_message", Type: schemas.TypeString, Required: true},
				{Name: "experiment", Type: schemas.TypeString, Required: true},
			}}},
	},
})

// BuildStrategy produces a channel plan for a vertical.
func (rt *Runtime) BuildStrategy(ctx context.Context, in StrategyInput) Outcome[StrategyResult] {
	return runAgent(ctx, rt, routing.TaskGTMStrategy, in, buildStrategy)
}

func buildStrategy(ctx context.Context, rt *Runtime, in StrategyInput) Outcome[StrategyResult] {
	result, err := completeJSON[StrategyResult](ctx, rt, callSpec{
		Task:   routing.TaskGTMStrategy,
		System: prompts.MustGet("gtm.json", "strategy-system"),
		User: prompts.Format(prompts.MustGet("gtm.json", "strategy-user"), map[string]string{
			"Vertical":       defaultString(in.Vertical, "recruiting"),
			"ProductContext": prompts.TruncateToTokens(prompts.CompressText(in.ProductContext), 1500),
			"Traction":       defaultString(in.Traction, "early stage, no established channels"),
		}),
		Schema: strategySchema,
	})
	if err != nil {
		return outcomeFromError[StrategyResult](err)
	}

	result.Channels = capSlice(result.Channels, maxStrategyChannels)
	if len(result.Channels) == 0 {
		return failure[StrategyResult]("No channel recommendations were generated. Please try again.")
	}
	for i, c := range result.Channels {
		result.Channels[i].Rationale = scrubFiller(c.Rationale)
		result.Channels[i].CoreMessage = scrubFiller(c.CoreMessage)
	}
	return success(result)
}

// ReportInput requests an activity summary for a period.
type ReportInput struct {
	Period   string `validate:"required"`
	Activity string
}

// ReportResult is the operator report.
type ReportResult struct {
	HeadlineMetric string   `json:"headline_metric"`
	Findings       []string `json:"findings"`
	NextActions    []string `json:"next_actions"`
}

const maxReportItems = 3

var reportSchema = schemas.MustCompile(&schemas.OutputSchema{
	Name:        "gtm_report",
	Description: "A short operator report over activity data",
	Fields: []schemas.Field{
		{Name: "headline_metric", Type: schemas.TypeString, Required: true},
		{Name: "findings", Type: schemas.TypeArray, Required: true,
			MaxItems: maxReportItems,
			Items:    &schemas.Field{Type: schemas.TypeString}},
		{Name: "next_actions", Type: schemas.TypeArray, Required: true,
			MaxItems: maxReportItems,
			Items:    &schemas.Field{Type: schemas.TypeString}},
	},
})

// BuildReport summarizes activity data into an operator report.
func (rt *Runtime) BuildReport(ctx context.Context, in ReportInput) Outcome[ReportResult] {
	return runAgent(ctx, rt, routing.TaskGTMReport, in, buildReport)
}

func buildReport(ctx context.Context, rt *Runtime, in ReportInput) Outcome[ReportResult] {
	result, err := completeJSON[ReportResult](ctx, rt, callSpec{
		Task:   routing.TaskGTMReport,
		System: prompts.MustGet("gtm.json", "report-system"),
		User: prompts.Format(prompts.MustGet("gtm.json", "report-user"), map[string]string{
			"Period":   defaultString(in.Period, "last 7 days"),
			"Activity": prompts.TruncateToTokens(prompts.CompressText(in.Activity), 3000),
		}),
		Schema: reportSchema,
	})
	if err != nil {
		return outcomeFromError[ReportResult](err)
	}

	result.Findings = capSlice(result.Findings, maxReportItems)
	result.NextActions = capSlice(result.NextActions, maxReportItems)
	result.HeadlineMetric = defaultString(result.HeadlineMetric, "No activity recorded for the period.")
	return success(result)
}
