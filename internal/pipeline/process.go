// Package pipeline dispatches queued go-to-market steps to the agents
// that implement them and persists what they produce.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/applyforge/applyforge/internal/agents"
	"github.com/applyforge/applyforge/internal/db"
)

// Pipeline step names accepted by Process.
const (
	StepContent        = "content"
	StepStrategy       = "strategy"
	StepReport         = "report"
	StepFindRecruiters = "find_recruiters"
	StepOutreach       = "outreach"
)

// Task is one queued unit of pipeline work.
type Task struct {
	Step     string          `json:"step"`
	Channel  string          `json:"channel,omitempty"`
	Vertical string          `json:"vertical,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// Result is the uniform outcome of a pipeline step.
type Result struct {
	OK      bool   `json:"ok"`
	Count   int    `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
}

// Store is the persistence surface Process needs; *db.DB satisfies it.
type Store interface {
	UpsertLead(ctx context.Context, lead db.Lead) (uuid.UUID, error)
	ListLeads(ctx context.Context, vertical string, limit int) ([]db.Lead, error)
	SaveArtifact(ctx context.Context, step, channel, vertical string, content any) (uuid.UUID, error)
}

// outreachConcurrency bounds parallel model calls during outreach fan-out.
const outreachConcurrency = 4

// Processor dispatches pipeline tasks to agents. A nil Store disables
// persistence; steps still run and report counts. A nil LogWriter
// disables the per-step duration line.
type Processor struct {
	Agents    *agents.Runtime
	Store     Store
	LogWriter io.Writer
}

// Process runs one pipeline task. Unknown steps return a failure result
// rather than an error so a worker loop logs and moves on. Step-level
// retry is deliberately left to the queue; nothing here retries.
func (p *Processor) Process(ctx context.Context, task Task) Result {
	start := time.Now()
	result := p.dispatch(ctx, task)
	if p.LogWriter != nil {
		fmt.Fprintf(p.LogWriter, "[pipeline] step=%s ok=%t count=%d duration=%s\n",
			task.Step, result.OK, result.Count, time.Since(start).Round(time.Millisecond))
	}
	return result
}

func (p *Processor) dispatch(ctx context.Context, task Task) Result {
	switch task.Step {
	case StepContent:
		return p.runContent(ctx, task)
	case StepStrategy:
		return p.runStrategy(ctx, task)
	case StepReport:
		return p.runReport(ctx, task)
	case StepFindRecruiters:
		return p.runFindRecruiters(ctx, task)
	case StepOutreach:
		return p.runOutreach(ctx, task)
	default:
		return Result{OK: false, Message: fmt.Sprintf("Unknown step: %s", task.Step)}
	}
}

// ContentPayload parametrizes the content step.
type ContentPayload struct {
	Topic          string `json:"topic"`
	ProductContext string `json:"product_context"`
	Count          int    `json:"count"`
}

func (p *Processor) runContent(ctx context.Context, task Task) Result {
	var payload ContentPayload
	if msg, ok := decodePayload(task.Payload, &payload); !ok {
		return Result{OK: false, Message: msg}
	}

	out := p.Agents.GenerateContent(ctx, agents.ContentInput{
		Channel:        task.Channel,
		Vertical:       task.Vertical,
		Topic:          payload.Topic,
		ProductContext: payload.ProductContext,
		Count:          payload.Count,
	})
	if !out.OK {
		return Result{OK: false, Message: out.Message}
	}
	if msg := p.persist(ctx, StepContent, task, out.Data); msg != "" {
		return Result{OK: false, Message: msg}
	}
	return Result{OK: true, Count: len(out.Data.Pieces)}
}

// StrategyPayload parametrizes the strategy step.
type StrategyPayload struct {
	ProductContext string `json:"product_context"`
	Traction       string `json:"traction"`
}

func (p *Processor) runStrategy(ctx context.Context, task Task) Result {
	var payload StrategyPayload
	if msg, ok := decodePayload(task.Payload, &payload); !ok {
		return Result{OK: false, Message: msg}
	}

	out := p.Agents.BuildStrategy(ctx, agents.StrategyInput{
		Vertical:       task.Vertical,
		ProductContext: payload.ProductContext,
		Traction:       payload.Traction,
	})
	if !out.OK {
		return Result{OK: false, Message: out.Message}
	}
	if msg := p.persist(ctx, StepStrategy, task, out.Data); msg != "" {
		return Result{OK: false, Message: msg}
	}
	return Result{OK: true, Count: len(out.Data.Channels)}
}

// ReportPayload parametrizes the report step.
type ReportPayload struct {
	Period   string `json:"period"`
	Activity string `json:"activity"`
}

func (p *Processor) runReport(ctx context.Context, task Task) Result {
	var payload ReportPayload
	if msg, ok := decodePayload(task.Payload, &payload); !ok {
		return Result{OK: false, Message: msg}
	}

	out := p.Agents.BuildReport(ctx, agents.ReportInput{
		Period:   payload.Period,
		Activity: payload.Activity,
	})
	if !out.OK {
		return Result{OK: false, Message: out.Message}
	}
	if msg := p.persist(ctx, StepReport, task, out.Data); msg != "" {
		return Result{OK: false, Message: msg}
	}
	return Result{OK: true, Count: len(out.Data.Findings)}
}

// FindRecruitersPayload parametrizes lead extraction.
type FindRecruitersPayload struct {
	SourceData string `json:"source_data"`
	Limit      int    `json:"limit"`
}

func (p *Processor) runFindRecruiters(ctx context.Context, task Task) Result {
	var payload FindRecruitersPayload
	if msg, ok := decodePayload(task.Payload, &payload); !ok {
		return Result{OK: false, Message: msg}
	}

	out := p.Agents.FindRecruiters(ctx, agents.FindRecruitersInput{
		Vertical:   task.Vertical,
		SourceData: payload.SourceData,
		Limit:      payload.Limit,
	})
	if !out.OK {
		return Result{OK: false, Message: out.Message}
	}

	stored := 0
	for _, lead := range out.Data.Leads {
		key := DeriveDedupeKey(lead)
		if key == "" {
			// No identifying field to dedupe on: skip rather than
			// insert an uncollapsible row.
			continue
		}
		if p.Store != nil {
			_, err := p.Store.UpsertLead(ctx, db.Lead{
				DedupeKey: key,
				Name:      lead.Name,
				Company:   lead.Company,
				Title:     lead.Title,
				Email:     lead.Email,
				URL:       lead.URL,
				Channel:   task.Channel,
				Vertical:  task.Vertical,
			})
			if err != nil {
				return Result{OK: false, Count: stored, Message: fmt.Sprintf("failed to store lead: %v", err)}
			}
		}
		stored++
	}
	return Result{OK: true, Count: stored}
}

// OutreachPayload parametrizes outreach drafting over stored leads.
type OutreachPayload struct {
	ProductContext string `json:"product_context"`
	Limit          int    `json:"limit"`
}

// outreachDraft pairs a lead with its drafted message for persistence.
type outreachDraft struct {
	Lead    db.Lead               `json:"lead"`
	Message agents.OutreachResult `json:"message"`
}

func (p *Processor) runOutreach(ctx context.Context, task Task) Result {
	var payload OutreachPayload
	if msg, ok := decodePayload(task.Payload, &payload); !ok {
		return Result{OK: false, Message: msg}
	}
	if p.Store == nil {
		return Result{OK: false, Message: "outreach requires a configured store"}
	}

	leads, err := p.Store.ListLeads(ctx, task.Vertical, payload.Limit)
	if err != nil {
		return Result{OK: false, Message: fmt.Sprintf("failed to load leads: %v", err)}
	}
	if len(leads) == 0 {
		return Result{OK: true, Count: 0, Message: "no leads to contact"}
	}

	var (
		mu     sync.Mutex
		drafts []outreachDraft
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(outreachConcurrency)
	for _, lead := range leads {
		lead := lead
		g.Go(func() error {
			out := p.Agents.DraftOutreach(gctx, agents.OutreachInput{
				Name:           lead.Name,
				Title:          lead.Title,
				Company:        lead.Company,
				Context:        p.leadProfile(gctx, lead),
				Channel:        task.Channel,
				ProductContext: payload.ProductContext,
			})
			if !out.OK {
				// One bad lead should not sink the batch.
				return nil
			}
			mu.Lock()
			drafts = append(drafts, outreachDraft{Lead: lead, Message: out.Data})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{OK: false, Message: fmt.Sprintf("outreach failed: %v", err)}
	}

	if msg := p.persist(ctx, StepOutreach, task, drafts); msg != "" {
		return Result{OK: false, Message: msg}
	}
	return Result{OK: true, Count: len(drafts)}
}

// leadProfile structures what is known about a lead so the outreach
// draft can reference it. Profiling is best effort: a failed extraction
// degrades to an unprofiled draft rather than dropping the lead.
func (p *Processor) leadProfile(ctx context.Context, lead db.Lead) string {
	out := p.Agents.ExtractProfile(ctx, agents.ProfilerInput{
		SourceText: leadSourceText(lead),
	})
	if !out.OK {
		return ""
	}
	return profileSummary(out.Data)
}

func leadSourceText(lead db.Lead) string {
	parts := make([]string, 0, 4)
	for _, part := range []string{lead.Name, lead.Title, lead.Company, lead.URL} {
		if strings.TrimSpace(part) != "" {
			parts = append(parts, strings.TrimSpace(part))
		}
	}
	return strings.Join(parts, "\n")
}

// profileSummary flattens a structured profile into the one-line
// context string the outreach prompt consumes.
func profileSummary(profile agents.Profile) string {
	parts := make([]string, 0, 3)
	if profile.Title != "" && profile.Title != "Unknown" {
		parts = append(parts, profile.Title)
	}
	if profile.YearsExperience > 0 {
		parts = append(parts, fmt.Sprintf("%d years experience", profile.YearsExperience))
	}
	if len(profile.Skills) > 0 {
		skills := profile.Skills
		if len(skills) > 5 {
			skills = skills[:5]
		}
		parts = append(parts, "skills: "+strings.Join(skills, ", "))
	}
	return strings.Join(parts, "; ")
}

// persist saves a step's output, returning a failure message on error
// and "" on success or when no store is configured.
func (p *Processor) persist(ctx context.Context, step string, task Task, content any) string {
	if p.Store == nil {
		return ""
	}
	if _, err := p.Store.SaveArtifact(ctx, step, task.Channel, task.Vertical, content); err != nil {
		return fmt.Sprintf("failed to persist %s output: %v", step, err)
	}
	return ""
}

func decodePayload(raw json.RawMessage, into any) (string, bool) {
	if len(raw) == 0 {
		return "", true
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Sprintf("Invalid payload: %v", err), false
	}
	return "", true
}

// DeriveDedupeKey builds the stable identity of a lead from its fields,
// preferring a canonical URL, then an email, then a name+company
// composite. Leads with none of these return "" and are skipped.
func DeriveDedupeKey(lead agents.RecruiterLead) string {
	if url := canonicalURL(lead.URL); url != "" {
		return "url:" + url
	}
	if email := strings.ToLower(strings.TrimSpace(lead.Email)); email != "" {
		return "email:" + email
	}
	name := strings.ToLower(strings.TrimSpace(lead.Name))
	company := strings.ToLower(strings.TrimSpace(lead.Company))
	if name != "" && company != "" {
		return "name:" + name + "|" + company
	}
	return ""
}

// canonicalURL lowercases, strips the scheme and any trailing slash, so
// http/https and slash variants of the same profile collapse together.
func canonicalURL(raw string) string {
	url := strings.ToLower(strings.TrimSpace(raw))
	url = strings.TrimPrefix(url, "https://")
	url = strings.TrimPrefix(url, "http://")
	url = strings.TrimPrefix(url, "www.")
	return strings.TrimRight(url, "/")
}
