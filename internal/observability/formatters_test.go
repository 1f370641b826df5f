package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/applyforge/applyforge/internal/agents"
	"github.com/applyforge/applyforge/internal/pipeline"
	"github.com/applyforge/applyforge/internal/routing"
)

func TestPrintMatchAssessment(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMatchAssessment(&agents.QualifyResult{
		Score:         82,
		Band:          agents.BandStrong,
		MatchedSkills: []string{"Go", "PostgreSQL"},
		MissingSkills: []string{"Kubernetes"},
		Rationale:     "Solid backend overlap.",
	})

	out := buf.String()
	assert.Contains(t, out, "MATCH ASSESSMENT")
	assert.Contains(t, out, "82/100")
	assert.Contains(t, out, "strong_match")
	assert.Contains(t, out, "Go")
	assert.Contains(t, out, "Kubernetes")
}

func TestPrintMatchAssessment_NilIsNoop(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintMatchAssessment(nil)
	assert.Empty(t, buf.String())
}

func TestPrintMatchAssessment_TruncatesLongSkillLists(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMatchAssessment(&agents.QualifyResult{
		Score:         50,
		Band:          agents.BandWeak,
		MatchedSkills: []string{"a", "b", "c", "d", "e", "f", "g"},
	})

	assert.Contains(t, buf.String(), "... and 2 more")
}

func TestPrintProfile(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintProfile(&agents.Profile{
		Name:            "Dana Smith",
		Title:           "Backend Engineer",
		YearsExperience: 7,
		Skills:          []string{"Go", "Redis"},
		WorkHistory: []agents.WorkEntry{
			{Company: "Acme", Title: "Engineer", Period: "2019-2024"},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "CANDIDATE PROFILE")
	assert.Contains(t, out, "Dana Smith")
	assert.Contains(t, out, "7 years")
	assert.Contains(t, out, "Engineer @ Acme")
}

func TestPrintRoast(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRoast(&agents.RoastResult{
		Score: 45,
		Problems: []agents.RoastProblem{
			{Quote: "Responsible for various tasks", Problem: "Vague and passive."},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "RESUME ROAST")
	assert.Contains(t, out, "45/100")
	assert.Contains(t, out, "Vague and passive.")
}

func TestPrintPipelineResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintPipelineResult("find_recruiters", pipeline.Result{OK: true, Count: 12})
	out := buf.String()
	assert.Contains(t, out, "PIPELINE STEP: find_recruiters")
	assert.Contains(t, out, "Count:   12")

	buf.Reset()
	p.PrintPipelineResult("bogus", pipeline.Result{OK: false, Message: "Unknown step: bogus"})
	out = buf.String()
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "Unknown step: bogus")
}

func TestPrintUsageStats(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintUsageStats(routing.UsageStats{
		Calls:        3,
		InputTokens:  1200,
		OutputTokens: 400,
		Cost:         0.0123,
		ByModel:      map[string]int{"gpt-4o-mini": 2, "gpt-4o": 1},
		ByTask:       map[string]int{"qualify_match": 3},
	})

	out := buf.String()
	assert.Contains(t, out, "MODEL USAGE")
	assert.Contains(t, out, "Calls:         3")
	assert.Contains(t, out, "$0.0123")
	assert.Contains(t, out, "gpt-4o-mini: 2")
	assert.Contains(t, out, "qualify_match: 3")
}

func TestTopCounts_OrdersAndCaps(t *testing.T) {
	counts := map[string]int{"a": 1, "b": 5, "c": 3, "d": 2, "e": 4, "f": 9}
	lines := topCounts(counts)

	assert.Len(t, lines, maxItemsToShow)
	assert.Equal(t, "f: 9", lines[0])
	assert.Equal(t, "b: 5", lines[1])
}
