// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/applyforge/applyforge/internal/agents"
	"github.com/applyforge/applyforge/internal/pipeline"
	"github.com/applyforge/applyforge/internal/routing"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintFailure outputs a failed agent outcome.
func (p *Printer) PrintFailure(agent string, message string) {
	p.printBox(fmt.Sprintf("%s FAILED", strings.ToUpper(agent)), message)
}

// PrintMatchAssessment outputs a human-readable job match assessment.
func (p *Printer) PrintMatchAssessment(result *agents.QualifyResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score:  %d/100\n", result.Score))
	sb.WriteString(fmt.Sprintf("Band:   %s\n", result.Band))
	sb.WriteString("\n")

	if len(result.MatchedSkills) > 0 {
		sb.WriteString("Matched Skills:\n")
		count := min(len(result.MatchedSkills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", result.MatchedSkills[i]))
		}
		if len(result.MatchedSkills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.MatchedSkills)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(result.MissingSkills) > 0 {
		sb.WriteString("Missing Skills:\n")
		count := min(len(result.MissingSkills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", result.MissingSkills[i]))
		}
		if len(result.MissingSkills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.MissingSkills)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if result.Rationale != "" {
		sb.WriteString(fmt.Sprintf("Rationale: %s\n", result.Rationale))
	}

	p.printBox("MATCH ASSESSMENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProfile outputs the extracted candidate profile.
func (p *Printer) PrintProfile(profile *agents.Profile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:       %s\n", profile.Name))
	sb.WriteString(fmt.Sprintf("Title:      %s\n", profile.Title))
	sb.WriteString(fmt.Sprintf("Experience: %d years\n", profile.YearsExperience))
	sb.WriteString("\n")

	if len(profile.Skills) > 0 {
		skills := strings.Join(profile.Skills, ", ")
		if len(skills) > 50 {
			skills = skills[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("Skills: %s\n", skills))
		sb.WriteString("\n")
	}

	if len(profile.WorkHistory) > 0 {
		sb.WriteString("Work History:\n")
		count := min(len(profile.WorkHistory), maxItemsToShow)
		for i := 0; i < count; i++ {
			entry := profile.WorkHistory[i]
			sb.WriteString(fmt.Sprintf("  • %s @ %s (%s)\n", entry.Title, entry.Company, entry.Period))
		}
		if len(profile.WorkHistory) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(profile.WorkHistory)-maxItemsToShow))
		}
	}

	p.printBox("CANDIDATE PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRoast outputs the resume critique with its problem list.
func (p *Printer) PrintRoast(result *agents.RoastResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score: %d/100\n\n", result.Score))

	count := min(len(result.Problems), maxItemsToShow)
	for i := 0; i < count; i++ {
		problem := result.Problems[i]
		quote := problem.Quote
		if len(quote) > 45 {
			quote = quote[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("⚠ \"%s\"\n", quote))
		sb.WriteString(fmt.Sprintf("  %s\n", problem.Problem))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(result.Problems) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more problems", len(result.Problems)-maxItemsToShow))
	}

	p.printBox("RESUME ROAST", sb.String())
}

// PrintPivot outputs the career pivot analysis with bridge skills.
func (p *Printer) PrintPivot(result *agents.PivotResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Feasibility: %d/100\n", result.FeasibilityScore))
	sb.WriteString(fmt.Sprintf("Timeline:    %s\n", result.Timeline))
	sb.WriteString("\n")

	sb.WriteString("Bridge Skills:\n")
	for i, skill := range result.BridgeSkills {
		sb.WriteString(fmt.Sprintf("  • %s\n", skill.Skill))
		application := skill.TargetApplication
		if len(application) > 48 {
			application = application[:45] + "..."
		}
		sb.WriteString(fmt.Sprintf("    → %s\n", application))
		if i < len(result.BridgeSkills)-1 {
			sb.WriteString("\n")
		}
	}

	if result.BiggestObstacle != "" {
		sb.WriteString(fmt.Sprintf("\nBiggest obstacle: %s\n", result.BiggestObstacle))
	}

	p.printBox("CAREER PIVOT ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPipelineResult outputs the outcome of one pipeline step.
func (p *Printer) PrintPipelineResult(step string, result pipeline.Result) {
	var sb strings.Builder
	if result.OK {
		sb.WriteString("Status:  ok\n")
		sb.WriteString(fmt.Sprintf("Count:   %d\n", result.Count))
	} else {
		sb.WriteString("Status:  failed\n")
	}
	if result.Message != "" {
		sb.WriteString(fmt.Sprintf("Message: %s\n", result.Message))
	}

	p.printBox(fmt.Sprintf("PIPELINE STEP: %s", step), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintUsageStats outputs aggregate model usage for the process.
func (p *Printer) PrintUsageStats(stats routing.UsageStats) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Calls:         %d\n", stats.Calls))
	sb.WriteString(fmt.Sprintf("Input tokens:  %d\n", stats.InputTokens))
	sb.WriteString(fmt.Sprintf("Output tokens: %d\n", stats.OutputTokens))
	sb.WriteString(fmt.Sprintf("Est. cost:     $%.4f\n", stats.Cost))

	if len(stats.ByModel) > 0 {
		sb.WriteString("\nBy model:\n")
		for _, line := range topCounts(stats.ByModel) {
			sb.WriteString(fmt.Sprintf("  %s\n", line))
		}
	}
	if len(stats.ByTask) > 0 {
		sb.WriteString("\nBy task:\n")
		for _, line := range topCounts(stats.ByTask) {
			sb.WriteString(fmt.Sprintf("  %s\n", line))
		}
	}

	p.printBox("MODEL USAGE", strings.TrimSuffix(sb.String(), "\n"))
}

// topCounts renders a count map as "name: n" lines, largest first,
// capped at maxItemsToShow.
func topCounts(counts map[string]int) []string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > maxItemsToShow {
		names = names[:maxItemsToShow]
	}

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("%s: %d", name, counts[name]))
	}
	return lines
}
