package prompts

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// CharsPerToken is the approximation used when real tokenizer counts are
// unavailable. Matches routing.EstimateTokens.
const CharsPerToken = 4

var (
	spaceRunRe   = regexp.MustCompile(`[ \t]+`)
	blankLinesRe = regexp.MustCompile(`\n{3,}`)
	sentenceRe   = regexp.MustCompile(`[^.!?]+[.!?]?`)
)

// CompressText collapses runs of spaces and tabs to a single space and
// runs of blank lines to one blank line. It is idempotent: applying it
// twice yields the same result as once.
func CompressText(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRunRe.ReplaceAllString(line, " "))
	}
	out := strings.Join(lines, "\n")
	out = blankLinesRe.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

// truncateBackscan bounds how far TruncateToTokens walks back looking
// for a word boundary.
const truncateBackscan = 16

// TruncateToTokens cuts text down to roughly maxTokens using the
// chars-per-token heuristic, appending an ellipsis when anything was
// removed. The cut lands on a rune boundary so multibyte text stays
// valid UTF-8. Text already within budget is returned unchanged.
func TruncateToTokens(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	budget := maxTokens * CharsPerToken
	if len(text) <= budget {
		return text
	}
	cut := budget
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	// Prefer a word boundary just behind the cut so the output does not
	// end mid-word, but never give up more than a few characters.
	if idx := strings.LastIndexFunc(text[:cut], unicode.IsSpace); idx >= cut-truncateBackscan && idx > 0 {
		cut = idx
	}
	return strings.TrimRight(text[:cut], " \t\n") + "..."
}

// actionVerbs boost sentences describing accomplishments. Matching is
// case-insensitive and prefix-based so "Led", "leading" and "leads" all
// count.
var actionVerbs = []string{
	"achiev", "built", "creat", "deliver", "design", "develop", "drove",
	"grew", "improv", "increas", "launch", "led", "manag", "optimiz",
	"reduc", "scal", "ship",
}

// ExtractKeySentences returns the highest-scoring n sentences joined by
// single spaces, preserving original order and wording. Scoring favors
// sentences with digits, action verbs, and first/last position.
func ExtractKeySentences(text string, n int) string {
	if n <= 0 {
		return ""
	}

	var sentences []string
	for _, raw := range sentenceRe.FindAllString(text, -1) {
		if s := strings.TrimSpace(raw); s != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) <= n {
		return strings.Join(sentences, " ")
	}

	type scored struct {
		index int
		score int
	}
	ranked := make([]scored, len(sentences))
	for i, s := range sentences {
		score := 0
		if strings.ContainsFunc(s, unicode.IsDigit) {
			score += 3
		}
		lower := strings.ToLower(s)
		for _, verb := range actionVerbs {
			if strings.Contains(lower, verb) {
				score += 2
				break
			}
		}
		if i == 0 || i == len(sentences)-1 {
			score += 2
		}
		ranked[i] = scored{index: i, score: score}
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].score > ranked[b].score
	})
	keep := ranked[:n]
	sort.Slice(keep, func(a, b int) bool { return keep[a].index < keep[b].index })

	out := make([]string, 0, n)
	for _, s := range keep {
		out = append(out, sentences[s.index])
	}
	return strings.Join(out, " ")
}
