package agents

import (
	"regexp"
	"strings"
)

// fillerReplacements maps banned marketing filler to neutral wording.
// Generated text is scrubbed post-hoc because models sometimes ignore
// the prompt-level ban.
var fillerReplacements = map[string]string{
	"synergy":    "alignment",
	"synergies":  "alignments",
	"leverage":   "use",
	"leverages":  "uses",
	"leveraging": "using",
	"leveraged":  "used",
	"disruptive": "bold",
}

var fillerRe = buildFillerRe()

func buildFillerRe() *regexp.Regexp {
	words := make([]string, 0, len(fillerReplacements))
	for w := range fillerReplacements {
		words = append(words, w)
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(words, "|") + `)\b`)
}

// scrubFiller replaces banned filler words with neutral alternatives,
// preserving leading capitalization.
func scrubFiller(text string) string {
	return fillerRe.ReplaceAllStringFunc(text, func(match string) string {
		replacement := fillerReplacements[strings.ToLower(match)]
		if replacement == "" {
			return match
		}
		if match[0] >= 'A' && match[0] <= 'Z' {
			return strings.ToUpper(replacement[:1]) + replacement[1:]
		}
		return replacement
	})
}

// ContainsFiller reports whether text contains any banned filler word.
func ContainsFiller(text string) bool {
	return fillerRe.MatchString(text)
}

// bannedOpeners are cover-letter openings that mark generic output.
var bannedOpeners = []string{
	"i am writing to apply",
	"i am excited to apply",
	"to whom it may concern",
}

// hasBannedOpener reports whether the letter starts with a generic
// opener, checked against the first sentence only.
func hasBannedOpener(letter string) bool {
	lower := strings.ToLower(strings.TrimSpace(letter))
	for _, opener := range bannedOpeners {
		if strings.HasPrefix(lower, opener) {
			return true
		}
	}
	return false
}
