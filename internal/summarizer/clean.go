package summarizer

import (
	"strings"
	"unicode"
)

// MaxSummaryAttempts is the number of Run calls made per page before giving up.
const MaxSummaryAttempts = 2

// DefaultDenylist holds courtesy and call-to-action phrases that never belong in a summary.
var DefaultDenylist = []string{
	"如果覺得這個摘要有幫助",
	"如果覺得有幫助",
	"歡迎再提供更多內容",
	"您可以直接提供",
	"後續行動",
	"gemini",
}

// Clean drops every summary line that contains a denylisted phrase, comparing both sides
// lower-cased with whitespace removed. Surviving lines keep their original text minus trailing
// whitespace, and the result is trimmed. An empty denylist selects DefaultDenylist.
func Clean(summary string, denylist []string) string {
	if len(denylist) == 0 {
		denylist = DefaultDenylist
	}

	keys := make([]string, 0, len(denylist))
	for _, phrase := range denylist {
		if k := normalize(phrase); k != "" {
			keys = append(keys, k)
		}
	}

	lines := strings.Split(summary, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if containsAny(normalize(line), keys) {
			continue
		}
		kept = append(kept, line)
	}

	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func normalize(s string) string {
	return strings.ToLower(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s))
}

func containsAny(s string, keys []string) bool {
	for _, k := range keys {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
