// Package render turns summary and transcript text into the ordered block sequence written
// back to a page. Everything here is pure: no I/O, no shared state.
package render

import (
	"strings"

	"github.com/Yates-Labs/recap/internal/document"
)

// EmphasisDelimiter toggles bold text in summary markup.
const EmphasisDelimiter = "**"

// ParseSpans converts text containing "**" emphasis markers into styled spans.
//
// Each delimiter flips a single bold flag. Text between delimiters becomes one span carrying
// the flag's value at that point. An unmatched delimiter leaves the rest of the text in the
// toggled state. Text without any delimiter comes back as one plain span, and empty text as
// no spans.
func ParseSpans(text string) []document.Span {
	if text == "" {
		return nil
	}

	var spans []document.Span
	bold := false
	rest := text

	for rest != "" {
		if strings.HasPrefix(rest, EmphasisDelimiter) {
			bold = !bold
			rest = rest[len(EmphasisDelimiter):]
			continue
		}

		segment := rest
		if j := strings.Index(rest, EmphasisDelimiter); j >= 0 {
			segment = rest[:j]
		}
		rest = rest[len(segment):]

		spans = append(spans, document.Span{Content: segment, Bold: bold})
	}

	// A string made only of delimiters still yields one span.
	if len(spans) == 0 {
		spans = append(spans, document.Plain(text))
	}
	return spans
}

// StripEmphasis removes every emphasis delimiter from text.
func StripEmphasis(text string) string {
	return strings.ReplaceAll(text, EmphasisDelimiter, "")
}
