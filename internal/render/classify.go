package render

import (
	"regexp"
	"strings"
	"unicode"
)

// ClosingLabel introduces the closing statement of a summary.
const ClosingLabel = "總結："

// TitleSeparator joins a highlight title to its body when rendered.
const TitleSeparator = "："

// closingMarkers are the prefixes that start the closing section, full-width first.
var closingMarkers = []string{"總結：", "總結:"}

var enumerator = regexp.MustCompile(`^[0-9]+[.、．]`)

// Highlight is one bullet point of a summary, split at its first colon.
type Highlight struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Closing is the concluding paragraph of a summary with its marker removed.
type Closing struct {
	Body string `json:"body"`
}

// Classify splits a generated summary into highlight items and a closing statement.
//
// Lines are highlights until the first line starting with a closing marker. That line and
// every line after it belong to the closing statement, even if they look like bullets. The
// closing is nil when no marker line exists.
func Classify(summary string) ([]Highlight, *Closing) {
	var highlightLines, closingLines []string
	inClosing := false

	for _, line := range strings.Split(summary, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !inClosing && hasClosingMarker(line) {
			inClosing = true
		}
		if inClosing {
			closingLines = append(closingLines, line)
		} else {
			highlightLines = append(highlightLines, line)
		}
	}

	var highlights []Highlight
	for _, line := range highlightLines {
		highlights = append(highlights, splitHighlight(stripListPrefix(line)))
	}

	if len(closingLines) == 0 {
		return highlights, nil
	}
	return highlights, &Closing{Body: stripClosingMarker(strings.Join(closingLines, " "))}
}

func hasClosingMarker(line string) bool {
	for _, m := range closingMarkers {
		if strings.HasPrefix(line, m) {
			return true
		}
	}
	return false
}

// stripClosingMarker removes one leading marker, if any.
func stripClosingMarker(s string) string {
	for _, m := range closingMarkers {
		if rest, ok := strings.CutPrefix(s, m); ok {
			return strings.TrimLeftFunc(rest, unicode.IsSpace)
		}
	}
	return s
}

// stripListPrefix drops a "- " bullet or a "12." / "3、" / "4．" enumerator.
func stripListPrefix(line string) string {
	if rest, ok := strings.CutPrefix(line, "- "); ok {
		return strings.TrimLeftFunc(rest, unicode.IsSpace)
	}
	if loc := enumerator.FindStringIndex(line); loc != nil {
		return strings.TrimLeftFunc(line[loc[1]:], unicode.IsSpace)
	}
	return line
}

// splitHighlight splits at the first full-width colon, falling back to a half-width one.
func splitHighlight(line string) Highlight {
	title, body, found := strings.Cut(line, "：")
	if !found {
		title, body, found = strings.Cut(line, ":")
	}
	if !found {
		return Highlight{Title: strings.TrimSpace(line)}
	}
	return Highlight{Title: strings.TrimSpace(title), Body: strings.TrimSpace(body)}
}
