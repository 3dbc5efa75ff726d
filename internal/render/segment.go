package render

import (
	"regexp"
	"strings"
)

// DefaultChunkSize is the largest number of runes the store accepts in one block's text. It is
// also the ceiling for any requested chunk size.
const DefaultChunkSize = 1500

var blankLine = regexp.MustCompile(`\r?\n[ \t]*\r?\n`)

// Segment splits text into paragraph-respecting chunks of at most maxChunk runes.
//
// Paragraphs are separated by blank lines, trimmed, and dropped when empty. A paragraph
// longer than maxChunk is sliced into consecutive pieces; pieces of different paragraphs are
// never merged. maxChunk is clamped to (0, DefaultChunkSize]; out-of-range values select
// DefaultChunkSize.
func Segment(text string, maxChunk int) []string {
	maxChunk = ClampChunkSize(maxChunk)

	var chunks []string
	for _, para := range Paragraphs(text) {
		chunks = append(chunks, slice(para, maxChunk)...)
	}
	return chunks
}

// ClampChunkSize returns n when it lies in (0, DefaultChunkSize] and DefaultChunkSize otherwise.
func ClampChunkSize(n int) int {
	if n <= 0 || n > DefaultChunkSize {
		return DefaultChunkSize
	}
	return n
}

// Paragraphs splits text on blank lines and returns the trimmed, non-empty paragraphs.
func Paragraphs(text string) []string {
	var out []string
	for _, p := range blankLine.Split(text, -1) {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// slice cuts s into consecutive pieces of n runes; the last piece may be shorter.
func slice(s string, n int) []string {
	runes := []rune(s)
	if len(runes) <= n {
		return []string{s}
	}

	pieces := make([]string, 0, (len(runes)+n-1)/n)
	for start := 0; start < len(runes); start += n {
		end := min(start+n, len(runes))
		pieces = append(pieces, string(runes[start:end]))
	}
	return pieces
}
