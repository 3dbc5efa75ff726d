package document

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrCursorLoop is returned when a store reports more results without advancing the cursor.
var ErrCursorLoop = errors.New("children listing did not advance its cursor")

// ChildLister reads one page of a block's children.
type ChildLister interface {
	ListChildren(ctx context.Context, blockID, cursor string) (ChildrenPage, error)
}

// ListAll reads every child of blockID, following the cursor until the store reports no
// further results. Blocks are returned in store order.
func ListAll(ctx context.Context, lister ChildLister, blockID string) ([]Block, error) {
	var all []Block
	cursor := ""

	for {
		page, err := lister.ListChildren(ctx, blockID, cursor)
		if err != nil {
			return nil, fmt.Errorf("failed to list children of %s: %w", blockID, err)
		}
		all = append(all, page.Blocks...)

		if !page.HasMore {
			break
		}
		if page.NextCursor == "" || page.NextCursor == cursor {
			return nil, fmt.Errorf("%w (block %s)", ErrCursorLoop, blockID)
		}
		cursor = page.NextCursor
	}

	return all, nil
}

// AlreadyProcessed reports whether any heading block contains SummaryHeading.
// It must be given a fresh read of the page, never a cached one.
func AlreadyProcessed(blocks []Block) bool {
	for _, b := range blocks {
		if b.Kind != KindHeading {
			continue
		}
		if strings.Contains(b.PlainText(), SummaryHeading) {
			return true
		}
	}
	return false
}

// Transcript is the paragraph text of a page, in read order.
type Transcript struct {
	Paragraphs []string
}

// ExtractTranscript collects the trimmed, non-empty text of every paragraph block.
// Headings, dividers and other block types are ignored.
func ExtractTranscript(blocks []Block) Transcript {
	var t Transcript
	for _, b := range blocks {
		if b.Kind != KindParagraph {
			continue
		}
		if text := strings.TrimSpace(b.PlainText()); text != "" {
			t.Paragraphs = append(t.Paragraphs, text)
		}
	}
	return t
}

// Empty reports whether no transcript text was found.
func (t Transcript) Empty() bool {
	return len(t.Paragraphs) == 0
}

// PromptText joins the paragraphs with newlines and cuts the result to at most maxChars
// runes. The cut is not paragraph-aware. maxChars <= 0 disables the cut.
func (t Transcript) PromptText(maxChars int) string {
	return Truncate(strings.Join(t.Paragraphs, "\n"), maxChars)
}

// Full joins the paragraphs with blank lines, keeping their boundaries for re-segmentation.
func (t Transcript) Full() string {
	return strings.Join(t.Paragraphs, "\n\n")
}

// Truncate cuts s to at most maxChars runes.
func Truncate(s string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	n := 0
	for i := range s {
		if n == maxChars {
			return s[:i]
		}
		n++
	}
	return s
}
