// Package document holds the block model shared by the renderer, the Notion client and the
// orchestrator, together with the read-side helpers that inspect a page's current blocks.
package document

import (
	"strings"
	"time"
)

// SummaryHeading is the heading text written above a generated summary. Its presence on a
// page marks the page as already processed.
const SummaryHeading = "內容摘要"

// MaxTranscriptChars bounds the transcript text fed to the summarization prompt.
const MaxTranscriptChars = 60000

// Kind identifies the structural type of a block.
type Kind string

const (
	KindHeading      Kind = "heading"
	KindParagraph    Kind = "paragraph"
	KindNumberedItem Kind = "numbered_list_item"
	KindDivider      Kind = "divider"
	// KindOther covers every store block type the pipeline does not render (callouts,
	// images, toggles). Its raw type is kept in Block.Type.
	KindOther Kind = "other"
)

// Span is a run of text with a single emphasis state.
type Span struct {
	Content string `json:"content"`
	Bold    bool   `json:"bold,omitempty"`
}

// Plain returns an unstyled span.
func Plain(s string) Span { return Span{Content: s} }

// Bold returns a bold span.
func Bold(s string) Span { return Span{Content: s, Bold: true} }

// Block is one structural unit of a page.
type Block struct {
	// ID is the store identifier; empty for blocks that have not been written yet
	ID string `json:"id,omitempty"`

	Kind Kind `json:"kind"`

	// Level is the heading level (1-3) for KindHeading and zero otherwise
	Level int `json:"level,omitempty"`

	// Type is the raw store type, e.g. "heading_2" or "callout"
	Type string `json:"type,omitempty"`

	Spans []Span `json:"spans,omitempty"`
}

// Heading returns a heading block of the given level with a single plain span.
func Heading(level int, text string) Block {
	return Block{Kind: KindHeading, Level: level, Spans: []Span{Plain(text)}}
}

// Paragraph returns a paragraph block carrying spans.
func Paragraph(spans ...Span) Block {
	return Block{Kind: KindParagraph, Spans: spans}
}

// NumberedItem returns a numbered list item carrying spans.
func NumberedItem(spans ...Span) Block {
	return Block{Kind: KindNumberedItem, Spans: spans}
}

// Divider returns a divider block.
func Divider() Block {
	return Block{Kind: KindDivider}
}

// PlainText concatenates the content of every span.
func (b Block) PlainText() string {
	if len(b.Spans) == 1 {
		return b.Spans[0].Content
	}
	var sb strings.Builder
	for _, s := range b.Spans {
		sb.WriteString(s.Content)
	}
	return sb.String()
}

// Page is a document in the store, identified by an opaque ID.
type Page struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	LastEdited time.Time `json:"last_edited,omitempty"`
}

// ChildrenPage is one page of a cursor-paginated children listing.
type ChildrenPage struct {
	Blocks     []Block
	HasMore    bool
	NextCursor string
}

// VideoPage carries the properties of a newly ingested video page. The page's Summary
// property is always created empty; summaries are written into the page body later.
type VideoPage struct {
	Channel     string
	Title       string
	URL         string
	PublishedAt time.Time
}
