package render

import "github.com/Yates-Labs/recap/internal/document"

// AssembleInput is everything that goes onto a rebuilt page.
type AssembleInput struct {
	Heading    string
	Highlights []Highlight
	Closing    *Closing
	Divider    bool
	Chunks     []string
}

// Assemble builds the page content in its fixed order: heading, one numbered item per
// highlight, the closing paragraph, an optional divider, then one paragraph per transcript
// chunk.
func Assemble(in AssembleInput) []document.Block {
	blocks := make([]document.Block, 0, len(in.Highlights)+len(in.Chunks)+3)

	blocks = append(blocks, document.Heading(2, in.Heading))

	for _, h := range in.Highlights {
		blocks = append(blocks, document.NumberedItem(highlightSpans(h)...))
	}

	if in.Closing != nil {
		spans := []document.Span{document.Bold(ClosingLabel)}
		spans = append(spans, ParseSpans(in.Closing.Body)...)
		blocks = append(blocks, document.Paragraph(spans...))
	}

	if in.Divider {
		blocks = append(blocks, document.Divider())
	}

	for _, chunk := range in.Chunks {
		blocks = append(blocks, document.Paragraph(ParseSpans(chunk)...))
	}

	return blocks
}

// highlightSpans renders a title in bold followed by the separator and body.
// The title is bold as a whole, so its own emphasis markers are dropped.
func highlightSpans(h Highlight) []document.Span {
	title := StripEmphasis(h.Title)

	switch {
	case title != "" && h.Body != "":
		return append([]document.Span{document.Bold(title)}, ParseSpans(TitleSeparator+h.Body)...)
	case title != "":
		return []document.Span{document.Bold(title)}
	default:
		return ParseSpans(h.Body)
	}
}

// AssembleSection builds a level-2 heading followed by plain paragraphs of text, segmented
// to chunkSize runes. Markup in text is kept verbatim.
func AssembleSection(heading, text string, chunkSize int) []document.Block {
	blocks := []document.Block{document.Heading(2, heading)}
	for _, chunk := range Segment(text, chunkSize) {
		blocks = append(blocks, document.Paragraph(document.Plain(chunk)))
	}
	return blocks
}
