package notion

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/Yates-Labs/recap/internal/document"
)

// decodeBlock converts one block object from a children listing.
func decodeBlock(raw gjson.Result) document.Block {
	typ := raw.Get("type").String()
	b := document.Block{
		ID:   raw.Get("id").String(),
		Type: typ,
	}

	switch typ {
	case "heading_1", "heading_2", "heading_3":
		b.Kind = document.KindHeading
		b.Level = int(typ[len(typ)-1] - '0')
	case "paragraph":
		b.Kind = document.KindParagraph
	case "numbered_list_item":
		b.Kind = document.KindNumberedItem
	case "divider":
		b.Kind = document.KindDivider
		return b
	default:
		b.Kind = document.KindOther
	}

	b.Spans = decodeRichText(raw.Get(typ + ".rich_text"))
	return b
}

func decodeRichText(rich gjson.Result) []document.Span {
	var spans []document.Span
	for _, r := range rich.Array() {
		text := r.Get("plain_text").String()
		if text == "" {
			text = r.Get("text.content").String()
		}
		spans = append(spans, document.Span{
			Content: text,
			Bold:    r.Get("annotations.bold").Bool(),
		})
	}
	return spans
}

// plainText joins the plain_text of every rich text element.
func plainText(rich gjson.Result) string {
	var sb strings.Builder
	for _, r := range rich.Array() {
		sb.WriteString(r.Get("plain_text").String())
	}
	return sb.String()
}

// encodeBlock renders a block as a Notion block object for an append request.
func encodeBlock(b document.Block) map[string]any {
	typ := blockType(b)
	body := map[string]any{}
	if typ != "divider" {
		body["rich_text"] = encodeRichText(b.Spans)
	}
	return map[string]any{
		"object": "block",
		"type":   typ,
		typ:      body,
	}
}

func blockType(b document.Block) string {
	switch b.Kind {
	case document.KindHeading:
		level := b.Level
		if level < 1 || level > 3 {
			level = 2
		}
		return "heading_" + string(rune('0'+level))
	case document.KindNumberedItem:
		return "numbered_list_item"
	case document.KindDivider:
		return "divider"
	case document.KindOther:
		if b.Type != "" {
			return b.Type
		}
	}
	return "paragraph"
}

func encodeRichText(spans []document.Span) []map[string]any {
	out := make([]map[string]any, 0, len(spans))
	for _, s := range spans {
		elem := map[string]any{
			"type": "text",
			"text": map[string]any{"content": s.Content},
		}
		if s.Bold {
			elem["annotations"] = map[string]any{"bold": true}
		}
		out = append(out, elem)
	}
	return out
}

// textProperty builds a rich_text or title property value holding one text element.
func textProperty(kind, content string) map[string]any {
	elems := []map[string]any{}
	if content != "" {
		elems = append(elems, map[string]any{"text": map[string]any{"content": content}})
	}
	return map[string]any{kind: elems}
}
