package notion

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/Yates-Labs/recap/internal/document"
)

// maxPropertyText is Notion's length limit for one rich text element.
const maxPropertyText = 2000

// titleProperties are checked in order when reading a page title.
var titleProperties = []string{"Name", "Title"}

// RecentPages returns up to limit pages of databaseID, most recently edited first.
// The search API is not database-scoped, so limit*5 results are fetched and filtered by parent.
func (c *Client) RecentPages(ctx context.Context, databaseID string, limit int) ([]document.Page, error) {
	if limit <= 0 {
		return nil, nil
	}

	payload := map[string]any{
		"filter":    map[string]any{"property": "object", "value": "page"},
		"sort":      map[string]any{"direction": "descending", "timestamp": "last_edited_time"},
		"page_size": min(limit*5, pageSize),
	}

	data, err := c.do(ctx, http.MethodPost, "/v1/search", payload)
	if err != nil {
		return nil, handleAPIError(err, "failed to search pages")
	}

	want := normalizeID(databaseID)
	var pages []document.Page
	for _, raw := range gjson.GetBytes(data, "results").Array() {
		if normalizeID(raw.Get("parent.database_id").String()) != want {
			continue
		}
		pages = append(pages, decodePage(raw))
		if len(pages) >= limit {
			break
		}
	}
	return pages, nil
}

// Page retrieves one page's metadata.
func (c *Client) Page(ctx context.Context, pageID string) (document.Page, error) {
	data, err := c.do(ctx, http.MethodGet, "/v1/pages/"+url.PathEscape(pageID), nil)
	if err != nil {
		return document.Page{}, handleAPIError(err, "failed to retrieve page "+pageID)
	}
	return decodePage(gjson.ParseBytes(data)), nil
}

// CreateVideoPage creates a page in databaseID describing v and appends children to it.
// It returns the new page ID.
func (c *Client) CreateVideoPage(ctx context.Context, databaseID string, v document.VideoPage, children []document.Block) (string, error) {
	var published, videoURL any
	if !v.PublishedAt.IsZero() {
		published = map[string]any{"start": v.PublishedAt.Format(time.RFC3339)}
	}
	if v.URL != "" {
		videoURL = v.URL
	}
	title := document.Truncate(v.Title, maxPropertyText)

	payload := map[string]any{
		"parent": map[string]any{"database_id": databaseID},
		"properties": map[string]any{
			"Name":         textProperty("title", title),
			"Channel":      textProperty("rich_text", document.Truncate(v.Channel, maxPropertyText)),
			"Video Title":  textProperty("rich_text", title),
			"Video URL":    map[string]any{"url": videoURL},
			"Published At": map[string]any{"date": published},
			"Summary":      textProperty("rich_text", ""),
		},
	}

	data, err := c.do(ctx, http.MethodPost, "/v1/pages", payload)
	if err != nil {
		return "", handleAPIError(err, "failed to create page for "+v.URL)
	}

	pageID := gjson.GetBytes(data, "id").String()
	if pageID == "" {
		return "", fmt.Errorf("create page for %s: response has no id", v.URL)
	}

	if err := c.AppendChildren(ctx, pageID, children); err != nil {
		return pageID, err
	}
	return pageID, nil
}

func decodePage(raw gjson.Result) document.Page {
	page := document.Page{
		ID:    raw.Get("id").String(),
		Title: pageTitle(raw.Get("properties")),
	}
	if ts, err := time.Parse(time.RFC3339, raw.Get("last_edited_time").String()); err == nil {
		page.LastEdited = ts
	}
	return page
}

func pageTitle(props gjson.Result) string {
	for _, name := range titleProperties {
		prop := props.Get(name)
		if prop.Get("type").String() == "title" {
			return strings.TrimSpace(plainText(prop.Get("title")))
		}
	}
	return ""
}

// normalizeID strips the dashes Notion may or may not include in UUIDs.
func normalizeID(id string) string {
	return strings.ToLower(strings.ReplaceAll(id, "-", ""))
}
