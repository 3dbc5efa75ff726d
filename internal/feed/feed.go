// Package feed polls YouTube channel RSS feeds and turns the newest video of each channel into a
// database page holding its transcript.
package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/tidwall/gjson"
)

var ErrInvalidChannels = errors.New("invalid channel list")

// Channel is one entry of the channel list file.
type Channel struct {
	Name string `json:"name"`
	RSS  string `json:"rss"`
}

// LoadChannels reads a JSON array of {"name", "rss"} objects. A missing file, a non-array
// document or an entry lacking either key is an error.
func LoadChannels(path string) ([]Channel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidChannels, err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: %s is not valid JSON", ErrInvalidChannels, path)
	}

	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, fmt.Errorf("%w: %s must be a list of objects", ErrInvalidChannels, path)
	}

	var channels []Channel
	for i, entry := range doc.Array() {
		name, rss := entry.Get("name"), entry.Get("rss")
		if !entry.IsObject() || !name.Exists() || !rss.Exists() {
			return nil, fmt.Errorf("%w: entry %d must be an object with 'name' and 'rss'", ErrInvalidChannels, i)
		}
		channels = append(channels, Channel{Name: name.String(), RSS: rss.String()})
	}
	return channels, nil
}

// Video is a feed entry.
type Video struct {
	Title string
	Link  string
	// Published is zero when the feed carries no parsable date
	Published time.Time
}

// Fetcher reads channel feeds.
type Fetcher struct {
	parser *gofeed.Parser
}

func NewFetcher(timeout time.Duration) *Fetcher {
	fp := gofeed.NewParser()
	fp.Client = &http.Client{Timeout: timeout}
	return &Fetcher{parser: fp}
}

// LatestVideo returns the newest long-form video of the feed, falling back to the first entry
// when every entry is a short. It returns nil for an empty feed.
func (f *Fetcher) LatestVideo(ctx context.Context, rssURL string) (*Video, error) {
	feed, err := f.parser.ParseURLWithContext(rssURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", rssURL, err)
	}
	return latestVideo(feed), nil
}

func latestVideo(feed *gofeed.Feed) *Video {
	if feed == nil || len(feed.Items) == 0 {
		return nil
	}

	pick := feed.Items[0]
	for _, item := range feed.Items {
		if item != nil && !strings.Contains(item.Link, "/shorts/") {
			pick = item
			break
		}
	}
	if pick == nil {
		return nil
	}

	v := &Video{Title: pick.Title, Link: pick.Link}
	if pick.PublishedParsed != nil {
		v.Published = *pick.PublishedParsed
	}
	return v
}

// VideoID extracts the video identifier from a watch URL ("v=" query value) or, failing that,
// the last path segment.
func VideoID(link string) string {
	if u, err := url.Parse(link); err == nil {
		if id := u.Query().Get("v"); id != "" {
			return id
		}
	}
	if i := strings.Index(link, "v="); i >= 0 {
		id, _, _ := strings.Cut(link[i+2:], "&")
		return id
	}
	link = strings.TrimRight(link, "/")
	return link[strings.LastIndex(link, "/")+1:]
}

// PublishedOn reports whether published falls on the same calendar day as now in loc.
func PublishedOn(published, now time.Time, loc *time.Location) bool {
	if published.IsZero() {
		return false
	}
	if loc == nil {
		loc = time.UTC
	}
	py, pm, pd := published.In(loc).Date()
	ny, nm, nd := now.In(loc).Date()
	return py == ny && pm == nm && pd == nd
}
