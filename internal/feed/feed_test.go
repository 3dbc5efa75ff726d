package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const channelFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:yt="http://www.youtube.com/xml/schemas/2015">
  <title>Tech 頻道</title>
  <entry>
    <yt:videoId>short1</yt:videoId>
    <title>60 秒看懂 NAS</title>
    <link rel="alternate" href="https://www.youtube.com/shorts/short1"/>
    <published>2025-03-01T12:00:00+00:00</published>
  </entry>
  <entry>
    <yt:videoId>long1</yt:videoId>
    <title>家用 NAS 選購</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=long1"/>
    <published>2025-03-01T02:30:00+00:00</published>
  </entry>
</feed>`

const shortsOnlyFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Shorts</title>
  <entry>
    <title>first short</title>
    <link rel="alternate" href="https://www.youtube.com/shorts/a"/>
  </entry>
  <entry>
    <title>second short</title>
    <link rel="alternate" href="https://www.youtube.com/shorts/b"/>
  </entry>
</feed>`

const emptyFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom"><title>Empty</title></feed>`

func TestLatestVideo_PrefersLongForm(t *testing.T) {
	parsed, err := gofeed.NewParser().ParseString(channelFeed)
	require.NoError(t, err)

	v := latestVideo(parsed)
	require.NotNil(t, v)
	assert.Equal(t, "家用 NAS 選購", v.Title)
	assert.Equal(t, "https://www.youtube.com/watch?v=long1", v.Link)
	assert.Equal(t, time.Date(2025, 3, 1, 2, 30, 0, 0, time.UTC), v.Published.UTC())
}

func TestLatestVideo_ShortsOnlyFallsBackToFirst(t *testing.T) {
	parsed, err := gofeed.NewParser().ParseString(shortsOnlyFeed)
	require.NoError(t, err)

	v := latestVideo(parsed)
	require.NotNil(t, v)
	assert.Equal(t, "first short", v.Title)
	assert.True(t, v.Published.IsZero())
}

func TestLatestVideo_EmptyFeed(t *testing.T) {
	parsed, err := gofeed.NewParser().ParseString(emptyFeed)
	require.NoError(t, err)
	assert.Nil(t, latestVideo(parsed))
	assert.Nil(t, latestVideo(nil))
}

func TestFetcher_LatestVideo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprint(w, channelFeed)
	}))
	defer srv.Close()

	v, err := NewFetcher(5*time.Second).LatestVideo(context.Background(), srv.URL+"/feeds/videos.xml?channel_id=UC1")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "long1", VideoID(v.Link))
}

func TestFetcher_LatestVideo_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewFetcher(5*time.Second).LatestVideo(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestLoadChannels(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
		return p
	}

	channels, err := LoadChannels(write("ok.json", `[{"name":"Tech 頻道","rss":"https://example.com/a.xml"},{"name":"B","rss":"https://example.com/b.xml","extra":1}]`))
	require.NoError(t, err)
	assert.Equal(t, []Channel{
		{Name: "Tech 頻道", RSS: "https://example.com/a.xml"},
		{Name: "B", RSS: "https://example.com/b.xml"},
	}, channels)

	invalid := map[string]string{
		"object.json":    `{"name":"A","rss":"x"}`,
		"missing.json":   `[{"name":"A"}]`,
		"scalar.json":    `["https://example.com/a.xml"]`,
		"malformed.json": `[{"name":`,
	}
	for name, body := range invalid {
		_, err := LoadChannels(write(name, body))
		assert.ErrorIs(t, err, ErrInvalidChannels, name)
	}

	_, err = LoadChannels(filepath.Join(dir, "absent.json"))
	assert.ErrorIs(t, err, ErrInvalidChannels)
}

func TestVideoID(t *testing.T) {
	tests := []struct {
		link string
		want string
	}{
		{"https://www.youtube.com/watch?v=abc123", "abc123"},
		{"https://www.youtube.com/watch?v=abc123&t=42s", "abc123"},
		{"https://www.youtube.com/shorts/xyz789", "xyz789"},
		{"https://youtu.be/qqq/", "qqq"},
		{"weird v=id1&x", "id1"},
	}
	for _, tt := range tests {
		if got := VideoID(tt.link); got != tt.want {
			t.Errorf("VideoID(%q) = %q, want %q", tt.link, got, tt.want)
		}
	}
}

func TestPublishedOn(t *testing.T) {
	taipei := time.FixedZone("Asia/Taipei", 8*3600)
	now := time.Date(2025, 3, 1, 1, 0, 0, 0, taipei)

	// 2025-02-28 18:00 UTC is 2025-03-01 02:00 in Taipei
	assert.True(t, PublishedOn(time.Date(2025, 2, 28, 18, 0, 0, 0, time.UTC), now, taipei))
	assert.False(t, PublishedOn(time.Date(2025, 2, 28, 15, 0, 0, 0, time.UTC), now, taipei))
	assert.False(t, PublishedOn(time.Time{}, now, taipei))
	assert.True(t, PublishedOn(now.UTC(), now, nil))
}
