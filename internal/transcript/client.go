// Package transcript fetches YouTube captions from the TranscriptAPI service.
package transcript

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	DefaultBaseURL = "https://transcriptapi.com"
	DefaultTimeout = 60 * time.Second
)

// ErrNoTranscript means no usable transcript is available for a video. Missing credentials,
// non-200 replies (404 no captions, 402 out of credit) and malformed payloads all map to it.
var ErrNoTranscript = errors.New("no transcript available")

// Transcript is the caption text of one video.
type Transcript struct {
	Text     string
	Language string
}

// IsChinese reports whether the captions are in a zh-* language.
func (t Transcript) IsChinese() bool {
	return strings.HasPrefix(strings.ToLower(t.Language), "zh")
}

// Client talks to the TranscriptAPI v2 endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// Fetch returns the plain-text transcript of videoURL in whatever language the service has.
func (c *Client) Fetch(ctx context.Context, videoURL string) (Transcript, error) {
	if c.apiKey == "" {
		return Transcript{}, fmt.Errorf("%w: transcript API key not configured", ErrNoTranscript)
	}

	q := url.Values{}
	q.Set("video_url", videoURL)
	q.Set("format", "text")
	q.Set("include_timestamp", "false")
	q.Set("send_metadata", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v2/youtube/transcript?"+q.Encode(), nil)
	if err != nil {
		return Transcript{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Transcript{}, fmt.Errorf("fetch transcript for %s: %w", videoURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Transcript{}, fmt.Errorf("%w: status %d: %s", ErrNoTranscript, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Transcript{}, fmt.Errorf("read transcript: %w", err)
	}

	text := gjson.GetBytes(data, "transcript")
	if text.Type != gjson.String || strings.TrimSpace(text.String()) == "" {
		return Transcript{}, fmt.Errorf("%w: response carries no transcript text", ErrNoTranscript)
	}

	return Transcript{
		Text:     text.String(),
		Language: gjson.GetBytes(data, "language").String(),
	}, nil
}
