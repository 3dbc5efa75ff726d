// Package notion is a small REST client for the Notion API covering the calls the recap pipeline
// needs: block children listing, archival and append, database page search, page retrieval and
// page creation. Responses are read with gjson; requests are encoded from document.Block values.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"github.com/Yates-Labs/recap/internal/document"
)

const (
	DefaultBaseURL = "https://api.notion.com"
	DefaultVersion = "2022-06-28"
	DefaultTimeout = 30 * time.Second

	// MaxAppendChildren is the per-request ceiling on appended children
	MaxAppendChildren = 100

	pageSize = 100

	// maxErrorBody bounds how much of a failed response is kept for the error message
	maxErrorBody = 4096
)

// Client communicates with the Notion REST API.
type Client struct {
	baseURL    string
	apiKey     string
	version    string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at another API host (tests use an httptest server).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithVersion sets the Notion-Version header.
func WithVersion(v string) Option {
	return func(c *Client) {
		if v != "" {
			c.version = v
		}
	}
}

// WithTimeout bounds each HTTP request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		version: DefaultVersion,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx response from the Notion API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("notion: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("notion: status %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// IsRateLimited reports whether the request was rejected by Notion's rate limiter.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.Code == "rate_limited"
}

// handleAPIError adds context to err, including rate-limit details when present.
func handleAPIError(err error, msg string) error {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.IsRateLimited() {
		retryAfter := apiErr.RetryAfter
		if retryAfter == "" {
			retryAfter = "unknown"
		}
		return fmt.Errorf("%s: hit rate limit (retry after %ss): %w", msg, retryAfter, err)
	}

	return fmt.Errorf("%s: %w", msg, err)
}

// do sends one request and returns the response body of a 2xx reply.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", c.version)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			RetryAfter: resp.Header.Get("Retry-After"),
		}
		if gjson.ValidBytes(respBody) {
			apiErr.Code = gjson.GetBytes(respBody, "code").String()
			apiErr.Message = gjson.GetBytes(respBody, "message").String()
		} else {
			apiErr.Message = string(respBody)
		}
		return nil, apiErr
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return data, nil
}

// ListChildren returns one page of a block's children starting at cursor ("" for the first page).
func (c *Client) ListChildren(ctx context.Context, blockID, cursor string) (document.ChildrenPage, error) {
	q := url.Values{}
	q.Set("page_size", fmt.Sprint(pageSize))
	if cursor != "" {
		q.Set("start_cursor", cursor)
	}

	data, err := c.do(ctx, http.MethodGet, "/v1/blocks/"+url.PathEscape(blockID)+"/children?"+q.Encode(), nil)
	if err != nil {
		return document.ChildrenPage{}, handleAPIError(err, "failed to list children of "+blockID)
	}

	res := gjson.ParseBytes(data)
	page := document.ChildrenPage{
		HasMore:    res.Get("has_more").Bool(),
		NextCursor: res.Get("next_cursor").String(),
	}
	for _, raw := range res.Get("results").Array() {
		page.Blocks = append(page.Blocks, decodeBlock(raw))
	}
	return page, nil
}

// ArchiveBlock marks one block as archived.
func (c *Client) ArchiveBlock(ctx context.Context, blockID string) error {
	_, err := c.do(ctx, http.MethodPatch, "/v1/blocks/"+url.PathEscape(blockID), map[string]any{"archived": true})
	return handleAPIError(err, "failed to archive block "+blockID)
}

// AppendChildren appends blocks to the end of blockID's children in order, split into requests
// of at most MaxAppendChildren blocks.
func (c *Client) AppendChildren(ctx context.Context, blockID string, blocks []document.Block) error {
	for start := 0; start < len(blocks); start += MaxAppendChildren {
		end := min(start+MaxAppendChildren, len(blocks))

		children := make([]map[string]any, 0, end-start)
		for _, b := range blocks[start:end] {
			children = append(children, encodeBlock(b))
		}

		_, err := c.do(ctx, http.MethodPatch, "/v1/blocks/"+url.PathEscape(blockID)+"/children", map[string]any{"children": children})
		if err != nil {
			return handleAPIError(err, fmt.Sprintf("failed to append blocks %d-%d to %s", start, end-1, blockID))
		}
	}
	return nil
}
