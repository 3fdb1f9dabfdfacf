package postiz

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "http://localhost:3000/api"
	defaultTimeout = 30 * time.Second
)

// Client is a Postiz public API client for managing social posts
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// ClientOption is a function that configures the Client
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithAPIKey sets the API key sent in the Authorization header
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a new Postiz API client
func New(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an error from the Postiz API
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	ErrorCode  string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("postiz API error: %s (status: %d)", e.Message, e.StatusCode)
}

// PostData is a post as the Postiz API represents it
type PostData struct {
	ID          string     `json:"id"`
	Content     string     `json:"content"`
	Platform    string     `json:"platform"`
	State       string     `json:"state"` // scheduled, draft, cancelled, failed
	PublishDate *time.Time `json:"publishDate,omitempty"`
	IsDraft     bool       `json:"isDraft"`
}

// listPostsResponse represents the list endpoint's envelope
type listPostsResponse struct {
	Posts []PostData `json:"posts"`
}

// ListPosts retrieves every post in the given state.
// GET /public/v1/posts?state={state}
func (c *Client) ListPosts(ctx context.Context, state string) ([]PostData, error) {
	endpoint := fmt.Sprintf("%s/public/v1/posts", c.baseURL)

	params := url.Values{}
	params.Set("state", state)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	var out listPostsResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}

	return out.Posts, nil
}

// SchedulePostInput represents the reschedule request body
type SchedulePostInput struct {
	PublishDate time.Time `json:"publishDate"`
	IsDraft     bool      `json:"isDraft"`
}

// SchedulePost moves a post to a new publication instant. This is a
// dedicated endpoint, not a generic field update: the store keeps the
// post's identity and content and clears its draft flag.
// PUT /public/v1/posts/{id}/schedule
func (c *Client) SchedulePost(ctx context.Context, id string, publishDate time.Time) (*PostData, error) {
	endpoint := fmt.Sprintf("%s/public/v1/posts/%s/schedule", c.baseURL, url.PathEscape(id))

	body, err := json.Marshal(SchedulePostInput{PublishDate: publishDate.UTC(), IsDraft: false})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out PostData
	if err := c.do(req, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// UpdatePostInput represents fields updatable through the generic
// update endpoint
type UpdatePostInput struct {
	State *string `json:"state,omitempty"`
}

// UpdatePost updates a post's mutable fields.
// PATCH /public/v1/posts/{id}
func (c *Client) UpdatePost(ctx context.Context, id string, in UpdatePostInput) (*PostData, error) {
	endpoint := fmt.Sprintf("%s/public/v1/posts/%s", c.baseURL, url.PathEscape(id))

	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out PostData
	if err := c.do(req, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// do executes an HTTP request and decodes the response
func (c *Client) do(req *http.Request, out interface{}) error {
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = string(body)
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
