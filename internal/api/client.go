// Package api is the HTTP client for the school-management API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/theirongolddev/shule/internal/auth"
)

const (
	// DefaultBaseURL is the default API server URL.
	DefaultBaseURL = "http://127.0.0.1:8000"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 15 * time.Second

	// SchoolHeader carries the active school id on school-scoped calls.
	SchoolHeader = "X-School-ID"

	maxErrorBody = 64 << 10
)

// API paths.
const (
	AcademicStatusPath = "/api/academic/status"
	ClassesPath        = "/api/classes/"
	SchoolsPath        = "/api/schools/"
	MySchoolsPath      = "/api/schools/mine"
)

// Client provides methods to interact with the school API.
type Client struct {
	baseURL    string
	session    auth.Session
	httpClient *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL sets the API server base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithSession sets the session whose token and school id are sent.
func WithSession(s auth.Session) Option {
	return func(c *Client) {
		c.session = s
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the default timeout for HTTP requests.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient creates a new client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Session returns the session the client authenticates with.
func (c *Client) Session() auth.Session {
	return c.session
}

// do performs a request and decodes a JSON response into out. Non-2xx
// responses become *APIError carrying the server's detail message.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body any, schoolScoped bool, out any) error {
	if schoolScoped && c.session.SchoolID() == "" {
		return NewAPIError(op, 0, ErrNoSchool)
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return NewAPIError(op, 0, fmt.Errorf("encoding request: %w", err))
		}
		reader = bytes.NewReader(buf)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return NewAPIError(op, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if id := c.session.SchoolID(); id != "" {
		req.Header.Set(SchoolHeader, id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
			return NewAPIError(op, 0, ErrTimeout)
		}
		return NewAPIError(op, 0, fmt.Errorf("%w: %v", ErrServerUnavailable, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := NewAPIError(op, resp.StatusCode, statusError(resp.StatusCode))
		apiErr.Detail = parseDetail(raw)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewAPIError(op, resp.StatusCode, fmt.Errorf("decoding response: %w", err))
	}
	return nil
}
