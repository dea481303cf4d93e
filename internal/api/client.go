// Package api is the HTTP client for the blockytime server. Every endpoint
// answers with a {data, error} envelope except the sleep statistics, which
// are returned bare.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/blockytime/internal/constants"
	"github.com/julianstephens/blockytime/internal/logger"
)

const maxErrorBody = 512

// Client talks to one server. It is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	token      string
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithToken sends the token as a bearer credential.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// New returns a client rooted at baseURL. A base URL without a path gets the
// default /api/v1 prefix.
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = constants.DefaultAPIURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api url %q: scheme must be http or https", baseURL)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = constants.DefaultAPIBasePath
	}
	u.Path = strings.TrimRight(u.Path, "/")

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: constants.DefaultTimeout},
		userAgent:  constants.AppName + "/" + constants.Version,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the resolved base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *string         `json:"error"`
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do sends the request and returns the raw body and status of a 2xx
// response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("%s %s: encoding request: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s: %w", method, path, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(constants.RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		logger.Warn("request failed", "method", method, "path", path, "request_id", requestID, "duration", duration, "error", err)
		return nil, 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Warn("reading response failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, 0, fmt.Errorf("%s %s: reading response: %w", method, path, err)
	}

	logger.Debug("request", "method", method, "path", path, "status", resp.StatusCode, "duration", duration, "request_id", requestID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Op: method, Path: path, StatusCode: resp.StatusCode, Message: errorMessage(data)}
		logger.Warn("server rejected request", "method", method, "path", path, "status", resp.StatusCode, "request_id", requestID, "message", apiErr.Message)
		return nil, resp.StatusCode, apiErr
	}
	return data, resp.StatusCode, nil
}

// errorMessage extracts the envelope error from a failed response, falling
// back to a trimmed excerpt of the body.
func errorMessage(body []byte) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		return *env.Error
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody] + "..."
	}
	return msg
}

// call performs an enveloped request and decodes data into out. A non-null
// error field fails the call regardless of status.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, body, out any) error {
	raw, status, err := c.do(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%s %s: decoding envelope: %w", method, path, err)
	}
	if env.Error != nil {
		logger.Warn("server reported error", "method", method, "path", path, "message", *env.Error)
		return &Error{Op: method, Path: path, StatusCode: status, Message: *env.Error, Envelope: true}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s %s: decoding data: %w", method, path, err)
	}
	return nil
}

func dateRange(start, end string) url.Values {
	q := url.Values{}
	q.Set("start_date", start)
	q.Set("end_date", end)
	return q
}
