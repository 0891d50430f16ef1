// Package api implements the HTTP request client shared by every pipeline
// operation. All backends speak JSON over HTTP against a single base URL;
// the client normalizes failures into the Transport/Decode error kinds.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AK067CSE/newsagent/internal/session"
)

// Client issues JSON requests against a configured backend base URL.
type Client struct {
	baseURL string
	client  *http.Client
}

// CallOptions carries the optional parts of a request. The body, if any,
// must already be serialized JSON.
type CallOptions struct {
	Method  string
	Headers map[string]string
	Body    []byte
}

// New creates a client for the given base address.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetHTTPClient overrides the underlying transport (useful for tests).
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.client = hc
}

// Call issues a request to endpoint and returns the raw JSON body.
// A default Content-Type of application/json is merged with any caller
// headers; caller values win on collision. Non-2xx statuses fail with a
// *TransportError regardless of body content; a success body that is not
// valid JSON fails with a *DecodeError.
func (c *Client) Call(ctx context.Context, endpoint string, opts *CallOptions) (json.RawMessage, error) {
	if opts == nil {
		opts = &CallOptions{}
	}
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if opts.Body != nil {
		body = bytes.NewReader(opts.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", endpoint, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if id, err := session.FromContext(ctx); err == nil {
		req.Header.Set("X-User-ID", id.UserID)
		req.Header.Set("X-Session-ID", id.SessionID)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response from %s: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
		}
	}

	if !json.Valid(raw) {
		return nil, &DecodeError{Endpoint: endpoint, Err: fmt.Errorf("invalid JSON body")}
	}

	return json.RawMessage(raw), nil
}

// Get issues a GET against endpoint.
func (c *Client) Get(ctx context.Context, endpoint string) (json.RawMessage, error) {
	return c.Call(ctx, endpoint, nil)
}

// PostJSON serializes payload and POSTs it to endpoint.
func (c *Client) PostJSON(ctx context.Context, endpoint string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload for %s: %w", endpoint, err)
	}
	return c.Call(ctx, endpoint, &CallOptions{Method: http.MethodPost, Body: body})
}

// Decode unmarshals a raw response into dest, converting failures into the
// DecodeError kind so callers can distinguish them from transport faults.
func Decode(endpoint string, raw json.RawMessage, dest any) error {
	if err := json.Unmarshal(raw, dest); err != nil {
		return &DecodeError{Endpoint: endpoint, Err: err}
	}
	return nil
}
