// Package gateway is the remote service client. A gateway is either enabled
// (a base URL was configured at startup) or permanently disabled; callers that
// want offline fallback must check Enabled or catch the returned error
// themselves. There is no retry, no implicit timeout and no cancellation
// beyond the caller's context.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// ErrDisabled is returned by every verb when no base URL was configured.
var ErrDisabled = errors.New("remote service not configured")

// RequestError carries a non-2xx response. Its message is the response body
// text, which is all the UI layer ever shows.
type RequestError struct {
	Status int
	Body   string
}

func (e *RequestError) Error() string {
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Body
}

// Client issues JSON requests against the configured base URL. The bearer
// token is per-client state, not package state, so independent sessions
// (tests, multi-account) never collide.
type Client struct {
	baseURL string
	httpc   *http.Client

	mu    sync.RWMutex
	token string
}

// New builds a client. An empty baseURL yields a disabled client whose verbs
// all fail with ErrDisabled; this is fixed for the client's lifetime.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{},
	}
}

// Enabled reports whether a base URL was configured.
func (c *Client) Enabled() bool { return c.baseURL != "" }

// SetAuthToken attaches tok to every subsequent request until cleared.
func (c *Client) SetAuthToken(tok string) {
	c.mu.Lock()
	c.token = tok
	c.mu.Unlock()
}

// ClearAuthToken removes the bearer token.
func (c *Client) ClearAuthToken() { c.SetAuthToken("") }

func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *Client) Patch(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPatch, path, body)
}

func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

// do performs one request. A 204 resolves to a nil payload; any non-2xx
// status becomes a *RequestError wrapping the body text.
func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{Status: resp.StatusCode, Body: string(payload)}
	}
	if resp.StatusCode == http.StatusNoContent || len(payload) == 0 {
		return nil, nil
	}
	return json.RawMessage(payload), nil
}
