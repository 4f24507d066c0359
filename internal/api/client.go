// Package api implements the JSON client for the remote content API.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	cerrors "contentsync/internal/errors"
)

// Client talks to the content API. The zero token form performs anonymous
// calls (author lookup, token exchange); WithToken derives an authenticated
// client that sends the bearer token on every request.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates an unauthenticated client for the given API base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// WithToken returns a copy of the client that authenticates with token.
func (c *Client) WithToken(token string) *Client {
	authed := *c
	authed.token = token
	return &authed
}

// Token returns the bearer token the client sends, if any.
func (c *Client) Token() string {
	return c.token
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) url(path string) string {
	return strings.TrimRight(c.baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return nil, cerrors.Wrap(err, cerrors.CategoryInternal, cerrors.SeverityError, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, cerrors.Wrap(err, cerrors.CategoryNetwork, cerrors.SeverityError,
			fmt.Sprintf("HTTP %s request failed", method)).WithContext("path", path)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, cerrors.Wrap(err, cerrors.CategoryNetwork, cerrors.SeverityError, "read response").
			WithContext("path", path)
	}
	if resp.StatusCode >= 300 {
		return nil, cerrors.New(cerrors.CategoryNetwork, cerrors.SeverityError,
			fmt.Sprintf("unexpected status %d", resp.StatusCode)).
			WithContext("path", path).
			WithContext("body", strings.TrimSpace(string(data)))
	}
	return data, nil
}

// Get performs a GET against a path relative to the API base URL.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body []byte) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// Delete performs a DELETE.
func (c *Client) Delete(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}
