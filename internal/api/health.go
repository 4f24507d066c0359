package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	cerrors "contentsync/internal/errors"
)

// DefaultReadyTimeout bounds how long WaitForReady polls before giving up.
const DefaultReadyTimeout = 120 * time.Second

const readyPollInterval = 1 * time.Second

// WaitForReady polls the API base URL until it answers with a 2xx status,
// once per second up to timeout. A non-positive timeout uses the default.
func (c *Client) WaitForReady(ctx context.Context, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultReadyTimeout
	}
	deadline := time.Now().Add(timeout)

	for attempt := 1; ; attempt++ {
		if c.ready(ctx) {
			slog.Info("API server is ready", "url", c.baseURL)
			return nil
		}
		if time.Now().After(deadline) {
			return cerrors.New(cerrors.CategoryNetwork, cerrors.SeverityFatal, "API server did not become ready").
				WithContext("url", c.baseURL).
				WithContext("timeout", timeout.String())
		}
		slog.Info("Waiting for API server...", "url", c.baseURL, "attempt", attempt)
		select {
		case <-ctx.Done():
			return cerrors.Wrap(ctx.Err(), cerrors.CategoryNetwork, cerrors.SeverityFatal, "wait for API server")
		case <-time.After(readyPollInterval):
		}
	}
}

func (c *Client) ready(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	return resp.StatusCode < 300
}
