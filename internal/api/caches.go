package api

import "context"

// InvalidateCaches clears the API's server-side caches. Used at watch
// startup so edits published during the session become visible immediately.
func (c *Client) InvalidateCaches(ctx context.Context) error {
	_, err := c.Delete(ctx, "v1/caches")
	return err
}
