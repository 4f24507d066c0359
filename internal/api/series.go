package api

import (
	"context"
	"encoding/json"

	cerrors "contentsync/internal/errors"
)

// CreateSeries posts a raw series definition. The definition is authored as
// a JSON file and forwarded as-is, so it only has to be valid JSON.
func (c *Client) CreateSeries(ctx context.Context, definition json.RawMessage) error {
	if !json.Valid(definition) {
		return cerrors.New(cerrors.CategoryContent, cerrors.SeverityError, "series definition is not valid JSON")
	}
	_, err := c.Post(ctx, "v1/series", definition)
	return err
}
