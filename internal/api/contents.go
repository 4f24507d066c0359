package api

import (
	"context"
	"encoding/json"

	cerrors "contentsync/internal/errors"
)

// ContentResult is the API's acknowledgement of a created content item.
type ContentResult struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// CreateContent posts a payload to the contents endpoint. The payload is any
// JSON-marshalable value; the builder produces the canonical shape.
func (c *Client) CreateContent(ctx context.Context, payload any) (*ContentResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, cerrors.Wrap(err, cerrors.CategoryInternal, cerrors.SeverityError, "encode content payload")
	}
	data, err := c.Post(ctx, "v1/contents", body)
	if err != nil {
		return nil, err
	}
	var result ContentResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, cerrors.Wrap(err, cerrors.CategoryNetwork, cerrors.SeverityError, "decode content response")
	}
	return &result, nil
}

// DeleteContent removes a content item by id.
func (c *Client) DeleteContent(ctx context.Context, id string) error {
	_, err := c.Delete(ctx, "v1/contents/"+id)
	return err
}
