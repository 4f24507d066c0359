package api

import "context"

// DeleteTag removes a tag by id.
func (c *Client) DeleteTag(ctx context.Context, id string) error {
	_, err := c.Delete(ctx, "v1/tags/"+id)
	return err
}
