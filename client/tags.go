package client

import (
	"context"
	"net/http"

	"tagdo/tagdo/models"
)

func (c *Client) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := c.call(ctx, http.MethodGet, "/tags", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// CreateTag creates a tag. Empty name or color lets the server pick.
func (c *Client) CreateTag(ctx context.Context, name string, color models.TagColor) (*models.Tag, error) {
	body := map[string]interface{}{}
	if name != "" {
		body["name"] = name
	}
	if color != "" {
		body["color"] = string(color)
	}
	return decodeTag(ctx, c, http.MethodPost, "/tags", body)
}

// QuickAddTag is the "Add Tag" action.
func (c *Client) QuickAddTag(ctx context.Context) (*models.Tag, error) {
	return decodeTag(ctx, c, http.MethodPost, "/tags/quick", nil)
}

func (c *Client) GetTag(ctx context.Context, id string) (*models.Tag, error) {
	return decodeTag(ctx, c, http.MethodGet, idPath("/tags", id), nil)
}

func (c *Client) UpdateTag(ctx context.Context, id, name string, color models.TagColor) (*models.Tag, error) {
	body := map[string]interface{}{}
	if name != "" {
		body["name"] = name
	}
	if color != "" {
		body["color"] = string(color)
	}
	return decodeTag(ctx, c, http.MethodPut, idPath("/tags", id), body)
}

// CycleTagColor moves the tag to the next palette color.
func (c *Client) CycleTagColor(ctx context.Context, id string) (*models.Tag, error) {
	return decodeTag(ctx, c, http.MethodPost, idPath("/tags", id)+"/cycle-color", nil)
}

func (c *Client) DeleteTag(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, idPath("/tags", id), nil, nil)
}

// DeleteLastTag removes the newest tag. deleted is false when there were none.
func (c *Client) DeleteLastTag(ctx context.Context) (tag *models.Tag, deleted bool, err error) {
	var out struct {
		Deleted bool        `json:"deleted"`
		Tag     *models.Tag `json:"tag"`
	}
	if err := c.call(ctx, http.MethodDelete, "/tags/last", nil, &out); err != nil {
		return nil, false, err
	}
	return out.Tag, out.Deleted, nil
}
