package client

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"strconv"

	"tagdo/tagdo/models"
)

// TaskFilter narrows ListTasks. Nil/empty fields are not sent.
type TaskFilter struct {
	Completed *bool
	TagID     string
	Title     string
}

func (f TaskFilter) query() string {
	q := url.Values{}
	if f.Completed != nil {
		q.Set("completed", strconv.FormatBool(*f.Completed))
	}
	if f.TagID != "" {
		q.Set("tag_id", f.TagID)
	}
	if f.Title != "" {
		q.Set("title", f.Title)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// TaskInput is the body of CreateTask.
type TaskInput struct {
	Title   string
	Content string
	IsDone  bool
	Icon    []byte
	TagIDs  []string
}

func (in TaskInput) body() map[string]interface{} {
	body := map[string]interface{}{
		"title":   in.Title,
		"content": in.Content,
		"is_done": in.IsDone,
	}
	if len(in.Icon) > 0 {
		body["icon_data"] = base64.StdEncoding.EncodeToString(in.Icon)
	}
	if len(in.TagIDs) > 0 {
		body["tag_ids"] = in.TagIDs
	}
	return body
}

// TaskUpdate is a partial update; nil fields are left unchanged.
type TaskUpdate struct {
	Title   *string
	Content *string
	IsDone  *bool
}

func (u TaskUpdate) body() map[string]interface{} {
	body := map[string]interface{}{}
	if u.Title != nil {
		body["title"] = *u.Title
	}
	if u.Content != nil {
		body["content"] = *u.Content
	}
	if u.IsDone != nil {
		body["is_done"] = *u.IsDone
	}
	return body
}

func (c *Client) ListTasks(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.call(ctx, http.MethodGet, "/tasks"+filter.query(), nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, in TaskInput) (*models.Task, error) {
	return decodeTask(ctx, c, http.MethodPost, "/tasks", in.body())
}

// QuickAddTask is the "Add Todo" action.
func (c *Client) QuickAddTask(ctx context.Context) (*models.Task, error) {
	return decodeTask(ctx, c, http.MethodPost, "/tasks/quick", nil)
}

func (c *Client) GetTask(ctx context.Context, id string) (*models.Task, error) {
	return decodeTask(ctx, c, http.MethodGet, idPath("/tasks", id), nil)
}

func (c *Client) UpdateTask(ctx context.Context, id string, update TaskUpdate) (*models.Task, error) {
	return decodeTask(ctx, c, http.MethodPut, idPath("/tasks", id), update.body())
}

// SetDone flips the completion flag.
func (c *Client) SetDone(ctx context.Context, id string, done bool) (*models.Task, error) {
	return c.UpdateTask(ctx, id, TaskUpdate{IsDone: &done})
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, idPath("/tasks", id), nil, nil)
}

// TaskIcon returns the icon bytes and content type.
func (c *Client) TaskIcon(ctx context.Context, id string) ([]byte, string, error) {
	return c.makeRequest(ctx, http.MethodGet, idPath("/tasks", id)+"/icon", nil)
}

func (c *Client) SetTaskTags(ctx context.Context, id string, tagIDs []string) (*models.Task, error) {
	if tagIDs == nil {
		tagIDs = []string{}
	}
	return decodeTask(ctx, c, http.MethodPut, idPath("/tasks", id)+"/tags", map[string]interface{}{"tag_ids": tagIDs})
}

func (c *Client) AddTagToTask(ctx context.Context, id, tagID string) (*models.Task, error) {
	return decodeTask(ctx, c, http.MethodPost, idPath(idPath("/tasks", id)+"/tags", tagID), nil)
}

func (c *Client) RemoveTagFromTask(ctx context.Context, id, tagID string) (*models.Task, error) {
	return decodeTask(ctx, c, http.MethodDelete, idPath(idPath("/tasks", id)+"/tags", tagID), nil)
}
