// Package client is a typed HTTP client for the tagdo API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tagdo/tagdo/models"
)

const DefaultServer = "http://localhost:8080"

type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// New returns a client for server (scheme://host[:port]). An empty server
// uses DefaultServer.
func New(server, token string) *Client {
	if server == "" {
		server = DefaultServer
	}
	return &Client{
		BaseURL: strings.TrimRight(server, "/") + "/api/v1",
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body interface{}) (*http.Request, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	return req, nil
}

// makeRequest performs the call and returns the raw body and content type.
func (c *Client) makeRequest(ctx context.Context, method, endpoint string, body interface{}) ([]byte, string, error) {
	req, err := c.newRequest(ctx, method, endpoint, body)
	if err != nil {
		return nil, "", err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		}
		return nil, "", apiErr
	}

	return respBody, resp.Header.Get("Content-Type"), nil
}

func (c *Client) call(ctx context.Context, method, endpoint string, body, out interface{}) error {
	respBody, _, err := c.makeRequest(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Health pings the server.
func (c *Client) Health(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, "/health", nil, nil)
}

// Seed loads the preview tasks and returns how many were created.
func (c *Client) Seed(ctx context.Context, force bool) (int, error) {
	var out struct {
		Created int `json:"created"`
	}
	endpoint := "/seed"
	if force {
		endpoint += "?force=true"
	}
	if err := c.call(ctx, http.MethodPost, endpoint, nil, &out); err != nil {
		return 0, err
	}
	return out.Created, nil
}

func idPath(prefix, id string) string {
	return prefix + "/" + url.PathEscape(id)
}

func decodeTask(ctx context.Context, c *Client, method, endpoint string, body interface{}) (*models.Task, error) {
	var task models.Task
	if err := c.call(ctx, method, endpoint, body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func decodeTag(ctx context.Context, c *Client, method, endpoint string, body interface{}) (*models.Tag, error) {
	var tag models.Tag
	if err := c.call(ctx, method, endpoint, body, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}
