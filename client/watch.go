package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"tagdo/tagdo/models"

	"github.com/gorilla/websocket"
)

func (c *Client) websocketURL() (string, error) {
	u, err := url.Parse(c.BaseURL + "/ws")
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	if c.Token != "" {
		q := u.Query()
		q.Set("token", c.Token)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// Watch subscribes to resource ("task", "tag" or "all") and streams change
// events until ctx is cancelled or the connection drops.
func (c *Client) Watch(ctx context.Context, resource string) (<-chan models.StandardMessage, error) {
	wsURL, err := c.websocketURL()
	if err != nil {
		return nil, err
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil && resp.StatusCode != http.StatusSwitchingProtocols {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(resp.Status)}
		}
		return nil, fmt.Errorf("failed to open change feed: %w", err)
	}

	subscribe := map[string]interface{}{
		"type":    models.SubscribeMessage,
		"payload": map[string]interface{}{"resource": resource},
	}
	if err := conn.WriteJSON(subscribe); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	events := make(chan models.StandardMessage, 16)
	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	go func() {
		defer close(events)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var msg models.StandardMessage
			if json.Unmarshal(data, &msg) != nil || msg.Type != models.EventMessage {
				continue
			}
			select {
			case events <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}
