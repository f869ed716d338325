package services

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tagdo/tagdo/broker"
	"tagdo/tagdo/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWebSocketTest(t *testing.T) (*WebSocketService, *broker.MemoryBus, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	bus := broker.NewMemoryBus()
	ws := NewWebSocketService(bus.Subscribe(broker.AllTopics, 16))
	ws.Start()

	router := gin.New()
	router.GET("/ws", ws.HandleConnection)
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		ws.Stop()
		server.Close()
		bus.Close()
	})

	return ws, bus, "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) models.StandardMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg models.StandardMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func subscribe(t *testing.T, conn *websocket.Conn, resource, id string) {
	t.Helper()
	payload := map[string]interface{}{"resource": resource}
	if id != "" {
		payload["id"] = id
	}
	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type":    "subscribe",
		"payload": payload,
	}))
	confirmation := readMessage(t, conn)
	require.Equal(t, models.SubscriptionMessage, confirmation.Type)
	require.Equal(t, "confirmed", confirmation.Event)
	require.Equal(t, resource, confirmation.Payload["resource"])
}

func publishEvent(t *testing.T, bus *broker.MemoryBus, eventType broker.EventType, entity string, data map[string]interface{}) {
	t.Helper()
	event, err := models.NewEvent(string(eventType), entity, "test", data)
	require.NoError(t, err)
	payload, err := BuildEventPayload(*event)
	require.NoError(t, err)
	require.NoError(t, bus.Publish(broker.TopicForEntity(entity), string(eventType), payload))
}

func TestWebSocket_DeliversSubscribedEvents(t *testing.T) {
	ws, bus, url := setupWebSocketTest(t)

	taskConn := dial(t, url)
	subscribe(t, taskConn, "task", "")

	tagConn := dial(t, url)
	subscribe(t, tagConn, "tags", "")

	assert.Eventually(t, func() bool { return ws.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	publishEvent(t, bus, broker.TaskCreated, "task", map[string]interface{}{"task_id": "abc"})
	publishEvent(t, bus, broker.TagDeleted, "tag", map[string]interface{}{"tag_id": "xyz"})

	msg := readMessage(t, taskConn)
	assert.Equal(t, models.EventMessage, msg.Type)
	assert.Equal(t, "task.created", msg.Event)
	assert.Equal(t, "task", msg.ResourceType)
	assert.Equal(t, "abc", msg.ResourceID)

	msg = readMessage(t, tagConn)
	assert.Equal(t, "tag.deleted", msg.Event)
	assert.Equal(t, "xyz", msg.ResourceID)

	// The task subscriber never sees the tag event.
	require.NoError(t, taskConn.SetReadDeadline(time.Now().Add(150*time.Millisecond)))
	_, _, err := taskConn.ReadMessage()
	assert.Error(t, err)
}

func TestWebSocket_SpecificResourceSubscription(t *testing.T) {
	_, bus, url := setupWebSocketTest(t)

	conn := dial(t, url)
	subscribe(t, conn, "task", "wanted")

	publishEvent(t, bus, broker.TaskUpdated, "task", map[string]interface{}{"task_id": "other"})
	publishEvent(t, bus, broker.TaskUpdated, "task", map[string]interface{}{"task_id": "wanted"})

	msg := readMessage(t, conn)
	assert.Equal(t, "wanted", msg.ResourceID)
}

func TestWebSocket_UnknownMessageType(t *testing.T) {
	_, _, url := setupWebSocketTest(t)
	conn := dial(t, url)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "dance"}))
	msg := readMessage(t, conn)
	assert.Equal(t, models.ErrorMessage, msg.Type)
	assert.Contains(t, msg.Payload["message"], "dance")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{")))
	msg = readMessage(t, conn)
	assert.Equal(t, models.ErrorMessage, msg.Type)
}

func TestWebSocket_BroadcastAndDisconnect(t *testing.T) {
	ws, _, url := setupWebSocketTest(t)
	conn := dial(t, url)
	assert.Eventually(t, func() bool { return ws.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hello, err := json.Marshal(models.NewStandardMessage(models.EventMessage, "hello", nil))
	require.NoError(t, err)
	ws.BroadcastMessage(hello)
	assert.Equal(t, "hello", readMessage(t, conn).Event)

	conn.Close()
	assert.Eventually(t, func() bool { return ws.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestClientWants(t *testing.T) {
	c := &Client{subscriptions: map[string]bool{"tag:1": true}}
	assert.True(t, c.wants("tag", "1"))
	assert.False(t, c.wants("tag", "2"))
	assert.False(t, c.wants("task", ""))

	c.subscriptions["all"] = true
	assert.True(t, c.wants("task", ""))
	assert.ElementsMatch(t, []string{"tag:1", "all"}, c.Subscriptions())
}

func TestExtractResourceInfo(t *testing.T) {
	rt, id := extractResourceInfo("task.updated", map[string]interface{}{"task_id": "9"})
	assert.Equal(t, "task", rt)
	assert.Equal(t, "9", id)

	rt, id = extractResourceInfo("whatever", map[string]interface{}{"entity": "tag", "tag_id": "3"})
	assert.Equal(t, "tag", rt)
	assert.Equal(t, "3", id)

	rt, id = extractResourceInfo("", nil)
	assert.Empty(t, rt)
	assert.Empty(t, id)
}
