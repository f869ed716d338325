package services

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"tagdo/tagdo/broker"
	"tagdo/tagdo/models"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 256
)

// WebSocketServiceInterface defines the operations provided by the WebSocket service
type WebSocketServiceInterface interface {
	Start()
	Stop()
	HandleConnection(c *gin.Context)
	BroadcastMessage(message []byte)
	ClientCount() int
}

// Client represents a connected WebSocket client
type Client struct {
	ID   string
	Hub  *WebSocketService
	Conn *websocket.Conn
	Send chan []byte

	subMu         sync.RWMutex
	subscriptions map[string]bool
}

// ClientMessage represents a message from the client
type ClientMessage struct {
	Type    models.WebSocketMessageType `json:"type"`
	Payload json.RawMessage             `json:"payload"`
}

type subscriptionPayload struct {
	Resource string `json:"resource"`
	ID       string `json:"id,omitempty"`
}

func (p subscriptionPayload) key() string {
	if p.ID != "" {
		return p.Resource + ":" + p.ID
	}
	return p.Resource
}

// WebSocketService fans broker events out to subscribed websocket clients.
type WebSocketService struct {
	clients      map[string]*Client
	clientsMutex sync.RWMutex

	broadcast chan []byte
	upgrader  websocket.Upgrader
	consumer  broker.Consumer

	runMutex  sync.Mutex
	isRunning bool
	stopChan  chan struct{}
	done      chan struct{}
}

// NewWebSocketService creates a hub reading events from consumer.
func NewWebSocketService(consumer broker.Consumer) *WebSocketService {
	return &WebSocketService{
		clients:   make(map[string]*Client),
		broadcast: make(chan []byte, sendBuffer),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		consumer: consumer,
	}
}

func (ws *WebSocketService) Start() {
	ws.runMutex.Lock()
	defer ws.runMutex.Unlock()
	if ws.isRunning {
		return
	}
	ws.isRunning = true
	ws.stopChan = make(chan struct{})
	ws.done = make(chan struct{})
	go ws.run(ws.stopChan, ws.done)
	log.Info("WebSocket hub started")
}

// Stop gracefully shuts down the WebSocket service
func (ws *WebSocketService) Stop() {
	ws.runMutex.Lock()
	if !ws.isRunning {
		ws.runMutex.Unlock()
		return
	}
	ws.isRunning = false
	close(ws.stopChan)
	done := ws.done
	ws.runMutex.Unlock()
	<-done

	ws.clientsMutex.Lock()
	for id, client := range ws.clients {
		close(client.Send)
		client.Conn.Close()
		delete(ws.clients, id)
	}
	ws.clientsMutex.Unlock()

	log.Info("WebSocket hub stopped")
}

// BroadcastMessage sends a message to all connected clients
func (ws *WebSocketService) BroadcastMessage(message []byte) {
	select {
	case ws.broadcast <- message:
	default:
		log.Warn("Broadcast queue full, discarding message")
	}
}

func (ws *WebSocketService) ClientCount() int {
	ws.clientsMutex.RLock()
	defer ws.clientsMutex.RUnlock()
	return len(ws.clients)
}

func (ws *WebSocketService) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	var messages <-chan broker.Message
	if ws.consumer != nil {
		messages = ws.consumer.Messages()
	}

	for {
		select {
		case <-stop:
			return

		case message := <-ws.broadcast:
			ws.deliver(message, func(*Client) bool { return true })

		case msg, ok := <-messages:
			if !ok {
				log.Warn("Broker channel closed, hub will no longer receive events")
				messages = nil
				continue
			}
			ws.handleBrokerMessage(msg)
		}
	}
}

// HandleConnection upgrades the request and registers a new client.
func (ws *WebSocketService) HandleConnection(c *gin.Context) {
	conn, err := ws.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Error upgrading to WebSocket", "err", err)
		return
	}

	client := &Client{
		ID:            uuid.New().String(),
		Hub:           ws,
		Conn:          conn,
		Send:          make(chan []byte, sendBuffer),
		subscriptions: make(map[string]bool),
	}

	ws.clientsMutex.Lock()
	ws.clients[client.ID] = client
	ws.clientsMutex.Unlock()
	log.Info("Client connected", "client", client.ID)

	go client.writePump()
	go client.readPump()
}

func (ws *WebSocketService) unregister(client *Client) {
	ws.clientsMutex.Lock()
	defer ws.clientsMutex.Unlock()
	if _, ok := ws.clients[client.ID]; ok {
		delete(ws.clients, client.ID)
		close(client.Send)
		log.Info("Client disconnected", "client", client.ID)
	}
}

// trySend queues data for a still-registered client without blocking.
func (ws *WebSocketService) trySend(client *Client, data []byte) bool {
	ws.clientsMutex.RLock()
	defer ws.clientsMutex.RUnlock()
	if _, ok := ws.clients[client.ID]; !ok {
		return false
	}
	select {
	case client.Send <- data:
		return true
	default:
		return false
	}
}

// deliver sends message to every client accepted by match. Clients whose
// buffer is full are dropped.
func (ws *WebSocketService) deliver(message []byte, match func(*Client) bool) int {
	ws.clientsMutex.Lock()
	defer ws.clientsMutex.Unlock()

	sent := 0
	for id, client := range ws.clients {
		if !match(client) {
			continue
		}
		select {
		case client.Send <- message:
			sent++
		default:
			log.Warn("Client send buffer full, removing client", "client", id)
			close(client.Send)
			delete(ws.clients, id)
		}
	}
	return sent
}

func (ws *WebSocketService) handleBrokerMessage(msg broker.Message) {
	var eventData map[string]interface{}
	if err := json.Unmarshal(msg.Data, &eventData); err != nil {
		log.Error("Error parsing broker message", "subject", msg.Subject, "err", err)
		return
	}

	eventType := msg.Key
	if typeVal, ok := eventData["type"].(string); ok && typeVal != "" {
		eventType = typeVal
	}

	payload, _ := eventData["payload"].(map[string]interface{})
	resourceType, resourceID := extractResourceInfo(eventType, payload)

	serverMsg := models.NewStandardMessage(models.EventMessage, eventType, payload).
		WithResource(resourceType, resourceID)
	jsonData, err := json.Marshal(serverMsg)
	if err != nil {
		log.Error("Error serializing server message", "err", err)
		return
	}

	sent := ws.deliver(jsonData, func(client *Client) bool {
		return client.wants(resourceType, resourceID)
	})
	log.Debug("Delivered event", "event", eventType, "clients", sent)
}

// extractResourceInfo returns the entity and id an event is about.
func extractResourceInfo(eventType string, payload map[string]interface{}) (string, string) {
	resourceType := ""
	if entity, ok := payload["entity"].(string); ok {
		resourceType = entity
	}
	if resourceType == "" {
		if idx := strings.Index(eventType, "."); idx > 0 {
			resourceType = eventType[:idx]
		}
	}

	resourceID := ""
	if id, ok := payload[resourceType+"_id"].(string); ok {
		resourceID = id
	}
	return resourceType, resourceID
}

// wants reports whether the client subscribed to everything, to the
// resource type (singular or plural), or to the specific resource.
func (c *Client) wants(resourceType, resourceID string) bool {
	c.subMu.RLock()
	defer c.subMu.RUnlock()

	if c.subscriptions["all"] || c.subscriptions[resourceType] || c.subscriptions[resourceType+"s"] {
		return true
	}
	return resourceID != "" && c.subscriptions[resourceType+":"+resourceID]
}

func (c *Client) Subscriptions() []string {
	c.subMu.RLock()
	defer c.subMu.RUnlock()
	out := make([]string, 0, len(c.subscriptions))
	for key := range c.subscriptions {
		out = append(out, key)
	}
	return out
}

// readPump handles incoming messages from the WebSocket client
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn("Error reading from WebSocket", "client", c.ID, "err", err)
			}
			return
		}
		c.processMessage(message)
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// One frame per message so clients can decode each as JSON.
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) processMessage(msg []byte) {
	var clientMsg ClientMessage
	if err := json.Unmarshal(msg, &clientMsg); err != nil {
		c.sendError("malformed message")
		return
	}

	switch clientMsg.Type {
	case models.SubscribeMessage:
		c.handleSubscribe(clientMsg)
	case models.UnsubscribeMessage:
		c.handleUnsubscribe(clientMsg)
	case models.PingMessage:
		// keepalive
	default:
		log.Warn("Unknown message type", "client", c.ID, "type", clientMsg.Type)
		c.sendError("unknown message type: " + string(clientMsg.Type))
	}
}

func (c *Client) handleSubscribe(msg ClientMessage) {
	var payload subscriptionPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.Resource == "" {
		c.sendError("subscribe requires a resource")
		return
	}

	c.subMu.Lock()
	c.subscriptions[payload.key()] = true
	c.subMu.Unlock()
	log.Debug("Client subscribed", "client", c.ID, "subscription", payload.key())

	confirmation := models.NewStandardMessage(models.SubscriptionMessage, "confirmed", map[string]interface{}{
		"resource": payload.Resource,
		"id":       payload.ID,
	})
	if data, err := json.Marshal(confirmation); err == nil {
		c.Hub.trySend(c, data)
	}
}

func (c *Client) handleUnsubscribe(msg ClientMessage) {
	var payload subscriptionPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.sendError("malformed unsubscribe payload")
		return
	}

	c.subMu.Lock()
	delete(c.subscriptions, payload.key())
	c.subMu.Unlock()
}

func (c *Client) sendError(message string) {
	errMsg := models.NewStandardMessage(models.ErrorMessage, "", map[string]interface{}{
		"message": message,
	})
	if data, err := json.Marshal(errMsg); err == nil {
		c.Hub.trySend(c, data)
	}
}
