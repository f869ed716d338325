package models

import (
	"time"

	"github.com/google/uuid"
)

// WebSocketMessageType represents message type constants
type WebSocketMessageType string

const (
	EventMessage        WebSocketMessageType = "event"
	SubscribeMessage    WebSocketMessageType = "subscribe"
	UnsubscribeMessage  WebSocketMessageType = "unsubscribe"
	SubscriptionMessage WebSocketMessageType = "subscription"
	PingMessage         WebSocketMessageType = "ping"
	ErrorMessage        WebSocketMessageType = "error"
)

// StandardMessage is the envelope for every server-to-client websocket frame.
type StandardMessage struct {
	ID           string                 `json:"id"`
	Type         WebSocketMessageType   `json:"type"`
	Event        string                 `json:"event,omitempty"`
	Timestamp    time.Time              `json:"timestamp"`
	Payload      map[string]interface{} `json:"payload"`
	ResourceID   string                 `json:"resource_id,omitempty"`
	ResourceType string                 `json:"resource_type,omitempty"`
}

func NewStandardMessage(msgType WebSocketMessageType, event string, payload map[string]interface{}) *StandardMessage {
	if payload == nil {
		payload = map[string]interface{}{}
	}
	return &StandardMessage{
		ID:        uuid.New().String(),
		Type:      msgType,
		Event:     event,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// WithResource adds resource information to the message
func (m *StandardMessage) WithResource(resourceType string, resourceID string) *StandardMessage {
	m.ResourceType = resourceType
	m.ResourceID = resourceID
	return m
}
