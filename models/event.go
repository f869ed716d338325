package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventStatusPending   = "pending"
	EventStatusCompleted = "completed"
)

type Event struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Event        string          `gorm:"not null" json:"event"`
	Version      int             `gorm:"not null" json:"version"`
	Entity       string          `gorm:"not null" json:"entity"`
	Operation    string          `gorm:"not null" json:"operation"`
	Timestamp    time.Time       `gorm:"not null;index" json:"timestamp"`
	Data         json.RawMessage `gorm:"not null" json:"data"`
	Status       string          `gorm:"not null;default:'pending'" json:"status"`
	Dispatched   bool            `gorm:"not null;default:false;index" json:"dispatched"`
	DispatchedAt *time.Time      `json:"dispatched_at,omitempty"`
}

func NewEvent(event, entity, operation string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Event:     event,
		Version:   1,
		Entity:    entity,
		Operation: operation,
		Timestamp: time.Now().UTC(),
		Data:      dataBytes,
		Status:    EventStatusPending,
	}, nil
}

// DataMap decodes the event payload. Undecodable data yields an empty map.
func (e *Event) DataMap() map[string]interface{} {
	dataMap := make(map[string]interface{})
	if len(e.Data) == 0 {
		return dataMap
	}
	if err := json.Unmarshal(e.Data, &dataMap); err != nil {
		return make(map[string]interface{})
	}
	return dataMap
}
