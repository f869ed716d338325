package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"tagdo/tagdo/broker"
	"tagdo/tagdo/database"
	"tagdo/tagdo/models"

	"github.com/charmbracelet/log"
)

type EventHandlerServiceInterface interface {
	Start()
	Stop()
	ProcessPendingEvents(ctx context.Context) (int, error)
}

// EventHandlerService publishes outbox events written by the other services.
type EventHandlerService struct {
	db       *database.Database
	producer broker.Producer
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewEventHandlerService(db *database.Database, producer broker.Producer, interval time.Duration) *EventHandlerService {
	if interval <= 0 {
		interval = time.Second
	}
	return &EventHandlerService{
		db:       db,
		producer: producer,
		interval: interval,
	}
}

func (s *EventHandlerService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx, s.done)
	log.Info("Event dispatcher started", "interval", s.interval)
}

func (s *EventHandlerService) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	log.Info("Event dispatcher stopped")
}

func (s *EventHandlerService) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.ProcessPendingEvents(ctx); err != nil {
				log.Error("Error fetching events", "err", err)
			}
		}
	}
}

// ProcessPendingEvents dispatches every undispatched event once, oldest first.
// Events that fail to publish stay pending for the next pass.
func (s *EventHandlerService) ProcessPendingEvents(ctx context.Context) (int, error) {
	var events []models.Event
	if err := s.db.DB.WithContext(ctx).
		Where("dispatched = ?", false).
		Order("timestamp ASC").
		Find(&events).Error; err != nil {
		return 0, err
	}

	if len(events) > 0 {
		log.Debug("Found pending events", "count", len(events))
	}

	dispatched := 0
	for _, event := range events {
		if ctx.Err() != nil {
			return dispatched, ctx.Err()
		}
		if err := s.dispatchEvent(ctx, event); err != nil {
			log.Error("Error dispatching event", "event_id", event.ID, "err", err)
			continue
		}
		dispatched++
		log.Debug("Dispatched event", "event_id", event.ID, "type", event.Event, "entity", event.Entity)
	}
	return dispatched, nil
}

func (s *EventHandlerService) dispatchEvent(ctx context.Context, event models.Event) error {
	payload, err := BuildEventPayload(event)
	if err != nil {
		return err
	}

	if err := s.producer.Publish(broker.TopicForEntity(event.Entity), event.Event, payload); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	now := time.Now().UTC()
	return s.db.DB.WithContext(ctx).Model(&models.Event{}).Where("id = ?", event.ID).Updates(map[string]interface{}{
		"dispatched":    true,
		"dispatched_at": now,
		"status":        models.EventStatusCompleted,
	}).Error
}

// BuildEventPayload wraps an outbox event in the envelope websocket clients
// receive: {"type": ..., "payload": {...}} with task_id/tag_id promoted.
func BuildEventPayload(event models.Event) ([]byte, error) {
	dataMap := event.DataMap()

	eventPayload := map[string]interface{}{
		"event_id":  event.ID.String(),
		"timestamp": event.Timestamp,
		"type":      event.Event,
		"entity":    event.Entity,
		"data":      dataMap,
	}
	for _, key := range []string{"task_id", "tag_id"} {
		if id, exists := dataMap[key]; exists {
			eventPayload[key] = id
		}
	}

	return json.Marshal(map[string]interface{}{
		"type":    event.Event,
		"payload": eventPayload,
	})
}
