package broker

import (
	"sync"

	"github.com/charmbracelet/log"
)

// MemoryBus is an in-process Producer that fans messages out to local consumers.
// It is used when no NATS server is configured.
type MemoryBus struct {
	mu        sync.RWMutex
	consumers map[*memoryConsumer]struct{}
	closed    bool
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{consumers: make(map[*memoryConsumer]struct{})}
}

func (b *MemoryBus) Publish(subject, key string, data []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}
	msg := Message{Subject: subject, Key: key, Data: append([]byte(nil), data...)}
	for c := range b.consumers {
		if !c.topics[subject] {
			continue
		}
		select {
		case c.messages <- msg:
		default:
			log.Warn("Consumer buffer full, discarding message", "subject", subject, "key", key)
		}
	}
	return nil
}

// Subscribe returns a consumer for topics with the given buffer size.
func (b *MemoryBus) Subscribe(topics []string, buffer int) Consumer {
	c := &memoryConsumer{
		bus:      b,
		topics:   make(map[string]bool, len(topics)),
		messages: make(chan Message, buffer),
	}
	for _, t := range topics {
		c.topics[t] = true
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(c.messages)
		return c
	}
	b.consumers[c] = struct{}{}
	return c
}

func (b *MemoryBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for c := range b.consumers {
		close(c.messages)
		delete(b.consumers, c)
	}
}

func (b *MemoryBus) remove(c *memoryConsumer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.consumers[c]; ok {
		delete(b.consumers, c)
		close(c.messages)
	}
}

type memoryConsumer struct {
	bus      *MemoryBus
	topics   map[string]bool
	messages chan Message
}

func (c *memoryConsumer) Messages() <-chan Message {
	return c.messages
}

func (c *memoryConsumer) Close() {
	c.bus.remove(c)
}
