// Package broker carries change events between the outbox dispatcher and the
// websocket hub, over NATS or an in-process bus.
package broker

import "errors"

var ErrClosed = errors.New("broker closed")

// Message is a single event delivered on a subject.
type Message struct {
	Subject string
	Key     string
	Data    []byte
}

// Producer publishes messages to subjects.
type Producer interface {
	Publish(subject, key string, data []byte) error
	Close()
}

// Consumer delivers messages for the subjects it was created with.
type Consumer interface {
	Messages() <-chan Message
	Close()
}
