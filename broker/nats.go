package broker

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nats-io/nats.go"
)

const keyHeader = "Tagdo-Key"

// Connect dials the NATS server at url.
func Connect(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("tagdo"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", "err", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return nc, nil
}

type NatsProducer struct {
	conn *nats.Conn
}

func NewNatsProducer(conn *nats.Conn) *NatsProducer {
	return &NatsProducer{conn: conn}
}

func (p *NatsProducer) Publish(subject, key string, data []byte) error {
	if p.conn == nil || p.conn.IsClosed() {
		return ErrClosed
	}
	msg := nats.NewMsg(subject)
	msg.Header.Set(keyHeader, key)
	msg.Data = data
	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}
	log.Debug("Published message", "subject", subject, "key", key)
	return nil
}

func (p *NatsProducer) Close() {
	if p.conn != nil {
		if err := p.conn.Drain(); err != nil {
			p.conn.Close()
		}
	}
}

type NatsConsumer struct {
	subs     []*nats.Subscription
	raw      chan *nats.Msg
	messages chan Message
	done     chan struct{}
	once     sync.Once
}

// NewNatsConsumer queue-subscribes to topics within group.
func NewNatsConsumer(conn *nats.Conn, topics []string, group string) (*NatsConsumer, error) {
	c := &NatsConsumer{
		raw:      make(chan *nats.Msg, 256),
		messages: make(chan Message, 256),
		done:     make(chan struct{}),
	}
	for _, topic := range topics {
		sub, err := conn.ChanQueueSubscribe(topic, group, c.raw)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("subscribe to %s: %w", topic, err)
		}
		c.subs = append(c.subs, sub)
	}
	go c.forward()
	log.Info("NATS consumer started", "topics", topics, "group", group)
	return c, nil
}

func (c *NatsConsumer) forward() {
	defer close(c.messages)
	for {
		select {
		case <-c.done:
			return
		case m := <-c.raw:
			msg := Message{Subject: m.Subject, Data: m.Data}
			if m.Header != nil {
				msg.Key = m.Header.Get(keyHeader)
			}
			select {
			case c.messages <- msg:
			case <-c.done:
				return
			}
		}
	}
}

func (c *NatsConsumer) Messages() <-chan Message {
	return c.messages
}

func (c *NatsConsumer) Close() {
	c.once.Do(func() {
		for _, sub := range c.subs {
			if err := sub.Unsubscribe(); err != nil {
				log.Warn("Failed to unsubscribe", "subject", sub.Subject, "err", err)
			}
		}
		close(c.done)
	})
}
