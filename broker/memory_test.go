package broker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, c Consumer) Message {
	t.Helper()
	select {
	case msg, ok := <-c.Messages():
		require.True(t, ok, "consumer channel closed")
		return msg
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for message")
	}
	return Message{}
}

func TestMemoryBusDeliversBySubject(t *testing.T) {
	bus := NewMemoryBus()
	defer bus.Close()

	tasks := bus.Subscribe([]string{TaskEventsTopic}, 4)
	all := bus.Subscribe(AllTopics, 4)

	require.NoError(t, bus.Publish(TagEventsTopic, string(TagCreated), []byte(`{"n":1}`)))
	require.NoError(t, bus.Publish(TaskEventsTopic, string(TaskCreated), []byte(`{"n":2}`)))

	msg := receive(t, tasks)
	assert.Equal(t, TaskEventsTopic, msg.Subject)
	assert.Equal(t, string(TaskCreated), msg.Key)
	assert.JSONEq(t, `{"n":2}`, string(msg.Data))

	assert.Equal(t, TagEventsTopic, receive(t, all).Subject)
	assert.Equal(t, TaskEventsTopic, receive(t, all).Subject)
}

func TestMemoryBusDropsWhenBufferFull(t *testing.T) {
	bus := NewMemoryBus()
	defer bus.Close()

	c := bus.Subscribe([]string{TaskEventsTopic}, 1)
	require.NoError(t, bus.Publish(TaskEventsTopic, "a", nil))
	require.NoError(t, bus.Publish(TaskEventsTopic, "b", nil))

	assert.Equal(t, "a", receive(t, c).Key)
	select {
	case msg := <-c.Messages():
		t.Fatalf("unexpected message %+v", msg)
	default:
	}
}

func TestMemoryBusClose(t *testing.T) {
	bus := NewMemoryBus()
	c := bus.Subscribe([]string{TaskEventsTopic}, 1)

	c.Close()
	_, ok := <-c.Messages()
	assert.False(t, ok)
	assert.NotPanics(t, c.Close)

	bus.Close()
	assert.ErrorIs(t, bus.Publish(TaskEventsTopic, "k", nil), ErrClosed)

	late := bus.Subscribe([]string{TaskEventsTopic}, 1)
	_, ok = <-late.Messages()
	assert.False(t, ok)
}

func TestTopicForEntity(t *testing.T) {
	assert.Equal(t, TaskEventsTopic, TopicForEntity("task"))
	assert.Equal(t, TagEventsTopic, TopicForEntity("tag"))
	assert.Equal(t, SyncEventsTopic, TopicForEntity("seed"))
}

func TestNatsProducerWithoutConnection(t *testing.T) {
	p := NewNatsProducer(nil)
	assert.ErrorIs(t, p.Publish(TaskEventsTopic, "k", nil), ErrClosed)
	assert.NotPanics(t, p.Close)
}
