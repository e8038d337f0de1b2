package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeReceivesPublishedEvents(t *testing.T) {
	bus := NewBus()
	ch, teardown := bus.Subscribe(TopicCartChanged)
	defer teardown()

	bus.Publish(TopicCartChanged, "device-1")

	select {
	case evt := <-ch:
		assert.Equal(t, TopicCartChanged, evt.Topic)
		assert.Equal(t, "device-1", evt.Payload)
	case <-time.After(time.Second):
		t.Fatal("expected event was not delivered")
	}
}

func TestSubscriberOnlySeesItsTopic(t *testing.T) {
	bus := NewBus()
	ch, teardown := bus.Subscribe(TopicCartChanged)
	defer teardown()

	bus.Publish(TopicFavoritesChanged, "device-1")

	select {
	case <-ch:
		t.Fatal("received an event for a different topic")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTeardownClosesChannel(t *testing.T) {
	bus := NewBus()
	ch, teardown := bus.Subscribe(TopicCartChanged)

	require.Equal(t, 1, bus.SubscriberCount(TopicCartChanged))
	teardown()
	require.Equal(t, 0, bus.SubscriberCount(TopicCartChanged))

	_, open := <-ch
	assert.False(t, open)
}

func TestTeardownIsIdempotent(t *testing.T) {
	bus := NewBus()
	_, teardown := bus.Subscribe(TopicCartChanged)

	teardown()
	teardown()

	assert.Equal(t, 0, bus.SubscriberCount(TopicCartChanged))
}

func TestPublishAfterTeardownDoesNotPanic(t *testing.T) {
	bus := NewBus()
	_, teardown := bus.Subscribe(TopicCartChanged)
	teardown()

	bus.Publish(TopicCartChanged, "device-1")
}

func TestPublishNeverBlocksOnSlowSubscriber(t *testing.T) {
	bus := NewBus()
	_, teardown := bus.Subscribe(TopicCartChanged)
	defer teardown()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Nobody drains the channel; overflow is dropped, not queued.
		for i := 0; i < 100; i++ {
			bus.Publish(TopicCartChanged, i)
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber buffer")
	}
}

func TestMultipleSubscribersEachReceive(t *testing.T) {
	bus := NewBus()
	chA, teardownA := bus.Subscribe(TopicSessionChanged)
	defer teardownA()
	chB, teardownB := bus.Subscribe(TopicSessionChanged)
	defer teardownB()

	bus.Publish(TopicSessionChanged, "device-1")

	for _, ch := range []<-chan Event{chA, chB} {
		select {
		case evt := <-ch:
			assert.Equal(t, "device-1", evt.Payload)
		case <-time.After(time.Second):
			t.Fatal("subscriber missed the event")
		}
	}
}
