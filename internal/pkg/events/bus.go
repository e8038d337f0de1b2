// internal/pkg/events/bus.go
package events

import (
	"sync"
)

// Topic names a class of application events
type Topic string

const (
	// TopicCartChanged fires after a confirmed cart mutation
	TopicCartChanged Topic = "cart.changed"
	// TopicFavoritesChanged fires after a confirmed favorites mutation
	TopicFavoritesChanged Topic = "favorites.changed"
	// TopicSessionChanged fires when a device's descriptor is replaced
	TopicSessionChanged Topic = "session.changed"
	// TopicCountsRefreshed fires when a fresh count snapshot is computed
	TopicCountsRefreshed Topic = "counts.refreshed"
)

// Event is a published occurrence with an arbitrary payload
type Event struct {
	Topic   Topic
	Payload interface{}
}

// Bus is an in-process publish/subscribe bus owned by the application shell.
// Subscribers register for a topic and receive events on a buffered channel;
// the returned teardown function must be called when the subscriber goes
// away. Publish never blocks: a subscriber whose buffer is full misses the
// event.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[Topic]map[int]chan Event
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		subs: make(map[Topic]map[int]chan Event),
	}
}

// Subscribe registers for a topic. The returned channel carries matching
// events; the returned function tears the subscription down and closes the
// channel.
func (b *Bus) Subscribe(topic Topic) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID

	ch := make(chan Event, 16)
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]chan Event)
	}
	b.subs[topic][id] = ch

	teardown := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[topic][id]; ok {
			delete(b.subs[topic], id)
			close(sub)
		}
	}

	return ch, teardown
}

// Publish delivers an event to all current subscribers of its topic
func (b *Bus) Publish(topic Topic, payload interface{}) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs[topic] {
		select {
		case ch <- Event{Topic: topic, Payload: payload}:
		default:
			// Slow subscriber; dropping beats blocking the publisher.
		}
	}
}

// SubscriberCount returns the number of active subscribers for a topic
func (b *Bus) SubscriberCount(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
