// Package events provides a topic-scoped publish-subscribe bus for SSE delivery.
// Each visitor session is a topic; its browser tabs are the subscribers.
package events

import (
	"sync"

	"github.com/greenfield-poultry/farmshop/internal/cart"
	"github.com/greenfield-poultry/farmshop/internal/models"
)

const subBufferSize = 8

// Bus is a non-blocking publish-subscribe event bus.
// Subscribers that are slow to consume events will have events dropped rather
// than blocking publishers.
type Bus struct {
	mu     sync.Mutex
	topics map[string]map[string]chan models.Event
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	return &Bus{
		topics: make(map[string]map[string]chan models.Event),
	}
}

// Subscribe registers id on topic and returns its event channel.
// Call Unsubscribe when done to clean up.
func (b *Bus) Subscribe(topic, id string) <-chan models.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs, ok := b.topics[topic]
	if !ok {
		subs = make(map[string]chan models.Event)
		b.topics[topic] = subs
	}
	if old, ok := subs[id]; ok {
		close(old)
	}
	ch := make(chan models.Event, subBufferSize)
	subs[id] = ch
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Bus) Unsubscribe(topic, id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs, ok := b.topics[topic]
	if !ok {
		return
	}
	if ch, ok := subs[id]; ok {
		delete(subs, id)
		close(ch)
	}
	if len(subs) == 0 {
		delete(b.topics, topic)
	}
}

// Publish sends ev to every subscriber of topic.
// If a subscriber's channel is full, the event is dropped (non-blocking).
func (b *Bus) Publish(topic string, ev models.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.topics[topic] {
		select {
		case ch <- ev:
		default:
			// Drop if subscriber is slow
		}
	}
}

// SubscriberCount returns the number of subscribers across all topics.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, subs := range b.topics {
		n += len(subs)
	}
	return n
}

// Notifier returns a cart notifier that publishes notice events on topic.
func (b *Bus) Notifier(topic string) cart.Notifier {
	return cart.NotifierFunc(func(n models.Notice) {
		b.Publish(topic, models.NoticeEvent(n))
	})
}

// Refresher returns a cart refresh hook that publishes count events on topic.
func (b *Bus) Refresher(topic string) func(count int) {
	return func(count int) {
		b.Publish(topic, models.CountEvent(count))
	}
}
