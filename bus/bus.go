// Package bus is the topic-keyed publish/subscribe medium shared by the
// linking layer (switches, generators) and presentation hooks.
package bus

import "github.com/go-gl/mathgl/mgl64"

// Wildcard subscribes to every topic.
const Wildcard = "*"

// Event is a structured state-change notification.
type Event struct {
	Topic    string
	SourceID string
	Kind     string
	Position mgl64.Vec2
	Data     any
}

// Handler receives published events.
type Handler func(Event)

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus delivers events synchronously in subscription order. Handlers may
// publish or (un)subscribe while being called; the subscriber list is
// snapshotted per publish.
type Bus struct {
	subs   map[string][]subscriber
	nextID uint64
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[string][]subscriber)}
}

// Subscribe registers h for topic and returns a func that removes it.
func (b *Bus) Subscribe(topic string, h Handler) (unsubscribe func()) {
	if b == nil || h == nil {
		return func() {}
	}
	if b.subs == nil {
		b.subs = make(map[string][]subscriber)
	}
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscriber{id: id, handler: h})

	done := false
	return func() {
		if done {
			return
		}
		done = true
		b.remove(topic, id)
	}
}

func (b *Bus) remove(topic string, id uint64) {
	list := b.subs[topic]
	for i, s := range list {
		if s.id == id {
			next := make([]subscriber, 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			if len(next) == 0 {
				delete(b.subs, topic)
			} else {
				b.subs[topic] = next
			}
			return
		}
	}
}

// Publish delivers ev to topic subscribers, then wildcard subscribers.
// Publishing to a topic nobody listens on is a no-op.
func (b *Bus) Publish(ev Event) {
	if b == nil {
		return
	}
	for _, s := range b.subs[ev.Topic] {
		s.handler(ev)
	}
	if ev.Topic == Wildcard {
		return
	}
	for _, s := range b.subs[Wildcard] {
		s.handler(ev)
	}
}

// Subscribers returns the number of handlers on topic.
func (b *Bus) Subscribers(topic string) int {
	if b == nil {
		return 0
	}
	return len(b.subs[topic])
}
