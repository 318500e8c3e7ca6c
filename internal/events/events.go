// Package events fans out engine notifications to loggers, journals and notifiers.
package events

import (
	"sync"
	"time"
)

// Kind enumerates the notifications emitted by the engine.
type Kind string

const (
	SignalEmitted Kind = "signal.emitted"
	OrderCreated  Kind = "order.created"
	OrderFilled   Kind = "order.filled"
	OrderCanceled Kind = "order.canceled"
	OrderFailed   Kind = "order.failed"
)

// Event is a single notification. Payload is an order.Order for order events and a
// signal.Signal for SignalEmitted. OrderFailed carries the order left Pending plus Err.
type Event struct {
	Kind    Kind
	Ts      time.Time
	Payload any
	Err     string
}

// Publisher accepts events. Publishing never blocks the caller and never fails it.
type Publisher interface {
	Publish(Event)
}

// Bus is a lightweight pub/sub broker using channels.
type Bus struct {
	mu      sync.RWMutex
	subs    map[Kind][]chan Event
	all     []chan Event
	dropped uint64
}

// NewBus creates an event bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Kind][]chan Event)}
}

// Subscribe registers a listener for the given kinds (all kinds when none are given) and
// returns the channel plus an unsubscribe function that closes it.
func (b *Bus) Subscribe(buffer int, kinds ...Kind) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, buffer)
	if len(kinds) == 0 {
		b.all = append(b.all, ch)
	}
	for _, k := range kinds {
		b.subs[k] = append(b.subs[k], ch)
	}

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			b.all = remove(b.all, ch)
			for _, k := range kinds {
				b.subs[k] = remove(b.subs[k], ch)
			}
			close(ch)
		})
	}
	return ch, unsub
}

// Publish fans the event out without blocking; slow subscribers lose events.
func (b *Bus) Publish(e Event) {
	if e.Ts.IsZero() {
		e.Ts = time.Now().UTC()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs[e.Kind] {
		b.deliver(ch, e)
	}
	for _, ch := range b.all {
		b.deliver(ch, e)
	}
}

func (b *Bus) deliver(ch chan Event, e Event) {
	select {
	case ch <- e:
	default:
		b.dropped++
	}
}

// Dropped returns how many deliveries were discarded because a subscriber was full.
func (b *Bus) Dropped() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dropped
}

func remove(list []chan Event, ch chan Event) []chan Event {
	for i, c := range list {
		if c == ch {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// Nop discards every event.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(Event) {}
