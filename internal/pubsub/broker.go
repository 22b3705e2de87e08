// Package pubsub is a small generic broker that fans values out to
// subscribers whose lifetime is bound to a context.
package pubsub

import (
	"context"
	"sync"
	"time"
)

const defaultBufferSize = 16

type EventType string

const (
	// Replayed marks the value handed to a new subscriber on Subscribe.
	Replayed EventType = "replayed"
	Changed  EventType = "changed"
)

// Event wraps a published value.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Broker fans published values out to every live subscriber.
// When constructed with NewLatestBroker it also remembers the last value
// and replays it to each new subscriber.
type Broker[T any] struct {
	mu         sync.RWMutex
	subs       map[chan Event[T]]struct{}
	done       chan struct{}
	bufferSize int

	replay  bool
	last    T
	hasLast bool
}

func NewBroker[T any]() *Broker[T] {
	return NewBrokerWithBuffer[T](defaultBufferSize)
}

func NewBrokerWithBuffer[T any](size int) *Broker[T] {
	if size < 1 {
		size = 1
	}
	return &Broker[T]{
		subs:       make(map[chan Event[T]]struct{}),
		done:       make(chan struct{}),
		bufferSize: size,
	}
}

// NewLatestBroker returns a broker that replays the most recent value.
func NewLatestBroker[T any]() *Broker[T] {
	b := NewBroker[T]()
	b.replay = true
	return b
}

// Subscribe returns a channel that is closed when ctx is cancelled or the
// broker is closed.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	select {
	case <-b.done:
		ch := make(chan Event[T])
		close(ch)
		return ch
	default:
	}

	sub := make(chan Event[T], b.bufferSize)
	if b.replay && b.hasLast {
		sub <- Event[T]{Type: Replayed, Payload: b.last, Timestamp: time.Now()}
	}
	b.subs[sub] = struct{}{}

	go func() {
		select {
		case <-ctx.Done():
		case <-b.done:
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[sub]; !ok {
			return
		}
		delete(b.subs, sub)
		close(sub)
	}()

	return sub
}

// Publish delivers payload to every subscriber. It never blocks: a
// subscriber whose buffer is full misses the event.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	select {
	case <-b.done:
		return
	default:
	}

	if b.replay {
		b.last = payload
		b.hasLast = true
	}

	event := Event[T]{Type: eventType, Payload: payload, Timestamp: time.Now()}
	for sub := range b.subs {
		select {
		case sub <- event:
		default:
		}
	}
}

// Close shuts the broker down and closes every subscriber channel.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	select {
	case <-b.done:
		return
	default:
	}

	close(b.done)
	for sub := range b.subs {
		close(sub)
	}
	b.subs = nil
}

func (b *Broker[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
