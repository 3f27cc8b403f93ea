// Package session fans identity state changes (sign-in, sign-out,
// profile update) out to in-process listeners.
package session

import (
	"sync"
	"time"

	"github.com/nexadigital/nexa-api/pkg/logger"
	"go.uber.org/zap"
)

// EventType names an identity state change
type EventType string

const (
	SignedIn       EventType = "signed_in"
	SignedOut      EventType = "signed_out"
	ProfileUpdated EventType = "profile_updated"
)

// Event is delivered to every subscriber in publish order
type Event struct {
	Type     EventType
	UID      string
	Email    string
	Provider string
	At       time.Time
}

const bufferSize = 64

type subscription struct {
	events chan Event
	done   chan struct{}
	once   sync.Once
}

// Hub delivers events to subscribers, each on its own goroutine
type Hub struct {
	mu     sync.Mutex
	subs   map[uint64]*subscription
	nextID uint64
	closed bool
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]*subscription)}
}

// Subscribe registers fn and returns a disposer. The disposer stops
// delivery, waits for fn's goroutine to exit and is safe to call twice.
func (h *Hub) Subscribe(fn func(Event)) (dispose func()) {
	sub := &subscription{
		events: make(chan Event, bufferSize),
		done:   make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(sub.done)
		return func() {}
	}
	id := h.nextID
	h.nextID++
	h.subs[id] = sub
	h.mu.Unlock()

	go func() {
		defer close(sub.done)
		for e := range sub.events {
			deliver(fn, e)
		}
	}()

	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
		sub.stop()
	}
}

// Publish queues e for every subscriber. A subscriber whose buffer is
// full misses the event.
func (h *Hub) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.subs {
		select {
		case sub.events <- e:
		default:
			logger.Warn("Session event dropped for slow subscriber",
				zap.String("type", string(e.Type)),
				zap.String("uid", e.UID))
		}
	}
}

// Close disposes every subscription and rejects new ones
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subs
	h.subs = make(map[uint64]*subscription)
	h.closed = true
	h.mu.Unlock()

	for _, sub := range subs {
		sub.stop()
	}
}

// Len reports the number of live subscriptions
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (s *subscription) stop() {
	s.once.Do(func() { close(s.events) })
	<-s.done
}

func deliver(fn func(Event), e Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Session subscriber panicked",
				zap.Any("panic", r),
				zap.String("type", string(e.Type)))
		}
	}()
	fn(e)
}
