// Package feed fans audit events out to live subscribers.
package feed

import (
	"log/slog"
	"sync"
	"time"
)

// Event kinds.
const (
	KindPredict = "predict"
	KindAnalyze = "analyze"
)

// Event is one completed audit.
type Event struct {
	Kind      string    `json:"kind"`
	SessionID string    `json:"session_id"`
	Input     any       `json:"input"`
	Result    any       `json:"result"`
	Timestamp time.Time `json:"timestamp"`
}

const subscriberBuffer = 32

// Hub delivers events to every subscriber. Publish never blocks; events for
// a subscriber whose buffer is full are dropped.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
	logger      *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subscribers: make(map[chan Event]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a subscriber. The returned cancel func must be called
// when the subscriber goes away; it closes the channel.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers, ch)
			close(ch)
			h.mu.Unlock()
		})
	}
	return ch, cancel
}

// Publish sends e to all current subscribers.
func (h *Hub) Publish(e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers {
		select {
		case ch <- e:
		default:
			h.logger.Warn("feed: dropped event for slow subscriber", "kind", e.Kind)
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
