package sse

import (
	"sync"
)

// Event is a message pushed to the open streams of one recipient.
type Event struct {
	Recipient string
	Name      string
	Data      any
}

// Hub fans events out to the open streams of each recipient. Slow streams
// drop events instead of blocking publishers.
type Hub struct {
	mu      sync.RWMutex
	buffer  int
	streams map[string]map[chan Event]struct{}
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 10
	}
	return &Hub{
		buffer:  buffer,
		streams: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe opens a stream for recipient. The returned func closes it and
// must be called exactly once.
func (h *Hub) Subscribe(recipient string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, h.buffer)
	if h.streams[recipient] == nil {
		h.streams[recipient] = make(map[chan Event]struct{})
	}
	h.streams[recipient][ch] = struct{}{}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.streams[recipient][ch]; !ok {
				return
			}
			delete(h.streams[recipient], ch)
			close(ch)
			if len(h.streams[recipient]) == 0 {
				delete(h.streams, recipient)
			}
		})
	}

	return ch, cancel
}

// Publish delivers event to every open stream of its recipient and reports
// how many streams accepted it.
func (h *Hub) Publish(event Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for ch := range h.streams[event.Recipient] {
		select {
		case ch <- event:
			delivered++
		default:
		}
	}
	return delivered
}

func (h *Hub) SubscriberCount(recipient string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.streams[recipient])
}

// Close ends every open stream. Subscribers see their channel closed.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for recipient, set := range h.streams {
		for ch := range set {
			close(ch)
		}
		delete(h.streams, recipient)
	}
}
