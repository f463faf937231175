// Package watch implements a change feed addressed by hierarchical record
// paths ("bookings/2025-06-01/lunch", "otherdonations/<id>"). Clients
// subscribe to a path prefix and receive every update published at or below
// it, mirroring the realtime-database listeners the web client was built
// against.
package watch

import (
	"strings"
	"sync"
)

// Update is a single change published to the feed.
type Update struct {
	Path string `json:"path"`
	Data any    `json:"data"`
}

// subscriptionBuffer is the per-subscriber channel capacity. Updates to a
// full subscriber are dropped rather than blocking writers.
const subscriptionBuffer = 32

// Subscription receives updates whose path matches its prefix.
type Subscription struct {
	C <-chan Update

	hub    *Hub
	ch     chan Update
	prefix string
	once   sync.Once
}

// Close removes the subscription from the hub and closes its channel.
// Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		defer s.hub.mu.Unlock()
		delete(s.hub.subs, s)
		close(s.ch)
	})
}

// matches reports whether a published path falls under the prefix.
// An empty prefix matches everything.
func (s *Subscription) matches(path string) bool {
	if s.prefix == "" {
		return true
	}
	return path == s.prefix || strings.HasPrefix(path, s.prefix+"/")
}

// Hub fans record updates out to path-prefix subscribers.
type Hub struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers a listener for all updates under prefix.
func (h *Hub) Subscribe(prefix string) *Subscription {
	s := &Subscription{
		hub:    h,
		ch:     make(chan Update, subscriptionBuffer),
		prefix: strings.Trim(prefix, "/"),
	}
	s.C = s.ch

	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[s] = struct{}{}
	return s
}

// Publish delivers an update to every matching subscriber without blocking.
// A nil data payload signals that the record at path was deleted.
func (h *Hub) Publish(path string, data any) {
	path = strings.Trim(path, "/")
	update := Update{Path: path, Data: data}

	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs {
		if !s.matches(path) {
			continue
		}
		select {
		case s.ch <- update:
		default:
		}
	}
}
