// Package session tracks authentication state and composes it with user
// profiles. State changes flow through an explicit Broker instead of shared
// mutable listener state, so consumers can be torn down deterministically.
package session

import (
	"context"
	"database/sql"
	"sync"

	"github.com/careconnect/server/internal/model"
	"github.com/careconnect/server/internal/store"
)

// State describes an authentication transition.
type State int

const (
	// SignedIn is published when a session is issued for a principal.
	SignedIn State = iota
	// SignedOut is published when a principal's session ends.
	SignedOut
	// ProfileChanged is published when a profile record mutates
	// (verification flags, password resets).
	ProfileChanged
)

// Event is a single authentication-state change.
type Event struct {
	UID   string
	State State
}

// subscriber buffer size. Events past a full buffer are dropped rather than
// blocking the publisher.
const subscriberBuffer = 16

// Broker fans authentication-state events out to subscribers.
type Broker struct {
	mu   sync.Mutex
	next int
	subs map[int]chan Event
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[int]chan Event)}
}

// Subscribe registers a listener. The returned cancel func removes the
// subscription and closes the channel; it is safe to call more than once.
func (b *Broker) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber without blocking.
func (b *Broker) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Aggregator caches profile records keyed by principal and keeps the cache
// coherent by listening to broker events. Profile reads go through the cache
// and fall back to the store.
type Aggregator struct {
	db     *sql.DB
	cancel func()
	done   chan struct{}

	mu    sync.RWMutex
	cache map[string]*model.User
}

// NewAggregator creates an aggregator subscribed to the broker.
func NewAggregator(db *sql.DB, broker *Broker) *Aggregator {
	events, cancel := broker.Subscribe()

	a := &Aggregator{
		db:     db,
		cancel: cancel,
		done:   make(chan struct{}),
		cache:  make(map[string]*model.User),
	}

	go a.run(events)
	return a
}

func (a *Aggregator) run(events <-chan Event) {
	defer close(a.done)
	for ev := range events {
		// Any transition invalidates the cached profile; the next read
		// refetches the authoritative record.
		a.mu.Lock()
		delete(a.cache, ev.UID)
		a.mu.Unlock()
	}
}

// Profile returns a principal's profile, served from cache when fresh.
// Returns nil when no profile record exists.
func (a *Aggregator) Profile(ctx context.Context, uid string) (*model.User, error) {
	a.mu.RLock()
	cached, ok := a.cache[uid]
	a.mu.RUnlock()
	if ok {
		return cached, nil
	}

	user, err := store.GetUser(ctx, a.db, uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	a.mu.Lock()
	a.cache[uid] = user
	a.mu.Unlock()
	return user, nil
}

// Cached reports whether a profile for uid is currently cached.
func (a *Aggregator) Cached(uid string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.cache[uid]
	return ok
}

// Close tears down the broker subscription and waits for the event loop to
// drain.
func (a *Aggregator) Close() {
	a.cancel()
	<-a.done
}
