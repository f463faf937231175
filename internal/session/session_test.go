package session

import (
	"context"
	"testing"
	"time"

	"github.com/careconnect/server/internal/db"
	"github.com/careconnect/server/internal/store"
)

func TestBrokerPublishSubscribe(t *testing.T) {
	broker := NewBroker()
	events, cancel := broker.Subscribe()
	defer cancel()

	broker.Publish(Event{UID: "uid-1", State: SignedIn})

	select {
	case ev := <-events:
		if ev.UID != "uid-1" || ev.State != SignedIn {
			t.Errorf("unexpected event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBrokerCancelClosesChannel(t *testing.T) {
	broker := NewBroker()
	events, cancel := broker.Subscribe()

	cancel()
	// Safe to call more than once.
	cancel()

	if _, ok := <-events; ok {
		t.Error("expected channel to be closed after cancel")
	}

	// Publishing after teardown must not panic.
	broker.Publish(Event{UID: "uid-1", State: SignedOut})
}

func TestBrokerFanOut(t *testing.T) {
	broker := NewBroker()
	a, cancelA := broker.Subscribe()
	b, cancelB := broker.Subscribe()
	defer cancelA()
	defer cancelB()

	broker.Publish(Event{UID: "uid-1", State: ProfileChanged})

	for _, ch := range []<-chan Event{a, b} {
		select {
		case ev := <-ch:
			if ev.UID != "uid-1" {
				t.Errorf("unexpected event: %+v", ev)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for fan-out")
		}
	}
}

func TestAggregatorCachesProfiles(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	store.CreateUser(ctx, database, "uid-1", "Alice", "alice@example.com", "555", "hash", "donor")

	broker := NewBroker()
	agg := NewAggregator(database, broker)
	defer agg.Close()

	user, err := agg.Profile(ctx, "uid-1")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if user == nil || user.Name != "Alice" {
		t.Fatalf("expected Alice, got %+v", user)
	}
	if !agg.Cached("uid-1") {
		t.Error("expected profile to be cached after read")
	}
}

func TestAggregatorInvalidatesOnEvent(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	store.CreateUser(ctx, database, "uid-1", "Alice", "alice@example.com", "555", "hash", "donor")

	broker := NewBroker()
	agg := NewAggregator(database, broker)
	defer agg.Close()

	agg.Profile(ctx, "uid-1")
	store.SetEmailVerified(ctx, database, "uid-1")
	broker.Publish(Event{UID: "uid-1", State: ProfileChanged})

	// The event loop drains asynchronously.
	deadline := time.Now().Add(time.Second)
	for agg.Cached("uid-1") {
		if time.Now().After(deadline) {
			t.Fatal("cache entry was not invalidated")
		}
		time.Sleep(5 * time.Millisecond)
	}

	user, _ := agg.Profile(ctx, "uid-1")
	if !user.EmailVerified {
		t.Error("expected refreshed profile after invalidation")
	}
}

func TestAggregatorUnknownProfile(t *testing.T) {
	database := db.NewTestDB(t)

	broker := NewBroker()
	agg := NewAggregator(database, broker)
	defer agg.Close()

	user, err := agg.Profile(context.Background(), "no-such-uid")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil for unknown principal, got %+v", user)
	}
	if agg.Cached("no-such-uid") {
		t.Error("misses must not be cached")
	}
}

func TestAggregatorCloseStopsLoop(t *testing.T) {
	database := db.NewTestDB(t)

	broker := NewBroker()
	agg := NewAggregator(database, broker)

	agg.Close()

	// Publishing after close must not panic or deliver anywhere.
	broker.Publish(Event{UID: "uid-1", State: SignedIn})
}
