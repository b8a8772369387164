package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPublishRoutesByUser(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	alice := bus.Subscribe("user-a", 4)
	defer alice.Close()
	bob := bus.Subscribe("user-b", 4)
	defer bob.Close()

	bus.Publish(Event{Type: EventClientCreated, ClientID: "c1", UserID: "user-a", At: time.Now()})

	select {
	case evt := <-alice.C():
		require.Equal(t, EventClientCreated, evt.Type)
		require.Equal(t, "c1", evt.ClientID)
	case <-time.After(time.Second):
		t.Fatal("expected event for user-a")
	}

	select {
	case evt := <-bob.C():
		t.Fatalf("user-b should not receive user-a events, got %+v", evt)
	default:
	}
}

func TestPublishDropsWhenSubscriberIsFull(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	sub := bus.Subscribe("user-a", 1)
	defer sub.Close()

	bus.Publish(Event{Type: EventClientCreated, ClientID: "c1", UserID: "user-a"})
	// Buffer full; this must not block.
	done := make(chan struct{})
	go func() {
		bus.Publish(Event{Type: EventClientUpdated, ClientID: "c2", UserID: "user-a"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}

func TestCloseIsIdempotentAndDetaches(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	sub := bus.Subscribe("user-a", 1)
	sub.Close()
	sub.Close() // must not panic

	// Publishing after close must not panic on a closed channel.
	bus.Publish(Event{Type: EventClientDeleted, ClientID: "c1", UserID: "user-a"})

	_, open := <-sub.C()
	require.False(t, open)
}
