// Package feed is the in-process change feed behind the dashboard's live
// client list. Services publish row-change events; each connected dashboard
// holds one subscription filtered to its own firm user.
package feed

import (
	"sync"
	"time"
)

// Event types published on client-row changes.
const (
	EventClientCreated   = "client.created"
	EventClientUpdated   = "client.updated"
	EventClientCompleted = "client.completed"
	EventClientDeleted   = "client.deleted"
)

type Event struct {
	Type     string    `json:"type"`
	ClientID string    `json:"client_id"`
	UserID   string    `json:"-"` // routing key, not part of the wire payload
	At       time.Time `json:"at"`
}

type subscriber struct {
	userID string
	ch     chan Event
}

// Bus fans events out to per-user subscribers. Delivery is best-effort: a
// subscriber that cannot keep up has events dropped rather than blocking
// the publishing request handler.
type Bus struct {
	mu   sync.Mutex
	subs map[*subscriber]struct{}
}

func NewBus() *Bus {
	return &Bus{subs: make(map[*subscriber]struct{})}
}

// Subscribe registers a buffered subscription for userID's events. The
// returned channel is closed by Unsubscribe, never by Publish.
func (b *Bus) Subscribe(userID string, buffer int) *Subscription {
	sub := &subscriber{userID: userID, ch: make(chan Event, buffer)}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	return &Subscription{bus: b, sub: sub}
}

// Publish delivers evt to every subscriber registered for evt.UserID.
func (b *Bus) Publish(evt Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subs {
		if sub.userID != evt.UserID {
			continue
		}
		select {
		case sub.ch <- evt:
		default:
			// Slow consumer; drop instead of blocking the request path.
		}
	}
}

// Subscription is one live feed attachment.
type Subscription struct {
	bus  *Bus
	sub  *subscriber
	once sync.Once
}

// C is the event channel to range over.
func (s *Subscription) C() <-chan Event { return s.sub.ch }

// Close detaches the subscription and closes its channel.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.subs, s.sub)
		s.bus.mu.Unlock()
		close(s.sub.ch)
	})
}
