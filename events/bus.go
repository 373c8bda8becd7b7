package events

import (
	"sync"

	"github.com/edsotopublicidad-gif/Sotos-App/models"
)

// Keys name the collections a change event can refer to. Clients re-read
// the matching collection when they see the key, so applying the same
// event twice is harmless.
const (
	KeyOrders          = "orders"
	KeyArchivedOrders  = "archived_orders"
	KeyMenu            = "menu_items"
	KeyBroadcast       = "broadcast_message"
	KeyPasswordChanged = "password_changed"
	KeySync            = "sync"
)

// Event is one cross-client change notification: which collection changed,
// an optional payload, who caused it, and who should hear about it.
type Event struct {
	Key      string            `json:"key"`
	Payload  any               `json:"payload,omitempty"`
	Sound    string            `json:"sound,omitempty"` // notification kind, empty for silent re-read signals
	Origin   string            `json:"-"`               // client id of the writer, suppressed on delivery
	Audience []models.UserRole `json:"-"`               // nil means every role
}

// ForRole reports whether the event should be delivered to a client of the
// given role.
func (e Event) ForRole(role models.UserRole) bool {
	if len(e.Audience) == 0 {
		return true
	}
	for _, r := range e.Audience {
		if r == role {
			return true
		}
	}
	return false
}

// Bus fans change events out from the stores to every subscriber. It is the
// in-process analogue of the browser storage event channel: publish on
// write, subscribe for re-read.
type Bus struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

func NewBus() *Bus {
	return &Bus{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a new listener. The returned cancel func must be
// called when the listener goes away.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber. A subscriber that cannot
// keep up loses the event; it will catch up on the next sync tick.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
