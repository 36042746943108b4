package hook

// bus.go contains the in-process diagnostic event stream.

import (
	"sync"

	"github.com/perfgo/faultdump/model"
)

// Handler receives diagnostic events. It runs on the publisher's goroutine.
type Handler func(model.DiagnosticEvent)

// Source is a diagnostic event stream that handlers can subscribe to.
type Source interface {
	Subscribe(h Handler) *Subscription
}

// Bus broadcasts diagnostic events to its subscribers synchronously, in the
// order Publish is called on each goroutine.
type Bus struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

func NewBus() *Bus {
	return &Bus{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers h. The returned Subscription is the only way to
// unregister it.
func (b *Bus) Subscribe(h Handler) *Subscription {
	s := &Subscription{bus: b, handler: h, active: true}
	s.idle = sync.NewCond(&s.mu)
	b.mu.Lock()
	b.subs[s] = struct{}{}
	b.mu.Unlock()
	return s
}

// Publish delivers ev to every active subscriber before returning.
func (b *Bus) Publish(ev model.DiagnosticEvent) {
	b.mu.RLock()
	subs := make([]*Subscription, 0, len(b.subs))
	for s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.RUnlock()

	for _, s := range subs {
		s.deliver(ev)
	}
}

// Subscribers returns the number of active subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Bus) remove(s *Subscription) {
	b.mu.Lock()
	delete(b.subs, s)
	b.mu.Unlock()
}

// Subscription is the cancellation token of a registered handler.
type Subscription struct {
	bus     *Bus
	handler Handler

	mu       sync.Mutex
	idle     *sync.Cond // signalled when inflight drops to zero
	active   bool
	inflight int
}

// deliver runs the handler without holding the lock, so a handler may
// publish on the same bus even while a Cancel is pending.
func (s *Subscription) deliver(ev model.DiagnosticEvent) {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.inflight++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inflight--
		if s.inflight == 0 {
			s.idle.Broadcast()
		}
		s.mu.Unlock()
	}()
	s.handler(ev)
}

// Cancel unregisters the handler. It waits for in-flight deliveries, so no
// callback runs once Cancel has returned. Deliveries that start after Cancel
// was called are skipped, including nested Publish calls made by a running
// handler. Calling Cancel from inside the handler deadlocks. Cancel is
// idempotent.
func (s *Subscription) Cancel() {
	s.mu.Lock()
	wasActive := s.active
	s.active = false
	for s.inflight > 0 {
		s.idle.Wait()
	}
	s.mu.Unlock()

	if wasActive {
		s.bus.remove(s)
	}
}
