package hook

import (
	"sync"
)

// Hook keeps at most one subscription of a handler on a Source. Enable and
// Disable can be cycled any number of times.
type Hook struct {
	source  Source
	handler Handler

	mu  sync.Mutex
	sub *Subscription
}

func New(source Source, handler Handler) *Hook {
	return &Hook{source: source, handler: handler}
}

// Enable subscribes the handler unless it is already subscribed.
func (h *Hook) Enable() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sub != nil {
		return
	}
	h.sub = h.source.Subscribe(h.handler)
}

// Disable unsubscribes the handler. No callback runs after it returns.
func (h *Hook) Disable() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sub == nil {
		return
	}
	h.sub.Cancel()
	h.sub = nil
}

// Enabled reports whether the handler is currently subscribed.
func (h *Hook) Enabled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sub != nil
}
