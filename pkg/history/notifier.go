package history

import (
	"sync"
	"sync/atomic"
)

// Notifier fans events out to registered handlers.
// Each provider owns one. The zero value is ready to use.
type Notifier struct {
	mu       sync.Mutex
	nextID   uint64
	handlers []*notifierEntry
}

type notifierEntry struct {
	id      uint64
	fn      Handler
	removed atomic.Bool
}

// Subscribe registers fn and returns its id.
// Handlers are invoked in registration order.
func (n *Notifier) Subscribe(fn Handler) uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	n.handlers = append(n.handlers, &notifierEntry{id: n.nextID, fn: fn})
	return n.nextID
}

// Unsubscribe removes the handler with the given id.
// It reports whether a handler was removed.
func (n *Notifier) Unsubscribe(id uint64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, e := range n.handlers {
		if e.id != id {
			continue
		}
		e.removed.Store(true)
		// Copy instead of reslicing in place so in-flight Emit snapshots
		// keep their view.
		next := make([]*notifierEntry, 0, len(n.handlers)-1)
		next = append(next, n.handlers[:i]...)
		n.handlers = append(next, n.handlers[i+1:]...)
		return true
	}
	return false
}

// Emit delivers e to every handler synchronously.
// A handler removed during emission is not called afterwards.
func (n *Notifier) Emit(e Event) {
	n.mu.Lock()
	snapshot := n.handlers
	n.mu.Unlock()

	for _, h := range snapshot {
		if h.removed.Load() {
			continue
		}
		h.fn(e)
	}
}

// Len returns the number of registered handlers.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.handlers)
}

// Clear removes every handler.
func (n *Notifier) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, e := range n.handlers {
		e.removed.Store(true)
	}
	n.handlers = nil
}

// on adapts Subscribe to the History.On signature.
func (n *Notifier) on(fn Handler) func() {
	id := n.Subscribe(fn)
	var once sync.Once
	return func() {
		once.Do(func() { n.Unsubscribe(id) })
	}
}
