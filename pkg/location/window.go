package location

import "sync"

// Window is an in-process address bar: a stack of hash entries with a
// cursor. It is safe for concurrent use; listeners run outside the lock.
type Window struct {
	mu       sync.Mutex
	entries  []string
	index    int
	pushes   int
	replaces int

	listeners listeners
}

// NewWindow creates a window whose only entry is initial.
func NewWindow(initial string) *Window {
	return &Window{entries: []string{trimHash(initial)}}
}

var (
	globalWindow     *Window
	globalWindowOnce sync.Once
)

// Global returns the process-wide window used when a provider is built
// without an explicit location.
func Global() *Window {
	globalWindowOnce.Do(func() {
		globalWindow = NewWindow("")
	})
	return globalWindow
}

// Hash returns the hash of the current entry.
func (w *Window) Hash() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.entries[w.index]
}

// Push discards forward entries and appends hash as given. Listeners are not
// notified.
func (w *Window) Push(hash string) {
	w.mu.Lock()
	w.push(hash)
	w.pushes++
	w.mu.Unlock()
}

// Replace overwrites the current entry with hash as given. Listeners are not
// notified.
func (w *Window) Replace(hash string) {
	w.mu.Lock()
	w.entries[w.index] = hash
	w.replaces++
	w.mu.Unlock()
}

// OnHashChange registers fn for user-originated hash changes.
func (w *Window) OnHashChange(fn func(hash string)) func() {
	return w.listeners.add(fn)
}

// Navigate simulates the user entering a new hash in the address bar.
// Navigating to the current hash does nothing.
func (w *Window) Navigate(hash string) {
	hash = trimHash(hash)

	w.mu.Lock()
	if w.entries[w.index] == hash {
		w.mu.Unlock()
		return
	}
	w.push(hash)
	w.mu.Unlock()

	w.listeners.fire(hash)
}

// Back moves to the previous entry, notifying listeners if the hash changed.
// It reports whether there was an entry to move to.
func (w *Window) Back() bool {
	return w.step(-1)
}

// Forward moves to the next entry, notifying listeners if the hash changed.
func (w *Window) Forward() bool {
	return w.step(1)
}

func (w *Window) step(delta int) bool {
	w.mu.Lock()
	next := w.index + delta
	if next < 0 || next >= len(w.entries) {
		w.mu.Unlock()
		return false
	}
	prev := w.entries[w.index]
	w.index = next
	hash := w.entries[next]
	w.mu.Unlock()

	if hash != prev {
		w.listeners.fire(hash)
	}
	return true
}

// Entries returns a copy of the navigation stack.
func (w *Window) Entries() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.entries))
	copy(out, w.entries)
	return out
}

// Index returns the position of the current entry.
func (w *Window) Index() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.index
}

// Len returns the number of entries.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entries)
}

// Pushes returns how many times Push was called.
func (w *Window) Pushes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pushes
}

// Replaces returns how many times Replace was called.
func (w *Window) Replaces() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.replaces
}

// Listeners returns the number of registered hash-change listeners.
func (w *Window) Listeners() int {
	return w.listeners.len()
}

func (w *Window) push(hash string) {
	w.entries = append(w.entries[:w.index+1], hash)
	w.index++
}

// trimHash drops one leading '#'.
func trimHash(hash string) string {
	if len(hash) > 0 && hash[0] == '#' {
		return hash[1:]
	}
	return hash
}
