package history

import "github.com/vango-dev/history/pkg/location"

// HashOption configures a HashHistory.
type HashOption func(*hashConfig)

type hashConfig struct {
	loc Location
}

// WithLocation sets the location a HashHistory mirrors.
// Without it the process-wide location.Global() is used.
func WithLocation(loc Location) HashOption {
	return func(c *hashConfig) {
		c.loc = loc
	}
}

// HashHistory is a History that stores the current path in the hash of a
// Location.
//
// The provider starts inactive: external hash changes are ignored until
// Listen is called, and construction emits nothing.
type HashHistory struct {
	loc      Location
	current  string
	sub      *subscription
	notifier Notifier
}

var _ History = (*HashHistory)(nil)

// NewHash creates a HashHistory initialized to the location's current hash.
func NewHash(opts ...HashOption) *HashHistory {
	var cfg hashConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.loc == nil {
		cfg.loc = location.Global()
	}

	h := &HashHistory{
		loc:     cfg.loc,
		current: cfg.loc.Hash(),
	}
	h.sub = subscribe(cfg.loc, h.onHashChange)
	return h
}

// Current returns the current path.
func (h *HashHistory) Current() string {
	return h.current
}

// Set pushes path onto the location and emits a change event.
func (h *HashHistory) Set(path string) {
	h.current = path
	h.loc.Push(path)
	h.emit(CauseSet)
}

// Replace swaps the location's current entry for path and emits a change
// event.
func (h *HashHistory) Replace(path string) {
	h.current = path
	h.loc.Replace(path)
	h.emit(CauseReplace)
}

// Listen reconciles with the live hash and resumes delivery of external
// hash changes.
func (h *HashHistory) Listen() {
	if h.sub.State() == SubscriptionCancelled {
		return
	}
	if v := h.loc.Hash(); v != h.current {
		h.current = v
		h.emit(CauseReconcile)
	}
	h.sub.Resume()
}

// Unlisten pauses delivery of external hash changes. The subscription is
// kept for the next Listen.
func (h *HashHistory) Unlisten() {
	h.sub.Pause()
}

// Active reports whether external hash changes are being delivered.
func (h *HashHistory) Active() bool {
	return h.sub.IsActive()
}

// SubscriptionState returns the state of the external-change subscription.
func (h *HashHistory) SubscriptionState() SubscriptionState {
	return h.sub.State()
}

// On registers fn for change events.
func (h *HashHistory) On(fn Handler) func() {
	return h.notifier.on(fn)
}

// Close releases the location subscription and drops every observer.
// It is safe to call more than once.
func (h *HashHistory) Close() error {
	h.sub.Cancel()
	h.notifier.Clear()
	return nil
}

func (h *HashHistory) onHashChange(hash string) {
	h.current = hash
	h.emit(CauseExternal)
}

func (h *HashHistory) emit(cause Cause) {
	h.notifier.Emit(Event{Type: EventChange, Value: h.current, Cause: cause})
}
