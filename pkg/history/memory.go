package history

// MemoryOption configures a MemoryHistory.
type MemoryOption func(*memoryConfig)

type memoryConfig struct {
	path string
}

// WithPath sets the initial path of a MemoryHistory.
func WithPath(path string) MemoryOption {
	return func(c *memoryConfig) {
		c.path = path
	}
}

// MemoryHistory is a History backed by a PathStore. It can be used outside
// of browsers.
type MemoryHistory struct {
	store    *PathStore
	current  string
	notifier Notifier
}

var _ History = (*MemoryHistory)(nil)

// NewMemory creates a MemoryHistory. Without WithPath the current path is
// the empty string. Construction emits nothing.
func NewMemory(opts ...MemoryOption) *MemoryHistory {
	var cfg memoryConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &MemoryHistory{
		store:   NewPathStore(cfg.path),
		current: cfg.path,
	}
}

// Current returns the current path.
func (h *MemoryHistory) Current() string {
	return h.current
}

// Store returns the backing store. Writing to it directly is picked up by
// the next Listen.
func (h *MemoryHistory) Store() *PathStore {
	return h.store
}

// Set updates the current path and the store, then emits a change event.
func (h *MemoryHistory) Set(path string) {
	h.navigate(path, CauseSet)
}

// Replace is Set: memory history has no navigation stack.
func (h *MemoryHistory) Replace(path string) {
	h.navigate(path, CauseReplace)
}

func (h *MemoryHistory) navigate(path string, cause Cause) {
	h.current = path
	h.store.Set(path)
	h.emit(cause)
}

// Listen reconciles the current path with the store, emitting only when
// they differ.
func (h *MemoryHistory) Listen() {
	if v := h.store.Get(); v != h.current {
		h.current = v
		h.emit(CauseReconcile)
	}
}

// Unlisten is a no-op; there is no external signal to pause.
func (h *MemoryHistory) Unlisten() {}

// On registers fn for change events.
func (h *MemoryHistory) On(fn Handler) func() {
	return h.notifier.on(fn)
}

func (h *MemoryHistory) emit(cause Cause) {
	h.notifier.Emit(Event{Type: EventChange, Value: h.current, Cause: cause})
}
