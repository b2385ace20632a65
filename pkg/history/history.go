package history

// EventType identifies the kind of event emitted by a provider.
type EventType string

// EventChange is emitted whenever the current path changes or is set.
const EventChange EventType = "change"

// Cause records which operation produced a change event.
type Cause string

const (
	// CauseSet is an explicit Set call.
	CauseSet Cause = "set"

	// CauseReplace is an explicit Replace call.
	CauseReplace Cause = "replace"

	// CauseReconcile is a Listen call that found the backing value moved.
	CauseReconcile Cause = "reconcile"

	// CauseExternal is a change signalled by the location while listening.
	CauseExternal Cause = "external"
)

// Event is the payload delivered to observers.
// Value always equals the provider's Current() at the moment of emission.
type Event struct {
	Type  EventType
	Value string
	Cause Cause
}

// Handler receives provider events.
type Handler func(Event)

// History is the capability shared by every provider.
type History interface {
	// Current returns the current path.
	Current() string

	// Set navigates to path and emits a change event, even if path equals
	// the current value.
	Set(path string)

	// Replace navigates to path without adding a navigation entry where the
	// backend has a navigation stack. It emits exactly like Set.
	Replace(path string)

	// Listen reconciles the current path with the backing value and
	// activates delivery of external changes.
	Listen()

	// Unlisten deactivates delivery of external changes.
	Unlisten()

	// On registers fn for change events and returns a function that
	// removes it.
	On(fn Handler) (unsubscribe func())
}

// Location is the external navigation context observed by HashHistory.
// Hash values never include the leading '#'.
type Location interface {
	// Hash returns the live hash value.
	Hash() string

	// Replace sets the hash without adding a navigation entry.
	Replace(hash string)

	// Push sets the hash and adds a navigation entry.
	Push(hash string)

	// OnHashChange registers fn for hash changes that did not originate from
	// Push or Replace, and returns a function that removes it.
	OnHashChange(fn func(hash string)) (cancel func())
}
