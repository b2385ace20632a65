package history

import (
	"sync"
	"sync/atomic"
)

// SubscriptionState is the delivery state of an external-change
// subscription.
type SubscriptionState int32

const (
	// SubscriptionPaused drops external changes. Subscriptions start here.
	SubscriptionPaused SubscriptionState = iota

	// SubscriptionActive delivers external changes.
	SubscriptionActive

	// SubscriptionCancelled has released its location listener for good.
	SubscriptionCancelled
)

// String returns a human-readable state name.
func (s SubscriptionState) String() string {
	switch s {
	case SubscriptionPaused:
		return "paused"
	case SubscriptionActive:
		return "active"
	case SubscriptionCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// subscription is a pausable hash-change listener owned by one HashHistory.
type subscription struct {
	state   atomic.Int32
	handler func(hash string)
	release func()
	once    sync.Once
}

// subscribe attaches handler to loc in the paused state.
func subscribe(loc Location, handler func(hash string)) *subscription {
	s := &subscription{handler: handler}
	s.state.Store(int32(SubscriptionPaused))
	s.release = loc.OnHashChange(s.deliver)
	return s
}

func (s *subscription) State() SubscriptionState {
	return SubscriptionState(s.state.Load())
}

func (s *subscription) IsActive() bool {
	return s.State() == SubscriptionActive
}

// Pause stops delivery. Pausing a paused or cancelled subscription is a no-op.
func (s *subscription) Pause() {
	s.state.CompareAndSwap(int32(SubscriptionActive), int32(SubscriptionPaused))
}

// Resume restarts delivery. Resuming an active or cancelled subscription is
// a no-op.
func (s *subscription) Resume() {
	s.state.CompareAndSwap(int32(SubscriptionPaused), int32(SubscriptionActive))
}

// Cancel releases the location listener exactly once.
func (s *subscription) Cancel() {
	s.state.Store(int32(SubscriptionCancelled))
	s.once.Do(func() {
		if s.release != nil {
			s.release()
		}
	})
}

func (s *subscription) deliver(hash string) {
	if !s.IsActive() {
		return
	}
	s.handler(hash)
}
