// Package history provides interchangeable history providers for routers.
//
// A provider tracks a single current path, notifies observers whenever that
// path changes, and accepts programmatic navigation through Set and Replace.
// Two backends implement the History interface:
//
//   - MemoryHistory keeps the path in an in-process PathStore. It never
//     observes anything external and is the backend of choice for tests and
//     non-browser environments.
//   - HashHistory mirrors the hash fragment of a Location (a browser address
//     bar, or any implementation of the Location interface). External hash
//     changes are delivered only while the provider is listening.
//
// # Listening
//
// A router calls Listen when it becomes the active router and Unlisten when it
// steps down. Listen reconciles Current against the backing value and emits a
// change event only when they differ, so calling it twice in a row emits at
// most once. For HashHistory, Unlisten pauses the external-change
// subscription: hash changes made while paused are not delivered as they
// happen, but the next Listen picks them up through reconciliation.
//
//	h := history.NewHash(history.WithLocation(loc))
//	defer h.Close()
//
//	stop := h.On(func(e history.Event) {
//	    router.Dispatch(e.Value)
//	})
//	defer stop()
//
//	h.Listen()
//	h.Set("about")   // pushes "#about" and emits {change, "about"}
//	h.Unlisten()
//
// # Concurrency
//
// Providers are single-threaded: every operation, including the delivery of
// external hash changes, runs to completion on the caller's goroutine and
// emits synchronously. Drive a provider from one goroutine (an event loop)
// or serialize access externally.
package history
