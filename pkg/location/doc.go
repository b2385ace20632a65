// Package location provides navigation contexts that a hash-based history
// provider can mirror.
//
// Window is an in-process address bar with a navigation stack. It is the
// process-wide default (see Global) and the fake used in tests: Navigate,
// Back and Forward simulate a user, while Push and Replace are what a
// provider calls.
//
// Remote is the server half of a browser tab connected over a WebSocket. It
// sends push/replace commands to the tab and turns the tab's hashchange
// messages into listener calls. Messages are read on a dedicated goroutine
// (ReadLoop) but listeners only run when the owner calls Apply, so a provider
// attached to a Remote stays on its owner's goroutine.
//
// Both implementations only notify listeners for changes that did not come
// from Push or Replace, and store hashes given to Push and Replace verbatim
// so a provider reads back exactly what it wrote. Window strips one leading
// '#' from user input (NewWindow, Navigate). The tab strips it before
// sending, so Remote never rewrites hashes.
package location
