// Package server hosts history providers for browser tabs over WebSocket.
//
// Every connection to /ws becomes a Session: the tab sends a hello message
// with its current hash, the session wraps the connection in a
// location.Remote, builds one history provider on top of it and binds the
// provider in the server's registry under "<key>/<session id>".
//
// # Session Loop
//
// A session runs two goroutines:
//   - ReadLoop: decodes tab messages (hello, hashchange, visibility)
//   - Run: the only goroutine touching the provider; it applies hash
//     changes, toggles Listen/Unlisten on visibility, executes navigation
//     commands and applies configured redirects with Replace
//
// A hidden tab unlistens its provider, so hash changes made while hidden are
// reconciled in one step when the tab becomes visible again.
//
// # Endpoints
//
//   - GET  /                          the demo page and client script
//   - GET  /ws                        WebSocket endpoint
//   - GET  /sessions                  JSON snapshot of live sessions
//   - POST /sessions/{id}/navigate    {"path": "...", "replace": false}
//   - GET  /healthz                   liveness
//   - GET  /metrics                   Prometheus (when configured)
//
// # Example Usage
//
//	srv := server.New(&server.ServerConfig{
//	    Address:   ":8080",
//	    Redirects: map[string]string{"": "home"},
//	})
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
