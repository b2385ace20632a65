// Package middleware attaches observability sinks to history providers.
//
// Each sink subscribes to a provider's change events and returns a function
// that detaches it again:
//   - Prometheus metrics (changes by cause, observed providers, listening
//     providers, location write errors)
//   - OpenTelemetry spans, one per change
//   - Structured logging through log/slog
//
// # Prometheus Metrics
//
//	m := middleware.Prometheus(
//	    middleware.WithNamespace("myapp"),
//	)
//	detach := m.Observe(h)
//	defer detach()
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
//
// # OpenTelemetry
//
// Spans are created from the global tracer provider unless one is given:
//
//	stop := middleware.OpenTelemetry(h,
//	    middleware.WithTracerName("my-app"),
//	)
//	defer stop()
//
// # Logging
//
//	stop := middleware.Logger(h, logger.With("session_id", id))
package middleware
