package middleware

import (
	"log/slog"

	"github.com/vango-dev/history/pkg/history"
)

// Logger logs every change event of h at debug level until the returned
// function is called. A nil logger uses slog.Default().
func Logger(h history.History, logger *slog.Logger) func() {
	if logger == nil {
		logger = slog.Default()
	}
	return h.On(func(e history.Event) {
		logger.Debug("history change", "path", e.Value, "cause", e.Cause)
	})
}
