package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/vango-dev/history/internal/config"
	"github.com/vango-dev/history/pkg/middleware"
)

// ServerConfig configures the server.
type ServerConfig struct {
	// Address is the listen address (default ":3000").
	Address string

	// Backend is config.BackendHash or config.BackendMemory.
	Backend string

	// Key prefixes each session's registry key (default "history").
	Key string

	// InitialPath seeds memory-backed sessions. Empty means the tab's hash.
	InitialPath string

	// Redirects maps a path to the path it is replaced with.
	Redirects map[string]string

	// MaxFrameSize bounds a single tab message in bytes.
	MaxFrameSize int64

	// ReadBufferSize and WriteBufferSize size the WebSocket buffers.
	ReadBufferSize  int
	WriteBufferSize int

	// CheckOrigin validates WebSocket upgrade origins.
	// Nil uses gorilla/websocket's same-origin check.
	CheckOrigin func(r *http.Request) bool

	// Metrics receives provider metrics. Nil disables them.
	Metrics *middleware.Metrics

	// MetricsHandler is mounted at MetricsPath when non-nil.
	MetricsHandler http.Handler

	// MetricsPath is where MetricsHandler is served (default "/metrics").
	MetricsPath string

	// Tracing records an OpenTelemetry span per change.
	Tracing bool

	// TracerName names the tracer (default "historyd").
	TracerName string

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration

	// Logger is the server logger (default slog.Default()).
	Logger *slog.Logger
}

// DefaultServerConfig returns a ServerConfig with default values.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:         ":3000",
		Backend:         config.BackendHash,
		Key:             "history",
		MaxFrameSize:    config.DefaultMaxFrameSize,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		MetricsPath:     config.DefaultMetricsPath,
		TracerName:      "historyd",
		ShutdownTimeout: 10 * time.Second,
	}
}

// FromConfig maps a loaded history.json onto a ServerConfig. Metrics and
// MetricsHandler are left for the caller to wire.
func FromConfig(cfg *config.Config) *ServerConfig {
	sc := DefaultServerConfig()
	sc.Address = cfg.Address()
	sc.Backend = cfg.History.Backend
	sc.Key = cfg.History.Key
	sc.InitialPath = cfg.History.InitialPath
	sc.Redirects = cfg.Redirects
	sc.MaxFrameSize = cfg.Server.MaxFrameSize
	sc.ReadBufferSize = cfg.Server.ReadBufferSize
	sc.WriteBufferSize = cfg.Server.WriteBufferSize
	sc.MetricsPath = cfg.Metrics.Path
	sc.Tracing = cfg.Tracing.Enabled
	sc.TracerName = cfg.Tracing.TracerName
	sc.Logger = cfg.Logger()

	if len(cfg.Server.AllowedOrigins) > 0 {
		allowed := make(map[string]bool, len(cfg.Server.AllowedOrigins))
		for _, o := range cfg.Server.AllowedOrigins {
			allowed[o] = true
		}
		sc.CheckOrigin = func(r *http.Request) bool {
			return allowed[r.Header.Get("Origin")]
		}
	}
	return sc
}

func (c *ServerConfig) applyDefaults() {
	d := DefaultServerConfig()
	if c.Address == "" {
		c.Address = d.Address
	}
	if c.Backend == "" {
		c.Backend = d.Backend
	}
	if c.Key == "" {
		c.Key = d.Key
	}
	if c.MaxFrameSize <= 0 {
		c.MaxFrameSize = d.MaxFrameSize
	}
	if c.ReadBufferSize <= 0 {
		c.ReadBufferSize = d.ReadBufferSize
	}
	if c.WriteBufferSize <= 0 {
		c.WriteBufferSize = d.WriteBufferSize
	}
	if c.MetricsPath == "" {
		c.MetricsPath = d.MetricsPath
	}
	if c.TracerName == "" {
		c.TracerName = d.TracerName
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
