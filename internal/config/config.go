package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vango-dev/history/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "history.json"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultMaxFrameSize is the default WebSocket read limit in bytes.
	DefaultMaxFrameSize = 4096

	// DefaultMetricsPath is where Prometheus metrics are served.
	DefaultMetricsPath = "/metrics"
)

// Backend names accepted in history.backend.
const (
	BackendHash   = "hash"
	BackendMemory = "memory"
)

// Config represents the complete history.json configuration.
type Config struct {
	// Server contains HTTP and WebSocket settings.
	Server ServerConfig `json:"server,omitempty"`

	// History selects and seeds the per-session provider.
	History HistoryConfig `json:"history,omitempty"`

	// Redirects maps paths to the path they are replaced with.
	Redirects map[string]string `json:"redirects,omitempty"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing configures OpenTelemetry spans.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// Log configures the slog handler.
	Log LogConfig `json:"log,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// AllowedOrigins lists origins accepted for WebSocket upgrades.
	// Empty means same-origin only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`

	// ReadBufferSize is the WebSocket read buffer size.
	ReadBufferSize int `json:"readBufferSize,omitempty"`

	// WriteBufferSize is the WebSocket write buffer size.
	WriteBufferSize int `json:"writeBufferSize,omitempty"`

	// MaxFrameSize is the largest client message accepted, in bytes.
	MaxFrameSize int64 `json:"maxFrameSize,omitempty"`
}

// HistoryConfig selects the history provider.
type HistoryConfig struct {
	// Backend is "hash" (mirror the tab's hash) or "memory".
	Backend string `json:"backend,omitempty"`

	// Key is the registry key the provider is bound to.
	Key string `json:"key,omitempty"`

	// InitialPath seeds the memory backend.
	InitialPath string `json:"initialPath,omitempty"`
}

// MetricsConfig configures Prometheus.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty"`
	Path      string `json:"path,omitempty"`
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig configures OpenTelemetry.
type TracingConfig struct {
	Enabled    bool   `json:"enabled,omitempty"`
	TracerName string `json:"tracerName,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	cfg := &Config{
		Metrics: MetricsConfig{Enabled: true},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from the specified directory.
// It looks for history.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("H022").
				WithDetail("No history.json found in " + filepath.Dir(path)).
				WithSuggestion("Create history.json or run without --config to use defaults")
		}
		return nil, errors.New("H020").Wrap(err)
	}

	cfg := &Config{Metrics: MetricsConfig{Enabled: true}}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("H020").
			WithDetail("Failed to parse history.json: " + err.Error()).
			WithSuggestion("Check that history.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ReadBufferSize == 0 {
		c.Server.ReadBufferSize = 1024
	}
	if c.Server.WriteBufferSize == 0 {
		c.Server.WriteBufferSize = 1024
	}
	if c.Server.MaxFrameSize == 0 {
		c.Server.MaxFrameSize = DefaultMaxFrameSize
	}

	if c.History.Backend == "" {
		c.History.Backend = BackendHash
	}
	if c.History.Key == "" {
		c.History.Key = "history"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "history"
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = "historyd"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("H021").
			WithDetail("server.port must be between 0 and 65535")
	}
	if c.Server.MaxFrameSize < 0 {
		return errors.New("H021").
			WithDetail("server.maxFrameSize must not be negative")
	}
	switch c.History.Backend {
	case BackendHash, BackendMemory:
	default:
		return errors.New("H021").
			WithDetail("history.backend must be \"hash\" or \"memory\", got " + strconv.Quote(c.History.Backend))
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("H021").
			WithDetail("log.format must be \"text\" or \"json\"")
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("H021").
			WithDetail("metrics.path must start with '/'")
	}
	for from, to := range c.Redirects {
		if from == to {
			return errors.New("H021").
				WithDetail("redirect " + strconv.Quote(from) + " points to itself")
		}
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, errors.New("H021").
			WithDetail("log.level must be one of debug, info, warn, error").
			Wrap(err)
	}
	return level, nil
}

// Logger builds the slog logger described by Log.
func (c *Config) Logger() *slog.Logger {
	level, err := c.LogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}
