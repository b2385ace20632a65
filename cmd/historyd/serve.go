package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/vango-dev/history/internal/config"
	"github.com/vango-dev/history/internal/errors"
	"github.com/vango-dev/history/pkg/middleware"
	"github.com/vango-dev/history/pkg/server"
)

type serveOptions struct {
	configPath string
	port       int
	host       string
	backend    string
}

func serveCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the history server",
		Long: `Start the history server.

Configuration is read from --config, or from history.json in the
working directory when present. Flags override file values.

Examples:
  historyd serve
  historyd serve --port=8080
  historyd serve --backend=memory --config=./history.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to history.json")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "Port to listen on (default from history.json)")
	cmd.Flags().StringVarP(&opts.host, "host", "H", "", "Host to bind to (default from history.json)")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "History backend: hash or memory")

	return cmd
}

func runServe(ctx context.Context, opts serveOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	sc, err := buildServerConfig(cfg)
	if err != nil {
		return errors.FromError(err, "H030")
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(sc).Run(ctx); err != nil {
		return errors.FromError(err, "H030")
	}
	return nil
}

// loadConfig resolves history.json and applies flag overrides.
func loadConfig(opts serveOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case opts.configPath != "":
		cfg, err = config.LoadFile(opts.configPath)
	case config.Exists("."):
		cfg, err = config.Load(".")
	default:
		cfg = config.New()
	}
	if err != nil {
		return nil, errors.FromError(err, "H020")
	}

	if opts.port > 0 {
		cfg.Server.Port = opts.port
	}
	if opts.host != "" {
		cfg.Server.Host = opts.host
	}
	if opts.backend != "" {
		cfg.History.Backend = opts.backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildServerConfig maps cfg onto the server and wires metrics into a
// dedicated registry.
func buildServerConfig(cfg *config.Config) (*server.ServerConfig, error) {
	sc := server.FromConfig(cfg)
	if !cfg.Metrics.Enabled {
		return sc, nil
	}

	reg := prometheus.NewRegistry()
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, err
	}
	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, err
	}

	sc.Metrics = middleware.Prometheus(
		middleware.WithRegistry(reg),
		middleware.WithNamespace(cfg.Metrics.Namespace),
	)
	sc.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return sc, nil
}
