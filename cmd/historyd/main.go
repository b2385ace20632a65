package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/vango-dev/history/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if os.Getenv("NO_COLOR") != "" || !isTerminal(os.Stderr) {
		errors.DisableColors()
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var noColor bool

	rootCmd := &cobra.Command{
		Use:   "historyd",
		Short: "Mirror browser tab history on the server",
		Long: `historyd keeps a server-side history provider in sync with each
connected browser tab.

Tabs connect over WebSocket and report hash changes. The server can
navigate a tab, apply configured redirects, and exports metrics for
every session.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				errors.DisableColors()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.Newf(errors.CategoryCLI, "%v", err).
			WithSuggestion(fmt.Sprintf("Run '%s --help' for usage", cmd.CommandPath()))
	})

	rootCmd.AddCommand(
		serveCmd(),
		explainCmd(),
		versionCmd(),
	)
	return rootCmd
}

// formatError renders err for the terminal. Errors without a code are
// reported as H030.
func formatError(err error) string {
	return errors.FromError(err, "H030").Format()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
