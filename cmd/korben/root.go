package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/korben-sh/korben/internal/adapters/execrunner"
	"github.com/korben-sh/korben/internal/domain/plugin"
	"github.com/korben-sh/korben/internal/plugins/builtin"
)

var (
	// Global flags
	verbose          bool
	strictCollisions bool
)

var rootCmd = &cobra.Command{
	Use:   "korben",
	Short: "A plugin-driven personal automation framework",
	Long: `Korben runs tasks and flows contributed by self-contained plugins.

Plugins are discovered once at startup; plugins whose declared prerequisite
plugins are missing are disabled and contribute nothing.`,
	SilenceErrors: true, // We handle error formatting ourselves
	SilenceUsage:  true, // Don't show usage on error
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&strictCollisions, "strict-collisions", false, "fail when two plugins export the same capability name")
}

// newLogger builds the process logger. Discovery diagnostics go to stderr
// so command output stays clean.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// discover runs the one-shot plugin discovery pass over the built-in
// plugin set.
func discover() (*plugin.Result, error) {
	opts := []plugin.Option{plugin.WithLogger(newLogger())}
	if strictCollisions {
		opts = append(opts, plugin.WithStrictCollisions())
	}
	return plugin.NewDiscovery(opts...).Discover(builtin.All(execrunner.New()))
}

// printError prints an error message to stderr.
func printError(err error) {
	printErrorTo(os.Stderr, err)
}

// printErrorTo prints an error message to the given writer.
func printErrorTo(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %s\n", err)
}
