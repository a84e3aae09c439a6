// Package cli implements the xyplot command-line interface.
//
// The CLI drives sweeps locally: it enumerates every iteration of a
// dim1 × dim2 sweep, obtains one image per iteration (placeholder swatches
// or files from disk), and writes one grid image per completed page. It
// also prints sweep indices, serves the HTTP API and manages the page cache.
//
// # Commands
//
//   - run: drive a sweep and write the composed pages
//   - index: print the iteration records of a sweep
//   - serve: start the HTTP API
//   - cache: manage the page cache
//
// # Configuration
//
// Every command accepts --config with a TOML file (see package config).
// Flags override config values.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/xyplot/pkg/buildinfo"
	"github.com/matzehuels/xyplot/pkg/config"
	"github.com/matzehuels/xyplot/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. Debug logging reports callers.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	c.Logger.SetReportCaller(level <= log.DebugLevel)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "xyplot composes image sweeps into labelled grid pages",
		Long:         `xyplot enumerates the cartesian product of two parameter lists, collects one image per combination and lays them out as labelled grids, split into pages of bounded size.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "TOML config file")

	// Register all subcommands
	root.AddCommand(c.runCommand())
	root.AddCommand(c.indexCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Runner Factory
// =============================================================================

// loadConfig reads the --config file, or returns the defaults.
func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.configPath)
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	if noCache {
		cfg.Cache.Backend = config.BackendNone
	}
	pc, keyer, err := cfg.NewCache(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(pc, keyer, c.Logger), nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/xyplot/).
func cacheDir() (string, error) {
	return config.DefaultCacheDir()
}
