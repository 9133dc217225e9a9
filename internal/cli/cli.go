// Package cli implements the capdrop command-line interface.
//
// This package provides commands for previewing caption augmentation
// transforms (dropout, shuffle, or both), simulating many training steps
// with summary statistics, serving the HTTP API for the web frontend,
// and managing the result cache. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - transform: Apply a single dropout/shuffle transform to a caption
//   - simulate: Run many transform steps and summarize token statistics
//   - serve: Run the HTTP API for the web frontend
//   - cache: Manage the simulation result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/capdrop/capdrop/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/capdrop/capdrop/pkg/buildinfo"
	"github.com/capdrop/capdrop/pkg/cache"
	"github.com/capdrop/capdrop/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "capdrop"

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
	config *fileConfig
}

// New creates a new CLI instance with a default logger. Configuration
// from the config file, if present, supplies flag defaults.
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{Logger: newLogger(w, level)}
	cfg, err := loadConfig()
	if err != nil {
		c.Logger.Warn("config file ignored", "err", err)
		cfg = &fileConfig{}
	}
	c.config = cfg
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Capdrop previews caption dropout and shuffle augmentation",
		Long:         `Capdrop is a CLI tool for previewing how token dropout and shuffle augmentation rewrite image-training captions, so you can tune rates and keep-token settings before a training run.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.transformCommand())
	root.AddCommand(c.simulateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) *pipeline.Runner {
	return pipeline.NewRunner(c.newCache(noCache), c.Logger)
}

func (c *CLI) newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return fc
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory: the configured cache_dir when
// set, otherwise the XDG standard location (~/.cache/capdrop/).
func (c *CLI) cacheDir() (string, error) {
	if c.config.CacheDir != "" {
		return c.config.CacheDir, nil
	}
	return cache.DefaultDir()
}

// configPath returns the config file path (~/.config/capdrop/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
