// Package cli implements the flowxmi command-line interface.
//
// This package provides commands for converting activity-flow documents into
// Enterprise Architect XMI, previewing the repaired graph with Graphviz,
// serving the conversion API over HTTP, and managing the conversion cache.
// The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
//   - convert: Run the full pipeline and write the XMI document
//   - preview: Render a Graphviz preview of the repaired graph
//   - diagnostics: Browse conversion warnings interactively
//   - serve: Expose the pipeline over HTTP
//   - cache: Manage the conversion cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pzaremba/flowxmi/pkg/buildinfo"
	"github.com/pzaremba/flowxmi/pkg/cache"
	"github.com/pzaremba/flowxmi/pkg/errors"
	"github.com/pzaremba/flowxmi/pkg/pipeline"
)

// ===== Constants =====

// appName is the application name used for directories and display.
const appName = "flowxmi"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// ===== CLI - Central CLI State =====

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "flowxmi converts activity flows into Enterprise Architect XMI",
		Long:         `flowxmi turns flow documents (ordered activity steps, connections, and swimlanes) into XMI 2.1 interchange files that import cleanly into Enterprise Architect, repairing structural defects along the way.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.diagnosticsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// ===== Runner Factory =====

// newRunner creates a pipeline runner for CLI use. With a Redis URL the
// conversion cache is shared; otherwise it lives under the user cache dir.
func (c *CLI) newRunner(cmd *cobra.Command, noCache bool, redisURL string) (*pipeline.Runner, error) {
	store, err := c.newCache(cmd, noCache, redisURL)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func (c *CLI) newCache(cmd *cobra.Command, noCache bool, redisURL string) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisURL != "" {
		if err := errors.ValidateURL(redisURL); err != nil {
			return nil, err
		}
		return cache.NewRedisCache(cmd.Context(), redisURL)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// ===== Paths =====

// cacheDir returns the cache directory using XDG standard (~/.cache/flowxmi/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
