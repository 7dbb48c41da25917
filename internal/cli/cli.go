// Package cli implements the staffsheet command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/staffsheet/pkg/buildinfo"
	"github.com/matzehuels/staffsheet/pkg/cache"
	"github.com/matzehuels/staffsheet/pkg/config"
	"github.com/matzehuels/staffsheet/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "staffsheet"

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
	config     *config.File
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
		Use:   appName,
		Short: "Staffsheet prints violin note-reading practice sheets",
		Long: `Staffsheet lays out pages of treble staves filled with note heads drawn from
the pitches you choose, so you can practise reading notes on the violin.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.loadConfig,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "settings file (default $XDG_CONFIG_HOME/staffsheet/config.toml)")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.pitchesCommand())
	root.AddCommand(c.pickCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the settings file and fills every flag of the running
// command that was not given on the command line.
func (c *CLI) loadConfig(cmd *cobra.Command, args []string) error {
	f, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.config = f
	if f.Path != "" {
		c.Logger.Debug("loaded config", "path", f.Path)
	}
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return f.ApplyTo(cmd.Flags())
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	return c.newRunnerWithKeyer(noCache, nil)
}

// newRunnerWithKeyer is newRunner with custom cache keys. A nil keyer uses
// the default one.
func (c *CLI) newRunnerWithKeyer(noCache bool, keyer cache.Keyer) (*pipeline.Runner, error) {
	store, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/staffsheet/).
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
