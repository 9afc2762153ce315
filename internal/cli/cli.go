// Package cli implements the logocell command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/siliconmark/logocell/pkg/buildinfo"
	"github.com/siliconmark/logocell/pkg/cache"
	"github.com/siliconmark/logocell/pkg/pipeline"
)

const appName = "logocell"

// Log levels for main.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds state shared by all commands: the logger and the loaded config.
type CLI struct {
	Logger *log.Logger

	configPath string  // --config
	config     *Config // loaded before any command runs
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
		Short: "logocell turns logo images into DRC-clean layout cells",
		Long: `logocell converts a raster logo into an IC layout cell: metal shapes that
honour the minimum width, area and spacing rules of every layer in the metal
stack, plus vias between adjacent layers. The cell is written as GDSII and as
a LEF macro.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "TOML config file (default $XDG_CONFIG_HOME/logocell/config.toml if present)")

	root.AddCommand(
		c.convertCommand(),
		c.inspectCommand(),
		c.rulesCommand(),
		c.cacheCommand(),
		c.serveCommand(),
		c.completionCommand(),
	)

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// xdgPath joins elem onto $env, or onto ~/fallback when env is unset.
func xdgPath(env, fallback string, elem ...string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, fallback)
	}
	return filepath.Join(append([]string{base, appName}, elem...)...), nil
}

// cacheDir is ~/.cache/logocell unless XDG_CACHE_HOME says otherwise.
func cacheDir() (string, error) { return xdgPath("XDG_CACHE_HOME", ".cache") }

// configFile is ~/.config/logocell/config.toml unless XDG_CONFIG_HOME says otherwise.
func configFile() (string, error) { return xdgPath("XDG_CONFIG_HOME", ".config", "config.toml") }
