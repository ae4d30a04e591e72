// Package cli implements the smartstep command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/smartstep/pkg/buildinfo"
	"github.com/matzehuels/smartstep/pkg/cache"
	"github.com/matzehuels/smartstep/pkg/route"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "smartstep"
)

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
	Config Config

	configPath string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// The configuration file is loaded before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Smartstep routes orthogonal connectors between boxes",
		Long:         `Smartstep computes right-angle connector paths between shapes on a canvas, lets you adjust and reconnect them, and renders the result.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/smartstep/config.toml)")

	root.AddCommand(c.routeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.offsetCommand())
	root.AddCommand(c.reconnectCommand())
	root.AddCommand(c.swapCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Router Factory
// =============================================================================

// newRouter creates a router backed by the configured route cache.
func (c *CLI) newRouter(ctx context.Context, noCache bool) (*route.Router, func(), error) {
	rc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := rc.Close(); err != nil {
			c.Logger.Debug("close cache", "err", err)
		}
	}
	r := route.NewRouter(c.Config.Routing, rc, c.Logger)
	if c.Config.Cache.TTL > 0 {
		r.TTL = c.Config.Cache.TTL
	}
	return r, closeFn, nil
}

// newCache picks the route cache: redis when an address is configured,
// otherwise files under the cache directory. Failing to create the
// directory falls back to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if addr := c.Config.Cache.RedisAddr; addr != "" {
		var rc *cache.RedisCache
		err := dial(ctx, "redis", dialAttempts, dialDelay, func(ctx context.Context) error {
			var err error
			rc, err = cache.NewRedisCache(ctx, cache.RedisOptions{Addr: addr})
			return err
		})
		if err != nil {
			return nil, err
		}
		return cache.Instrumented(rc, "route"), nil
	}
	dir := c.Config.Cache.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("route cache disabled", "dir", dir, "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.Instrumented(fc, "route"), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/smartstep/).
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

// configDir returns the config directory using XDG standard (~/.config/smartstep/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
