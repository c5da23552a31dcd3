// Package cli implements the forcelayout command-line interface.
//
// # Commands
//
//   - layout: run a pass list over a JSON graph and write the result
//   - serve: expose the runner over HTTP
//   - cache: clear or locate the layout cache
//   - config: print or create a configuration file
//   - completion: generate shell completions
//
// All commands accept --config to name a config file and -v for debug
// logging. Without --config the standard search path of pkg/config is used.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcelayout/pkg/buildinfo"
	"github.com/matzehuels/forcelayout/pkg/cache"
	"github.com/matzehuels/forcelayout/pkg/config"
	"github.com/matzehuels/forcelayout/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "forcelayout"

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

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Force-directed graph layout",
		Long:         `forcelayout positions the nodes of a graph with force-directed algorithms (ForceAtlas, Yifan Hu, OpenOrd) run as a configurable list of passes.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (.toml, .yaml or .yml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config and Runner Factory
// =============================================================================

// loadConfig reads --config or the first file on the search path. The
// returned path is "" when the built-in defaults are used.
func (c *CLI) loadConfig() (config.Config, string, error) {
	if c.configPath != "" {
		cfg, err := config.Load(c.configPath)
		return cfg, c.configPath, err
	}
	cfg, path, err := config.LoadDefault()
	if err == nil && path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	return cfg, path, err
}

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, cfg config.CacheConfig, noCache bool) *pipeline.Runner {
	store := c.newCache(ctx, cfg, noCache)
	var keyer cache.Keyer
	if cfg.Prefix != "" && cfg.Backend == config.BackendFile {
		keyer = cache.NewScopedKeyer(nil, cfg.Prefix)
	}
	r := pipeline.NewRunner(store, keyer, c.Logger)
	r.TTL = cfg.TTL
	return r
}

// newCache opens the configured cache. A cache that cannot be opened is
// logged and replaced by the null cache, so the run proceeds uncached.
func (c *CLI) newCache(ctx context.Context, cfg config.CacheConfig, noCache bool) cache.Cache {
	if noCache || cfg.Backend == config.BackendNone {
		return cache.NewNullCache()
	}
	switch cfg.Backend {
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: cfg.RedisURL, Prefix: cfg.Prefix})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, running uncached", "err", err)
			return cache.NewNullCache()
		}
		return rc
	default:
		dir, err := cacheDir(cfg)
		if err != nil {
			c.Logger.Warn("no cache directory, running uncached", "err", err)
			return cache.NewNullCache()
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			c.Logger.Warn("file cache unavailable, running uncached", "err", err)
			return cache.NewNullCache()
		}
		return fc
	}
}

// cacheDir returns the configured directory or the per-user default.
func cacheDir(cfg config.CacheConfig) (string, error) {
	if cfg.Dir != "" {
		return cfg.Dir, nil
	}
	return cache.DefaultDir()
}
