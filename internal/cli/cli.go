// Package cli implements the potentials command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/potentials/pkg/buildinfo"
	"github.com/matzehuels/potentials/pkg/cache"
	"github.com/matzehuels/potentials/pkg/compiler"
	"github.com/matzehuels/potentials/pkg/pipeline"
	"github.com/matzehuels/potentials/pkg/store"
	"github.com/matzehuels/potentials/pkg/store/mongostore"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "potentials"

	// keyPrefix scopes shared Redis keys.
	keyPrefix = appName + ":"
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

	configFile string
}

// New creates a CLI writing logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: defaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Solve transportation problems with the method of potentials",
		Long:         `potentials solves the transportation problem with the minimum-element start plan and the method of potentials, and writes the full solution up as LaTeX, PDF, SVG or a step-by-step terminal walk-through.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/potentials/config.toml)")

	root.AddCommand(c.solveCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.stepCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	path, explicit := c.configFile, c.configFile != ""
	if !explicit {
		var err error
		if path, err = configPath(); err != nil {
			return nil
		}
	}
	cfg, err := loadConfig(path, explicit)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("config loaded", "path", path)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner from the config. noCache disables
// caching regardless of the configured backend.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if c.Config.Cache.Backend == cacheBackendRedis {
		keyer = cache.NewScopedKeyer(nil, keyPrefix)
	}
	r := pipeline.NewRunner(ch, keyer, c.Logger)
	r.Compiler = compiler.PDFLaTeX{Binary: c.Config.Render.PDFLaTeX, Logger: c.Logger}

	st, err := c.newStore(ctx)
	if err != nil {
		_ = r.Close()
		return nil, err
	}
	r.Store = st
	return r, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	var (
		ch  cache.Cache
		err error
	)
	switch c.Config.Cache.Backend {
	case cacheBackendNone:
		return cache.NewNullCache(), nil
	case cacheBackendRedis:
		ch, err = cache.NewRedisCache(ctx, cache.RedisOptions{Addr: c.Config.Cache.RedisAddr})
		if err != nil {
			return nil, fmt.Errorf("redis cache at %s: %w", c.Config.Cache.RedisAddr, err)
		}
	default:
		dir, derr := cacheDir()
		if derr != nil {
			return cache.NewNullCache(), nil
		}
		if ch, err = cache.NewFileCache(dir); err != nil {
			return nil, err
		}
	}
	return cache.WithTTL(ch, c.Config.Cache.TTL.Duration), nil
}

// newStore connects to MongoDB when configured. Without it, runs are not
// recorded.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	if c.Config.Store.MongoURI == "" {
		return nil, nil
	}
	return mongostore.Connect(ctx, c.Config.Store.MongoURI, c.Config.Store.Database)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/potentials/).
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
