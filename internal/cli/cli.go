// Package cli implements the repomap command-line interface.
package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/repomap/pkg/buildinfo"
	"github.com/matzehuels/repomap/pkg/cache"
	"github.com/matzehuels/repomap/pkg/config"
	"github.com/matzehuels/repomap/pkg/errors"
	"github.com/matzehuels/repomap/pkg/observability"
	"github.com/matzehuels/repomap/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "repomap"
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

	// Config is loaded before any subcommand runs.
	Config config.Config

	errOut       io.Writer // spinners and other transient status
	verbose      bool
	configPath   string
	cacheBackend string
	noCache      bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		errOut: w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "repomap maps a repository analysis to a folder tree and an import graph",
		Long: `repomap reads the analysis payload of a repository (its files and the imports
found in each file) and turns it into a collapsible folder tree and a
grid-positioned import graph ready for a web renderer. Payloads come from
the analysis service or from "repomap analyze <dir>".`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/repomap/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable result caching")
	root.PersistentFlags().StringVar(&c.cacheBackend, "cache", "", "cache backend: file (default), memory, redis, none")

	// Register all subcommands
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and attaches the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	for _, key := range cfg.Warnings {
		c.Logger.Warn("unknown config key", "key", key, "file", cfg.Path)
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "file", cfg.Path)
	}
	c.Config = cfg

	if c.cacheBackend != "" && !config.ValidBackends[c.cacheBackend] {
		return invalidFlag("cache", c.cacheBackend, "file, memory, redis, none")
	}

	hooks := &logHooks{logger: c.Logger}
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	if reason, off := cache.DisabledReason(cc); off {
		c.Logger.Debug("caching disabled", "reason", reason)
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.CacheScope())
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

// backend returns the effective cache backend: flags win over the config file.
func (c *CLI) backend() string {
	switch {
	case c.noCache:
		return config.BackendNone
	case c.cacheBackend != "":
		return c.cacheBackend
	case c.Config.Cache.Backend != "":
		return c.Config.Cache.Backend
	default:
		return config.BackendFile
	}
}

func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	ttl, err := c.Config.CacheTTL()
	if err != nil {
		return nil, err
	}

	var cc cache.Cache
	switch c.backend() {
	case config.BackendNone:
		return cache.Disabled("caching turned off"), nil
	case config.BackendMemory:
		cc, err = cache.NewMemoryCache(c.Config.Cache.MemorySize)
	case config.BackendRedis:
		cc, err = cache.NewRedisCache(ctx, c.Config.RedisOptions())
		if err != nil {
			c.Logger.Warn("redis unavailable, caching disabled", "err", err)
			return cache.Disabled("redis unavailable"), nil
		}
	default:
		dir, derr := cacheDir()
		if derr != nil {
			return cache.Disabled("no cache directory"), nil
		}
		cc, err = cache.NewFileCache(dir)
	}
	if err != nil {
		return nil, err
	}
	return cache.WithTTL(cc, ttl), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/repomap/).
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

// =============================================================================
// Exit Status
// =============================================================================

// ExitCode maps the error returned by the root command to a process exit
// status: 0 on success, 130 when interrupted, 2 for invalid input and 1
// otherwise.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, context.Canceled):
		return 130
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidPayload, errors.ErrCodeInvalidPath,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidConfig, errors.ErrCodeDuplicateID:
		return 2
	}
	return 1
}

// =============================================================================
// Flag Helpers
// =============================================================================

// invalidFlag reports a flag value outside its allowed set.
func invalidFlag(name, value, allowed string) error {
	return errors.New(errors.ErrCodeInvalidInput, "invalid --%s: %q (must be one of: %s)", name, value, allowed)
}
