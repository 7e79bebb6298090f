// Package config loads repomap's TOML configuration file.
//
// The file lives at $XDG_CONFIG_HOME/repomap/config.toml (or
// ~/.config/repomap/config.toml) unless --config names another one. A
// missing default file is not an error; a missing explicit file is.
//
// Example:
//
//	[graph]
//	node_cap = 80
//	columns = 10
//	edge_type = "straight"
//
//	[graph.colors]
//	".zig" = "#f7a41d"
//
//	[cache]
//	backend = "redis"
//	ttl = "24h"
//
//	[cache.redis]
//	addr = "localhost:6379"
//
// Command-line flags override values from the file.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/repomap/pkg/cache"
	"github.com/matzehuels/repomap/pkg/errors"
	"github.com/matzehuels/repomap/pkg/pipeline"
)

// Cache backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// ValidBackends is the set of supported cache backends.
var ValidBackends = map[string]bool{
	BackendFile:   true,
	BackendMemory: true,
	BackendRedis:  true,
	BackendNone:   true,
}

// Config is the file configuration.
type Config struct {
	Graph Graph `toml:"graph"`
	Cache Cache `toml:"cache"`

	// Warnings lists keys present in the file that repomap does not know.
	Warnings []string `toml:"-"`

	// Path is the file the configuration was read from, or "".
	Path string `toml:"-"`
}

// Graph holds graph builder settings. Zero values take the builder defaults.
type Graph struct {
	NodeCap      int               `toml:"node_cap"`
	Columns      int               `toml:"columns"`
	CellWidth    int               `toml:"cell_width"`
	CellHeight   int               `toml:"cell_height"`
	EdgeType     string            `toml:"edge_type"`
	DefaultColor string            `toml:"default_color"`
	Colors       map[string]string `toml:"colors"`
}

// Cache holds cache backend settings.
type Cache struct {
	Backend    string `toml:"backend"`
	TTL        string `toml:"ttl"`
	MemorySize int    `toml:"memory_size"`
	Redis      Redis  `toml:"redis"`
}

// Redis holds connection settings for the redis backend.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Cache: Cache{
			Backend: BackendFile,
			Redis: Redis{
				Addr:   "localhost:6379",
				Prefix: "repomap:",
			},
		},
	}
}

// DefaultPath returns the XDG config file location.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "repomap", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "repomap", "config.toml"), nil
}

// Load reads the configuration. An empty path loads the default file if it
// exists and returns [Default] otherwise.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Default(), nil
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	for _, key := range md.Undecoded() {
		cfg.Warnings = append(cfg.Warnings, key.String())
	}
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks backend names, durations and graph settings.
func (c Config) Validate() error {
	if !ValidBackends[c.Cache.Backend] {
		return errors.New(errors.ErrCodeInvalidConfig,
			"cache.backend: %q (must be one of: file, memory, redis, none)", c.Cache.Backend)
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	if c.Cache.MemorySize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.memory_size must be non-negative")
	}
	opts := c.PipelineOptions()
	if err := opts.ValidateForGraph(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "graph")
	}
	return nil
}

// CacheTTL parses cache.ttl. An empty value means the per-kind defaults.
func (c Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache.ttl")
	}
	if d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must be non-negative")
	}
	return d, nil
}

// PipelineOptions converts the graph section to pipeline options.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		NodeCap:      c.Graph.NodeCap,
		Columns:      c.Graph.Columns,
		CellWidth:    c.Graph.CellWidth,
		CellHeight:   c.Graph.CellHeight,
		EdgeType:     c.Graph.EdgeType,
		DefaultColor: c.Graph.DefaultColor,
		Colors:       c.Graph.Colors,
	}
}

// RedisOptions converts the redis section to cache options.
func (c Config) RedisOptions() cache.RedisOptions {
	return cache.RedisOptions{
		Addr:     c.Cache.Redis.Addr,
		Password: c.Cache.Redis.Password,
		DB:       c.Cache.Redis.DB,
		Prefix:   c.Cache.Redis.Prefix,
	}
}
