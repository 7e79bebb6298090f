package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/repomap/pkg/errors"
	"github.com/matzehuels/repomap/pkg/graph"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[graph]
node_cap = 80
columns = 10
edge_type = "straight"

[graph.colors]
".zig" = "#f7a41d"

[cache]
backend = "redis"
ttl = "24h"

[cache.redis]
addr = "cache:6379"
db = 2
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Path, path)
	}
	if cfg.Graph.NodeCap != 80 || cfg.Graph.Columns != 10 || cfg.Graph.EdgeType != "straight" {
		t.Errorf("Graph = %+v", cfg.Graph)
	}
	if cfg.Graph.Colors[".zig"] != "#f7a41d" {
		t.Errorf("Colors = %v", cfg.Graph.Colors)
	}
	if cfg.Cache.Backend != BackendRedis {
		t.Errorf("Backend = %q", cfg.Cache.Backend)
	}
	if ttl, _ := cfg.CacheTTL(); ttl != 24*time.Hour {
		t.Errorf("CacheTTL() = %v, want 24h", ttl)
	}

	r := cfg.RedisOptions()
	if r.Addr != "cache:6379" || r.DB != 2 {
		t.Errorf("RedisOptions() = %+v", r)
	}
	if r.Prefix != "repomap:" {
		t.Errorf("unset prefix should keep its default, got %q", r.Prefix)
	}

	opts := cfg.PipelineOptions()
	opts.SetGraphDefaults()
	g := opts.GraphOptions()
	if g.NodeCap != 80 || g.CellWidth != graph.DefaultCellWidth {
		t.Errorf("GraphOptions() = %+v", g)
	}
	if g.Palette.Color(".zig") != "#f7a41d" {
		t.Errorf("palette .zig = %q", g.Palette.Color(".zig"))
	}
}

func TestLoadUnknownKeys(t *testing.T) {
	path := writeConfig(t, `
[graph]
node_cap = 10
nodecap = 20

[render]
style = "fancy"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	for _, want := range []string{"graph.nodecap", "render.style"} {
		if !slices.Contains(cfg.Warnings, want) {
			t.Errorf("Warnings = %v, missing %q", cfg.Warnings, want)
		}
	}
	if slices.Contains(cfg.Warnings, "graph.node_cap") {
		t.Errorf("known key reported as unknown: %v", cfg.Warnings)
	}
}

func TestLoadMissing(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") without default file error = %v", err)
	}
	if cfg.Cache.Backend != BackendFile || cfg.Path != "" {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}

	_, err = Load(filepath.Join(dir, "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "repomap"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "repomap", "config.toml"), []byte("[cache]\nbackend = \"none\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cache.Backend != BackendNone {
		t.Errorf("Backend = %q, want none", cfg.Cache.Backend)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "[graph\nnode_cap = 1"},
		{"type mismatch", "[graph]\nnode_cap = \"many\""},
		{"backend", "[cache]\nbackend = \"s3\""},
		{"ttl", "[cache]\nttl = \"soon\""},
		{"negative ttl", "[cache]\nttl = \"-1h\""},
		{"negative cap", "[graph]\nnode_cap = -5"},
		{"edge type", "[graph]\nedge_type = \"curvy\""},
		{"memory size", "[cache]\nmemory_size = -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	p, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if p != filepath.Join("/tmp/xdg", "repomap", "config.toml") {
		t.Errorf("DefaultPath() = %q", p)
	}
}

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}
