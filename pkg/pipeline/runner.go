package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/repomap/pkg/analysis"
	"github.com/matzehuels/repomap/pkg/cache"
	"github.com/matzehuels/repomap/pkg/graph"
	"github.com/matzehuels/repomap/pkg/observability"
	"github.com/matzehuels/repomap/pkg/tree"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → tree → graph pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	p, err := r.Load(ctx, opts.Path)
	if err != nil {
		return nil, err
	}
	result.Payload = p
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Files = len(p.Files)

	hash, err := PayloadHash(p)
	if err != nil {
		return nil, err
	}
	result.PayloadHash = hash

	r.Logger.Info("loaded payload",
		"repo", p.RepoName,
		"files", len(p.Files),
		"duration", result.Stats.LoadTime)

	// Stage 2: Tree
	if !opts.SkipTree {
		treeStart := time.Now()
		root, hit, err := r.treeWithHash(ctx, p, hash, opts.Refresh)
		if err != nil {
			return nil, fmt.Errorf("tree: %w", err)
		}
		result.Tree = root
		result.Stats.TreeTime = time.Since(treeStart)
		result.Stats.Folders = root.FolderCount()
		result.CacheInfo.TreeHit = hit

		r.Logger.Info("built tree",
			"folders", result.Stats.Folders,
			"cached", hit,
			"duration", result.Stats.TreeTime)
	}

	// Stage 3: Graph
	if !opts.SkipGraph {
		graphStart := time.Now()
		g, hit, err := r.graphWithHash(ctx, p, hash, opts)
		if err != nil {
			return nil, fmt.Errorf("graph: %w", err)
		}
		result.Graph = g
		result.Stats.GraphTime = time.Since(graphStart)
		result.Stats.Nodes = len(g.Nodes)
		result.Stats.Edges = len(g.Edges)
		result.CacheInfo.GraphHit = hit

		r.Logger.Info("built graph",
			"nodes", len(g.Nodes),
			"edges", len(g.Edges),
			"cached", hit,
			"duration", result.Stats.GraphTime)
		if g.Stats.Truncated > 0 {
			r.Logger.Warn("graph truncated",
				"cap", opts.NodeCap,
				"dropped_files", g.Stats.Truncated)
		}
	}

	return result, nil
}

// Load reads, normalizes and validates a payload file.
func (r *Runner) Load(ctx context.Context, path string) (*analysis.Payload, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, path)
	start := time.Now()

	p, err := analysis.ReadFile(path)
	files := 0
	if p != nil {
		files = len(p.Files)
	}
	hooks.OnLoadComplete(ctx, path, files, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// TreeWithCacheInfo builds the folder tree with caching and returns cache hit info.
func (r *Runner) TreeWithCacheInfo(ctx context.Context, p *analysis.Payload) (*tree.Node, bool, error) {
	hash, err := PayloadHash(p)
	if err != nil {
		return nil, false, err
	}
	return r.treeWithHash(ctx, p, hash, false)
}

// Tree is a convenience wrapper that calls TreeWithCacheInfo and discards the cache hit info.
func (r *Runner) Tree(ctx context.Context, p *analysis.Payload) (*tree.Node, error) {
	root, _, err := r.TreeWithCacheInfo(ctx, p)
	return root, err
}

func (r *Runner) treeWithHash(ctx context.Context, p *analysis.Payload, hash string, refresh bool) (*tree.Node, bool, error) {
	cacheKey := r.Keyer.TreeKey(hash)

	// Try cache first (unless refresh requested)
	if !refresh {
		if data, ok := r.cacheGet(ctx, observability.BuilderTree, cacheKey); ok {
			var root tree.Node
			if err := json.Unmarshal(data, &root); err == nil {
				return &root, true, nil // Cache hit
			}
			r.Logger.Debug("discarding unreadable cache entry", "key", cacheKey)
		}
	}

	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, observability.BuilderTree, len(p.Files))
	start := time.Now()
	root := tree.Build(p.Files)
	hooks.OnBuildComplete(ctx, observability.BuilderTree, root.FolderCount(), time.Since(start), nil)

	// Cache the result
	if data, err := json.Marshal(root); err == nil {
		r.cacheSet(ctx, observability.BuilderTree, cacheKey, data, cache.TTLTree)
	}

	return root, false, nil // Cache miss
}

// GraphWithCacheInfo builds the import graph with caching and returns cache hit info.
func (r *Runner) GraphWithCacheInfo(ctx context.Context, p *analysis.Payload, opts Options) (graph.Graph, bool, error) {
	if err := opts.ValidateForGraph(); err != nil {
		return graph.Graph{}, false, err
	}
	hash, err := PayloadHash(p)
	if err != nil {
		return graph.Graph{}, false, err
	}
	return r.graphWithHash(ctx, p, hash, opts)
}

// Graph is a convenience wrapper that calls GraphWithCacheInfo and discards the cache hit info.
func (r *Runner) Graph(ctx context.Context, p *analysis.Payload, opts Options) (graph.Graph, error) {
	g, _, err := r.GraphWithCacheInfo(ctx, p, opts)
	return g, err
}

func (r *Runner) graphWithHash(ctx context.Context, p *analysis.Payload, hash string, opts Options) (graph.Graph, bool, error) {
	cacheKey := r.Keyer.GraphKey(hash, opts.GraphKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, ok := r.cacheGet(ctx, observability.BuilderGraph, cacheKey); ok {
			g, err := graph.UnmarshalGraph(data)
			if err == nil {
				return g, true, nil // Cache hit
			}
			r.Logger.Debug("discarding unreadable cache entry", "key", cacheKey, "err", err)
		}
	}

	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, observability.BuilderGraph, len(p.Files))
	start := time.Now()
	g := graph.Build(p.Files, p.Dependencies, opts.GraphOptions())
	hooks.OnBuildComplete(ctx, observability.BuilderGraph, len(g.Nodes), time.Since(start), nil)

	r.Logger.Debug("resolved imports",
		"imports", g.Stats.Imports,
		"resolved", g.Stats.Resolved,
		"unresolved", g.Stats.Unresolved,
		"duplicate_edges", g.Stats.DuplicateEdges)

	// Cache the result
	if data, err := graph.MarshalGraph(g); err == nil {
		r.cacheSet(ctx, observability.BuilderGraph, cacheKey, data, cache.TTLGraph)
	}

	return g, false, nil // Cache miss
}

// cacheGet reads a cache entry. Backend errors count as misses.
func (r *Runner) cacheGet(ctx context.Context, keyType, key string) ([]byte, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		hooks.OnCacheError(ctx, keyType, err)
		r.Logger.Warn("cache read failed", "type", keyType, "err", err)
		return nil, false
	}
	if !hit {
		hooks.OnCacheMiss(ctx, keyType)
		return nil, false
	}
	hooks.OnCacheHit(ctx, keyType)
	return data, true
}

// cacheSet writes a cache entry. Backend errors are logged and ignored.
func (r *Runner) cacheSet(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	hooks := observability.Cache()
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		hooks.OnCacheError(ctx, keyType, err)
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	hooks.OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// PayloadHash returns the content hash of the parts of a payload the
// builders read: the file list and the dependency map.
func PayloadHash(p *analysis.Payload) (string, error) {
	return cache.HashJSON(struct {
		Files        []analysis.FileEntry   `json:"files"`
		Dependencies analysis.DependencyMap `json:"dependencies"`
	}{p.Files, p.Dependencies})
}
