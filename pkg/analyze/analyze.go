package analyze

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/repomap/pkg/analysis"
	"github.com/matzehuels/repomap/pkg/errors"
)

// Options configures [Analyze].
type Options struct {
	// RepoName defaults to the base name of the analyzed directory.
	RepoName string

	// GitHubURL is copied to the payload as is.
	GitHubURL string

	// Workers bounds how many files are parsed at once. Zero means
	// GOMAXPROCS.
	Workers int

	Logger *log.Logger

	// Progress, when set, is called after each file is read with the number
	// of files done and the total. Calls are serialized.
	Progress func(done, total int)

	// Now defaults to time.Now.
	Now func() time.Time
}

func (o *Options) setDefaults(root string) {
	if o.RepoName == "" {
		o.RepoName = path.Base(filepath.ToSlash(root))
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Analyze walks the repository at root and returns its payload. The payload
// is normalized and validated before it is returned.
func Analyze(ctx context.Context, root string, opts Options) (*analysis.Payload, error) {
	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "repository %s", root)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "stat %s", root)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s is not a directory", root)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "resolve %s", root)
	}
	opts.setDefaults(abs)

	walked, err := walkFiles(abs, opts.Logger)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "walk %s", root)
	}
	opts.Logger.Debug("walked repository", "root", abs, "files", len(walked))

	files, err := readFiles(ctx, walked, opts)
	if err != nil {
		return nil, err
	}

	p := &analysis.Payload{
		ID:           uuid.NewString(),
		RepoName:     opts.RepoName,
		GitHubURL:    opts.GitHubURL,
		Framework:    DetectFramework(abs),
		EntryPoints:  FindEntryPoints(abs),
		Files:        files,
		Dependencies: analysis.DependencyMap{},
		Timestamp:    analysis.NewTimestamp(opts.Now()),
	}
	for _, f := range files {
		if len(f.Imports) > 0 {
			p.Dependencies[f.Path] = f.Imports
		}
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// readFiles builds a file entry for each walked file, parsing imports with
// up to opts.Workers goroutines. Entries keep the walk order.
func readFiles(ctx context.Context, walked []walkedFile, opts Options) ([]analysis.FileEntry, error) {
	files := make([]analysis.FileEntry, len(walked))

	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, w := range walked {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entry := analysis.FileEntry{
				ID:   uuid.NewString(),
				Path: w.rel,
				Name: path.Base(w.rel),
				Type: path.Ext(w.rel),
				Size: w.size,
			}
			if lang := LanguageOf(entry.Type); lang != "" {
				imports, err := fileImports(gctx, lang, w.abs)
				if err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					opts.Logger.Warn("imports not read", "path", w.rel, "err", err)
				}
				entry.Imports = imports
			}
			files[i] = entry

			if opts.Progress != nil {
				mu.Lock()
				done++
				opts.Progress(done, len(walked))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// fileImports parses the imports of the file at abs. Files that are not
// valid UTF-8 have none.
func fileImports(ctx context.Context, lang Language, abs string) ([]string, error) {
	src, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(src) {
		return nil, nil
	}
	return ParseImports(ctx, lang, src)
}
