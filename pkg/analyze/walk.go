package analyze

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/repomap/pkg/errors"
)

// skipDirs are directory names never descended into.
var skipDirs = map[string]bool{
	"node_modules": true,
	"venv":         true,
	"__pycache__":  true,
	"dist":         true,
	"build":        true,
}

type walkedFile struct {
	abs  string
	rel  string // slash-separated, relative to the root
	size int64
}

func skipName(name string) bool {
	return strings.HasPrefix(name, ".") || skipDirs[name]
}

// walkFiles lists the regular files under root in lexical order. Symlinked
// files are followed; symlinked directories are not.
func walkFiles(root string, logger *log.Logger) ([]walkedFile, error) {
	var files []walkedFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logger.Warn("skipping unreadable path", "path", path, "err", err)
			return nil
		}
		if path == root {
			return nil
		}
		if skipName(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		info, err := os.Stat(path)
		if err != nil {
			logger.Warn("skipping unreadable file", "path", path, "err", err)
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if err := errors.ValidatePath(rel); err != nil {
			logger.Warn("skipping file", "path", rel, "reason", errors.UserMessage(err))
			return nil
		}
		files = append(files, walkedFile{abs: path, rel: rel, size: info.Size()})
		return nil
	})
	return files, err
}
