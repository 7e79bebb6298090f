package analyze

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/matzehuels/repomap/pkg/errors"
)

// writeTree creates files under dir. Keys are slash-separated paths.
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestAnalyze(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"app.py":                 "import os\nfrom .models import User\n",
		"models.py":              "class User:\n    pass\n",
		"README.md":              "# demo\n",
		"requirements.txt":       "flask==2.0\n",
		"src/index.js":           "import React from 'react';\nconst util = require('./util');\n",
		"src/util.js":            "module.exports = {};\n",
		"node_modules/lib/a.js":  "require('x');\n",
		"build/out.js":           "",
		".git/config":            "",
		"pkg/__pycache__/m.pyc":  "",
		"pkg/.hidden/secret.py":  "import secret\n",
		"pkg/handlers/routes.py": "import flask\n",
	})

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	var calls, lastDone int
	p, err := Analyze(context.Background(), dir, Options{
		RepoName:  "demo",
		GitHubURL: "https://github.com/acme/demo",
		Workers:   2,
		Now:       func() time.Time { return now },
		Progress: func(done, total int) {
			calls++
			lastDone = done
			if total != 7 {
				t.Errorf("total = %d, want 7", total)
			}
		},
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	var paths []string
	for _, f := range p.Files {
		paths = append(paths, f.Path)
	}
	wantPaths := []string{
		"README.md", "app.py", "models.py", "pkg/handlers/routes.py",
		"requirements.txt", "src/index.js", "src/util.js",
	}
	if !reflect.DeepEqual(paths, wantPaths) {
		t.Errorf("paths = %q, want %q", paths, wantPaths)
	}
	if calls != 7 || lastDone != 7 {
		t.Errorf("progress calls = %d, last done = %d, want 7 and 7", calls, lastDone)
	}

	wantDeps := map[string][]string{
		"app.py":                 {"os", "models"},
		"pkg/handlers/routes.py": {"flask"},
		"src/index.js":           {"react", "./util"},
	}
	if len(p.Dependencies) != len(wantDeps) {
		t.Errorf("dependencies = %v, want %v", p.Dependencies, wantDeps)
	}
	for path, want := range wantDeps {
		if got := p.Dependencies[path]; !reflect.DeepEqual(got, want) {
			t.Errorf("dependencies[%s] = %q, want %q", path, got, want)
		}
	}

	byPath := make(map[string]int)
	for i, f := range p.Files {
		byPath[f.Path] = i
	}
	readme := p.Files[byPath["README.md"]]
	if readme.Type != ".md" || readme.Name != "README.md" || readme.Size != 7 {
		t.Errorf("README entry = %+v", readme)
	}
	if imports := p.Files[byPath["app.py"]].Imports; !reflect.DeepEqual(imports, []string{"os", "models"}) {
		t.Errorf("app.py imports = %q", imports)
	}

	if p.RepoName != "demo" || p.GitHubURL != "https://github.com/acme/demo" {
		t.Errorf("repo = %q %q", p.RepoName, p.GitHubURL)
	}
	if p.Framework != "React, Flask" {
		t.Errorf("Framework = %q, want %q", p.Framework, "React, Flask")
	}
	if want := []string{"app.py", "src/index.js"}; !reflect.DeepEqual(p.EntryPoints, want) {
		t.Errorf("EntryPoints = %q, want %q", p.EntryPoints, want)
	}
	if p.Timestamp == nil || !p.Timestamp.Equal(now) || p.Timestamp.Location() != time.UTC {
		t.Errorf("Timestamp = %v, want %v in UTC", p.Timestamp, now)
	}
	if p.ID == "" {
		t.Error("payload ID not set")
	}
	seen := make(map[string]bool)
	for _, f := range p.Files {
		if seen[f.ID] {
			t.Errorf("duplicate file id %s", f.ID)
		}
		seen[f.ID] = true
	}
}

func TestAnalyzeDefaultRepoName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "widgets")
	writeTree(t, dir, map[string]string{"main.go": "package main\n"})

	p, err := Analyze(context.Background(), dir, Options{})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if p.RepoName != "widgets" {
		t.Errorf("RepoName = %q, want widgets", p.RepoName)
	}
	if len(p.Files) != 1 || p.Files[0].Type != ".go" {
		t.Errorf("Files = %+v", p.Files)
	}
	if len(p.Dependencies) != 0 {
		t.Errorf("go files should have no parsed imports, got %v", p.Dependencies)
	}
}

func TestAnalyzeSkipsInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"bin.py": "import os\n\xff\xfe\n"})

	p, err := Analyze(context.Background(), dir, Options{})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(p.Files) != 1 {
		t.Fatalf("Files = %+v", p.Files)
	}
	if p.Files[0].Imports != nil {
		t.Errorf("Imports = %q, want none", p.Files[0].Imports)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	writeTree(t, dir, map[string]string{"file.txt": "x"})

	tests := []struct {
		name string
		root string
		code errors.Code
	}{
		{"missing", filepath.Join(dir, "nope"), errors.ErrCodeFileNotFound},
		{"not a directory", file, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Analyze(context.Background(), tt.root, Options{})
			if !errors.Is(err, tt.code) {
				t.Errorf("Analyze() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestAnalyzeCanceled(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.py": "import os\n", "b.py": "import sys\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Analyze(ctx, dir, Options{}); err != context.Canceled {
		t.Errorf("Analyze() error = %v, want context.Canceled", err)
	}
}
