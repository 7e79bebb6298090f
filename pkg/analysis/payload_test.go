package analysis

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/repomap/pkg/errors"
)

const samplePayload = `{
  "id": "a1",
  "github_url": "https://github.com/octocat/Hello-World",
  "repo_name": "Hello-World",
  "framework": "React",
  "entry_points": ["src/index.js"],
  "file_structure": [
    {"id": "1", "path": "src/a.js", "name": "a.js", "type": ".js", "size": 100},
    {"id": "2", "path": "src/b.js", "name": "b.js", "type": ".js", "size": 200}
  ],
  "dependencies": {"src/a.js": ["./b"]},
  "ai_insights": "A tiny repository."
}`

func TestDecode(t *testing.T) {
	p, err := Decode(strings.NewReader(samplePayload))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if p.ID != "a1" {
		t.Errorf("ID = %q, want a1", p.ID)
	}
	if p.RepoName != "Hello-World" || p.Framework != "React" {
		t.Errorf("descriptive fields not passed through: %+v", p)
	}
	if len(p.Files) != 2 {
		t.Fatalf("len(Files) = %d, want 2", len(p.Files))
	}
	if got := p.Dependencies["src/a.js"]; len(got) != 1 || got[0] != "./b" {
		t.Errorf("Dependencies[src/a.js] = %v, want [./b]", got)
	}
	if p.Insights != "A tiny repository." {
		t.Errorf("Insights = %q", p.Insights)
	}
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"file_structure": [`))
	if !errors.Is(err, errors.ErrCodeInvalidPayload) {
		t.Errorf("Decode(malformed) error = %v, want INVALID_PAYLOAD", err)
	}
}

func TestDecodeTimestamp(t *testing.T) {
	want := time.Date(2025, 3, 4, 10, 30, 0, 500000000, time.UTC)

	tests := []struct {
		name  string
		value string
	}{
		{"rfc3339", "2025-03-04T10:30:00.5Z"},
		{"offset", "2025-03-04T11:30:00.5+01:00"},
		{"no zone", "2025-03-04T10:30:00.500000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `{"timestamp": "` + tt.value + `", "file_structure": []}`
			p, err := Decode(strings.NewReader(doc))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if p.Timestamp == nil || !p.Timestamp.Equal(want) {
				t.Errorf("Timestamp = %v, want %v", p.Timestamp, want)
			}
		})
	}

	_, err := Decode(strings.NewReader(`{"timestamp": "yesterday", "file_structure": []}`))
	if !errors.Is(err, errors.ErrCodeInvalidPayload) {
		t.Errorf("bad timestamp: error = %v, want INVALID_PAYLOAD", err)
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	in := Payload{Timestamp: NewTimestamp(time.Date(2025, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600)))}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"timestamp":"2025-01-02T02:04:05Z"`) {
		t.Errorf("encoded = %s", data)
	}

	var out Payload
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if !out.Timestamp.Equal(in.Timestamp.Time) {
		t.Errorf("round trip: %v, want %v", out.Timestamp, in.Timestamp)
	}
}

func TestNormalizeFileImports(t *testing.T) {
	p := Payload{
		Files: []FileEntry{
			{ID: "1", Path: "app.py", Imports: []string{"utils", "os"}},
			{ID: "2", Path: "web.js", Imports: []string{"./api"}},
			{ID: "3", Path: "api.js"},
		},
		Dependencies: DependencyMap{"web.js": {"./client"}},
	}
	p.Normalize()

	want := DependencyMap{
		"app.py": {"utils", "os"},
		"web.js": {"./client"},
	}
	if !reflect.DeepEqual(p.Dependencies, want) {
		t.Errorf("Dependencies = %v, want %v", p.Dependencies, want)
	}

	p.Normalize()
	if !reflect.DeepEqual(p.Dependencies, want) {
		t.Errorf("second Normalize changed Dependencies: %v", p.Dependencies)
	}
}

func TestNormalize(t *testing.T) {
	p := Payload{
		Files: []FileEntry{
			{ID: "1", Path: "lib/x.py"},
			{ID: "2", Path: "README", Name: "Readme"},
		},
	}
	p.Normalize()

	if p.ID == "" {
		t.Error("Normalize should assign a payload id")
	}
	if p.Files[0].Name != "x.py" {
		t.Errorf("Files[0].Name = %q, want x.py", p.Files[0].Name)
	}
	if p.Files[1].Name != "Readme" {
		t.Errorf("Normalize overwrote an explicit name: %q", p.Files[1].Name)
	}
	if p.Dependencies == nil {
		t.Error("Normalize should create an empty dependency map")
	}

	id := p.ID
	p.Normalize()
	if p.ID != id {
		t.Error("Normalize should be idempotent")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		payload  Payload
		wantCode errors.Code
	}{
		{
			name:    "empty payload",
			payload: Payload{},
		},
		{
			name: "valid",
			payload: Payload{
				GitHubURL: "https://github.com/a/b",
				Files:     []FileEntry{{ID: "1", Path: "a/b/c.ts", Name: "c.ts", Type: ".ts"}},
			},
		},
		{
			name:     "missing id",
			payload:  Payload{Files: []FileEntry{{Path: "a.js"}}},
			wantCode: errors.ErrCodeInvalidPayload,
		},
		{
			name:     "missing path",
			payload:  Payload{Files: []FileEntry{{ID: "1"}}},
			wantCode: errors.ErrCodeInvalidPayload,
		},
		{
			name:     "absolute path",
			payload:  Payload{Files: []FileEntry{{ID: "1", Path: "/etc/passwd"}}},
			wantCode: errors.ErrCodeInvalidPath,
		},
		{
			name:     "parent segment",
			payload:  Payload{Files: []FileEntry{{ID: "1", Path: "src/../a.js"}}},
			wantCode: errors.ErrCodeInvalidPath,
		},
		{
			name:     "negative size",
			payload:  Payload{Files: []FileEntry{{ID: "1", Path: "a.js", Size: -1}}},
			wantCode: errors.ErrCodeInvalidPayload,
		},
		{
			name: "duplicate id",
			payload: Payload{Files: []FileEntry{
				{ID: "1", Path: "a.js"},
				{ID: "1", Path: "b.js"},
			}},
			wantCode: errors.ErrCodeDuplicateID,
		},
		{
			name: "duplicate path is allowed",
			payload: Payload{Files: []FileEntry{
				{ID: "1", Path: "a.js"},
				{ID: "2", Path: "a.js"},
			}},
		},
		{
			name:     "bad url",
			payload:  Payload{GitHubURL: "invalid-url"},
			wantCode: errors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("Validate() error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestValidateEntry(t *testing.T) {
	if err := ValidateEntry(FileEntry{ID: "1", Path: "src/a.js"}); err != nil {
		t.Errorf("ValidateEntry(valid) = %v", err)
	}
	if err := ValidateEntry(FileEntry{ID: "1", Path: "a\\b.js"}); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("ValidateEntry(backslash) = %v, want INVALID_PATH", err)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "analysis.json")
	if err := os.WriteFile(path, []byte(samplePayload), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(p.Files) != 2 {
		t.Errorf("len(Files) = %d, want 2", len(p.Files))
	}

	_, err = ReadFile(filepath.Join(dir, "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadFile(missing) = %v, want FILE_NOT_FOUND", err)
	}
}

func TestStats(t *testing.T) {
	p := Payload{
		Files: []FileEntry{
			{ID: "1", Path: "src/a.js", Type: ".js", Size: 100},
			{ID: "2", Path: "src/b.js", Type: ".js", Size: 200},
			{ID: "3", Path: "main.py", Type: ".py", Size: 50},
			{ID: "4", Path: "Makefile", Type: "", Size: 10},
		},
		Dependencies: DependencyMap{
			"src/a.js":  {"./b", "react"},
			"gone/x.js": {"./y"},
			"src/b.js":  nil,
		},
	}

	s := p.Stats()
	if s.Files != 4 {
		t.Errorf("Files = %d, want 4", s.Files)
	}
	if s.TotalBytes != 360 {
		t.Errorf("TotalBytes = %d, want 360", s.TotalBytes)
	}
	if s.Imports != 3 {
		t.Errorf("Imports = %d, want 3", s.Imports)
	}
	if s.OrphanedDeps != 1 {
		t.Errorf("OrphanedDeps = %d, want 1", s.OrphanedDeps)
	}

	exts := s.Extensions()
	want := []string{".js", "", ".py"}
	if strings.Join(exts, ",") != strings.Join(want, ",") {
		t.Errorf("Extensions() = %q, want %q", exts, want)
	}
}
