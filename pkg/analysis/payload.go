package analysis

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/repomap/pkg/errors"
)

// FileEntry is one file discovered in the analyzed repository.
type FileEntry struct {
	ID   string `json:"id" validate:"required,fileid"`
	Path string `json:"path" validate:"required,relpath"`
	Name string `json:"name"`
	Type string `json:"type"` // extension including the leading dot, or ""
	Size int64  `json:"size" validate:"gte=0"`

	// Imports are the import strings the analyzer found in this file. They
	// duplicate the file's dependency entry and fill it in when it is missing.
	Imports []string `json:"imports,omitempty"`
}

// DependencyMap maps a file path to the import strings written in that file.
// The order of each import list determines edge ids.
type DependencyMap map[string][]string

// Payload is the analysis result consumed by the tree and graph builders.
type Payload struct {
	ID           string        `json:"id,omitempty"`
	RepoName     string        `json:"repo_name,omitempty"`
	GitHubURL    string        `json:"github_url,omitempty" validate:"omitempty,httpurl"`
	Framework    string        `json:"framework,omitempty"`
	EntryPoints  []string      `json:"entry_points,omitempty"`
	Files        []FileEntry   `json:"file_structure" validate:"dive"`
	Dependencies DependencyMap `json:"dependencies"`
	Insights     string        `json:"ai_insights,omitempty"`
	Timestamp    *Timestamp    `json:"timestamp,omitempty"`
}

// Timestamp is the time an analysis was produced. It decodes RFC 3339 values
// and ISO 8601 values without a zone, which are read as UTC.
type Timestamp struct {
	time.Time
}

// isoLocal is ISO 8601 without a zone offset.
const isoLocal = "2006-01-02T15:04:05.999999999"

// NewTimestamp returns t as a UTC Timestamp.
func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Time: t.UTC()}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	for _, layout := range []string{time.RFC3339Nano, isoLocal} {
		if v, err := time.Parse(layout, s); err == nil {
			t.Time = v.UTC()
			return nil
		}
	}
	return fmt.Errorf("timestamp %q is not an ISO 8601 time", s)
}

// Decode reads a JSON payload from r, normalizes it and validates it.
func Decode(r io.Reader) (*Payload, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPayload, err, "decode payload")
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// ReadFile decodes the payload stored at path.
func ReadFile(path string) (*Payload, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "payload %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return Decode(f)
}

// WritePayload writes p as indented JSON.
func WritePayload(p *Payload, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	return nil
}

// WritePayloadFile writes p as JSON to path, replacing any existing file.
func WritePayloadFile(p *Payload, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WritePayload(p, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Normalize fills in derivable fields. It is idempotent.
//
//   - an empty payload ID gets a random UUID
//   - an empty FileEntry.Name becomes the final path segment
//   - a nil dependency map becomes an empty map
//   - a file's Imports fill in its dependency entry when the map has none;
//     among files sharing a path the last one wins
func (p *Payload) Normalize() {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	for i := range p.Files {
		if p.Files[i].Name == "" {
			p.Files[i].Name = baseName(p.Files[i].Path)
		}
	}
	if p.Dependencies == nil {
		p.Dependencies = DependencyMap{}
	}

	derived := make(DependencyMap)
	for _, f := range p.Files {
		if _, ok := p.Dependencies[f.Path]; !ok && len(f.Imports) > 0 {
			derived[f.Path] = f.Imports
		}
	}
	maps.Copy(p.Dependencies, derived)
}

// Stats summarizes a payload.
type Stats struct {
	Files        int
	TotalBytes   int64
	DepEntries   int
	Imports      int
	ByExtension  map[string]int
	OrphanedDeps int // dependency keys that match no file path
}

// Stats computes summary statistics over the payload.
func (p *Payload) Stats() Stats {
	s := Stats{
		Files:       len(p.Files),
		DepEntries:  len(p.Dependencies),
		ByExtension: make(map[string]int),
	}
	paths := make(map[string]bool, len(p.Files))
	for _, f := range p.Files {
		s.TotalBytes += f.Size
		s.ByExtension[f.Type]++
		paths[f.Path] = true
	}
	for path, imports := range p.Dependencies {
		s.Imports += len(imports)
		if !paths[path] {
			s.OrphanedDeps++
		}
	}
	return s
}

// Extensions returns the distinct file types in descending frequency order.
// Ties are broken alphabetically.
func (s Stats) Extensions() []string {
	exts := make([]string, 0, len(s.ByExtension))
	for ext := range s.ByExtension {
		exts = append(exts, ext)
	}
	slices.SortFunc(exts, func(a, b string) int {
		if d := s.ByExtension[b] - s.ByExtension[a]; d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})
	return exts
}

func baseName(path string) string {
	path = strings.TrimRight(path, "/")
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
