package analyze

import (
	"bufio"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// Unknown is reported when no framework is recognized.
const Unknown = "Unknown"

// DetectFramework names the frameworks and build systems used by the
// repository at root, joined with ", ", or [Unknown].
func DetectFramework(root string) string {
	var found []string

	if pkg, ok := readPackageJSON(root); ok {
		deps := pkg.allDeps()
		switch {
		case deps["next"]:
			found = append(found, "Next.js")
		case deps["react"] || deps["react-dom"]:
			found = append(found, "React")
		}
		if deps["vue"] {
			found = append(found, "Vue")
		}
		if deps["angular"] || deps["@angular/core"] {
			found = append(found, "Angular")
		}
		if deps["svelte"] {
			found = append(found, "Svelte")
		}
	}

	if len(found) == 0 && mentionsReact(filepath.Join(root, "src")) {
		found = append(found, "React")
	}

	pyDeps := pythonDeps(root)
	for _, fw := range []struct{ dep, name string }{
		{"django", "Django"},
		{"flask", "Flask"},
		{"fastapi", "FastAPI"},
	} {
		if pyDeps[fw.dep] {
			found = append(found, fw.name)
		}
	}

	for _, m := range []struct{ file, name string }{
		{"go.mod", "Go"},
		{"pom.xml", "Java/Maven"},
		{"build.gradle", "Java/Gradle"},
	} {
		if exists(filepath.Join(root, m.file)) {
			found = append(found, m.name)
		}
	}

	if len(found) == 0 {
		return Unknown
	}
	return strings.Join(found, ", ")
}

type packageFile struct {
	Scripts         map[string]string          `json:"scripts"`
	Dependencies    map[string]json.RawMessage `json:"dependencies"`
	DevDependencies map[string]json.RawMessage `json:"devDependencies"`
}

func (p packageFile) allDeps() map[string]bool {
	deps := make(map[string]bool, len(p.Dependencies)+len(p.DevDependencies))
	for name := range p.Dependencies {
		deps[name] = true
	}
	for name := range p.DevDependencies {
		deps[name] = true
	}
	return deps
}

func readPackageJSON(root string) (packageFile, bool) {
	var pkg packageFile
	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return pkg, false
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		// Scripts may hold non-string values in hand-edited files; retry
		// without them so the dependencies are still read.
		var deps struct {
			Dependencies    map[string]json.RawMessage `json:"dependencies"`
			DevDependencies map[string]json.RawMessage `json:"devDependencies"`
		}
		if json.Unmarshal(data, &deps) != nil {
			return packageFile{}, false
		}
		pkg = packageFile{Dependencies: deps.Dependencies, DevDependencies: deps.DevDependencies}
	}
	return pkg, true
}

// mentionsReact reports whether any .js* file under dir mentions react in
// its first 100 bytes.
func mentionsReact(dir string) bool {
	found := false
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || found {
			return filepath.SkipAll
		}
		if d.IsDir() || !strings.HasPrefix(filepath.Ext(path), ".js") {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return nil
		}
		head := make([]byte, 100)
		n, _ := io.ReadFull(f, head)
		f.Close()
		if strings.Contains(strings.ToLower(string(head[:n])), "react") {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	return found
}

var depNameRE = regexp.MustCompile(`^([a-zA-Z0-9][-a-zA-Z0-9._]*)`)

// pythonDeps collects the distribution names declared in requirements.txt
// and pyproject.toml, lower-cased. A name counts when it equals a framework
// or extends it ("flask-cors", "django_filters").
func pythonDeps(root string) map[string]bool {
	names := make(map[string]bool)
	add := func(spec string) {
		m := depNameRE.FindStringSubmatch(strings.TrimSpace(spec))
		if len(m) < 2 {
			return
		}
		name := strings.ToLower(m[1])
		names[name] = true
		if i := strings.IndexAny(name, "-_."); i > 0 {
			names[name[:i]] = true
		}
	}

	if f, err := os.Open(filepath.Join(root, "requirements.txt")); err == nil {
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || line[0] == '#' || line[0] == '-' {
				continue
			}
			add(line)
		}
		f.Close()
	}

	var pyproject struct {
		Project struct {
			Dependencies []string `toml:"dependencies"`
		} `toml:"project"`
		Tool struct {
			Poetry struct {
				Dependencies map[string]any `toml:"dependencies"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
	if _, err := toml.DecodeFile(filepath.Join(root, "pyproject.toml"), &pyproject); err == nil {
		for _, spec := range pyproject.Project.Dependencies {
			add(spec)
		}
		for name := range pyproject.Tool.Poetry.Dependencies {
			add(name)
		}
	}
	return names
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
