package analyze

import (
	"path/filepath"
	"slices"
)

var commonEntries = []string{
	"index.js", "index.ts", "index.jsx", "index.tsx",
	"main.py", "app.py", "server.py", "manage.py",
	"main.go", "main.java", "Main.java",
	"index.html", "App.js", "App.tsx",
}

// FindEntryPoints lists the likely entry points of the repository at root:
// common entry files at the top level, then the npm start and dev scripts,
// then common entry files under src/. An entry under src/ is left out when
// a top-level file of the same name was already listed.
func FindEntryPoints(root string) []string {
	var entries []string
	for _, name := range commonEntries {
		if exists(filepath.Join(root, name)) {
			entries = append(entries, name)
		}
	}

	if pkg, ok := readPackageJSON(root); ok {
		if cmd, ok := pkg.Scripts["start"]; ok {
			entries = append(entries, "npm start: "+cmd)
		}
		if cmd, ok := pkg.Scripts["dev"]; ok {
			entries = append(entries, "npm run dev: "+cmd)
		}
	}

	for _, name := range commonEntries {
		if exists(filepath.Join(root, "src", name)) && !slices.Contains(entries, name) {
			entries = append(entries, "src/"+name)
		}
	}
	return entries
}
