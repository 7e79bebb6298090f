package analyze

import (
	"reflect"
	"testing"
)

func TestDetectFramework(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{"empty", nil, Unknown},
		{
			name:  "next wins over react",
			files: map[string]string{"package.json": `{"dependencies": {"next": "14", "react": "18"}}`},
			want:  "Next.js",
		},
		{
			name:  "react dev dependency",
			files: map[string]string{"package.json": `{"devDependencies": {"react-dom": "18"}}`},
			want:  "React",
		},
		{
			name: "several",
			files: map[string]string{
				"package.json": `{"dependencies": {"vue": "3", "svelte": "4", "@angular/core": "17"}}`,
				"go.mod":       "module x\n",
			},
			want: "Vue, Angular, Svelte, Go",
		},
		{
			name: "react found in sources",
			files: map[string]string{
				"package.json":   `{"dependencies": {"lodash": "4"}}`,
				"src/app/App.js": "import React from 'react';\n",
			},
			want: "React",
		},
		{
			name:  "malformed scripts still read",
			files: map[string]string{"package.json": `{"scripts": {"start": 1}, "dependencies": {"react": "18"}}`},
			want:  "React",
		},
		{
			name:  "requirements",
			files: map[string]string{"requirements.txt": "# web\nDjango>=4.2\nflask-cors\n-r base.txt\n"},
			want:  "Django, Flask",
		},
		{
			name:  "requirement names match whole words",
			files: map[string]string{"requirements.txt": "flasky==1.0\n"},
			want:  Unknown,
		},
		{
			name: "pyproject",
			files: map[string]string{"pyproject.toml": `
[project]
dependencies = ["fastapi[all]>=0.100"]

[tool.poetry.dependencies]
python = "^3.11"
Django = "^5.0"
`},
			want: "Django, FastAPI",
		},
		{
			name: "java",
			files: map[string]string{
				"pom.xml":      "<project/>",
				"build.gradle": "",
			},
			want: "Java/Maven, Java/Gradle",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeTree(t, dir, tt.files)
			if got := DetectFramework(dir); got != tt.want {
				t.Errorf("DetectFramework() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFindEntryPoints(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  []string
	}{
		{"none", map[string]string{"lib.py": ""}, nil},
		{
			name: "ordered by common name",
			files: map[string]string{
				"server.py": "",
				"index.ts":  "",
				"main.go":   "",
			},
			want: []string{"index.ts", "server.py", "main.go"},
		},
		{
			name: "npm scripts",
			files: map[string]string{
				"package.json": `{"scripts": {"dev": "vite", "start": "node server.js"}}`,
			},
			want: []string{"npm start: node server.js", "npm run dev: vite"},
		},
		{
			name: "src entries",
			files: map[string]string{
				"index.js":     "",
				"src/index.js": "",
				"src/App.tsx":  "",
			},
			want: []string{"index.js", "src/App.tsx"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeTree(t, dir, tt.files)
			if got := FindEntryPoints(dir); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindEntryPoints() = %q, want %q", got, tt.want)
			}
		})
	}
}
