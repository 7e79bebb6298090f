package graph

import "maps"

// DefaultColor is the fallback for file types missing from a palette.
const DefaultColor = "#6b7280"

// defaultColors maps common source extensions to display colors.
var defaultColors = map[string]string{
	".js":   "#f7df1e",
	".jsx":  "#61dafb",
	".ts":   "#3178c6",
	".tsx":  "#61dafb",
	".py":   "#3776ab",
	".go":   "#00add8",
	".java": "#b07219",
	".rb":   "#cc342d",
	".rs":   "#dea584",
	".php":  "#777bb4",
	".cs":   "#178600",
	".cpp":  "#f34b7d",
	".c":    "#555555",
	".h":    "#555555",
	".vue":  "#41b883",
	".css":  "#563d7c",
	".scss": "#c6538c",
	".html": "#e34c26",
	".json": "#292929",
	".md":   "#083fa1",
	".yml":  "#cb171e",
	".yaml": "#cb171e",
}

// Palette is an immutable mapping from file type to display color.
type Palette struct {
	colors   map[string]string
	fallback string
}

// NewPalette returns a palette over a copy of colors. An empty fallback
// becomes [DefaultColor].
func NewPalette(colors map[string]string, fallback string) Palette {
	if fallback == "" {
		fallback = DefaultColor
	}
	return Palette{colors: maps.Clone(colors), fallback: fallback}
}

// DefaultPalette returns the built-in extension palette.
func DefaultPalette() Palette {
	return NewPalette(defaultColors, DefaultColor)
}

// Color returns the color for a file type, or the fallback.
func (p Palette) Color(fileType string) string {
	if c, ok := p.colors[fileType]; ok {
		return c
	}
	if p.fallback == "" {
		return DefaultColor
	}
	return p.fallback
}

// Fallback returns the color used for unmapped types.
func (p Palette) Fallback() string {
	if p.fallback == "" {
		return DefaultColor
	}
	return p.fallback
}

// With returns a new palette with the given colors added or replaced.
func (p Palette) With(colors map[string]string) Palette {
	merged := maps.Clone(p.colors)
	if merged == nil {
		merged = make(map[string]string, len(colors))
	}
	maps.Copy(merged, colors)
	return Palette{colors: merged, fallback: p.Fallback()}
}

// Colors returns a copy of the mapping.
func (p Palette) Colors() map[string]string {
	return maps.Clone(p.colors)
}
