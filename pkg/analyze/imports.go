package analyze

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Language names the grammar used to read imports from a file.
type Language string

const (
	LangPython     Language = "python"
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangTSX        Language = "tsx"
)

var extLanguages = map[string]Language{
	".py":  LangPython,
	".js":  LangJavaScript,
	".jsx": LangJavaScript,
	".ts":  LangTypeScript,
	".tsx": LangTSX,
}

// LanguageOf returns the language for a file extension such as ".py", or ""
// when imports are not read from such files.
func LanguageOf(ext string) Language {
	return extLanguages[ext]
}

func (l Language) grammar() *sitter.Language {
	switch l {
	case LangPython:
		return python.GetLanguage()
	case LangJavaScript:
		return javascript.GetLanguage()
	case LangTypeScript:
		return typescript.GetLanguage()
	case LangTSX:
		return tsx.GetLanguage()
	}
	return nil
}

// ParseImports returns the modules imported by src. Syntax errors do not fail
// the parse; imports in the well-formed parts are still returned.
func ParseImports(ctx context.Context, lang Language, src []byte) ([]string, error) {
	grammar := lang.grammar()
	if grammar == nil {
		return nil, fmt.Errorf("no grammar for language %q", lang)
	}

	// Parsers are not safe for concurrent use; each call gets its own.
	parser := sitter.NewParser()
	parser.SetLanguage(grammar)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", lang, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, nil
	}
	if lang == LangPython {
		return pythonImports(root, src), nil
	}
	return scriptImports(root, src), nil
}

// pythonImports visits the tree breadth first so module-level imports precede
// those inside functions and classes.
func pythonImports(root *sitter.Node, src []byte) []string {
	var imports []string
	queue := []*sitter.Node{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		switch n.Type() {
		case "import_statement":
			for i := 0; i < int(n.NamedChildCount()); i++ {
				c := n.NamedChild(i)
				switch c.Type() {
				case "dotted_name":
					imports = append(imports, c.Content(src))
				case "aliased_import":
					if name := c.ChildByFieldName("name"); name != nil {
						imports = append(imports, name.Content(src))
					}
				}
			}
			continue
		case "import_from_statement":
			if mod := fromModule(n.ChildByFieldName("module_name"), src); mod != "" {
				imports = append(imports, mod)
			}
			continue
		case "future_import_statement":
			imports = append(imports, "__future__")
			continue
		}

		for i := 0; i < int(n.NamedChildCount()); i++ {
			queue = append(queue, n.NamedChild(i))
		}
	}
	return imports
}

// fromModule returns the module of a from-import without its leading dots.
func fromModule(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	switch n.Type() {
	case "dotted_name":
		return n.Content(src)
	case "relative_import":
		if name := childOfType(n, "dotted_name"); name != nil {
			return name.Content(src)
		}
	}
	return ""
}

// scriptImports collects ES module imports and require calls separately,
// each in source order, and returns the imports first.
func scriptImports(root *sitter.Node, src []byte) []string {
	var imports, requires []string
	walk(root, func(n *sitter.Node) {
		switch n.Type() {
		case "import_statement":
			if childOfType(n, "import_clause") != nil {
				if s := stringValue(n.ChildByFieldName("source"), src); s != "" {
					imports = append(imports, s)
				}
			} else if clause := childOfType(n, "import_require_clause"); clause != nil {
				// TypeScript: import x = require('y')
				if s := stringValue(childOfType(clause, "string"), src); s != "" {
					requires = append(requires, s)
				}
			}
		case "call_expression":
			if s := requireTarget(n, src); s != "" {
				requires = append(requires, s)
			}
		}
	})
	return append(imports, requires...)
}

// requireTarget returns the module of a require('x') call with a single
// string argument.
func requireTarget(call *sitter.Node, src []byte) string {
	fn := call.ChildByFieldName("function")
	if fn == nil || fn.Type() != "identifier" || fn.Content(src) != "require" {
		return ""
	}
	args := call.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() != 1 {
		return ""
	}
	arg := args.NamedChild(0)
	if arg.Type() != "string" {
		return ""
	}
	return stringValue(arg, src)
}

func walk(n *sitter.Node, fn func(*sitter.Node)) {
	fn(n)
	for i := 0; i < int(n.NamedChildCount()); i++ {
		walk(n.NamedChild(i), fn)
	}
}

func childOfType(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.Type() == typ {
			return c
		}
	}
	return nil
}

// stringValue returns the text of a string literal without its quotes.
func stringValue(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	if frag := childOfType(n, "string_fragment"); frag != nil && n.NamedChildCount() == 1 {
		return frag.Content(src)
	}
	return strings.Trim(n.Content(src), "'\"")
}
