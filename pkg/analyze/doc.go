// Package analyze produces an analysis payload from a local repository
// checkout.
//
// [Analyze] walks the directory and records every file it keeps as an
// [analysis.FileEntry]. Hidden files and directories are skipped, as are
// node_modules, venv, __pycache__, dist and build at any depth.
//
// # Imports
//
// Python, JavaScript and TypeScript files are parsed with tree-sitter and
// their import strings are stored both on the entry and in the payload's
// dependency map. Modules are recorded as written; resolving them to files is
// left to the graph builder.
//
//   - Python: "import a.b" gives "a.b"; "from a.b import c" gives "a.b";
//     "from .a import b" gives "a"; "from . import b" gives nothing.
//     Top-level imports come first, then nested ones by depth.
//   - JavaScript and TypeScript: ES module imports with a from clause, in
//     source order, followed by require('...') calls in source order.
//     Side-effect imports ("import './x.css'") and dynamic import() are not
//     recorded.
//
// # Framework and Entry Points
//
// [DetectFramework] reads package.json, requirements.txt and pyproject.toml
// and notes go.mod, pom.xml and build.gradle. [FindEntryPoints] lists common
// entry files at the top level and under src/, plus the npm start and dev
// scripts.
package analyze
