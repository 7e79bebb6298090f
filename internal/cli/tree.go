package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltree "github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/matzehuels/repomap/pkg/analysis"
	"github.com/matzehuels/repomap/pkg/tree"
)

// treeOpts holds the flags of the tree command.
type treeOpts struct {
	depth       int
	json        bool
	interactive bool
	watch       bool
}

var (
	treeRootStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	treeFolderStyle = lipgloss.NewStyle().Foreground(colorBlue)
	treeFileStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	treeEnumStyle   = lipgloss.NewStyle().Foreground(colorDim).MarginRight(1)
)

// treeCommand creates the tree command.
func (c *CLI) treeCommand() *cobra.Command {
	var opts treeOpts

	cmd := &cobra.Command{
		Use:   "tree <payload.json>",
		Short: "Print the folder tree of a payload",
		Long: `Tree groups the payload's files by folder. Folders and files keep the order
in which they first appear in file_structure.

Use --depth to collapse folders below a level, --json for the tree in JSON
and -i to browse it interactively.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTree(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.depth, "depth", -1, "expand folders up to this depth (-1 for all)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the tree as JSON")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse the tree interactively")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "rebuild when the payload changes")
	cmd.MarkFlagsMutuallyExclusive("json", "interactive")

	return cmd
}

func (c *CLI) runTree(ctx context.Context, w io.Writer, path string, opts treeOpts) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	load := func() (*analysis.Payload, *tree.Node, error) {
		p, err := runner.Load(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		root, hit, err := runner.TreeWithCacheInfo(ctx, p)
		if err != nil {
			return nil, nil, err
		}
		c.Logger.Debug("tree ready", "folders", root.FolderCount(), "files", root.FileCount(), "cached", hit)
		return p, root, nil
	}

	if opts.interactive {
		return c.browseTree(ctx, path, opts.watch, load)
	}

	show := func() error {
		p, root, err := load()
		if err != nil {
			return err
		}
		if opts.json {
			return writeTreeJSON(w, root)
		}
		state := tree.ExpandToDepth(root, opts.depth)
		_, err = fmt.Fprintln(w, renderTree(root, state, treeTitle(p, path)))
		return err
	}

	if err := show(); err != nil {
		if !opts.watch {
			return err
		}
		c.Logger.Error("build failed", "err", err)
	}
	if !opts.watch {
		return nil
	}
	return watchFile(ctx, path, c.Logger, show)
}

// browseTree runs the interactive browser. With watch set, payload changes
// are pushed into the running program.
func (c *CLI) browseTree(ctx context.Context, path string, watch bool, load func() (*analysis.Payload, *tree.Node, error)) error {
	p, root, err := load()
	if err != nil {
		return err
	}

	prog := tea.NewProgram(NewTreeBrowserModel(treeTitle(p, path), root), tea.WithAltScreen(), tea.WithContext(ctx))

	if watch {
		wctx, cancel := context.WithCancel(ctx)
		defer cancel()
		// Log lines would tear the alternate screen; errors reach the view instead.
		go func() {
			_ = watchFile(wctx, path, quietLogger(), func() error {
				_, root, err := load()
				prog.Send(reloadMsg{root: root, err: err})
				return err
			})
		}()
	}

	_, err = prog.Run()
	return err
}

// treeTitle names the tree after the repository, falling back to the file name.
func treeTitle(p *analysis.Payload, path string) string {
	if p.RepoName != "" {
		return p.RepoName
	}
	return filepath.Base(path)
}

// renderTree draws the folders of root that state expands.
// A collapsed folder is drawn as one line with its file count.
func renderTree(root *tree.Node, state tree.ExpandState, title string) string {
	t := newPrintTree(title).RootStyle(treeRootStyle)
	if state.IsExpanded(root.Path) {
		addContents(t, root, state)
	}
	return t.String()
}

func newPrintTree(root string) *ltree.Tree {
	return ltree.New().
		Root(root).
		Enumerator(ltree.RoundedEnumerator).
		EnumeratorStyle(treeEnumStyle)
}

func addContents(t *ltree.Tree, n *tree.Node, state tree.ExpandState) {
	for _, f := range n.Folders() {
		if !state.IsExpanded(f.Path) {
			t.Child(treeFolderStyle.Render(f.Name+"/") + " " + StyleDim.Render(fmt.Sprintf("(%d files)", f.FileCount())))
			continue
		}
		sub := newPrintTree(treeFolderStyle.Render(f.Name + "/"))
		addContents(sub, f, state)
		t.Child(sub)
	}
	for _, f := range n.Files {
		t.Child(treeFileStyle.Render(f.Name) + " " + StyleDim.Render(formatBytes(f.Size)))
	}
}

// writeTreeJSON writes root as indented JSON.
func writeTreeJSON(w io.Writer, root *tree.Node) error {
	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tree: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
