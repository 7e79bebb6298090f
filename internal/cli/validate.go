package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/repomap/pkg/analysis"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <payload.json>",
		Short: "Check an analysis payload and print a summary",
		Long: `Validate decodes an analysis payload and checks the invariants the tree and
graph builders rely on: every file has a non-empty id and a relative path,
ids are unique, sizes are non-negative and github_url is an http(s) URL.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
}

func (c *CLI) runValidate(ctx context.Context, w io.Writer, path string) error {
	logger := loggerFromContext(ctx)

	p, err := analysis.ReadFile(path)
	if err != nil {
		return err
	}

	stats := p.Stats()
	logger.Debug("decoded payload", "file", path, "id", p.ID, "files", stats.Files)
	printSuccess(w, "Valid payload %s", StyleValue.Render(path))
	if p.RepoName != "" {
		printKeyValue(w, "Repository", p.RepoName)
	}
	if p.GitHubURL != "" {
		printKeyValue(w, "URL", StyleLink.Render(p.GitHubURL))
	}
	if p.Framework != "" {
		printKeyValue(w, "Framework", p.Framework)
	}
	if p.Timestamp != nil {
		printKeyValue(w, "Analyzed", p.Timestamp.Local().Format(time.DateTime))
	}
	printKeyValue(w, "ID", p.ID)
	printKeyValue(w, "Files", StyleNumber.Render(fmt.Sprint(stats.Files)))
	printKeyValue(w, "Size", formatBytes(stats.TotalBytes))
	printKeyValue(w, "Imports", fmt.Sprintf("%s in %d files", StyleNumber.Render(fmt.Sprint(stats.Imports)), stats.DepEntries))
	if exts := formatExtensions(stats); exts != "" {
		printKeyValue(w, "Types", exts)
	}
	if len(p.EntryPoints) > 0 {
		printKeyValue(w, "Entry points", strings.Join(p.EntryPoints, ", "))
	}

	if stats.OrphanedDeps > 0 {
		printWarning(w, "%d dependency entries name no file in file_structure and will be ignored", stats.OrphanedDeps)
	}
	return nil
}
