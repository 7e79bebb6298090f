package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/repomap/pkg/analysis"
	"github.com/matzehuels/repomap/pkg/analyze"
	"github.com/matzehuels/repomap/pkg/errors"
)

type analyzeOpts struct {
	output  string
	name    string
	url     string
	workers int
}

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var opts analyzeOpts

	cmd := &cobra.Command{
		Use:   "analyze <dir>",
		Short: "Produce an analysis payload from a local checkout",
		Long: `Analyze walks a directory and writes the payload the tree and graph commands
read. Hidden files and dependency or build folders (node_modules, venv,
__pycache__, dist, build) are skipped.

Imports are read from Python, JavaScript and TypeScript files. The framework
is detected from package.json, requirements.txt, pyproject.toml, go.mod,
pom.xml and build.gradle.`,
		Example: `  repomap analyze . -o payload.json
  repomap analyze ~/src/app --url https://github.com/acme/app > app.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.workers < 0 {
				return errors.New(errors.ErrCodeInvalidInput, "invalid --workers: %d (must not be negative)", opts.workers)
			}
			return c.runAnalyze(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.name, "name", "", "repository name (default directory name)")
	cmd.Flags().StringVar(&opts.url, "url", "", "GitHub URL recorded in the payload")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "files parsed in parallel (default number of CPUs)")

	return cmd
}

func (c *CLI) runAnalyze(ctx context.Context, w io.Writer, dir string, opts analyzeOpts) error {
	aopts := analyze.Options{
		RepoName:  opts.name,
		GitHubURL: opts.url,
		Workers:   opts.workers,
		Logger:    c.Logger,
	}

	// The payload goes to stdout without -o; keep the terminal quiet then.
	var s *spinner
	if opts.output != "" {
		s = newSpinner(ctx, c.errOut, "Analyzing "+dir+"...")
		aopts.Progress = func(done, total int) {
			s.Update("Parsed %d/%d files", done, total)
		}
		s.Start()
	}

	prog := newProgress(c.Logger)
	p, err := analyze.Analyze(ctx, dir, aopts)
	if s != nil {
		s.Stop()
	}
	if err != nil {
		return err
	}

	if opts.output == "" {
		return analysis.WritePayload(p, w)
	}
	if err := analysis.WritePayloadFile(p, opts.output); err != nil {
		return err
	}

	stats := p.Stats()
	prog.done("wrote payload", "files", stats.Files, "imports", stats.Imports, "framework", p.Framework)
	printFile(w, opts.output)
	printStats(w, false, counted(stats.Files, "files"), counted(stats.Imports, "imports"), p.Framework)
	printNextStep(w, "Browse it", "repomap tree "+opts.output)
	return nil
}
