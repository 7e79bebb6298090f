package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/repomap/pkg/cache"
	"github.com/matzehuels/repomap/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the result cache",
		Long: `Trees and graphs are cached by the content hash of the payload, so editing a
payload never serves stale results. These commands manage the on-disk cache.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached trees and graphs",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}

			w := cmd.OutOrStdout()
			count, err := cache.ClearDir(dir)
			if err != nil {
				return err
			}
			if count == 0 {
				printInfo(w, "Cache is empty")
			} else {
				printSuccess(w, "Cleared %d cached entries", count)
			}
			printDetail(w, "Directory: %s", dir)

			if c.backend() == config.BackendRedis {
				printNextStep(w, "Redis entries expire on their own; prefix", c.Config.Cache.Redis.Prefix+"*")
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
