package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/framegrid/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cacheStatsCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// fileCache opens the configured backend and requires it to be a directory.
func (c *CLI) fileCache(cmd *cobra.Command) (*cache.FileCache, error) {
	store, err := c.openCache(cmd.Context(), false)
	if err != nil {
		return nil, err
	}
	fc, ok := store.(*cache.FileCache)
	if !ok {
		store.Close()
		return nil, fmt.Errorf("%q is not a cache directory; remote backends expire entries themselves", c.cacheTargetOrDefault())
	}
	return fc, nil
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var expired bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached layouts, artifacts and sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.fileCache(cmd)
			if err != nil {
				return err
			}
			defer fc.Close()

			count, err := fc.Clear(expired)
			if err != nil {
				return err
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			if expired {
				printSuccess("Removed %d expired %s", count, plural(count, "entry", "entries"))
			} else {
				printSuccess("Cleared %d cached %s", count, plural(count, "entry", "entries"))
			}
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
	cmd.Flags().BoolVar(&expired, "expired", false, "only remove expired entries")
	return cmd
}

// cacheStatsCommand creates the "cache stats" subcommand.
func (c *CLI) cacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the number and size of cached entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.fileCache(cmd)
			if err != nil {
				return err
			}
			defer fc.Close()

			stats, err := fc.Stats()
			if err != nil {
				return err
			}
			printKeyValue("Directory", fc.Dir())
			printKeyValue("Entries", fmt.Sprintf("%d", stats.Entries))
			printKeyValue("Expired", fmt.Sprintf("%d", stats.Expired))
			printKeyValue("Size", formatBytes(stats.Bytes))
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
			fmt.Fprintln(c.Out, dir)
			return nil
		},
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
