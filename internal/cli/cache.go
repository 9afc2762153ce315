package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/siliconmark/logocell/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the conversion cache",
		Long: `Manage the local cache of resolved pixel grids and encoded outputs.

Entries are keyed by the content of the image and constraint document plus
every option that changes the result, so clearing is only needed to reclaim
space.`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "info",
			Short: "Show the cache location, entry count and size",
			Args:  cobra.NoArgs,
			RunE:  func(*cobra.Command, []string) error { return runCacheInfo() },
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove all cached grids and outputs",
			Args:  cobra.NoArgs,
			RunE:  func(*cobra.Command, []string) error { return runCacheClear() },
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache directory path",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				dir, err := cacheDir()
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				fmt.Fprintln(stdout, dir)
				return nil
			},
		},
	)
	return cmd
}

// openCache opens the file cache, or returns nil when it was never created.
func openCache() (*cache.FileCache, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, fmt.Errorf("get cache dir: %w", err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return fc, nil
}

func runCacheInfo() error {
	fc, err := openCache()
	if err != nil || fc == nil {
		if err == nil {
			printInfo("Cache is empty")
		}
		return err
	}
	entries, size, err := fc.Usage()
	if err != nil {
		return fmt.Errorf("read cache: %w", err)
	}
	printKeyValue("Directory", fc.Dir())
	printKeyValue("Entries", fmt.Sprint(entries))
	printKeyValue("Size", formatBytes(size))
	return nil
}

func runCacheClear() error {
	fc, err := openCache()
	if err != nil || fc == nil {
		if err == nil {
			printInfo("Cache is empty")
		}
		return err
	}
	n, err := fc.Clear()
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	printSuccess("Cleared %d cached entries", n)
	printDetail("Directory: %s", fc.Dir())
	return nil
}

// formatBytes renders n with a binary unit suffix.
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
