package cli

import (
	"fmt"

	"github.com/ppiankov/egmembers/internal/cache"
	"github.com/ppiankov/egmembers/internal/model"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the page cache",
}

var cacheClearCmd = &cobra.Command{
	Use:     "clear",
	Short:   "Delete every cached page",
	PreRunE: bindFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if err := cache.NewDiskCache(cfg.Cache.Dir, 0).Clear(); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}

		fmt.Printf("✓ Cleared page cache: %s\n", cfg.Cache.Dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	cacheClearCmd.Flags().String("cache-dir", model.DefaultConfig().Cache.Dir, "page cache directory")
}
