package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okravets/rozklad/internal/config"
	"github.com/okravets/rozklad/internal/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the response cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := config.CachePath()

		cache, closeCache, err := openCache()
		if err != nil {
			return err
		}
		defer closeCache()

		var size int64
		if fi, err := os.Stat(dbPath); err == nil {
			size = fi.Size()
		}

		stats := cache.Stats()
		fmt.Printf("Cache: %s\n", dbPath)
		fmt.Printf("Session entries: %d (this process only)\n", stats.Session)
		fmt.Printf("Persistent entries: %d\n", stats.Persistent)
		fmt.Printf("Size: %s\n", formatBytes(size))
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached response",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		tier, err := store.OpenSQLite(config.CachePath())
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer tier.Close()

		before := tier.Len()
		tier.Clear(store.NewResolver(cfg).Namespace())

		fmt.Printf("Cleared %d entr(ies).\n", before-tier.Len())
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
