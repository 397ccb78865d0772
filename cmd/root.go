package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig  string
	flagDate    string
	flagWeek    bool
	flagRefresh bool
	flagDebug   bool
)

var rootCmd = &cobra.Command{
	Use:   "rozklad",
	Short: "TUI university class schedule",
	Long: `rozklad shows a student group's or instructor's class schedule in the
terminal, with the bell table and day/week views, caching responses so the
last known schedule stays available when the university API is down.`,
	RunE: runTUI,
}

func init() {
	rootCmd.Flags().StringVar(&flagDate, "date", "", "open at a specific date (DD-MM-YYYY)")
	rootCmd.Flags().BoolVar(&flagWeek, "week", false, "start in week view")
	rootCmd.Flags().BoolVar(&flagRefresh, "refresh", false, "skip the cache and fetch live data on startup")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "write TUI diagnostics to rozklad-debug.log")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(bellsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rozklad %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
