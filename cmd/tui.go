package cmd

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/okravets/rozklad/internal/api"
	"github.com/okravets/rozklad/internal/config"
	"github.com/okravets/rozklad/internal/schedule"
	"github.com/okravets/rozklad/internal/settings"
	"github.com/okravets/rozklad/internal/store"
	"github.com/okravets/rozklad/internal/tui"
)

func runTUI(cmd *cobra.Command, args []string) error {
	if flagDebug {
		f, err := tea.LogToFile("rozklad-debug.log", "debug")
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer f.Close()
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	sts, err := settings.Load(config.SettingsPath())
	if err != nil {
		if errors.Is(err, settings.ErrNotConfigured) {
			return fmt.Errorf("no group or instructor selected yet; run `rozklad setup` first")
		}
		return fmt.Errorf("loading settings: %w", err)
	}

	cache, closeCache, err := openCache()
	if err != nil {
		return err
	}
	defer closeCache()

	resolver := store.NewResolver(cfg)
	client := api.NewClient(cfg, cache, resolver)
	agg := schedule.New(cfg, client)

	anchor := time.Now()
	if flagDate != "" {
		anchor, err = schedule.ParseAPIDate(flagDate)
		if err != nil {
			return fmt.Errorf("invalid --date value (expected DD-MM-YYYY): %w", err)
		}
	}

	return tui.Run(tui.RunOpts{
		Cfg:       cfg,
		Agg:       agg,
		Cache:     cache,
		Namespace: resolver.Namespace(),
		Subject:   sts.Subject(),
		Date:      anchor,
		Week:      flagWeek,
		Refresh:   flagRefresh,
	})
}

// openCache wires the two cache tiers. A broken SQLite file degrades to a
// second in-memory tier instead of blocking startup.
func openCache() (*store.Store, func(), error) {
	session := store.NewMemoryTier()

	persistent, err := store.OpenSQLite(config.CachePath())
	if err != nil {
		fmt.Printf("  [warn] persistent cache unavailable: %v\n", err)
		return store.New(session, store.NewMemoryTier()), func() {}, nil
	}

	return store.New(session, persistent), func() { persistent.Close() }, nil
}
