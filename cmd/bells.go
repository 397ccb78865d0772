package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/okravets/rozklad/internal/config"
)

var bellsCmd = &cobra.Command{
	Use:   "bells",
	Short: "Print the bell schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		fmt.Println(renderBells(cfg, time.Now()))
		return nil
	},
}

// renderBells formats the bell table, marking the period running at now.
func renderBells(cfg *config.Config, now time.Time) string {
	out := ""
	for _, b := range cfg.Bells {
		marker := " "
		if bellRunning(b, now) {
			marker = "→"
		}
		out += fmt.Sprintf("%s %d. %s – %s", marker, b.Number, b.Start, b.End)
		if b.BreakAfter > 0 {
			out += fmt.Sprintf("   (перерва %d хв)", b.BreakAfter)
		}
		out += "\n"
	}
	return out
}

// bellRunning reports whether now falls inside the period's HH:MM window.
func bellRunning(b config.Bell, now time.Time) bool {
	start, err1 := time.Parse("15:04", b.Start)
	end, err2 := time.Parse("15:04", b.End)
	if err1 != nil || err2 != nil {
		return false
	}
	minutes := now.Hour()*60 + now.Minute()
	return minutes >= start.Hour()*60+start.Minute() &&
		minutes <= end.Hour()*60+end.Minute()
}
