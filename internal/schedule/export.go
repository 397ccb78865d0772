package schedule

import (
	"fmt"
	"strings"

	"github.com/okravets/rozklad/internal/config"
)

// ExportDay renders one day as plain text for copying or saving.
func ExportDay(cfg *config.Config, d *Day) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 %s\n", d.Subject.DisplayName)
	fmt.Fprintf(&b, "📆 %s, %s\n\n", cfg.DayName(d.Date.Weekday(), false), FormatAPIDate(d.Date))

	if d.IsEmpty() {
		b.WriteString(cfg.Messages.NoLessons + "\n")
		return b.String()
	}

	for _, n := range d.Periods() {
		l := d.Lessons[n]
		fmt.Fprintf(&b, "%d. %s\n", n, bellTime(cfg, n))
		fmt.Fprintf(&b, "   %s (%s)\n", l.Title, cfg.LessonType(l.Type).Name)
		if l.Counterpart != "" {
			fmt.Fprintf(&b, "   %s\n", l.Counterpart)
		}
		if l.Room != "" {
			fmt.Fprintf(&b, "   ауд. %s\n", l.Room)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// ExportWeek renders a week as plain text, one block per day. Failed days
// are marked rather than skipped.
func ExportWeek(cfg *config.Config, w *Week) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 %s\n", w.Subject.DisplayName)
	fmt.Fprintf(&b, "📆 %s – %s\n\n", FormatAPIDate(w.Start), FormatAPIDate(w.End))

	for _, dr := range w.Days {
		fmt.Fprintf(&b, "=== %s, %s ===\n", cfg.DayName(dr.Date.Weekday(), false), FormatAPIDate(dr.Date))

		switch {
		case dr.Failed():
			b.WriteString(cfg.Messages.DayFailed + "\n")
		case dr.Day.IsEmpty():
			b.WriteString(cfg.Messages.NoLessons + "\n")
		default:
			for _, n := range dr.Day.Periods() {
				l := dr.Day.Lessons[n]
				fmt.Fprintf(&b, "%d. %s - %s (%s)\n", n, bellTime(cfg, n), l.Title, cfg.LessonType(l.Type).Name)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func bellTime(cfg *config.Config, period int) string {
	if b := cfg.Bell(period); b != nil {
		return b.Start + "-" + b.End
	}
	return fmt.Sprintf("%d пара", period)
}
