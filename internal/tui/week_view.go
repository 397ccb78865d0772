package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/okravets/rozklad/internal/schedule"
)

func (a *App) renderWeek() string {
	var b strings.Builder

	if weekDegraded(a.week) {
		b.WriteString("  " + warnStyle.Render(a.cfg.Messages.Stale) + "\n\n")
	}

	if a.week.Partial() {
		b.WriteString("  " + warnStyle.Render(
			fmt.Sprintf("%s: %d/%d", a.cfg.Messages.PartialWeek, a.week.SuccessCount, len(a.week.Days))) + "\n\n")
	}

	if a.compact() {
		b.WriteString(a.renderWeekStacked(a.week))
	} else {
		b.WriteString(a.renderWeekGrid(a.week))
	}
	return b.String()
}

// renderWeekGrid is the wide layout: five day columns side by side, the
// current day with a highlighted border.
func (a *App) renderWeekGrid(w *schedule.Week) string {
	colWidth := (a.width - 2) / len(w.Days)
	if colWidth < 16 {
		colWidth = 16
	}
	inner := colWidth - 4

	today := a.now().Format("2006-01-02")
	cols := make([]string, 0, len(w.Days))
	for _, dr := range w.Days {
		content := a.renderWeekDayColumn(dr, inner)
		style := dayCardStyle
		if dr.Date.Format("2006-01-02") == today {
			style = todayCardStyle
		}
		cols = append(cols, style.Width(inner).Render(content))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// renderWeekStacked is the compact layout: day sections in sequence.
func (a *App) renderWeekStacked(w *schedule.Week) string {
	var sections []string
	for _, dr := range w.Days {
		head := dayTitleStyle.Render(a.cfg.DayName(dr.Date.Weekday(), false)) + " " +
			lessonMetaStyle.Render(dr.Date.Format("02.01"))

		var body string
		switch {
		case dr.Failed():
			body = errorStyle.Render(a.cfg.Messages.DayFailed)
		case dr.Day == nil || dr.Day.IsEmpty():
			body = emptyStyle.Render(a.cfg.Messages.NoLessons)
		default:
			var lines []string
			for _, p := range dr.Day.Periods() {
				l := dr.Day.Lessons[p]
				lt := a.cfg.LessonType(l.Type)
				lines = append(lines, fmt.Sprintf("%s %s %s",
					timeStyle.Render(periodTime(a.cfg.Bell(p))),
					typeStyle(lt.Color).Render(lt.Short),
					lessonTitleStyle.Render(l.Title)))
			}
			body = strings.Join(lines, "\n")
		}

		sections = append(sections, "  "+head+"\n"+indent(body, 2))
	}
	return strings.Join(sections, "\n\n")
}

// renderWeekDayColumn renders one day's content for the grid layout.
func (a *App) renderWeekDayColumn(dr schedule.DayResult, width int) string {
	head := dayTitleStyle.Render(a.cfg.DayName(dr.Date.Weekday(), true)) + " " +
		lessonMetaStyle.Render(dr.Date.Format("02.01"))

	var body string
	switch {
	case dr.Failed():
		body = errorStyle.Render(a.cfg.Messages.DayFailed)
	case dr.Day == nil || dr.Day.IsEmpty():
		body = emptyStyle.Render(a.cfg.Messages.NoLessons)
	default:
		var lines []string
		for _, p := range dr.Day.Periods() {
			l := dr.Day.Lessons[p]
			lt := a.cfg.LessonType(l.Type)
			lines = append(lines,
				periodStyle.Render(fmt.Sprintf("%d", p))+" "+typeStyle(lt.Color).Render(lt.Short),
				truncate(l.Title, width),
			)
			if l.Room != "" {
				lines = append(lines, lessonMetaStyle.Render("ауд. "+l.Room))
			}
		}
		body = strings.Join(lines, "\n")
	}

	return head + "\n" + body
}

func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if width < 2 || len(r) < width {
		return s
	}
	return string(r[:width-1]) + "…"
}
