package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/okravets/rozklad/internal/config"
	"github.com/okravets/rozklad/internal/schedule"
)

func (a *App) renderDay() string {
	var b strings.Builder

	if a.day.Degraded {
		b.WriteString("  " + warnStyle.Render(a.cfg.Messages.Stale) + "\n\n")
	}

	if a.compact() {
		b.WriteString(a.renderDayCards(a.day, a.width-4))
	} else {
		b.WriteString(a.renderDayTable(a.day))
	}
	return b.String()
}

// renderDayTable is the wide layout: one aligned row per period.
func (a *App) renderDayTable(d *schedule.Day) string {
	var b strings.Builder

	titleW := 0
	for _, p := range d.Periods() {
		if w := lipgloss.Width(d.Lessons[p].Title); w > titleW {
			titleW = w
		}
	}

	for _, p := range d.Periods() {
		l := d.Lessons[p]
		lt := a.cfg.LessonType(l.Type)

		b.WriteString(fmt.Sprintf("  %s  %s  %s  %s  %s\n",
			periodStyle.Render(fmt.Sprintf("%d", p)),
			timeStyle.Render(periodTime(a.cfg.Bell(p))),
			typeStyle(lt.Color).Render(padRight(lt.Short, 3)),
			lessonTitleStyle.Render(padRight(l.Title, titleW)),
			lessonMetaStyle.Render(lessonMeta(l)),
		))
		if extra := lessonExtra(l); extra != "" {
			b.WriteString("                     " + lessonMetaStyle.Render(extra) + "\n")
		}
	}
	return b.String()
}

// renderDayCards is the compact layout: one bordered card per lesson.
func (a *App) renderDayCards(d *schedule.Day, width int) string {
	var cards []string
	for _, p := range d.Periods() {
		l := d.Lessons[p]
		lt := a.cfg.LessonType(l.Type)

		head := periodStyle.Render(fmt.Sprintf("%d", p)) + " · " +
			timeStyle.Render(periodTime(a.cfg.Bell(p))) + "  " +
			typeStyle(lt.Color).Render(lt.Short)
		body := lessonTitleStyle.Render(l.Title)
		meta := lessonMetaStyle.Render(lessonMeta(l))

		lines := []string{head, body}
		if meta != "" {
			lines = append(lines, meta)
		}
		if extra := lessonExtra(l); extra != "" {
			lines = append(lines, lessonMetaStyle.Render(extra))
		}

		cards = append(cards, dayCardStyle.Width(width).Render(strings.Join(lines, "\n")))
	}
	return strings.Join(cards, "\n")
}

// lessonMeta joins the who-and-where line of a lesson.
func lessonMeta(l schedule.Lesson) string {
	var parts []string
	if l.Counterpart != "" {
		parts = append(parts, l.Counterpart)
	}
	if l.Room != "" {
		room := l.Room
		if l.Building != "" {
			room = l.Building + "/" + room
		}
		parts = append(parts, "ауд. "+room)
	}
	return strings.Join(parts, " · ")
}

// lessonExtra joins the secondary annotations, shown only when present.
func lessonExtra(l schedule.Lesson) string {
	var parts []string
	if l.WeekParity != "" {
		parts = append(parts, l.WeekParity)
	}
	if l.Weeks != "" {
		parts = append(parts, "тижні "+l.Weeks)
	}
	if l.Notes != "" {
		parts = append(parts, l.Notes)
	}
	return strings.Join(parts, " · ")
}

func periodTime(b *config.Bell) string {
	if b == nil {
		return "     ?     "
	}
	return b.Start + "-" + b.End
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
