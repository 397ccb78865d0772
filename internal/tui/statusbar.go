package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/okravets/rozklad/internal/schedule"
)

func (a *App) renderStatusBar() string {
	left := " " + a.subjectLabel()
	if n := a.academicWeek(); n > 0 {
		left += fmt.Sprintf(" · тиждень %d", n)
	}
	if a.notice != "" {
		left += " · " + a.notice
	}

	right := " ←/→ дні  d день  w тиждень  t сьогодні  r оновити  c кеш  x експорт  q вихід "
	if a.mode == modeWeek {
		right = " ←/→ тижні  d день  w тиждень  t сьогодні  r оновити  c кеш  x експорт  q вихід "
	}

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right
	return statusBarStyle.Width(a.width).Render(bar)
}

func (a *App) subjectLabel() string {
	if a.subject.DisplayName != "" {
		return a.subject.DisplayName
	}
	return fmt.Sprintf("%s %d", a.subject.Role, a.subject.ID)
}

// academicWeek is the 1-based week number counted from the start of the
// academic year, or 0 when the start date is not configured.
func (a *App) academicWeek() int {
	start, err := a.cfg.AcademicYearStart()
	if err != nil {
		return 0
	}
	return schedule.WeekNumber(start, a.anchor)
}
