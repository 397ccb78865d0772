package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Adaptive colors for dark/light terminals
	colorPrimary  = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorText     = lipgloss.AdaptiveColor{Light: "#3D3D3D", Dark: "#ABABAB"}
	colorDim      = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}
	colorAccent   = lipgloss.AdaptiveColor{Light: "#F25D94", Dark: "#F25D94"}
	colorWarn     = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#F59E0B"}
	colorBorder   = lipgloss.AdaptiveColor{Light: "#DBDBDB", Dark: "#383838"}
	colorTodayBdr = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorStatusBg = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#16213E"}
	colorGreen    = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"}

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			PaddingLeft(1)

	headerDateStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Align(lipgloss.Right)

	dayCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	todayCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorTodayBdr).
			Padding(0, 1)

	dayTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	periodStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	timeStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	lessonTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorText)

	lessonMetaStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	emptyStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorWarn)

	statusBarStyle = lipgloss.NewStyle().
			Background(colorStatusBg).
			Foreground(colorText).
			PaddingLeft(1).
			PaddingRight(1)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(colorAccent)
)

// typeStyle renders a lesson-type badge with the color configured for it.
func typeStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
}
