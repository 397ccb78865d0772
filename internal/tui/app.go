package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/okravets/rozklad/internal/api"
	"github.com/okravets/rozklad/internal/config"
	"github.com/okravets/rozklad/internal/schedule"
	"github.com/okravets/rozklad/internal/store"
)

type viewMode int

const (
	modeDay viewMode = iota
	modeWeek
)

type phase int

const (
	phaseLoading phase = iota
	phaseError
	phaseEmpty
	phaseReady
)

// loader is the slice of the aggregator the app drives.
type loader interface {
	Day(ctx context.Context, sub schedule.Subject, date time.Time, opts api.Options) (*schedule.Day, error)
	Week(ctx context.Context, sub schedule.Subject, anchor time.Time, opts api.Options) (*schedule.Week, error)
}

type App struct {
	cfg     *config.Config
	agg     loader
	cache   *store.Store
	keyspc  string
	subject schedule.Subject

	mode    viewMode
	anchor  time.Time
	phase   phase
	day     *schedule.Day
	week    *schedule.Week
	lastErr error

	// generation invalidates in-flight loads when the user navigates away
	generation int

	width   int
	height  int
	notice  string
	refresh bool

	spinner spinner.Model
	now     func() time.Time
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Cfg       *config.Config
	Agg       *schedule.Aggregator
	Cache     *store.Store
	Namespace string
	Subject   schedule.Subject
	Date      time.Time
	Week      bool
	Refresh   bool
}

func NewApp(opts RunOpts) *App {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	a := &App{
		cfg:     opts.Cfg,
		agg:     opts.Agg,
		cache:   opts.Cache,
		keyspc:  opts.Namespace,
		subject: opts.Subject,
		anchor:  opts.Date,
		phase:   phaseLoading,
		spinner: sp,
		now:     time.Now,
	}
	if a.anchor.IsZero() {
		a.anchor = time.Now()
	}
	if opts.Week {
		a.mode = modeWeek
	}
	if opts.Refresh {
		a.refresh = true
	}
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadCmd(api.Options{ForceRefresh: a.refresh}), a.spinner.Tick)
}

// loadCmd issues the fetch for the current mode and anchor. The generation is
// bumped first and captured in the closure, so the result message can be
// matched against whatever generation is current when it arrives.
func (a *App) loadCmd(opts api.Options) tea.Cmd {
	a.generation++
	gen := a.generation
	agg := a.agg
	sub := a.subject
	anchor := a.anchor
	mode := a.mode
	timeout := a.cfg.APITimeout()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout*6)
		defer cancel()

		if mode == modeWeek {
			week, err := agg.Week(ctx, sub, anchor, opts)
			if err != nil {
				return loadErrMsg{generation: gen, err: err}
			}
			return weekLoadedMsg{generation: gen, week: week}
		}

		day, err := agg.Day(ctx, sub, anchor, opts)
		if err != nil {
			return loadErrMsg{generation: gen, err: err}
		}
		return dayLoadedMsg{generation: gen, day: day}
	}
}

func (a *App) startLoad(opts api.Options) tea.Cmd {
	a.phase = phaseLoading
	a.notice = ""
	return tea.Batch(a.loadCmd(opts), a.spinner.Tick)
}

func (a *App) exportCmd() tea.Cmd {
	text := a.ExportCurrentAsText()
	if text == "" {
		return nil
	}
	name := fmt.Sprintf("rozklad_%s.txt", a.anchor.Format("2006-01-02"))
	return func() tea.Msg {
		err := os.WriteFile(name, []byte(text), 0o644)
		return exportDoneMsg{path: name, err: err}
	}
}

// ExportCurrentAsText renders what is on screen as plain text, or "" when
// nothing has loaded yet.
func (a *App) ExportCurrentAsText() string {
	switch {
	case a.mode == modeDay && a.day != nil:
		return schedule.ExportDay(a.cfg, a.day)
	case a.mode == modeWeek && a.week != nil:
		return schedule.ExportWeek(a.cfg, a.week)
	}
	return ""
}

// State is an inspectable snapshot of the renderer.
type State struct {
	Mode     string
	Anchor   time.Time
	Phase    string
	Degraded bool
	Err      error
}

func (m viewMode) String() string {
	if m == modeWeek {
		return "week"
	}
	return "day"
}

func (p phase) String() string {
	switch p {
	case phaseError:
		return "error"
	case phaseEmpty:
		return "empty"
	case phaseReady:
		return "ready"
	}
	return "loading"
}

func (a *App) CurrentState() State {
	var degraded bool
	switch a.mode {
	case modeDay:
		degraded = a.day != nil && a.day.Degraded
	case modeWeek:
		degraded = a.week != nil && weekDegraded(a.week)
	}
	return State{
		Mode:     a.mode.String(),
		Anchor:   a.anchor,
		Phase:    a.phase.String(),
		Degraded: degraded,
		Err:      a.lastErr,
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Pure re-render: crossing the breakpoint changes the layout only,
		// never triggers a refetch
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case dayLoadedMsg:
		if msg.generation != a.generation {
			return a, nil // stale response from a superseded navigation
		}
		a.day = msg.day
		a.lastErr = nil
		if msg.day.IsEmpty() {
			a.phase = phaseEmpty
		} else {
			a.phase = phaseReady
		}
		return a, nil

	case weekLoadedMsg:
		if msg.generation != a.generation {
			return a, nil
		}
		a.week = msg.week
		a.lastErr = nil
		a.phase = phaseReady
		if weekIsEmpty(msg.week) {
			a.phase = phaseEmpty
		}
		return a, nil

	case loadErrMsg:
		if msg.generation != a.generation {
			return a, nil
		}
		a.lastErr = msg.err
		a.phase = phaseError
		return a, nil

	case exportDoneMsg:
		if msg.err != nil {
			a.notice = errorStyle.Render(msg.err.Error())
		} else {
			a.notice = fmt.Sprintf("→ %s", msg.path)
		}
		return a, nil

	case spinner.TickMsg:
		if a.phase == phaseLoading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "left", "h":
		a.anchor = a.anchor.AddDate(0, 0, -a.stepDays())
		return a, a.startLoad(api.Options{})

	case "right", "l":
		a.anchor = a.anchor.AddDate(0, 0, a.stepDays())
		return a, a.startLoad(api.Options{})

	case "t":
		a.anchor = a.now()
		return a, a.startLoad(api.Options{})

	case "d":
		if a.mode != modeDay {
			a.mode = modeDay
			return a, a.startLoad(api.Options{})
		}
		return a, nil

	case "w":
		if a.mode != modeWeek {
			a.mode = modeWeek
			return a, a.startLoad(api.Options{})
		}
		return a, nil

	case "r":
		// In the error state r is a retry: the cache may still satisfy it.
		// Otherwise it is an explicit refresh past the cache.
		force := a.phase != phaseError
		return a, a.startLoad(api.Options{ForceRefresh: force})

	case "c":
		// Drop everything cached for this university, then refetch live
		if a.cache != nil {
			a.cache.Clear(a.keyspc)
		}
		return a, a.startLoad(api.Options{ForceRefresh: true, NoCacheFallback: true})

	case "x":
		return a, a.exportCmd()
	}

	return a, nil
}

// stepDays is how far one arrow press moves the anchor.
func (a *App) stepDays() int {
	if a.mode == modeWeek {
		return 7
	}
	return 1
}

// compact reports whether the terminal is below the layout breakpoint, in
// which case views stack vertically instead of spreading into tables.
func (a *App) compact() bool {
	return a.width > 0 && a.width < a.cfg.Breakpoint()
}

func weekIsEmpty(w *schedule.Week) bool {
	for _, d := range w.Days {
		if !d.Failed() && d.Day != nil && !d.Day.IsEmpty() {
			return false
		}
	}
	return len(w.Days) > 0
}

// weekDegraded reports whether any loaded day was served from the cache
// fallback.
func weekDegraded(w *schedule.Week) bool {
	for _, d := range w.Days {
		if !d.Failed() && d.Day != nil && d.Day.Degraded {
			return true
		}
	}
	return false
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  rozklad")
	}

	header := a.renderHeader()
	body := a.renderBody()
	status := a.renderStatusBar()

	contentHeight := a.height - lipgloss.Height(header) - 1
	if contentHeight < 0 {
		contentHeight = 0
	}
	lines := strings.Split(body, "\n")
	for len(lines) < contentHeight {
		lines = append(lines, "")
	}
	if len(lines) > contentHeight {
		lines = lines[:contentHeight]
	}
	body = strings.Join(lines, "\n")

	return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
}

func (a *App) renderHeader() string {
	left := headerStyle.Render(a.cfg.University.ShortName + " · " + a.subject.DisplayName)
	right := headerDateStyle.Render(a.spanLabel())

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 1
	if gap < 0 {
		gap = 0
	}
	return left + fmt.Sprintf("%*s", gap, "") + right + " "
}

// spanLabel is the date or week span shown top right.
func (a *App) spanLabel() string {
	if a.mode == modeWeek {
		dates := schedule.WeekDates(a.anchor)
		return fmt.Sprintf("%s – %s",
			dates[0].Format("02.01"), dates[len(dates)-1].Format("02.01.2006"))
	}
	name := a.cfg.DayName(a.anchor.Weekday(), false)
	return fmt.Sprintf("%s, %s", name, a.anchor.Format("02.01.2006"))
}

func (a *App) renderBody() string {
	switch a.phase {
	case phaseLoading:
		return "\n  " + a.spinner.View() + " " + a.cfg.Messages.Loading

	case phaseError:
		msg := a.cfg.Messages.Error
		if a.lastErr != nil {
			msg = a.lastErr.Error()
		}
		return "\n  " + errorStyle.Render(msg) +
			"\n\n  " + lessonMetaStyle.Render(a.cfg.Messages.Retry) +
			"\n  " + lessonMetaStyle.Render(a.cfg.Messages.ClearCache)

	case phaseEmpty:
		if a.mode == modeWeek {
			return "\n  " + emptyStyle.Render(a.cfg.Messages.NoWeekData)
		}
		return "\n  " + emptyStyle.Render(a.cfg.Messages.NoLessons)
	}

	if a.mode == modeWeek {
		return a.renderWeek()
	}
	return a.renderDay()
}

// Run starts the TUI application.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
