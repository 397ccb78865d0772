package tui

import (
	"github.com/okravets/rozklad/internal/schedule"
)

// Every load result carries the generation it was issued for. The app only
// applies results matching its current generation, so a slow response from a
// superseded navigation can never overwrite newer state.

type dayLoadedMsg struct {
	generation int
	day        *schedule.Day
}

type weekLoadedMsg struct {
	generation int
	week       *schedule.Week
}

type loadErrMsg struct {
	generation int
	err        error
}

type exportDoneMsg struct {
	path string
	err  error
}
