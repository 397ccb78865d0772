package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okravets/rozklad/internal/api"
	"github.com/okravets/rozklad/internal/config"
)

// ErrAllDaysFailed marks a week fetch where not a single day loaded.
var ErrAllDaysFailed = errors.New("no day of the week could be loaded")

// MaxRangeDays is the business-day count above which a range fetch is
// flagged oversized, since every day is a concurrent request.
const MaxRangeDays = 14

// Fetcher is the slice of the API client the aggregator needs.
type Fetcher interface {
	GroupScheduleDay(ctx context.Context, groupID int, date string, opts api.Options) (api.Result, error)
	InstructorScheduleDay(ctx context.Context, instructorID int, date string, opts api.Options) (api.Result, error)
}

// DayResult is one slot of a multi-day fetch: either a normalized day or the
// error that kept it from loading.
type DayResult struct {
	Date time.Time
	Day  *Day
	Err  error
}

func (r DayResult) Failed() bool { return r.Err != nil }

// Week is a Monday..Friday span with per-day results. SuccessCount counts
// the non-failure slots.
type Week struct {
	Subject      Subject
	Start        time.Time
	End          time.Time
	Days         []DayResult
	SuccessCount int
}

// Partial reports whether some, but not all, days failed.
func (w *Week) Partial() bool { return w.SuccessCount < len(w.Days) }

// Range is the arbitrary business-day counterpart of Week.
type Range struct {
	Subject      Subject
	Start        time.Time
	End          time.Time
	Days         []DayResult
	SuccessCount int
}

func (r *Range) Partial() bool { return r.SuccessCount < len(r.Days) }

// Oversized reports whether the range multiplies concurrent requests beyond
// the advisory limit. Non-fatal; callers decide whether to warn.
func (r *Range) Oversized() bool { return len(r.Days) > MaxRangeDays }

type Aggregator struct {
	cfg    *config.Config
	client Fetcher
}

func New(cfg *config.Config, client Fetcher) *Aggregator {
	return &Aggregator{cfg: cfg, client: client}
}

// Day fetches and normalizes one subject-day. The endpoint is chosen by the
// subject's role; the degraded flag survives into the result.
func (a *Aggregator) Day(ctx context.Context, sub Subject, date time.Time, opts api.Options) (*Day, error) {
	var (
		res api.Result
		err error
	)
	switch sub.Role {
	case RoleStudent:
		res, err = a.client.GroupScheduleDay(ctx, sub.ID, FormatAPIDate(date), opts)
	case RoleTeacher:
		res, err = a.client.InstructorScheduleDay(ctx, sub.ID, FormatAPIDate(date), opts)
	default:
		return nil, fmt.Errorf("unknown subject role %q", sub.Role)
	}
	if err != nil {
		return nil, err
	}

	lessons := normalizeLessons(res.Data, func(n int) bool { return a.cfg.Bell(n) != nil })

	return &Day{
		Subject:  sub,
		Date:     date,
		Lessons:  lessons,
		Degraded: res.Degraded,
	}, nil
}

// Week fetches the Monday..Friday span containing anchor. The five day
// fetches run concurrently; a failed day becomes a marker instead of killing
// the week. Only a week with zero successful days is an error.
func (a *Aggregator) Week(ctx context.Context, sub Subject, anchor time.Time, opts api.Options) (*Week, error) {
	dates := WeekDates(anchor)
	days := a.fetchDays(ctx, sub, dates, opts)

	w := &Week{
		Subject: sub,
		Start:   dates[0],
		End:     dates[len(dates)-1],
		Days:    days,
	}
	for _, d := range days {
		if !d.Failed() {
			w.SuccessCount++
		}
	}
	if w.SuccessCount == 0 {
		return nil, fmt.Errorf("%w (%s – %s)", ErrAllDaysFailed, FormatAPIDate(w.Start), FormatAPIDate(w.End))
	}
	return w, nil
}

// Range fetches every business day between start and end. Weekends are
// excluded; a reversed range is empty, not an error.
func (a *Aggregator) Range(ctx context.Context, sub Subject, start, end time.Time, opts api.Options) (*Range, error) {
	dates := BusinessDays(start, end)
	days := a.fetchDays(ctx, sub, dates, opts)

	r := &Range{
		Subject: sub,
		Start:   start,
		End:     end,
		Days:    days,
	}
	for _, d := range days {
		if !d.Failed() {
			r.SuccessCount++
		}
	}
	return r, nil
}

// fetchDays fans the per-day fetches out concurrently and joins them in
// date order. One day's timeout never cancels its siblings.
func (a *Aggregator) fetchDays(ctx context.Context, sub Subject, dates []time.Time, opts api.Options) []DayResult {
	results := make([]DayResult, len(dates))

	var wg sync.WaitGroup
	for i, date := range dates {
		wg.Add(1)
		go func(i int, date time.Time) {
			defer wg.Done()
			day, err := a.Day(ctx, sub, date, opts)
			results[i] = DayResult{Date: date, Day: day, Err: err}
		}(i, date)
	}
	wg.Wait()

	return results
}
