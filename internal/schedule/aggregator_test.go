package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/okravets/rozklad/internal/api"
	"github.com/okravets/rozklad/internal/config"
)

func testCfg() *config.Config {
	bells := make([]config.Bell, 7)
	for i := range bells {
		bells[i] = config.Bell{Number: i + 1}
	}
	return &config.Config{Bells: bells}
}

// fakeFetcher serves canned payloads per DD-MM-YYYY date and records calls.
type fakeFetcher struct {
	mu        sync.Mutex
	payloads  map[string]string
	failDates map[string]error
	groupCall int
	instrCall int
	dates     []string
}

func (f *fakeFetcher) serve(date string) (api.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dates = append(f.dates, date)
	if err, ok := f.failDates[date]; ok {
		return api.Result{}, err
	}
	payload, ok := f.payloads[date]
	if !ok {
		payload = `{"schedule":{}}`
	}
	return api.Result{Data: json.RawMessage(payload)}, nil
}

func (f *fakeFetcher) GroupScheduleDay(ctx context.Context, groupID int, date string, opts api.Options) (api.Result, error) {
	f.mu.Lock()
	f.groupCall++
	f.mu.Unlock()
	return f.serve(date)
}

func (f *fakeFetcher) InstructorScheduleDay(ctx context.Context, instructorID int, date string, opts api.Options) (api.Result, error) {
	f.mu.Lock()
	f.instrCall++
	f.mu.Unlock()
	return f.serve(date)
}

var (
	student = Subject{Role: RoleStudent, ID: 42, DisplayName: "КН-21"}
	teacher = Subject{Role: RoleTeacher, ID: 7, DisplayName: "Іваненко І.І."}
)

func TestDaySelectsEndpointByRole(t *testing.T) {
	f := &fakeFetcher{}
	a := New(testCfg(), f)

	if _, err := a.Day(context.Background(), student, date(2024, 9, 2), api.Options{}); err != nil {
		t.Fatalf("student day: %v", err)
	}
	if _, err := a.Day(context.Background(), teacher, date(2024, 9, 2), api.Options{}); err != nil {
		t.Fatalf("teacher day: %v", err)
	}

	if f.groupCall != 1 || f.instrCall != 1 {
		t.Errorf("endpoint selection wrong: group=%d instructor=%d", f.groupCall, f.instrCall)
	}
	if f.dates[0] != "02-09-2024" {
		t.Errorf("date sent as %q, want DD-MM-YYYY", f.dates[0])
	}
}

func TestDayUnknownRole(t *testing.T) {
	a := New(testCfg(), &fakeFetcher{})
	if _, err := a.Day(context.Background(), Subject{Role: "admin"}, date(2024, 9, 2), api.Options{}); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestDayDegradedFlagSurvives(t *testing.T) {
	f := &degradedFetcher{}
	a := New(testCfg(), f)

	d, err := a.Day(context.Background(), student, date(2024, 9, 2), api.Options{})
	if err != nil {
		t.Fatalf("day: %v", err)
	}
	if !d.Degraded {
		t.Error("degraded flag must survive normalization")
	}
}

type degradedFetcher struct{ fakeFetcher }

func (f *degradedFetcher) GroupScheduleDay(ctx context.Context, groupID int, date string, opts api.Options) (api.Result, error) {
	return api.Result{Data: json.RawMessage(`{"schedule":{"1":{"title":"x"}}}`), Degraded: true}, nil
}

func TestDayWrongShapePayloadIsEmptyNotError(t *testing.T) {
	f := &fakeFetcher{payloads: map[string]string{
		"02-09-2024": `{"schedule": []}`,
	}}
	a := New(testCfg(), f)

	d, err := a.Day(context.Background(), student, date(2024, 9, 2), api.Options{})
	if err != nil {
		t.Fatalf("quirky payload must not fail the day: %v", err)
	}
	if !d.IsEmpty() {
		t.Errorf("expected empty day, got %v", d.Lessons)
	}
}

func TestWeekAllDaysSucceed(t *testing.T) {
	f := &fakeFetcher{payloads: map[string]string{
		"02-09-2024": `{"schedule":{"1":{"title":"ТРПЗ"}}}`,
	}}
	a := New(testCfg(), f)

	w, err := a.Week(context.Background(), student, date(2024, 9, 4), api.Options{})
	if err != nil {
		t.Fatalf("week: %v", err)
	}
	if w.SuccessCount != 5 {
		t.Errorf("SuccessCount = %d, want 5", w.SuccessCount)
	}
	if w.Partial() {
		t.Error("full week must not be partial")
	}
	if FormatAPIDate(w.Start) != "02-09-2024" || FormatAPIDate(w.End) != "06-09-2024" {
		t.Errorf("unexpected span %s – %s", FormatAPIDate(w.Start), FormatAPIDate(w.End))
	}
}

func TestWeekPartialFailure(t *testing.T) {
	boom := errors.New("boom")
	f := &fakeFetcher{failDates: map[string]error{
		"03-09-2024": boom, // Tuesday
		"05-09-2024": boom, // Thursday
	}}
	a := New(testCfg(), f)

	w, err := a.Week(context.Background(), student, date(2024, 9, 2), api.Options{})
	if err != nil {
		t.Fatalf("partial week must not fail: %v", err)
	}
	if w.SuccessCount != 3 {
		t.Errorf("SuccessCount = %d, want 3", w.SuccessCount)
	}
	if !w.Partial() {
		t.Error("week with failed days must be partial")
	}
	if !w.Days[1].Failed() || !w.Days[3].Failed() {
		t.Error("failure markers on wrong days")
	}
	if w.Days[0].Failed() || w.Days[0].Day == nil {
		t.Error("Monday should have loaded")
	}
}

func TestWeekAllDaysFail(t *testing.T) {
	boom := errors.New("boom")
	f := &fakeFetcher{failDates: map[string]error{
		"02-09-2024": boom, "03-09-2024": boom, "04-09-2024": boom,
		"05-09-2024": boom, "06-09-2024": boom,
	}}
	a := New(testCfg(), f)

	_, err := a.Week(context.Background(), student, date(2024, 9, 2), api.Options{})
	if !errors.Is(err, ErrAllDaysFailed) {
		t.Fatalf("expected ErrAllDaysFailed, got %v", err)
	}
}

func TestRangeExcludesWeekends(t *testing.T) {
	f := &fakeFetcher{}
	a := New(testCfg(), f)

	// Mon 2024-09-02 .. Sun 2024-09-08
	r, err := a.Range(context.Background(), student, date(2024, 9, 2), date(2024, 9, 8), api.Options{})
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(r.Days) != 5 {
		t.Fatalf("expected 5 business days, got %d", len(r.Days))
	}
	want := []string{"02-09-2024", "03-09-2024", "04-09-2024", "05-09-2024", "06-09-2024"}
	for i, dr := range r.Days {
		if FormatAPIDate(dr.Date) != want[i] {
			t.Errorf("day %d = %s, want %s", i, FormatAPIDate(dr.Date), want[i])
		}
	}
	if r.Oversized() {
		t.Error("5-day range must not be oversized")
	}
}

func TestRangeReversedIsEmpty(t *testing.T) {
	a := New(testCfg(), &fakeFetcher{})

	r, err := a.Range(context.Background(), student, date(2024, 9, 8), date(2024, 9, 2), api.Options{})
	if err != nil {
		t.Fatalf("reversed range must not error: %v", err)
	}
	if len(r.Days) != 0 || r.SuccessCount != 0 {
		t.Errorf("expected empty result, got %d days", len(r.Days))
	}
}

func TestRangeOversized(t *testing.T) {
	a := New(testCfg(), &fakeFetcher{})

	// Four full weeks = 20 business days
	r, err := a.Range(context.Background(), student, date(2024, 9, 2), date(2024, 9, 27), api.Options{})
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(r.Days) != 20 {
		t.Fatalf("expected 20 business days, got %d", len(r.Days))
	}
	if !r.Oversized() {
		t.Error("20-day range must be flagged oversized")
	}
}

func TestExportDayContainsLessons(t *testing.T) {
	cfg := testCfg()
	cfg.Bells[0] = config.Bell{Number: 1, Start: "08:30", End: "09:50"}
	cfg.Messages.NoLessons = "Занять немає"

	d := &Day{
		Subject: student,
		Date:    date(2024, 9, 2),
		Lessons: map[int]Lesson{1: {Title: "ТРПЗ", Type: "lecture", Counterpart: "Іваненко І.І.", Room: "215"}},
	}

	text := ExportDay(cfg, d)
	for _, want := range []string{"КН-21", "02-09-2024", "ТРПЗ", "08:30-09:50", "215"} {
		if !contains(text, want) {
			t.Errorf("export missing %q:\n%s", want, text)
		}
	}
}

func TestExportWeekMarksFailedDays(t *testing.T) {
	cfg := testCfg()
	cfg.Messages.DayFailed = "Не вдалося завантажити розклад"
	cfg.Messages.NoLessons = "Занять немає"

	w := &Week{
		Subject: student,
		Start:   date(2024, 9, 2),
		End:     date(2024, 9, 6),
		Days: []DayResult{
			{Date: date(2024, 9, 2), Day: &Day{Date: date(2024, 9, 2), Lessons: map[int]Lesson{1: {Title: "Фізика"}}}},
			{Date: date(2024, 9, 3), Err: errors.New("boom")},
		},
		SuccessCount: 1,
	}

	text := ExportWeek(cfg, w)
	if !contains(text, "Фізика") {
		t.Errorf("export missing lesson:\n%s", text)
	}
	if !contains(text, cfg.Messages.DayFailed) {
		t.Errorf("export missing failure marker:\n%s", text)
	}
}

func contains(s, sub string) bool { return strings.Contains(s, sub) }
