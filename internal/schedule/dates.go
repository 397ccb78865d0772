package schedule

import "time"

// APIDateLayout is the DD-MM-YYYY form the remote API expects.
const APIDateLayout = "02-01-2006"

func FormatAPIDate(t time.Time) string {
	return t.Format(APIDateLayout)
}

func ParseAPIDate(s string) (time.Time, error) {
	return time.Parse(APIDateLayout, s)
}

// Monday returns the Monday of the ISO week (Monday-start) containing d.
func Monday(d time.Time) time.Time {
	wd := int(d.Weekday())
	if wd == 0 {
		wd = 7 // Sunday belongs to the week it ends
	}
	return truncateDay(d).AddDate(0, 0, 1-wd)
}

// WeekDates returns the Monday..Friday dates of the week containing d.
func WeekDates(d time.Time) []time.Time {
	mon := Monday(d)
	out := make([]time.Time, 5)
	for i := range out {
		out[i] = mon.AddDate(0, 0, i)
	}
	return out
}

// BusinessDays lists the Monday..Friday dates between start and end
// inclusive, ascending. A start after end yields an empty sequence.
func BusinessDays(start, end time.Time) []time.Time {
	var out []time.Time
	for d := truncateDay(start); !d.After(truncateDay(end)); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			out = append(out, d)
		}
	}
	return out
}

// WeekNumber is the 1-based academic week index of d counted from the
// academic-year start, clamped to [1, 52].
func WeekNumber(yearStart, d time.Time) int {
	const week = 7 * 24 * time.Hour
	diff := truncateDay(d).Sub(truncateDay(yearStart))
	n := int((diff + week - 1) / week)
	if n < 1 {
		return 1
	}
	if n > 52 {
		return 52
	}
	return n
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
