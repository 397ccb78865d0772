// Package schedule turns raw day-schedule payloads into fixed-shape values
// and composes them into week and date-range views.
package schedule

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"time"
)

// Role says which side of the schedule a subject is on.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Subject is whose schedule is being looked up: a group for students, an
// instructor for teachers.
type Subject struct {
	Role        Role
	ID          int
	DisplayName string
}

// Lesson is one normalized teaching slot. Every field is defaulted during
// normalization so rendering never meets a missing value.
type Lesson struct {
	Title       string
	Type        string
	Counterpart string // instructor name for students, group name for teachers
	Room        string
	Building    string
	Weeks       string
	WeekParity  string
	Notes       string
}

// DefaultLessonType is assumed when the payload carries no lesson type.
const DefaultLessonType = "practice"

const defaultTitle = "Предмет не вказано"

// Day is one subject-day of schedule, keyed by bell period number. A missing
// period simply means no lesson in that slot.
type Day struct {
	Subject  Subject
	Date     time.Time
	Lessons  map[int]Lesson
	Degraded bool
}

func (d *Day) IsEmpty() bool { return len(d.Lessons) == 0 }

// Periods returns the occupied period numbers in ascending order.
func (d *Day) Periods() []int {
	out := make([]int, 0, len(d.Lessons))
	for n := range d.Lessons {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// flexString tolerates the API's habit of sending numbers or null where a
// string belongs.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		*s = ""
		return nil
	}
	*s = flexString(n.String())
	return nil
}

type rawLesson struct {
	Title          flexString `json:"title"`
	Subject        flexString `json:"subject"`
	Type           flexString `json:"type"`
	InstructorName flexString `json:"instructorName"`
	Teacher        flexString `json:"teacher"`
	Group          flexString `json:"group"`
	Room           flexString `json:"room"`
	Classroom      flexString `json:"classroom"`
	Building       flexString `json:"building"`
	Weeks          flexString `json:"weeks"`
	EvenOrOdd      flexString `json:"evenOrOdd"`
	Notes          flexString `json:"notes"`
}

func firstNonEmpty(vals ...flexString) string {
	for _, v := range vals {
		if v != "" {
			return string(v)
		}
	}
	return ""
}

// normalizeLessons validates the period->lesson mapping of a raw payload.
// Decoding is tolerant: a payload whose envelope or schedule value is not an
// object counts as an empty day, and a lesson entry that is not an object is
// kept with every field defaulted. Period keys must be positive integers
// present in the bell table; anything else is dropped rather than failed.
func normalizeLessons(raw json.RawMessage, validPeriod func(int) bool) map[int]Lesson {
	lessons := make(map[int]Lesson)

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return lessons
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(envelope["schedule"], &entries); err != nil {
		return lessons
	}

	for key, rawEntry := range entries {
		n, err := strconv.Atoi(key)
		if err != nil || n <= 0 || !validPeriod(n) {
			continue
		}

		// A malformed entry leaves rl zero-valued and becomes a fully
		// defaulted lesson
		var rl rawLesson
		json.Unmarshal(rawEntry, &rl)

		l := Lesson{
			Title:       firstNonEmpty(rl.Title, rl.Subject),
			Type:        string(rl.Type),
			Counterpart: firstNonEmpty(rl.InstructorName, rl.Teacher, rl.Group),
			Room:        firstNonEmpty(rl.Room, rl.Classroom),
			Building:    string(rl.Building),
			Weeks:       string(rl.Weeks),
			WeekParity:  string(rl.EvenOrOdd),
			Notes:       string(rl.Notes),
		}
		if l.Title == "" {
			l.Title = defaultTitle
		}
		if l.Type == "" {
			l.Type = DefaultLessonType
		}
		lessons[n] = l
	}
	return lessons
}
