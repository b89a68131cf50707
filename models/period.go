package models

import (
	"time"
)

// Period is an inclusive [Start, End] time range.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DayPeriod covers the calendar day of t in loc.
func DayPeriod(t time.Time, loc *time.Location) Period {
	start := startOfDay(t, loc)
	return Period{Start: start, End: start.AddDate(0, 0, 1).Add(-time.Nanosecond)}
}

// MonthPeriod covers the calendar month of t in loc.
func MonthPeriod(t time.Time, loc *time.Location) Period {
	d := startOfDay(t, loc)
	start := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
	return Period{Start: start, End: start.AddDate(0, 1, 0).Add(-time.Nanosecond)}
}

// LastDays covers n whole days ending with the day of end.
func LastDays(end time.Time, n int, loc *time.Location) Period {
	if n < 1 {
		n = 1
	}
	last := DayPeriod(end, loc)
	return Period{Start: last.Start.AddDate(0, 0, -(n - 1)), End: last.End}
}

func ParseDay(s string, loc *time.Location) (Period, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(dayLayout, s, loc)
	if err != nil {
		return Period{}, &ValidationError{Field: "date", Message: "must be YYYY-MM-DD"}
	}
	return DayPeriod(t, loc), nil
}

func ParseMonth(s string, loc *time.Location) (Period, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation("2006-01", s, loc)
	if err != nil {
		return Period{}, &ValidationError{Field: "month", Message: "must be YYYY-MM"}
	}
	return MonthPeriod(t, loc), nil
}

// Days lists the start of every calendar day in p.
func (p Period) Days() []time.Time {
	var out []time.Time
	for d := startOfDay(p.Start, p.Start.Location()); !d.After(p.End); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(dayLayout)
}
