package stats

import (
	"fmt"
	"time"

	"dry-cleaner/internal/model"
)

// RangeKind names a report period.
type RangeKind string

const (
	RangeToday  RangeKind = "today"
	RangeWeek   RangeKind = "week"
	RangeMonth  RangeKind = "month"
	RangeYear   RangeKind = "year"
	RangeCustom RangeKind = "custom"
)

// Period selects the orders a report covers. Start and End are only read for
// RangeCustom and only their calendar dates matter.
type Period struct {
	Kind  RangeKind
	Start time.Time
	End   time.Time
}

// DateRange is an inclusive window of instants.
type DateRange struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// Contains reports whether t falls inside the range, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.StartDate) && !t.After(r.EndDate)
}

// ParseRangeKind validates a raw report type.
func ParseRangeKind(raw string) (RangeKind, error) {
	switch k := RangeKind(raw); k {
	case RangeToday, RangeWeek, RangeMonth, RangeYear, RangeCustom:
		return k, nil
	}
	return "", model.NewValidationError(fmt.Sprintf("unknown report type %q", raw))
}

// Title returns the human title printed on a report of the given kind.
func Title(kind RangeKind) string {
	switch kind {
	case RangeToday:
		return "Today's Report"
	case RangeWeek:
		return "Weekly Report"
	case RangeMonth:
		return "Monthly Report"
	case RangeYear:
		return "Yearly Report"
	case RangeCustom:
		return "Custom Date Range Report"
	default:
		return "Business Report"
	}
}

// Resolve turns the period into concrete bounds in now's location.
// Weeks start on Monday; the week range ends at the end of today.
func (p Period) Resolve(now time.Time) (DateRange, error) {
	loc := now.Location()
	today := StartOfDay(now)

	switch p.Kind {
	case RangeToday:
		return DateRange{StartDate: today, EndDate: EndOfDay(now)}, nil

	case RangeWeek:
		diff := int(today.Weekday()) - 1
		if today.Weekday() == time.Sunday {
			diff = 6
		}
		return DateRange{StartDate: today.AddDate(0, 0, -diff), EndDate: EndOfDay(now)}, nil

	case RangeMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc)
		last := time.Date(today.Year(), today.Month()+1, 0, 0, 0, 0, 0, loc)
		return DateRange{StartDate: first, EndDate: EndOfDay(last)}, nil

	case RangeYear:
		first := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, loc)
		last := time.Date(today.Year(), time.December, 31, 0, 0, 0, 0, loc)
		return DateRange{StartDate: first, EndDate: EndOfDay(last)}, nil

	case RangeCustom:
		if p.Start.IsZero() || p.End.IsZero() {
			return DateRange{}, fmt.Errorf("%w: custom range requires start and end dates", model.ErrInvalidRange)
		}
		start := StartOfDay(p.Start.In(loc))
		end := EndOfDay(p.End.In(loc))
		if StartOfDay(p.End.In(loc)).Before(start) {
			return DateRange{}, model.ErrInvalidRange
		}
		return DateRange{StartDate: start, EndDate: end}, nil
	}

	return DateRange{}, model.NewValidationError(fmt.Sprintf("unknown report type %q", p.Kind))
}

// StartOfDay returns midnight at the start of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// SameDay compares calendar dates of a and b as seen from loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
