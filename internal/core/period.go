package core

import (
	"fmt"
	"time"
)

// Window is a resolved reporting interval. Both bounds are inclusive
// calendar dates.
type Window struct {
	Label string
	Start time.Time
	End   time.Time
}

// Period tokens accepted by ResolvePeriod.
const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// ResolvePeriod turns a period token or an explicit ISO date pair into
// a concrete window. It is a pure function of today and the arguments:
//
//	nil or []                  -> [today, today]
//	["week"]                   -> Monday..Sunday of the current week
//	["month"]                  -> first..last day of the current month
//	["year"]                   -> Jan 1..Dec 31 of the current year
//	["2024-01-01","2024-01-31"] -> the given custom range
//
// Anything else returns ErrInvalidPeriod; the caller is expected to
// turn that into a usage message, never a crash.
func ResolvePeriod(args []string, today time.Time) (Window, error) {
	today = DateOnly(today)

	switch len(args) {
	case 0:
		return Window{Label: PeriodToday, Start: today, End: today}, nil
	case 1:
		return resolveToken(args[0], today)
	case 2:
		return resolveCustom(args[0], args[1])
	default:
		return Window{}, fmt.Errorf("%w: expected a period keyword or two dates", ErrInvalidPeriod)
	}
}

func resolveToken(token string, today time.Time) (Window, error) {
	switch token {
	case PeriodToday:
		return Window{Label: PeriodToday, Start: today, End: today}, nil

	case PeriodWeek:
		return WeekOf(today), nil

	case PeriodMonth:
		start := NewDate(today.Year(), int(today.Month()), 1)
		var end time.Time
		if today.Month() == time.December {
			end = NewDate(today.Year(), 12, 31)
		} else {
			firstOfNext := NewDate(today.Year(), int(today.Month())+1, 1)
			end = firstOfNext.AddDate(0, 0, -1)
		}
		return Window{Label: PeriodMonth, Start: start, End: end}, nil

	case PeriodYear:
		return Window{
			Label: PeriodYear,
			Start: NewDate(today.Year(), 1, 1),
			End:   NewDate(today.Year(), 12, 31),
		}, nil

	default:
		return Window{}, fmt.Errorf("%w: unknown period %q", ErrInvalidPeriod, token)
	}
}

func resolveCustom(startStr, endStr string) (Window, error) {
	start, err := time.ParseInLocation(time.DateOnly, startStr, time.UTC)
	if err != nil {
		return Window{}, fmt.Errorf("%w: bad start date %q", ErrInvalidPeriod, startStr)
	}
	end, err := time.ParseInLocation(time.DateOnly, endStr, time.UTC)
	if err != nil {
		return Window{}, fmt.Errorf("%w: bad end date %q", ErrInvalidPeriod, endStr)
	}
	if start.After(end) {
		return Window{}, fmt.Errorf("%w: start date after end date", ErrInvalidPeriod)
	}
	return Window{Label: "custom", Start: start, End: end}, nil
}

// WeekOf returns the Monday..Sunday window containing the given date.
func WeekOf(day time.Time) Window {
	day = DateOnly(day)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	start := day.AddDate(0, 0, -offset)
	return Window{Label: PeriodWeek, Start: start, End: start.AddDate(0, 0, 6)}
}

// PreviousWeek shifts a weekly window back by seven days.
func PreviousWeek(w Window) Window {
	return Window{
		Label: w.Label,
		Start: w.Start.AddDate(0, 0, -7),
		End:   w.End.AddDate(0, 0, -7),
	}
}
