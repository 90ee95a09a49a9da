package core

import (
	"errors"
	"testing"
	"time"
)

func TestResolvePeriodTokens(t *testing.T) {
	// Wednesday
	today := NewDate(2024, 7, 17)

	cases := []struct {
		args  []string
		start time.Time
		end   time.Time
	}{
		{nil, NewDate(2024, 7, 17), NewDate(2024, 7, 17)},
		{[]string{"today"}, NewDate(2024, 7, 17), NewDate(2024, 7, 17)},
		{[]string{"week"}, NewDate(2024, 7, 15), NewDate(2024, 7, 21)},
		{[]string{"month"}, NewDate(2024, 7, 1), NewDate(2024, 7, 31)},
		{[]string{"year"}, NewDate(2024, 1, 1), NewDate(2024, 12, 31)},
		{[]string{"2024-01-01", "2024-01-31"}, NewDate(2024, 1, 1), NewDate(2024, 1, 31)},
	}
	for _, tc := range cases {
		w, err := ResolvePeriod(tc.args, today)
		if err != nil {
			t.Fatalf("ResolvePeriod(%v): %v", tc.args, err)
		}
		if !w.Start.Equal(tc.start) || !w.End.Equal(tc.end) {
			t.Fatalf("ResolvePeriod(%v) = [%v, %v], want [%v, %v]",
				tc.args, w.Start, w.End, tc.start, tc.end)
		}
		if w.Start.After(w.End) {
			t.Fatalf("ResolvePeriod(%v): start after end", tc.args)
		}
	}
}

func TestResolvePeriodWeekStartsMonday(t *testing.T) {
	// Every day of one week must resolve to the same Monday.
	monday := NewDate(2024, 7, 15)
	for i := 0; i < 7; i++ {
		w, err := ResolvePeriod([]string{"week"}, monday.AddDate(0, 0, i))
		if err != nil {
			t.Fatalf("day %d: %v", i, err)
		}
		if !w.Start.Equal(monday) {
			t.Fatalf("day %d: week starts %v, want %v", i, w.Start, monday)
		}
		if w.Start.Weekday() != time.Monday {
			t.Fatalf("day %d: week starts on %v", i, w.Start.Weekday())
		}
	}
}

func TestResolvePeriodMonthEnds(t *testing.T) {
	cases := []struct {
		today time.Time
		end   time.Time
	}{
		{NewDate(2024, 12, 5), NewDate(2024, 12, 31)}, // December rollover
		{NewDate(2024, 2, 10), NewDate(2024, 2, 29)},  // leap February
		{NewDate(2023, 2, 10), NewDate(2023, 2, 28)},  // non-leap February
		{NewDate(2024, 4, 1), NewDate(2024, 4, 30)},
		{NewDate(2024, 11, 30), NewDate(2024, 11, 30)},
	}
	for _, tc := range cases {
		w, err := ResolvePeriod([]string{"month"}, tc.today)
		if err != nil {
			t.Fatalf("month of %v: %v", tc.today, err)
		}
		if !w.End.Equal(tc.end) {
			t.Fatalf("month of %v ends %v, want %v", tc.today, w.End, tc.end)
		}
	}
}

func TestResolvePeriodInvalid(t *testing.T) {
	today := NewDate(2024, 7, 17)
	bad := [][]string{
		{"yesterday"},
		{"2024-01-01"},
		{"2024-01-01", "not-a-date"},
		{"notadate", "2024-01-31"},
		{"2024-01-31", "2024-01-01"}, // start after end
		{"2024-01-01", "2024-01-31", "2024-02-01"},
	}
	for _, args := range bad {
		if _, err := ResolvePeriod(args, today); !errors.Is(err, ErrInvalidPeriod) {
			t.Fatalf("ResolvePeriod(%v): expected ErrInvalidPeriod, got %v", args, err)
		}
	}
}

func TestPreviousWeek(t *testing.T) {
	w := WeekOf(NewDate(2024, 7, 17))
	prev := PreviousWeek(w)
	if !prev.Start.Equal(NewDate(2024, 7, 8)) || !prev.End.Equal(NewDate(2024, 7, 14)) {
		t.Fatalf("PreviousWeek = [%v, %v]", prev.Start, prev.End)
	}
}
