package core

import "testing"

func TestCompareTotals(t *testing.T) {
	cases := []struct {
		name      string
		current   int64
		previous  int64
		change    float64
		direction Direction
	}{
		{"both zero", 0, 0, 0, DirectionNoChange},
		{"new spend", 5000000, 0, 100, DirectionNew},
		{"increase", 15000, 10000, 50, DirectionIncrease},
		{"decrease", 5000, 10000, -50, DirectionDecrease},
		{"no change", 10000, 10000, 0, DirectionNoChange},
		{"drop to zero", 0, 10000, -100, DirectionDecrease},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := CompareTotals(Money{Cents: tc.current}, Money{Cents: tc.previous})
			if c.Direction != tc.direction {
				t.Fatalf("direction = %s, want %s", c.Direction, tc.direction)
			}
			if c.ChangePercent != tc.change {
				t.Fatalf("change = %v, want %v", c.ChangePercent, tc.change)
			}
		})
	}
}
