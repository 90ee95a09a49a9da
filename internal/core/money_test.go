package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"50000", 5000000, true},
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"12.3449", 1234, true}, // rounds down
		{"12.3456", 1235, true}, // rounds up
		{"50.000", 5000000, true}, // thousands dot
		{"Rp 50.000", 5000000, true},
		{"1.234.567", 123456700, true},
		{"1.234,56", 123456, true},
		{"50.5", 5050, true}, // short trailing run stays decimal
		{"Rp 50,000", 5000000, true},
		{"(12.34)", 1234, true},
		{"$ 5", 500, true},
		{"1,234.50", 123450, true},
		{"0", 0, false},
		{"0.00", 0, false},
		{"-5", 0, false},
		{"+5", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"1.2.3", 0, false},
		{"Rp", 0, false},
	}
	for _, tc := range cases {
		m, err := ParseAmount(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("ParseAmount(%q): unexpected error %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseAmount(%q): expected error, got %d", tc.in, m.Cents)
		}
		if tc.ok && m.Cents != tc.cents {
			t.Fatalf("ParseAmount(%q) = %d, want %d", tc.in, m.Cents, tc.cents)
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 150}
	b := Money{Cents: 100}
	if got := a.Add(b).Cents; got != 250 {
		t.Fatalf("Add = %d, want 250", got)
	}
	if got := b.Sub(a).Cents; got != -50 {
		t.Fatalf("Sub = %d, want -50", got)
	}
	if !(Money{}).IsZero() {
		t.Fatal("zero money should report IsZero")
	}
	if got := (Money{Cents: 5000050}).Units(); got != 50000 {
		t.Fatalf("Units = %d, want 50000", got)
	}
}
