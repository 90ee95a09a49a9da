// Package core holds the domain model and the report calculations:
// period resolution, aggregation, week-over-week comparison and
// budget tracking. Everything here is pure; "today" is always passed
// in by the caller.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// currencySymbols are stripped before parsing an amount. Parentheses
// and thousands separators are stripped too; a dot outside a grouped
// run (or a comma acting as the only decimal mark) separates cents.
var currencySymbols = []string{"Rp", "rp", "IDR", "$", "€", "£"}

// ParseAmount converts user input to cents with half-up rounding on
// the third decimal digit. It tolerates currency punctuation,
// including the Indonesian thousands dot:
//
//	ParseAmount("50000")       -> 5000000, nil
//	ParseAmount("Rp 50.000")   -> 5000000, nil
//	ParseAmount("Rp 50,000")   -> 5000000, nil
//	ParseAmount("1.234.567")   -> 123456700, nil
//	ParseAmount("(12.34)")     -> 1234, nil
//	ParseAmount("12,34")       -> 1234, nil
//
// Zero, negative and malformed inputs return ErrInvalidAmount.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	for _, sym := range currencySymbols {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.Map(func(r rune) rune {
		if r == '(' || r == ')' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed
		return Money{}, ErrInvalidAmount
	}

	// Dots grouping digits in threes are thousands separators, the
	// Indonesian convention ("50.000", "1.234.567"); a dot trailed by
	// one or two digits stays a decimal mark ("50.5", "12.34").
	s = dropThousandsDots(s)

	// A single comma with no dot is a decimal mark ("12,34");
	// otherwise commas are thousands separators and dropped.
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") &&
		len(s)-strings.Index(s, ",") <= 3 {
		s = strings.Replace(s, ",", ".", 1)
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	if !allDigits(intPart) || !allDigits(fracPart) {
		return Money{}, ErrInvalidAmount
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return Money{}, ErrInvalidAmount
	}

	// Take first two fractional digits; half-up rounding on the third.
	var fracCents int64
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracCents = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracCents += d2
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}

	cents := iv*100 + fracCents
	if cents <= 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents}, nil
}

// dropThousandsDots removes dots from the integer part when they form
// a grouped run: a 1..3 digit head with every dot followed by exactly
// three digits. Anything else is left for the decimal-mark logic.
func dropThousandsDots(s string) string {
	head := s
	if i := strings.IndexByte(s, ','); i >= 0 {
		head = s[:i]
	}
	parts := strings.Split(head, ".")
	if len(parts) < 2 {
		return s
	}
	if len(parts[0]) == 0 || len(parts[0]) > 3 || !allDigits(parts[0]) {
		return s
	}
	for _, p := range parts[1:] {
		if len(p) != 3 || !allDigits(p) {
			return s
		}
	}
	return strings.ReplaceAll(head, ".", "") + s[len(head):]
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Units returns the whole-currency part of the amount.
func (m Money) Units() int64 {
	return m.Cents / 100
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Sub returns m minus other; the result may be negative.
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.Cents == 0
}
