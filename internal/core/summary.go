package core

import (
	"math"
	"sort"
)

// CategoryShare is one line of a per-category breakdown.
type CategoryShare struct {
	Name    string
	Amount  Money
	Percent int // share of the total, rounded for display
}

// Summary aggregates a set of expenses for one window: total spend
// and a per-category breakdown sorted by subtotal, descending.
type Summary struct {
	Total      Money
	Count      int
	ByCategory []CategoryShare
}

// IsEmpty reports whether the window had no expenses at all. An empty
// summary has a zero total and no breakdown entries, not a breakdown
// with a single zero line.
func (s Summary) IsEmpty() bool {
	return s.Count == 0
}

// Summarize computes the total and per-category breakdown of a set of
// expenses. Ties in subtotal are broken by category name so that one
// input set always yields one output order.
func Summarize(expenses []Expense) Summary {
	if len(expenses) == 0 {
		return Summary{}
	}

	var total Money
	subtotals := make(map[string]Money)
	for _, e := range expenses {
		total = total.Add(e.Amount)
		subtotals[e.Category] = subtotals[e.Category].Add(e.Amount)
	}

	shares := make([]CategoryShare, 0, len(subtotals))
	for name, amount := range subtotals {
		percent := 0
		if total.Cents > 0 {
			percent = int(math.Round(float64(amount.Cents) / float64(total.Cents) * 100))
		}
		shares = append(shares, CategoryShare{Name: name, Amount: amount, Percent: percent})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Amount.Cents != shares[j].Amount.Cents {
			return shares[i].Amount.Cents > shares[j].Amount.Cents
		}
		return shares[i].Name < shares[j].Name
	})

	return Summary{Total: total, Count: len(expenses), ByCategory: shares}
}
