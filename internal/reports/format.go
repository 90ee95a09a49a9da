// Package reports builds the user-facing spending reports: period
// summaries, the weekly comparison, budget status and the CSV export.
package reports

import (
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"quillie/internal/core"
)

const currencySymbol = "Rp "

// FormatCurrency renders an amount the Indonesian way, dot as the
// thousands separator: Rp 50.000. Fractional cents are rare for IDR
// and only shown when present.
func FormatCurrency(m core.Money) string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	units := cents / 100
	frac := cents % 100

	s := fmt.Sprintf("%d", units)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := sign + currencySymbol + b.String()
	if frac != 0 {
		out += fmt.Sprintf(",%02d", frac)
	}
	return out
}

// FormatDateRange renders a window header: a single date collapses to
// one term, otherwise "15 Jul - 21 Jul 2024".
func FormatDateRange(start, end time.Time) string {
	if start.Equal(end) {
		return start.Format("02 Jan 2006")
	}
	return fmt.Sprintf("%s - %s", start.Format("02 Jan"), end.Format("02 Jan 2006"))
}

// FormatSummary renders the aggregation result: total plus the
// per-category breakdown sorted by subtotal descending. An empty
// window gets its own message, not a zero line.
func FormatSummary(sum core.Summary) string {
	if sum.IsEmpty() {
		return "❌ Tidak ada pengeluaran pada periode ini."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Total: %s\n", FormatCurrency(sum.Total))
	b.WriteString("──────────────────\n")
	for _, cs := range sum.ByCategory {
		fmt.Fprintf(&b, "  %s: %s (%d%%)\n", cs.Name, FormatCurrency(cs.Amount), cs.Percent)
	}
	return b.String()
}

// FormatComparison renders the week-over-week line.
func FormatComparison(c core.Comparison) string {
	var text, marker string
	switch c.Direction {
	case core.DirectionNew:
		text = "100% (baru)"
		marker = "🆕"
	case core.DirectionIncrease:
		text = fmt.Sprintf("%+.0f%%", c.ChangePercent)
		marker = "📈"
	case core.DirectionDecrease:
		text = fmt.Sprintf("%+.0f%%", c.ChangePercent)
		marker = "📉"
	default:
		text = "0% (tidak berubah)"
		marker = "➡️"
	}
	return fmt.Sprintf("📈 vs minggu lalu: %s %s", text, marker)
}

// FormatReport assembles a full period report: header, summary and
// the optional comparison line.
func FormatReport(periodName string, w core.Window, sum core.Summary, cmp *core.Comparison) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Laporan %s (%s)\n\n", periodName, FormatDateRange(w.Start, w.End))
	b.WriteString(FormatSummary(sum))
	if cmp != nil {
		b.WriteString("\n")
		b.WriteString(FormatComparison(*cmp))
	}
	return b.String()
}

// FormatBudget renders the budget status message with the four-tier
// classification.
func FormatBudget(st core.BudgetStatus) string {
	if !st.Configured {
		return "❌ Budget belum diatur. Gunakan /set_budget untuk mengatur budget bulanan."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "💰 Budget bulanan: %s\n", FormatCurrency(st.Budget))
	fmt.Fprintf(&b, "💳 Terpakai: %s (%.1f%%)\n", FormatCurrency(st.Spent), st.Percent)
	fmt.Fprintf(&b, "✅ Sisa: %s\n", FormatCurrency(st.Remaining))

	switch st.Tier {
	case core.TierExceeded:
		b.WriteString("🔴 Status: ⚠️ Budget terlampaui!")
	case core.TierNearLimit:
		b.WriteString("🔴 Status: ⚠️ Mendekati batas budget!")
	case core.TierApproaching:
		b.WriteString("🟡 Status: ⚠️ Budget hampir habis")
	default:
		b.WriteString("🟢 Status: ✅ Masih aman")
	}
	return b.String()
}

// FormatCategories renders the numbered category list.
func FormatCategories(names []string) string {
	if len(names) == 0 {
		return "❌ Tidak ada kategori."
	}
	var b strings.Builder
	b.WriteString("🏷️ Kategori:\n")
	for i, name := range names {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, name)
	}
	return b.String()
}

// FormatExpenseSaved is the confirmation text after a commit.
func FormatExpenseSaved(e core.Expense) string {
	var b strings.Builder
	b.WriteString("✅ Pengeluaran tercatat!\n")
	fmt.Fprintf(&b, "💰 %s\n", FormatCurrency(e.Amount))
	fmt.Fprintf(&b, "🏷️ %s\n", e.Category)
	if e.Description != "" {
		fmt.Fprintf(&b, "📝 %s\n", e.Description)
	}
	fmt.Fprintf(&b, "📅 %s", e.Date.Format("02 Jan 2006"))
	return b.String()
}

// FormatCSV renders expenses as CSV for the export command.
func FormatCSV(expenses []core.Expense) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.Write([]string{"date", "amount", "category", "description"})
	for _, e := range expenses {
		_ = w.Write([]string{
			e.Date.Format(time.DateOnly),
			fmt.Sprintf("%.2f", float64(e.Amount.Cents)/100),
			e.Category,
			e.Description,
		})
	}
	w.Flush()
	return b.String()
}
