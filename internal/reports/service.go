package reports

import (
	"context"
	"fmt"
	"time"

	"quillie/internal/core"
	applog "quillie/internal/log"
)

// Store is the slice of the persistence contract the report engine
// needs.
type Store interface {
	FindUserByTelegramID(ctx context.Context, telegramUserID int64) (core.User, error)
	ListExpensesInRange(ctx context.Context, userID int64, start, end time.Time) ([]core.Expense, error)
	ListWeeklyReportUsers(ctx context.Context) ([]core.User, error)
}

// Sender delivers text to a user. Delivery failures are reported back
// as errors, logged by the caller, and never retried here.
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// Service computes reports over the store. "Today" comes from the
// injected clock so every window is reproducible in tests.
type Service struct {
	store  Store
	now    func() time.Time
	logger *applog.Logger
}

func NewService(store Store, now func() time.Time, logger *applog.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:  store,
		now:    now,
		logger: logger.WithComponent(applog.ComponentReports),
	}
}

// periodNames maps resolved window labels to display names.
var periodNames = map[string]string{
	core.PeriodToday: "Hari Ini",
	core.PeriodWeek:  "Minggu Ini",
	core.PeriodMonth: "Bulan Ini",
	core.PeriodYear:  "Tahun Ini",
	"custom":         "Custom",
}

// PeriodReport builds the report for a period token or custom date
// pair. A week report carries the week-over-week comparison.
// Unknown tokens surface core.ErrInvalidPeriod for the caller to turn
// into a usage message.
func (s *Service) PeriodReport(ctx context.Context, user core.User, args []string) (string, error) {
	window, err := core.ResolvePeriod(args, s.now())
	if err != nil {
		return "", err
	}

	expenses, err := s.store.ListExpensesInRange(ctx, user.ID, window.Start, window.End)
	if err != nil {
		return "", fmt.Errorf("list expenses: %w", err)
	}
	summary := core.Summarize(expenses)

	var cmp *core.Comparison
	if window.Label == core.PeriodWeek {
		prev := core.PreviousWeek(window)
		prevExpenses, err := s.store.ListExpensesInRange(ctx, user.ID, prev.Start, prev.End)
		if err != nil {
			return "", fmt.Errorf("list previous week: %w", err)
		}
		c := core.CompareTotals(summary.Total, core.Summarize(prevExpenses).Total)
		cmp = &c
	}

	s.logger.DebugContext(ctx, "period report built",
		applog.FieldUserID, user.ID,
		applog.FieldPeriod, window.Label)

	return FormatReport(periodNames[window.Label], window, summary, cmp), nil
}

// WeeklySummary is the computed weekly report for one user, before
// formatting. The dispatcher uses the totals for event publishing.
type WeeklySummary struct {
	Window   core.Window
	Summary  core.Summary
	Previous core.Summary
	Compare  core.Comparison
}

// WeeklySummaryFor computes the current-vs-previous week aggregates
// for one user.
func (s *Service) WeeklySummaryFor(ctx context.Context, user core.User) (WeeklySummary, error) {
	window := core.WeekOf(s.now())
	prev := core.PreviousWeek(window)

	current, err := s.store.ListExpensesInRange(ctx, user.ID, window.Start, window.End)
	if err != nil {
		return WeeklySummary{}, fmt.Errorf("list current week: %w", err)
	}
	previous, err := s.store.ListExpensesInRange(ctx, user.ID, prev.Start, prev.End)
	if err != nil {
		return WeeklySummary{}, fmt.Errorf("list previous week: %w", err)
	}

	ws := WeeklySummary{
		Window:   window,
		Summary:  core.Summarize(current),
		Previous: core.Summarize(previous),
	}
	ws.Compare = core.CompareTotals(ws.Summary.Total, ws.Previous.Total)
	return ws, nil
}

// FormatWeekly renders a weekly summary as the scheduled report body:
// either the full report plus comparison, or the distinct no-expenses
// message.
func FormatWeekly(ws WeeklySummary) string {
	if ws.Summary.IsEmpty() {
		return "📅 Laporan Mingguan\n\n" +
			"Minggu ini belum ada pengeluaran tercatat. " +
			"Terus catat pengeluaranmu untuk melihat pola belanjamu!"
	}
	body := FormatReport(periodNames[core.PeriodWeek], ws.Window, ws.Summary, &ws.Compare)
	return "📅 Laporan Mingguan\n\n" + body
}

// BudgetReport computes current-month spend against the user's
// monthly budget.
func (s *Service) BudgetReport(ctx context.Context, user core.User) (string, error) {
	window, err := core.ResolvePeriod([]string{core.PeriodMonth}, s.now())
	if err != nil {
		return "", err
	}
	expenses, err := s.store.ListExpensesInRange(ctx, user.ID, window.Start, window.End)
	if err != nil {
		return "", fmt.Errorf("list expenses: %w", err)
	}
	status := core.TrackBudget(user.MonthlyBudget, core.Summarize(expenses).Total)
	return FormatBudget(status), nil
}

// ExportCSV renders the user's expenses for a period as CSV text.
func (s *Service) ExportCSV(ctx context.Context, user core.User, args []string) (string, error) {
	if len(args) == 0 {
		args = []string{core.PeriodMonth}
	}
	window, err := core.ResolvePeriod(args, s.now())
	if err != nil {
		return "", err
	}
	expenses, err := s.store.ListExpensesInRange(ctx, user.ID, window.Start, window.End)
	if err != nil {
		return "", fmt.Errorf("list expenses: %w", err)
	}
	return FormatCSV(expenses), nil
}
