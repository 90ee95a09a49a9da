// Package storage implements the persistence contract on SQLite:
// users, expenses and categories with the default-category seed
// applied by migration.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"quillie/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a referenced row does not exist.
// Callers treat it as "no data", not as a fault.
var ErrNotFound = errors.New("not found")

const timeFormat = time.RFC3339

type Repository struct {
	db *sql.DB
}

func Open(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// FindUserByTelegramID looks a user up by the external account id.
func (r *Repository) FindUserByTelegramID(ctx context.Context, telegramUserID int64) (core.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, telegram_user_id, username, first_name, last_name,
		       is_active, weekly_report_enabled, monthly_budget_cents, created_at
		FROM users WHERE telegram_user_id = ?`, telegramUserID)
	return scanUser(row)
}

// UpsertUser registers a first-time user or refreshes the profile of
// an existing one. Re-registering reactivates a soft-deactivated user
// and re-enables weekly reports, matching /start semantics.
func (r *Repository) UpsertUser(ctx context.Context, telegramUserID int64, username, firstName, lastName string) (core.User, error) {
	now := time.Now().UTC().Format(timeFormat)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (telegram_user_id, username, first_name, last_name, is_active, weekly_report_enabled, created_at)
		VALUES (?, ?, ?, ?, 1, 1, ?)
		ON CONFLICT(telegram_user_id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			is_active = 1,
			weekly_report_enabled = 1`,
		telegramUserID, username, firstName, lastName, now)
	if err != nil {
		return core.User{}, fmt.Errorf("upsert user: %w", err)
	}
	return r.FindUserByTelegramID(ctx, telegramUserID)
}

// SetActive soft-activates or soft-deactivates a user.
func (r *Repository) SetActive(ctx context.Context, userID int64, active bool) error {
	return r.updateUserFlag(ctx, userID, "is_active", active)
}

// SetWeeklyOptIn toggles the weekly report subscription.
func (r *Repository) SetWeeklyOptIn(ctx context.Context, userID int64, enabled bool) error {
	return r.updateUserFlag(ctx, userID, "weekly_report_enabled", enabled)
}

func (r *Repository) updateUserFlag(ctx context.Context, userID int64, column string, value bool) error {
	v := 0
	if value {
		v = 1
	}
	res, err := r.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE users SET %s = ? WHERE id = ?", column), v, userID)
	if err != nil {
		return fmt.Errorf("update %s: %w", column, err)
	}
	return requireRow(res)
}

// SetMonthlyBudget sets or clears (nil) the monthly budget.
func (r *Repository) SetMonthlyBudget(ctx context.Context, userID int64, budget *core.Money) error {
	var cents any
	if budget != nil {
		cents = budget.Cents
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET monthly_budget_cents = ? WHERE id = ?", cents, userID)
	if err != nil {
		return fmt.Errorf("set monthly budget: %w", err)
	}
	return requireRow(res)
}

// CreateExpense records a validated expense.
func (r *Repository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (user_id, amount_cents, category, description, expense_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.UserID, e.Amount.Cents, e.Category, e.Description,
		e.Date.Format(time.DateOnly), now.Format(timeFormat))
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense id: %w", err)
	}
	e.ID = id
	e.CreatedAt = now
	return e, nil
}

// CreateExpenseAndCategory records an expense together with the
// user-owned category it introduces, in one transaction: either both
// rows land or neither does. A category that already exists for the
// user is reused, so retries never duplicate it.
func (r *Repository) CreateExpenseAndCategory(ctx context.Context, e core.Expense, newCategory string) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Expense{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if newCategory != "" {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO categories (name, user_id, is_default)
			VALUES (?, ?, 0)
			ON CONFLICT(user_id, name) DO NOTHING`,
			newCategory, e.UserID)
		if err != nil {
			return core.Expense{}, fmt.Errorf("create category: %w", err)
		}
	}

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO expenses (user_id, amount_cents, category, description, expense_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.UserID, e.Amount.Cents, e.Category, e.Description,
		e.Date.Format(time.DateOnly), now.Format(timeFormat))
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return core.Expense{}, fmt.Errorf("commit: %w", err)
	}
	e.ID = id
	e.CreatedAt = now
	return e, nil
}

// ListExpensesInRange returns a user's expenses with calendar dates
// inside [start, end], both inclusive.
func (r *Repository) ListExpensesInRange(ctx context.Context, userID int64, start, end time.Time) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, amount_cents, category, description, expense_date, created_at
		FROM expenses
		WHERE user_id = ? AND expense_date >= ? AND expense_date <= ?
		ORDER BY expense_date, id`,
		userID, start.Format(time.DateOnly), end.Format(time.DateOnly))
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var (
			e          core.Expense
			dateStr    string
			createdStr string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount.Cents, &e.Category,
			&e.Description, &dateStr, &createdStr); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if e.Date, err = time.ParseInLocation(time.DateOnly, dateStr, time.UTC); err != nil {
			return nil, fmt.Errorf("parse expense date: %w", err)
		}
		e.CreatedAt, _ = time.Parse(timeFormat, createdStr)
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// ListCategories returns the union of the default category set and
// the user's own categories, deduplicated and sorted by name so the
// same set always comes back in the same shape.
func (r *Repository) ListCategories(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name FROM categories
		WHERE is_default = 1 OR user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]struct{})
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// CreateCategory records a user-owned category. Creating a label the
// user already has is a no-op.
func (r *Repository) CreateCategory(ctx context.Context, userID int64, name string) error {
	if err := core.ValidateCategory(name); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (name, user_id, is_default)
		VALUES (?, ?, 0)
		ON CONFLICT(user_id, name) DO NOTHING`, name, userID)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// ListWeeklyReportUsers returns every active user opted into the
// weekly report.
func (r *Repository) ListWeeklyReportUsers(ctx context.Context) ([]core.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, telegram_user_id, username, first_name, last_name,
		       is_active, weekly_report_enabled, monthly_budget_cents, created_at
		FROM users
		WHERE is_active = 1 AND weekly_report_enabled = 1
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list weekly report users: %w", err)
	}
	defer rows.Close()

	var users []core.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (core.User, error) {
	var (
		u          core.User
		active     int
		weekly     int
		budget     sql.NullInt64
		createdStr string
	)
	err := row.Scan(&u.ID, &u.TelegramUserID, &u.Username, &u.FirstName,
		&u.LastName, &active, &weekly, &budget, &createdStr)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("scan user: %w", err)
	}
	u.IsActive = active != 0
	u.WeeklyReportEnabled = weekly != 0
	if budget.Valid {
		u.MonthlyBudget = &core.Money{Cents: budget.Int64}
	}
	u.CreatedAt, _ = time.Parse(timeFormat, createdStr)
	return u, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
