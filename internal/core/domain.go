package core

import (
	"errors"
	"strings"
	"time"
)

const (
	MaxCategoryLen    = 50
	MaxDescriptionLen = 500
)

type (
	Money struct {
		Cents int64
	}

	// User is a registered account, keyed by the Telegram user id.
	// Users are never hard-deleted: IsActive is flipped instead.
	User struct {
		ID                  int64
		TelegramUserID      int64
		Username            string
		FirstName           string
		LastName            string
		IsActive            bool
		WeeklyReportEnabled bool
		MonthlyBudget       *Money // nil when no budget is configured
		CreatedAt           time.Time
	}

	// Expense is immutable once recorded. Date is a calendar date,
	// not a timestamp.
	Expense struct {
		ID          int64
		UserID      int64
		Amount      Money
		Category    string
		Description string // empty means no description
		Date        time.Time
		CreatedAt   time.Time
	}

	// Category is either a global default (UserID == 0, IsDefault)
	// or owned by a single user.
	Category struct {
		ID        int64
		Name      string
		UserID    int64
		IsDefault bool
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidPeriod   = errors.New("invalid period")
	ErrLongDescription = errors.New("description too long")
)

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateCategory checks a category label after trimming: nonempty
// and at most MaxCategoryLen characters.
func ValidateCategory(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrInvalidCategory
	}
	if len([]rune(trimmed)) > MaxCategoryLen {
		return ErrInvalidCategory
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if err := ValidateCategory(e.Category); err != nil {
		return err
	}
	if len([]rune(e.Description)) > MaxDescriptionLen {
		return ErrLongDescription
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// NewDate builds a calendar date at midnight UTC.
func NewDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// DateOnly truncates a timestamp to its calendar date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
