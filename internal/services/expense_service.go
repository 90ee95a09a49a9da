// Package services orchestrates multi-step operations that span
// storage and messaging, keeping handlers thin.
package services

import (
	"context"
	"fmt"
	"time"

	"quillie/internal/core"
	"quillie/internal/events"
	"quillie/internal/log"
)

// Store is the slice of the repository the expense service needs.
type Store interface {
	ListCategories(ctx context.Context, userID int64) ([]string, error)
	CreateExpenseAndCategory(ctx context.Context, e core.Expense, newCategory string) (core.Expense, error)
}

// ExpenseService commits expenses and announces them over AMQP.
type ExpenseService struct {
	store  Store
	events *events.Publisher
	logger *log.Logger
}

func NewExpenseService(store Store, publisher *events.Publisher, logger *log.Logger) *ExpenseService {
	return &ExpenseService{
		store:  store,
		events: publisher,
		logger: logger.WithComponent(log.ComponentEvents),
	}
}

// RecordExpense saves an expense. A category the user has never used
// before is created in the same transaction as the expense, so a
// failed commit leaves no stray category behind. The published event
// is best-effort: a broker failure never loses the expense.
func (s *ExpenseService) RecordExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	newCategory, err := s.categoryToCreate(ctx, e.UserID, e.Category)
	if err != nil {
		return core.Expense{}, err
	}

	saved, err := s.store.CreateExpenseAndCategory(ctx, e, newCategory)
	if err != nil {
		return core.Expense{}, fmt.Errorf("record expense: %w", err)
	}

	if err := s.events.PublishExpenseRecorded(ctx, events.ExpenseRecorded{
		ExpenseID:   saved.ID,
		UserID:      saved.UserID,
		AmountCents: saved.Amount.Cents,
		Category:    saved.Category,
		Date:        saved.Date.Format(time.DateOnly),
	}); err != nil {
		s.logger.WarnContext(ctx, "publish expense event failed",
			log.FieldUserID, saved.UserID,
			log.FieldError, err)
	}

	return saved, nil
}

// categoryToCreate returns the category name to insert alongside the
// expense, or "" when the user already has it.
func (s *ExpenseService) categoryToCreate(ctx context.Context, userID int64, category string) (string, error) {
	names, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("list categories: %w", err)
	}
	for _, name := range names {
		if name == category {
			return "", nil
		}
	}
	return category, nil
}
