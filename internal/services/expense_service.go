package services

import (
	"context"
	"fmt"

	"spendwise/internal/amqp"
	"spendwise/internal/core"
	"spendwise/internal/storage"
)

// ExpenseService handles manual expense entry and maintenance. Expenses
// generated by confirming a recurring template go through RecurringService
// instead.
type ExpenseService struct {
	storage *storage.SQLiteRepository
	events  *amqp.Client
}

func NewExpenseService(storage *storage.SQLiteRepository, events *amqp.Client) *ExpenseService {
	return &ExpenseService{storage: storage, events: events}
}

func (s *ExpenseService) Create(ctx context.Context, userID int64, e core.Expense) (core.Expense, error) {
	e.UserID = userID
	e.RecurringExpenseID = 0

	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	created, err := s.storage.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	publishActivity(ctx, s.events, userID, core.EntityExpense, created.ID, core.ActionCreated, map[string]any{
		"description": created.Description,
		"amount":      created.Amount.Decimal(),
		"date":        created.Date,
	})
	return created, nil
}

func (s *ExpenseService) Get(ctx context.Context, userID, id int64) (core.Expense, error) {
	return s.storage.GetExpense(ctx, userID, id)
}

func (s *ExpenseService) List(ctx context.Context, userID int64, f storage.ExpenseFilter) ([]core.Expense, error) {
	return s.storage.ListExpenses(ctx, userID, f)
}

// Update overwrites every user-editable field; absent fields are cleared,
// not preserved. The link back to a generating template is kept as stored.
func (s *ExpenseService) Update(ctx context.Context, userID int64, e core.Expense) (core.Expense, error) {
	e.UserID = userID
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	updated, err := s.storage.UpdateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}

	publishActivity(ctx, s.events, userID, core.EntityExpense, updated.ID, core.ActionUpdated, map[string]any{
		"description": updated.Description,
		"amount":      updated.Amount.Decimal(),
	})
	return updated, nil
}

func (s *ExpenseService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.storage.DeleteExpense(ctx, userID, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	publishActivity(ctx, s.events, userID, core.EntityExpense, id, core.ActionDeleted, nil)
	return nil
}
