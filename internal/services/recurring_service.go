// Package services provides business logic and orchestration services.
//
// This file implements the recurring-expense lifecycle: pending detection,
// schedule advancement and the confirm/skip state transitions that turn a
// due occurrence into a realized expense (or step past it).
package services

import (
	"context"
	"fmt"
	"log/slog"

	"spendwise/internal/amqp"
	"spendwise/internal/core"
	"spendwise/internal/storage"
)

// RecurringService owns the set of recurring templates and transitions each
// one forward in time as occurrences are handled.
type RecurringService struct {
	storage *storage.SQLiteRepository
	events  *amqp.Client
}

func NewRecurringService(storage *storage.SQLiteRepository, events *amqp.Client) *RecurringService {
	return &RecurringService{storage: storage, events: events}
}

// List returns all of the user's templates, ascending by next due date.
func (s *RecurringService) List(ctx context.Context, userID int64) ([]core.RecurringExpense, error) {
	return s.storage.ListRecurring(ctx, userID)
}

func (s *RecurringService) Get(ctx context.Context, userID, id int64) (core.RecurringExpense, error) {
	return s.storage.GetRecurring(ctx, userID, id)
}

// Pending returns the templates with an occurrence awaiting action: active
// and due on or before today. Ordering follows the storage guarantee
// (ascending next due date).
func (s *RecurringService) Pending(ctx context.Context, userID int64, today core.Date) ([]core.RecurringExpense, error) {
	templates, err := s.storage.ListRecurring(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list recurring expenses: %w", err)
	}

	var pending []core.RecurringExpense
	for _, re := range templates {
		if re.Pending(today) {
			pending = append(pending, re)
		}
	}
	return pending, nil
}

// Create validates and persists a new template. The first occurrence is the
// start date itself.
func (s *RecurringService) Create(ctx context.Context, userID int64, re core.RecurringExpense) (core.RecurringExpense, error) {
	re.UserID = userID
	re.NextDueDate = re.StartDate
	re.IsActive = true

	if err := re.Validate(); err != nil {
		return core.RecurringExpense{}, err
	}

	created, err := s.storage.CreateRecurring(ctx, re)
	if err != nil {
		return core.RecurringExpense{}, fmt.Errorf("create recurring expense: %w", err)
	}

	publishActivity(ctx, s.events, userID, core.EntityRecurring, created.ID, core.ActionCreated, map[string]any{
		"description": created.Description,
		"amount":      created.Amount.Decimal(),
		"frequency":   created.Frequency,
	})
	return created, nil
}

// Update overwrites every user-editable field of the template (full
// overwrite, not a patch merge). Schedule state is owned by confirm, skip
// and toggle: an edit carries the stored next_due_date and is_active
// forward untouched.
func (s *RecurringService) Update(ctx context.Context, userID int64, re core.RecurringExpense) (core.RecurringExpense, error) {
	current, err := s.storage.GetRecurring(ctx, userID, re.ID)
	if err != nil {
		return core.RecurringExpense{}, err
	}
	re.UserID = userID
	re.NextDueDate = current.NextDueDate
	re.IsActive = current.IsActive
	if err := re.Validate(); err != nil {
		return core.RecurringExpense{}, err
	}

	updated, err := s.storage.UpdateRecurring(ctx, re)
	if err != nil {
		return core.RecurringExpense{}, fmt.Errorf("update recurring expense: %w", err)
	}

	publishActivity(ctx, s.events, userID, core.EntityRecurring, updated.ID, core.ActionUpdated, map[string]any{
		"description": updated.Description,
		"amount":      updated.Amount.Decimal(),
	})
	return updated, nil
}

func (s *RecurringService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.storage.DeleteRecurring(ctx, userID, id); err != nil {
		return fmt.Errorf("delete recurring expense: %w", err)
	}
	publishActivity(ctx, s.events, userID, core.EntityRecurring, id, core.ActionDeleted, nil)
	return nil
}

// Confirm realizes the template's pending occurrence as an expense and
// advances the schedule one frequency step. The expense is created first;
// if the template update then fails, the template stays pending and a
// retried confirm would duplicate the expense for the same due date. That
// at-least-once risk is accepted and surfaced to the caller, never hidden.
func (s *RecurringService) Confirm(ctx context.Context, userID, id int64) (core.Expense, error) {
	re, err := s.storage.GetRecurring(ctx, userID, id)
	if err != nil {
		return core.Expense{}, fmt.Errorf("get recurring expense: %w", err)
	}

	expense, err := s.storage.CreateExpense(ctx, core.Expense{
		UserID:             userID,
		CategoryID:         re.CategoryID,
		Amount:             re.Amount,
		Description:        re.Description,
		Date:               re.NextDueDate,
		Spender:            re.Spender,
		PaymentMethodID:    re.PaymentMethodID,
		RecurringExpenseID: re.ID,
	})
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense from template: %w", err)
	}

	if err := s.advance(ctx, re); err != nil {
		return expense, fmt.Errorf("expense %d recorded but template not advanced: %w", expense.ID, err)
	}

	slog.InfoContext(ctx, "Confirmed recurring occurrence",
		"recurring_id", re.ID,
		"expense_id", expense.ID,
		"due_date", re.NextDueDate,
		"amount_cents", re.Amount.Cents)

	publishActivity(ctx, s.events, userID, core.EntityRecurring, re.ID, core.ActionConfirmed, map[string]any{
		"due_date":   re.NextDueDate,
		"expense_id": expense.ID,
		"amount":     re.Amount.Decimal(),
	})
	return expense, nil
}

// Skip advances the schedule past the pending occurrence without creating an
// expense.
func (s *RecurringService) Skip(ctx context.Context, userID, id int64) error {
	re, err := s.storage.GetRecurring(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("get recurring expense: %w", err)
	}

	if err := s.advance(ctx, re); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Skipped recurring occurrence",
		"recurring_id", re.ID,
		"due_date", re.NextDueDate)

	publishActivity(ctx, s.events, userID, core.EntityRecurring, re.ID, core.ActionSkipped, map[string]any{
		"due_date": re.NextDueDate,
	})
	return nil
}

// advance moves next_due_date one frequency step and deactivates the
// template in the same update once the new date has passed the inclusive
// end date.
func (s *RecurringService) advance(ctx context.Context, re core.RecurringExpense) error {
	next := re.NextDueDate.Advance(re.Frequency)
	deactivate := !re.EndDate.IsZero() && next.After(re.EndDate)

	if err := s.storage.AdvanceRecurring(ctx, re.UserID, re.ID, next, deactivate); err != nil {
		return fmt.Errorf("advance template: %w", err)
	}
	return nil
}

// ToggleActive flips the active flag. The due date is deliberately left
// alone, so reactivating resumes from where the template left off and may
// make it pending again immediately.
func (s *RecurringService) ToggleActive(ctx context.Context, userID, id int64) (core.RecurringExpense, error) {
	re, err := s.storage.GetRecurring(ctx, userID, id)
	if err != nil {
		return core.RecurringExpense{}, fmt.Errorf("get recurring expense: %w", err)
	}

	if err := s.storage.SetRecurringActive(ctx, userID, id, !re.IsActive); err != nil {
		return core.RecurringExpense{}, fmt.Errorf("toggle recurring expense: %w", err)
	}
	return s.storage.GetRecurring(ctx, userID, id)
}
