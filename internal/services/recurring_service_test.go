package services

import (
	"context"
	"path/filepath"
	"testing"

	"spendwise/internal/core"
	"spendwise/internal/storage"
)

func newTestEnv(t *testing.T) (*storage.SQLiteRepository, core.Profile, core.Category, core.PaymentMethod) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "spendwise_test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	ctx := context.Background()
	user, err := repo.CreateProfile(ctx, core.Profile{
		Name:          "Test Family",
		FamilyMembers: []string{"Alice", "Bob"},
		Currency:      "EUR",
	})
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	cats, err := repo.ListCategories(ctx, user.ID)
	if err != nil || len(cats) == 0 {
		t.Fatalf("ListCategories: %v (%d rows)", err, len(cats))
	}
	methods, err := repo.ListPaymentMethods(ctx, user.ID)
	if err != nil || len(methods) == 0 {
		t.Fatalf("ListPaymentMethods: %v (%d rows)", err, len(methods))
	}
	return repo, user, cats[0], methods[0]
}

func newTemplate(cat core.Category, pm core.PaymentMethod, freq core.Frequency, start, end core.Date) core.RecurringExpense {
	return core.RecurringExpense{
		CategoryID:      cat.ID,
		Amount:          core.Money{Cents: 999},
		Description:     "streaming subscription",
		Spender:         "Alice",
		PaymentMethodID: pm.ID,
		Frequency:       freq,
		StartDate:       start,
		EndDate:         end,
	}
}

func TestRecurringCreateInitializesDueDate(t *testing.T) {
	repo, user, cat, pm := newTestEnv(t)
	svc := NewRecurringService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, user.ID, newTemplate(cat, pm, core.Monthly, "2024-05-10", ""))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.NextDueDate != "2024-05-10" {
		t.Errorf("NextDueDate = %s, want start date 2024-05-10", created.NextDueDate)
	}
	if !created.IsActive {
		t.Error("new template should be active")
	}
}

func TestRecurringCreateValidation(t *testing.T) {
	repo, user, cat, pm := newTestEnv(t)
	svc := NewRecurringService(repo, nil)
	ctx := context.Background()

	re := newTemplate(cat, pm, core.Monthly, "2024-05-10", "2024-04-01")
	if _, err := svc.Create(ctx, user.ID, re); err != core.ErrEndBeforeStart {
		t.Errorf("Create with end before start: err = %v, want ErrEndBeforeStart", err)
	}

	re = newTemplate(cat, pm, "fortnightly", "2024-05-10", "")
	if _, err := svc.Create(ctx, user.ID, re); err != core.ErrInvalidFrequency {
		t.Errorf("Create with bad frequency: err = %v, want ErrInvalidFrequency", err)
	}
}

func TestRecurringUpdatePreservesScheduleState(t *testing.T) {
	repo, user, cat, pm := newTestEnv(t)
	svc := NewRecurringService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, user.ID, newTemplate(cat, pm, core.Monthly, "2024-05-10", ""))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Edit the template the way a handler does: only the user-editable
	// fields are populated, schedule state is absent from the payload.
	edit := newTemplate(cat, pm, core.Monthly, "2024-05-10", "")
	edit.ID = created.ID
	edit.Description = "streaming subscription (family plan)"
	edit.Amount = core.Money{Cents: 1499}

	updated, err := svc.Update(ctx, user.ID, edit)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Description != "streaming subscription (family plan)" || updated.Amount.Cents != 1499 {
		t.Errorf("edited fields not applied, got %+v", updated)
	}
	if updated.NextDueDate != "2024-05-10" {
		t.Errorf("NextDueDate after edit = %q, want untouched 2024-05-10", updated.NextDueDate)
	}
	if !updated.IsActive {
		t.Error("edit must not deactivate the template")
	}

	// The same holds once the schedule has advanced past the start date.
	if err := svc.Skip(ctx, user.ID, created.ID); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	edit.Description = "streaming subscription"
	updated, err = svc.Update(ctx, user.ID, edit)
	if err != nil {
		t.Fatalf("Update after skip: %v", err)
	}
	if updated.NextDueDate != "2024-06-10" {
		t.Errorf("NextDueDate after edit = %q, want advanced 2024-06-10", updated.NextDueDate)
	}
}

func TestConfirmCreatesExpenseAndAdvances(t *testing.T) {
	repo, user, cat, pm := newTestEnv(t)
	svc := NewRecurringService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, user.ID, newTemplate(cat, pm, core.Monthly, "2024-03-15", ""))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	expense, err := svc.Confirm(ctx, user.ID, created.ID)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	// The realized expense carries the pre-advance due date and the link
	// back to its template.
	if expense.Date != "2024-03-15" {
		t.Errorf("expense date = %s, want 2024-03-15", expense.Date)
	}
	if expense.RecurringExpenseID != created.ID {
		t.Errorf("expense template link = %d, want %d", expense.RecurringExpenseID, created.ID)
	}
	if expense.Amount.Cents != 999 || expense.Spender != "Alice" {
		t.Errorf("expense should copy template fields, got %+v", expense)
	}

	after, err := svc.Get(ctx, user.ID, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if after.NextDueDate != "2024-04-15" {
		t.Errorf("NextDueDate = %s, want 2024-04-15", after.NextDueDate)
	}
	if !after.IsActive {
		t.Error("template without end date should stay active")
	}

	all, err := repo.ListExpenses(ctx, user.ID, storage.ExpenseFilter{})
	if err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("confirm should create exactly one expense, got %d", len(all))
	}
}

func TestConfirmDeactivatesPastEndDate(t *testing.T) {
	repo, user, cat, pm := newTestEnv(t)
	svc := NewRecurringService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, user.ID, newTemplate(cat, pm, core.Monthly, "2024-01-31", "2024-02-28"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	expense, err := svc.Confirm(ctx, user.ID, created.ID)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if expense.Date != "2024-01-31" {
		t.Errorf("expense date = %s, want 2024-01-31", expense.Date)
	}

	after, err := svc.Get(ctx, user.ID, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	// Jan 31 + 1 month clamps to Feb 29 (2024 is a leap year), which is past
	// the Feb 28 end date, so the template turns inactive.
	if after.NextDueDate != "2024-02-29" {
		t.Errorf("NextDueDate = %s, want 2024-02-29", after.NextDueDate)
	}
	if after.IsActive {
		t.Error("template advanced past its end date should be inactive")
	}
}

func TestSkipAdvancesWithoutExpense(t *testing.T) {
	repo, user, cat, pm := newTestEnv(t)
	svc := NewRecurringService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, user.ID, newTemplate(cat, pm, core.Weekly, "2024-03-04", ""))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Skip(ctx, user.ID, created.ID); err != nil {
		t.Fatalf("Skip: %v", err)
	}

	after, err := svc.Get(ctx, user.ID, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if after.NextDueDate != "2024-03-11" {
		t.Errorf("NextDueDate = %s, want 2024-03-11", after.NextDueDate)
	}

	all, err := repo.ListExpenses(ctx, user.ID, storage.ExpenseFilter{})
	if err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("skip must not create expenses, got %d", len(all))
	}
}

func TestPendingSelection(t *testing.T) {
	repo, user, cat, pm := newTestEnv(t)
	svc := NewRecurringService(repo, nil)
	ctx := context.Background()

	due, err := svc.Create(ctx, user.ID, newTemplate(cat, pm, core.Monthly, "2024-03-01", ""))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	dueToday, err := svc.Create(ctx, user.ID, newTemplate(cat, pm, core.Monthly, "2024-03-15", ""))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, user.ID, newTemplate(cat, pm, core.Monthly, "2024-04-01", "")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	inactive, err := svc.Create(ctx, user.ID, newTemplate(cat, pm, core.Monthly, "2024-02-01", ""))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.ToggleActive(ctx, user.ID, inactive.ID); err != nil {
		t.Fatalf("ToggleActive: %v", err)
	}

	pending, err := svc.Pending(ctx, user.ID, "2024-03-15")
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("got %d pending templates, want 2", len(pending))
	}
	// Ascending by due date: the overdue one first, then today's.
	if pending[0].ID != due.ID || pending[1].ID != dueToday.ID {
		t.Errorf("pending order = [%d %d], want [%d %d]",
			pending[0].ID, pending[1].ID, due.ID, dueToday.ID)
	}
}

func TestToggleActivePreservesDueDate(t *testing.T) {
	repo, user, cat, pm := newTestEnv(t)
	svc := NewRecurringService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, user.ID, newTemplate(cat, pm, core.Monthly, "2024-01-01", ""))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	off, err := svc.ToggleActive(ctx, user.ID, created.ID)
	if err != nil {
		t.Fatalf("ToggleActive: %v", err)
	}
	if off.IsActive {
		t.Error("first toggle should deactivate")
	}

	on, err := svc.ToggleActive(ctx, user.ID, created.ID)
	if err != nil {
		t.Fatalf("ToggleActive: %v", err)
	}
	if !on.IsActive {
		t.Error("second toggle should reactivate")
	}
	// Reactivation resumes from the stored due date, even if far in the past.
	if on.NextDueDate != "2024-01-01" {
		t.Errorf("NextDueDate = %s, want untouched 2024-01-01", on.NextDueDate)
	}
}
