package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"spendwise/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "spendwise_test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func newTestUser(t *testing.T, repo *SQLiteRepository) core.Profile {
	t.Helper()
	p, err := repo.CreateProfile(context.Background(), core.Profile{
		Name:          "Test Family",
		FamilyMembers: []string{"Alice", "Bob"},
		Currency:      "EUR",
	})
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	return p
}

func defaultRefs(t *testing.T, repo *SQLiteRepository, userID int64) (core.Category, core.PaymentMethod) {
	t.Helper()
	ctx := context.Background()
	cats, err := repo.ListCategories(ctx, userID)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(cats) == 0 {
		t.Fatal("expected seeded default categories")
	}
	methods, err := repo.ListPaymentMethods(ctx, userID)
	if err != nil {
		t.Fatalf("ListPaymentMethods: %v", err)
	}
	if len(methods) == 0 {
		t.Fatal("expected seeded default payment methods")
	}
	return cats[0], methods[0]
}

func TestMigrationsSeedDefaults(t *testing.T) {
	repo := newTestRepo(t)
	user := newTestUser(t, repo)

	cat, pm := defaultRefs(t, repo, user.ID)
	if !cat.IsDefault || cat.UserID != 0 {
		t.Errorf("expected shared default category, got %+v", cat)
	}
	if !pm.IsDefault || pm.UserID != 0 {
		t.Errorf("expected shared default payment method, got %+v", pm)
	}
}

func TestExpenseRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	user := newTestUser(t, repo)
	cat, pm := defaultRefs(t, repo, user.ID)

	created, err := repo.CreateExpense(ctx, core.Expense{
		UserID:          user.ID,
		CategoryID:      cat.ID,
		Amount:          core.Money{Cents: 1250},
		Description:     "weekly shop",
		Date:            "2024-03-09",
		Spender:         "Alice",
		PaymentMethodID: pm.ID,
	})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if created.CategoryName != cat.Name {
		t.Errorf("denormalized category name = %q, want %q", created.CategoryName, cat.Name)
	}
	if created.PaymentMethodName != pm.Name {
		t.Errorf("denormalized payment method name = %q, want %q", created.PaymentMethodName, pm.Name)
	}

	// Full overwrite update.
	created.Description = "weekly shop (corrected)"
	created.Amount = core.Money{Cents: 1300}
	updated, err := repo.UpdateExpense(ctx, created)
	if err != nil {
		t.Fatalf("UpdateExpense: %v", err)
	}
	if updated.Amount.Cents != 1300 || updated.Description != "weekly shop (corrected)" {
		t.Errorf("update not applied: %+v", updated)
	}

	if err := repo.DeleteExpense(ctx, user.ID, created.ID); err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}
	if _, err := repo.GetExpense(ctx, user.ID, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestListExpensesFilters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	user := newTestUser(t, repo)
	cat, pm := defaultRefs(t, repo, user.ID)

	dates := []core.Date{"2024-01-10", "2024-02-10", "2024-03-10"}
	spenders := []string{"Alice", "Bob", "Alice"}
	for i, d := range dates {
		_, err := repo.CreateExpense(ctx, core.Expense{
			UserID: user.ID, CategoryID: cat.ID, Amount: core.Money{Cents: 100},
			Date: d, Spender: spenders[i], PaymentMethodID: pm.ID,
		})
		if err != nil {
			t.Fatalf("CreateExpense: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter ExpenseFilter
		want   int
	}{
		{"no filter", ExpenseFilter{}, 3},
		{"date range", ExpenseFilter{StartDate: "2024-02-01", EndDate: "2024-02-29"}, 1},
		{"spender", ExpenseFilter{Spender: "Alice"}, 2},
		{"range and spender", ExpenseFilter{StartDate: "2024-01-01", EndDate: "2024-01-31", Spender: "Bob"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ListExpenses(ctx, user.ID, tt.filter)
			if err != nil {
				t.Fatalf("ListExpenses: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d expenses, want %d", len(got), tt.want)
			}
		})
	}

	// Newest first.
	all, err := repo.ListExpenses(ctx, user.ID, ExpenseFilter{})
	if err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if all[0].Date != "2024-03-10" {
		t.Errorf("expected newest first, got %q", all[0].Date)
	}
}

func TestDeleteCategoryBlockedByExpenses(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	user := newTestUser(t, repo)
	_, pm := defaultRefs(t, repo, user.ID)

	used, err := repo.CreateCategory(ctx, core.Category{
		UserID: user.ID, Name: "Hobby", Icon: "gamepad", Color: "#111111",
	})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	unused, err := repo.CreateCategory(ctx, core.Category{
		UserID: user.ID, Name: "Misc", Icon: "tag", Color: "#222222",
	})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	if _, err := repo.CreateExpense(ctx, core.Expense{
		UserID: user.ID, CategoryID: used.ID, Amount: core.Money{Cents: 500},
		Date: "2024-05-01", Spender: "Alice", PaymentMethodID: pm.ID,
	}); err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	if err := repo.DeleteCategory(ctx, user.ID, used.ID); !errors.Is(err, core.ErrCategoryInUse) {
		t.Errorf("expected ErrCategoryInUse, got %v", err)
	}
	if err := repo.DeleteCategory(ctx, user.ID, unused.ID); err != nil {
		t.Errorf("expected unreferenced delete to succeed, got %v", err)
	}
}

func TestDefaultReferenceRowsImmutable(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	user := newTestUser(t, repo)
	cat, pm := defaultRefs(t, repo, user.ID)

	cat.Name = "renamed"
	if _, err := repo.UpdateCategory(ctx, cat); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected default category update to be rejected, got %v", err)
	}
	if err := repo.DeletePaymentMethod(ctx, user.ID, pm.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected default payment method delete to be rejected, got %v", err)
	}
}

func TestRecurringAdvance(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	user := newTestUser(t, repo)
	cat, pm := defaultRefs(t, repo, user.ID)

	re, err := repo.CreateRecurring(ctx, core.RecurringExpense{
		UserID: user.ID, CategoryID: cat.ID, Amount: core.Money{Cents: 4500},
		Spender: "Bob", PaymentMethodID: pm.ID, Frequency: core.Monthly,
		StartDate: "2024-01-31", NextDueDate: "2024-01-31",
		EndDate: "2024-02-28", IsActive: true,
	})
	if err != nil {
		t.Fatalf("CreateRecurring: %v", err)
	}

	if err := repo.AdvanceRecurring(ctx, user.ID, re.ID, "2024-02-29", true); err != nil {
		t.Fatalf("AdvanceRecurring: %v", err)
	}
	got, err := repo.GetRecurring(ctx, user.ID, re.ID)
	if err != nil {
		t.Fatalf("GetRecurring: %v", err)
	}
	if got.NextDueDate != "2024-02-29" {
		t.Errorf("next_due_date = %q, want 2024-02-29", got.NextDueDate)
	}
	if got.IsActive {
		t.Error("expected template deactivated")
	}

	// Reactivation does not recompute the due date.
	if err := repo.SetRecurringActive(ctx, user.ID, re.ID, true); err != nil {
		t.Fatalf("SetRecurringActive: %v", err)
	}
	got, err = repo.GetRecurring(ctx, user.ID, re.ID)
	if err != nil {
		t.Fatalf("GetRecurring: %v", err)
	}
	if !got.IsActive || got.NextDueDate != "2024-02-29" {
		t.Errorf("reactivated template = active %v due %q", got.IsActive, got.NextDueDate)
	}
}

func TestActivityLogPagination(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	user := newTestUser(t, repo)

	for i := 0; i < 3; i++ {
		if err := repo.InsertActivity(ctx, core.ActivityLog{
			UserID:     user.ID,
			EntityType: core.EntityExpense,
			EntityID:   int64(i + 1),
			Action:     core.ActionCreated,
		}); err != nil {
			t.Fatalf("InsertActivity: %v", err)
		}
	}
	if err := repo.InsertActivity(ctx, core.ActivityLog{
		UserID:     user.ID,
		EntityType: core.EntityCategory,
		EntityID:   9,
		Action:     core.ActionDeleted,
	}); err != nil {
		t.Fatalf("InsertActivity: %v", err)
	}

	all, err := repo.ListActivity(ctx, user.ID, ActivityFilter{}, 10, 0)
	if err != nil {
		t.Fatalf("ListActivity: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("got %d logs, want 4", len(all))
	}

	expensesOnly, err := repo.ListActivity(ctx, user.ID, ActivityFilter{EntityType: core.EntityExpense}, 10, 0)
	if err != nil {
		t.Fatalf("ListActivity: %v", err)
	}
	if len(expensesOnly) != 3 {
		t.Errorf("entity filter: got %d, want 3", len(expensesOnly))
	}

	page, err := repo.ListActivity(ctx, user.ID, ActivityFilter{}, 2, 2)
	if err != nil {
		t.Fatalf("ListActivity: %v", err)
	}
	if len(page) != 2 {
		t.Errorf("pagination: got %d, want 2", len(page))
	}
}
