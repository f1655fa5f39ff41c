package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"spendwise/internal/core"
)

func TestExpenseCreateValidation(t *testing.T) {
	repo, user, cat, pm := newTestEnv(t)
	svc := NewExpenseService(repo, nil)
	ctx := context.Background()

	valid := core.Expense{
		CategoryID:      cat.ID,
		Amount:          core.Money{Cents: 1500},
		Date:            "2024-03-10",
		Spender:         "Alice",
		PaymentMethodID: pm.ID,
	}

	tests := []struct {
		name    string
		mutate  func(e *core.Expense)
		wantErr error
	}{
		{"zero amount", func(e *core.Expense) { e.Amount.Cents = 0 }, core.ErrInvalidAmount},
		{"negative amount", func(e *core.Expense) { e.Amount.Cents = -100 }, core.ErrInvalidAmount},
		{"bad date", func(e *core.Expense) { e.Date = "10/03/2024" }, core.ErrInvalidDate},
		{"missing category", func(e *core.Expense) { e.CategoryID = 0 }, core.ErrMissingCategory},
		{"missing spender", func(e *core.Expense) { e.Spender = "  " }, core.ErrMissingSpender},
		{"missing payment method", func(e *core.Expense) { e.PaymentMethodID = 0 }, core.ErrMissingPaymentMethod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			if _, err := svc.Create(ctx, user.ID, e); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	created, err := svc.Create(ctx, user.ID, valid)
	if err != nil {
		t.Fatalf("Create valid expense: %v", err)
	}
	if created.CategoryName == "" || created.PaymentMethodName == "" {
		t.Errorf("expected denormalized names on create, got %+v", created)
	}
}

func TestExpenseCreateIgnoresTemplateLink(t *testing.T) {
	repo, user, cat, pm := newTestEnv(t)
	svc := NewExpenseService(repo, nil)

	created, err := svc.Create(context.Background(), user.ID, core.Expense{
		CategoryID:         cat.ID,
		Amount:             core.Money{Cents: 800},
		Date:               "2024-03-11",
		Spender:            "Bob",
		PaymentMethodID:    pm.ID,
		RecurringExpenseID: 42,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	// Manual entries never claim a template; only Confirm sets the link.
	if created.RecurringExpenseID != 0 {
		t.Errorf("RecurringExpenseID = %d, want 0", created.RecurringExpenseID)
	}
}

func TestReportServiceMonthlySummary(t *testing.T) {
	repo, user, cat, pm := newTestEnv(t)
	expSvc := NewExpenseService(repo, nil)
	ctx := context.Background()

	add := func(cents int64, date core.Date, spender string) {
		t.Helper()
		if _, err := expSvc.Create(ctx, user.ID, core.Expense{
			CategoryID:      cat.ID,
			Amount:          core.Money{Cents: cents},
			Date:            date,
			Spender:         spender,
			PaymentMethodID: pm.ID,
		}); err != nil {
			t.Fatalf("Create expense: %v", err)
		}
	}
	add(1000, "2024-03-05", "Alice")
	add(2500, "2024-03-20", "Bob")
	add(9999, "2024-04-01", "Alice") // outside the window

	svc := NewReportService(repo)
	summary, err := svc.MonthlySummary(ctx, user.ID, 2024, 3)
	if err != nil {
		t.Fatalf("MonthlySummary: %v", err)
	}
	if summary.Total.Cents != 3500 {
		t.Errorf("Total = %d, want 3500", summary.Total.Cents)
	}
	if summary.Count != 2 {
		t.Errorf("Count = %d, want 2", summary.Count)
	}
}

func TestReportServiceDashboard(t *testing.T) {
	repo, user, cat, pm := newTestEnv(t)
	expSvc := NewExpenseService(repo, nil)
	ctx := context.Background()

	for _, e := range []struct {
		cents int64
		date  core.Date
	}{
		{1000, "2024-03-02"},
		{500, "2024-03-02"},
		{300, "2024-03-07"},
	} {
		if _, err := expSvc.Create(ctx, user.ID, core.Expense{
			CategoryID:      cat.ID,
			Amount:          core.Money{Cents: e.cents},
			Date:            e.date,
			Spender:         "Alice",
			PaymentMethodID: pm.ID,
		}); err != nil {
			t.Fatalf("Create expense: %v", err)
		}
	}

	svc := NewReportService(repo)
	svc.now = func() time.Time { return time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC) }

	dash, err := svc.Dashboard(ctx, user.ID)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if dash.Month.Total.Cents != 1800 {
		t.Errorf("month total = %d, want 1800", dash.Month.Total.Cents)
	}
	if dash.AverageDaily.Cents != 120 {
		t.Errorf("average daily = %d, want 1800 over 15 elapsed days = 120", dash.AverageDaily.Cents)
	}
	if len(dash.Daily) != 2 {
		t.Fatalf("got %d daily buckets, want 2", len(dash.Daily))
	}
	if dash.Daily[0].Date != "2024-03-02" || dash.Daily[0].Total.Cents != 1500 {
		t.Errorf("Daily[0] = %+v, want 2024-03-02/1500", dash.Daily[0])
	}
	if len(dash.Recent) != 3 {
		t.Errorf("got %d recent expenses, want 3", len(dash.Recent))
	}
}
