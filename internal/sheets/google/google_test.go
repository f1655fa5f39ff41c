package google

import (
	"context"
	"testing"

	"spendwise/internal/core"
)

func TestExpenseRows(t *testing.T) {
	rows := ExpenseRows([]core.Expense{
		{
			Date:              "2024-03-09",
			Description:       "weekly shop",
			CategoryName:      "Food",
			Spender:           "Alice",
			PaymentMethodName: "Credit Card",
			Amount:            core.Money{Cents: 1250},
		},
	})

	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header + 1", len(rows))
	}
	if rows[0][0] != "Date" || rows[0][5] != "Amount" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	want := []any{"2024-03-09", "weekly shop", "Food", "Alice", "Credit Card", "12.50"}
	for i, cell := range want {
		if rows[1][i] != cell {
			t.Errorf("rows[1][%d] = %v, want %v", i, rows[1][i], cell)
		}
	}
}

func TestExpenseRowsEmpty(t *testing.T) {
	rows := ExpenseRows(nil)
	if len(rows) != 1 {
		t.Errorf("empty export should still carry the header, got %d rows", len(rows))
	}
}

func TestNewClientValidation(t *testing.T) {
	ctx := context.Background()

	if _, err := NewClient(ctx, Config{SheetName: "Expenses", CredentialsJSON: "{}"}); err == nil {
		t.Error("expected error for missing spreadsheet ID")
	}
	if _, err := NewClient(ctx, Config{SpreadsheetID: "abc", CredentialsJSON: "{}"}); err == nil {
		t.Error("expected error for missing sheet name")
	}
	if _, err := NewClient(ctx, Config{SpreadsheetID: "abc", SheetName: "Expenses"}); err == nil {
		t.Error("expected error for missing credentials")
	}
}
