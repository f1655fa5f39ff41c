package export

import (
	"strings"
	"testing"

	"spendwise/internal/core"
)

func TestWriteCSV(t *testing.T) {
	var sb strings.Builder
	err := WriteCSV(&sb, []core.Expense{
		{
			Date:              "2024-03-09",
			Description:       "weekly shop",
			CategoryName:      "Food",
			Spender:           "Alice",
			PaymentMethodName: "Credit Card",
			Amount:            core.Money{Cents: 1250},
		},
		{
			Date:              "2024-03-10",
			Description:       `says "hi", twice`,
			CategoryName:      "Other",
			Spender:           "Bob",
			PaymentMethodName: "Cash",
			Amount:            core.Money{Cents: 99},
		},
	})
	if err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[0] != "Date,Description,Category,Spender,Payment Method,Amount" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "2024-03-09,weekly shop,Food,Alice,Credit Card,12.50" {
		t.Errorf("row 1 = %q", lines[1])
	}
	// Quotes and commas must be escaped CSV-style.
	if lines[2] != `2024-03-10,"says ""hi"", twice",Other,Bob,Cash,0.99` {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var sb strings.Builder
	if err := WriteCSV(&sb, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if got := strings.TrimRight(sb.String(), "\n"); got != "Date,Description,Category,Spender,Payment Method,Amount" {
		t.Errorf("empty export = %q, want header only", got)
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("2024-03-09"); got != "spendwise-export-2024-03-09.csv" {
		t.Errorf("Filename = %q", got)
	}
}
