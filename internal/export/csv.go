// Package export renders expense lists as downloadable documents.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"spendwise/internal/core"
)

var csvHeader = []string{"Date", "Description", "Category", "Spender", "Payment Method", "Amount"}

// WriteCSV writes expenses as CSV, one row per expense in input order.
// Amounts are plain decimals; the currency is the profile's concern, not the
// file's.
func WriteCSV(w io.Writer, expenses []core.Expense) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}
	for _, e := range expenses {
		row := []string{
			string(e.Date),
			e.Description,
			e.CategoryName,
			e.Spender,
			e.PaymentMethodName,
			e.Amount.Decimal(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush CSV: %w", err)
	}
	return nil
}

// Filename returns the suggested download name for an export generated on
// the given date.
func Filename(date core.Date) string {
	return fmt.Sprintf("spendwise-export-%s.csv", date)
}
