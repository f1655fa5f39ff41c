// Package sheets defines the outbound port for spreadsheet export.
package sheets

import (
	"context"

	"spendwise/internal/core"
)

// Exporter replaces the target sheet's contents with the given expenses and
// reports how many data rows were written (header excluded).
type Exporter interface {
	ExportExpenses(ctx context.Context, expenses []core.Expense) (rows int, err error)
}
