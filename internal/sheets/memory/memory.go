// Package memory is an in-process Exporter used in tests and local runs
// without Google credentials.
package memory

import (
	"context"
	"sync"

	"spendwise/internal/core"
	ports "spendwise/internal/sheets"
)

type Exporter struct {
	mu       sync.Mutex
	exported []core.Expense
}

var _ ports.Exporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{}
}

// ExportExpenses replaces the stored snapshot, mirroring the clear-then-write
// behavior of the real spreadsheet exporter.
func (e *Exporter) ExportExpenses(_ context.Context, expenses []core.Expense) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.exported = make([]core.Expense, len(expenses))
	copy(e.exported, expenses)
	return len(expenses), nil
}

// Exported returns a copy of the last exported snapshot.
func (e *Exporter) Exported() []core.Expense {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]core.Expense, len(e.exported))
	copy(out, e.exported)
	return out
}
