package storage

import (
	"context"
	"fmt"

	"spendwise/internal/core"
)

// ExpenseFilter narrows ListExpenses. Zero values mean "no constraint".
type ExpenseFilter struct {
	StartDate       core.Date
	EndDate         core.Date
	CategoryID      int64
	Spender         string
	PaymentMethodID int64
}

const expenseColumns = `
	e.id, e.user_id, e.category_id, e.amount_cents, e.description, e.date,
	e.spender, e.payment_method_id, COALESCE(e.recurring_expense_id, 0),
	e.created_at, e.updated_at,
	c.name, c.color, p.name
FROM expenses e
JOIN categories c ON c.id = e.category_id
JOIN payment_methods p ON p.id = e.payment_method_id`

func scanExpense(row interface{ Scan(...any) error }) (core.Expense, error) {
	var e core.Expense
	err := row.Scan(
		&e.ID, &e.UserID, &e.CategoryID, &e.Amount.Cents, &e.Description, &e.Date,
		&e.Spender, &e.PaymentMethodID, &e.RecurringExpenseID,
		&e.CreatedAt, &e.UpdatedAt,
		&e.CategoryName, &e.CategoryColor, &e.PaymentMethodName,
	)
	return e, err
}

// CreateExpense inserts a realized expense and returns it with the joined
// category and payment method names.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	var recurringID any
	if e.RecurringExpenseID != 0 {
		recurringID = e.RecurringExpenseID
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (user_id, category_id, amount_cents, description, date,
			spender, payment_method_id, recurring_expense_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.UserID, e.CategoryID, e.Amount.Cents, e.Description, e.Date,
		e.Spender, e.PaymentMethodID, recurringID,
	)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense insert id: %w", err)
	}
	return r.GetExpense(ctx, e.UserID, id)
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, userID, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` WHERE e.id = ? AND e.user_id = ?`, id, userID)
	e, err := scanExpense(row)
	if isNoRows(err) {
		return core.Expense{}, notFound("expense")
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// UpdateExpense overwrites every user-editable field; it is a full overwrite,
// not a patch merge (last write wins).
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE expenses
		SET category_id = ?, amount_cents = ?, description = ?, date = ?,
			spender = ?, payment_method_id = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?`,
		e.CategoryID, e.Amount.Cents, e.Description, e.Date,
		e.Spender, e.PaymentMethodID, e.ID, e.UserID,
	)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Expense{}, notFound("expense")
	}
	return r.GetExpense(ctx, e.UserID, e.ID)
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("expense")
	}
	return nil
}

// ListExpenses returns the user's expenses newest first, optionally narrowed
// by date range, category, spender or payment method.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, userID int64, f ExpenseFilter) ([]core.Expense, error) {
	query := `SELECT ` + expenseColumns + ` WHERE e.user_id = ?`
	args := []any{userID}

	if !f.StartDate.IsZero() {
		query += ` AND e.date >= ?`
		args = append(args, f.StartDate)
	}
	if !f.EndDate.IsZero() {
		query += ` AND e.date <= ?`
		args = append(args, f.EndDate)
	}
	if f.CategoryID != 0 {
		query += ` AND e.category_id = ?`
		args = append(args, f.CategoryID)
	}
	if f.Spender != "" {
		query += ` AND e.spender = ?`
		args = append(args, f.Spender)
	}
	if f.PaymentMethodID != 0 {
		query += ` AND e.payment_method_id = ?`
		args = append(args, f.PaymentMethodID)
	}
	query += ` ORDER BY e.date DESC, e.created_at DESC`

	return r.queryExpenses(ctx, query, args...)
}

// RecentExpenses returns the newest n expenses across all time.
func (r *SQLiteRepository) RecentExpenses(ctx context.Context, userID int64, n int) ([]core.Expense, error) {
	query := `SELECT ` + expenseColumns + `
		WHERE e.user_id = ?
		ORDER BY e.date DESC, e.created_at DESC
		LIMIT ?`
	return r.queryExpenses(ctx, query, userID, n)
}

// CountExpensesByCategory reports how many expenses reference a category;
// used to warn before a blocked delete.
func (r *SQLiteRepository) CountExpensesByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM expenses WHERE category_id = ?`, categoryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count expenses by category: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) queryExpenses(ctx context.Context, query string, args ...any) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}
