package storage

import (
	"context"
	"database/sql"
	"fmt"

	"spendwise/internal/core"
)

const recurringColumns = `
	re.id, re.user_id, re.category_id, re.amount_cents, re.description,
	re.spender, re.payment_method_id, re.frequency, re.start_date, re.end_date,
	re.is_active, re.next_due_date, re.created_at, re.updated_at,
	c.name, c.color, p.name
FROM recurring_expenses re
JOIN categories c ON c.id = re.category_id
JOIN payment_methods p ON p.id = re.payment_method_id`

func scanRecurring(row interface{ Scan(...any) error }) (core.RecurringExpense, error) {
	var re core.RecurringExpense
	var endDate sql.NullString
	err := row.Scan(
		&re.ID, &re.UserID, &re.CategoryID, &re.Amount.Cents, &re.Description,
		&re.Spender, &re.PaymentMethodID, &re.Frequency, &re.StartDate, &endDate,
		&re.IsActive, &re.NextDueDate, &re.CreatedAt, &re.UpdatedAt,
		&re.CategoryName, &re.CategoryColor, &re.PaymentMethodName,
	)
	if endDate.Valid {
		re.EndDate = core.Date(endDate.String)
	}
	return re, err
}

func nullableDate(d core.Date) any {
	if d.IsZero() {
		return nil
	}
	return d
}

func (r *SQLiteRepository) CreateRecurring(ctx context.Context, re core.RecurringExpense) (core.RecurringExpense, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO recurring_expenses (user_id, category_id, amount_cents, description,
			spender, payment_method_id, frequency, start_date, end_date, is_active, next_due_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		re.UserID, re.CategoryID, re.Amount.Cents, re.Description,
		re.Spender, re.PaymentMethodID, re.Frequency, re.StartDate,
		nullableDate(re.EndDate), re.IsActive, re.NextDueDate,
	)
	if err != nil {
		return core.RecurringExpense{}, fmt.Errorf("insert recurring expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.RecurringExpense{}, fmt.Errorf("recurring insert id: %w", err)
	}
	return r.GetRecurring(ctx, re.UserID, id)
}

func (r *SQLiteRepository) GetRecurring(ctx context.Context, userID, id int64) (core.RecurringExpense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+recurringColumns+` WHERE re.id = ? AND re.user_id = ?`, id, userID)
	re, err := scanRecurring(row)
	if isNoRows(err) {
		return core.RecurringExpense{}, notFound("recurring expense")
	}
	if err != nil {
		return core.RecurringExpense{}, fmt.Errorf("get recurring expense: %w", err)
	}
	return re, nil
}

// ListRecurring returns all of the user's templates ordered by ascending
// next due date, the ordering the pending scan relies on.
func (r *SQLiteRepository) ListRecurring(ctx context.Context, userID int64) ([]core.RecurringExpense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recurringColumns+` WHERE re.user_id = ? ORDER BY re.next_due_date ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query recurring expenses: %w", err)
	}
	defer rows.Close()

	var templates []core.RecurringExpense
	for rows.Next() {
		re, err := scanRecurring(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recurring expense: %w", err)
		}
		templates = append(templates, re)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recurring expenses: %w", err)
	}
	return templates, nil
}

// UpdateRecurring overwrites every user-editable field (full overwrite,
// last write wins).
func (r *SQLiteRepository) UpdateRecurring(ctx context.Context, re core.RecurringExpense) (core.RecurringExpense, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE recurring_expenses
		SET category_id = ?, amount_cents = ?, description = ?, spender = ?,
			payment_method_id = ?, frequency = ?, start_date = ?, end_date = ?,
			is_active = ?, next_due_date = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?`,
		re.CategoryID, re.Amount.Cents, re.Description, re.Spender,
		re.PaymentMethodID, re.Frequency, re.StartDate, nullableDate(re.EndDate),
		re.IsActive, re.NextDueDate, re.ID, re.UserID,
	)
	if err != nil {
		return core.RecurringExpense{}, fmt.Errorf("update recurring expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.RecurringExpense{}, notFound("recurring expense")
	}
	return r.GetRecurring(ctx, re.UserID, re.ID)
}

// AdvanceRecurring moves a template past one occurrence: next_due_date takes
// the advanced value, and the template is deactivated in the same update
// when the new date has passed the end date. Nothing else is touched.
func (r *SQLiteRepository) AdvanceRecurring(ctx context.Context, userID, id int64, nextDue core.Date, deactivate bool) error {
	query := `UPDATE recurring_expenses
		SET next_due_date = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?`
	if deactivate {
		query = `UPDATE recurring_expenses
			SET next_due_date = ?, is_active = 0, updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND user_id = ?`
	}
	res, err := r.db.ExecContext(ctx, query, nextDue, id, userID)
	if err != nil {
		return fmt.Errorf("advance recurring expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("recurring expense")
	}
	return nil
}

// SetRecurringActive flips the active flag without recomputing any dates, so
// a reactivated template resumes from where it left off.
func (r *SQLiteRepository) SetRecurringActive(ctx context.Context, userID, id int64, active bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE recurring_expenses
		SET is_active = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?`,
		active, id, userID,
	)
	if err != nil {
		return fmt.Errorf("set recurring active: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("recurring expense")
	}
	return nil
}

func (r *SQLiteRepository) DeleteRecurring(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM recurring_expenses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete recurring expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("recurring expense")
	}
	return nil
}
