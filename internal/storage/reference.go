package storage

import (
	"context"
	"database/sql"
	"fmt"

	"spendwise/internal/core"
)

// Categories and payment methods are reference data: the user's own rows plus
// the shared defaults (user_id NULL, is_default 1).

func scanCategory(row interface{ Scan(...any) error }) (core.Category, error) {
	var c core.Category
	var userID sql.NullInt64
	err := row.Scan(&c.ID, &userID, &c.Name, &c.Icon, &c.Color, &c.IsDefault,
		&c.CreatedAt, &c.UpdatedAt)
	c.UserID = userID.Int64
	return c, err
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, icon, color, is_default, created_at, updated_at
		FROM categories
		WHERE user_id = ? OR is_default = 1
		ORDER BY is_default DESC, name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return cats, nil
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, userID, id int64) (core.Category, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, icon, color, is_default, created_at, updated_at
		FROM categories
		WHERE id = ? AND (user_id = ? OR is_default = 1)`, id, userID)
	c, err := scanCategory(row)
	if isNoRows(err) {
		return core.Category{}, notFound("category")
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (user_id, name, icon, color, is_default)
		VALUES (?, ?, ?, ?, 0)`,
		c.UserID, c.Name, c.Icon, c.Color,
	)
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("category insert id: %w", err)
	}
	return r.GetCategory(ctx, c.UserID, id)
}

// isDefaultRow reports whether the id names one of the shared seeded rows.
// Used to tell "you may not touch this" apart from "no such row" when a
// guarded mutation matched nothing.
func (r *SQLiteRepository) isDefaultRow(ctx context.Context, table string, id int64) bool {
	var isDefault bool
	err := r.db.QueryRowContext(ctx,
		`SELECT is_default FROM `+table+` WHERE id = ?`, id).Scan(&isDefault)
	return err == nil && isDefault
}

// UpdateCategory touches only user-owned rows; the shared defaults are
// immutable.
func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE categories
		SET name = ?, icon = ?, color = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ? AND is_default = 0`,
		c.Name, c.Icon, c.Color, c.ID, c.UserID,
	)
	if err != nil {
		return core.Category{}, fmt.Errorf("update category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if r.isDefaultRow(ctx, "categories", c.ID) {
			return core.Category{}, core.ErrDefaultImmutable
		}
		return core.Category{}, notFound("category")
	}
	return r.GetCategory(ctx, c.UserID, c.ID)
}

// DeleteCategory fails with core.ErrCategoryInUse when expenses or recurring
// templates still reference the row, and with core.ErrDefaultImmutable for
// the shared seeded rows.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND user_id = ? AND is_default = 0`, id, userID)
	if isForeignKeyViolation(err) {
		return core.ErrCategoryInUse
	}
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if r.isDefaultRow(ctx, "categories", id) {
			return core.ErrDefaultImmutable
		}
		return notFound("category")
	}
	return nil
}

func scanPaymentMethod(row interface{ Scan(...any) error }) (core.PaymentMethod, error) {
	var pm core.PaymentMethod
	var userID sql.NullInt64
	err := row.Scan(&pm.ID, &userID, &pm.Name, &pm.Value, &pm.IsDefault,
		&pm.CreatedAt, &pm.UpdatedAt)
	pm.UserID = userID.Int64
	return pm, err
}

func (r *SQLiteRepository) ListPaymentMethods(ctx context.Context, userID int64) ([]core.PaymentMethod, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, value, is_default, created_at, updated_at
		FROM payment_methods
		WHERE user_id = ? OR is_default = 1
		ORDER BY is_default DESC, name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query payment methods: %w", err)
	}
	defer rows.Close()

	var methods []core.PaymentMethod
	for rows.Next() {
		pm, err := scanPaymentMethod(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment method: %w", err)
		}
		methods = append(methods, pm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment methods: %w", err)
	}
	return methods, nil
}

func (r *SQLiteRepository) GetPaymentMethod(ctx context.Context, userID, id int64) (core.PaymentMethod, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, value, is_default, created_at, updated_at
		FROM payment_methods
		WHERE id = ? AND (user_id = ? OR is_default = 1)`, id, userID)
	pm, err := scanPaymentMethod(row)
	if isNoRows(err) {
		return core.PaymentMethod{}, notFound("payment method")
	}
	if err != nil {
		return core.PaymentMethod{}, fmt.Errorf("get payment method: %w", err)
	}
	return pm, nil
}

func (r *SQLiteRepository) CreatePaymentMethod(ctx context.Context, pm core.PaymentMethod) (core.PaymentMethod, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO payment_methods (user_id, name, value, is_default)
		VALUES (?, ?, ?, 0)`,
		pm.UserID, pm.Name, pm.Value,
	)
	if err != nil {
		return core.PaymentMethod{}, fmt.Errorf("insert payment method: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.PaymentMethod{}, fmt.Errorf("payment method insert id: %w", err)
	}
	return r.GetPaymentMethod(ctx, pm.UserID, id)
}

// DeletePaymentMethod fails with core.ErrPaymentMethodInUse when expenses or
// recurring templates still reference the row, and with
// core.ErrDefaultImmutable for the shared seeded rows.
func (r *SQLiteRepository) DeletePaymentMethod(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM payment_methods WHERE id = ? AND user_id = ? AND is_default = 0`, id, userID)
	if isForeignKeyViolation(err) {
		return core.ErrPaymentMethodInUse
	}
	if err != nil {
		return fmt.Errorf("delete payment method: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if r.isDefaultRow(ctx, "payment_methods", id) {
			return core.ErrDefaultImmutable
		}
		return notFound("payment method")
	}
	return nil
}
