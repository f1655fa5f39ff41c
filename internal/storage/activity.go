package storage

import (
	"context"
	"fmt"

	"spendwise/internal/core"
)

// ActivityFilter narrows ListActivity. Zero values mean "no constraint".
type ActivityFilter struct {
	EntityType string
	Action     string
}

// InsertActivity records one audit row; called only by the activity worker.
func (r *SQLiteRepository) InsertActivity(ctx context.Context, a core.ActivityLog) error {
	details := a.Details
	if details == "" {
		details = "{}"
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activity_logs (user_id, entity_type, entity_id, action, details)
		VALUES (?, ?, ?, ?, ?)`,
		a.UserID, a.EntityType, a.EntityID, a.Action, details,
	)
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

// ListActivity returns the user's audit rows newest first, paginated.
func (r *SQLiteRepository) ListActivity(ctx context.Context, userID int64, f ActivityFilter, limit, offset int) ([]core.ActivityLog, error) {
	query := `SELECT id, user_id, entity_type, entity_id, action, details, created_at
		FROM activity_logs
		WHERE user_id = ?`
	args := []any{userID}

	if f.EntityType != "" {
		query += ` AND entity_type = ?`
		args = append(args, f.EntityType)
	}
	if f.Action != "" {
		query += ` AND action = ?`
		args = append(args, f.Action)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query activity logs: %w", err)
	}
	defer rows.Close()

	var logs []core.ActivityLog
	for rows.Next() {
		var a core.ActivityLog
		if err := rows.Scan(&a.ID, &a.UserID, &a.EntityType, &a.EntityID,
			&a.Action, &a.Details, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity log: %w", err)
		}
		logs = append(logs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity logs: %w", err)
	}
	return logs, nil
}
