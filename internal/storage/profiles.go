package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"spendwise/internal/core"
)

func (r *SQLiteRepository) CreateProfile(ctx context.Context, p core.Profile) (core.Profile, error) {
	members, err := json.Marshal(p.FamilyMembers)
	if err != nil {
		return core.Profile{}, fmt.Errorf("marshal family members: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (name, family_members, currency)
		VALUES (?, ?, ?)`,
		p.Name, string(members), p.Currency,
	)
	if err != nil {
		return core.Profile{}, fmt.Errorf("insert profile: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Profile{}, fmt.Errorf("profile insert id: %w", err)
	}
	return r.GetProfile(ctx, id)
}

func (r *SQLiteRepository) GetProfile(ctx context.Context, id int64) (core.Profile, error) {
	var p core.Profile
	var members string
	var deletedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, family_members, currency, deleted_at, created_at, updated_at
		FROM profiles WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &members, &p.Currency, &deletedAt, &p.CreatedAt, &p.UpdatedAt)
	if isNoRows(err) {
		return core.Profile{}, notFound("profile")
	}
	if err != nil {
		return core.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	if err := json.Unmarshal([]byte(members), &p.FamilyMembers); err != nil {
		return core.Profile{}, fmt.Errorf("unmarshal family members: %w", err)
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		p.DeletedAt = &t
	}
	return p, nil
}

func (r *SQLiteRepository) UpdateProfile(ctx context.Context, p core.Profile) (core.Profile, error) {
	members, err := json.Marshal(p.FamilyMembers)
	if err != nil {
		return core.Profile{}, fmt.Errorf("marshal family members: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET name = ?, family_members = ?, currency = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted_at IS NULL`,
		p.Name, string(members), p.Currency, p.ID,
	)
	if err != nil {
		return core.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Profile{}, notFound("profile")
	}
	return r.GetProfile(ctx, p.ID)
}

// SoftDeleteProfile marks the account deleted without touching its records.
func (r *SQLiteRepository) SoftDeleteProfile(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET deleted_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("soft delete profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("profile")
	}
	return nil
}
