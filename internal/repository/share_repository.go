package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/maelc/combat-notation/internal/model"
)

// ShareRepo persists combat shares.
type ShareRepo struct{ DB *sql.DB }

func NewShareRepo(db *sql.DB) *ShareRepo { return &ShareRepo{DB: db} }

// RoleFor returns the share role a user holds on a combat, or "" when no
// share exists.
func (r *ShareRepo) RoleFor(ctx context.Context, combatID, userID uint64) (string, error) {
	var role string
	err := r.DB.QueryRowContext(ctx,
		"SELECT role FROM combat_shares WHERE combat_id=? AND user_id=? LIMIT 1",
		combatID, userID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return role, err
}

// ListByCombat returns all shares on a combat with the target user's email
// joined in, ordered by grant time.
func (r *ShareRepo) ListByCombat(ctx context.Context, combatID uint64) ([]model.CombatShare, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT s.combat_id, s.user_id, s.role, u.email, s.created_at
		 FROM combat_shares s JOIN users u ON u.id = s.user_id
		 WHERE s.combat_id = ? ORDER BY s.created_at, s.user_id`, combatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CombatShare
	for rows.Next() {
		var s model.CombatShare
		if err := rows.Scan(&s.CombatID, &s.UserID, &s.Role, &s.Email, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Upsert grants or updates a share. Re-sharing with a different role
// replaces the previous grant.
func (r *ShareRepo) Upsert(ctx context.Context, combatID, userID uint64, role string) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO combat_shares (combat_id, user_id, role) VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE role = VALUES(role)`,
		combatID, userID, role)
	return err
}

// Delete revokes a share. Missing shares are reported as ErrNotFound.
func (r *ShareRepo) Delete(ctx context.Context, combatID, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM combat_shares WHERE combat_id=? AND user_id=?", combatID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
