package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SessionRepo persists bearer sessions (single token_hash column, the raw
// token never touches the database).
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Create inserts a session row.
func (r *SessionRepo) Create(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO sessions (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, expiresAt)
	return err
}

// Lookup resolves a token hash to its owning user. Expired sessions are
// evicted on the spot and reported as ErrNotFound; they are never returned
// as valid.
func (r *SessionRepo) Lookup(ctx context.Context, tokenHash string) (uint64, error) {
	var (
		userID    uint64
		expiresAt time.Time
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, expires_at FROM sessions WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&userID, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	if time.Now().UTC().After(expiresAt) {
		_ = r.Delete(ctx, tokenHash) // lazy eviction
		return 0, ErrNotFound
	}
	return userID, nil
}

// Delete removes one session (logout).
func (r *SessionRepo) Delete(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE token_hash=?", tokenHash)
	return err
}

// DeleteAllForUser removes every session of a user, e.g. after an admin
// password reset.
func (r *SessionRepo) DeleteAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE user_id=?", userID)
	return err
}
