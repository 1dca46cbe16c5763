package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/maelc/combat-notation/internal/model"
)

// LexiconRepo persists controlled-vocabulary items. Global items carry a
// NULL user_id; personal items carry the owning user's id.
type LexiconRepo struct{ DB *sql.DB }

func NewLexiconRepo(db *sql.DB) *LexiconRepo { return &LexiconRepo{DB: db} }

func (r *LexiconRepo) list(ctx context.Context, query string, args ...any) ([]model.LexiconItem, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.LexiconItem{}
	for rows.Next() {
		var (
			item   model.LexiconItem
			userID sql.NullInt64
		)
		if err := rows.Scan(&item.ID, &item.Category, &item.Label, &userID, &item.CreatedAt); err != nil {
			return nil, err
		}
		if userID.Valid {
			uid := uint64(userID.Int64)
			item.UserID = &uid
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// ListGlobal returns the global items of a category ordered by label.
func (r *LexiconRepo) ListGlobal(ctx context.Context, category string) ([]model.LexiconItem, error) {
	return r.list(ctx,
		`SELECT id, category, label, user_id, created_at FROM lexicon_items
		 WHERE category=? AND user_id IS NULL ORDER BY label`, category)
}

// ListPersonal returns one user's items of a category ordered by label.
func (r *LexiconRepo) ListPersonal(ctx context.Context, category string, userID uint64) ([]model.LexiconItem, error) {
	return r.list(ctx,
		`SELECT id, category, label, user_id, created_at FROM lexicon_items
		 WHERE category=? AND user_id=? ORDER BY label`, category, userID)
}

// InsertGlobal adds a global item. Duplicate labels within the global scope
// of the category are rejected with ErrDuplicate.
func (r *LexiconRepo) InsertGlobal(ctx context.Context, category, label string) (uint64, error) {
	return r.insert(ctx, category, label, nil)
}

// InsertPersonal adds a personal item for one user.
func (r *LexiconRepo) InsertPersonal(ctx context.Context, category, label string, userID uint64) (uint64, error) {
	return r.insert(ctx, category, label, &userID)
}

func (r *LexiconRepo) insert(ctx context.Context, category, label string, userID *uint64) (uint64, error) {
	label = strings.TrimSpace(label)

	// MySQL unique keys treat NULLs as distinct, so scope uniqueness for
	// global items is enforced here rather than by the index alone.
	var exists int
	var err error
	if userID == nil {
		err = r.DB.QueryRowContext(ctx,
			"SELECT 1 FROM lexicon_items WHERE category=? AND label=? AND user_id IS NULL LIMIT 1",
			category, label).Scan(&exists)
	} else {
		err = r.DB.QueryRowContext(ctx,
			"SELECT 1 FROM lexicon_items WHERE category=? AND label=? AND user_id=? LIMIT 1",
			category, label, *userID).Scan(&exists)
	}
	switch {
	case err == nil:
		return 0, ErrDuplicate
	case !errors.Is(err, sql.ErrNoRows):
		return 0, err
	}

	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO lexicon_items (category, label, user_id) VALUES (?,?,?)",
		category, label, userID)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// DeleteGlobal removes a global item by label.
func (r *LexiconRepo) DeleteGlobal(ctx context.Context, category, label string) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM lexicon_items WHERE category=? AND label=? AND user_id IS NULL",
		category, strings.TrimSpace(label))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePersonal removes one user's item by label.
func (r *LexiconRepo) DeletePersonal(ctx context.Context, category, label string, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM lexicon_items WHERE category=? AND label=? AND user_id=?",
		category, strings.TrimSpace(label), userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
