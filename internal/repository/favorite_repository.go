package repository

import (
	"context"
	"database/sql"

	"github.com/maelc/combat-notation/internal/model"
)

// FavoriteRepo persists per-user lexicon favorites.
type FavoriteRepo struct{ DB *sql.DB }

func NewFavoriteRepo(db *sql.DB) *FavoriteRepo { return &FavoriteRepo{DB: db} }

// List returns all favorites of a user.
func (r *FavoriteRepo) List(ctx context.Context, userID uint64) ([]model.Favorite, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT user_id, category, label FROM favorites WHERE user_id=? ORDER BY category, label",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Favorite{}
	for rows.Next() {
		var f model.Favorite
		if err := rows.Scan(&f.UserID, &f.Category, &f.Label); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Toggle flips the favorite mark for (user, category, label) and reports the
// resulting state: true when the label is now a favorite.
func (r *FavoriteRepo) Toggle(ctx context.Context, userID uint64, category, label string) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM favorites WHERE user_id=? AND category=? AND label=?",
		userID, category, label)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return false, nil
	}
	if _, err := r.DB.ExecContext(ctx,
		"INSERT INTO favorites (user_id, category, label) VALUES (?,?,?)",
		userID, category, label); err != nil {
		return false, err
	}
	return true, nil
}
