package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/maelc/combat-notation/internal/document"
	"github.com/maelc/combat-notation/internal/model"
)

// CombatRepo persists combats. The participant roster and the phrase list
// are JSON columns saved wholesale; relational columns carry the metadata
// the API filters on.
type CombatRepo struct{ DB *sql.DB }

func NewCombatRepo(db *sql.DB) *CombatRepo { return &CombatRepo{DB: db} }

const combatColumns = "id,owner_id,name,description,type,archived,version,participants,phrases,created_at,updated_at"

func scanCombat(scan func(dest ...any) error) (*model.Combat, error) {
	var (
		c            model.Combat
		participants []byte
		phrases      []byte
	)
	err := scan(&c.ID, &c.OwnerID, &c.Name, &c.Description, &c.Type, &c.Archived,
		&c.Version, &participants, &phrases, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(participants, &c.Participants); err != nil {
		c.Participants = document.DefaultParticipants()
	}
	if err := json.Unmarshal(phrases, &c.Phrases); err != nil {
		c.Phrases = nil
	}
	return &c, nil
}

// Create inserts a combat and populates ID, version and timestamps.
func (r *CombatRepo) Create(ctx context.Context, c *model.Combat) error {
	participants, err := json.Marshal(c.Participants)
	if err != nil {
		return err
	}
	phrases, err := json.Marshal(c.Phrases)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO combats (owner_id, name, description, type, participants, phrases) VALUES (?,?,?,?,?,?)",
		c.OwnerID, c.Name, c.Description, c.Type, participants, phrases)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)

	fresh, err := r.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	*c = *fresh
	return nil
}

// GetByID fetches one combat with its full document.
func (r *CombatRepo) GetByID(ctx context.Context, id uint64) (*model.Combat, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+combatColumns+" FROM combats WHERE id=? LIMIT 1", id)
	return scanCombat(row.Scan)
}

// ListForUser returns combats the user owns or has a share on, ordered by
// id. Archived combats are included only when includeArchived is set.
func (r *CombatRepo) ListForUser(ctx context.Context, userID uint64, includeArchived bool) ([]*model.Combat, error) {
	q := `SELECT ` + combatColumns + ` FROM combats c
	      WHERE (c.owner_id = ?
	             OR EXISTS (SELECT 1 FROM combat_shares s WHERE s.combat_id = c.id AND s.user_id = ?))`
	args := []any{userID, userID}
	if !includeArchived {
		q += " AND c.archived = 0"
	}
	q += " ORDER BY c.id"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Combat
	for rows.Next() {
		c, err := scanCombat(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetFirstOwned returns the oldest combat owned by the user, backing the
// legacy whole-document state endpoint. ErrNotFound when the user has none.
func (r *CombatRepo) GetFirstOwned(ctx context.Context, ownerID uint64) (*model.Combat, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+combatColumns+" FROM combats WHERE owner_id=? ORDER BY id LIMIT 1", ownerID)
	return scanCombat(row.Scan)
}

// SaveDocument replaces the combat's roster and phrases wholesale and bumps
// the version. When expectedVersion is non-nil the save is rejected with
// ErrVersionConflict if the stored version moved on; a nil expectedVersion
// keeps the legacy last-write-wins behavior. Returns the new version.
func (r *CombatRepo) SaveDocument(ctx context.Context, id uint64, doc *document.Document, expectedVersion *uint64) (uint64, error) {
	participants, err := json.Marshal(doc.Participants)
	if err != nil {
		return 0, err
	}
	phrases, err := json.Marshal(doc.Phrases)
	if err != nil {
		return 0, err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var version uint64
	if err = tx.QueryRowContext(ctx,
		"SELECT version FROM combats WHERE id=? FOR UPDATE", id).Scan(&version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrNotFound
		}
		return 0, err
	}
	if expectedVersion != nil && *expectedVersion != version {
		err = ErrVersionConflict
		return 0, err
	}
	version++
	if _, err = tx.ExecContext(ctx,
		"UPDATE combats SET participants=?, phrases=?, version=? WHERE id=?",
		participants, phrases, version, id); err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return version, nil
}

// UpdateMeta updates name, description and type.
func (r *CombatRepo) UpdateMeta(ctx context.Context, id uint64, name, description, combatType string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE combats SET name=?, description=?, type=? WHERE id=?",
		name, description, combatType, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM combats WHERE id=?", id).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
	}
	return nil
}

// SetArchived flips the reversible archived flag.
func (r *CombatRepo) SetArchived(ctx context.Context, id uint64, archived bool) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE combats SET archived=? WHERE id=?", archived, id)
	return err
}

// DeleteByIDAndOwner removes a combat and its shares in one transaction.
// ErrNotFound when the combat does not exist, ErrForbidden when it belongs
// to someone else (only the owner may delete).
func (r *CombatRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	var dbOwnerID uint64
	if err = tx.QueryRowContext(ctx, "SELECT owner_id FROM combats WHERE id=?", id).Scan(&dbOwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrNotFound
		}
		return err
	}
	if dbOwnerID != ownerID {
		err = ErrForbidden
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM combat_shares WHERE combat_id=?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM combats WHERE id=?", id); err != nil {
		return err
	}
	return nil
}
