package repository

import (
	"context"
	"database/sql"

	"github.com/maelc/combat-notation/internal/model"
)

// AuditRepo appends to and reads the audit log. The table is append-only;
// there are deliberately no update or delete methods.
type AuditRepo struct{ DB *sql.DB }

func NewAuditRepo(db *sql.DB) *AuditRepo { return &AuditRepo{DB: db} }

// Insert appends one entry. meta is raw JSON or empty.
func (r *AuditRepo) Insert(ctx context.Context, actorID uint64, action string, targetID *uint64, meta string) error {
	var metaVal any
	if meta != "" {
		metaVal = meta
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO audit_log (actor_id, action, target_id, meta) VALUES (?,?,?,?)",
		actorID, action, targetID, metaVal)
	return err
}

// List returns entries newest first with simple limit/offset paging.
func (r *AuditRepo) List(ctx context.Context, limit, offset int) ([]model.AuditLogEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, actor_id, action, target_id, meta, created_at
		 FROM audit_log ORDER BY id DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.AuditLogEntry{}
	for rows.Next() {
		var (
			e        model.AuditLogEntry
			targetID sql.NullInt64
			meta     sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &targetID, &meta, &e.CreatedAt); err != nil {
			return nil, err
		}
		if targetID.Valid {
			tid := uint64(targetID.Int64)
			e.TargetID = &tid
		}
		e.Meta = meta.String
		out = append(out, e)
	}
	return out, rows.Err()
}
