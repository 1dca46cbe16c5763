package model

import "time"

// AuditLogEntry mirrors the append-only `audit_log` table. Rows are written
// once by the audit consumer (or the direct fallback) and never updated or
// deleted.
type AuditLogEntry struct {
	ID        uint64    // audit_log.id
	ActorID   uint64    // audit_log.actor_id
	Action    string    // audit_log.action (e.g. "combat.delete")
	TargetID  *uint64   // audit_log.target_id (nullable)
	Meta      string    // audit_log.meta (JSON, may be empty)
	CreatedAt time.Time // audit_log.created_at
}
