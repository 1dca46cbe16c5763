package model

import (
	"time"

	"github.com/maelc/combat-notation/internal/document"
)

// Combat types.
const (
	CombatTypeClassic    = "classic"
	CombatTypeSabreLaser = "sabre-laser"
)

// Combat mirrors the `combats` table. The participant roster and the full
// phrase list are stored as JSON columns and saved wholesale; Version is
// bumped on every document save so clients can detect stale writes.
type Combat struct {
	ID           uint64                 // combats.id
	OwnerID      uint64                 // combats.owner_id
	Name         string                 // combats.name
	Description  string                 // combats.description
	Type         string                 // combats.type (classic | sabre-laser)
	Archived     bool                   // combats.archived
	Version      uint64                 // combats.version
	Participants []document.Participant // combats.participants (JSON)
	Phrases      []document.Phrase      // combats.phrases (JSON)
	CreatedAt    time.Time              // combats.created_at
	UpdatedAt    time.Time              // combats.updated_at
}

// Document assembles the editable payload of the combat.
func (c *Combat) Document() *document.Document {
	return &document.Document{Participants: c.Participants, Phrases: c.Phrases}
}

// ValidCombatType reports whether s is a known combat type.
func ValidCombatType(s string) bool {
	return s == CombatTypeClassic || s == CombatTypeSabreLaser
}

// CombatShare mirrors the `combat_shares` table: a grant of read or write
// access on one combat to one non-owner user. The (combat_id, user_id) pair
// is unique. Email is joined in for listings and is not a column of the
// shares table itself.
type CombatShare struct {
	CombatID  uint64    // combat_shares.combat_id
	UserID    uint64    // combat_shares.user_id
	Role      string    // combat_shares.role (read | write)
	Email     string    // users.email, joined for display
	CreatedAt time.Time // combat_shares.created_at
}
