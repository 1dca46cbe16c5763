package model

import "time"

// LexiconItem mirrors the `lexicon_items` table. UserID is nil for global
// items and set for personal ones; the label is unique per category within
// its scope.
type LexiconItem struct {
	ID        uint64    // lexicon_items.id
	Category  string    // lexicon_items.category
	Label     string    // lexicon_items.label
	UserID    *uint64   // lexicon_items.user_id (NULL = global scope)
	CreatedAt time.Time // lexicon_items.created_at
}

// Scope reports "global" or "personal" for JSON responses.
func (i LexiconItem) Scope() string {
	if i.UserID == nil {
		return "global"
	}
	return "personal"
}

// Favorite mirrors the `favorites` table: a (user, category, label) mark
// with no ordering semantics.
type Favorite struct {
	UserID   uint64 // favorites.user_id
	Category string // favorites.category
	Label    string // favorites.label
}
