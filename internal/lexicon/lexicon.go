// Package lexicon defines the controlled-vocabulary categories and the
// personal-over-global merge rule.
package lexicon

import "github.com/maelc/combat-notation/internal/model"

// Categories of the notation vocabulary. Each lexicon item belongs to
// exactly one category; the set is fixed.
const (
	CategoryOffensive       = "offensive"
	CategoryWeaponAction    = "weaponAction"
	CategoryAttackAttribute = "attackAttribute"
	CategoryTarget          = "target"
	CategoryAttackMovement  = "attackMovement"
	CategoryDefensive       = "defensive"
	CategoryParadePosition  = "paradePosition"
	CategoryParadeAttribute = "paradeAttribute"
	CategoryDefendMovement  = "defendMovement"
	CategoryPhase           = "phase"
)

var categories = map[string]bool{
	CategoryOffensive:       true,
	CategoryWeaponAction:    true,
	CategoryAttackAttribute: true,
	CategoryTarget:          true,
	CategoryAttackMovement:  true,
	CategoryDefensive:       true,
	CategoryParadePosition:  true,
	CategoryParadeAttribute: true,
	CategoryDefendMovement:  true,
	CategoryPhase:           true,
}

// ValidCategory reports whether s names a known vocabulary category.
func ValidCategory(s string) bool { return categories[s] }

// MergeAll combines a user's personal items with the global list for the
// same category. Personal items shadow global items carrying the same label;
// a label never appears twice. Order: personal items first in their stored
// order, then the remaining global items in theirs.
func MergeAll(personal, global []model.LexiconItem) []model.LexiconItem {
	seen := make(map[string]bool, len(personal))
	out := make([]model.LexiconItem, 0, len(personal)+len(global))
	for _, item := range personal {
		if seen[item.Label] {
			continue
		}
		seen[item.Label] = true
		out = append(out, item)
	}
	for _, item := range global {
		if seen[item.Label] {
			continue
		}
		seen[item.Label] = true
		out = append(out, item)
	}
	return out
}
