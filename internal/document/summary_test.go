package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func attackEntry(mod func(*CombatEntry)) Entry {
	e := NewCombatEntry()
	e.Combat.Role = RoleAttack
	mod(e.Combat)
	return e
}

func defenseEntry(mod func(*CombatEntry)) Entry {
	e := NewCombatEntry()
	e.Combat.Role = RoleDefense
	mod(e.Combat)
	return e
}

func TestSummaryLineAttackComposition(t *testing.T) {
	e := attackEntry(func(c *CombatEntry) {
		c.Offensive = "Fente"
		c.WeaponAction = "Coup droit"
		c.Target = "Masque"
	})
	assert.Equal(t, "Fente en Coup droit sur Masque", SummaryLine(e))
}

func TestSummaryLineDefenseComposition(t *testing.T) {
	e := defenseEntry(func(c *CombatEntry) {
		c.Defensive = "Parade"
		c.ParadePosition = "6"
	})
	assert.Equal(t, "Parade de 6", SummaryLine(e))
}

func TestSummaryLineAttackFullFieldOrder(t *testing.T) {
	e := attackEntry(func(c *CombatEntry) {
		c.Offensive = "Fente"
		c.WeaponAction = "Coupé"
		c.AttackAttributes = []string{"appuyé", "croisé"}
		c.Target = "Épaule"
		c.AttackMovement = "marchant"
		c.Note = "vite"
	})
	assert.Equal(t, "Fente en Coupé appuyé croisé sur Épaule en marchant (vite)", SummaryLine(e))
}

func TestSummaryLineMovementJoiner(t *testing.T) {
	gerund := attackEntry(func(c *CombatEntry) { c.AttackMovement = "reculant" })
	assert.Equal(t, "en reculant", SummaryLine(gerund))

	plain := attackEntry(func(c *CombatEntry) { c.AttackMovement = "fente" })
	assert.Equal(t, "avec fente", SummaryLine(plain))
}

func TestSummaryLineOmitsEmptySegments(t *testing.T) {
	e := attackEntry(func(c *CombatEntry) {
		c.Offensive = "Fente"
		c.Target = "Masque"
	})
	assert.Equal(t, "Fente sur Masque", SummaryLine(e))
}

func TestSummaryLineNoteOverrides(t *testing.T) {
	over := attackEntry(func(c *CombatEntry) {
		c.Offensive = "Fente"
		c.NoteOverrides = true
		c.Note = "improvisation"
	})
	assert.Equal(t, "improvisation", SummaryLine(over))

	empty := defenseEntry(func(c *CombatEntry) { c.NoteOverrides = true })
	assert.Equal(t, PlaceholderToComplete, SummaryLine(empty))
}

func TestSummaryLineNoRole(t *testing.T) {
	silent := NewCombatEntry()
	assert.Equal(t, PlaceholderNoRole, SummaryLine(silent))

	noted := NewCombatEntry()
	noted.Combat.Note = "observe"
	assert.Equal(t, "observe", SummaryLine(noted))
}

func TestSummaryLineNoteMode(t *testing.T) {
	assert.Equal(t, "texte libre", SummaryLine(NewNoteEntry("texte libre")))
	assert.Equal(t, PlaceholderToComplete, SummaryLine(NewNoteEntry("  ")))
}

func TestSummaryLineChoregraphie(t *testing.T) {
	assert.Equal(t, "Salut (lent)", SummaryLine(NewChoregraphieEntry("Salut", "lent")))
	assert.Equal(t, "Salut", SummaryLine(NewChoregraphieEntry("Salut", "")))
	assert.Equal(t, "lent", SummaryLine(NewChoregraphieEntry("", "lent")))
	assert.Equal(t, PlaceholderChoregraphie, SummaryLine(NewChoregraphieEntry("", "")))
}

// Same entry must render identically regardless of call site; the function is
// pure, so repeated invocations are the observable contract.
func TestSummaryLineIsDeterministic(t *testing.T) {
	e := attackEntry(func(c *CombatEntry) {
		c.Offensive = "Fente"
		c.WeaponAction = "Coup droit"
		c.Target = "Masque"
	})
	first := SummaryLine(e)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, SummaryLine(e))
	}
}
