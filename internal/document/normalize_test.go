package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, payload string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(payload), &v))
	return v
}

func TestNormalizeNonObjectYieldsNil(t *testing.T) {
	assert.Nil(t, Normalize(nil))
	assert.Nil(t, Normalize("not a document"))
	assert.Nil(t, Normalize(42.0))
	assert.Nil(t, Normalize([]any{"phrases"}))
}

func TestNormalizeEmptyObjectGetsDefaultRoster(t *testing.T) {
	doc := Normalize(decode(t, `{}`))
	require.NotNil(t, doc)
	assert.Equal(t, DefaultParticipants(), doc.Participants)
	assert.Empty(t, doc.Phrases)
}

func TestNormalizeAssignsPhraseIDAndName(t *testing.T) {
	doc := Normalize(decode(t, `{
		"participants": [{"name":"A"},{"name":"B"}],
		"phrases": [
			{"id":"p-1","name":"Ouverture","steps":[]},
			{"name":"  ","steps":[]},
			{}
		]
	}`))
	require.NotNil(t, doc)
	require.Len(t, doc.Phrases, 3)

	assert.Equal(t, "p-1", doc.Phrases[0].ID)
	assert.Equal(t, "Ouverture", doc.Phrases[0].Name)

	assert.NotEmpty(t, doc.Phrases[1].ID)
	assert.Equal(t, "Phrase 2", doc.Phrases[1].Name)
	assert.Equal(t, "Phrase 3", doc.Phrases[2].Name)
	assert.NotEqual(t, doc.Phrases[1].ID, doc.Phrases[2].ID)
}

func TestNormalizeRealignsEntriesToRoster(t *testing.T) {
	doc := Normalize(decode(t, `{
		"participants": [{"name":"A"},{"name":"B"},{"name":"C"}],
		"phrases": [{
			"id":"p","name":"n",
			"steps": [
				{"entries":[{"mode":"note","note":"seul"}]},
				{"entries":[{},{},{},{},{}]}
			]
		}]
	}`))
	require.NotNil(t, doc)
	steps := doc.Phrases[0].Steps
	require.Len(t, steps, 2)

	// short step padded with default no-role combat entries
	require.Len(t, steps[0].Entries, 3)
	assert.Equal(t, ModeNote, steps[0].Entries[0].Mode)
	assert.Equal(t, "seul", steps[0].Entries[0].Note.Text)
	for _, e := range steps[0].Entries[1:] {
		require.Equal(t, ModeCombat, e.Mode)
		assert.Equal(t, RoleNone, e.Combat.Role)
	}

	// long step truncated from the tail
	assert.Len(t, steps[1].Entries, 3)
}

func TestNormalizeEntryLegacyFlatCombat(t *testing.T) {
	e := NormalizeEntry(decode(t, `{
		"mode":"combat","role":"attack",
		"offensive":"Fente","weaponAction":"Coup droit",
		"attackAttributes":["appuyé"],"target":"Masque",
		"noteOverrides":true,"note":"fort"
	}`))
	require.Equal(t, ModeCombat, e.Mode)
	require.NotNil(t, e.Combat)
	assert.Equal(t, RoleAttack, e.Combat.Role)
	assert.Equal(t, "Fente", e.Combat.Offensive)
	assert.Equal(t, []string{"appuyé"}, e.Combat.AttackAttributes)
	assert.True(t, e.Combat.NoteOverrides)
	assert.Equal(t, "fort", e.Combat.Note)
}

func TestNormalizeEntryNestedShapes(t *testing.T) {
	note := NormalizeEntry(decode(t, `{"mode":"note","note":{"text":"libre"}}`))
	require.Equal(t, ModeNote, note.Mode)
	assert.Equal(t, "libre", note.Note.Text)

	choreo := NormalizeEntry(decode(t, `{"mode":"choregraphie","choregraphie":{"phase":"Salut","note":"lent"}}`))
	require.Equal(t, ModeChoregraphie, choreo.Mode)
	assert.Equal(t, "Salut", choreo.Choregraphie.Phase)
	assert.Equal(t, "lent", choreo.Choregraphie.Note)

	combat := NormalizeEntry(decode(t, `{"mode":"combat","combat":{"role":"defense","defensive":"Parade"}}`))
	require.Equal(t, ModeCombat, combat.Mode)
	assert.Equal(t, RoleDefense, combat.Combat.Role)
	assert.Equal(t, "Parade", combat.Combat.Defensive)
}

func TestNormalizeEntryDefaultsOnGarbage(t *testing.T) {
	for _, raw := range []any{nil, "x", 3.0, decode(t, `{"mode":"???"}`)} {
		e := NormalizeEntry(raw)
		require.Equal(t, ModeCombat, e.Mode)
		require.NotNil(t, e.Combat)
		assert.Equal(t, RoleNone, e.Combat.Role)
		assert.NotNil(t, e.Combat.AttackAttributes)
	}
}

func TestNormalizeThenResizePreservesInvariant(t *testing.T) {
	doc := Normalize(decode(t, `{
		"participants": [{"name":"A"},{"name":"B"}],
		"phrases": [{"steps":[{"entries":[{"mode":"note","note":"x"}]}]}]
	}`))
	require.NotNil(t, doc)
	for _, n := range []int{1, 2, 3, 6} {
		doc.ResizeParticipants(n)
		for _, ph := range doc.Phrases {
			for _, st := range ph.Steps {
				assert.Len(t, st.Entries, n)
			}
		}
	}
}
