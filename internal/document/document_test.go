package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docWithSteps(participants, steps int) *Document {
	d := &Document{}
	for i := 0; i < participants; i++ {
		d.Participants = append(d.Participants, Participant{})
	}
	p := Phrase{ID: NewPhraseID(), Name: "Phrase 1"}
	for i := 0; i < steps; i++ {
		s := Step{}
		for j := 0; j < participants; j++ {
			s.Entries = append(s.Entries, NewCombatEntry())
		}
		p.Steps = append(p.Steps, s)
	}
	d.Phrases = []Phrase{p}
	return d
}

func TestResizeParticipantsGrow(t *testing.T) {
	d := docWithSteps(2, 3)
	d.ResizeParticipants(4)

	assert.Len(t, d.Participants, 4)
	for _, ph := range d.Phrases {
		for _, st := range ph.Steps {
			assert.Len(t, st.Entries, 4)
			for _, e := range st.Entries {
				require.Equal(t, ModeCombat, e.Mode)
				require.NotNil(t, e.Combat)
				assert.Equal(t, RoleNone, e.Combat.Role)
			}
		}
	}
}

func TestResizeParticipantsShrinkKeepsHead(t *testing.T) {
	d := docWithSteps(3, 2)
	d.Phrases[0].Steps[0].Entries[0].Combat.Offensive = "Fente"
	d.Phrases[0].Steps[0].Entries[2].Combat.Offensive = "Moulinet"

	d.ResizeParticipants(2)

	assert.Len(t, d.Participants, 2)
	st := d.Phrases[0].Steps[0]
	require.Len(t, st.Entries, 2)
	// head entry survives unchanged, tail entry is gone
	assert.Equal(t, "Fente", st.Entries[0].Combat.Offensive)
	for _, ph := range d.Phrases {
		for _, s := range ph.Steps {
			assert.Len(t, s.Entries, 2)
		}
	}
}

func TestResizeParticipantsInvariantHoldsForAnyCount(t *testing.T) {
	for _, n := range []int{0, 1, 2, 5, 9} {
		d := docWithSteps(3, 4)
		d.ResizeParticipants(n)
		assert.Len(t, d.Participants, n)
		for _, ph := range d.Phrases {
			for _, st := range ph.Steps {
				assert.Len(t, st.Entries, n)
			}
		}
	}
}

func TestResizeNegativeClampsToZero(t *testing.T) {
	d := docWithSteps(2, 1)
	d.ResizeParticipants(-3)
	assert.Empty(t, d.Participants)
	assert.Empty(t, d.Phrases[0].Steps[0].Entries)
}
