// Package document holds the combat notation document model: a combat's
// participants and its ordered phrases of steps, where every step carries
// exactly one entry per participant. All functions here are pure; persistence
// and transport live elsewhere.
package document

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Mode discriminates the three entry shapes.
type Mode string

const (
	ModeCombat       Mode = "combat"
	ModeNote         Mode = "note"
	ModeChoregraphie Mode = "choregraphie"
)

// Role is the part a participant plays in a combat-mode entry.
type Role string

const (
	RoleAttack  Role = "attack"
	RoleDefense Role = "defense"
	RoleNone    Role = "none"
)

// Participant is one fighter in the combat. Both fields may be empty.
type Participant struct {
	Name   string `json:"name"`
	Weapon string `json:"weapon"`
}

// Document is the full editable payload of a combat: the participant roster
// and the ordered phrases. Invariant: for every step of every phrase,
// len(step.Entries) == len(doc.Participants), and Entries[i] belongs to
// Participants[i].
type Document struct {
	Participants []Participant `json:"participants"`
	Phrases      []Phrase      `json:"phrases"`
}

// Phrase is an ordered sequence of steps. The ID is client-generated and
// stable across saves; Normalize assigns one when missing.
type Phrase struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Steps []Step `json:"steps"`
}

// Step is one row across all participants.
type Step struct {
	Entries []Entry `json:"entries"`
}

// Entry is a tagged union over Mode. Exactly one of Combat, Note and
// Choregraphie is non-nil, matching Mode. Use the New* constructors or
// Normalize to build well-formed entries.
type Entry struct {
	Mode         Mode               `json:"mode"`
	Combat       *CombatEntry       `json:"combat,omitempty"`
	Note         *NoteEntry         `json:"note,omitempty"`
	Choregraphie *ChoregraphieEntry `json:"choregraphie,omitempty"`
}

// CombatEntry carries the structured vocabulary of a combat-mode entry.
// Fields irrelevant to the role are kept as stored; rendering ignores them.
// All string fields default to "" and AttackAttributes to an empty slice,
// never null, so downstream rendering stays total.
type CombatEntry struct {
	Role             Role     `json:"role"`
	Offensive        string   `json:"offensive"`
	WeaponAction     string   `json:"weaponAction"`
	AttackAttributes []string `json:"attackAttributes"`
	Target           string   `json:"target"`
	AttackMovement   string   `json:"attackMovement"`
	Defensive        string   `json:"defensive"`
	ParadePosition   string   `json:"paradePosition"`
	ParadeAttribute  string   `json:"paradeAttribute"`
	DefendMovement   string   `json:"defendMovement"`
	NoteOverrides    bool     `json:"noteOverrides"`
	Note             string   `json:"note"`
}

// NoteEntry is a free-text-only entry.
type NoteEntry struct {
	Text string `json:"text"`
}

// ChoregraphieEntry names a choreography phase with an optional note.
type ChoregraphieEntry struct {
	Phase string `json:"phase"`
	Note  string `json:"note"`
}

// NewCombatEntry returns a combat-mode entry with no role and all vocabulary
// fields empty. This is the default entry synthesized for new participants.
func NewCombatEntry() Entry {
	return Entry{
		Mode: ModeCombat,
		Combat: &CombatEntry{
			Role:             RoleNone,
			AttackAttributes: []string{},
		},
	}
}

// NewNoteEntry returns a note-mode entry.
func NewNoteEntry(text string) Entry {
	return Entry{Mode: ModeNote, Note: &NoteEntry{Text: text}}
}

// NewChoregraphieEntry returns a choreography-mode entry.
func NewChoregraphieEntry(phase, note string) Entry {
	return Entry{Mode: ModeChoregraphie, Choregraphie: &ChoregraphieEntry{Phase: phase, Note: note}}
}

// DefaultParticipants is the roster used when a document has none.
func DefaultParticipants() []Participant {
	return []Participant{
		{Name: "Combattant 1"},
		{Name: "Combattant 2"},
	}
}

// NewPhraseID generates a random identifier for phrases that arrive without
// one. Client-generated ids are kept untouched.
func NewPhraseID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is not recoverable in any useful way here
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// DefaultPhraseName returns the name assigned to the n-th phrase (1-based)
// when the client left it blank.
func DefaultPhraseName(n int) string {
	return fmt.Sprintf("Phrase %d", n)
}

// ResizeParticipants grows or shrinks the roster to n and keeps every step's
// entry list in lockstep. Growing appends blank participants and default
// entries; shrinking truncates both from the tail. n < 0 is treated as 0.
func (d *Document) ResizeParticipants(n int) {
	if n < 0 {
		n = 0
	}
	for len(d.Participants) < n {
		d.Participants = append(d.Participants, Participant{})
	}
	d.Participants = d.Participants[:n]

	for pi := range d.Phrases {
		for si := range d.Phrases[pi].Steps {
			step := &d.Phrases[pi].Steps[si]
			for len(step.Entries) < n {
				step.Entries = append(step.Entries, NewCombatEntry())
			}
			step.Entries = step.Entries[:n]
		}
	}
}
