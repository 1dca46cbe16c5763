package document

import "strings"

// Normalize turns a decoded JSON value purporting to be combat state into a
// fully-populated Document. It accepts both the current nested entry shape
// and the legacy flat shape where vocabulary fields sit directly on the
// entry object. A non-object input yields nil, which callers must treat as
// "no prior state" rather than an error.
//
// Guarantees on the result:
//   - the roster is never empty (DefaultParticipants is substituted),
//   - every phrase has a stable id and a non-blank name,
//   - every step has exactly one entry per current participant, missing
//     entries synthesized as default no-role combat entries and extras
//     truncated from the tail.
func Normalize(raw any) *Document {
	obj, ok := raw.(map[string]any)
	if !ok || obj == nil {
		return nil
	}

	doc := &Document{
		Participants: normalizeParticipants(obj["participants"]),
	}
	if len(doc.Participants) == 0 {
		doc.Participants = DefaultParticipants()
	}
	count := len(doc.Participants)

	for i, rawPhrase := range asSlice(obj["phrases"]) {
		doc.Phrases = append(doc.Phrases, normalizePhrase(rawPhrase, i+1, count))
	}
	return doc
}

func normalizeParticipants(raw any) []Participant {
	var out []Participant
	for _, item := range asSlice(raw) {
		obj, ok := item.(map[string]any)
		if !ok {
			out = append(out, Participant{})
			continue
		}
		out = append(out, Participant{
			Name:   asString(obj["name"]),
			Weapon: asString(obj["weapon"]),
		})
	}
	return out
}

func normalizePhrase(raw any, position, participants int) Phrase {
	obj, _ := raw.(map[string]any)
	p := Phrase{}
	if obj != nil {
		p.ID = strings.TrimSpace(asString(obj["id"]))
		p.Name = strings.TrimSpace(asString(obj["name"]))
	}
	if p.ID == "" {
		p.ID = NewPhraseID()
	}
	if p.Name == "" {
		p.Name = DefaultPhraseName(position)
	}
	if obj != nil {
		for _, rawStep := range asSlice(obj["steps"]) {
			p.Steps = append(p.Steps, normalizeStep(rawStep, participants))
		}
	}
	return p
}

func normalizeStep(raw any, participants int) Step {
	s := Step{Entries: []Entry{}}
	if obj, ok := raw.(map[string]any); ok {
		for _, rawEntry := range asSlice(obj["entries"]) {
			s.Entries = append(s.Entries, NormalizeEntry(rawEntry))
		}
	}
	for len(s.Entries) < participants {
		s.Entries = append(s.Entries, NewCombatEntry())
	}
	s.Entries = s.Entries[:participants]
	return s
}

// NormalizeEntry coerces one decoded entry value into a well-formed Entry.
// Unknown modes and non-object values fall back to the default combat entry.
func NormalizeEntry(raw any) Entry {
	obj, ok := raw.(map[string]any)
	if !ok {
		return NewCombatEntry()
	}
	switch Mode(asString(obj["mode"])) {
	case ModeNote:
		// nested {note:{text}} or legacy flat {note:"..."}
		if nested, ok := obj["note"].(map[string]any); ok {
			return NewNoteEntry(asString(nested["text"]))
		}
		return NewNoteEntry(asString(obj["note"]))
	case ModeChoregraphie:
		if nested, ok := obj["choregraphie"].(map[string]any); ok {
			return NewChoregraphieEntry(asString(nested["phase"]), asString(nested["note"]))
		}
		return NewChoregraphieEntry(asString(obj["phase"]), asString(obj["note"]))
	default:
		// combat is the default for missing or unknown modes
		fields := obj
		if nested, ok := obj["combat"].(map[string]any); ok {
			fields = nested
		}
		return Entry{Mode: ModeCombat, Combat: normalizeCombatFields(fields)}
	}
}

func normalizeCombatFields(obj map[string]any) *CombatEntry {
	c := &CombatEntry{
		Role:             RoleNone,
		Offensive:        asString(obj["offensive"]),
		WeaponAction:     asString(obj["weaponAction"]),
		AttackAttributes: asStringSlice(obj["attackAttributes"]),
		Target:           asString(obj["target"]),
		AttackMovement:   asString(obj["attackMovement"]),
		Defensive:        asString(obj["defensive"]),
		ParadePosition:   asString(obj["paradePosition"]),
		ParadeAttribute:  asString(obj["paradeAttribute"]),
		DefendMovement:   asString(obj["defendMovement"]),
		NoteOverrides:    asBool(obj["noteOverrides"]),
		Note:             asString(obj["note"]),
	}
	switch Role(asString(obj["role"])) {
	case RoleAttack:
		c.Role = RoleAttack
	case RoleDefense:
		c.Role = RoleDefense
	}
	return c
}

// ----- loose JSON coercion helpers -----

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asStringSlice(v any) []string {
	out := []string{}
	for _, item := range asSlice(v) {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
