package document

import "strings"

// Placeholders rendered when an entry has nothing to say. The wording is
// shared by the editor, read-only views and exports, so it lives here.
const (
	PlaceholderChoregraphie = "chorégraphie"
	PlaceholderToComplete   = "à compléter"
	PlaceholderNoRole       = "aucune action"
)

// SummaryLine projects one entry into its human-readable line. This is the
// single rendering rule for every surface (editing, read-only display,
// exported documents); callers must not re-implement it.
func SummaryLine(e Entry) string {
	switch e.Mode {
	case ModeChoregraphie:
		return choregraphieLine(e.Choregraphie)
	case ModeNote:
		return noteLine(e.Note)
	default:
		return combatLine(e.Combat)
	}
}

func choregraphieLine(c *ChoregraphieEntry) string {
	if c == nil {
		return PlaceholderChoregraphie
	}
	phase := strings.TrimSpace(c.Phase)
	note := strings.TrimSpace(c.Note)
	switch {
	case phase != "" && note != "":
		return phase + " (" + note + ")"
	case phase != "":
		return phase
	case note != "":
		return note
	default:
		return PlaceholderChoregraphie
	}
}

func noteLine(n *NoteEntry) string {
	if n == nil || strings.TrimSpace(n.Text) == "" {
		return PlaceholderToComplete
	}
	return strings.TrimSpace(n.Text)
}

func combatLine(c *CombatEntry) string {
	if c == nil {
		return PlaceholderNoRole
	}
	note := strings.TrimSpace(c.Note)
	switch c.Role {
	case RoleAttack:
		if c.NoteOverrides {
			return noteOrPlaceholder(note)
		}
		return composeLine(attackSegments(c), note)
	case RoleDefense:
		if c.NoteOverrides {
			return noteOrPlaceholder(note)
		}
		return composeLine(defenseSegments(c), note)
	default:
		if note != "" {
			return note
		}
		return PlaceholderNoRole
	}
}

// attackSegments follows the fixed field order: offensive technique,
// "en" + weapon action + attack attributes, "sur" + target, movement.
func attackSegments(c *CombatEntry) []string {
	var segs []string
	if s := strings.TrimSpace(c.Offensive); s != "" {
		segs = append(segs, s)
	}
	action := strings.TrimSpace(c.WeaponAction)
	for _, attr := range c.AttackAttributes {
		if attr = strings.TrimSpace(attr); attr != "" {
			if action != "" {
				action += " "
			}
			action += attr
		}
	}
	if action != "" {
		segs = append(segs, "en "+action)
	}
	if s := strings.TrimSpace(c.Target); s != "" {
		segs = append(segs, "sur "+s)
	}
	if mv := strings.TrimSpace(c.AttackMovement); mv != "" {
		segs = append(segs, movementJoiner(mv)+" "+mv)
	}
	return segs
}

// defenseSegments mirrors the attack order with the defensive vocabulary:
// defensive technique, "de" + parade position + parade attribute, movement.
func defenseSegments(c *CombatEntry) []string {
	var segs []string
	if s := strings.TrimSpace(c.Defensive); s != "" {
		segs = append(segs, s)
	}
	pos := strings.TrimSpace(c.ParadePosition)
	if attr := strings.TrimSpace(c.ParadeAttribute); attr != "" {
		if pos != "" {
			pos += " "
		}
		pos += attr
	}
	if pos != "" {
		segs = append(segs, "de "+pos)
	}
	if mv := strings.TrimSpace(c.DefendMovement); mv != "" {
		segs = append(segs, movementJoiner(mv)+" "+mv)
	}
	return segs
}

func composeLine(segs []string, note string) string {
	if len(segs) == 0 {
		return noteOrPlaceholder(note)
	}
	line := strings.Join(segs, " ")
	if note != "" {
		line += " (" + note + ")"
	}
	return line
}

func noteOrPlaceholder(note string) string {
	if note != "" {
		return note
	}
	return PlaceholderToComplete
}

// movementJoiner picks the preposition for a movement segment: gerund
// movements read as "en marchant", the rest as "avec fente".
func movementJoiner(movement string) string {
	if strings.HasSuffix(strings.ToLower(movement), "ant") {
		return "en"
	}
	return "avec"
}
