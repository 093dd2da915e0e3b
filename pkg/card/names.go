package card

import (
	"fmt"
	"strings"
)

var (
	categoryNames  = []string{"Token", "Skill", "Spell", "Trap", "Trap Monster", "Monster"}
	abilityNames   = []string{"Normal", "Flip", "Gemini", "Spirit", "Toon", "Union"}
	summonNames    = []string{"Normal", "Special", "Ritual", "Fusion", "Link", "Synchro", "XYZ"}
	spellKindNames = []string{"Normal", "Continuous", "Equip", "Field", "Quick-Play", "Ritual"}
	trapKindNames  = []string{"Normal", "Continuous", "Counter"}
	attributeNames = []string{"DARK", "EARTH", "FIRE", "LIGHT", "WATER", "WIND", "DIVINE", "TIME"}
	raceNames      = []string{
		"Aqua", "Beast", "Beast-Warrior", "Creator-God", "Cyberse", "Dinosaur",
		"Divine-Beast", "Dragon", "Fairy", "Fiend", "Fish", "Insect", "Machine",
		"Plant", "Psychic", "Pyro", "Reptile", "Rock", "Sea Serpent", "Spellcaster",
		"Thunder", "Warrior", "Winged Beast", "Wyrm", "Zombie",
	}
	linkMarkerNames = []string{
		"Top", "Top-Right", "Right", "Bottom-Right",
		"Bottom", "Bottom-Left", "Left", "Top-Left",
	}
)

func nameOf(names []string, v uint8, kind string) string {
	if int(v) < len(names) {
		return names[v]
	}
	return fmt.Sprintf("%s(%d)", kind, v)
}

// normalize folds case and drops separators so "Quick-Play", "quick play" and
// "QuickPlay" compare equal.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch r {
		case ' ', '-', '_':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func lookup[T ~uint8](names []string, s string) (T, bool) {
	key := normalize(s)
	for i, n := range names {
		if normalize(n) == key {
			return T(i), true
		}
	}
	return 0, false
}

func (c Category) String() string  { return nameOf(categoryNames, uint8(c), "Category") }
func (a Ability) String() string   { return nameOf(abilityNames, uint8(a), "Ability") }
func (s Summon) String() string    { return nameOf(summonNames, uint8(s), "Summon") }
func (k SpellKind) String() string { return nameOf(spellKindNames, uint8(k), "SpellKind") }
func (k TrapKind) String() string  { return nameOf(trapKindNames, uint8(k), "TrapKind") }
func (a Attribute) String() string { return nameOf(attributeNames, uint8(a), "Attribute") }
func (r Race) String() string      { return nameOf(raceNames, uint8(r), "Race") }

func ParseAbility(s string) (Ability, bool)     { return lookup[Ability](abilityNames, s) }
func ParseSummon(s string) (Summon, bool)       { return lookup[Summon](summonNames, s) }
func ParseSpellKind(s string) (SpellKind, bool) { return lookup[SpellKind](spellKindNames, s) }
func ParseTrapKind(s string) (TrapKind, bool)   { return lookup[TrapKind](trapKindNames, s) }
func ParseAttribute(s string) (Attribute, bool) { return lookup[Attribute](attributeNames, s) }
func ParseRace(s string) (Race, bool)           { return lookup[Race](raceNames, s) }

// ParseLinkMarker accepts a single arrow name such as "Top-Right" or "Top Right".
func ParseLinkMarker(s string) (LinkMarkers, bool) {
	i, ok := lookup[uint8](linkMarkerNames, s)
	if !ok {
		return 0, false
	}
	return LinkMarkers(1) << i, true
}

// Names returns the arrow names in bit order.
func (m LinkMarkers) Names() []string {
	var out []string
	for i, name := range linkMarkerNames {
		if m&(1<<i) != 0 {
			out = append(out, name)
		}
	}
	return out
}

func (m LinkMarkers) String() string {
	if m == 0 {
		return "none"
	}
	return strings.Join(m.Names(), ",")
}

func (f MonsterFlags) String() string {
	var parts []string
	if f&FlagPendulum != 0 {
		parts = append(parts, "Pendulum")
	}
	if f&FlagTuner != 0 {
		parts = append(parts, "Tuner")
	}
	if f&FlagEffect != 0 {
		parts = append(parts, "Effect")
	}
	return strings.Join(parts, " ")
}

// Describe renders a type line in the style printed on cards, for example
// "Synchro Tuner Effect Monster" or "Quick-Play Spell Card".
func Describe(v Variant) string {
	switch t := v.(type) {
	case Monster:
		var parts []string
		if t.Summon != SummonNormal {
			parts = append(parts, t.Summon.String())
		}
		if t.Ability != AbilityNormal {
			parts = append(parts, t.Ability.String())
		}
		if flags := t.Flags.String(); flags != "" {
			parts = append(parts, flags)
		} else if t.Summon == SummonNormal && t.Ability == AbilityNormal {
			parts = append(parts, "Normal")
		}
		return strings.Join(append(parts, "Monster"), " ")
	case TrapMonster:
		return "Trap Monster"
	case Spell:
		return t.Kind.String() + " Spell Card"
	case Trap:
		return t.Kind.String() + " Trap Card"
	case Skill:
		return "Skill Card"
	case Token:
		return "Token"
	default:
		return "Unknown"
	}
}
