package cardjson

import (
	"fmt"
	"strings"

	"github.com/samcharles93/cybertag/pkg/card"
)

// typeWords collects the keywords seen in a compound type string.
type typeWords struct {
	monster, spell, trap, token, skill bool

	flags   card.MonsterFlags
	ability card.Ability
	summon  card.Summon

	// kind keeps the last spell or trap subtype keyword. "Ritual" lands in
	// both summon and kind and the category decides which one applies.
	kind    string
	matched bool
}

func (w *typeWords) add(token string) {
	w.matched = true
	switch strings.ToLower(token) {
	case "monster":
		w.monster = true
	case "spell":
		w.spell = true
	case "trap":
		w.trap = true
	case "token":
		w.token = true
	case "skill":
		w.skill = true
	case "effect":
		w.flags |= card.FlagEffect
	case "tuner":
		w.flags |= card.FlagTuner
	case "pendulum":
		w.flags |= card.FlagPendulum
	case "normal":
		// Normal is the zero value for every group.
	case "flip", "gemini", "spirit", "toon", "union":
		w.ability, _ = card.ParseAbility(token)
	case "special", "fusion", "synchro", "xyz", "link":
		w.summon, _ = card.ParseSummon(token)
	case "ritual":
		w.summon = card.SummonRitual
		w.kind = token
	case "continuous", "equip", "field", "quick-play", "quickplay", "counter":
		w.kind = token
	default:
		w.matched = false
	}
}

// ParseTypeString decodes a compound type string such as
// "Synchro Tuner Effect Monster" or "Quick-Play Spell Card". Keyword order
// does not matter and unknown words such as "Card" are ignored. A string with
// no recognised keyword is rejected with ErrInvalidType.
func ParseTypeString(s string) (card.Variant, error) {
	var w typeWords
	found := false
	for _, tok := range strings.Fields(s) {
		w.add(tok)
		found = found || w.matched
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, s)
	}

	switch {
	case w.trap && w.monster:
		return card.TrapMonster{}, nil
	case w.spell:
		var kind card.SpellKind
		if w.kind != "" {
			if k, ok := card.ParseSpellKind(w.kind); ok {
				kind = k
			}
		}
		return card.Spell{Kind: kind}, nil
	case w.trap:
		var kind card.TrapKind
		if w.kind != "" {
			if k, ok := card.ParseTrapKind(w.kind); ok {
				kind = k
			}
		}
		return card.Trap{Kind: kind}, nil
	case w.skill:
		return card.Skill{}, nil
	case w.token && !w.monster:
		return card.Token{}, nil
	case w.monster, w.flags != 0, w.ability != card.AbilityNormal, w.summon != card.SummonNormal:
		return card.Monster{Flags: w.flags, Ability: w.ability, Summon: w.summon}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidType, s)
}
