package card

import "testing"

func TestUnpackPriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ctype1 uint8
		want   Category
	}{
		{0x80, CategoryMonster},
		{0xFF, CategoryMonster},
		{0xC0, CategoryMonster},
		{0x40, CategoryTrapMonster},
		{0x7F, CategoryTrapMonster},
		{0x70, CategoryTrapMonster},
		{0x30, CategoryTrap},
		{0x20, CategorySpell},
		{0x2F, CategorySpell},
		{0x10, CategorySkill},
		{0x00, CategoryToken},
		{0x0F, CategoryToken},
	}
	for _, tt := range tests {
		if got := Unpack(tt.ctype1, 0).Category(); got != tt.want {
			t.Fatalf("Unpack(%#02x): got %v, want %v", tt.ctype1, got, tt.want)
		}
	}
}

func TestUnpackMonsterFields(t *testing.T) {
	t.Parallel()

	// Effect | Tuner, Flip ability; Synchro summon, Dragon race.
	v := Unpack(0x80|0x20|0x08|0x01, 5<<5|7)
	m, ok := v.(Monster)
	if !ok {
		t.Fatalf("got %T, want Monster", v)
	}
	want := Monster{Flags: FlagEffect | FlagTuner, Ability: AbilityFlip, Summon: SummonSynchro, Race: RaceDragon}
	if m != want {
		t.Fatalf("got %+v, want %+v", m, want)
	}
}

func TestUnpackSpellAndTrapKinds(t *testing.T) {
	t.Parallel()

	if got := Unpack(0x20, 4<<5); got != (Spell{Kind: SpellQuickPlay}) {
		t.Fatalf("spell: got %#v", got)
	}
	if got := Unpack(0x30, 2<<5); got != (Trap{Kind: TrapCounter}) {
		t.Fatalf("trap: got %#v", got)
	}
	// The race bits are ignored outside monsters.
	if got := Unpack(0x20, 1<<5|0x1F); got != (Spell{Kind: SpellContinuous}) {
		t.Fatalf("spell with race bits: got %#v", got)
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	t.Parallel()

	var variants []Variant
	for flags := range 8 {
		for ability := AbilityNormal; ability <= AbilityUnion; ability++ {
			for summon := SummonNormal; summon <= SummonXyz; summon++ {
				for race := RaceAqua; race <= RaceZombie; race++ {
					variants = append(variants, Monster{
						Flags:   MonsterFlags(flags << 3),
						Ability: ability,
						Summon:  summon,
						Race:    race,
					})
				}
			}
		}
	}
	for kind := SpellNormal; kind <= SpellRitual; kind++ {
		variants = append(variants, Spell{Kind: kind})
	}
	for kind := TrapNormal; kind <= TrapCounter; kind++ {
		variants = append(variants, Trap{Kind: kind})
	}
	variants = append(variants, TrapMonster{}, Token{}, Skill{})

	for _, v := range variants {
		c1, c0 := Pack(v)
		if got := Unpack(c1, c0); got != v {
			t.Fatalf("round trip %#v: packed %#02x %#02x, got %#v", v, c1, c0, got)
		}
	}
}

func TestPackLayout(t *testing.T) {
	t.Parallel()

	c1, c0 := Pack(Monster{Flags: FlagEffect | FlagPendulum, Ability: AbilityNormal, Summon: SummonXyz, Race: RaceZombie})
	if c1 != 0xB0 || c0 != 0xD8 {
		t.Fatalf("monster: got %#02x %#02x, want 0xb0 0xd8", c1, c0)
	}
	c1, c0 = Pack(Spell{Kind: SpellField})
	if c1 != 0x20 || c0 != 0x60 {
		t.Fatalf("spell: got %#02x %#02x, want 0x20 0x60", c1, c0)
	}
	c1, c0 = Pack(nil)
	if c1 != 0 || c0 != 0 {
		t.Fatalf("nil: got %#02x %#02x", c1, c0)
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		v    Variant
		want string
	}{
		{Monster{}, "Normal Monster"},
		{Monster{Flags: FlagEffect}, "Effect Monster"},
		{Monster{Flags: FlagEffect | FlagTuner, Summon: SummonSynchro}, "Synchro Tuner Effect Monster"},
		{Monster{Flags: FlagEffect, Ability: AbilityFlip}, "Flip Effect Monster"},
		{Monster{Summon: SummonLink, Flags: FlagEffect}, "Link Effect Monster"},
		{Monster{Summon: SummonXyz}, "XYZ Monster"},
		{Spell{Kind: SpellQuickPlay}, "Quick-Play Spell Card"},
		{Trap{Kind: TrapCounter}, "Counter Trap Card"},
		{TrapMonster{}, "Trap Monster"},
		{Skill{}, "Skill Card"},
		{Token{}, "Token"},
	}
	for _, tt := range tests {
		if got := Describe(tt.v); got != tt.want {
			t.Fatalf("Describe(%#v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
