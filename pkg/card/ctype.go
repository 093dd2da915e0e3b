package card

// The card type is packed into two bytes.
//
// CTYPE1 is decoded by priority: bit 7 marks a monster (flags in bits 3-5,
// ability in bits 0-2), otherwise bit 6 marks a trap monster, otherwise bits
// 4-5 select token, skill, spell or trap.
//
// CTYPE0 holds a 3-bit code in bits 5-7 and the monster race in bits 0-4. The
// code is a summon mechanism for monsters and a spell or trap kind otherwise.
const (
	ctype1Monster     uint8 = 0x80
	ctype1TrapMonster uint8 = 0x40
	ctype1GroupMask   uint8 = 0x30
	ctype1FlagMask    uint8 = 0x38
	ctype1AbilityMask uint8 = 0x07

	groupToken uint8 = 0x00
	groupSkill uint8 = 0x10
	groupSpell uint8 = 0x20
	groupTrap  uint8 = 0x30

	ctype0CodeShift       = 5
	ctype0CodeMask  uint8 = 0x07
	ctype0RaceMask  uint8 = 0x1F
)

type Category uint8

const (
	CategoryToken Category = iota
	CategorySkill
	CategorySpell
	CategoryTrap
	CategoryTrapMonster
	CategoryMonster
)

// MonsterFlags are the monster sub-flags kept in CTYPE1.
type MonsterFlags uint8

const (
	FlagTuner    MonsterFlags = 0x08
	FlagPendulum MonsterFlags = 0x10
	FlagEffect   MonsterFlags = 0x20
)

type Ability uint8

const (
	AbilityNormal Ability = iota
	AbilityFlip
	AbilityGemini
	AbilitySpirit
	AbilityToon
	AbilityUnion
)

type Summon uint8

const (
	SummonNormal Summon = iota
	SummonSpecial
	SummonRitual
	SummonFusion
	SummonLink
	SummonSynchro
	SummonXyz
)

type SpellKind uint8

const (
	SpellNormal SpellKind = iota
	SpellContinuous
	SpellEquip
	SpellField
	SpellQuickPlay
	SpellRitual
)

type TrapKind uint8

const (
	TrapNormal TrapKind = iota
	TrapContinuous
	TrapCounter
)

// Race is the monster type printed on the card.
type Race uint8

const (
	RaceAqua Race = iota
	RaceBeast
	RaceBeastWarrior
	RaceCreatorGod
	RaceCyberse
	RaceDinosaur
	RaceDivineBeast
	RaceDragon
	RaceFairy
	RaceFiend
	RaceFish
	RaceInsect
	RaceMachine
	RacePlant
	RacePsychic
	RacePyro
	RaceReptile
	RaceRock
	RaceSeaSerpent
	RaceSpellcaster
	RaceThunder
	RaceWarrior
	RaceWingedBeast
	RaceWyrm
	RaceZombie
)

// Variant is the decoded card type. It is one of Monster, TrapMonster, Spell,
// Trap, Token or Skill.
type Variant interface {
	Category() Category
	pack() (ctype1, ctype0 uint8)
}

type Monster struct {
	Flags   MonsterFlags
	Ability Ability
	Summon  Summon
	Race    Race
}

// TrapMonster is a trap card that is also treated as a monster.
type TrapMonster struct{}

type Spell struct {
	Kind SpellKind
}

type Trap struct {
	Kind TrapKind
}

type Token struct{}

type Skill struct{}

func (Monster) Category() Category     { return CategoryMonster }
func (TrapMonster) Category() Category { return CategoryTrapMonster }
func (Spell) Category() Category       { return CategorySpell }
func (Trap) Category() Category        { return CategoryTrap }
func (Token) Category() Category       { return CategoryToken }
func (Skill) Category() Category       { return CategorySkill }

func (m Monster) pack() (uint8, uint8) {
	c1 := ctype1Monster | uint8(m.Flags)&ctype1FlagMask | uint8(m.Ability)&ctype1AbilityMask
	return c1, packCode(uint8(m.Summon)) | uint8(m.Race)&ctype0RaceMask
}

func (TrapMonster) pack() (uint8, uint8) { return ctype1TrapMonster, 0 }

func (s Spell) pack() (uint8, uint8) { return groupSpell, packCode(uint8(s.Kind)) }

func (t Trap) pack() (uint8, uint8) { return groupTrap, packCode(uint8(t.Kind)) }

func (Token) pack() (uint8, uint8) { return groupToken, 0 }

func (Skill) pack() (uint8, uint8) { return groupSkill, 0 }

func packCode(code uint8) uint8 {
	return (code & ctype0CodeMask) << ctype0CodeShift
}

// Pack encodes v into its two type bytes. A nil variant packs as a token.
func Pack(v Variant) (ctype1, ctype0 uint8) {
	if v == nil {
		return groupToken, 0
	}
	return v.pack()
}

// Unpack decodes the two type bytes. Bit 7 of ctype1 wins over bit 6, which
// wins over the 2-bit group.
func Unpack(ctype1, ctype0 uint8) Variant {
	code := ctype0 >> ctype0CodeShift & ctype0CodeMask
	switch {
	case ctype1&ctype1Monster != 0:
		return Monster{
			Flags:   MonsterFlags(ctype1 & ctype1FlagMask),
			Ability: Ability(ctype1 & ctype1AbilityMask),
			Summon:  Summon(code),
			Race:    Race(ctype0 & ctype0RaceMask),
		}
	case ctype1&ctype1TrapMonster != 0:
		return TrapMonster{}
	}

	switch ctype1 & ctype1GroupMask {
	case groupSkill:
		return Skill{}
	case groupSpell:
		return Spell{Kind: SpellKind(code)}
	case groupTrap:
		return Trap{Kind: TrapKind(code)}
	default:
		return Token{}
	}
}
