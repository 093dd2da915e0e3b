// Package card defines the card entity stored in the BASIC record of a tag
// and the codec that packs it.
package card

import "fmt"

const (
	// NameCapacity is the width of the null-padded name field.
	NameCapacity = 64

	// PayloadSize is the unpadded size of a BASIC record payload.
	PayloadSize = 4 + 1 + 1 + 1 + 2 + 2 + 1 + 1 + 1 + NameCapacity

	// DataVersion is the BASIC record version written by this package.
	DataVersion uint8 = 0x00
)

// Card is one trading card as stored on a tag.
//
// Def and Level carry no meaning for Link monsters, and ScaleOrLink holds the
// pendulum scale or the link rating depending on the card type. All fields are
// still written for every card.
type Card struct {
	ID          uint32
	Type        Variant
	Attribute   Attribute
	ATK         uint16
	DEF         uint16
	Level       uint8
	ScaleOrLink uint8
	LinkMarkers LinkMarkers
	Name        string
}

// IsLink reports whether the card is a Link monster.
func (c *Card) IsLink() bool {
	m, ok := c.Type.(Monster)
	return ok && m.Summon == SummonLink
}

// IsPendulum reports whether the card is a Pendulum monster.
func (c *Card) IsPendulum() bool {
	m, ok := c.Type.(Monster)
	return ok && m.Flags&FlagPendulum != 0
}

// Scale returns the pendulum scale, or false if the card has none.
func (c *Card) Scale() (uint8, bool) {
	if !c.IsPendulum() {
		return 0, false
	}
	return c.ScaleOrLink, true
}

// LinkRating returns the link rating, or false if the card is not a Link monster.
func (c *Card) LinkRating() (uint8, bool) {
	if !c.IsLink() {
		return 0, false
	}
	return c.ScaleOrLink, true
}

func (c *Card) String() string {
	return fmt.Sprintf("%08d %q (%s)", c.ID, c.Name, Describe(c.Type))
}

type Attribute uint8

const (
	AttributeDark Attribute = iota
	AttributeEarth
	AttributeFire
	AttributeLight
	AttributeWater
	AttributeWind
	AttributeDivine
	AttributeTime
)

// LinkMarkers is a set of arrows on a Link monster.
type LinkMarkers uint8

const (
	LinkTop LinkMarkers = 1 << iota
	LinkTopRight
	LinkRight
	LinkBottomRight
	LinkBottom
	LinkBottomLeft
	LinkLeft
	LinkTopLeft
)

func (m LinkMarkers) Has(flag LinkMarkers) bool { return m&flag == flag }

// Count returns the number of arrows set.
func (m LinkMarkers) Count() int {
	n := 0
	for v := m; v != 0; v &= v - 1 {
		n++
	}
	return n
}
