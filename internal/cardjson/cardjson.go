// Package cardjson maps card documents in the YGOPRODeck JSON shape to and
// from card.Card.
//
// Two input forms are accepted. The string form uses the fields published by
// the public card database ("type", "race", "attribute", "linkmarkers"). The
// numeric form carries packed enum values directly ("type_id", "flags_id",
// "ability_id", "summon_id", "monster_type_id", "attribute_id",
// "link_markers_id"). When both are present the numeric form wins.
package cardjson

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/samcharles93/cybertag/pkg/card"
)

var (
	ErrMissingID   = errors.New("cardjson: missing id")
	ErrMissingName = errors.New("cardjson: missing name")
	ErrMissingType = errors.New("cardjson: missing type")
	ErrInvalidType = errors.New("cardjson: invalid type")
	ErrNotFound    = errors.New("cardjson: card not found")
)

// MaxNameLen is the longest name that fits the null-padded name field.
const MaxNameLen = card.NameCapacity - 1

// Document is the wire shape of a card document.
type Document struct {
	ID          *uint32  `json:"id"`
	Name        *string  `json:"name"`
	Type        *string  `json:"type,omitempty"`
	Race        string   `json:"race,omitempty"`
	Attribute   string   `json:"attribute,omitempty"`
	ATK         *int     `json:"atk,omitempty"`
	DEF         *int     `json:"def,omitempty"`
	Level       *int     `json:"level,omitempty"`
	Scale       *int     `json:"scale,omitempty"`
	LinkVal     *int     `json:"linkval,omitempty"`
	LinkMarkers []string `json:"linkmarkers,omitempty"`
	Desc        string   `json:"desc,omitempty"`

	TypeID        *uint8 `json:"type_id,omitempty"`
	FlagsID       *uint8 `json:"flags_id,omitempty"`
	AbilityID     *uint8 `json:"ability_id,omitempty"`
	SummonID      *uint8 `json:"summon_id,omitempty"`
	MonsterTypeID *uint8 `json:"monster_type_id,omitempty"`
	AttributeID   *uint8 `json:"attribute_id,omitempty"`
	LinkMarkersID *uint8 `json:"link_markers_id,omitempty"`
}

// Entry is a decoded card plus its rules text, if the document had one.
type Entry struct {
	Card        *card.Card
	Description string
}

// Decode parses a single card document.
func Decode(data []byte) (*card.Card, error) {
	e, err := DecodeEntry(data)
	if err != nil {
		return nil, err
	}
	return e.Card, nil
}

// DecodeEntry parses a single card document and keeps its "desc" text.
func DecodeEntry(data []byte) (*Entry, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("cardjson: %w", err)
	}
	return doc.Entry()
}

// DecodeList parses a list of card documents. It accepts a bare array, an
// API response of the form {"data": [...]}, or a single object.
func DecodeList(data []byte) ([]Entry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("cardjson: empty input")
	}

	var docs []Document
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &docs); err != nil {
			return nil, fmt.Errorf("cardjson: %w", err)
		}
	default:
		var wrapper struct {
			Data []Document `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("cardjson: %w", err)
		}
		docs = wrapper.Data
		if docs == nil {
			var doc Document
			if err := json.Unmarshal(trimmed, &doc); err != nil {
				return nil, fmt.Errorf("cardjson: %w", err)
			}
			docs = []Document{doc}
		}
	}

	out := make([]Entry, 0, len(docs))
	for i := range docs {
		e, err := docs[i].Entry()
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		out = append(out, *e)
	}
	return out, nil
}

// Find returns the entry with the given id.
func Find(entries []Entry, id uint32) (*Entry, error) {
	for i := range entries {
		if entries[i].Card.ID == id {
			return &entries[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
}

// Entry converts the document into a card.
func (d *Document) Entry() (*Entry, error) {
	if d.ID == nil {
		return nil, ErrMissingID
	}
	if d.Name == nil {
		return nil, ErrMissingName
	}

	c := &card.Card{
		ID:   *d.ID,
		Name: TruncateName(*d.Name),
	}

	if d.TypeID != nil {
		c.Type = d.numericType()
	} else {
		if d.Type == nil {
			return nil, ErrMissingType
		}
		v, err := ParseTypeString(*d.Type)
		if err != nil {
			return nil, err
		}
		c.Type = applyRace(v, d.Race)
	}

	if d.AttributeID != nil {
		c.Attribute = card.Attribute(*d.AttributeID)
	} else if a, ok := card.ParseAttribute(d.Attribute); ok {
		c.Attribute = a
	}

	if d.ATK != nil {
		c.ATK = uint16(*d.ATK)
	}
	if d.DEF != nil {
		c.DEF = uint16(*d.DEF)
	}
	if d.Level != nil {
		c.Level = uint8(*d.Level)
	}
	if d.Scale != nil {
		c.ScaleOrLink = uint8(*d.Scale)
	}
	if d.LinkVal != nil {
		c.ScaleOrLink = uint8(*d.LinkVal)
	}

	if d.LinkMarkersID != nil {
		c.LinkMarkers = card.LinkMarkers(*d.LinkMarkersID)
	} else {
		c.LinkMarkers = ParseLinkMarkers(d.LinkMarkers)
	}

	return &Entry{Card: c, Description: d.Desc}, nil
}

func (d *Document) numericType() card.Variant {
	var flags, ability, code, race uint8
	if d.FlagsID != nil {
		flags = *d.FlagsID
	}
	if d.AbilityID != nil {
		ability = *d.AbilityID
	}
	if d.SummonID != nil {
		code = *d.SummonID
	}
	if d.MonsterTypeID != nil {
		race = *d.MonsterTypeID
	}

	switch card.Category(*d.TypeID) {
	case card.CategoryMonster:
		return card.Monster{
			Flags:   card.MonsterFlags(flags),
			Ability: card.Ability(ability),
			Summon:  card.Summon(code),
			Race:    card.Race(race),
		}
	case card.CategoryTrapMonster:
		return card.TrapMonster{}
	case card.CategorySpell:
		return card.Spell{Kind: card.SpellKind(code)}
	case card.CategoryTrap:
		return card.Trap{Kind: card.TrapKind(code)}
	case card.CategorySkill:
		return card.Skill{}
	default:
		return card.Token{}
	}
}

// applyRace folds the "race" field into the variant. For monsters it is the
// monster type; for spells and traps the database stores the kind there.
// Unrecognised values are ignored.
func applyRace(v card.Variant, race string) card.Variant {
	if race == "" {
		return v
	}
	switch t := v.(type) {
	case card.Monster:
		if r, ok := card.ParseRace(race); ok {
			t.Race = r
		}
		return t
	case card.Spell:
		if k, ok := card.ParseSpellKind(race); ok {
			t.Kind = k
		}
		return t
	case card.Trap:
		if k, ok := card.ParseTrapKind(race); ok {
			t.Kind = k
		}
		return t
	}
	return v
}

// TruncateName clips s to MaxNameLen bytes without splitting a UTF-8 sequence.
func TruncateName(s string) string {
	if len(s) <= MaxNameLen {
		return s
	}
	n := MaxNameLen
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// ParseLinkMarkers folds arrow names into a marker set. Both "Top-Right" and
// "Top Right" are accepted; unknown names are ignored.
func ParseLinkMarkers(names []string) card.LinkMarkers {
	var m card.LinkMarkers
	for _, n := range names {
		if bit, ok := card.ParseLinkMarker(n); ok {
			m |= bit
		}
	}
	return m
}

// Encode renders c as a string-form document.
func Encode(c *card.Card) ([]byte, error) {
	return EncodeEntry(&Entry{Card: c})
}

// EncodeEntry renders an entry as a string-form document, including "desc"
// when the entry carries a description.
func EncodeEntry(e *Entry) ([]byte, error) {
	doc, err := FromCard(e.Card)
	if err != nil {
		return nil, err
	}
	doc.Desc = e.Description
	return json.Marshal(doc)
}

// FromCard builds the string-form document for c. Monster stats are only
// emitted for monsters, and def/level are omitted for Link monsters.
func FromCard(c *card.Card) (*Document, error) {
	if c == nil || c.Type == nil {
		return nil, ErrMissingType
	}

	id := c.ID
	name := c.Name
	doc := &Document{ID: &id, Name: &name}

	var typ string
	switch t := c.Type.(type) {
	case card.Monster:
		typ = card.Describe(t)
		doc.Race = t.Race.String()
		doc.Attribute = c.Attribute.String()
		doc.ATK = intPtr(int(c.ATK))
		if rating, ok := c.LinkRating(); ok {
			doc.LinkVal = intPtr(int(rating))
			doc.LinkMarkers = c.LinkMarkers.Names()
		} else {
			doc.DEF = intPtr(int(c.DEF))
			doc.Level = intPtr(int(c.Level))
		}
		if scale, ok := c.Scale(); ok {
			doc.Scale = intPtr(int(scale))
		}
	case card.TrapMonster:
		typ = card.Describe(t)
		doc.Attribute = c.Attribute.String()
		doc.ATK = intPtr(int(c.ATK))
		doc.DEF = intPtr(int(c.DEF))
		doc.Level = intPtr(int(c.Level))
	case card.Spell:
		typ = "Spell Card"
		doc.Race = t.Kind.String()
	case card.Trap:
		typ = "Trap Card"
		doc.Race = t.Kind.String()
	default:
		typ = card.Describe(t)
	}
	doc.Type = &typ
	return doc, nil
}

func intPtr(v int) *int { return &v }
