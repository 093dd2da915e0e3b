// Package sig encodes the signature records that certify a card and builds the
// canonical byte sequence those signatures are computed over.
//
// A signature record is variable length: the duelist and deck identifiers are
// present only when the matching flag bit is set. Setting an identifier sets
// its bit; a bit set without an identifier writes the nil UUID, so the flags
// byte always describes the record shape.
package sig

import (
	"strings"

	"github.com/google/uuid"
)

// Version is the signature format version written into new signatures.
const Version uint8 = 0x01

// ValueSize is the length of the signature bytes for Ed25519.
const ValueSize = 64

type Flags uint8

const (
	FlagBoundDuelist Flags = 0x01
	FlagBoundDeck    Flags = 0x02
	FlagSupersede    Flags = 0x04
	FlagHasExpiry    Flags = 0x08
	FlagTournament   Flags = 0x10
)

func (f Flags) Has(flag Flags) bool { return f&flag == flag }

func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	names := []struct {
		flag Flags
		name string
	}{
		{FlagBoundDuelist, "duelist"},
		{FlagBoundDeck, "deck"},
		{FlagSupersede, "supersede"},
		{FlagHasExpiry, "expiry"},
		{FlagTournament, "tournament"},
	}
	var parts []string
	for _, n := range names {
		if f.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

type Algorithm uint8

const AlgorithmEd25519 Algorithm = 0x00

func (a Algorithm) String() string {
	if a == AlgorithmEd25519 {
		return "ed25519"
	}
	return "unknown"
}

// Fingerprint identifies the public key of a signing authority.
type Fingerprint [8]byte

// Signature is one certification of a card by an authority.
type Signature struct {
	Version   uint8
	Flags     Flags
	Algorithm Algorithm
	Authority Fingerprint
	IssuedAt  uint32
	// Expiry is a unix time. Zero means the signature does not expire.
	Expiry uint32
	// Duelist and Deck bind the signature to an owner or deck when set.
	Duelist *uuid.UUID
	Deck    *uuid.UUID
	Value   [ValueSize]byte
}

// WireFlags returns the flags as written to the tag: Flags plus the binding
// bit of every identifier that is set.
func (s *Signature) WireFlags() Flags {
	f := s.Flags
	if s.Duelist != nil {
		f |= FlagBoundDuelist
	}
	if s.Deck != nil {
		f |= FlagBoundDeck
	}
	return f
}

// boundIDs returns the identifiers in wire order for the given flags. A bound
// identity with no id is the nil UUID.
func (s *Signature) boundIDs(f Flags) [][]byte {
	var ids [][]byte
	if f.Has(FlagBoundDuelist) {
		ids = append(ids, idBytes(s.Duelist))
	}
	if f.Has(FlagBoundDeck) {
		ids = append(ids, idBytes(s.Deck))
	}
	return ids
}

func idBytes(id *uuid.UUID) []byte {
	if id == nil {
		return uuid.Nil[:]
	}
	return id[:]
}

// Expires reports whether the signature carries an expiry time.
func (s *Signature) Expires() bool {
	return s.Flags.Has(FlagHasExpiry) && s.Expiry != 0
}

// Equal reports whether two signatures encode to the same bytes.
func (s *Signature) Equal(o *Signature) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.Version == o.Version &&
		s.WireFlags() == o.WireFlags() &&
		s.Algorithm == o.Algorithm &&
		s.Authority == o.Authority &&
		s.IssuedAt == o.IssuedAt &&
		s.Expiry == o.Expiry &&
		sameID(s.Duelist, o.Duelist) &&
		sameID(s.Deck, o.Deck) &&
		s.Value == o.Value
}

// sameID compares ids by their wire bytes, so nil equals the nil UUID.
func sameID(a, b *uuid.UUID) bool {
	return string(idBytes(a)) == string(idBytes(b))
}
