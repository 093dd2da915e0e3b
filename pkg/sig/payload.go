package sig

import "encoding/binary"

// DomainTag prefixes every canonical payload so a signature cannot be
// replayed under another protocol.
const DomainTag = "CYBSIGv1"

// HashSize is the length of the card content hash placed in the payload.
const HashSize = 32

const canonicalBaseSize = len(DomainTag) + 4 + HashSize + 1 + 4 + 4 + 8

// CanonicalPayload returns the bytes an authority signs for s over the card
// with the given id and BASIC record hash.
//
// The layout is frozen: tag, card id, hash, flags, issued-at, expiry, the
// optional duelist and deck ids, then the authority fingerprint. Changing it
// invalidates every signature already issued.
func CanonicalPayload(cardID uint32, cardHash [HashSize]byte, s *Signature) []byte {
	out := make([]byte, 0, canonicalBaseSize+2*idSize)
	out = append(out, DomainTag...)
	out = binary.BigEndian.AppendUint32(out, cardID)
	out = append(out, cardHash[:]...)
	flags := s.WireFlags()
	out = append(out, uint8(flags))
	out = binary.BigEndian.AppendUint32(out, s.IssuedAt)
	out = binary.BigEndian.AppendUint32(out, s.Expiry)
	for _, id := range s.boundIDs(flags) {
		out = append(out, id...)
	}
	return append(out, s.Authority[:]...)
}
