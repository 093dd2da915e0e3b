package sig

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/samcharles93/cybertag/pkg/ygobin"
)

// DataVersion is the SIGNATURE record version written by this package.
const DataVersion uint8 = 0x00

const (
	basePayloadSize = 1 + 1 + 1 + 8 + 4 + 4 + ValueSize
	idSize          = 16
)

// PayloadSize returns the payload length for the given flags: 83 bytes plus
// 16 for each bound identity.
func PayloadSize(flags Flags) int {
	n := basePayloadSize
	if flags.Has(FlagBoundDuelist) {
		n += idSize
	}
	if flags.Has(FlagBoundDeck) {
		n += idSize
	}
	return n
}

// CalcSize returns the exact framed size of a signature record with the given
// flags, for checking tag capacity before writing.
func CalcSize(flags Flags) int {
	return ygobin.FramedSize(PayloadSize(flags))
}

// Write encodes s as a signature payload of PayloadSize(s.WireFlags()) bytes.
func Write(w *ygobin.Writer, s *Signature) {
	flags := s.WireFlags()
	w.WriteUint8(s.Version)
	w.WriteUint8(uint8(flags))
	w.WriteUint8(uint8(s.Algorithm))
	w.WriteBytes(s.Authority[:])
	w.WriteUint32(s.IssuedAt)
	w.WriteUint32(s.Expiry)
	for _, id := range s.boundIDs(flags) {
		w.WriteBytes(id)
	}
	w.WriteBytes(s.Value[:])
}

// Read decodes a signature payload. The optional identifiers are consumed only
// when their flag bit is set.
func Read(r *ygobin.Reader) (*Signature, error) {
	var s Signature
	var err error
	if s.Version, err = r.ReadUint8(); err != nil {
		return nil, err
	}
	flags, _ := r.ReadUint8()
	alg, _ := r.ReadUint8()
	_ = r.ReadInto(s.Authority[:])
	s.IssuedAt, _ = r.ReadUint32()
	if s.Expiry, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	s.Flags = Flags(flags)
	s.Algorithm = Algorithm(alg)

	if s.Flags.Has(FlagBoundDuelist) {
		if s.Duelist, err = readID(r); err != nil {
			return nil, err
		}
	}
	if s.Flags.Has(FlagBoundDeck) {
		if s.Deck, err = readID(r); err != nil {
			return nil, err
		}
	}
	if err := r.ReadInto(s.Value[:]); err != nil {
		return nil, err
	}
	return &s, nil
}

func readID(r *ygobin.Reader) (*uuid.UUID, error) {
	var id uuid.UUID
	if err := r.ReadInto(id[:]); err != nil {
		return nil, err
	}
	return &id, nil
}

// AppendRecord writes a complete SIGNATURE record for s.
func AppendRecord(w *ygobin.Writer, s *Signature) {
	w.WriteRecordHeader(ygobin.RecordSignature, DataVersion)
	Write(w, s)
	w.WriteRecordEnd()
}

// ReadRecord decodes the payload of an open SIGNATURE record.
func ReadRecord(r *ygobin.Reader, h ygobin.Header) (*Signature, error) {
	if h.Type != ygobin.RecordSignature {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedRecord, h.Type)
	}
	if h.Version > DataVersion {
		return nil, fmt.Errorf("%w: signature record v%d", ErrUnsupportedVersion, h.Version)
	}
	return Read(r)
}
