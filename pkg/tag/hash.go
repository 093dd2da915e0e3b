package tag

import (
	"bytes"

	"github.com/samcharles93/cybertag/pkg/card"
	"github.com/samcharles93/cybertag/pkg/sig"
	"github.com/samcharles93/cybertag/pkg/ygobin"
)

// HashFunc digests the framed BASIC record into the hash placed in the
// canonical signing payload.
type HashFunc func(data []byte) [sig.HashSize]byte

// BasicRecord returns the framed BASIC record covered by signatures. For a
// decoded image whose Card is unchanged these are the bytes read from the tag;
// otherwise the record is encoded from Card.
func (img *Image) BasicRecord() ([]byte, error) {
	if err := img.check(); err != nil {
		return nil, err
	}
	if raw := img.storedBasic(); raw != nil {
		return bytes.Clone(raw), nil
	}
	return encodeBasic(img.Card)
}

func encodeBasic(c *card.Card) ([]byte, error) {
	return ygobin.Encode(func(w *ygobin.Writer) {
		card.AppendRecord(w, c)
	})
}

// storedBasic returns the BASIC record read from the tag while Card still
// encodes to the same fields. Bytes past the name terminator are kept, so a
// re-encoded image hashes the same as the tag it came from.
func (img *Image) storedBasic() []byte {
	if img.basic == nil {
		return nil
	}
	fresh, err := encodeBasic(img.Card)
	if err != nil {
		return nil
	}
	if bytes.Equal(fresh, img.basic) {
		return img.basic
	}
	r := ygobin.NewReader(img.basic)
	h, err := r.ReadRecordHeader()
	if err != nil {
		return nil
	}
	stored, err := card.ReadRecord(r, h)
	if err != nil {
		return nil
	}
	if canon, err := encodeBasic(stored); err != nil || !bytes.Equal(canon, fresh) {
		return nil
	}
	return img.basic
}

// ContentHash digests the BASIC record with sum.
func (img *Image) ContentHash(sum HashFunc) ([sig.HashSize]byte, error) {
	raw, err := img.BasicRecord()
	if err != nil {
		return [sig.HashSize]byte{}, err
	}
	return sum(raw), nil
}

// Effective returns the signatures still in force. A signature with the
// supersede flag cancels every earlier signature from the same authority, but
// only when counts reports true for it. A nil counts lets every signature
// supersede.
func (img *Image) Effective(counts func(*sig.Signature) bool) []*sig.Signature {
	var out []*sig.Signature
	for i, s := range img.Signatures {
		superseded := false
		for _, later := range img.Signatures[i+1:] {
			if later.Authority != s.Authority || !later.Flags.Has(sig.FlagSupersede) {
				continue
			}
			if counts == nil || counts(later) {
				superseded = true
				break
			}
		}
		if !superseded {
			out = append(out, s)
		}
	}
	return out
}
