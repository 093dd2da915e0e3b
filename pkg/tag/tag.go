// Package tag assembles complete tag images: the magic word, the BASIC card
// record, an optional description and any number of signatures.
package tag

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/samcharles93/cybertag/pkg/card"
	"github.com/samcharles93/cybertag/pkg/sig"
	"github.com/samcharles93/cybertag/pkg/ygobin"
)

var (
	ErrNoCard        = errors.New("tag: image has no card record")
	ErrDuplicateCard = errors.New("tag: more than one card record")
	ErrTooLarge      = errors.New("tag: image does not fit tag")
)

// Image is the decoded content of one tag.
type Image struct {
	Card        *card.Card
	Description string
	Signatures  []*sig.Signature
	// Unknown holds records of types this package does not decode. They are
	// written back unchanged by Encode.
	Unknown []ygobin.Record

	// basic is the BASIC record as read from the tag.
	basic []byte
}

func (img *Image) write(w *ygobin.Writer) error {
	w.WriteMagicWord()
	if raw := img.storedBasic(); raw != nil {
		w.WriteBytes(raw)
	} else {
		card.AppendRecord(w, img.Card)
	}
	if img.Description != "" {
		if err := card.AppendDescription(w, img.Description); err != nil {
			return err
		}
	}
	for _, s := range img.Signatures {
		sig.AppendRecord(w, s)
	}
	for _, rec := range img.Unknown {
		w.WriteRecordHeader(rec.Type, rec.Version)
		w.WriteBytes(rec.Payload)
		w.WriteRecordEnd()
	}
	return nil
}

func (img *Image) check() error {
	if img == nil || img.Card == nil {
		return ErrNoCard
	}
	return img.Card.Validate()
}

// Encode serializes img into a new buffer of exactly the required size.
func Encode(img *Image) ([]byte, error) {
	if err := img.check(); err != nil {
		return nil, err
	}
	var writeErr error
	buf, err := ygobin.Encode(func(w *ygobin.Writer) {
		writeErr = img.write(w)
	})
	if writeErr != nil {
		return nil, writeErr
	}
	return buf, err
}

// EncodeFor serializes img and checks that it fits the tag profile.
func EncodeFor(img *Image, p Profile) ([]byte, error) {
	n, err := SizeOf(img)
	if err != nil {
		return nil, err
	}
	if !p.Fits(n) {
		return nil, fmt.Errorf("%w: %d bytes, %s holds %d", ErrTooLarge, n, p.Name, p.Capacity)
	}
	return Encode(img)
}

// SizeOf returns the encoded size of img without allocating it.
func SizeOf(img *Image) (int, error) {
	if err := img.check(); err != nil {
		return 0, err
	}
	var writeErr error
	n, err := ygobin.Size(func(w *ygobin.Writer) {
		writeErr = img.write(w)
	})
	if writeErr != nil {
		return 0, writeErr
	}
	return n, err
}

// Decode parses a tag image. Every record checksum must be valid; a single bad
// record fails the whole read. Trailing blank space is ignored. The image does
// not retain buf.
func Decode(buf []byte) (*Image, error) {
	records, err := ygobin.ReadRecords(buf)
	if err != nil {
		return nil, err
	}

	img := &Image{}
	for _, rec := range records {
		r := ygobin.NewReader(rec.Payload)
		switch rec.Type {
		case ygobin.RecordBasic:
			if img.Card != nil {
				return nil, fmt.Errorf("%w: second at offset %d", ErrDuplicateCard, rec.Offset)
			}
			c, err := card.ReadRecord(r, rec.Header)
			if err != nil {
				return nil, fmt.Errorf("tag: card record at offset %d: %w", rec.Offset, err)
			}
			img.Card = c
			img.basic = bytes.Clone(rec.Raw)
		case ygobin.RecordDescription:
			text, err := card.ReadDescription(r, rec.Header)
			if err != nil {
				return nil, fmt.Errorf("tag: description record at offset %d: %w", rec.Offset, err)
			}
			img.Description = text
		case ygobin.RecordSignature:
			s, err := sig.ReadRecord(r, rec.Header)
			if err != nil {
				return nil, fmt.Errorf("tag: signature record at offset %d: %w", rec.Offset, err)
			}
			img.Signatures = append(img.Signatures, s)
		default:
			raw := bytes.Clone(rec.Raw)
			rec.Raw = raw
			rec.Payload = raw[ygobin.HeaderSize:rec.Length]
			img.Unknown = append(img.Unknown, rec)
		}
	}
	if img.Card == nil {
		return nil, ErrNoCard
	}
	return img, nil
}
