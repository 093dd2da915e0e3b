package card

import (
	"fmt"
	"math"

	"github.com/pierrec/lz4/v4"
	"github.com/samcharles93/cybertag/pkg/ygobin"
)

// Description record versions. The version selects how the text is stored.
const (
	DescriptionRaw uint8 = 0x00
	DescriptionLZ4 uint8 = 0x01
)

// MaxDescriptionLen is the longest description the length field can describe.
const MaxDescriptionLen = math.MaxUint16

// encodeDescription returns the stored form of text and the record version.
// LZ4 is used only when it makes the text smaller.
func encodeDescription(text string) ([]byte, uint8) {
	raw := []byte(text)
	if len(raw) == 0 {
		return raw, DescriptionRaw
	}
	dst := make([]byte, lz4.CompressBlockBound(len(raw)))
	n, err := lz4.CompressBlock(raw, dst, nil)
	if err != nil || n == 0 || n >= len(raw) {
		return raw, DescriptionRaw
	}
	return dst[:n], DescriptionLZ4
}

// AppendDescription writes a DESCRIPTION record holding text.
func AppendDescription(w *ygobin.Writer, text string) error {
	if len(text) > MaxDescriptionLen {
		return fmt.Errorf("%w: %d bytes", ErrDescriptionTooLong, len(text))
	}
	stored, version := encodeDescription(text)
	w.WriteRecordHeader(ygobin.RecordDescription, version)
	w.WriteUint16(uint16(len(text)))
	w.WriteUint16(uint16(len(stored)))
	w.WriteBytes(stored)
	w.WriteRecordEnd()
	return nil
}

// DescriptionSize returns the framed size of the DESCRIPTION record for text.
func DescriptionSize(text string) int {
	stored, _ := encodeDescription(text)
	return ygobin.FramedSize(4 + len(stored))
}

// ReadDescription decodes the payload of an open DESCRIPTION record.
func ReadDescription(r *ygobin.Reader, h ygobin.Header) (string, error) {
	if h.Type != ygobin.RecordDescription {
		return "", fmt.Errorf("%w: %s", ErrUnexpectedRecord, h.Type)
	}
	rawLen, err := r.ReadUint16()
	if err != nil {
		return "", err
	}
	storedLen, err := r.ReadUint16()
	if err != nil {
		return "", err
	}
	if int(storedLen) > h.PayloadLen()-4 {
		return "", fmt.Errorf("%w: stored length %d exceeds record", ErrCorruptDescription, storedLen)
	}
	stored, err := r.ReadBytes(int(storedLen))
	if err != nil {
		return "", err
	}

	switch h.Version {
	case DescriptionRaw:
		if storedLen != rawLen {
			return "", fmt.Errorf("%w: raw length %d, stored %d", ErrCorruptDescription, rawLen, storedLen)
		}
		return string(stored), nil
	case DescriptionLZ4:
		out := make([]byte, rawLen)
		n, err := lz4.UncompressBlock(stored, out)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrCorruptDescription, err)
		}
		if n != int(rawLen) {
			return "", fmt.Errorf("%w: decompressed %d bytes, want %d", ErrCorruptDescription, n, rawLen)
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("%w: description v%d", ErrUnsupportedVersion, h.Version)
	}
}
