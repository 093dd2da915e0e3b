package ygobin

import (
	"bytes"
	"fmt"
	"math"
)

// Container constants must never change.
var MagicWord = [4]byte{0x0E, 'Y', 'G', 'O'}

const (
	// DataVersion is the version byte written by the current codecs.
	DataVersion uint8 = 0x00

	HeaderSize  = 4
	TrailerSize = 4
	Alignment   = 4

	// MaxRecordLength is the largest value the length field can hold.
	MaxRecordLength = math.MaxUint16
)

type RecordType uint8

const (
	RecordBasic        RecordType = 0x00
	RecordDescription  RecordType = 0x01
	RecordRuleIndex    RecordType = 0x02
	RecordImageCropped RecordType = 0x03
	RecordSignature    RecordType = 0x10
)

func (t RecordType) String() string {
	switch t {
	case RecordBasic:
		return "basic"
	case RecordDescription:
		return "description"
	case RecordRuleIndex:
		return "rule-index"
	case RecordImageCropped:
		return "image-cropped"
	case RecordSignature:
		return "signature"
	default:
		return fmt.Sprintf("unknown(0x%02x)", uint8(t))
	}
}

// Header is the fixed 4-byte prefix of every record.
// Length counts the header and the padded payload, not the trailer.
type Header struct {
	Type    RecordType
	Version uint8
	Length  uint16
}

// PayloadLen returns the padded payload size.
func (h Header) PayloadLen() int { return int(h.Length) - HeaderSize }

// Size returns the full framed size including the trailer.
func (h Header) Size() int { return int(h.Length) + TrailerSize }

// Align rounds n up to the record alignment.
func Align(n int) int { return n + padding(n) }

// FramedSize returns the on-wire size of a record carrying payloadLen bytes.
func FramedSize(payloadLen int) int {
	return HeaderSize + Align(payloadLen) + TrailerSize
}

func padding(n int) int {
	return (Alignment - n%Alignment) % Alignment
}

func (w *Writer) WriteMagicWord() {
	w.WriteBytes(MagicWord[:])
}

// WriteRecordHeader closes any open record and starts a new one. The length
// field is written as zero and patched by WriteRecordEnd.
func (w *Writer) WriteRecordHeader(typ RecordType, version uint8) {
	w.WriteRecordEnd()
	w.headerStart = w.off
	w.open = true
	w.WriteUint8(uint8(typ))
	w.WriteUint8(version)
	w.WriteUint16(0)
}

// WriteRecordEnd pads the open record, patches its length and appends the
// checksum trailer. It does nothing when no record is open.
func (w *Writer) WriteRecordEnd() {
	if !w.open {
		return
	}
	w.open = false

	w.WriteZeros(padding(w.off - w.headerStart))
	length := w.off - w.headerStart
	if length > MaxRecordLength {
		w.fail(fmt.Errorf("%w: record length %d exceeds %d", ErrBadArgs, length, MaxRecordLength))
	}
	w.patchUint16(w.headerStart+2, uint16(length))

	// A size-only pass has nothing to checksum.
	var crc uint16
	if w.sink == sinkBuffer && w.off <= len(w.buf) {
		crc = Checksum(w.buf[w.headerStart:w.off])
	}
	w.WriteUint16(crc)
	w.WriteUint16(0)
}

// Finish closes any open record and returns the total length written along
// with the first error seen during the pass.
func (w *Writer) Finish() (int, error) {
	w.WriteRecordEnd()
	return w.off, w.err
}

func (r *Reader) CheckMagicWord() error {
	if r == nil || r.buf == nil {
		return ErrBadArgs
	}
	if r.err != nil {
		return r.err
	}
	if r.Remaining() < len(MagicWord) {
		return r.fail(fmt.Errorf("%w: buffer holds %d bytes", ErrBadMagicWord, r.Remaining()))
	}
	p, _ := r.take(len(MagicWord))
	if !bytes.Equal(p, MagicWord[:]) {
		return r.fail(fmt.Errorf("%w: got % x", ErrBadMagicWord, p))
	}
	return nil
}

// ReadRecordHeader validates and closes any open record, then reads the next
// header. A failure to close the previous record is returned as is.
func (r *Reader) ReadRecordHeader() (Header, error) {
	if r == nil || r.buf == nil {
		return Header{}, ErrBadArgs
	}
	if err := r.CheckRecordEnd(); err != nil {
		return Header{}, err
	}

	start := r.off
	typ, _ := r.ReadUint8()
	version, _ := r.ReadUint8()
	length, err := r.ReadUint16()
	if err != nil {
		return Header{}, err
	}
	if length < HeaderSize || length%Alignment != 0 || int(length)+TrailerSize > len(r.buf)-start {
		return Header{}, r.fail(fmt.Errorf("%w: record at offset %d has length %d", ErrBadChecksum, start, length))
	}

	r.headerStart = start
	r.length = int(length)
	r.open = true
	return Header{Type: RecordType(typ), Version: version, Length: length}, nil
}

// CheckRecordEnd verifies the trailer of the open record. Payload bytes the
// caller did not consume are skipped using the length field. It does nothing
// when no record is open.
func (r *Reader) CheckRecordEnd() error {
	if r == nil || r.buf == nil {
		return ErrBadArgs
	}
	if !r.open {
		return nil
	}
	r.open = false
	if r.err != nil {
		return r.err
	}

	if err := r.Skip(padding(r.off - r.headerStart)); err != nil {
		return err
	}
	end := r.headerStart + r.length
	if r.off > end {
		return r.fail(fmt.Errorf("%w: record at offset %d overruns its length %d", ErrBadChecksum, r.headerStart, r.length))
	}
	if err := r.Skip(end - r.off); err != nil {
		return err
	}

	stored, err := r.ReadUint16()
	if err != nil {
		return err
	}
	if err := r.Skip(2); err != nil {
		return err
	}
	if computed := Checksum(r.buf[r.headerStart:end]); stored != computed {
		return r.fail(fmt.Errorf("%w: record at offset %d stored %#04x, computed %#04x",
			ErrBadChecksum, r.headerStart, stored, computed))
	}
	return nil
}

// SkipRecord steps over the open record without decoding it, still verifying
// its checksum.
func (r *Reader) SkipRecord() error {
	return r.CheckRecordEnd()
}

// Record is one framed record located by ReadRecords. Payload and Raw alias
// the scanned buffer.
type Record struct {
	Header
	// Offset is the position of the header within the buffer.
	Offset int
	// Payload is the padded payload.
	Payload []byte
	// Raw spans the header through the reserved trailer.
	Raw []byte
}

// ReadRecords validates the magic word and every record checksum in buf and
// returns the records in order. Scanning stops when fewer than HeaderSize bytes
// remain or when the rest of the buffer is blank (all 0x00 or all 0xFF), as on
// an erased tag. Any other tail is read as a record, so a zero length header
// followed by data fails with ErrBadChecksum.
func ReadRecords(buf []byte) ([]Record, error) {
	r := NewReader(buf)
	if err := r.CheckMagicWord(); err != nil {
		return nil, err
	}

	var records []Record
	for r.Remaining() >= HeaderSize && !blank(buf[r.off:]) {
		h, err := r.ReadRecordHeader()
		if err != nil {
			return nil, err
		}
		start := r.headerStart
		if err := r.SkipRecord(); err != nil {
			return nil, err
		}
		records = append(records, Record{
			Header:  h,
			Offset:  start,
			Payload: buf[start+HeaderSize : start+int(h.Length)],
			Raw:     buf[start:r.off],
		})
	}
	return records, nil
}

func blank(p []byte) bool {
	fill := p[0]
	if fill != 0x00 && fill != 0xFF {
		return false
	}
	for _, b := range p {
		if b != fill {
			return false
		}
	}
	return true
}

// Encode runs fn as a size-only pass and then again into a buffer of exactly
// the counted size. Any record left open by fn is closed.
func Encode(fn func(w *Writer)) ([]byte, error) {
	n, err := Size(fn)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	w := NewWriter(buf)
	fn(w)
	if _, err := w.Finish(); err != nil {
		return nil, err
	}
	return buf, nil
}

// Size returns the number of bytes fn would write.
func Size(fn func(w *Writer)) (int, error) {
	sizer := NewSizer()
	fn(sizer)
	return sizer.Finish()
}
