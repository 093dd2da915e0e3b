package card

import (
	"fmt"
	"strings"

	"github.com/samcharles93/cybertag/pkg/ygobin"
)

// Validate checks that the card can be written without losing data. The name
// must leave room for its terminator and must not contain NUL bytes.
func (c *Card) Validate() error {
	if len(c.Name) > NameCapacity-1 {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrNameTooLong, len(c.Name), NameCapacity-1)
	}
	if strings.IndexByte(c.Name, 0) >= 0 {
		return fmt.Errorf("%w: name contains NUL", ErrNameTooLong)
	}
	return nil
}

// WritePayload writes the BASIC record payload for c.
func WritePayload(w *ygobin.Writer, c *Card) {
	ctype1, ctype0 := Pack(c.Type)
	w.WriteUint32(c.ID)
	w.WriteUint8(ctype1)
	w.WriteUint8(ctype0)
	w.WriteUint8(uint8(c.Attribute))
	w.WriteUint16(c.ATK)
	w.WriteUint16(c.DEF)
	w.WriteUint8(c.Level)
	w.WriteUint8(c.ScaleOrLink)
	w.WriteUint8(uint8(c.LinkMarkers))
	w.WriteString(c.Name, NameCapacity)
}

// ReadPayload reads a BASIC record payload written by WritePayload.
func ReadPayload(r *ygobin.Reader) (*Card, error) {
	var c Card
	var err error
	if c.ID, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	ctype1, _ := r.ReadUint8()
	ctype0, _ := r.ReadUint8()
	attr, _ := r.ReadEnum(1)
	c.ATK, _ = r.ReadUint16()
	c.DEF, _ = r.ReadUint16()
	c.Level, _ = r.ReadUint8()
	c.ScaleOrLink, _ = r.ReadUint8()
	markers, _ := r.ReadUint8()
	// Reader errors are sticky, so checking the last read covers the rest.
	if c.Name, err = r.ReadString(NameCapacity); err != nil {
		return nil, err
	}
	c.Type = Unpack(ctype1, ctype0)
	c.Attribute = Attribute(attr)
	c.LinkMarkers = LinkMarkers(markers)
	return &c, nil
}

// AppendRecord writes a complete BASIC record for c.
func AppendRecord(w *ygobin.Writer, c *Card) {
	w.WriteRecordHeader(ygobin.RecordBasic, DataVersion)
	WritePayload(w, c)
	w.WriteRecordEnd()
}

// RecordSize is the framed size of a BASIC record.
func RecordSize() int {
	return ygobin.FramedSize(PayloadSize)
}

// Marshal returns a container holding only the BASIC record for c.
func Marshal(c *Card) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return ygobin.Encode(func(w *ygobin.Writer) {
		w.WriteMagicWord()
		AppendRecord(w, c)
	})
}

// Unmarshal reads the card from a container whose first record is BASIC.
// Records after the first are ignored.
func Unmarshal(buf []byte) (*Card, error) {
	r := ygobin.NewReader(buf)
	if err := r.CheckMagicWord(); err != nil {
		return nil, err
	}
	h, err := r.ReadRecordHeader()
	if err != nil {
		return nil, err
	}
	c, err := ReadRecord(r, h)
	if err != nil {
		return nil, err
	}
	if err := r.CheckRecordEnd(); err != nil {
		return nil, err
	}
	return c, nil
}

// ReadRecord decodes the payload of an open BASIC record.
func ReadRecord(r *ygobin.Reader, h ygobin.Header) (*Card, error) {
	if h.Type != ygobin.RecordBasic {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedRecord, h.Type)
	}
	if h.Version > DataVersion {
		return nil, fmt.Errorf("%w: basic v%d", ErrUnsupportedVersion, h.Version)
	}
	if h.PayloadLen() < PayloadSize {
		return nil, fmt.Errorf("%w: basic payload of %d bytes", ygobin.ErrTruncated, h.PayloadLen())
	}
	return ReadPayload(r)
}
