package ygobin

import (
	"encoding/binary"
	"fmt"
)

type sink uint8

const (
	// sinkCount advances the offset without storing anything.
	sinkCount sink = iota
	sinkBuffer
)

// Writer is a forward-only cursor that encodes big-endian values into a
// caller-owned buffer.
//
// A Writer created without a buffer runs a size-only pass: every write advances
// the offset and nothing is stored. Writes that would run past the end of a real
// buffer store nothing, record ErrShortBuffer and keep counting, so Len still
// reports the size the caller would need.
//
// Errors are sticky; check Err or the result of Finish once the pass is done.
type Writer struct {
	buf  []byte
	sink sink
	off  int

	headerStart int
	open        bool

	err error
}

// NewWriter starts a write pass over buf. A nil buf starts a size-only pass.
func NewWriter(buf []byte) *Writer {
	if buf == nil {
		return NewSizer()
	}
	return &Writer{buf: buf, sink: sinkBuffer}
}

// NewSizer starts a size-only pass.
func NewSizer() *Writer {
	return &Writer{sink: sinkCount}
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return w.off }

// Err returns the first error recorded by the writer.
func (w *Writer) Err() error { return w.err }

// Sizing reports whether the writer is in a size-only pass.
func (w *Writer) Sizing() bool { return w.sink == sinkCount }

// Bytes returns the written prefix of the buffer, or nil in a size-only pass.
func (w *Writer) Bytes() []byte {
	if w.sink != sinkBuffer {
		return nil
	}
	return w.buf[:min(w.off, len(w.buf))]
}

func (w *Writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *Writer) put(p []byte) {
	if w.sink == sinkBuffer {
		if w.off+len(p) > len(w.buf) {
			w.fail(fmt.Errorf("%w: need %d bytes, have %d", ErrShortBuffer, w.off+len(p), len(w.buf)))
		} else {
			copy(w.buf[w.off:], p)
		}
	}
	w.off += len(p)
}

func (w *Writer) WriteUint8(v uint8) {
	w.put([]byte{v})
}

func (w *Writer) WriteUint16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.put(b[:])
}

func (w *Writer) WriteUint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.put(b[:])
}

// WriteInt writes the low n bytes of v, where n is 1, 2 or 4.
func (w *Writer) WriteInt(v uint32, n int) {
	switch n {
	case 1:
		w.WriteUint8(uint8(v))
	case 2:
		w.WriteUint16(uint16(v))
	case 4:
		w.WriteUint32(v)
	default:
		w.fail(fmt.Errorf("%w: integer width %d", ErrBadArgs, n))
	}
}

func (w *Writer) WriteBytes(p []byte) {
	w.put(p)
}

// WriteZeros writes n zero bytes.
func (w *Writer) WriteZeros(n int) {
	if n <= 0 {
		return
	}
	var zero [16]byte
	for n > 0 {
		k := min(n, len(zero))
		w.put(zero[:k])
		n -= k
	}
}

// WriteString writes s into a fixed field of width bytes. Bytes are copied up
// to and including the first NUL, and the rest of the field is zero-filled.
// If s has no NUL within width bytes the field is not terminated.
func (w *Writer) WriteString(s string, width int) {
	if width < 0 {
		w.fail(fmt.Errorf("%w: string width %d", ErrBadArgs, width))
		return
	}
	n := 0
	for n < len(s) && n < width {
		n++
		if s[n-1] == 0 {
			break
		}
	}
	w.put([]byte(s[:n]))
	w.WriteZeros(width - n)
}

// patchUint16 overwrites two bytes at off without moving the cursor.
func (w *Writer) patchUint16(off int, v uint16) {
	if w.sink != sinkBuffer || off+2 > len(w.buf) {
		return
	}
	binary.BigEndian.PutUint16(w.buf[off:], v)
}

// Reader is a forward-only cursor that decodes big-endian values from a buffer.
//
// Reading past the end of the buffer reports ErrTruncated. Errors are sticky:
// once a read fails every later read returns the same error.
type Reader struct {
	buf []byte
	off int

	headerStart int
	length      int
	open        bool

	err error
}

// NewReader starts a read pass over buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Offset returns the current cursor position.
func (r *Reader) Offset() int { return r.off }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

// Err returns the first error recorded by the reader.
func (r *Reader) Err() error { return r.err }

func (r *Reader) fail(err error) error {
	if r.err == nil {
		r.err = err
	}
	return r.err
}

func (r *Reader) take(n int) ([]byte, error) {
	if r == nil || r.buf == nil {
		return nil, ErrBadArgs
	}
	if r.err != nil {
		return nil, r.err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: read of %d bytes", ErrBadArgs, n)
	}
	if n > len(r.buf)-r.off {
		return nil, r.fail(fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncated, n, r.off, len(r.buf)-r.off))
	}
	p := r.buf[r.off : r.off+n]
	r.off += n
	return p, nil
}

func (r *Reader) ReadUint8() (uint8, error) {
	p, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

func (r *Reader) ReadUint16() (uint16, error) {
	p, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(p), nil
}

func (r *Reader) ReadUint32() (uint32, error) {
	p, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(p), nil
}

// ReadBytes returns the next n bytes. The slice aliases the reader's buffer.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	return r.take(n)
}

// ReadInto fills dst from the buffer.
func (r *Reader) ReadInto(dst []byte) error {
	p, err := r.take(len(dst))
	if err != nil {
		return err
	}
	copy(dst, p)
	return nil
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) error {
	_, err := r.take(n)
	return err
}

// ReadString reads a fixed field of width bytes and returns its contents up to
// the first NUL.
func (r *Reader) ReadString(width int) (string, error) {
	p, err := r.take(width)
	if err != nil {
		return "", err
	}
	for i, b := range p {
		if b == 0 {
			return string(p[:i]), nil
		}
	}
	return string(p), nil
}

// ReadEnum reads a 1 or 2 byte enumerated value and widens it to int.
func (r *Reader) ReadEnum(width int) (int, error) {
	switch width {
	case 1:
		v, err := r.ReadUint8()
		return int(v), err
	case 2:
		v, err := r.ReadUint16()
		return int(v), err
	default:
		return 0, fmt.Errorf("%w: enum width %d", ErrBadArgs, width)
	}
}
