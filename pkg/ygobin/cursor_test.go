package ygobin

import (
	"bytes"
	"errors"
	"testing"
)

func TestWriterIntegersBigEndian(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 14)
	w := NewWriter(buf)
	w.WriteUint8(0xAB)
	w.WriteUint16(0x1234)
	w.WriteUint32(0xDEADBEEF)
	w.WriteInt(0x0102, 2)
	w.WriteInt(0xFFFFFF07, 1)
	w.WriteInt(0x01020304, 4)
	if err := w.Err(); err != nil {
		t.Fatalf("write: %v", err)
	}

	want := []byte{0xAB, 0x12, 0x34, 0xDE, 0xAD, 0xBE, 0xEF, 0x01, 0x02, 0x07, 0x01, 0x02, 0x03, 0x04}
	if !bytes.Equal(w.Bytes(), want) {
		t.Fatalf("bytes: got % x, want % x", w.Bytes(), want)
	}
}

func TestWriterBadIntWidth(t *testing.T) {
	t.Parallel()

	w := NewSizer()
	w.WriteInt(1, 3)
	if !errors.Is(w.Err(), ErrBadArgs) {
		t.Fatalf("got %v, want ErrBadArgs", w.Err())
	}
}

func TestSizerCountsWithoutStoring(t *testing.T) {
	t.Parallel()

	w := NewWriter(nil)
	if !w.Sizing() {
		t.Fatal("nil buffer should start a size-only pass")
	}
	w.WriteUint32(1)
	w.WriteString("name", 10)
	w.WriteBytes([]byte{1, 2, 3})
	if w.Len() != 17 {
		t.Fatalf("len: got %d, want 17", w.Len())
	}
	if w.Bytes() != nil {
		t.Fatal("size-only pass returned bytes")
	}
	if w.Err() != nil {
		t.Fatalf("err: %v", w.Err())
	}
}

func TestWriterShortBuffer(t *testing.T) {
	t.Parallel()

	buf := []byte{0x55, 0x55, 0x55}
	w := NewWriter(buf)
	w.WriteUint32(0x01020304)
	if !errors.Is(w.Err(), ErrShortBuffer) {
		t.Fatalf("got %v, want ErrShortBuffer", w.Err())
	}
	if w.Len() != 4 {
		t.Fatalf("len: got %d, want 4", w.Len())
	}
	if !bytes.Equal(buf, []byte{0x55, 0x55, 0x55}) {
		t.Fatalf("buffer modified: % x", buf)
	}
}

func TestWriteString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    string
		width int
		want  []byte
	}{
		{name: "padded", in: "abc", width: 6, want: []byte{'a', 'b', 'c', 0, 0, 0}},
		{name: "exact width has no terminator", in: "abcd", width: 4, want: []byte("abcd")},
		{name: "longer than width", in: "abcdef", width: 4, want: []byte("abcd")},
		{name: "stops at terminator", in: "ab\x00cd", width: 6, want: []byte{'a', 'b', 0, 0, 0, 0}},
		{name: "empty", in: "", width: 3, want: []byte{0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			buf := bytes.Repeat([]byte{0xCC}, tt.width)
			w := NewWriter(buf)
			w.WriteString(tt.in, tt.width)
			if w.Err() != nil {
				t.Fatalf("write: %v", w.Err())
			}
			if w.Len() != tt.width {
				t.Fatalf("len: got %d, want %d", w.Len(), tt.width)
			}
			if !bytes.Equal(buf, tt.want) {
				t.Fatalf("got % x, want % x", buf, tt.want)
			}
		})
	}
}

func TestReaderBadArgs(t *testing.T) {
	t.Parallel()

	if _, err := NewReader(nil).ReadUint8(); !errors.Is(err, ErrBadArgs) {
		t.Fatalf("nil buffer: got %v", err)
	}
	var r *Reader
	if _, err := r.ReadUint16(); !errors.Is(err, ErrBadArgs) {
		t.Fatalf("nil reader: got %v", err)
	}
	if _, err := NewReader([]byte{1, 2}).ReadEnum(4); !errors.Is(err, ErrBadArgs) {
		t.Fatalf("enum width: got %v", err)
	}
}

func TestReaderTruncation(t *testing.T) {
	t.Parallel()

	r := NewReader([]byte{0x01, 0x02, 0x03})
	if v, err := r.ReadUint16(); err != nil || v != 0x0102 {
		t.Fatalf("uint16: got %#04x, %v", v, err)
	}
	_, err := r.ReadUint32()
	if !errors.Is(err, ErrTruncated) || !errors.Is(err, ErrBadChecksum) {
		t.Fatalf("truncated read: got %v", err)
	}
	if _, err := r.ReadUint8(); !errors.Is(err, ErrTruncated) {
		t.Fatalf("sticky error: got %v", err)
	}
}

func TestReaderValues(t *testing.T) {
	t.Parallel()

	buf := []byte{0x07, 0x01, 0x02, 'h', 'i', 0, 0, 0xAA, 0xBB, 0xCC}
	r := NewReader(buf)

	e1, err := r.ReadEnum(1)
	if err != nil || e1 != 7 {
		t.Fatalf("enum1: got %d, %v", e1, err)
	}
	e2, err := r.ReadEnum(2)
	if err != nil || e2 != 0x0102 {
		t.Fatalf("enum2: got %d, %v", e2, err)
	}
	s, err := r.ReadString(4)
	if err != nil || s != "hi" {
		t.Fatalf("string: got %q, %v", s, err)
	}
	var dst [2]byte
	if err := r.ReadInto(dst[:]); err != nil || dst != [2]byte{0xAA, 0xBB} {
		t.Fatalf("read into: got % x, %v", dst, err)
	}
	if r.Offset() != 9 || r.Remaining() != 1 {
		t.Fatalf("offset %d remaining %d", r.Offset(), r.Remaining())
	}
}
