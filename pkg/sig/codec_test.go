package sig

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/samcharles93/cybertag/pkg/ygobin"
)

var (
	testDuelist = uuid.MustParse("6f1c2a4e-8b3d-4c1e-9a7f-0d2b5e8c1f3a")
	testDeck    = uuid.MustParse("0a1b2c3d-4e5f-4061-8273-8495a6b7c8d9")
)

func testSignature() *Signature {
	s := &Signature{
		Version:   Version,
		Flags:     FlagSupersede | FlagHasExpiry,
		Algorithm: AlgorithmEd25519,
		Authority: Fingerprint{1, 2, 3, 4, 5, 6, 7, 8},
		IssuedAt:  1_700_000_000,
		Expiry:    1_800_000_000,
	}
	for i := range s.Value {
		s.Value[i] = byte(i)
	}
	return s
}

func encodePayload(t *testing.T, s *Signature) []byte {
	t.Helper()
	buf, err := ygobin.Encode(func(w *ygobin.Writer) { Write(w, s) })
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf
}

func TestPayloadSizes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		duelist     bool
		deck        bool
		wantPayload int
		wantFramed  int
	}{
		{name: "unbound", wantPayload: 83, wantFramed: 92},
		{name: "duelist", duelist: true, wantPayload: 99, wantFramed: 108},
		{name: "deck", deck: true, wantPayload: 99, wantFramed: 108},
		{name: "both", duelist: true, deck: true, wantPayload: 115, wantFramed: 124},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := testSignature()
			if tt.duelist {
				s.Duelist = &testDuelist
			}
			if tt.deck {
				s.Deck = &testDeck
			}
			buf := encodePayload(t, s)
			if len(buf) != tt.wantPayload {
				t.Fatalf("payload: got %d, want %d", len(buf), tt.wantPayload)
			}
			if got := PayloadSize(s.WireFlags()); got != tt.wantPayload {
				t.Fatalf("PayloadSize: got %d, want %d", got, tt.wantPayload)
			}
			if got := CalcSize(s.WireFlags()); got != tt.wantFramed {
				t.Fatalf("CalcSize: got %d, want %d", got, tt.wantFramed)
			}

			rec, err := ygobin.Encode(func(w *ygobin.Writer) { AppendRecord(w, s) })
			if err != nil {
				t.Fatalf("record: %v", err)
			}
			if len(rec) != tt.wantFramed {
				t.Fatalf("record: got %d bytes, CalcSize %d", len(rec), tt.wantFramed)
			}
		})
	}
}

func TestOptionalFieldOrder(t *testing.T) {
	t.Parallel()

	s := testSignature()
	s.Duelist = &testDuelist
	s.Deck = &testDeck
	buf := encodePayload(t, s)

	const idsAt = 1 + 1 + 1 + 8 + 4 + 4
	if !bytes.Equal(buf[idsAt:idsAt+16], testDuelist[:]) {
		t.Fatalf("duelist id not first: % x", buf[idsAt:idsAt+16])
	}
	if !bytes.Equal(buf[idsAt+16:idsAt+32], testDeck[:]) {
		t.Fatalf("deck id not second: % x", buf[idsAt+16:idsAt+32])
	}
	if Flags(buf[1]) != FlagBoundDuelist|FlagBoundDeck|FlagSupersede|FlagHasExpiry {
		t.Fatalf("flags byte: got %#02x", buf[1])
	}
}

func TestBindingFlagsDriveShape(t *testing.T) {
	t.Parallel()

	// Flags requested without ids keep their binding, with nil UUIDs.
	s := testSignature()
	s.Flags |= FlagBoundDuelist | FlagBoundDeck
	buf := encodePayload(t, s)
	if len(buf) != PayloadSize(s.Flags) || len(buf) != 115 {
		t.Fatalf("payload: got %d bytes, PayloadSize(flags) %d", len(buf), PayloadSize(s.Flags))
	}
	if !Flags(buf[1]).Has(FlagBoundDuelist | FlagBoundDeck) {
		t.Fatalf("binding flags dropped: %#02x", buf[1])
	}
	const idsAt = 1 + 1 + 1 + 8 + 4 + 4
	if !bytes.Equal(buf[idsAt:idsAt+32], make([]byte, 32)) {
		t.Fatalf("ids not zero-filled: % x", buf[idsAt:idsAt+32])
	}
	payload := CanonicalPayload(1, [HashSize]byte{}, s)
	if len(payload) != canonicalBaseSize+2*idSize {
		t.Fatalf("canonical payload: got %d bytes, want %d", len(payload), canonicalBaseSize+2*idSize)
	}

	r := ygobin.NewReader(buf)
	got, err := Read(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Duelist == nil || *got.Duelist != uuid.Nil || !got.Equal(s) {
		t.Fatalf("read back %+v", got)
	}

	// An id without its flag sets the flag.
	s = testSignature()
	s.Deck = &testDeck
	buf = encodePayload(t, s)
	if len(buf) != 99 || !Flags(buf[1]).Has(FlagBoundDeck) {
		t.Fatalf("deck id: %d bytes, flags %#02x", len(buf), buf[1])
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	t.Parallel()

	for _, bind := range [][2]bool{{false, false}, {true, false}, {false, true}, {true, true}} {
		s := testSignature()
		if bind[0] {
			s.Duelist = &testDuelist
		}
		if bind[1] {
			s.Deck = &testDeck
		}
		rec, err := ygobin.Encode(func(w *ygobin.Writer) { AppendRecord(w, s) })
		if err != nil {
			t.Fatalf("encode: %v", err)
		}

		r := ygobin.NewReader(rec)
		h, err := r.ReadRecordHeader()
		if err != nil {
			t.Fatalf("header: %v", err)
		}
		got, err := ReadRecord(r, h)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if err := r.CheckRecordEnd(); err != nil {
			t.Fatalf("end: %v", err)
		}
		if !got.Equal(s) {
			t.Fatalf("round trip %v:\n got %+v\nwant %+v", bind, got, s)
		}
		if (got.Duelist != nil) != bind[0] || (got.Deck != nil) != bind[1] {
			t.Fatalf("presence %v: duelist %v deck %v", bind, got.Duelist, got.Deck)
		}
	}
}

func TestReadTruncated(t *testing.T) {
	t.Parallel()

	s := testSignature()
	s.Duelist = &testDuelist
	buf := encodePayload(t, s)
	if _, err := Read(ygobin.NewReader(buf[:len(buf)-1])); !errors.Is(err, ygobin.ErrTruncated) {
		t.Fatalf("got %v, want ErrTruncated", err)
	}
}

func TestReadRecordRejectsOtherTypes(t *testing.T) {
	t.Parallel()

	h := ygobin.Header{Type: ygobin.RecordBasic, Length: 8}
	if _, err := ReadRecord(ygobin.NewReader(make([]byte, 8)), h); !errors.Is(err, ErrUnexpectedRecord) {
		t.Fatalf("got %v, want ErrUnexpectedRecord", err)
	}
}

func TestFlagsString(t *testing.T) {
	t.Parallel()

	if got := (FlagBoundDuelist | FlagTournament).String(); got != "duelist|tournament" {
		t.Fatalf("got %q", got)
	}
	if got := Flags(0).String(); got != "none" {
		t.Fatalf("got %q", got)
	}
}
