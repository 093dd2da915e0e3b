package sig

import (
	"bytes"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"testing"
	"time"
)

func testHash() [HashSize]byte {
	var h [HashSize]byte
	for i := range h {
		h[i] = byte(0xF0 ^ i)
	}
	return h
}

func TestCanonicalPayloadLayout(t *testing.T) {
	t.Parallel()

	s := testSignature()
	s.Duelist = &testDuelist
	s.Deck = &testDeck
	hash := testHash()
	got := CanonicalPayload(44508094, hash, s)

	var want []byte
	want = append(want, "CYBSIGv1"...)
	want = binary.BigEndian.AppendUint32(want, 44508094)
	want = append(want, hash[:]...)
	want = append(want, byte(FlagBoundDuelist|FlagBoundDeck|FlagSupersede|FlagHasExpiry))
	want = binary.BigEndian.AppendUint32(want, s.IssuedAt)
	want = binary.BigEndian.AppendUint32(want, s.Expiry)
	want = append(want, testDuelist[:]...)
	want = append(want, testDeck[:]...)
	want = append(want, s.Authority[:]...)

	if !bytes.Equal(got, want) {
		t.Fatalf("payload:\n got % x\nwant % x", got, want)
	}
	if len(got) != 61+32 {
		t.Fatalf("length: got %d, want 93", len(got))
	}
}

func TestCanonicalPayloadUnboundLength(t *testing.T) {
	t.Parallel()

	if got := len(CanonicalPayload(1, testHash(), testSignature())); got != 61 {
		t.Fatalf("length: got %d, want 61", got)
	}
}

func TestCanonicalPayloadDeterministicAndSensitive(t *testing.T) {
	t.Parallel()

	base := testSignature()
	hash := testHash()
	ref := CanonicalPayload(7, hash, base)
	if !bytes.Equal(ref, CanonicalPayload(7, hash, testSignature())) {
		t.Fatal("payload is not deterministic")
	}

	otherHash := hash
	otherHash[31] ^= 1

	mutations := map[string]func() []byte{
		"card id": func() []byte { return CanonicalPayload(8, hash, base) },
		"hash":    func() []byte { return CanonicalPayload(7, otherHash, base) },
		"flags": func() []byte {
			s := testSignature()
			s.Flags |= FlagTournament
			return CanonicalPayload(7, hash, s)
		},
		"issued at": func() []byte {
			s := testSignature()
			s.IssuedAt++
			return CanonicalPayload(7, hash, s)
		},
		"expiry": func() []byte {
			s := testSignature()
			s.Expiry++
			return CanonicalPayload(7, hash, s)
		},
		"duelist": func() []byte {
			s := testSignature()
			s.Duelist = &testDuelist
			return CanonicalPayload(7, hash, s)
		},
		"authority": func() []byte {
			s := testSignature()
			s.Authority[0] ^= 0xFF
			return CanonicalPayload(7, hash, s)
		},
	}
	for name, mutate := range mutations {
		if bytes.Equal(ref, mutate()) {
			t.Fatalf("changing %s did not change the payload", name)
		}
	}

	// The signature value is not part of what is signed.
	s := testSignature()
	s.Value[0] ^= 0xFF
	if !bytes.Equal(ref, CanonicalPayload(7, hash, s)) {
		t.Fatal("signature value leaked into payload")
	}
}

// digestSigner is a deterministic stand-in for a real key pair.
type digestSigner struct {
	key []byte
}

func (d digestSigner) Algorithm() Algorithm     { return AlgorithmEd25519 }
func (d digestSigner) Fingerprint() Fingerprint { return Fingerprint{0xAA, 0xBB} }

func (d digestSigner) Sign(message []byte) ([]byte, error) {
	sum := sha512.Sum512(append(bytes.Clone(d.key), message...))
	return sum[:], nil
}

func (d digestSigner) Verify(publicKey, message, signature []byte) error {
	want, _ := digestSigner{key: publicKey}.Sign(message)
	if !bytes.Equal(want, signature) {
		return ErrInvalidSignature
	}
	return nil
}

func TestSignAndVerify(t *testing.T) {
	t.Parallel()

	key := []byte("authority-key")
	signer := digestSigner{key: key}
	hash := testHash()
	now := time.Unix(1_750_000_000, 0)

	s := &Signature{Version: Version, Flags: FlagHasExpiry, IssuedAt: 1_700_000_000, Expiry: 1_800_000_000}
	if err := Sign(signer, 42, hash, s); err != nil {
		t.Fatalf("sign: %v", err)
	}
	if s.Authority != (Fingerprint{0xAA, 0xBB}) {
		t.Fatalf("authority not set: % x", s.Authority)
	}
	if err := VerifyAt(signer, key, 42, hash, s, now); err != nil {
		t.Fatalf("verify: %v", err)
	}

	if err := VerifyAt(signer, key, 43, hash, s, now); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("wrong card: got %v", err)
	}
	if err := VerifyAt(signer, key, 42, hash, s, time.Unix(1_800_000_000, 0)); !errors.Is(err, ErrExpired) {
		t.Fatalf("expired: got %v", err)
	}

	noExpiry := *s
	noExpiry.Flags = 0
	if err := Sign(signer, 42, hash, &noExpiry); err != nil {
		t.Fatalf("sign without expiry: %v", err)
	}
	if err := VerifyAt(signer, key, 42, hash, &noExpiry, time.Unix(1_900_000_000, 0)); err != nil {
		t.Fatalf("expiry flag unset: %v", err)
	}
}

func TestVerifyUnavailable(t *testing.T) {
	t.Parallel()

	s := testSignature()
	if err := Verify(Unavailable{}, nil, 1, testHash(), s); !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("unavailable: got %v", err)
	}
	if err := Verify(nil, nil, 1, testHash(), s); !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("nil verifier: got %v", err)
	}

	s.Algorithm = 0x7F
	if err := Verify(digestSigner{}, nil, 1, testHash(), s); !errors.Is(err, ErrUnsupportedAlgorithm) {
		t.Fatalf("algorithm: got %v", err)
	}
}

type shortSigner struct{ digestSigner }

func (shortSigner) Sign([]byte) ([]byte, error) { return make([]byte, 10), nil }

func TestSignRejectsWrongLength(t *testing.T) {
	t.Parallel()

	if err := Sign(shortSigner{}, 1, testHash(), &Signature{}); err == nil {
		t.Fatal("expected error for short signature")
	}
}
