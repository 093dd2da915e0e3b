package sig

import (
	"fmt"
	"time"
)

// Signer produces signatures for one authority key.
type Signer interface {
	Algorithm() Algorithm
	Fingerprint() Fingerprint
	Sign(message []byte) ([]byte, error)
}

// Verifier checks a signature over message against a public key. It returns
// ErrInvalidSignature when the signature does not match.
type Verifier interface {
	Verify(publicKey, message, signature []byte) error
}

// Unavailable is the verifier used when no cryptographic provider is present.
type Unavailable struct{}

func (Unavailable) Verify(_, _, _ []byte) error { return ErrNotImplemented }

// Sign fills in the authority fields of s and signs its canonical payload.
func Sign(signer Signer, cardID uint32, cardHash [HashSize]byte, s *Signature) error {
	s.Algorithm = signer.Algorithm()
	s.Authority = signer.Fingerprint()
	value, err := signer.Sign(CanonicalPayload(cardID, cardHash, s))
	if err != nil {
		return fmt.Errorf("sig: signing payload: %w", err)
	}
	if len(value) != ValueSize {
		return fmt.Errorf("sig: signer returned %d bytes, want %d", len(value), ValueSize)
	}
	copy(s.Value[:], value)
	return nil
}

// Verify checks s against publicKey at the current time.
func Verify(v Verifier, publicKey []byte, cardID uint32, cardHash [HashSize]byte, s *Signature) error {
	return VerifyAt(v, publicKey, cardID, cardHash, s, time.Now())
}

// VerifyAt is like Verify but takes the time used for the expiry check.
func VerifyAt(v Verifier, publicKey []byte, cardID uint32, cardHash [HashSize]byte, s *Signature, now time.Time) error {
	if v == nil {
		return ErrNotImplemented
	}
	if s.Algorithm != AlgorithmEd25519 {
		return fmt.Errorf("%w: %d", ErrUnsupportedAlgorithm, s.Algorithm)
	}
	if err := v.Verify(publicKey, CanonicalPayload(cardID, cardHash, s), s.Value[:]); err != nil {
		return err
	}
	if s.Expires() && now.Unix() >= int64(s.Expiry) {
		return fmt.Errorf("%w: at %s", ErrExpired, time.Unix(int64(s.Expiry), 0).UTC().Format(time.RFC3339))
	}
	return nil
}
