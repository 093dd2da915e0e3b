// Package authority holds the Ed25519 keys of signing authorities and issues
// and checks card signatures with them.
package authority

import (
	"crypto/sha256"
	"fmt"
	"io"
	"time"

	"github.com/cloudflare/circl/sign/ed25519"
	"github.com/google/uuid"
	"github.com/samcharles93/cybertag/internal/contenthash"
	"github.com/samcharles93/cybertag/pkg/sig"
	"github.com/samcharles93/cybertag/pkg/tag"
)

// Authority is a named signing key. It implements sig.Signer.
type Authority struct {
	Name    string
	private ed25519.PrivateKey
	public  ed25519.PublicKey
}

// Generate creates a new authority key from rand.
func Generate(name string, rand io.Reader) (*Authority, error) {
	public, private, err := ed25519.GenerateKey(rand)
	if err != nil {
		return nil, fmt.Errorf("generating Ed25519 keypair: %w", err)
	}
	return &Authority{Name: name, private: private, public: public}, nil
}

// FromSeed rebuilds an authority key from its 32-byte seed.
func FromSeed(name string, seed []byte) (*Authority, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("seed has %d bytes, want %d", len(seed), ed25519.SeedSize)
	}
	private := ed25519.NewKeyFromSeed(seed)
	public, ok := private.Public().(ed25519.PublicKey)
	if !ok {
		return nil, fmt.Errorf("unexpected public key type %T", private.Public())
	}
	return &Authority{Name: name, private: private, public: public}, nil
}

func (a *Authority) PublicKey() ed25519.PublicKey { return a.public }

func (a *Authority) Seed() []byte { return a.private.Seed() }

func (a *Authority) Algorithm() sig.Algorithm { return sig.AlgorithmEd25519 }

func (a *Authority) Fingerprint() sig.Fingerprint { return Fingerprint(a.public) }

func (a *Authority) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(a.private, message), nil
}

// Fingerprint is the first 8 bytes of the SHA-256 digest of a public key.
func Fingerprint(public []byte) sig.Fingerprint {
	sum := sha256.Sum256(public)
	var fp sig.Fingerprint
	copy(fp[:], sum[:])
	return fp
}

// IssueOptions selects what a new signature is bound to.
type IssueOptions struct {
	Duelist    *uuid.UUID
	Deck       *uuid.UUID
	Supersede  bool
	Tournament bool
	// TTL sets the expiry relative to the issue time. Zero means no expiry.
	TTL time.Duration
}

// Issue signs the card in img.
func (a *Authority) Issue(img *tag.Image, opts IssueOptions, hasher contenthash.Hasher, now time.Time) (*sig.Signature, error) {
	if img == nil || img.Card == nil {
		return nil, tag.ErrNoCard
	}
	s := &sig.Signature{
		Version:  sig.Version,
		IssuedAt: uint32(now.Unix()),
		Duelist:  opts.Duelist,
		Deck:     opts.Deck,
	}
	if opts.Supersede {
		s.Flags |= sig.FlagSupersede
	}
	if opts.Tournament {
		s.Flags |= sig.FlagTournament
	}
	if opts.TTL > 0 {
		s.Flags |= sig.FlagHasExpiry
		s.Expiry = uint32(now.Add(opts.TTL).Unix())
	}

	hash, err := img.ContentHash(hasher.Sum256)
	if err != nil {
		return nil, err
	}
	if err := sig.Sign(a, img.Card.ID, hash, s); err != nil {
		return nil, err
	}
	return s, nil
}
