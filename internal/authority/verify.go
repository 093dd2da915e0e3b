package authority

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cloudflare/circl/sign/ed25519"
	"github.com/samcharles93/cybertag/internal/contenthash"
	"github.com/samcharles93/cybertag/pkg/sig"
	"github.com/samcharles93/cybertag/pkg/tag"
)

// Verifier checks Ed25519 signatures. It implements sig.Verifier.
type Verifier struct{}

func (Verifier) Verify(publicKey, message, signature []byte) error {
	if len(publicKey) != ed25519.PublicKeySize {
		return fmt.Errorf("%w: public key has %d bytes", sig.ErrInvalidSignature, len(publicKey))
	}
	if !ed25519.Verify(ed25519.PublicKey(publicKey), message, signature) {
		return sig.ErrInvalidSignature
	}
	return nil
}

// TrustedKey is a public key accepted for verification.
type TrustedKey struct {
	Name      string
	PublicKey ed25519.PublicKey
}

// Keyring indexes trusted keys by fingerprint.
type Keyring struct {
	keys map[sig.Fingerprint]TrustedKey
}

func NewKeyring() *Keyring {
	return &Keyring{keys: make(map[sig.Fingerprint]TrustedKey)}
}

// Add trusts public under name.
func (k *Keyring) Add(name string, public ed25519.PublicKey) error {
	if len(public) != ed25519.PublicKeySize {
		return fmt.Errorf("public key %q has %d bytes, want %d", name, len(public), ed25519.PublicKeySize)
	}
	k.keys[Fingerprint(public)] = TrustedKey{Name: name, PublicKey: public}
	return nil
}

// AddHex trusts a hex-encoded public key.
func (k *Keyring) AddHex(name, publicHex string) error {
	public, err := hex.DecodeString(publicHex)
	if err != nil {
		return fmt.Errorf("public key %q: %w", name, err)
	}
	return k.Add(name, public)
}

func (k *Keyring) Lookup(fp sig.Fingerprint) (TrustedKey, bool) {
	key, ok := k.keys[fp]
	return key, ok
}

// Names lists the trusted key names in sorted order.
func (k *Keyring) Names() []string {
	names := make([]string, 0, len(k.keys))
	for _, key := range k.keys {
		names = append(names, key.Name)
	}
	sort.Strings(names)
	return names
}

func (k *Keyring) Len() int { return len(k.keys) }

// Result is the outcome of checking one signature on a tag.
type Result struct {
	Signature *sig.Signature
	// Authority is the trusted key name, empty when the fingerprint is unknown.
	Authority  string
	Superseded bool
	Err        error
}

// Valid reports whether the signature verified and is still in force.
func (r Result) Valid() bool { return r.Err == nil && !r.Superseded }

// ErrUnknownAuthority is reported for signatures from keys not in the keyring.
var ErrUnknownAuthority = errors.New("unknown signing authority")

// VerifyImage checks every signature on img against the keyring. Only
// signatures that verify can supersede earlier ones.
func VerifyImage(img *tag.Image, keys *Keyring, hasher contenthash.Hasher, now time.Time) ([]Result, error) {
	hash, err := img.ContentHash(hasher.Sum256)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(img.Signatures))
	verified := make(map[*sig.Signature]bool, len(img.Signatures))
	for _, s := range img.Signatures {
		res := Result{Signature: s}
		key, ok := keys.Lookup(s.Authority)
		if !ok {
			res.Err = fmt.Errorf("%w: %x", ErrUnknownAuthority, s.Authority[:])
		} else {
			res.Authority = key.Name
			res.Err = sig.VerifyAt(Verifier{}, key.PublicKey, img.Card.ID, hash, s, now)
		}
		verified[s] = res.Err == nil
		results = append(results, res)
	}

	effective := make(map[*sig.Signature]bool, len(img.Signatures))
	for _, s := range img.Effective(func(s *sig.Signature) bool { return verified[s] }) {
		effective[s] = true
	}
	for i := range results {
		results[i].Superseded = !effective[results[i].Signature]
	}
	return results, nil
}
