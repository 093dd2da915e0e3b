// Package contenthash provides the digests used for the card hash in signing
// payloads and content identifiers for whole tag images.
package contenthash

import (
	"crypto/sha256"
	"fmt"
	"sort"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"
)

// Hasher produces a 32-byte digest.
type Hasher interface {
	Name() string
	Sum256(data []byte) [32]byte
}

const (
	SHA256  = "sha256"
	SHA3256 = "sha3-256"
	BLAKE3  = "blake3"
)

type sha256Hasher struct{}

func (sha256Hasher) Name() string                { return SHA256 }
func (sha256Hasher) Sum256(data []byte) [32]byte { return sha256.Sum256(data) }

type sha3Hasher struct{}

func (sha3Hasher) Name() string                { return SHA3256 }
func (sha3Hasher) Sum256(data []byte) [32]byte { return sha3.Sum256(data) }

type blake3Hasher struct{}

func (blake3Hasher) Name() string                { return BLAKE3 }
func (blake3Hasher) Sum256(data []byte) [32]byte { return blake3.Sum256(data) }

var hashers = map[string]Hasher{
	SHA256:  sha256Hasher{},
	SHA3256: sha3Hasher{},
	BLAKE3:  blake3Hasher{},
}

// Default returns the hasher used when none is configured.
func Default() Hasher { return sha256Hasher{} }

// ByName returns the hasher registered under name. An empty name selects the
// default.
func ByName(name string) (Hasher, error) {
	if name == "" {
		return Default(), nil
	}
	h, ok := hashers[name]
	if !ok {
		return nil, fmt.Errorf("unsupported hash algorithm: %q", name)
	}
	return h, nil
}

// Names lists the registered hashers in sorted order.
func Names() []string {
	names := make([]string, 0, len(hashers))
	for name := range hashers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CID returns a CIDv1 identifier for data using the raw codec and a sha2-256
// multihash.
func CID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// CIDString is CID rendered in its default multibase form.
func CIDString(data []byte) string {
	c, err := CID(data)
	if err != nil {
		// multihash.Sum only fails for unknown codes or bad lengths.
		return ""
	}
	return c.String()
}
