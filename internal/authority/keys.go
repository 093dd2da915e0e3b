package authority

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cloudflare/circl/sign/ed25519"
)

const (
	privateKeyExt = ".key"
	publicKeyExt  = ".pub"
)

// KeyPaths returns the private and public key file paths for name in dir.
func KeyPaths(dir, name string) (private, public string) {
	base := filepath.Join(dir, name)
	return base + privateKeyExt, base + publicKeyExt
}

// Save writes the authority's seed and public key as hex text. The private key
// file has 0600 permissions; the public key file has 0644.
func (a *Authority) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating key directory: %w", err)
	}
	privatePath, publicPath := KeyPaths(dir, a.Name)
	if err := os.WriteFile(privatePath, hexLine(a.Seed()), 0o600); err != nil {
		return fmt.Errorf("writing private key: %w", err)
	}
	if err := os.WriteFile(publicPath, hexLine(a.public), 0o644); err != nil {
		return fmt.Errorf("writing public key: %w", err)
	}
	return nil
}

// Load reads the authority called name from dir.
func Load(dir, name string) (*Authority, error) {
	privatePath, _ := KeyPaths(dir, name)
	seed, err := readHexFile(privatePath)
	if err != nil {
		return nil, fmt.Errorf("reading private key: %w", err)
	}
	return FromSeed(name, seed)
}

// LoadPublicKey reads a hex public key file written by Save.
func LoadPublicKey(path string) (ed25519.PublicKey, error) {
	public, err := readHexFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading public key: %w", err)
	}
	if len(public) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key has %d bytes, want %d", len(public), ed25519.PublicKeySize)
	}
	return ed25519.PublicKey(public), nil
}

func hexLine(b []byte) []byte {
	return []byte(hex.EncodeToString(b) + "\n")
}

func readHexFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return hex.DecodeString(string(bytes.TrimSpace(data)))
}
