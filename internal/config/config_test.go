package config

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samcharles93/cybertag/internal/authority"
	"github.com/samcharles93/cybertag/internal/contenthash"
	"github.com/samcharles93/cybertag/pkg/tag"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	h, err := cfg.Hasher()
	if err != nil {
		t.Fatalf("Hasher: %v", err)
	}
	if h.Name() != contenthash.SHA256 {
		t.Fatalf("default hasher = %s", h.Name())
	}
	if _, ok := cfg.TagProfile(); ok {
		t.Fatal("expected no profile")
	}
	if cfg.Keys() == "" {
		t.Fatal("expected a default key dir")
	}

	empty, err := Load("")
	if err != nil || empty == nil {
		t.Fatalf("Load(\"\") = %v, %v", empty, err)
	}
}

func TestLoadFull(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	shop, err := authority.Generate("shop", rand.Reader)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	judge, err := authority.Generate("judge", rand.Reader)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := judge.Save(filepath.Join(dir, "keys")); err != nil {
		t.Fatalf("save: %v", err)
	}

	path := writeConfig(t, dir, `
hash: blake3
profile: NTAG-215
key_dir: /var/lib/cybertag/keys
authority: shop
log_level: debug
log_format: json
server_address: 0.0.0.0:9090
trusted:
  - name: shop
    public_key: `+hex.EncodeToString(shop.PublicKey())+`
  - name: judge
    key_file: keys/judge.pub
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" || cfg.ServerAddress != "0.0.0.0:9090" {
		t.Fatalf("unexpected scalars: %+v", cfg)
	}
	if cfg.Keys() != "/var/lib/cybertag/keys" {
		t.Fatalf("Keys() = %s", cfg.Keys())
	}
	h, err := cfg.Hasher()
	if err != nil || h.Name() != contenthash.BLAKE3 {
		t.Fatalf("Hasher() = %v, %v", h, err)
	}
	p, ok := cfg.TagProfile()
	if !ok || p != tag.NTAG215 {
		t.Fatalf("TagProfile() = %+v, %v", p, ok)
	}
	if got := cfg.Trusted[1].KeyFile; got != filepath.Join(dir, "keys", "judge.pub") {
		t.Fatalf("key_file not resolved against config dir: %s", got)
	}

	ring, err := cfg.Keyring()
	if err != nil {
		t.Fatalf("Keyring: %v", err)
	}
	if got := strings.Join(ring.Names(), ","); got != "judge,shop" {
		t.Fatalf("keyring names = %s", got)
	}
	key, ok := ring.Lookup(judge.Fingerprint())
	if !ok || key.Name != "judge" {
		t.Fatalf("judge not trusted: %+v %v", key, ok)
	}
}

func TestLoadInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad yaml", "hash: [", "config"},
		{"unknown hash", "hash: md5", "md5"},
		{"unknown profile", "profile: mifare", "mifare"},
		{"trusted without name", "trusted:\n  - public_key: aa\n", "missing name"},
		{"trusted with both", "trusted:\n  - name: x\n    public_key: aa\n    key_file: x.pub\n", "exactly one"},
		{"trusted with neither", "trusted:\n  - name: x\n", "exactly one"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestKeyringErrors(t *testing.T) {
	t.Parallel()

	cfg := &Config{Trusted: []TrustedAuthority{{Name: "short", PublicKey: "abcd"}}}
	if _, err := cfg.Keyring(); err == nil {
		t.Fatal("expected error for short key")
	}

	cfg = &Config{Trusted: []TrustedAuthority{{Name: "gone", KeyFile: filepath.Join(t.TempDir(), "gone.pub")}}}
	if _, err := cfg.Keyring(); err == nil {
		t.Fatal("expected error for missing key file")
	}
}
