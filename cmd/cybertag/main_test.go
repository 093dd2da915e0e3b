package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const blueEyes = `{
	"id": 89631139,
	"name": "Blue-Eyes White Dragon",
	"type": "Normal Monster",
	"desc": "This legendary dragon is a powerful engine of destruction.",
	"atk": 3000,
	"def": 2500,
	"level": 8,
	"race": "Dragon",
	"attribute": "LIGHT"
}`

func runApp(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	full := append([]string{"cybertag", "--config", filepath.Join(dir, "missing.yaml")}, args...)
	err := app.Run(context.Background(), full)
	return out.String(), err
}

func TestEncodeSignVerifyFlow(t *testing.T) {
	dir := t.TempDir()
	cardPath := filepath.Join(dir, "card.json")
	if err := os.WriteFile(cardPath, []byte(blueEyes), 0o644); err != nil {
		t.Fatalf("write card: %v", err)
	}
	tagPath := filepath.Join(dir, "bewd.bin")
	keys := filepath.Join(dir, "keys")

	if _, err := runApp(t, dir, "encode", "--card", cardPath, "--profile", "ntag215", "--out", tagPath); err != nil {
		t.Fatalf("encode: %v", err)
	}
	st, err := os.Stat(tagPath)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if st.Size() != 504 {
		t.Fatalf("dump size = %d, want 504", st.Size())
	}

	out, err := runApp(t, dir, "decode", tagPath)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, want := range []string{"Blue-Eyes White Dragon", "Normal Monster", "3000/2500", "legendary dragon"} {
		if !strings.Contains(out, want) {
			t.Fatalf("decode output missing %q:\n%s", want, out)
		}
	}

	out, err = runApp(t, dir, "keygen", "--name", "shop", "--key-dir", keys)
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	if !strings.Contains(out, "fingerprint:") {
		t.Fatalf("keygen output:\n%s", out)
	}
	if _, err := runApp(t, dir, "keygen", "--name", "shop", "--key-dir", keys); err == nil {
		t.Fatal("keygen overwrote an existing key without --force")
	}

	out, err = runApp(t, dir, "sign",
		"--authority", "shop",
		"--key-dir", keys,
		"--duelist", "3b241101-e2bb-4255-8caf-4136c566a962",
		"--ttl", "24h",
		tagPath,
	)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	signedPath := filepath.Join(dir, "bewd.signed.bin")
	if strings.TrimSpace(out) != signedPath {
		t.Fatalf("sign output = %q, want %q", out, signedPath)
	}

	out, err = runApp(t, dir, "verify", "--trust-file", filepath.Join(keys, "shop.pub"), signedPath)
	if err != nil {
		t.Fatalf("verify: %v\n%s", err, out)
	}
	if !strings.Contains(out, "shop") || !strings.Contains(out, "valid") {
		t.Fatalf("verify output:\n%s", out)
	}

	_, err = runApp(t, dir, "verify", signedPath)
	if !errors.Is(err, errNoValidSignature) {
		t.Fatalf("untrusted verify err = %v", err)
	}

	_, err = runApp(t, dir, "verify", "--trust-file", filepath.Join(keys, "shop.pub"), "--at", "2099-01-01T00:00:00Z", signedPath)
	if !errors.Is(err, errNoValidSignature) {
		t.Fatalf("expired verify err = %v", err)
	}

	out, err = runApp(t, dir, "inspect", signedPath)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"basic", "description", "signature", "cid     bafkrei", "ntag213"} {
		if !strings.Contains(out, want) {
			t.Fatalf("inspect output missing %q:\n%s", want, out)
		}
	}
}

func TestEncodeToStdoutAndPick(t *testing.T) {
	dir := t.TempDir()
	list := `{"data": [` + blueEyes + `, {"id": 5318639, "name": "Mystical Space Typhoon", "type": "Spell Card", "race": "Quick-Play"}]}`
	cardPath := filepath.Join(dir, "cards.json")
	if err := os.WriteFile(cardPath, []byte(list), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := runApp(t, dir, "encode", "--card", cardPath); err == nil {
		t.Fatal("expected an error when several cards are present without --id")
	}

	out, err := runApp(t, dir, "encode", "--card", cardPath, "--id", "5318639")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// A spell with no description is the 92-byte basic image.
	hexImage := strings.TrimSpace(out)
	if len(hexImage) != 2*92 || !strings.HasPrefix(hexImage, "0e59474f") {
		t.Fatalf("encoded hex = %s", hexImage)
	}

	_, err = runApp(t, dir, "encode", "--card", cardPath, "--id", "1")
	if err == nil {
		t.Fatal("expected not found for missing id")
	}
}

func TestSizeCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := runApp(t, dir, "size", "--duelist", "--deck")
	if err != nil {
		t.Fatalf("size: %v", err)
	}
	for _, want := range []string{
		"card record:      88 bytes",
		"basic image:      92 bytes",
		"signature record: 124 bytes",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("size output missing %q:\n%s", want, out)
		}
	}
}

func TestResolveSignedOut(t *testing.T) {
	got, err := resolveSignedOut(filepath.Join("tags", "card.bin"), "")
	if err != nil {
		t.Fatalf("resolveSignedOut: %v", err)
	}
	if got != filepath.Join("tags", "card.signed.bin") {
		t.Fatalf("got %q", got)
	}

	got, err = resolveSignedOut("dump", "")
	if err != nil || got != "dump.signed.bin" {
		t.Fatalf("no extension: %q %v", got, err)
	}

	explicit := filepath.Join(t.TempDir(), "nested", "out.bin")
	got, err = resolveSignedOut("card.bin", explicit)
	if err != nil || got != explicit {
		t.Fatalf("explicit: %q %v", got, err)
	}
	if _, err := os.Stat(filepath.Dir(explicit)); err != nil {
		t.Fatalf("expected output directory to exist: %v", err)
	}
}
