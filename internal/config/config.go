// Package config loads the cybertag configuration file
// (~/.config/cybertag/config.yaml).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/samcharles93/cybertag/internal/authority"
	"github.com/samcharles93/cybertag/internal/contenthash"
	"github.com/samcharles93/cybertag/pkg/tag"
)

// Config is the on-disk configuration. Empty fields mean "use the flag
// default"; commands only apply a value when the matching flag was not set.
type Config struct {
	// Hash names the content hash used for signatures (sha256, sha3-256, blake3).
	Hash string `yaml:"hash"`

	// Profile is the default tag model for encode and size checks.
	Profile string `yaml:"profile"`

	// KeyDir holds authority key pairs written by keygen.
	KeyDir string `yaml:"key_dir"`

	// Authority is the key name sign uses when --authority is not given.
	Authority string `yaml:"authority"`

	// Trusted lists the authorities verify accepts.
	Trusted []TrustedAuthority `yaml:"trusted"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	ServerAddress string `yaml:"server_address"`
}

// TrustedAuthority names an Ed25519 public key. Exactly one of PublicKey
// (hex) or KeyFile should be set; a relative KeyFile resolves against the
// config file's directory.
type TrustedAuthority struct {
	Name      string `yaml:"name"`
	PublicKey string `yaml:"public_key,omitempty"`
	KeyFile   string `yaml:"key_file,omitempty"`
}

// Path returns the default config location, or "" when the user config
// directory is unknown.
func Path() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "cybertag", "config.yaml")
}

// DefaultKeyDir returns the key directory used when none is configured.
func DefaultKeyDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "keys"
	}
	return filepath.Join(dir, "cybertag", "keys")
}

// Load reads the config file at path. A missing file yields a zero Config
// and no error; a malformed one is an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	base := filepath.Dir(path)
	for i := range cfg.Trusted {
		kf := cfg.Trusted[i].KeyFile
		if kf != "" && !filepath.IsAbs(kf) {
			cfg.Trusted[i].KeyFile = filepath.Join(base, kf)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the names that can be checked without touching disk.
func (c *Config) Validate() error {
	if c.Hash != "" {
		if _, err := contenthash.ByName(c.Hash); err != nil {
			return err
		}
	}
	if c.Profile != "" {
		if _, ok := tag.ProfileByName(c.Profile); !ok {
			return fmt.Errorf("unknown tag profile %q", c.Profile)
		}
	}
	for i, t := range c.Trusted {
		switch {
		case t.Name == "":
			return fmt.Errorf("trusted[%d]: missing name", i)
		case (t.PublicKey == "") == (t.KeyFile == ""):
			return fmt.Errorf("trusted %q: set exactly one of public_key or key_file", t.Name)
		}
	}
	return nil
}

// Hasher returns the configured content hash, or the default.
func (c *Config) Hasher() (contenthash.Hasher, error) {
	if c.Hash == "" {
		return contenthash.Default(), nil
	}
	return contenthash.ByName(c.Hash)
}

// TagProfile returns the configured tag model. ok is false when none is set.
func (c *Config) TagProfile() (tag.Profile, bool) {
	if c.Profile == "" {
		return tag.Profile{}, false
	}
	return tag.ProfileByName(c.Profile)
}

// Keys returns the key directory, falling back to DefaultKeyDir.
func (c *Config) Keys() string {
	if c.KeyDir != "" {
		return c.KeyDir
	}
	return DefaultKeyDir()
}

// Keyring builds the set of trusted authorities.
func (c *Config) Keyring() (*authority.Keyring, error) {
	ring := authority.NewKeyring()
	for _, t := range c.Trusted {
		if t.PublicKey != "" {
			if err := ring.AddHex(t.Name, t.PublicKey); err != nil {
				return nil, fmt.Errorf("trusted %q: %w", t.Name, err)
			}
			continue
		}
		pub, err := authority.LoadPublicKey(t.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("trusted %q: %w", t.Name, err)
		}
		if err := ring.Add(t.Name, pub); err != nil {
			return nil, fmt.Errorf("trusted %q: %w", t.Name, err)
		}
	}
	return ring, nil
}
