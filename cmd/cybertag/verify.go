package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/cybertag/internal/authority"
	"github.com/samcharles93/cybertag/internal/logger"
)

var errNoValidSignature = errors.New("no valid signature")

func verifyCmd() *cli.Command {
	var (
		hashName   string
		trust      []string
		trustFiles []string
		at         string
	)

	return &cli.Command{
		Name:      "verify",
		Usage:     "Check the signatures on a tag image against trusted authorities",
		ArgsUsage: "<tag.bin|->",
		Flags: []cli.Flag{
			hashFlag(&hashName),
			&cli.StringSliceFlag{
				Name:        "trust",
				Usage:       "trust a hex public key, as name=hex",
				Destination: &trust,
			},
			&cli.StringSliceFlag{
				Name:        "trust-file",
				Usage:       "trust a .pub file written by keygen",
				Destination: &trustFiles,
			},
			&cli.StringFlag{
				Name:        "at",
				Usage:       "check expiry at this RFC 3339 time instead of now",
				Destination: &at,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			log := logger.FromContext(ctx)
			cfg := configFrom(ctx)

			path, err := firstArg(c, "tag image")
			if err != nil {
				return err
			}
			hasher, err := resolveHasher(cfg, hashName)
			if err != nil {
				return err
			}
			keys, err := cfg.Keyring()
			if err != nil {
				return err
			}
			if err := addTrusted(keys, trust, trustFiles); err != nil {
				return err
			}
			now := time.Now()
			if at != "" {
				if now, err = time.Parse(time.RFC3339, at); err != nil {
					return fmt.Errorf("--at: %w", err)
				}
			}

			_, img, err := loadImage(c, path)
			if err != nil {
				return err
			}
			results, err := authority.VerifyImage(img, keys, hasher, now)
			if err != nil {
				return err
			}
			log.Debug("verifying", "card", img.Card.ID, "signatures", len(results), "trusted", keys.Len(), "hash", hasher.Name())

			w := stdout(c)
			valid := 0
			for i, r := range results {
				status := "valid"
				switch {
				case r.Err != nil:
					status = "invalid: " + r.Err.Error()
				case r.Superseded:
					status = "superseded"
				default:
					valid++
				}
				who := r.Authority
				if who == "" {
					who = "?"
				}
				fmt.Fprintf(w, "%d  %-12s %x  %s\n", i, who, r.Signature.Authority[:], status)
			}
			if valid == 0 {
				return fmt.Errorf("%s: %w", path, errNoValidSignature)
			}
			return nil
		},
	}
}

func addTrusted(keys *authority.Keyring, trust, files []string) error {
	for _, t := range trust {
		name, key, ok := strings.Cut(t, "=")
		if !ok {
			return fmt.Errorf("--trust %q: expected name=hex", t)
		}
		if err := keys.AddHex(name, key); err != nil {
			return err
		}
	}
	for _, f := range files {
		pub, err := authority.LoadPublicKey(f)
		if err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
		name := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		if err := keys.Add(name, pub); err != nil {
			return err
		}
	}
	return nil
}
