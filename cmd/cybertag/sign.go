package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/cybertag/internal/authority"
	"github.com/samcharles93/cybertag/internal/logger"
	"github.com/samcharles93/cybertag/internal/tagfile"
	"github.com/samcharles93/cybertag/pkg/sig"
	"github.com/samcharles93/cybertag/pkg/tag"
)

func signCmd() *cli.Command {
	var (
		name        string
		keyDir      string
		hashName    string
		duelist     string
		deck        string
		supersede   bool
		tournament  bool
		ttl         time.Duration
		profileName string
		outPath     string
	)

	return &cli.Command{
		Name:      "sign",
		Usage:     "Append an authority signature to a tag image",
		ArgsUsage: "<tag.bin>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "authority",
				Aliases:     []string{"a"},
				Usage:       "authority key name (defaults to the config file's authority)",
				Destination: &name,
			},
			keyDirFlag(&keyDir),
			hashFlag(&hashName),
			&cli.StringFlag{
				Name:        "duelist",
				Usage:       "bind the signature to a duelist UUID",
				Destination: &duelist,
			},
			&cli.StringFlag{
				Name:        "deck",
				Usage:       "bind the signature to a deck UUID",
				Destination: &deck,
			},
			&cli.BoolFlag{
				Name:        "supersede",
				Usage:       "cancel earlier signatures from the same authority",
				Destination: &supersede,
			},
			&cli.BoolFlag{
				Name:        "tournament",
				Usage:       "mark the card as tournament legal",
				Destination: &tournament,
			},
			&cli.DurationFlag{
				Name:        "ttl",
				Usage:       "expire the signature after this long (0 never expires)",
				Destination: &ttl,
			},
			profileFlag(&profileName),
			outFlag(&outPath, "output dump (default <input>.signed.bin)"),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			log := logger.FromContext(ctx)
			cfg := configFrom(ctx)

			path, err := firstArg(c, "tag image")
			if err != nil {
				return err
			}
			if path == "-" && outPath == "" {
				return fmt.Errorf("sign: --out is required when reading from stdin")
			}
			if name == "" {
				name = cfg.Authority
			}
			if name == "" {
				return fmt.Errorf("sign: no authority given (use --authority or set authority in the config file)")
			}

			opts := authority.IssueOptions{Supersede: supersede, Tournament: tournament, TTL: ttl}
			if opts.Duelist, err = parseOptionalUUID("duelist", duelist); err != nil {
				return err
			}
			if opts.Deck, err = parseOptionalUUID("deck", deck); err != nil {
				return err
			}

			hasher, err := resolveHasher(cfg, hashName)
			if err != nil {
				return err
			}
			a, err := authority.Load(resolveKeyDir(cfg, keyDir), name)
			if err != nil {
				return err
			}
			_, img, err := loadImage(c, path)
			if err != nil {
				return err
			}

			profile, haveProfile, err := resolveProfile(cfg, profileName)
			if err != nil {
				return err
			}
			size, err := tag.SizeOf(img)
			if err != nil {
				return err
			}
			flags := (&sig.Signature{Duelist: opts.Duelist, Deck: opts.Deck}).WireFlags()
			need := size + sig.CalcSize(flags)
			if !haveProfile {
				if profile, haveProfile = tag.Smallest(need); !haveProfile {
					return fmt.Errorf("%w: signing needs %d bytes", tag.ErrTooLarge, need)
				}
			}
			if !profile.Fits(need) {
				return fmt.Errorf("%w: signing needs %d bytes, %s holds %d", tag.ErrTooLarge, need, profile.Name, profile.Capacity)
			}

			s, err := a.Issue(img, opts, hasher, time.Now())
			if err != nil {
				return err
			}
			img.Signatures = append(img.Signatures, s)
			image, err := tag.EncodeFor(img, profile)
			if err != nil {
				return err
			}

			out, err := resolveSignedOut(path, outPath)
			if err != nil {
				return err
			}
			if err := tagfile.Write(out, image, profile); err != nil {
				return err
			}
			log.Info("signed card",
				"id", img.Card.ID,
				"authority", name,
				"fingerprint", hex.EncodeToString(s.Authority[:]),
				"flags", s.WireFlags().String(),
				"hash", hasher.Name(),
				"out", out,
			)
			_, err = fmt.Fprintln(stdout(c), out)
			return err
		},
	}
}

func parseOptionalUUID(what, v string) (*uuid.UUID, error) {
	if v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", what, err)
	}
	return &id, nil
}
