package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/cybertag/internal/authority"
	"github.com/samcharles93/cybertag/internal/logger"
)

func keygenCmd() *cli.Command {
	var (
		name   string
		keyDir string
		force  bool
	)

	return &cli.Command{
		Name:  "keygen",
		Usage: "Create an Ed25519 signing authority",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "name",
				Aliases:     []string{"n"},
				Usage:       "authority name, used for the key file names",
				Required:    true,
				Destination: &name,
			},
			keyDirFlag(&keyDir),
			&cli.BoolFlag{
				Name:        "force",
				Usage:       "overwrite an existing key pair",
				Destination: &force,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			log := logger.FromContext(ctx)
			dir := resolveKeyDir(configFrom(ctx), keyDir)

			private, public := authority.KeyPaths(dir, name)
			if !force {
				if _, err := os.Stat(private); err == nil {
					return fmt.Errorf("%s already exists (use --force to replace it)", private)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
			}

			a, err := authority.Generate(name, rand.Reader)
			if err != nil {
				return err
			}
			if err := a.Save(dir); err != nil {
				return err
			}
			fp := a.Fingerprint()
			log.Info("generated authority", "name", name, "fingerprint", hex.EncodeToString(fp[:]), "public", public)

			w := stdout(c)
			fmt.Fprintf(w, "name:        %s\n", name)
			fmt.Fprintf(w, "fingerprint: %x\n", fp[:])
			fmt.Fprintf(w, "public key:  %s\n", hex.EncodeToString(a.PublicKey()))
			fmt.Fprintf(w, "files:       %s, %s\n", private, public)
			return nil
		},
	}
}
