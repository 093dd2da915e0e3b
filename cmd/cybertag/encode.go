package main

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/cybertag/internal/cardjson"
	"github.com/samcharles93/cybertag/internal/contenthash"
	"github.com/samcharles93/cybertag/internal/logger"
	"github.com/samcharles93/cybertag/internal/tagfile"
	"github.com/samcharles93/cybertag/pkg/tag"
)

func encodeCmd() *cli.Command {
	var (
		cardPath    string
		cardID      uint64
		description string
		descFile    string
		noDesc      bool
		profileName string
		outPath     string
		format      string
	)

	return &cli.Command{
		Name:  "encode",
		Usage: "Build a tag image from a card document",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "card",
				Aliases:     []string{"c"},
				Usage:       "card JSON (object, array or API response); - reads stdin",
				Required:    true,
				Destination: &cardPath,
			},
			&cli.Uint64Flag{
				Name:        "id",
				Usage:       "card id to pick when the document holds several cards",
				Destination: &cardID,
			},
			&cli.StringFlag{
				Name:        "description",
				Usage:       "rules text, overriding the document's desc field",
				Destination: &description,
			},
			&cli.StringFlag{
				Name:        "description-file",
				Usage:       "read the rules text from a file",
				Destination: &descFile,
			},
			&cli.BoolFlag{
				Name:        "no-description",
				Usage:       "omit the description record",
				Destination: &noDesc,
			},
			profileFlag(&profileName),
			outFlag(&outPath, "write the image to a tag dump file"),
			&cli.StringFlag{
				Name:        "format",
				Usage:       "stdout encoding when --out is not set (hex, base64)",
				Value:       "hex",
				Destination: &format,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			log := logger.FromContext(ctx)
			cfg := configFrom(ctx)

			data, err := readInput(cardPath, stdin(c))
			if err != nil {
				return err
			}
			entries, err := cardjson.DecodeList(data)
			if err != nil {
				return err
			}
			entry := &entries[0]
			switch {
			case c.IsSet("id"):
				if entry, err = cardjson.Find(entries, uint32(cardID)); err != nil {
					return err
				}
			case len(entries) > 1:
				return fmt.Errorf("document holds %d cards; pick one with --id", len(entries))
			}

			img := &tag.Image{Card: entry.Card, Description: entry.Description}
			switch {
			case noDesc:
				img.Description = ""
			case descFile != "":
				text, err := os.ReadFile(descFile)
				if err != nil {
					return err
				}
				img.Description = string(text)
			case c.IsSet("description"):
				img.Description = description
			}

			profile, haveProfile, err := resolveProfile(cfg, profileName)
			if err != nil {
				return err
			}
			var image []byte
			if haveProfile {
				image, err = tag.EncodeFor(img, profile)
			} else {
				image, err = tag.Encode(img)
			}
			if err != nil {
				return err
			}

			log.Info("encoded card",
				"id", img.Card.ID,
				"name", img.Card.Name,
				"size", len(image),
				"profile", profile.Name,
				"cid", contenthash.CIDString(image),
			)

			if outPath != "" {
				return tagfile.Write(outPath, image, profile)
			}
			return printImage(c, image, format)
		},
	}
}

func printImage(c *cli.Command, image []byte, format string) error {
	w := stdout(c)
	switch format {
	case "", "hex":
		_, err := fmt.Fprintln(w, hex.EncodeToString(image))
		return err
	case "base64":
		_, err := fmt.Fprintln(w, base64.StdEncoding.EncodeToString(image))
		return err
	default:
		return fmt.Errorf("unknown output format %q (want hex or base64)", format)
	}
}
