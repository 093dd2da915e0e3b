package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/cybertag/internal/cardjson"
	"github.com/samcharles93/cybertag/internal/tagfile"
	"github.com/samcharles93/cybertag/pkg/card"
	"github.com/samcharles93/cybertag/pkg/sig"
	"github.com/samcharles93/cybertag/pkg/tag"
)

// loadImage reads a tag dump, or hex text from stdin when path is "-". The
// returned bytes are the image as stored, including any blank tail.
func loadImage(c *cli.Command, path string) ([]byte, *tag.Image, error) {
	if path == "-" {
		text, err := io.ReadAll(stdin(c))
		if err != nil {
			return nil, nil, err
		}
		raw, err := hex.DecodeString(string(bytes.Join(bytes.Fields(text), nil)))
		if err != nil {
			return nil, nil, fmt.Errorf("stdin: expected hex: %w", err)
		}
		img, err := tag.Decode(raw)
		if err != nil {
			return nil, nil, err
		}
		return raw, img, nil
	}

	d, err := tagfile.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = d.Close() }()
	raw := bytes.Clone(d.Data)
	img, err := tag.Decode(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return raw, img, nil
}

func decodeCmd() *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:      "decode",
		Usage:     "Print the card stored in a tag image",
		ArgsUsage: "<tag.bin|->",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print the card as a JSON document",
				Destination: &asJSON,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			path, err := firstArg(c, "tag image")
			if err != nil {
				return err
			}
			_, img, err := loadImage(c, path)
			if err != nil {
				return err
			}

			w := stdout(c)
			if asJSON {
				doc, err := cardjson.EncodeEntry(&cardjson.Entry{Card: img.Card, Description: img.Description})
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(w, string(doc))
				return err
			}
			printCard(w, img)
			return nil
		},
	}
}

func printCard(w io.Writer, img *tag.Image) {
	c := img.Card
	fmt.Fprintf(w, "id:          %08d\n", c.ID)
	fmt.Fprintf(w, "name:        %s\n", c.Name)
	fmt.Fprintf(w, "type:        %s\n", card.Describe(c.Type))

	if m, ok := c.Type.(card.Monster); ok {
		fmt.Fprintf(w, "race:        %s\n", m.Race)
		fmt.Fprintf(w, "attribute:   %s\n", c.Attribute)
		if rating, ok := c.LinkRating(); ok {
			fmt.Fprintf(w, "atk:         %d\n", c.ATK)
			fmt.Fprintf(w, "link:        %d (%s)\n", rating, c.LinkMarkers)
		} else {
			fmt.Fprintf(w, "atk/def:     %d/%d\n", c.ATK, c.DEF)
			fmt.Fprintf(w, "level:       %d\n", c.Level)
		}
		if scale, ok := c.Scale(); ok {
			fmt.Fprintf(w, "scale:       %d\n", scale)
		}
	}
	if img.Description != "" {
		fmt.Fprintf(w, "description: %s\n", strings.ReplaceAll(img.Description, "\n", "\n             "))
	}
	for i, s := range img.Signatures {
		fmt.Fprintf(w, "signature %d: %s\n", i, describeSignature(s))
	}
}

func describeSignature(s *sig.Signature) string {
	var b strings.Builder
	fmt.Fprintf(&b, "authority=%x alg=%s flags=%s issued=%s",
		s.Authority[:], s.Algorithm, s.WireFlags(), unixTime(s.IssuedAt))
	if s.Expires() {
		fmt.Fprintf(&b, " expires=%s", unixTime(s.Expiry))
	}
	if s.Duelist != nil {
		fmt.Fprintf(&b, " duelist=%s", s.Duelist)
	}
	if s.Deck != nil {
		fmt.Fprintf(&b, " deck=%s", s.Deck)
	}
	return b.String()
}

func unixTime(v uint32) string {
	return time.Unix(int64(v), 0).UTC().Format(time.RFC3339)
}
