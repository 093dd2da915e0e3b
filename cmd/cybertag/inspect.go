package main

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/cybertag/internal/contenthash"
	"github.com/samcharles93/cybertag/pkg/tag"
	"github.com/samcharles93/cybertag/pkg/ygobin"
)

func inspectCmd() *cli.Command {
	var (
		hashName  string
		showBytes bool
	)

	return &cli.Command{
		Name:      "inspect",
		Usage:     "List the records in a tag image with offsets and checksums",
		ArgsUsage: "<tag.bin|->",
		Flags: []cli.Flag{
			hashFlag(&hashName),
			&cli.BoolFlag{
				Name:        "bytes",
				Usage:       "dump each record's raw bytes",
				Destination: &showBytes,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			path, err := firstArg(c, "tag image")
			if err != nil {
				return err
			}
			raw, img, err := loadImage(c, path)
			if err != nil {
				return err
			}
			hasher, err := resolveHasher(configFrom(ctx), hashName)
			if err != nil {
				return err
			}
			records, err := ygobin.ReadRecords(raw)
			if err != nil {
				return err
			}

			w := stdout(c)
			used := len(ygobin.MagicWord)
			fmt.Fprintf(w, "magic   %x\n", ygobin.MagicWord[:])
			fmt.Fprintf(w, "%-6s  %-18s  %3s  %6s  %6s  %s\n", "offset", "type", "ver", "length", "crc", "reserved")
			for _, rec := range records {
				trailer := rec.Raw[rec.Length:]
				fmt.Fprintf(w, "%6d  %-18s  %3d  %6d  0x%04X  0x%04X\n",
					rec.Offset, rec.Type, rec.Version, rec.Length,
					binary.BigEndian.Uint16(trailer[0:2]),
					binary.BigEndian.Uint16(trailer[2:4]),
				)
				if showBytes {
					fmt.Fprint(w, hex.Dump(rec.Raw))
				}
				used += rec.Size()
			}

			hash, err := img.ContentHash(hasher.Sum256)
			if err != nil {
				return err
			}
			image := raw[:used]
			fmt.Fprintf(w, "used    %d of %d bytes\n", used, len(raw))
			fmt.Fprintf(w, "cid     %s\n", contenthash.CIDString(image))
			fmt.Fprintf(w, "%-7s %x\n", hasher.Name(), hash)
			for _, p := range tag.Profiles() {
				verdict := "fits"
				if !p.Fits(used) {
					verdict = "too large"
				}
				fmt.Fprintf(w, "%-7s %s (%d bytes)\n", p.Name, verdict, p.Capacity)
			}
			return nil
		},
	}
}
