package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/cybertag/internal/cardjson"
	"github.com/samcharles93/cybertag/pkg/card"
	"github.com/samcharles93/cybertag/pkg/sig"
	"github.com/samcharles93/cybertag/pkg/tag"
	"github.com/samcharles93/cybertag/pkg/ygobin"
)

func sizeCmd() *cli.Command {
	var (
		duelist  bool
		deck     bool
		cardPath string
		sigCount int64
	)

	return &cli.Command{
		Name:  "size",
		Usage: "Report record sizes and which tags an image fits",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "duelist", Usage: "signature bound to a duelist", Destination: &duelist},
			&cli.BoolFlag{Name: "deck", Usage: "signature bound to a deck", Destination: &deck},
			&cli.StringFlag{
				Name:        "card",
				Usage:       "card JSON to size, including its description",
				Destination: &cardPath,
			},
			&cli.Int64Flag{
				Name:        "signatures",
				Usage:       "number of signatures to budget for",
				Value:       1,
				Destination: &sigCount,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			var flags sig.Flags
			if duelist {
				flags |= sig.FlagBoundDuelist
			}
			if deck {
				flags |= sig.FlagBoundDeck
			}
			w := stdout(c)
			sigSize := sig.CalcSize(flags)
			fmt.Fprintf(w, "card record:      %d bytes\n", card.RecordSize())
			fmt.Fprintf(w, "basic image:      %d bytes\n", len(ygobin.MagicWord)+card.RecordSize())
			fmt.Fprintf(w, "signature record: %d bytes (payload %d, flags %s)\n", sigSize, sig.PayloadSize(flags), flags)

			if cardPath == "" {
				return nil
			}
			data, err := readInput(cardPath, stdin(c))
			if err != nil {
				return err
			}
			entry, err := cardjson.DecodeEntry(data)
			if err != nil {
				return err
			}
			n, err := tag.SizeOf(&tag.Image{Card: entry.Card, Description: entry.Description})
			if err != nil {
				return err
			}
			total := n + int(sigCount)*sigSize
			fmt.Fprintf(w, "image:            %d bytes (%d unsigned)\n", total, n)
			for _, p := range tag.Profiles() {
				verdict := "fits"
				if !p.Fits(total) {
					verdict = "too large"
				}
				fmt.Fprintf(w, "%-17s %s, %d bytes free\n", p.Name+":", verdict, p.Capacity-total)
			}
			return nil
		},
	}
}
