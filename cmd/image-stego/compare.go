package main

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/ironsheep/image-stego-mcp/internal/imaging"
)

func compareCmd() *cli.Command {
	var (
		coverPath string
		stegoPath string
		diffOut   string
		jsonOut   bool
	)

	return &cli.Command{
		Name:  "compare",
		Usage: "Measure the distortion between a cover image and its stego version",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "cover", Usage: "original cover image", Required: true, Destination: &coverPath},
			&cli.StringFlag{Name: "stego", Usage: "stego image", Required: true, Destination: &stegoPath},
			&cli.StringFlag{Name: "diff-out", Usage: "write an LSB difference map to this file", Destination: &diffOut},
			&cli.BoolFlag{Name: "json", Usage: "print JSON", Destination: &jsonOut},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := cmd.Root().Writer

			cover, err := imaging.Open(coverPath)
			if err != nil {
				return err
			}
			stegoImg, err := imaging.Open(stegoPath)
			if err != nil {
				return err
			}

			res, err := imaging.Compare(cover, stegoImg)
			if err != nil {
				return err
			}

			if diffOut != "" {
				diff, err := imaging.DiffMap(cover, stegoImg)
				if err != nil {
					return err
				}
				if err := imaging.Save(diffOut, diff, 0); err != nil {
					return err
				}
			}

			if jsonOut {
				b, err := json.MarshalIndent(res, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(w, string(b))
				return nil
			}

			fmt.Fprintf(w, "Dimensions:          %dx%d\n", res.Width, res.Height)
			fmt.Fprintf(w, "Pixels changed:      %d\n", res.PixelsChanged)
			fmt.Fprintf(w, "Channels changed:    %d\n", res.ChannelsChanged)
			fmt.Fprintf(w, "Max channel delta:   %d\n", res.MaxChannelDelta)
			fmt.Fprintf(w, "High bits preserved: %v\n", res.HighBitsPreserved)
			if res.Identical {
				fmt.Fprintln(w, "PSNR:                identical")
			} else {
				fmt.Fprintf(w, "PSNR:                %.2f dB\n", res.PSNR)
			}
			fmt.Fprintf(w, "Max delta E (CIE76): %.4f\n", res.MaxDeltaE)
			if diffOut != "" {
				fmt.Fprintf(w, "Difference map:      %s\n", diffOut)
			}
			return nil
		},
	}
}
