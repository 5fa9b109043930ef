package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/ironsheep/image-stego-mcp/internal/imaging"
	"github.com/ironsheep/image-stego-mcp/internal/stego"
)

func inspectCmd() *cli.Command {
	var input string

	return &cli.Command{
		Name:  "inspect",
		Usage: "Show the message header of an image without decoding the message",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"i", "image"},
				Usage:       "image to inspect",
				Required:    true,
				Destination: &input,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := cmd.Root().Writer

			img, err := imaging.Open(input)
			if err != nil {
				return err
			}
			h, err := imaging.PeekHeader(img)
			if err != nil {
				return err
			}

			pixels := uint64(img.Bounds().Dx() * img.Bounds().Dy())
			fmt.Fprintf(w, "Header bytes:   % X\n", h.Bytes())
			fmt.Fprintf(w, "Format version: %d (expected: %d)\n", h.Version, stego.FormatVersion)
			fmt.Fprintf(w, "Message length: %d bytes\n", h.Length)
			fmt.Fprintf(w, "Reserved bytes: %02X %02X %02X\n", h.Reserved[0], h.Reserved[1], h.Reserved[2])
			fmt.Fprintf(w, "Frame pixels:   %d of %d\n", h.FramePixels(), pixels)
			fmt.Fprintf(w, "Capacity:       %d bytes\n", imaging.CoverCapacity(img))

			switch {
			case h.Version != stego.FormatVersion:
				fmt.Fprintln(w, "Verdict:        no message (unsupported version)")
			case h.FramePixels() > pixels:
				fmt.Fprintln(w, "Verdict:        no message (length exceeds image)")
			default:
				fmt.Fprintln(w, "Verdict:        message present")
			}
			return nil
		},
	}
}
