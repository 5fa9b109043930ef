package main

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/ironsheep/image-stego-mcp/internal/imaging"
)

func capacityCmd() *cli.Command {
	var (
		input   string
		jsonOut bool
	)

	return &cli.Command{
		Name:  "capacity",
		Usage: "Show how many message bytes an image can hold",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"i", "image"},
				Usage:       "cover image",
				Required:    true,
				Destination: &input,
			},
			&cli.BoolFlag{Name: "json", Usage: "print JSON", Destination: &jsonOut},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := cmd.Root().Writer

			info, err := imaging.LoadImageInfo(imaging.NewImageCache(), input)
			if err != nil {
				return err
			}

			if jsonOut {
				b, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(w, string(b))
				return nil
			}

			fmt.Fprintf(w, "Image:      %s\n", input)
			fmt.Fprintf(w, "Dimensions: %dx%d (%d pixels)\n", info.Width, info.Height, info.Pixels)
			fmt.Fprintf(w, "Format:     %s, %s, alpha=%v\n", info.Format, info.ColorDepth, info.HasAlpha)
			fmt.Fprintf(w, "File size:  %d bytes\n", info.FileSizeBytes)
			fmt.Fprintf(w, "Capacity:   %d bytes\n", info.CapacityBytes)
			if !info.Lossless {
				fmt.Fprintln(w, "Note:       re-saving in this format destroys hidden messages; write .png, .bmp or .tiff")
			}
			return nil
		},
	}
}
