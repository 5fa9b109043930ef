package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/urfave/cli/v3"

	"github.com/ironsheep/image-stego-mcp/internal/imaging"
	"github.com/ironsheep/image-stego-mcp/internal/payload"
	"github.com/ironsheep/image-stego-mcp/internal/stego"
)

func decodeCmd() *cli.Command {
	var (
		input        string
		showHex      bool
		raw          bool
		output       string
		decompress   bool
		previewBytes int64
	)

	return &cli.Command{
		Name:  "decode",
		Usage: "Extract a hidden message from an image",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"i", "image"},
				Usage:       "stego image",
				Required:    true,
				Destination: &input,
			},
			&cli.BoolFlag{
				Name:        "hex",
				Usage:       "print the message as hex even if it is text",
				Destination: &showHex,
			},
			&cli.BoolFlag{
				Name:        "raw",
				Aliases:     []string{"r"},
				Usage:       "extract every pixel's bits without header validation",
				Destination: &raw,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "write the message to a file instead of printing it",
				Destination: &output,
			},
			&cli.BoolFlag{
				Name:        "decompress",
				Usage:       "zstd-decompress the extracted message",
				Destination: &decompress,
			},
			&cli.Int64Flag{
				Name:        "preview-bytes",
				Usage:       "bytes shown in the raw preview",
				Value:       32,
				Destination: &previewBytes,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := cmd.Root().Writer

			if raw && decompress {
				return errors.New("--raw and --decompress cannot be combined")
			}

			img, err := imaging.Open(input)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Extracting hidden message from: %s\n", input)

			var data []byte
			if raw {
				fmt.Fprintln(w, "Using raw extraction mode (ignoring header format)")
				data, err = imaging.ExtractRaw(img)
			} else {
				data, err = imaging.Extract(img)
			}
			if err != nil {
				return err
			}

			if decompress {
				codec, err := payload.NewCodec(appConfig.MaxMessageBytes)
				if err != nil {
					return err
				}
				defer codec.Close()
				if data, err = codec.Decompress(data); err != nil {
					return err
				}
			}

			fmt.Fprintf(w, "Message size: %d bytes\n", len(data))

			if output != "" {
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("failed to write output file: %w", err)
				}
				fmt.Fprintf(w, "Output written to: %s\n", output)
				if raw {
					fmt.Fprintf(w, "\n%s", stego.FormatPreview(data, int(previewBytes)))
				}
				return nil
			}

			switch {
			case raw:
				fmt.Fprintf(w, "\n%s", stego.FormatPreview(data, int(previewBytes)))
			case utf8.Valid(data) && !showHex:
				fmt.Fprintln(w, "\n----- DECODED MESSAGE -----")
				fmt.Fprintln(w, string(data))
				fmt.Fprintln(w, "---------------------------")
			default:
				fmt.Fprintln(w, "\n----- BINARY MESSAGE (hex) -----")
				writeHexDump(w, data)
				fmt.Fprintln(w, "--------------------------------")
			}
			return nil
		},
	}
}

// writeHexDump prints data as lower-case hex, 16 bytes per line.
func writeHexDump(w io.Writer, data []byte) {
	for i, b := range data {
		fmt.Fprintf(w, "%02x ", b)
		if (i+1)%16 == 0 {
			fmt.Fprintln(w)
		}
	}
	if len(data)%16 != 0 {
		fmt.Fprintln(w)
	}
}
