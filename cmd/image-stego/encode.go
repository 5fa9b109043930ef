package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/ironsheep/image-stego-mcp/internal/imaging"
	"github.com/ironsheep/image-stego-mcp/internal/logger"
	"github.com/ironsheep/image-stego-mcp/internal/payload"
	"github.com/ironsheep/image-stego-mcp/internal/stego"
)

func encodeCmd() *cli.Command {
	var (
		input       string
		message     string
		messageFile string
		output      string
		compress    bool
		jpegQuality int64
	)

	return &cli.Command{
		Name:  "encode",
		Usage: "Hide a message in an image",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"i", "image"},
				Usage:       "cover image",
				Required:    true,
				Destination: &input,
			},
			&cli.StringFlag{
				Name:        "message",
				Aliases:     []string{"m"},
				Usage:       "message text to hide",
				Destination: &message,
			},
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "read the message from a file instead",
				Destination: &messageFile,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "stego image to write; the extension selects the format",
				Required:    true,
				Destination: &output,
			},
			&cli.BoolFlag{
				Name:        "compress",
				Usage:       "zstd-compress the message before hiding it",
				Destination: &compress,
			},
			&cli.Int64Flag{
				Name:        "jpeg-quality",
				Usage:       "JPEG quality when writing .jpg (lossy, destroys the message)",
				Value:       imaging.DefaultJPEGQuality,
				Destination: &jpegQuality,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			w := cmd.Root().Writer

			msg, err := readMessage(cmd.IsSet("message"), message, messageFile)
			if err != nil {
				return err
			}
			if len(msg) > appConfig.MaxMessageBytes {
				return fmt.Errorf("%w: message is %d bytes, limit is %d",
					stego.ErrMessageTooLarge, len(msg), appConfig.MaxMessageBytes)
			}

			format, err := imaging.ParseFormat(filepath.Ext(output))
			if err != nil {
				return err
			}
			cover, err := imaging.Open(input)
			if err != nil {
				return err
			}

			embedded := msg
			if compress {
				embedded = payload.Compress(msg)
			}

			fmt.Fprintf(w, "Message size: %d bytes\n", len(msg))
			if compress {
				fmt.Fprintf(w, "Compressed size: %d bytes\n", len(embedded))
			}
			fmt.Fprintf(w, "Encoding message into image: %s\n", input)

			out, res, err := imaging.Embed(cover, embedded)
			if err != nil {
				return err
			}
			if !imaging.IsLossless(format) {
				log.Warn("lossy output format, the message will not survive", "output", output)
			}
			if err := imaging.Save(output, out, int(jpegQuality)); err != nil {
				return err
			}

			log.Debug("embedded", "pixels_used", res.PixelsUsed, "pixels_changed", res.PixelsChanged, "capacity", res.Capacity)
			fmt.Fprintf(w, "Pixels used: %d (%d changed), capacity %d bytes\n", res.PixelsUsed, res.PixelsChanged, res.Capacity)
			fmt.Fprintf(w, "Message successfully hidden in: %s\n", output)
			return nil
		},
	}
}

// readMessage returns the inline message or the contents of file. Exactly
// one source must be given; an explicitly empty --message is allowed.
func readMessage(hasText bool, text, file string) ([]byte, error) {
	switch {
	case hasText && file != "":
		return nil, errors.New("use either --message or --file, not both")
	case hasText:
		return []byte(text), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read message file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("a message is required: pass --message or --file")
	}
}
