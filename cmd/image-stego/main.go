package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "image-stego",
		Usage:   "Hide messages in images with BLTM matrix-encoded LSB steganography",
		Version: Version,
		Flags:   globalFlags(),
		Before:  setup,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			encodeCmd(),
			decodeCmd(),
			capacityCmd(),
			inspectCmd(),
			compareCmd(),
			serveCmd(),
			mcpCmd(),
			versionCmd(),
		},
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
