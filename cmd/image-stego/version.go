package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := cmd.Root().Writer
			fmt.Fprintf(w, "image-stego %s\n", Version)
			fmt.Fprintf(w, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
			return nil
		},
	}
}
