package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/ironsheep/image-stego-mcp/internal/logger"
	"github.com/ironsheep/image-stego-mcp/internal/server"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run the MCP tool server over stdin/stdout",
		Description: "Configure this command in an MCP client (e.g. Claude Desktop). " +
			"Logs go to stderr; stdout carries the protocol.",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			log.Debug("starting MCP server", "version", Version, "build_time", BuildTime, "commit", GitCommit)

			srv, err := server.New(server.Options{
				Logger:          log,
				MaxMessageBytes: appConfig.MaxMessageBytes,
				Version:         Version,
			})
			if err != nil {
				return err
			}
			defer srv.Close()

			return srv.Run(ctx)
		},
	}
}
