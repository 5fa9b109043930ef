package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/ironsheep/image-stego-mcp/internal/api"
	"github.com/ironsheep/image-stego-mcp/internal/logger"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		uploadDir   string
		readTimeout time.Duration
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address (default: host:port from config)",
				Destination: &addr,
			},
			&cli.StringFlag{
				Name:        "upload-dir",
				Usage:       "directory for encoded images (default: upload_dir from config)",
				Destination: &uploadDir,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read header timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			cfg := appConfig
			if uploadDir != "" {
				cfg.UploadDir = uploadDir
			}
			if addr == "" {
				addr = cfg.Addr()
			}

			server, err := api.NewServer(api.Options{Config: cfg, Logger: log, Version: Version})
			if err != nil {
				return err
			}
			defer server.Close()

			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)

			log.Info("starting server", "address", addr, "upload_dir", cfg.UploadDir)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
