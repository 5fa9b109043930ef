package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/ironsheep/image-stego-mcp/internal/config"
	"github.com/ironsheep/image-stego-mcp/internal/logger"
)

var (
	configPath string
	logLevel   string
	logFormat  string

	// appConfig is resolved once in setup and shared by all commands.
	appConfig = config.Default()
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml (default: <user config dir>/image-stego/config.yaml)",
			Destination: &configPath,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       config.DefaultLogLevel,
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (text, json)",
			Value:       config.DefaultLogFormat,
			Destination: &logFormat,
		},
	}
}

// setup loads the configuration, lets explicit flags win over it, and puts
// a stderr logger in the context. stdout stays free for command output and
// the MCP protocol.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return ctx, err
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = logLevel
	}
	if cmd.IsSet("log-format") {
		cfg.LogFormat = logFormat
	}
	if !logger.ValidLevel(cfg.LogLevel) {
		return ctx, fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}
	if err := cfg.Validate(); err != nil {
		return ctx, fmt.Errorf("invalid configuration: %w", err)
	}
	appConfig = cfg

	log := logger.NewWithFormat(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	return logger.WithContext(ctx, log), nil
}
