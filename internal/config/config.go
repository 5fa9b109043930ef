// Package config loads image-stego settings from defaults, an optional YAML
// file and IMAGE_STEGO_* environment variables. Command-line flags are
// applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultHost            = "127.0.0.1"
	DefaultPort            = 8080
	DefaultUploadDir       = "./tmp"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultMaxImageBytes   = 10 << 20
	DefaultMaxMessageBytes = 1 << 20
)

// Environment variables read by ApplyEnv.
const (
	EnvHost      = "IMAGE_STEGO_HOST"
	EnvPort      = "IMAGE_STEGO_PORT"
	EnvUploadDir = "IMAGE_STEGO_UPLOAD_DIR"
	EnvLogLevel  = "IMAGE_STEGO_LOG_LEVEL"
	EnvLogFormat = "IMAGE_STEGO_LOG_FORMAT"
)

// Config holds settings shared by the CLI, the REST server and the MCP
// server.
type Config struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	UploadDir string `yaml:"upload_dir"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// MaxImageBytes caps uploaded cover and stego images.
	MaxImageBytes int64 `yaml:"max_image_bytes"`

	// MaxMessageBytes caps messages before embedding and after
	// decompression.
	MaxMessageBytes int `yaml:"max_message_bytes"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Host:            DefaultHost,
		Port:            DefaultPort,
		UploadDir:       DefaultUploadDir,
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
		MaxImageBytes:   DefaultMaxImageBytes,
		MaxMessageBytes: DefaultMaxMessageBytes,
	}
}

// Path returns the default config file location
// (<UserConfigDir>/image-stego/config.yaml), or "" if there is no user
// config directory.
func Path() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "image-stego", "config.yaml")
}

// Load builds a Config from defaults, the YAML file at path and the
// environment, in that order. An empty path means Path(); a missing file at
// the default location is not an error, but a missing explicit path is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = Path()
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from IMAGE_STEGO_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvHost); ok && v != "" {
		c.Host = v
	}
	if v, ok := lookup(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		c.Port = port
	}
	if v, ok := lookup(EnvUploadDir); ok && v != "" {
		c.UploadDir = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.LogFormat = v
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Host) == "":
		return errors.New("host must not be empty")
	case c.Port < 1 || c.Port > 65535:
		return fmt.Errorf("port %d out of range 1..65535", c.Port)
	case c.UploadDir == "":
		return errors.New("upload_dir must not be empty")
	case c.MaxImageBytes <= 0:
		return fmt.Errorf("max_image_bytes must be positive, got %d", c.MaxImageBytes)
	case c.MaxMessageBytes <= 0:
		return fmt.Errorf("max_message_bytes must be positive, got %d", c.MaxMessageBytes)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// Addr returns host:port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// EnsureUploadDir creates the upload directory if needed.
func (c Config) EnsureUploadDir() error {
	if err := os.MkdirAll(c.UploadDir, 0o755); err != nil {
		return fmt.Errorf("failed to create upload dir: %w", err)
	}
	return nil
}
