package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvHost, EnvPort, EnvUploadDir, EnvLogLevel, EnvLogFormat} {
		t.Setenv(k, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Addr() != "127.0.0.1:8080" {
		t.Errorf("Addr: got %s", cfg.Addr())
	}
	if cfg.MaxImageBytes != 10*1024*1024 || cfg.MaxMessageBytes != 1024*1024 {
		t.Errorf("limits: got %d / %d", cfg.MaxImageBytes, cfg.MaxMessageBytes)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
host: 0.0.0.0
port: 9090
log_format: json
max_message_bytes: 4096
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Host != "0.0.0.0" || cfg.Port != 9090 || cfg.LogFormat != "json" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.MaxMessageBytes != 4096 {
		t.Errorf("MaxMessageBytes: got %d", cfg.MaxMessageBytes)
	}
	// Untouched keys keep their defaults
	if cfg.UploadDir != DefaultUploadDir || cfg.LogLevel != DefaultLogLevel {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "port: 9090\nupload_dir: /from/file\n")
	t.Setenv(EnvPort, "7000")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 7000 {
		t.Errorf("Port: got %d, want 7000", cfg.Port)
	}
	if cfg.UploadDir != "/from/file" {
		t.Errorf("UploadDir: got %s", cfg.UploadDir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %s", cfg.LogLevel)
	}
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("explicit missing path should fail")
	}

	if _, err := Load(writeConfig(t, "port: [not a number")); err == nil {
		t.Error("malformed YAML should fail")
	}

	t.Setenv(EnvPort, "eighty")
	if _, err := Load(writeConfig(t, "")); err == nil || !strings.Contains(err.Error(), EnvPort) {
		t.Errorf("bad env port: got %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvHost:      "example.test",
		EnvUploadDir: "/var/stego",
		EnvLogFormat: "json",
	}
	cfg := Default()
	err := cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	if err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if cfg.Host != "example.test" || cfg.UploadDir != "/var/stego" || cfg.LogFormat != "json" {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("unset port changed: %d", cfg.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty host", func(c *Config) { c.Host = " " }},
		{"port zero", func(c *Config) { c.Port = 0 }},
		{"port too high", func(c *Config) { c.Port = 70000 }},
		{"no upload dir", func(c *Config) { c.UploadDir = "" }},
		{"zero image limit", func(c *Config) { c.MaxImageBytes = 0 }},
		{"negative message limit", func(c *Config) { c.MaxMessageBytes = -1 }},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestEnsureUploadDir(t *testing.T) {
	cfg := Default()
	cfg.UploadDir = filepath.Join(t.TempDir(), "a", "b")
	if err := cfg.EnsureUploadDir(); err != nil {
		t.Fatalf("EnsureUploadDir failed: %v", err)
	}
	if st, err := os.Stat(cfg.UploadDir); err != nil || !st.IsDir() {
		t.Errorf("upload dir not created: %v", err)
	}
}
