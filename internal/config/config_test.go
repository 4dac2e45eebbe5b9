package config

import (
	"os"
	"path/filepath"
	"testing"
)

type testOptions struct {
	Config       string
	Port         string `toml:"server.port" env:"SERVER_PORT"`
	Backend      string `toml:"brightness.backend" env:"BRIGHTNESS_BACKEND"`
	LoggingLevel string `toml:"logging.level" env:"LOGGING_LEVEL"`
	MetricsOn    bool   `toml:"metrics.enabled" env:"METRICS_ENABLED"`
	Retries      int    `toml:"server.retries" env:"SERVER_RETRIES"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromTOML(t *testing.T) {
	path := writeConfig(t, `
[server]
port = ":9000"
retries = 3

[brightness]
backend = "ddc"

[logging]
level = "debug"

[metrics]
enabled = true
`)

	opts := testOptions{Config: path, Port: ":8777"}
	if err := Load(&opts, nil); err != nil {
		t.Fatal(err)
	}
	if opts.Port != ":9000" {
		t.Errorf("Port = %q, want :9000", opts.Port)
	}
	if opts.Backend != "ddc" {
		t.Errorf("Backend = %q, want ddc", opts.Backend)
	}
	if opts.LoggingLevel != "debug" {
		t.Errorf("LoggingLevel = %q, want debug", opts.LoggingLevel)
	}
	if !opts.MetricsOn {
		t.Error("MetricsOn = false, want true")
	}
	if opts.Retries != 3 {
		t.Errorf("Retries = %d, want 3", opts.Retries)
	}
}

func TestLoadEnvOverridesTOML(t *testing.T) {
	path := writeConfig(t, "[brightness]\nbackend = \"ddc\"\n")
	t.Setenv("LUMEND_BRIGHTNESS_BACKEND", "sysfs")
	t.Setenv("LUMEND_SERVER_RETRIES", "7")

	opts := testOptions{Config: path}
	if err := Load(&opts, nil); err != nil {
		t.Fatal(err)
	}
	if opts.Backend != "sysfs" {
		t.Errorf("Backend = %q, want env override sysfs", opts.Backend)
	}
	if opts.Retries != 7 {
		t.Errorf("Retries = %d, want 7", opts.Retries)
	}
}

func TestLoadMissingFileIsFine(t *testing.T) {
	opts := testOptions{Config: "/nonexistent/config.toml", Port: ":8777"}
	if err := Load(&opts, nil); err != nil {
		t.Fatalf("missing config file should not error: %v", err)
	}
	if opts.Port != ":8777" {
		t.Errorf("Port = %q, want default preserved", opts.Port)
	}
}

func TestLoadRejectsBadTOML(t *testing.T) {
	path := writeConfig(t, "not [valid toml")
	opts := testOptions{Config: path}
	if err := Load(&opts, nil); err == nil {
		t.Error("expected parse error")
	}
}

func TestFlagName(t *testing.T) {
	for in, want := range map[string]string{
		"Port":         "port",
		"LoggingLevel": "logging-level",
		"AuthPassword": "auth-password",
	} {
		if got := flagName(in); got != want {
			t.Errorf("flagName(%q) = %q, want %q", in, got, want)
		}
	}
}
