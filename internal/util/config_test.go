package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
prelude = "/opt/lispy/std.lspy"
no_prelude = true
prompt = "> "
history_file = "/tmp/hist"
log_level = "debug"
log_file = "/tmp/lispy.log"
`)

	cfg := DefaultConfiguration()
	if err := cfg.LoadFile(path, true); err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	expected := Configuration{
		Prelude:     "/opt/lispy/std.lspy",
		NoPrelude:   true,
		Prompt:      "> ",
		HistoryFile: "/tmp/hist",
		LogLevel:    "debug",
		LogFile:     "/tmp/lispy.log",
	}
	if cfg != expected {
		t.Errorf("expected %+v, got %+v", expected, cfg)
	}
}

func TestLoadFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `log_level = "warn"`)

	cfg := DefaultConfiguration()
	if err := cfg.LoadFile(path, true); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if cfg.Prompt != DefaultPrompt {
		t.Errorf("prompt default lost: %q", cfg.Prompt)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("log level not applied: %q", cfg.LogLevel)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		contains string
	}{
		{"syntax", `prompt = `, "invalid config"},
		{"unknown key", `colour = "red"`, "unknown key 'colour'"},
		{"wrong type", `no_prelude = "yes"`, "invalid config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfiguration()
			err := cfg.LoadFile(writeConfig(t, tt.content), true)
			if err == nil || !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("expected error containing %q, got %v", tt.contains, err)
			}
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.toml")

	cfg := DefaultConfiguration()
	if err := cfg.LoadFile(missing, false); err != nil {
		t.Errorf("optional missing file reported %v", err)
	}
	if err := cfg.LoadFile(missing, true); err == nil {
		t.Errorf("required missing file was accepted")
	}
	if err := cfg.LoadFile("", true); err != nil {
		t.Errorf("empty path reported %v", err)
	}
}

func TestConfigPath(t *testing.T) {
	if got := ConfigPath("x.toml", "/home"); got != "x.toml" {
		t.Errorf("explicit path ignored: %s", got)
	}
	if got := ConfigPath("", "/home"); got != filepath.Join("/home", ConfigFileName) {
		t.Errorf("home path wrong: %s", got)
	}
	if got := ConfigPath("", ""); got != "" {
		t.Errorf("expected no path, got %s", got)
	}
}
