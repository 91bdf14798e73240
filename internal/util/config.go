package util

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	ConfigFileName = "lispy.toml"
	DefaultPrompt  = "lispy> "
)

type Configuration struct {
	Version   string `toml:"-"`
	BuildDate string `toml:"-"`
	Commit    string `toml:"-"`
	LispyHome string `toml:"-"`

	// Prelude is the library loaded at startup; empty selects the bundled one.
	Prelude     string `toml:"prelude"`
	NoPrelude   bool   `toml:"no_prelude"`
	Prompt      string `toml:"prompt"`
	HistoryFile string `toml:"history_file"`
	LogLevel    string `toml:"log_level"`
	LogFile     string `toml:"log_file"`

	DebugJsonAST bool `toml:"-"`
	DebugTxtAST  bool `toml:"-"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		Prompt:   DefaultPrompt,
		LogLevel: "none",
	}
}

// ConfigPath picks the file named explicitly, or lispy.toml under home when one is set.
func ConfigPath(explicit, home string) string {
	if explicit != "" {
		return explicit
	}
	if home != "" {
		return filepath.Join(home, ConfigFileName)
	}
	return ""
}

// LoadFile overlays the settings found in the TOML file at path onto cfg. A
// missing file is only an error when required is set.
func (cfg *Configuration) LoadFile(path string, required bool) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("could not read config '%s': %w", path, err)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return fmt.Errorf("invalid config '%s': %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("invalid config '%s': unknown key '%s'", path, undecoded[0].String())
	}
	if cfg.Prompt == "" {
		cfg.Prompt = DefaultPrompt
	}
	return nil
}
