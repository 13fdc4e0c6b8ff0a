package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Startup modes.
const (
	StartupMenu = "menu"
	StartupHelp = "help"
)

// Config is the in-memory representation of <home>/config.json.
type Config struct {
	DefaultDirectory string   `json:"default_directory" yaml:"default_directory"`
	RecentIndex      *string  `json:"recent_index" yaml:"recent_index"`
	StartupMode      string   `json:"startup_mode" yaml:"startup_mode"`
	Excludes         []string `json:"excludes,omitempty" yaml:"excludes,omitempty"`
}

// HomeDir returns the zearch home: $ZEARCH_HOME, or ~/.zearch.
func HomeDir() (string, error) {
	if h := strings.TrimSpace(os.Getenv("ZEARCH_HOME")); h != "" {
		return ExpandPath(h)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".zearch"), nil
}

// ConfigPath returns <home>/config.json.
func ConfigPath(home string) string {
	return filepath.Join(home, "config.json")
}

// IndexDir returns <home>/indexes, where named indexes live.
func IndexDir(home string) string {
	return filepath.Join(home, "indexes")
}

// DataDir returns <home>/data, where the drive index lives.
func DataDir(home string) string {
	return filepath.Join(home, "data")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// Default returns the built-in settings.
func Default() *Config {
	dir, err := os.UserHomeDir()
	if err != nil {
		dir = "."
	}
	return &Config{
		DefaultDirectory: dir,
		StartupMode:      StartupMenu,
	}
}

// Load reads path. A missing file yields the defaults with a nil error; an
// unreadable or corrupt file yields the defaults together with an error
// describing the problem, which callers report as a warning.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("cannot read config %s: %w", path, err)
	}
	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return Default(), fmt.Errorf("invalid JSON in %s: %w", path, err)
	}
	if cfg.DefaultDirectory == "" {
		cfg.DefaultDirectory = Default().DefaultDirectory
	}
	cfg.DefaultDirectory, err = ExpandPath(cfg.DefaultDirectory)
	if err != nil {
		return Default(), err
	}
	if cfg.StartupMode == "" {
		cfg.StartupMode = StartupMenu
	}
	return cfg, nil
}

// Save marshals cfg and writes it to path, replacing the file atomically.
func Save(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	data = append(data, '\n')
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", filepath.Dir(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	return nil
}

// ValidStartupMode reports whether m is a recognized startup mode.
func ValidStartupMode(m string) bool {
	return m == StartupMenu || m == StartupHelp
}
