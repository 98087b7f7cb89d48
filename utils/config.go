package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	appDirName       = "manga_tracker"
	DefaultBaseURL   = "http://localhost:5000"
	DefaultAPIPrefix = "/api/v1"
	DefaultTimeout   = 15 * time.Second
)

// Backend connection settings
type ServerConfig struct {
	BaseURL   string   `toml:"base_url"`
	APIPrefix string   `toml:"api_prefix"`
	Timeout   Duration `toml:"timeout"`
}

// UI settings
type UIConfig struct {
	Language string `toml:"language"`
}

// Session file settings
type SessionConfig struct {
	Path string `toml:"path"`
}

// Root config
type Config struct {
	Server  ServerConfig  `toml:"server"`
	UI      UIConfig      `toml:"ui"`
	Session SessionConfig `toml:"session"`
}

// Duration reads "15s"-style strings from TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Global variable to hold config
var AppConfig = DefaultConfig()

var configPath string

func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			BaseURL:   DefaultBaseURL,
			APIPrefix: DefaultAPIPrefix,
			Timeout:   Duration{DefaultTimeout},
		},
		UI: UIConfig{Language: "en"},
	}
}

// ConfigDir returns ~/.config/manga_tracker
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appDirName), nil
}

// expandPath replaces leading "~" with user home dir
func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// LoadConfig reads config.toml into AppConfig. A missing file keeps the defaults.
func LoadConfig(path string) error {
	configPath = path
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("failed to read config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if env := strings.TrimSpace(os.Getenv("MANGA_TRACKER_URL")); env != "" {
		cfg.Server.BaseURL = env
	}
	cfg.Server.BaseURL = strings.TrimRight(cfg.Server.BaseURL, "/")
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = DefaultBaseURL
	}
	if cfg.Server.APIPrefix == "" {
		cfg.Server.APIPrefix = DefaultAPIPrefix
	}
	if cfg.Server.Timeout.Duration <= 0 {
		cfg.Server.Timeout = Duration{DefaultTimeout}
	}
	cfg.Session.Path = expandPath(cfg.Session.Path)

	AppConfig = cfg
	return nil
}

// SaveConfig writes AppConfig back to the file it was loaded from.
func SaveConfig() error {
	path := configPath
	if path == "" {
		dir, err := ConfigDir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := toml.Marshal(AppConfig)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultConfigPath is ~/.config/manga_tracker/config.toml
func DefaultConfigPath() string {
	dir, err := ConfigDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(dir, "config.toml")
}
