package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/finplan/regime-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// Settings holds user preferences for the CLI and the API server.
type Settings struct {
	General GeneralSettings `toml:"general"`
	Server  ServerSettings  `toml:"server"`
	Store   StoreSettings   `toml:"store"`
	Cache   CacheSettings   `toml:"cache"`
	Tips    TipSettings     `toml:"tips"`
}

// GeneralSettings holds defaults for report generation.
type GeneralSettings struct {
	RulesFile    string `toml:"rules_file,omitempty"`
	OutputFormat string `toml:"output_format"`
	OutputDir    string `toml:"output_dir,omitempty"`
}

// ServerSettings configures `regimecalc serve`.
type ServerSettings struct {
	Addr    string `toml:"addr"`
	Metrics bool   `toml:"metrics"`
}

// StoreSettings configures the plan snapshot database.
type StoreSettings struct {
	Path string `toml:"path,omitempty"`
}

// CacheSettings configures the comparison cache. An empty RedisAddr selects
// the in-process cache.
type CacheSettings struct {
	RedisAddr  string `toml:"redis_addr,omitempty"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// TipSettings overrides the tip materiality thresholds of the rules in use.
type TipSettings struct {
	MinSaving   *int64 `toml:"min_saving,omitempty"`
	MinHeadroom *int64 `toml:"min_headroom,omitempty"`
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	return Settings{
		General: GeneralSettings{OutputFormat: "console"},
		Server:  ServerSettings{Addr: ":8080", Metrics: true},
		Store:   StoreSettings{Path: filepath.Join(ConfigDir(), "plans.db")},
		Cache:   CacheSettings{TTLSeconds: 600},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "regimecalc")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "regimecalc")
}

// SettingsPath returns the full path to the settings file.
func SettingsPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LoadSettings reads the settings file, returning defaults if it doesn't exist.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("reading settings: %w", err)
	}

	if err := toml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parsing settings: %w", err)
	}
	return s, nil
}

// SaveSettings writes the settings to path, creating its directory.
func SaveSettings(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating settings file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(s)
}

// RedisAddr returns the Redis address from env var or settings, in that order.
func (s Settings) RedisAddr() string {
	if addr := os.Getenv("REGIMECALC_REDIS_ADDR"); addr != "" {
		return addr
	}
	return s.Cache.RedisAddr
}

// CacheTTL returns the cache entry lifetime.
func (s Settings) CacheTTL() time.Duration {
	if s.Cache.TTLSeconds <= 0 {
		return 0
	}
	return time.Duration(s.Cache.TTLSeconds) * time.Second
}

// ApplyTips returns policy with any configured overrides applied.
func (s Settings) ApplyTips(policy domain.TipPolicy) domain.TipPolicy {
	if s.Tips.MinSaving != nil {
		policy.MinSaving = decimal.NewFromInt(*s.Tips.MinSaving)
	}
	if s.Tips.MinHeadroom != nil {
		policy.MinHeadroom = decimal.NewFromInt(*s.Tips.MinHeadroom)
	}
	return policy
}
