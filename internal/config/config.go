package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/gookit/validate"

	"github.com/julianstephens/habitlit/internal/constants"
)

// EnvPrefix prefixes every environment override, e.g. HABITLIT_STORAGE_KIND.
const EnvPrefix = "HABITLIT_"

// Config holds all habitlit configuration.
type Config struct {
	Storage    StorageConfig    `toml:"storage" envPrefix:"STORAGE_"`
	Appearance AppearanceConfig `toml:"appearance" envPrefix:"APPEARANCE_"`
	Stats      StatsConfig      `toml:"stats" envPrefix:"STATS_"`
	Auth       AuthConfig       `toml:"auth" envPrefix:"AUTH_"`
	Reminders  RemindersConfig  `toml:"reminders" envPrefix:"REMINDERS_"`
	Debug      bool             `toml:"debug" env:"DEBUG"`
}

// StorageConfig selects the habit store.
type StorageConfig struct {
	Kind string `toml:"kind" env:"KIND" validate:"required|in:sqlite,json,postgres"`
	Path string `toml:"path,omitempty" env:"PATH"`
	// DSN may omit credentials; the full string is then read from the keyring.
	DSN string `toml:"dsn,omitempty" env:"DSN"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme" env:"THEME" validate:"required|in:light,dark"`
}

// StatsConfig holds statistics windows.
type StatsConfig struct {
	ConsistencyWindow int `toml:"consistency_window" env:"CONSISTENCY_WINDOW" validate:"required|min:1"`
}

// AuthConfig holds remote session settings.
type AuthConfig struct {
	SessionTTL time.Duration `toml:"session_ttl" env:"SESSION_TTL"`
	Issuer     string        `toml:"issuer" env:"ISSUER"`
	// JWTSecret is never written to disk.
	JWTSecret string `toml:"-" env:"JWT_SECRET"`
}

// RemindersConfig holds tray reminder settings.
type RemindersConfig struct {
	Enabled bool `toml:"enabled" env:"ENABLED"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Kind: constants.DefaultStorageKind,
		},
		Appearance: AppearanceConfig{
			Theme: constants.DefaultTheme,
		},
		Stats: StatsConfig{
			ConsistencyWindow: constants.DefaultConsistencyWindow,
		},
		Auth: AuthConfig{
			SessionTTL: constants.DefaultSessionTTL,
			Issuer:     constants.DefaultJWTIssuer,
		},
		Reminders: RemindersConfig{
			Enabled: true,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, constants.AppName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", constants.AppName)
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), constants.ConfigFileName)
}

// Load reads the config file at ConfigPath and applies environment overrides.
func Load() (Config, error) {
	return LoadFrom(ConfigPath(), os.Environ())
}

// LoadFrom reads the config file at path, returning defaults if it doesn't exist, then
// applies overrides from environ (KEY=VALUE pairs).
func LoadFrom(path string, environ []string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{
		Prefix:      EnvPrefix,
		Environment: envMap(environ),
	}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	c.Storage.Kind = strings.ToLower(strings.TrimSpace(c.Storage.Kind))
	c.Appearance.Theme = strings.ToLower(strings.TrimSpace(c.Appearance.Theme))

	for _, target := range []any{&c.Storage, &c.Appearance, &c.Stats} {
		v := validate.Struct(target)
		if !v.Validate() {
			return fmt.Errorf("invalid config: %s", v.Errors.One())
		}
	}
	if c.Storage.Kind == "postgres" && c.Storage.DSN == "" {
		return fmt.Errorf("invalid config: storage.dsn is required for postgres")
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("invalid config: auth.session_ttl must be positive")
	}
	return nil
}

// StoragePath returns the configured local store path or the default for the kind.
func (c Config) StoragePath() string {
	if c.Storage.Path != "" {
		return expandHome(c.Storage.Path)
	}
	if c.Storage.Kind == "json" {
		return filepath.Join(ConfigDir(), constants.AppName+".json")
	}
	return filepath.Join(ConfigDir(), constants.AppName+".db")
}

// Save writes the config to path.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Exists returns true if a config file exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func envMap(environ []string) map[string]string {
	m := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			m[k] = v
		}
	}
	return m
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
