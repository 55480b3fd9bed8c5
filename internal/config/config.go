// Package config handles bibnote configuration stored in
// ~/.config/bibnote/config.yml.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Config represents the user's configuration.
type Config struct {
	VaultPath      string `yaml:"vault_path,omitempty"`      // Directory notes are written to
	AuthorsHeading string `yaml:"authors_heading,omitempty"` // Label of the author-links section
	Workers        int    `yaml:"workers,omitempty"`         // Batch parse/render concurrency
	LogLevel       string `yaml:"log_level,omitempty"`       // debug, info, warn, error
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "bibnote"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"

	// EnvVault overrides vault_path.
	EnvVault = "BIBNOTE_VAULT"
	// EnvLogLevel overrides log_level.
	EnvLogLevel = "BIBNOTE_LOG_LEVEL"

	DefaultWorkers  = 4
	MaxWorkers      = 64
	DefaultLogLevel = "warn"
)

// Configuration keys as accepted by Get and Set.
const (
	KeyVaultPath      = "vault-path"
	KeyAuthorsHeading = "authors-heading"
	KeyWorkers        = "workers"
	KeyLogLevel       = "log-level"
)

// Keys lists the configuration keys in display order.
var Keys = []string{KeyVaultPath, KeyAuthorsHeading, KeyWorkers, KeyLogLevel}

// ValidLogLevels lists the supported log_level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// ErrUnknownKey is returned by Get and Set for unsupported keys.
var ErrUnknownKey = errors.New("unknown configuration key")

// configCache caches the loaded config.
var configCache *Config

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Workers:  DefaultWorkers,
		LogLevel: DefaultLogLevel,
	}
}

// Path returns the path to the config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/bibnote/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load loads the configuration file once and caches it.
func Load() (*Config, error) {
	if configCache != nil {
		return configCache, nil
	}
	cfg, err := LoadFile(Path())
	if err != nil {
		return nil, err
	}
	configCache = cfg
	return cfg, nil
}

// ResetCache clears the cached config.
// Useful for testing.
func ResetCache() {
	configCache = nil
}

// LoadFile reads a config file, applies environment overrides and
// validates the result. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.VaultPath = ExpandPath(cfg.VaultPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// ReadFile reads a config file as stored, without environment overrides.
// Use it when the config is going to be saved back.
func ReadFile(path string) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func readFile(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvVault); v != "" {
		c.VaultPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if path == "" {
		return fmt.Errorf("no config path")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks value ranges. Empty values are accepted and fall back
// to defaults.
func (c *Config) Validate() error {
	levels := make([]interface{}, len(ValidLogLevels))
	for i, l := range ValidLogLevels {
		levels[i] = l
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Workers, validation.Min(1), validation.Max(MaxWorkers)),
		validation.Field(&c.LogLevel, validation.In(levels...)),
		validation.Field(&c.AuthorsHeading, validation.By(singleLine)),
	)
}

func singleLine(value interface{}) error {
	s, _ := value.(string)
	if strings.ContainsAny(s, "\r\n") {
		return errors.New("must be a single line")
	}
	return nil
}

// WorkerCount returns Workers, or the default when unset.
func (c *Config) WorkerCount() int {
	if c.Workers <= 0 {
		return DefaultWorkers
	}
	return c.Workers
}

// Level returns the slog level for LogLevel.
func (c *Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// NormalizeKey converts key formats (vault-path, vault_path, VAULT_PATH) to
// the canonical dashed form.
func NormalizeKey(key string) string {
	key = strings.ToLower(key)
	return strings.ReplaceAll(key, "_", "-")
}

// Get returns the value of a configuration key.
func (c *Config) Get(key string) (string, error) {
	switch NormalizeKey(key) {
	case KeyVaultPath:
		return c.VaultPath, nil
	case KeyAuthorsHeading:
		return c.AuthorsHeading, nil
	case KeyWorkers:
		return strconv.Itoa(c.Workers), nil
	case KeyLogLevel:
		return c.LogLevel, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// Set assigns a configuration key and validates the result. On error the
// config is left unchanged.
func (c *Config) Set(key, value string) error {
	next := *c
	switch NormalizeKey(key) {
	case KeyVaultPath:
		expanded := ExpandPath(value)
		if err := ValidateVaultPath(expanded); err != nil {
			return err
		}
		next.VaultPath = expanded
	case KeyAuthorsHeading:
		next.AuthorsHeading = value
	case KeyWorkers:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("workers must be a positive number: %s", value)
		}
		next.Workers = n
	case KeyLogLevel:
		next.LogLevel = strings.ToLower(value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// ValidateVaultPath checks that path, if it exists, is a directory. A
// missing directory is allowed; it is created on first write.
func ValidateVaultPath(path string) error {
	if path == "" {
		return nil // Empty is allowed (not yet configured)
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking vault path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("vault path is not a directory: %s", path)
	}
	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
