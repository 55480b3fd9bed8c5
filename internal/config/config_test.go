package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got, want := Path(), "/custom/config/bibnote/config.yml"; got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	if got, want := Path(), filepath.Join(home, ".config", "bibnote", "config.yml"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestLoadFile_NotFound(t *testing.T) {
	t.Setenv(EnvVault, "")
	t.Setenv(EnvLogLevel, "")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.VaultPath != "" {
		t.Errorf("VaultPath = %q, want empty", cfg.VaultPath)
	}
	if cfg.Workers != DefaultWorkers {
		t.Errorf("Workers = %d, want %d", cfg.Workers, DefaultWorkers)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	t.Setenv(EnvVault, "")
	t.Setenv(EnvLogLevel, "")
	path := filepath.Join(t.TempDir(), "nested", ConfigFile)

	cfg := &Config{
		VaultPath:      "/vault",
		AuthorsHeading: "People",
		Workers:        8,
		LogLevel:       "debug",
	}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("LoadFile() = %+v, want %+v", *loaded, *cfg)
	}
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	if err := os.WriteFile(path, []byte("vault_path: /from/file\nlog_level: info\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	t.Setenv(EnvVault, "/from/env")
	t.Setenv(EnvLogLevel, "ERROR")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.VaultPath != "/from/env" {
		t.Errorf("VaultPath = %q, want /from/env", cfg.VaultPath)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want error", cfg.LogLevel)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	t.Setenv(EnvVault, "")
	t.Setenv(EnvLogLevel, "")

	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "vault_path: [unclosed"},
		{"bad log level", "log_level: loud\n"},
		{"too many workers", "workers: 1000\n"},
		{"negative workers", "workers: -1\n"},
		{"multiline heading", "authors_heading: \"a\\nb\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ConfigFile)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}
			if _, err := LoadFile(path); err == nil {
				t.Errorf("LoadFile() should fail for %q", tt.content)
			}
		})
	}
}

func TestLoad_Caches(t *testing.T) {
	ResetCache()
	defer ResetCache()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvVault, "")
	t.Setenv(EnvLogLevel, "")

	first, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	second, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if first != second {
		t.Error("Load() should return the cached config")
	}
}

func TestGetSet(t *testing.T) {
	vault := t.TempDir()
	cfg := Default()

	if err := cfg.Set("vault_path", vault); err != nil {
		t.Fatalf("Set(vault_path) error = %v", err)
	}
	if err := cfg.Set("Authors-Heading", "Writers"); err != nil {
		t.Fatalf("Set(Authors-Heading) error = %v", err)
	}
	if err := cfg.Set("workers", "12"); err != nil {
		t.Fatalf("Set(workers) error = %v", err)
	}
	if err := cfg.Set("log-level", "INFO"); err != nil {
		t.Fatalf("Set(log-level) error = %v", err)
	}

	want := map[string]string{
		KeyVaultPath:      vault,
		KeyAuthorsHeading: "Writers",
		KeyWorkers:        "12",
		KeyLogLevel:       "info",
	}
	for key, w := range want {
		got, err := cfg.Get(key)
		if err != nil {
			t.Fatalf("Get(%q) error = %v", key, err)
		}
		if got != w {
			t.Errorf("Get(%q) = %q, want %q", key, got, w)
		}
	}
}

func TestSet_RejectsAndLeavesUnchanged(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	tests := []struct {
		key   string
		value string
	}{
		{KeyWorkers, "many"},
		{KeyWorkers, "0"},
		{KeyLogLevel, "chatty"},
		{KeyVaultPath, file},
		{KeyAuthorsHeading, "two\nlines"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := Default()
			before := *cfg
			if err := cfg.Set(tt.key, tt.value); err == nil {
				t.Errorf("Set(%q, %q) should fail", tt.key, tt.value)
			}
			if *cfg != before {
				t.Errorf("config changed after failed Set: %+v", *cfg)
			}
		})
	}
}

func TestUnknownKey(t *testing.T) {
	cfg := Default()
	if _, err := cfg.Get("pdf-root"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Get() error = %v, want ErrUnknownKey", err)
	}
	if err := cfg.Set("pdf-root", "x"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Set() error = %v, want ErrUnknownKey", err)
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelWarn},
	}
	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.level}
		if got := cfg.Level(); got != tt.want {
			t.Errorf("Level(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestWorkerCount(t *testing.T) {
	if got := (&Config{}).WorkerCount(); got != DefaultWorkers {
		t.Errorf("WorkerCount() = %d, want %d", got, DefaultWorkers)
	}
	if got := (&Config{Workers: 3}).WorkerCount(); got != 3 {
		t.Errorf("WorkerCount() = %d, want 3", got)
	}
}

func TestValidateVaultPath(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "file.txt")
	if err := os.WriteFile(tmpFile, []byte("test"), 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"empty path", "", false},
		{"valid directory", tmpDir, false},
		{"not yet created", filepath.Join(tmpDir, "new"), false},
		{"file not directory", tmpFile, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVaultPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateVaultPath(%q) error = %v, wantErr = %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/abs/path", "/abs/path"},
		{"~", home},
		{"~/notes", filepath.Join(home, "notes")},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReadFile_IgnoresEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	if err := os.WriteFile(path, []byte("vault_path: /from/file\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv(EnvVault, "/from/env")

	cfg, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if cfg.VaultPath != "/from/file" {
		t.Errorf("VaultPath = %q, want /from/file", cfg.VaultPath)
	}
}
