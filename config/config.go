// Package config handles tool configuration.
//
// Settings are assembled in three layers: built-in defaults, then the
// codex32.conf file, then command-line flags. Later layers win.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// EntryMode selects how interactive share entry is presented.
type EntryMode string

const (
	EntryBox  EntryMode = "box"  // one character per prompt
	EntryFull EntryMode = "full" // whole share on one line
)

// Config holds the runtime settings of the codex32 tool.
type Config struct {
	// Core
	DataDir string `conf:"datadir"`

	// Interactive share entry
	Entry EntryConfig

	// Error correction search
	Repair RepairConfig

	// Wallet derivation
	Wallet WalletConfig

	// Logging
	Log LogConfig
}

// EntryConfig holds interactive entry settings.
type EntryConfig struct {
	Mode      EntryMode `conf:"entry.mode"`      // box or full
	SeedBits  int       `conf:"entry.bits"`      // 128 or 256
	Uppercase bool      `conf:"entry.uppercase"` // print shares in uppercase
}

// RepairConfig holds correction search settings.
type RepairConfig struct {
	MaxErrors   int  `conf:"repair.maxerrors"` // substitution search depth
	StopOnFirst bool `conf:"repair.first"`     // stop at the first candidate
	Workers     int  `conf:"repair.workers"`   // search goroutines (0 = one per CPU)
}

// WalletConfig holds seed derivation settings.
type WalletConfig struct {
	Network string `conf:"wallet.network"` // mainnet or testnet
	Path    string `conf:"wallet.path"`    // BIP-32 derivation path
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.codex32
//	macOS:   ~/Library/Application Support/Codex32
//	Windows: %APPDATA%\Codex32
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".codex32"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Codex32")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "Codex32")
		}
		return filepath.Join(home, "AppData", "Roaming", "Codex32")
	default:
		return filepath.Join(home, ".codex32")
	}
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "codex32.conf")
}

// EnsureDataDir creates the data directory and a commented default
// config file if they don't already exist. Idempotent, safe to call on
// every startup.
func EnsureDataDir(cfg *Config) error {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return err
	}
	path := cfg.ConfigFile()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return WriteDefaultConfig(path)
	}
	return nil
}
