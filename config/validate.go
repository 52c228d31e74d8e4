package config

import (
	"fmt"
	"runtime"

	"github.com/FractalEncrypt/Seedsigner-Codex32/internal/wallet"
	"github.com/FractalEncrypt/Seedsigner-Codex32/pkg/repair"
)

// Validate checks the assembled config for operator mistakes. It also
// normalizes auto values (repair.workers = 0 becomes one per CPU).
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	switch cfg.Entry.Mode {
	case EntryBox, EntryFull:
	default:
		return fmt.Errorf("entry.mode must be %q or %q", EntryBox, EntryFull)
	}
	if cfg.Entry.SeedBits != 128 && cfg.Entry.SeedBits != 256 {
		return fmt.Errorf("entry.bits must be 128 or 256")
	}

	if cfg.Repair.MaxErrors < 1 || cfg.Repair.MaxErrors > repair.MaxSearchErrors {
		return fmt.Errorf("repair.maxerrors must be in range [1, %d]", repair.MaxSearchErrors)
	}
	if cfg.Repair.Workers < 0 {
		return fmt.Errorf("repair.workers must not be negative")
	}
	if cfg.Repair.Workers == 0 {
		cfg.Repair.Workers = runtime.NumCPU()
	}

	if _, err := wallet.ParseNetwork(cfg.Wallet.Network); err != nil {
		return fmt.Errorf("wallet.network: %w", err)
	}
	if _, err := wallet.ParsePath(cfg.Wallet.Path); err != nil {
		return fmt.Errorf("wallet.path: %w", err)
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn, or error")
	}

	return nil
}
