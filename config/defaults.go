package config

import (
	"runtime"

	"github.com/FractalEncrypt/Seedsigner-Codex32/internal/wallet"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir: DefaultDataDir(),
		Entry: EntryConfig{
			Mode:      EntryBox,
			SeedBits:  128,
			Uppercase: false,
		},
		Repair: RepairConfig{
			MaxErrors:   2,
			StopOnFirst: false,
			Workers:     runtime.NumCPU(),
		},
		Wallet: WalletConfig{
			Network: "mainnet",
			Path:    wallet.DefaultPath,
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}
