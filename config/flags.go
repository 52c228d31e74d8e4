package config

import (
	"fmt"
)

// Overrides carries command-line values that take precedence over the
// defaults and the config file. String and int fields treat the zero
// value as "not set"; bool fields pair with an explicit Set marker
// because false is a meaningful choice.
type Overrides struct {
	// Core
	DataDir string

	// Entry
	EntryMode    string
	SeedBits     int
	Uppercase    bool
	SetUppercase bool

	// Repair
	MaxErrors      int
	StopOnFirst    bool
	SetStopOnFirst bool
	Workers        int

	// Wallet
	Network string
	Path    string

	// Logging
	LogLevel   string
	LogFile    string
	LogJSON    bool
	SetLogJSON bool
}

// Apply merges the overrides into cfg.
func (o *Overrides) Apply(cfg *Config) {
	// Core
	if o.DataDir != "" {
		cfg.DataDir = o.DataDir
	}

	// Entry
	if o.EntryMode != "" {
		cfg.Entry.Mode = EntryMode(o.EntryMode)
	}
	if o.SeedBits != 0 {
		cfg.Entry.SeedBits = o.SeedBits
	}
	if o.SetUppercase {
		cfg.Entry.Uppercase = o.Uppercase
	}

	// Repair
	if o.MaxErrors != 0 {
		cfg.Repair.MaxErrors = o.MaxErrors
	}
	if o.SetStopOnFirst {
		cfg.Repair.StopOnFirst = o.StopOnFirst
	}
	if o.Workers != 0 {
		cfg.Repair.Workers = o.Workers
	}

	// Wallet
	if o.Network != "" {
		cfg.Wallet.Network = o.Network
	}
	if o.Path != "" {
		cfg.Wallet.Path = o.Path
	}

	// Logging
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if o.LogFile != "" {
		cfg.Log.File = o.LogFile
	}
	if o.SetLogJSON {
		cfg.Log.JSON = o.LogJSON
	}
}

// Load assembles the runtime configuration with the following
// precedence:
//  1. Default values
//  2. Config file (auto-created with commented defaults when path is
//     empty and the default file does not exist yet)
//  3. Command-line overrides
func Load(path string, o *Overrides) (*Config, error) {
	cfg := Default()
	if o != nil && o.DataDir != "" {
		cfg.DataDir = o.DataDir
	}

	// Only the default location is auto-created; an explicit --config
	// path that does not exist is simply treated as empty.
	if path == "" {
		if err := EnsureDataDir(cfg); err != nil {
			return nil, fmt.Errorf("ensuring data dir: %w", err)
		}
		path = cfg.ConfigFile()
	}

	values, err := LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config file: %w", err)
	}
	if err := ApplyFileConfig(cfg, values); err != nil {
		return nil, fmt.Errorf("applying config file: %w", err)
	}

	if o != nil {
		o.Apply(cfg)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
