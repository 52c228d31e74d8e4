package config

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Entry.Mode != EntryBox {
		t.Errorf("entry mode = %q, want %q", cfg.Entry.Mode, EntryBox)
	}
	if cfg.Entry.SeedBits != 128 {
		t.Errorf("seed bits = %d, want 128", cfg.Entry.SeedBits)
	}
	if cfg.Entry.Uppercase {
		t.Error("uppercase should default to false")
	}
	if cfg.Repair.MaxErrors != 2 {
		t.Errorf("max errors = %d, want 2", cfg.Repair.MaxErrors)
	}
	if cfg.Repair.StopOnFirst {
		t.Error("stop-on-first should default to false")
	}
	if cfg.Repair.Workers != runtime.NumCPU() {
		t.Errorf("workers = %d, want %d", cfg.Repair.Workers, runtime.NumCPU())
	}
	if cfg.Wallet.Network != "mainnet" {
		t.Errorf("network = %q, want mainnet", cfg.Wallet.Network)
	}
	if cfg.Wallet.Path != "m/84h/0h/0h" {
		t.Errorf("path = %q, want m/84h/0h/0h", cfg.Wallet.Path)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q, want info", cfg.Log.Level)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func writeConf(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "codex32.conf")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write conf: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConf(t, `# comment line
entry.mode = full
entry.bits = 256

repair.maxerrors = 3
repair.first = yes
wallet.network = "testnet"
log.level = debug
unknown.key = ignored
`)
	values, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if values["entry.mode"] != "full" {
		t.Errorf("entry.mode = %q", values["entry.mode"])
	}
	if values["wallet.network"] != "testnet" {
		t.Errorf("quotes not stripped: %q", values["wallet.network"])
	}

	cfg := Default()
	if err := ApplyFileConfig(cfg, values); err != nil {
		t.Fatalf("ApplyFileConfig() error: %v", err)
	}
	if cfg.Entry.Mode != EntryFull {
		t.Errorf("entry mode = %q, want full", cfg.Entry.Mode)
	}
	if cfg.Entry.SeedBits != 256 {
		t.Errorf("seed bits = %d, want 256", cfg.Entry.SeedBits)
	}
	if cfg.Repair.MaxErrors != 3 {
		t.Errorf("max errors = %d, want 3", cfg.Repair.MaxErrors)
	}
	if !cfg.Repair.StopOnFirst {
		t.Error("repair.first = yes should parse as true")
	}
	if cfg.Wallet.Network != "testnet" {
		t.Errorf("network = %q, want testnet", cfg.Wallet.Network)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	values, err := LoadFile(filepath.Join(t.TempDir(), "absent.conf"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("missing file should yield no values, got %d", len(values))
	}
}

func TestLoadFile_BadLine(t *testing.T) {
	path := writeConf(t, "this line has no equals sign\n")
	if _, err := LoadFile(path); err == nil {
		t.Error("malformed line should error")
	}
}

func TestApplyFileConfig_BadInt(t *testing.T) {
	cfg := Default()
	err := ApplyFileConfig(cfg, map[string]string{"entry.bits": "many"})
	if err == nil {
		t.Fatal("non-numeric entry.bits should error")
	}
	if !strings.Contains(err.Error(), "entry.bits") {
		t.Errorf("error should name the key: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad_mode", func(c *Config) { c.Entry.Mode = "grid" }},
		{"bad_bits", func(c *Config) { c.Entry.SeedBits = 192 }},
		{"zero_max_errors", func(c *Config) { c.Repair.MaxErrors = 0 }},
		{"excessive_max_errors", func(c *Config) { c.Repair.MaxErrors = 5 }},
		{"negative_workers", func(c *Config) { c.Repair.Workers = -1 }},
		{"bad_network", func(c *Config) { c.Wallet.Network = "signet" }},
		{"bad_path", func(c *Config) { c.Wallet.Path = "84h/0h" }},
		{"bad_level", func(c *Config) { c.Log.Level = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestValidate_NormalizesWorkers(t *testing.T) {
	cfg := Default()
	cfg.Repair.Workers = 0
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if cfg.Repair.Workers != runtime.NumCPU() {
		t.Errorf("workers = %d, want %d", cfg.Repair.Workers, runtime.NumCPU())
	}
}

// The written template's uncommented values must match the built-in
// defaults, so a fresh install behaves identically with or without the
// file.
func TestWriteDefaultConfig_MatchesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codex32.conf")
	if err := WriteDefaultConfig(path); err != nil {
		t.Fatalf("WriteDefaultConfig() error: %v", err)
	}
	values, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	cfg := Default()
	if err := ApplyFileConfig(cfg, values); err != nil {
		t.Fatalf("ApplyFileConfig() error: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("template diverges from defaults: %+v", cfg)
	}
}

func TestOverrides_Apply(t *testing.T) {
	cfg := Default()
	o := &Overrides{
		EntryMode:      "full",
		MaxErrors:      4,
		StopOnFirst:    true,
		SetStopOnFirst: true,
		Network:        "testnet",
		LogLevel:       "debug",
	}
	o.Apply(cfg)
	if cfg.Entry.Mode != EntryFull {
		t.Errorf("entry mode = %q", cfg.Entry.Mode)
	}
	if cfg.Repair.MaxErrors != 4 {
		t.Errorf("max errors = %d", cfg.Repair.MaxErrors)
	}
	if !cfg.Repair.StopOnFirst {
		t.Error("stop-on-first not applied")
	}
	if cfg.Wallet.Network != "testnet" {
		t.Errorf("network = %q", cfg.Wallet.Network)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
	// Untouched fields keep their defaults.
	if cfg.Entry.SeedBits != 128 || cfg.Wallet.Path != "m/84h/0h/0h" {
		t.Error("unset overrides should not change config")
	}
}

func TestOverrides_ApplyZero(t *testing.T) {
	cfg := Default()
	(&Overrides{}).Apply(cfg)
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("zero overrides changed config: %+v", cfg)
	}
}

func TestLoad_FileAndOverrides(t *testing.T) {
	path := writeConf(t, "repair.maxerrors = 3\nlog.level = warn\n")
	cfg, err := Load(path, &Overrides{LogLevel: "error"})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Repair.MaxErrors != 3 {
		t.Errorf("max errors = %d, want 3 from file", cfg.Repair.MaxErrors)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("log level = %q, want error from override", cfg.Log.Level)
	}
}

func TestLoad_InvalidFileValue(t *testing.T) {
	path := writeConf(t, "entry.bits = 200\n")
	if _, err := Load(path, nil); err == nil {
		t.Error("out-of-profile entry.bits should fail validation")
	}
}

func TestLoad_CreatesTemplate(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load("", &Overrides{DataDir: dir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DataDir != dir {
		t.Errorf("data dir = %q, want %q", cfg.DataDir, dir)
	}
	if _, err := os.Stat(filepath.Join(dir, "codex32.conf")); err != nil {
		t.Errorf("default config not created: %v", err)
	}
}
