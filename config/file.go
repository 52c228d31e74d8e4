package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadFile loads configuration from a .conf file.
// Format: key = value (one per line, # for comments)
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse key = value
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		values[key] = value
	}

	return values, scanner.Err()
}

// ApplyFileConfig applies file configuration to a Config struct.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

// setConfigValue sets a config value by key.
func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	// Core
	case "datadir":
		cfg.DataDir = value

	// Entry
	case "entry.mode":
		cfg.Entry.Mode = EntryMode(strings.ToLower(value))
	case "entry.bits":
		bits, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Entry.SeedBits = bits
	case "entry.uppercase":
		cfg.Entry.Uppercase = parseBool(value)

	// Repair
	case "repair.maxerrors":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Repair.MaxErrors = n
	case "repair.first":
		cfg.Repair.StopOnFirst = parseBool(value)
	case "repair.workers":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Repair.Workers = n

	// Wallet
	case "wallet.network":
		cfg.Wallet.Network = value
	case "wallet.path":
		cfg.Wallet.Path = value

	// Logging
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)

	default:
		// Unknown keys are ignored
	}
	return nil
}

// parseBool parses a boolean value.
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// WriteDefaultConfig writes a commented default configuration file.
func WriteDefaultConfig(path string) error {
	content := `# codex32 tool configuration
#
# Values here override the built-in defaults; command-line flags
# override both.

# Data directory (default: ~/.codex32)
# datadir = ~/.codex32

# ============================================================================
# Share Entry
# ============================================================================

# Entry mode: box (one character per prompt) or full (one line)
entry.mode = box

# Seed size in bits: 128 (48-character shares) or 256 (74-character)
entry.bits = 128

# Print generated shares in uppercase
entry.uppercase = false

# ============================================================================
# Error Correction
# ============================================================================

# Substitution search depth, 1-4. Each extra error multiplies the work
# by roughly the string length times 31.
repair.maxerrors = 2

# Stop at the first valid candidate instead of listing every one
repair.first = false

# Worker goroutines for the search (0 = one per CPU)
# repair.workers = 0

# ============================================================================
# Wallet
# ============================================================================

# Network for extended public keys: mainnet or testnet
wallet.network = mainnet

# BIP-32 derivation path for the wallet command
wallet.path = m/84h/0h/0h

# ============================================================================
# Logging
# ============================================================================

log.level = info
# log.file =
log.json = false
`
	return os.WriteFile(path, []byte(content), 0644)
}
