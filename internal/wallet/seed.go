// Package wallet bridges codex32 secrets to the BIP-39 and BIP-32
// collaborators: master seed extraction, mnemonic conversion, HD key
// derivation and the master fingerprint. It never interprets key
// material beyond length checks; the codec core hands bytes across
// this boundary and displays what comes back.
package wallet

import (
	"fmt"

	"github.com/FractalEncrypt/Seedsigner-Codex32/pkg/codex32"
)

// Master seed sizes accepted by the wallet boundary, in bytes.
const (
	SeedSize128 = 16
	SeedSize256 = 32
)

// ValidSeedSize reports whether n bytes form an accepted master seed.
func ValidSeedSize(n int) bool {
	return n == SeedSize128 || n == SeedSize256
}

// SeedFromShare extracts the master seed bytes from a secret share.
// The share must carry the secret index and a 16- or 32-byte payload;
// either violation is reported before any collaborator is invoked.
func SeedFromShare(share *codex32.Share) ([]byte, error) {
	if !share.IsSecret() {
		return nil, fmt.Errorf("wallet: share %q is not the master secret (index %q)",
			share.Index(), codex32.SecretIndex)
	}
	seed := share.Seed()
	if !ValidSeedSize(len(seed)) {
		return nil, fmt.Errorf("wallet: master seed must be %d or %d bytes, got %d",
			SeedSize128, SeedSize256, len(seed))
	}
	return seed, nil
}
