package wallet

import (
	"fmt"

	"github.com/tyler-smith/go-bip39"
)

// MnemonicFromSeed converts a master seed to its BIP-39 mnemonic: 12
// words for a 16-byte seed, 24 words for a 32-byte one. The seed bytes
// are the mnemonic entropy, so the conversion is exact and reversible.
func MnemonicFromSeed(seed []byte) (string, error) {
	if !ValidSeedSize(len(seed)) {
		return "", fmt.Errorf("wallet: mnemonic entropy must be %d or %d bytes, got %d",
			SeedSize128, SeedSize256, len(seed))
	}
	mnemonic, err := bip39.NewMnemonic(seed)
	if err != nil {
		return "", fmt.Errorf("wallet: generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// EntropyFromMnemonic recovers the master seed bytes from a BIP-39
// mnemonic, the inverse of MnemonicFromSeed. Only 12- and 24-word
// mnemonics map onto the accepted seed sizes.
func EntropyFromMnemonic(mnemonic string) ([]byte, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("wallet: invalid mnemonic")
	}
	entropy, err := bip39.EntropyFromMnemonic(mnemonic)
	if err != nil {
		return nil, fmt.Errorf("wallet: extract entropy: %w", err)
	}
	if !ValidSeedSize(len(entropy)) {
		return nil, fmt.Errorf("wallet: mnemonic carries %d entropy bytes, want %d or %d",
			len(entropy), SeedSize128, SeedSize256)
	}
	return entropy, nil
}
