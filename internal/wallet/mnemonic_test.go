package wallet

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/tyler-smith/go-bip39"
)

// BIP-39 English test vectors at the two codex32 seed sizes.
func TestMnemonicFromSeed_KnownVectors(t *testing.T) {
	tests := []struct {
		name    string
		entropy string
		want    string
	}{
		{
			"zeros_128",
			"00000000000000000000000000000000",
			"abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about",
		},
		{
			"pattern_128",
			"7f7f7f7f7f7f7f7f7f7f7f7f7f7f7f7f",
			"legal winner thank year wave sausage worth useful legal winner thank yellow",
		},
		{
			"high_bit_128",
			"80808080808080808080808080808080",
			"letter advice cage absurd amount doctor acoustic avoid letter advice cage above",
		},
		{
			"zeros_256",
			"0000000000000000000000000000000000000000000000000000000000000000",
			"abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon art",
		},
		{
			"ones_256",
			"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
			"zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo vote",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seed, err := hex.DecodeString(tt.entropy)
			if err != nil {
				t.Fatalf("decode entropy: %v", err)
			}
			got, err := MnemonicFromSeed(seed)
			if err != nil {
				t.Fatalf("MnemonicFromSeed() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("mnemonic = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMnemonicFromSeed_WordCount(t *testing.T) {
	m12, err := MnemonicFromSeed(make([]byte, SeedSize128))
	if err != nil {
		t.Fatalf("MnemonicFromSeed(16) error: %v", err)
	}
	if got := len(strings.Fields(m12)); got != 12 {
		t.Errorf("16-byte seed yields %d words, want 12", got)
	}
	m24, err := MnemonicFromSeed(make([]byte, SeedSize256))
	if err != nil {
		t.Fatalf("MnemonicFromSeed(32) error: %v", err)
	}
	if got := len(strings.Fields(m24)); got != 24 {
		t.Errorf("32-byte seed yields %d words, want 24", got)
	}
}

func TestMnemonicFromSeed_InvalidLength(t *testing.T) {
	for _, n := range []int{0, 15, 20, 64} {
		if _, err := MnemonicFromSeed(make([]byte, n)); err == nil {
			t.Errorf("MnemonicFromSeed(%d bytes) should fail", n)
		}
	}
}

func TestEntropyFromMnemonic_RoundTrip(t *testing.T) {
	for _, seed := range [][]byte{
		bytes.Repeat([]byte{0x42}, SeedSize128),
		bytes.Repeat([]byte{0xA7}, SeedSize256),
	} {
		mnemonic, err := MnemonicFromSeed(seed)
		if err != nil {
			t.Fatalf("MnemonicFromSeed() error: %v", err)
		}
		back, err := EntropyFromMnemonic(mnemonic)
		if err != nil {
			t.Fatalf("EntropyFromMnemonic() error: %v", err)
		}
		if !bytes.Equal(back, seed) {
			t.Errorf("round trip = %x, want %x", back, seed)
		}
	}
}

func TestEntropyFromMnemonic_Invalid(t *testing.T) {
	// Wrong words, and right words with a wrong checksum word.
	bad := []string{
		"",
		"not a mnemonic at all",
		"abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon",
	}
	for _, m := range bad {
		if _, err := EntropyFromMnemonic(m); err == nil {
			t.Errorf("EntropyFromMnemonic(%q) should fail", m)
		}
	}
}

func TestEntropyFromMnemonic_UnsupportedSize(t *testing.T) {
	// A valid 15-word mnemonic carries 20 entropy bytes, outside the
	// codex32 seed profile.
	m15, err := bip39.NewMnemonic(make([]byte, 20))
	if err != nil {
		t.Fatalf("NewMnemonic: %v", err)
	}
	if _, err := EntropyFromMnemonic(m15); err == nil {
		t.Error("20-byte entropy should be rejected")
	}
}
