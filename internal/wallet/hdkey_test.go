package wallet

import (
	"bytes"
	"encoding/hex"
	"reflect"
	"strings"
	"testing"

	"github.com/tyler-smith/go-bip32"
)

// BIP-32 test vector 1: 16-byte seed, the codex32 128-bit profile.
const (
	bip32Vector1Seed = "000102030405060708090a0b0c0d0e0f"

	vector1MasterXpub  = "xpub661MyMwAqRbcFtXgS5sYJABqqG9YLmC4Q1Rdap9gSE8NqtwybGhePY2gZ29ESFjqJoCu1Rupje8YtGqsefD265TMg7usUDFdp6W1EGMcet8"
	vector1Chain0Xpub  = "xpub68Gmy5EdvgibQVfPdqkBBCHxA5htiqg55crXYuXoQRKfDBFA1WEjWgP6LHhwBZeNK1VTsfTFUHCdrfp1bgwQ9xv5ski8PX9rL2dZXvgGDnw"
	vector1Chain01Xpub = "xpub6ASuArnXKPbfEwhqN6e3mwBcDTgzisQN1wXN9BJcM47sSikHjJf3UFHKkNAWbWMiGj7Wf5uMash7SyYq527Hqck2AxYysAA7xmALppuCkwQ"
)

func vector1Master(t *testing.T) *HDKey {
	t.Helper()
	seed, err := hex.DecodeString(bip32Vector1Seed)
	if err != nil {
		t.Fatalf("decode seed: %v", err)
	}
	master, err := NewMasterKey(seed)
	if err != nil {
		t.Fatalf("NewMasterKey() error: %v", err)
	}
	return master
}

func TestNewMasterKey_Vector1(t *testing.T) {
	master := vector1Master(t)

	if !master.IsPrivate() {
		t.Error("master key should be private")
	}
	if master.Depth() != 0 {
		t.Errorf("depth = %d, want 0", master.Depth())
	}
	if got := len(master.PrivateKeyBytes()); got != 32 {
		t.Errorf("private key length = %d, want 32", got)
	}
	if got := len(master.PublicKeyBytes()); got != 33 {
		t.Errorf("public key length = %d, want 33", got)
	}
	if got := master.ExtendedPublicKey(NetworkMainnet); got != vector1MasterXpub {
		t.Errorf("xpub = %s, want %s", got, vector1MasterXpub)
	}
	if got := hex.EncodeToString(master.Fingerprint()); got != "3442193e" {
		t.Errorf("fingerprint = %s, want 3442193e", got)
	}
}

func TestNewMasterKey_InvalidSeedLength(t *testing.T) {
	tests := []struct {
		name string
		seed []byte
	}{
		{"empty", []byte{}},
		{"fifteen", make([]byte, 15)},
		{"seventeen", make([]byte, 17)},
		{"bip39_seed", make([]byte, 64)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewMasterKey(tt.seed); err == nil {
				t.Error("expected error for invalid seed length")
			}
		})
	}
}

func TestHDKey_DerivationVector1(t *testing.T) {
	master := vector1Master(t)

	indices, err := ParsePath("m/0h")
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	child, err := master.DerivePath(indices...)
	if err != nil {
		t.Fatalf("DerivePath: %v", err)
	}
	if got := child.ExtendedPublicKey(NetworkMainnet); got != vector1Chain0Xpub {
		t.Errorf("m/0h xpub = %s, want %s", got, vector1Chain0Xpub)
	}
	if got := hex.EncodeToString(child.Fingerprint()); got != "5c1bd648" {
		t.Errorf("m/0h fingerprint = %s, want 5c1bd648", got)
	}

	indices, err = ParsePath("m/0'/1")
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	grand, err := master.DerivePath(indices...)
	if err != nil {
		t.Fatalf("DerivePath: %v", err)
	}
	if got := grand.ExtendedPublicKey(NetworkMainnet); got != vector1Chain01Xpub {
		t.Errorf("m/0h/1 xpub = %s, want %s", got, vector1Chain01Xpub)
	}
	if grand.Depth() != 2 {
		t.Errorf("depth = %d, want 2", grand.Depth())
	}
}

func TestHDKey_TestnetVersion(t *testing.T) {
	master := vector1Master(t)
	if got := master.ExtendedPublicKey(NetworkTestnet); !strings.HasPrefix(got, "tpub") {
		t.Errorf("testnet key = %s, want tpub prefix", got)
	}
	// The network choice must not stick to the underlying key.
	if got := master.ExtendedPublicKey(NetworkMainnet); got != vector1MasterXpub {
		t.Errorf("mainnet xpub after testnet call = %s, want %s", got, vector1MasterXpub)
	}
}

func TestHDKey_Neuter(t *testing.T) {
	master := vector1Master(t)
	pub := master.Neuter()

	if pub.IsPrivate() {
		t.Error("neutered key should not be private")
	}
	if pub.PrivateKeyBytes() != nil {
		t.Error("neutered key leaked private bytes")
	}
	if got, want := pub.ExtendedPublicKey(NetworkMainnet), master.ExtendedPublicKey(NetworkMainnet); got != want {
		t.Errorf("neutered xpub = %s, want %s", got, want)
	}
	if !bytes.Equal(pub.Fingerprint(), master.Fingerprint()) {
		t.Error("neutered fingerprint differs from master's")
	}
}

func TestNewMasterKey_32ByteSeed(t *testing.T) {
	seed := bytes.Repeat([]byte{0x5a}, SeedSize256)
	m1, err := NewMasterKey(seed)
	if err != nil {
		t.Fatalf("NewMasterKey() error: %v", err)
	}
	m2, err := NewMasterKey(seed)
	if err != nil {
		t.Fatalf("NewMasterKey() error: %v", err)
	}
	if m1.ExtendedPublicKey(NetworkMainnet) != m2.ExtendedPublicKey(NetworkMainnet) {
		t.Error("same seed produced different keys")
	}
	if got := m1.ExtendedPublicKey(NetworkMainnet); !strings.HasPrefix(got, "xpub") {
		t.Errorf("xpub = %s, want xpub prefix", got)
	}
}

func TestParsePath(t *testing.T) {
	h := bip32.FirstHardenedChild
	tests := []struct {
		path string
		want []uint32
	}{
		{"m", nil},
		{"M/0", []uint32{0}},
		{"m/84h/0h/0h", []uint32{h + 84, h, h}},
		{"m/84'/0'/0'", []uint32{h + 84, h, h}},
		{"m/0h/1", []uint32{h, 1}},
	}
	for _, tt := range tests {
		got, err := ParsePath(tt.path)
		if err != nil {
			t.Errorf("ParsePath(%q) error: %v", tt.path, err)
			continue
		}
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParsePath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestParsePath_Invalid(t *testing.T) {
	for _, path := range []string{"", "84h/0h", "m/x", "m/", "m/2147483648", "m/0q"} {
		if _, err := ParsePath(path); err == nil {
			t.Errorf("ParsePath(%q) should fail", path)
		}
	}
}

func TestParseNetwork(t *testing.T) {
	tests := []struct {
		in   string
		want Network
	}{
		{"mainnet", NetworkMainnet},
		{"main", NetworkMainnet},
		{"", NetworkMainnet},
		{"testnet", NetworkTestnet},
		{"Test", NetworkTestnet},
	}
	for _, tt := range tests {
		got, err := ParseNetwork(tt.in)
		if err != nil {
			t.Errorf("ParseNetwork(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseNetwork(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseNetwork("regtest"); err == nil {
		t.Error("ParseNetwork(regtest) should fail")
	}
	if got := NetworkTestnet.String(); got != "testnet" {
		t.Errorf("String() = %q", got)
	}
}
