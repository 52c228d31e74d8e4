package wallet

import (
	"crypto/sha256"
	"fmt"
	"strconv"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/tyler-smith/go-bip32"
	"golang.org/x/crypto/ripemd160"
)

// DefaultPath is the derivation path shown for a recovered wallet,
// the BIP-84 native-segwit account root.
const DefaultPath = "m/84h/0h/0h"

// Network selects the extended-key version bytes.
type Network uint8

const (
	NetworkMainnet Network = iota
	NetworkTestnet
)

// BIP-32 serialization version bytes (xpub/tpub).
var (
	mainnetPublicVersion = []byte{0x04, 0x88, 0xB2, 0x1E}
	testnetPublicVersion = []byte{0x04, 0x35, 0x87, 0xCF}
)

// ParseNetwork maps a configuration string to a Network.
func ParseNetwork(s string) (Network, error) {
	switch strings.ToLower(s) {
	case "mainnet", "main", "":
		return NetworkMainnet, nil
	case "testnet", "test":
		return NetworkTestnet, nil
	}
	return 0, fmt.Errorf("wallet: unknown network %q, want mainnet or testnet", s)
}

func (n Network) String() string {
	if n == NetworkTestnet {
		return "testnet"
	}
	return "mainnet"
}

// HDKey represents a hierarchical deterministic key (BIP-32).
type HDKey struct {
	key *bip32.Key
}

// NewMasterKey creates a master HD key from a codex32 master seed.
// Per BIP-93 the secret payload is the BIP-32 seed directly, with no
// mnemonic stretching in between.
func NewMasterKey(seed []byte) (*HDKey, error) {
	if !ValidSeedSize(len(seed)) {
		return nil, fmt.Errorf("wallet: seed must be %d or %d bytes, got %d",
			SeedSize128, SeedSize256, len(seed))
	}
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("wallet: create master key: %w", err)
	}
	return &HDKey{key: master}, nil
}

// DeriveChild derives a child key at the given index.
// For hardened derivation, add bip32.FirstHardenedChild to the index.
func (k *HDKey) DeriveChild(index uint32) (*HDKey, error) {
	child, err := k.key.NewChildKey(index)
	if err != nil {
		return nil, fmt.Errorf("wallet: derive child %d: %w", index, err)
	}
	return &HDKey{key: child}, nil
}

// DerivePath derives a key along a sequence of indices.
func (k *HDKey) DerivePath(indices ...uint32) (*HDKey, error) {
	current := k
	for _, idx := range indices {
		child, err := current.DeriveChild(idx)
		if err != nil {
			return nil, err
		}
		current = child
	}
	return current, nil
}

// ParsePath parses a derivation path like "m/84h/0h/0h" into child
// indices. Hardened components take an h or ' suffix; the leading m is
// required and alone means the master key itself.
func ParsePath(path string) ([]uint32, error) {
	parts := strings.Split(strings.TrimSpace(path), "/")
	if len(parts) == 0 || (parts[0] != "m" && parts[0] != "M") {
		return nil, fmt.Errorf("wallet: derivation path %q must start with m/", path)
	}
	indices := make([]uint32, 0, len(parts)-1)
	for _, part := range parts[1:] {
		hardened := false
		if strings.HasSuffix(part, "h") || strings.HasSuffix(part, "'") {
			hardened = true
			part = part[:len(part)-1]
		}
		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("wallet: bad path component %q in %q", part, path)
		}
		if n >= uint64(bip32.FirstHardenedChild) {
			return nil, fmt.Errorf("wallet: path index %d out of range in %q", n, path)
		}
		idx := uint32(n)
		if hardened {
			idx += bip32.FirstHardenedChild
		}
		indices = append(indices, idx)
	}
	return indices, nil
}

// PrivateKeyBytes returns the raw 32-byte private key.
// Returns nil if this is a public-only key.
func (k *HDKey) PrivateKeyBytes() []byte {
	if !k.key.IsPrivate {
		return nil
	}
	// bip32 Key.Key is 33 bytes with a leading 0x00 for private keys.
	raw := k.key.Key
	if len(raw) == 33 && raw[0] == 0 {
		return raw[1:]
	}
	return raw
}

// PublicKeyBytes returns the compressed 33-byte public key.
func (k *HDKey) PublicKeyBytes() []byte {
	pub := k.key.PublicKey()
	return pub.Key
}

// Fingerprint returns the 4-byte BIP-32 key fingerprint,
// RIPEMD160(SHA256(compressed public key))[:4]. For private keys the
// public key is recomputed through secp256k1 rather than trusted from
// the serialized form.
func (k *HDKey) Fingerprint() []byte {
	var pub []byte
	if k.key.IsPrivate {
		priv := secp256k1.PrivKeyFromBytes(k.PrivateKeyBytes())
		pub = priv.PubKey().SerializeCompressed()
	} else {
		pub = k.key.Key
	}
	sha := sha256.Sum256(pub)
	ripe := ripemd160.New()
	ripe.Write(sha[:])
	return ripe.Sum(nil)[:4]
}

// ExtendedPublicKey serializes the public half of this key in base58
// with the network's version bytes (xpub / tpub).
func (k *HDKey) ExtendedPublicKey(network Network) string {
	pub := k.key.PublicKey()
	if network == NetworkTestnet {
		pub.Version = testnetPublicVersion
	} else {
		pub.Version = mainnetPublicVersion
	}
	return pub.B58Serialize()
}

// IsPrivate returns true if this key contains a private key.
func (k *HDKey) IsPrivate() bool {
	return k.key.IsPrivate
}

// Depth returns the derivation depth (0 for master).
func (k *HDKey) Depth() uint8 {
	return k.key.Depth
}

// Neuter returns a public-key-only copy (for watch-only use).
func (k *HDKey) Neuter() *HDKey {
	return &HDKey{key: k.key.PublicKey()}
}
