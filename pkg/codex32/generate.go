package codex32

import (
	"crypto/rand"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/FractalEncrypt/Seedsigner-Codex32/pkg/gf32"
)

// ShareIndexes lists the 31 share index characters in assignment order:
// charset letters alphabetically, then digits. 's' is reserved for the
// secret and excluded.
const ShareIndexes = "acdefghjklmnpqrtuvwxyz023456789"

// splitContext is the BLAKE3 derive-key context for share payloads.
const splitContext = "codex32 split v1 share payload"

// saltSize is the random salt length Split draws when none is supplied.
const saltSize = 32

// Build assembles a share from its header fields and payload symbols,
// computing the checksum. The identifier and index accept either case;
// upper selects the case of the resulting string.
func Build(threshold int, ident string, index byte, payload []gf32.Elem, upper bool) (*Share, error) {
	if threshold != 0 && (threshold < 2 || threshold > 9) {
		return nil, errMalformed("invalid threshold %d, want 0 or 2-9", threshold)
	}
	if len(ident) != IdentLength {
		return nil, errMalformed("identifier must be %d characters, got %d", IdentLength, len(ident))
	}

	data := make([]gf32.Elem, 0, headerSymbols+len(payload))
	kv, _ := charToElem(byte('0' + threshold))
	data = append(data, kv)
	for i := 0; i < len(ident); i++ {
		v, ok := charToElem(ident[i])
		if !ok {
			return nil, errMalformed("identifier character %q is not in the bech32 charset", ident[i])
		}
		data = append(data, v)
	}
	iv, ok := charToElem(index)
	if !ok {
		return nil, errMalformed("share index %q is not in the bech32 charset", index)
	}
	if threshold == 0 && Charset[iv] != SecretIndex {
		return nil, errMalformed("threshold 0 requires share index 's', got %q", index)
	}
	data = append(data, iv)

	for i, v := range payload {
		if v > 31 {
			return nil, errMalformed("payload symbol %d out of range at position %d", v, i)
		}
		data = append(data, v)
	}
	return newShare(data, upper)
}

// FromSeed encodes seed bytes as a codex32 share. A 16 byte seed yields
// a 48 character string, a 32 byte seed a 74 character one; other seed
// lengths are accepted as long as the resulting string length is valid.
func FromSeed(seed []byte, threshold int, ident string, index byte, upper bool) (*Share, error) {
	return Build(threshold, ident, index, BytesToPayload(seed), upper)
}

// Split derives a full share set from an unshared secret. The first
// threshold-1 shares carry payloads derived from the secret and salt
// with BLAKE3; the remaining shares are interpolated from the secret and
// those, so any threshold many of the result recover the secret. A nil
// salt draws a random one, making the set unrepeatable; passing a fixed
// salt makes it deterministic.
func Split(secret *Share, count int, salt []byte) ([]*Share, error) {
	if !secret.IsSecret() {
		return nil, errInterpolation("split requires the unshared secret (index 's'), got index %q", secret.index)
	}
	k := secret.threshold
	if k == 0 {
		return nil, errInterpolation("threshold 0 secret cannot be split")
	}
	if count < k {
		return nil, errInterpolation("share count %d below threshold %d", count, k)
	}
	if count > len(ShareIndexes) {
		return nil, errInterpolation("share count %d exceeds the %d available indices", count, len(ShareIndexes))
	}
	if len(salt) == 0 {
		salt = make([]byte, saltSize)
		if _, err := rand.Read(salt); err != nil {
			return nil, fmt.Errorf("codex32: draw split salt: %w", err)
		}
	}

	// Derivation material: the secret's data-part symbols and the salt,
	// with the target index appended per share.
	material := make([]byte, 0, len(secret.data)+len(salt)+1)
	for _, v := range secret.data {
		material = append(material, byte(v))
	}
	material = append(material, salt...)

	payloadLen := len(secret.data) - headerSymbols
	points := make([]*Share, 0, k)
	points = append(points, secret)
	shares := make([]*Share, 0, count)
	for i := 0; i < k-1; i++ {
		index := ShareIndexes[i]
		derived := make([]byte, (payloadLen*5+7)/8)
		blake3.DeriveKey(splitContext, append(material, index), derived)
		payload := BytesToPayload(derived)[:payloadLen]
		share, err := Build(k, secret.ident, index, payload, secret.upper)
		if err != nil {
			return nil, err
		}
		points = append(points, share)
		shares = append(shares, share)
	}
	for i := k - 1; i < count; i++ {
		share, err := Interpolate(points, ShareIndexes[i])
		if err != nil {
			return nil, err
		}
		shares = append(shares, share)
	}
	return shares, nil
}
