// Package codex32 implements the codex32 (BIP-93) string format: a
// bech32-style encoding for Bitcoin master seeds and their Shamir
// shares, checksummed with a BCH code over GF(32).
//
// A codex32 string is "ms" + "1" + data part, where the data part is a
// threshold digit, a four character identifier, a share index, the
// payload symbols and a 13 symbol checksum (15 for strings of 96+ data
// symbols). Strings are single-case; all internal processing is
// lowercase.
package codex32

import (
	"strings"

	"github.com/FractalEncrypt/Seedsigner-Codex32/pkg/gf32"
)

const (
	// Prefix is the human-readable part of every codex32 string.
	Prefix = "ms"

	// MinLength and MaxLength bound the total string length.
	MinLength = 48
	MaxLength = 127

	// IdentLength is the identifier length in characters.
	IdentLength = 4

	// SecretIndex is the share index of an unshared secret and the
	// interpolation target when recovering one.
	SecretIndex byte = 's'

	// headerSymbols is the number of data-part symbols before the
	// payload: threshold, identifier, share index.
	headerSymbols = 1 + IdentLength + 1
)

// Share is a parsed, validated codex32 string. It is immutable; derive
// new shares with Interpolate or Build rather than mutating.
type Share struct {
	str       string      // sanitized input, original case
	threshold int
	ident     string      // lowercase
	index     byte        // lowercase
	data      []gf32.Elem // header + payload symbols, checksum excluded
	checksum  []gf32.Elem
	upper     bool
}

// String returns the canonical string in the case it was parsed with.
func (s *Share) String() string { return s.str }

// Threshold returns the declared threshold k (0, or 2 through 9).
func (s *Share) Threshold() int { return s.threshold }

// Ident returns the four character identifier, lowercase.
func (s *Share) Ident() string { return s.ident }

// Index returns the share index character, lowercase.
func (s *Share) Index() byte { return s.index }

// IsSecret reports whether this is an unshared or recovered secret
// (share index 's').
func (s *Share) IsSecret() bool { return s.index == SecretIndex }

// IsUpper reports whether the share was parsed from an uppercase string.
func (s *Share) IsUpper() bool { return s.upper }

// Len returns the total string length.
func (s *Share) Len() int { return len(s.str) }

// Payload returns a copy of the payload symbols.
func (s *Share) Payload() []gf32.Elem {
	out := make([]gf32.Elem, len(s.data)-headerSymbols)
	copy(out, s.data[headerSymbols:])
	return out
}

// Seed returns the payload repacked into bytes. Incomplete trailing bits
// are dropped, matching the BIP-93 padding rule.
func (s *Share) Seed() []byte {
	return PayloadToBytes(s.data[headerSymbols:])
}

// Sanitize strips ASCII whitespace and hyphens, the separators users
// commonly type between character groups. It performs no validation.
func Sanitize(s string) string {
	clean := true
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\r', '\n', '\v', '\f', '-':
			clean = false
		}
	}
	if clean {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\r', '\n', '\v', '\f', '-':
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

// parsed carries the intermediate results of decoding.
type parsed struct {
	cased  string      // sanitized, original case
	lower  string      // sanitized, folded lowercase
	values []gf32.Elem
	upper  bool
}

// decodeStructure sanitizes the input and checks everything except the
// checksum and header semantics: character range, single case, length,
// prefix and separator, charset membership.
func decodeStructure(raw string) (parsed, error) {
	s := Sanitize(raw)
	if s == "" {
		return parsed{}, errMalformed("empty string")
	}

	hasUpper, hasLower := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 33 || c > 126 {
			return parsed{}, errMalformed("invalid character at position %d", i)
		}
		switch {
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= 'a' && c <= 'z':
			hasLower = true
		}
	}
	if hasUpper && hasLower {
		return parsed{}, errMalformed("mixed upper and lower case")
	}

	if len(s) < MinLength || len(s) > MaxLength {
		return parsed{}, errMalformed("length %d outside the valid range [%d, %d]", len(s), MinLength, MaxLength)
	}

	lower := s
	if hasUpper {
		lower = strings.ToLower(s)
	}

	sep := strings.LastIndexByte(lower, '1')
	if sep < 0 {
		return parsed{}, errMalformed("missing separator '1'")
	}
	if lower[:sep] != Prefix {
		return parsed{}, errMalformed("unsupported prefix %q, want %q", lower[:sep], Prefix)
	}

	values := make([]gf32.Elem, 0, len(lower)-sep-1)
	for i := sep + 1; i < len(lower); i++ {
		v, ok := charToElem(lower[i])
		if !ok {
			return parsed{}, errMalformed("character %q at position %d is not in the bech32 charset", lower[i], i)
		}
		values = append(values, v)
	}

	return parsed{cased: s, lower: lower, values: values, upper: hasUpper}, nil
}

// decode runs the full validation pipeline: structure, threshold digit,
// the threshold-0 index rule, and last the checksum, so a string that is
// malformed in several ways reports the structural problem.
func decode(raw string) (parsed, error) {
	p, err := decodeStructure(raw)
	if err != nil {
		return parsed{}, err
	}
	k := p.lower[3]
	if k != '0' && (k < '2' || k > '9') {
		return parsed{}, errMalformed("invalid threshold character %q, want 0 or 2-9", k)
	}
	if k == '0' && p.lower[8] != SecretIndex {
		return parsed{}, errMalformed("threshold 0 requires share index 's', got %q", p.lower[8])
	}
	if !verifyChecksum(p.values) {
		return parsed{}, errChecksum("checksum verification failed")
	}
	return p, nil
}

// Parse validates a codex32 string and returns it as a Share. The input
// may contain whitespace and hyphens and be in either (single) case.
func Parse(raw string) (*Share, error) {
	p, err := decode(raw)
	if err != nil {
		return nil, err
	}
	ck := checksumLength(len(p.values))
	n := len(p.values) - ck
	return &Share{
		str:       p.cased,
		threshold: int(p.lower[3] - '0'),
		ident:     p.lower[4 : 4+IdentLength],
		index:     p.lower[4+IdentLength],
		data:      p.values[:n:n],
		checksum:  p.values[n:],
		upper:     p.upper,
	}, nil
}

// Validate runs the full validation pipeline without materializing a
// Share. Correction search uses it as the acceptance test.
func Validate(raw string) error {
	_, err := decode(raw)
	return err
}

// DecodeSymbols splits a codex32 string into its data-part symbol values
// without verifying the checksum or the header. Correction paths use it
// to obtain the raw codeword; Parse is the validating entry point. The
// second result reports whether the input was uppercase.
func DecodeSymbols(raw string) ([]gf32.Elem, bool, error) {
	p, err := decodeStructure(raw)
	if err != nil {
		return nil, false, err
	}
	return p.values, p.upper, nil
}

// encodeString renders data-part symbols (checksum excluded) as a full
// codex32 string with a freshly computed checksum.
func encodeString(data []gf32.Elem, upper bool) string {
	checksum := createChecksum(data)
	var sb strings.Builder
	sb.Grow(len(Prefix) + 1 + len(data) + len(checksum))
	sb.WriteString(Prefix)
	sb.WriteByte('1')
	for _, v := range data {
		sb.WriteByte(Charset[v])
	}
	for _, v := range checksum {
		sb.WriteByte(Charset[v])
	}
	if upper {
		return strings.ToUpper(sb.String())
	}
	return sb.String()
}

// newShare encodes data-part symbols and re-parses the result, so every
// constructed Share has passed the same validation as user input.
func newShare(data []gf32.Elem, upper bool) (*Share, error) {
	return Parse(encodeString(data, upper))
}
