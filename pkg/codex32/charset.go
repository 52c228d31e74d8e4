package codex32

import "github.com/FractalEncrypt/Seedsigner-Codex32/pkg/gf32"

// Charset is the bech32 character set (BIP-173), shared by codex32.
// The index of a character is its 5-bit symbol value.
const Charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

// charsetRev maps ASCII characters (both cases) to symbol values. -1 = invalid.
var charsetRev [128]int8

func init() {
	for i := range charsetRev {
		charsetRev[i] = -1
	}
	for i, c := range Charset {
		charsetRev[c] = int8(i)
		if c >= 'a' && c <= 'z' {
			charsetRev[c-'a'+'A'] = int8(i)
		}
	}
}

// charToElem returns the symbol value of a charset character, accepting
// either case.
func charToElem(c byte) (gf32.Elem, bool) {
	if c >= 128 || charsetRev[c] < 0 {
		return 0, false
	}
	return gf32.Elem(charsetRev[c]), true
}
