package codex32

import "github.com/FractalEncrypt/Seedsigner-Codex32/pkg/gf32"

// The codex32 checksum is a BCH code over GF(32) evaluated as a long
// division by a degree-13 (or, for long strings, degree-15) generator
// polynomial. Residues are 65 bits for the regular code and 75 bits for
// the long code, so they are carried in (hi, lo) uint64 limb pairs with
// hi holding the bits above 64.
//
// Generator constants are the BIP-93 reference values split across the
// two limbs.
var shortGen = [5][2]uint64{
	{0x1, 0x9DC500CE73FDE210},
	{0x1, 0xBFAE00DEF77FE529},
	{0x1, 0xFBD920FFFE7BEE52},
	{0x1, 0x739640BDEEE3FDAD},
	{0x0, 0x7729A039CFC75F5A},
}

var longGen = [5][2]uint64{
	{0x3D5, 0x9D273535EA62D897},
	{0x7A9, 0xBECB6361C6C51507},
	{0x543, 0xF9B7E6C38D8A2A0E},
	{0x0C5, 0x77EAECCF1990D13C},
	{0x188, 0x7F74F8DC71B10651},
}

const (
	// Target residues ("MS" seeded) for a valid checksum.
	shortConstHi = 0x1
	shortConstLo = 0x0CE0795C2FD1E62A
	longConstHi  = 0x433
	longConstLo  = 0x81E570BF4798AB26

	// Both polymods start from the residue of the "ms" prefix.
	residueSeed = 0x23181B3

	shortChecksumLen = 13
	longChecksumLen  = 15

	// Data parts of 81+ symbols carry the long checksum: with 15 checksum
	// symbols the total is 96+, which is how verification distinguishes
	// the two codes. Totals of 94 and 95 belong to neither.
	longDataThreshold = 80
)

// shortPolymod runs the degree-13 checksum division over the data-part
// symbols, returning the 65-bit residue as (hi, lo).
func shortPolymod(values []gf32.Elem) (hi, lo uint64) {
	lo = residueSeed
	for _, v := range values {
		top := hi<<4 | lo>>60
		lo &= 0x0FFFFFFFFFFFFFFF
		hi = lo >> 59
		lo = lo<<5 ^ uint64(v)
		for i := 0; i < 5; i++ {
			if top>>uint(i)&1 == 1 {
				hi ^= shortGen[i][0]
				lo ^= shortGen[i][1]
			}
		}
	}
	return hi, lo
}

// longPolymod is the degree-15 variant with a 75-bit residue.
func longPolymod(values []gf32.Elem) (hi, lo uint64) {
	lo = residueSeed
	for _, v := range values {
		top := hi >> 6
		hi = (hi&0x3F)<<5 | lo>>59
		lo = lo<<5 ^ uint64(v)
		for i := 0; i < 5; i++ {
			if top>>uint(i)&1 == 1 {
				hi ^= longGen[i][0]
				lo ^= longGen[i][1]
			}
		}
	}
	return hi, lo
}

// verifyChecksum reports whether the data-part symbols (checksum
// included) form a valid codeword. Lengths 94 and 95 verify under
// neither code and are always invalid.
func verifyChecksum(values []gf32.Elem) bool {
	switch {
	case len(values) >= 96:
		hi, lo := longPolymod(values)
		return hi == longConstHi && lo == longConstLo
	case len(values) <= 93:
		hi, lo := shortPolymod(values)
		return hi == shortConstHi && lo == shortConstLo
	}
	return false
}

// checksumLength returns the checksum symbol count for a full data part.
func checksumLength(total int) int {
	if total >= 96 {
		return longChecksumLen
	}
	return shortChecksumLen
}

// createChecksum computes the checksum symbols for a data part that does
// not yet carry one.
func createChecksum(data []gf32.Elem) []gf32.Elem {
	if len(data) > longDataThreshold {
		padded := make([]gf32.Elem, len(data)+longChecksumLen)
		copy(padded, data)
		hi, lo := longPolymod(padded)
		hi ^= longConstHi
		lo ^= longConstLo
		out := make([]gf32.Elem, longChecksumLen)
		for i := range out {
			out[i] = extract5(hi, lo, uint(5*(longChecksumLen-1-i)))
		}
		return out
	}
	padded := make([]gf32.Elem, len(data)+shortChecksumLen)
	copy(padded, data)
	hi, lo := shortPolymod(padded)
	hi ^= shortConstHi
	lo ^= shortConstLo
	out := make([]gf32.Elem, shortChecksumLen)
	for i := range out {
		out[i] = extract5(hi, lo, uint(5*(shortChecksumLen-1-i)))
	}
	return out
}

// extract5 pulls the 5-bit group starting at the given bit offset out of
// a (hi, lo) residue, handling groups that straddle the limb boundary.
func extract5(hi, lo uint64, shift uint) gf32.Elem {
	switch {
	case shift >= 64:
		return gf32.Elem(hi >> (shift - 64) & 31)
	case shift > 59:
		return gf32.Elem((hi<<(64-shift) | lo>>shift) & 31)
	}
	return gf32.Elem(lo >> shift & 31)
}
