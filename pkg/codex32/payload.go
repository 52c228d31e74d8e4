package codex32

import "github.com/FractalEncrypt/Seedsigner-Codex32/pkg/gf32"

// PayloadToBytes repacks 5-bit payload symbols into bytes, most
// significant bits first. Incomplete trailing bits are dropped: a
// 26-symbol payload (130 bits) yields 16 bytes, a 52-symbol payload
// (260 bits) yields 32.
func PayloadToBytes(payload []gf32.Elem) []byte {
	out := make([]byte, 0, len(payload)*5/8)
	acc := uint(0)
	bits := uint(0)
	for _, v := range payload {
		acc = acc<<5 | uint(v)
		bits += 5
		for bits >= 8 {
			bits -= 8
			out = append(out, byte(acc>>bits))
		}
	}
	return out
}

// BytesToPayload converts seed bytes into 5-bit payload symbols, zero
// padding the final symbol when the bit count is not a multiple of 5.
func BytesToPayload(seed []byte) []gf32.Elem {
	out := make([]gf32.Elem, 0, (len(seed)*8+4)/5)
	acc := uint(0)
	bits := uint(0)
	for _, b := range seed {
		acc = acc<<8 | uint(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			out = append(out, gf32.Elem(acc>>bits&31))
		}
	}
	if bits > 0 {
		out = append(out, gf32.Elem(acc<<(5-bits)&31))
	}
	return out
}
