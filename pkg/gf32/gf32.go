// Package gf32 implements arithmetic over GF(32), the 32-element field used
// by bech32-style codes (BIP-173/BIP-93): defining polynomial x^5+x^3+1 with
// primitive element alpha = 2. Addition is XOR; multiplication and division
// go through discrete-log tables so the hot validation loops stay branch-light.
package gf32

import "errors"

// Elem is a GF(32) field element, an integer in [0,31].
type Elem uint8

const (
	// Size is the number of field elements.
	Size = 32
	// Order is the order of the multiplicative group: every nonzero
	// element satisfies a^Order == 1.
	Order = 31
	// Poly is the defining polynomial x^5+x^3+1 in bit form.
	Poly = 0x29
	// Alpha is the primitive element whose powers enumerate all nonzero
	// elements.
	Alpha Elem = 2
)

// ErrDivisionByZero is returned by Div, Inv and Pow for zero divisors.
var ErrDivisionByZero = errors.New("gf32: division by zero")

// logTbl maps a nonzero element to its discrete log base Alpha. The entry for
// 0 is a sentinel; callers must check for zero before indexing.
var logTbl = [Size]int8{
	-1, 0, 1, 14, 2, 28, 15, 22,
	3, 5, 29, 26, 16, 7, 23, 11,
	4, 25, 6, 10, 30, 13, 27, 21,
	17, 18, 8, 19, 24, 9, 12, 20,
}

// expTbl maps powers of Alpha to elements. It carries two full periods so
// that sums of two logs index without a mod-31 reduction.
var expTbl = [2 * Order]Elem{
	1, 2, 4, 8, 16, 9, 18, 13,
	26, 29, 19, 15, 30, 21, 3, 6,
	12, 24, 25, 27, 31, 23, 7, 14,
	28, 17, 11, 22, 5, 10, 20,
	1, 2, 4, 8, 16, 9, 18, 13,
	26, 29, 19, 15, 30, 21, 3, 6,
	12, 24, 25, 27, 31, 23, 7, 14,
	28, 17, 11, 22, 5, 10, 20,
}

// Add returns a + b. Addition in a characteristic-2 field is XOR.
func Add(a, b Elem) Elem { return a ^ b }

// Sub returns a - b, identical to Add in characteristic 2.
func Sub(a, b Elem) Elem { return a ^ b }

// Mul returns the field product of a and b.
func Mul(a, b Elem) Elem {
	if a == 0 || b == 0 {
		return 0
	}
	return expTbl[int(logTbl[a])+int(logTbl[b])]
}

// Div returns a / b, or ErrDivisionByZero when b is 0. Div(0, b) is 0 for
// any nonzero b.
func Div(a, b Elem) (Elem, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	if a == 0 {
		return 0, nil
	}
	d := int(logTbl[a]) - int(logTbl[b])
	if d < 0 {
		d += Order
	}
	return expTbl[d], nil
}

// Inv returns the multiplicative inverse of a, or ErrDivisionByZero when a
// is 0.
func Inv(a Elem) (Elem, error) {
	if a == 0 {
		return 0, ErrDivisionByZero
	}
	return expTbl[(Order-int(logTbl[a]))%Order], nil
}

// Pow returns a^n. By convention a^0 == 1 for every a, including 0, and
// 0^n == 0 for n > 0. Negative exponents are computed through Inv, so
// Pow(0, n) with n < 0 returns ErrDivisionByZero.
func Pow(a Elem, n int) (Elem, error) {
	if n == 0 {
		return 1, nil
	}
	if a == 0 {
		if n < 0 {
			return 0, ErrDivisionByZero
		}
		return 0, nil
	}
	if n < 0 {
		inv, err := Inv(a)
		if err != nil {
			return 0, err
		}
		return Pow(inv, -n)
	}
	idx := (int64(logTbl[a]) * int64(n)) % Order
	return expTbl[idx], nil
}

// AlphaPow returns Alpha^n for any integer n, with negative exponents
// reduced modulo the group order. Decoder loops use this instead of Pow to
// stay error-free.
func AlphaPow(n int) Elem {
	r := n % Order
	if r < 0 {
		r += Order
	}
	return expTbl[r]
}
