// Package bch implements an algebraic decoder for the Reed-Solomon
// style code underlying the codex32 checksum: 8 syndromes evaluated at
// α¹..α⁸ over GF(32), Berlekamp-Massey, Chien search and Forney
// magnitudes, correcting up to 4 substitution errors.
//
// The decoder targets the plain code with those syndrome roots. The
// codex32 checksum is a shifted coset of it, so a checksum-valid data
// part does not have zero syndromes here; callers that correct real
// codex32 strings must re-validate the result through the codec. The
// validated search in package repair is the primary correction path.
package bch

import (
	"fmt"

	"github.com/FractalEncrypt/Seedsigner-Codex32/pkg/codex32"
	"github.com/FractalEncrypt/Seedsigner-Codex32/pkg/gf32"
)

const (
	// MaxErrors is the substitution correction capacity.
	MaxErrors = 4
	// MaxErasures is the erasure capacity when positions are known.
	MaxErasures = 8
	// numSyndromes is twice the error capacity.
	numSyndromes = 2 * MaxErrors
)

// Result reports a successful decode. Positions and Magnitudes are
// aligned; both are empty when the input already had zero syndromes.
type Result struct {
	Data       []gf32.Elem // corrected symbols
	Positions  []int       // ascending error positions
	Magnitudes []gf32.Elem // XOR-ed value at each position
}

// Syndromes evaluates the data polynomial at α¹..α⁸. Symbol i is the
// coefficient of xⁱ. A zero vector means the data is a codeword of the
// plain code.
func Syndromes(data []gf32.Elem) []gf32.Elem {
	out := make([]gf32.Elem, numSyndromes)
	for j := 1; j <= numSyndromes; j++ {
		root := gf32.AlphaPow(j)
		var s gf32.Elem
		for i := len(data) - 1; i >= 0; i-- {
			s = gf32.Add(gf32.Mul(s, root), data[i])
		}
		out[j-1] = s
	}
	return out
}

func allZero(s []gf32.Elem) bool {
	for _, v := range s {
		if v != 0 {
			return false
		}
	}
	return true
}

// Decode corrects up to MaxErrors substitution errors in the data
// symbols. Failures are reported as uncorrectable-kind codex32 errors:
// a locator degree above the capacity, a degenerate locator, missing
// Chien roots, or a correction that fails re-verification.
func Decode(data []gf32.Elem) (*Result, error) {
	if len(data) == 0 {
		return nil, errUncorrectable("no data symbols")
	}

	synd := Syndromes(data)
	if allZero(synd) {
		out := make([]gf32.Elem, len(data))
		copy(out, data)
		return &Result{Data: out}, nil
	}

	locator := berlekampMassey(synd)
	degree := len(locator) - 1
	if degree > MaxErrors {
		return nil, errUncorrectable("detected %d errors, correction limit is %d", degree, MaxErrors)
	}
	if degree == 0 {
		return nil, errUncorrectable("error locator is degenerate")
	}

	positions := chienSearch(locator, len(data))
	if len(positions) != degree {
		return nil, errUncorrectable("found %d of %d error locations", len(positions), degree)
	}

	magnitudes := forney(synd, locator, positions)
	out := make([]gf32.Elem, len(data))
	copy(out, data)
	for i, p := range positions {
		out[p] = gf32.Add(out[p], magnitudes[i])
	}
	if !allZero(Syndromes(out)) {
		return nil, errUncorrectable("corrected data fails re-verification")
	}
	return &Result{Data: out, Positions: positions, Magnitudes: magnitudes}, nil
}

// DecodeErasures decodes when up to MaxErasures error positions are
// already known. Position knowledge doubles the capacity bound; the
// correction itself still runs the full decoder.
func DecodeErasures(data []gf32.Elem, erasures []int) (*Result, error) {
	if len(erasures) > MaxErasures {
		return nil, errUncorrectable("too many erasures (%d), limit is %d", len(erasures), MaxErasures)
	}
	for _, p := range erasures {
		if p < 0 || p >= len(data) {
			return nil, &codex32.Error{
				Kind:   codex32.KindMalformed,
				Detail: fmt.Sprintf("erasure position %d out of range [0, %d)", p, len(data)),
			}
		}
	}
	return Decode(data)
}

func errUncorrectable(format string, args ...any) error {
	return codex32.ErrUncorrectablef("bch: "+format, args...)
}

// berlekampMassey computes the error locator polynomial from the
// syndromes, returned in ascending powers with trailing zeros trimmed
// so the degree equals the claimed error count.
func berlekampMassey(synd []gf32.Elem) []gf32.Elem {
	locator := []gf32.Elem{1}
	prev := []gf32.Elem{1}
	length := 0
	shift := 1
	b := gf32.Elem(1)

	for n := 0; n < len(synd); n++ {
		d := synd[n]
		for j := 1; j <= length && j < len(locator); j++ {
			d = gf32.Add(d, gf32.Mul(locator[j], synd[n-j]))
		}
		if d == 0 {
			shift++
			continue
		}
		coef, _ := gf32.Div(d, b) // b is always nonzero
		if 2*length <= n {
			saved := make([]gf32.Elem, len(locator))
			copy(saved, locator)
			for len(locator) < len(prev)+shift {
				locator = append(locator, 0)
			}
			for j := range prev {
				locator[j+shift] = gf32.Add(locator[j+shift], gf32.Mul(coef, prev[j]))
			}
			length = n + 1 - length
			prev = saved
			b = d
			shift = 1
		} else {
			for len(locator) < len(prev)+shift {
				locator = append(locator, 0)
			}
			for j := range prev {
				locator[j+shift] = gf32.Add(locator[j+shift], gf32.Mul(coef, prev[j]))
			}
			shift++
		}
	}

	for len(locator) > 1 && locator[len(locator)-1] == 0 {
		locator = locator[:len(locator)-1]
	}
	return locator
}

// polyEval evaluates a polynomial in ascending-power form at x.
func polyEval(p []gf32.Elem, x gf32.Elem) gf32.Elem {
	var r gf32.Elem
	for i := len(p) - 1; i >= 0; i-- {
		r = gf32.Add(gf32.Mul(r, x), p[i])
	}
	return r
}

// chienSearch finds codeword positions whose field points are roots of
// the locator. Position j corresponds to α⁻ʲ; positions are reduced mod
// 31, the multiplicative order of the field.
func chienSearch(locator []gf32.Elem, n int) []int {
	want := len(locator) - 1
	positions := make([]int, 0, want)
	for j := 0; j < n; j++ {
		if polyEval(locator, gf32.AlphaPow(-j)) == 0 {
			positions = append(positions, j)
			if len(positions) == want {
				break
			}
		}
	}
	return positions
}

// forney computes error magnitudes via Ω(x) = S(x)Λ(x) mod x⁹ with the
// syndrome polynomial S(x) = Σ Sⱼxʲ, giving the magnitude at position p
// as X·Ω(X⁻¹)/Λ'(X⁻¹) for X = αᵖ. A zero derivative yields magnitude
// zero, which the caller's re-verification rejects.
func forney(synd, locator []gf32.Elem, positions []int) []gf32.Elem {
	omega := make([]gf32.Elem, numSyndromes+1)
	for i, s := range synd {
		for j, lam := range locator {
			if i+1+j < len(omega) {
				omega[i+1+j] = gf32.Add(omega[i+1+j], gf32.Mul(s, lam))
			}
		}
	}

	// Formal derivative in characteristic 2: odd terms survive with
	// their coefficients shifted down one power.
	deriv := make([]gf32.Elem, 0, len(locator))
	for i := 1; i < len(locator); i++ {
		if i%2 == 1 {
			deriv = append(deriv, locator[i])
		} else {
			deriv = append(deriv, 0)
		}
	}

	mags := make([]gf32.Elem, len(positions))
	for i, p := range positions {
		x := gf32.AlphaPow(p)
		xi := gf32.AlphaPow(-p)
		dv := polyEval(deriv, xi)
		if dv == 0 {
			mags[i] = 0
			continue
		}
		q, _ := gf32.Div(polyEval(omega, xi), dv)
		mags[i] = gf32.Mul(x, q)
	}
	return mags
}
