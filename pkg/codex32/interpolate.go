package codex32

import "github.com/FractalEncrypt/Seedsigner-Codex32/pkg/gf32"

// lagrangeWeights returns the Lagrange basis coefficients for evaluating
// at x a polynomial sampled at the given indices. Indices must be
// distinct and must not contain x; both are checked by callers.
func lagrangeWeights(indices []gf32.Elem, x gf32.Elem) ([]gf32.Elem, error) {
	num := gf32.Elem(1)
	denoms := make([]gf32.Elem, len(indices))
	for i, xi := range indices {
		num = gf32.Mul(num, gf32.Add(xi, x))
		m := gf32.Elem(1)
		for j, xj := range indices {
			if i == j {
				m = gf32.Mul(m, gf32.Add(x, xj))
			} else {
				m = gf32.Mul(m, gf32.Add(xi, xj))
			}
		}
		denoms[i] = m
	}
	weights := make([]gf32.Elem, len(indices))
	for i, m := range denoms {
		inv, err := gf32.Inv(m)
		if err != nil {
			return nil, errInterpolation("degenerate share set")
		}
		weights[i] = gf32.Mul(num, inv)
	}
	return weights, nil
}

// Interpolate evaluates the share polynomial at the target index and
// returns the resulting share with a fresh checksum. All shares must
// have the same length and distinct indices. The target may be
// SecretIndex to recover the secret or any other index to derive an
// additional share; a target already present in the set returns that
// share unchanged. The result carries the case of the first share.
func Interpolate(shares []*Share, target byte) (*Share, error) {
	if len(shares) == 0 {
		return nil, errInterpolation("no shares provided")
	}
	x, ok := charToElem(target)
	if !ok {
		return nil, errInterpolation("invalid target index %q", target)
	}

	base := len(shares[0].data)
	seen := [32]bool{}
	indices := make([]gf32.Elem, len(shares))
	for i, share := range shares {
		if len(share.data) != base {
			return nil, errInterpolation("mismatched share lengths: %d and %d symbols", base, len(share.data))
		}
		xi, _ := charToElem(share.index)
		if seen[xi] {
			return nil, errInterpolation("duplicate share index %q", share.index)
		}
		seen[xi] = true
		indices[i] = xi
	}
	if seen[x] {
		for _, share := range shares {
			if idx, _ := charToElem(share.index); idx == x {
				return share, nil
			}
		}
	}

	weights, err := lagrangeWeights(indices, x)
	if err != nil {
		return nil, err
	}
	out := make([]gf32.Elem, base)
	for pos := range out {
		var acc gf32.Elem
		for j, share := range shares {
			acc = gf32.Add(acc, gf32.Mul(weights[j], share.data[pos]))
		}
		out[pos] = acc
	}
	return newShare(out, shares[0].upper)
}

// RecoverSecret interpolates a share set at the secret index. Beyond the
// checks Interpolate performs it requires a consistent header across the
// set and at least threshold many shares. A set that already contains
// the secret returns it directly.
func RecoverSecret(shares []*Share) (*Share, error) {
	if len(shares) == 0 {
		return nil, errInterpolation("no shares provided")
	}
	k := shares[0].threshold
	ident := shares[0].ident
	for _, share := range shares[1:] {
		if share.threshold != k || share.ident != ident {
			return nil, errInterpolation("mismatched share header: %d%s and %d%s",
				k, ident, share.threshold, share.ident)
		}
	}
	for _, share := range shares {
		if share.IsSecret() {
			return share, nil
		}
	}
	if k < 2 {
		return nil, errInterpolation("threshold %d set does not contain the secret", k)
	}
	if len(shares) < k {
		return nil, errInterpolation("need %d shares to recover, have %d", k, len(shares))
	}
	return Interpolate(shares, SecretIndex)
}
