package repair

import (
	"strings"

	"github.com/FractalEncrypt/Seedsigner-Codex32/pkg/bch"
	"github.com/FractalEncrypt/Seedsigner-Codex32/pkg/codex32"
)

// Algebraic runs the syndrome decoder over the data-part symbols and
// re-validates its proposal through the codec. The decoder works in the
// lattice of the plain α¹..α⁸ code, which the codex32 checksum is not a
// coset of (the checksum generator keeps only the non-consecutive roots
// α⁵, α¹⁴ and α²⁷ in GF(32), the rest lie in extension fields), so a
// proposal that the checksum rejects is reported as a Message rather
// than a candidate. Search is the primary correction path; this one
// exists for codewords of the plain code and as a cross-check.
//
// Malformed input and decoder failures (capacity exceeded, root count
// mismatch, re-verification failure) are returned as errors.
func Algebraic(input string, opts Options) (*Result, error) {
	opts = opts.normalized()

	s := codex32.Sanitize(input)
	if s == "" {
		return nil, &codex32.Error{Kind: codex32.KindMalformed, Detail: "empty string"}
	}
	lower := strings.ToLower(s)
	upper := isUpper(s)
	if codex32.Validate(lower) == nil {
		cands := []Candidate{{Corrected: lower}}
		finishCandidates(cands, s, upper)
		return &Result{Candidates: cands}, nil
	}

	values, _, err := codex32.DecodeSymbols(lower)
	if err != nil {
		return nil, err
	}
	res, err := bch.Decode(values)
	if err != nil {
		return nil, err
	}

	buf := []byte(lower)
	for i, v := range res.Data {
		buf[dataStart+i] = codex32.Charset[v]
	}
	corrected := string(buf)
	opts.Log.Debug().
		Int("errors", len(res.Positions)).
		Str("corrected", corrected).
		Msg("algebraic decoder proposed a correction")

	if err := codex32.Validate(corrected); err != nil {
		return &Result{
			Message: "algebraic correction is a valid plain codeword but fails the checksum; use the substitution search",
		}, nil
	}

	changes := make([]Change, 0, len(res.Positions))
	for _, p := range res.Positions {
		changes = append(changes, Change{
			Position: dataStart + p,
			From:     lower[dataStart+p],
			To:       corrected[dataStart+p],
		})
	}
	cands := []Candidate{{
		Corrected:  corrected,
		ErrorCount: len(res.Positions),
		Changes:    changes,
	}}
	finishCandidates(cands, s, upper)
	return &Result{Candidates: cands}, nil
}
