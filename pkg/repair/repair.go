// Package repair corrects damaged codex32 strings.
//
// The primary strategy is a validated search: generate candidate
// strings within a bounded number of substitutions and keep the ones
// the codec accepts. It is slower than algebraic decoding but cannot produce a
// wrong answer, because every candidate passes full codex32 validation.
// An algebraic path over the package bch decoder exists as well; its
// results are re-validated through the codec before being reported.
//
// Per BIP-93 the code corrects up to 4 substitution errors, or up to 8
// erasures when the damaged positions are known.
package repair

import (
	"runtime"
	"sort"

	"github.com/rs/zerolog"
)

const (
	// MaxSearchErrors bounds the substitution search depth.
	MaxSearchErrors = 4
	// MaxErasures bounds the erasure fill search.
	MaxErasures = 8

	// dataStart is the first searchable string position, right after the
	// "ms1" prefix.
	dataStart = 3

	// charsetSize is the bech32 alphabet size.
	charsetSize = 32
)

// Change is a single character substitution, with positions counted in
// the sanitized string.
type Change struct {
	Position int
	From, To byte
}

// Candidate is one valid correction of a damaged string.
type Candidate struct {
	Original   string // sanitized input
	Corrected  string
	ErrorCount int
	Changes    []Change
}

// Result is a search outcome. An empty candidate list with a Message
// means the search completed without finding a valid correction.
type Result struct {
	Candidates []Candidate
	Message    string
}

// Found reports whether at least one valid correction exists.
func (r *Result) Found() bool { return len(r.Candidates) > 0 }

// Options tunes a search. The zero value searches up to MaxSearchErrors
// substitutions on all CPUs and collects every candidate.
type Options struct {
	// MaxErrors caps the substitution depth, 1 to MaxSearchErrors.
	// Zero or out-of-range values are clamped.
	MaxErrors int
	// StopOnFirst returns after the first valid candidate instead of
	// enumerating all of them at the current depth.
	StopOnFirst bool
	// Workers is the parallel worker count for multi-error searches.
	// Zero uses all CPUs.
	Workers int
	// Log, when non-nil, receives debug progress events.
	Log *zerolog.Logger
}

func (o Options) normalized() Options {
	if o.MaxErrors <= 0 || o.MaxErrors > MaxSearchErrors {
		o.MaxErrors = MaxSearchErrors
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Log == nil {
		nop := zerolog.Nop()
		o.Log = &nop
	}
	return o
}

// EstimateSearchSpace returns the number of candidate strings a
// substitution search over a string of the given length examines, summed
// over error counts 1 through maxErrors. Useful for progress messages.
func EstimateSearchSpace(length, maxErrors int) int64 {
	if maxErrors > MaxSearchErrors {
		maxErrors = MaxSearchErrors
	}
	n := int64(length - dataStart)
	if n <= 0 {
		return 0
	}
	var total int64
	for k := 1; k <= maxErrors && int64(k) <= n; k++ {
		combos := int64(1)
		for i := int64(0); i < int64(k); i++ {
			combos = combos * (n - i) / (i + 1)
		}
		alts := int64(1)
		for i := 0; i < k; i++ {
			alts *= charsetSize - 1
		}
		total += combos * alts
	}
	return total
}

// sortCandidates orders candidates by corrected string, giving searches
// a deterministic result independent of worker scheduling.
func sortCandidates(cands []Candidate) {
	sort.Slice(cands, func(i, j int) bool {
		return cands[i].Corrected < cands[j].Corrected
	})
}
