package repair

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/FractalEncrypt/Seedsigner-Codex32/pkg/codex32"
)

// Search attempts to correct a damaged codex32 string by trying
// substitutions and keeping candidates the codec validates. Depths are
// searched in increasing order and the search stops at the first depth
// that yields any candidate, so simpler corrections always win. An
// already-valid string returns itself as a zero-error candidate.
//
// Candidates are reported in the case of the input and sorted by
// corrected string. The error return covers malformed input and context
// cancellation; an exhausted search is a Result with a Message.
func Search(ctx context.Context, input string, opts Options) (*Result, error) {
	opts = opts.normalized()

	s := codex32.Sanitize(input)
	if s == "" {
		return nil, &codex32.Error{Kind: codex32.KindMalformed, Detail: "empty string"}
	}
	working := strings.ToLower(s)
	upper := isUpper(s)
	if codex32.Validate(working) == nil {
		cands := []Candidate{{Corrected: working}}
		finishCandidates(cands, s, upper)
		return &Result{Candidates: cands}, nil
	}
	opts.Log.Debug().
		Int("length", len(working)).
		Int("max_errors", opts.MaxErrors).
		Int64("search_space", EstimateSearchSpace(len(working), opts.MaxErrors)).
		Msg("starting substitution search")

	for count := 1; count <= opts.MaxErrors; count++ {
		cands, err := searchDepth(ctx, working, count, opts)
		if err != nil {
			return nil, err
		}
		if len(cands) > 0 {
			finishCandidates(cands, s, upper)
			sortCandidates(cands)
			if opts.StopOnFirst {
				cands = cands[:1]
			}
			opts.Log.Debug().
				Int("errors", count).
				Int("candidates", len(cands)).
				Msg("substitution search found candidates")
			return &Result{Candidates: cands}, nil
		}
	}

	opts.Log.Debug().Int("max_errors", opts.MaxErrors).Msg("substitution search exhausted")
	return &Result{
		Message: fmt.Sprintf("no valid correction found with up to %d substitution errors", opts.MaxErrors),
	}, nil
}

// searchDepth enumerates every combination of exactly count substituted
// positions. Workers partition the search by striding over the first
// substituted position, the way mining strides the nonce space.
func searchDepth(ctx context.Context, working string, count int, opts Options) ([]Candidate, error) {
	// A string too short to host count substitutions after the prefix
	// has an empty search space at this depth.
	span := len(working) - dataStart - count + 1
	if span <= 0 {
		return nil, nil
	}
	workers := opts.Workers
	if workers > span {
		workers = span
	}

	sctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan []Candidate, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			ds := &depthSearcher{
				ctx:         sctx,
				cancel:      cancel,
				buf:         []byte(working),
				count:       count,
				offset:      offset,
				stride:      workers,
				stopOnFirst: opts.StopOnFirst,
			}
			ds.run()
			results <- ds.hits
		}(w)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var all []Candidate
	for hits := range results {
		all = append(all, hits...)
	}
	if len(all) == 0 && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return all, nil
}

// depthSearcher walks one worker's partition of the fixed-depth
// substitution space over a private buffer.
type depthSearcher struct {
	ctx         context.Context
	cancel      context.CancelFunc
	buf         []byte
	count       int
	offset      int
	stride      int
	stopOnFirst bool

	hits    []Candidate
	steps   int
	stopped bool
}

func (s *depthSearcher) run() {
	limit := len(s.buf) - s.count
	for first := dataStart + s.offset; first <= limit && !s.stopped; first += s.stride {
		s.tryPosition(first, s.count, nil)
	}
}

// tryPosition substitutes every alternate character at pos, recursing
// into later positions while substitutions remain.
func (s *depthSearcher) tryPosition(pos, remaining int, changes []Change) {
	orig := s.buf[pos]
	for ci := 0; ci < charsetSize && !s.stopped; ci++ {
		alt := codex32.Charset[ci]
		if alt == orig {
			continue
		}
		s.buf[pos] = alt
		cs := append(changes, Change{Position: pos, From: orig, To: alt})
		if remaining == 1 {
			s.leaf(cs)
			continue
		}
		for next := pos + 1; next <= len(s.buf)-(remaining-1) && !s.stopped; next++ {
			s.tryPosition(next, remaining-1, cs)
		}
	}
	s.buf[pos] = orig
}

func (s *depthSearcher) leaf(changes []Change) {
	s.steps++
	if s.steps&0x0FFF == 0 {
		select {
		case <-s.ctx.Done():
			s.stopped = true
			return
		default:
		}
	}
	if codex32.Validate(string(s.buf)) != nil {
		return
	}
	s.hits = append(s.hits, Candidate{
		Corrected:  string(s.buf),
		ErrorCount: s.count,
		Changes:    append([]Change(nil), changes...),
	})
	if s.stopOnFirst {
		s.stopped = true
		s.cancel()
	}
}

// finishCandidates fills the original string and restores the input
// case on candidates produced over the lowercase working buffer.
func finishCandidates(cands []Candidate, original string, upper bool) {
	for i := range cands {
		cands[i].Original = original
		if !upper {
			continue
		}
		cands[i].Corrected = strings.ToUpper(cands[i].Corrected)
		for j := range cands[i].Changes {
			ch := &cands[i].Changes[j]
			ch.From = upperByte(ch.From)
			ch.To = upperByte(ch.To)
		}
	}
}

// isUpper reports whether s is a purely uppercase string: uppercase
// letters present and no lowercase ones.
func isUpper(s string) bool {
	hasUpper := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			return false
		}
		if c >= 'A' && c <= 'Z' {
			hasUpper = true
		}
	}
	return hasUpper
}

func upperByte(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
