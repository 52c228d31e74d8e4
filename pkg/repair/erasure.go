package repair

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/FractalEncrypt/Seedsigner-Codex32/pkg/codex32"
)

// SearchErasures corrects a string whose damaged positions are already
// known, trying every charset character at each erased position and
// keeping the fills the codec validates. Positions index the sanitized
// string and may cover the header as well as the data part. Knowing the
// positions buys a far deeper search than Search: up to MaxErasures
// symbols against MaxSearchErrors.
//
// Every returned candidate carries ErrorCount equal to the number of
// erasures; Changes lists only the positions whose fill differs from
// the input.
func SearchErasures(ctx context.Context, input string, positions []int, opts Options) (*Result, error) {
	opts = opts.normalized()

	s := codex32.Sanitize(input)
	if s == "" {
		return nil, &codex32.Error{Kind: codex32.KindMalformed, Detail: "empty string"}
	}
	if len(positions) > MaxErasures {
		return nil, codex32.ErrUncorrectablef("%d erasures exceed the limit of %d", len(positions), MaxErasures)
	}
	seen := make(map[int]bool, len(positions))
	for _, p := range positions {
		if p < 0 || p >= len(s) {
			return nil, &codex32.Error{
				Kind:   codex32.KindMalformed,
				Detail: fmt.Sprintf("erasure position %d out of range for %d symbols", p, len(s)),
			}
		}
		if seen[p] {
			return nil, &codex32.Error{
				Kind:   codex32.KindMalformed,
				Detail: fmt.Sprintf("duplicate erasure position %d", p),
			}
		}
		seen[p] = true
	}
	sorted := append([]int(nil), positions...)
	sort.Ints(sorted)

	working := strings.ToLower(s)
	upper := isUpper(s)

	workers := opts.Workers
	if len(sorted) == 0 {
		workers = 1
	} else if workers > charsetSize {
		workers = charsetSize
	}
	opts.Log.Debug().
		Int("length", len(working)).
		Ints("positions", sorted).
		Int("workers", workers).
		Msg("starting erasure search")

	sctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan []Candidate, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			fs := &fillSearcher{
				ctx:         sctx,
				cancel:      cancel,
				buf:         []byte(working),
				base:        working,
				positions:   sorted,
				offset:      offset,
				stride:      workers,
				stopOnFirst: opts.StopOnFirst,
			}
			fs.run()
			results <- fs.hits
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

	if len(all) > 0 {
		finishCandidates(all, s, upper)
		sortCandidates(all)
		if opts.StopOnFirst {
			all = all[:1]
		}
		opts.Log.Debug().Int("candidates", len(all)).Msg("erasure search found candidates")
		return &Result{Candidates: all}, nil
	}
	opts.Log.Debug().Msg("erasure search exhausted")
	return &Result{Message: "no valid correction found for the given erasure positions"}, nil
}

// fillSearcher walks one worker's partition of the erasure fill space.
// Workers stride over the fill character of the first erased position.
type fillSearcher struct {
	ctx         context.Context
	cancel      context.CancelFunc
	buf         []byte
	base        string
	positions   []int
	offset      int
	stride      int
	stopOnFirst bool

	hits    []Candidate
	steps   int
	stopped bool
}

func (f *fillSearcher) run() {
	if len(f.positions) == 0 {
		f.leaf()
		return
	}
	pos := f.positions[0]
	for ci := f.offset; ci < charsetSize && !f.stopped; ci += f.stride {
		f.buf[pos] = codex32.Charset[ci]
		f.walk(1)
	}
	f.buf[pos] = f.base[pos]
}

func (f *fillSearcher) walk(idx int) {
	if idx == len(f.positions) {
		f.leaf()
		return
	}
	pos := f.positions[idx]
	for ci := 0; ci < charsetSize && !f.stopped; ci++ {
		f.buf[pos] = codex32.Charset[ci]
		f.walk(idx + 1)
	}
	f.buf[pos] = f.base[pos]
}

func (f *fillSearcher) leaf() {
	f.steps++
	if f.steps&0x0FFF == 0 {
		select {
		case <-f.ctx.Done():
			f.stopped = true
			return
		default:
		}
	}
	if codex32.Validate(string(f.buf)) != nil {
		return
	}
	var changes []Change
	for _, p := range f.positions {
		if f.buf[p] != f.base[p] {
			changes = append(changes, Change{Position: p, From: f.base[p], To: f.buf[p]})
		}
	}
	f.hits = append(f.hits, Candidate{
		Corrected:  string(f.buf),
		ErrorCount: len(f.positions),
		Changes:    changes,
	})
	if f.stopOnFirst {
		f.stopped = true
		f.cancel()
	}
}
