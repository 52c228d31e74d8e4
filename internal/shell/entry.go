package shell

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/FractalEncrypt/Seedsigner-Codex32/config"
	"github.com/FractalEncrypt/Seedsigner-Codex32/pkg/codex32"
	"github.com/FractalEncrypt/Seedsigner-Codex32/pkg/repair"
)

// progress renders the partially entered string padded with
// underscores to the target length.
func (s *Shell) progress(current string, totalLen int) {
	remaining := totalLen - len(current)
	if remaining < 0 {
		remaining = 0
	}
	s.printf("Progress: %s%s\n", current, strings.Repeat("_", remaining))
}

// collectBoxes reads one character per prompt until the string reaches
// totalLen. The prefix is pre-filled; '<' or an empty line steps one
// box back. Characters are folded to the prefix's case so the result
// is single-case.
func (s *Shell) collectBoxes(prefix string, totalLen int) (string, error) {
	upper := strings.ToUpper(prefix) == prefix
	current := prefix
	s.progress(current, totalLen)
	for len(current) < totalLen {
		line, err := s.readLine(fmt.Sprintf("Box %02d: ", len(current)+1))
		if err != nil {
			return "", err
		}
		if line == "" || line == "<" {
			if len(current) > len(prefix) {
				current = current[:len(current)-1]
				s.progress(current, totalLen)
			} else {
				s.printf("Error: already at the first editable box.\n")
			}
			continue
		}
		if len(line) != 1 {
			s.printf("Error: enter exactly one character.\n")
			continue
		}
		ch := strings.ToLower(line)
		if strings.IndexByte(codex32.Charset, ch[0]) < 0 {
			s.printf("Error: %q is not in the bech32 charset.\n", line)
			continue
		}
		if upper {
			ch = strings.ToUpper(ch)
		}
		current += ch
		s.progress(current, totalLen)
	}
	return current, nil
}

// collectShare runs one complete share entry: collect characters,
// preview, confirm, parse, and offer the correction search when the
// parse fails. It loops until a share is accepted or the input ends.
func (s *Shell) collectShare(ctx context.Context, prefix string, totalLen, index, total int) (*codex32.Share, error) {
	for {
		s.printf("\nEnter share %d of %d:\n", index, total)

		var raw string
		var err error
		if s.cfg.Entry.Mode == config.EntryFull {
			s.printf("Prefix hint: %s...\n", prefix)
			raw, err = s.readLine("Paste full codex32 share: ")
			if err != nil {
				return nil, err
			}
			raw = codex32.Sanitize(raw)
			if raw == "" {
				s.printf("Error: share input cannot be empty.\n")
				continue
			}
		} else {
			raw, err = s.collectBoxes(prefix, totalLen)
			if err != nil {
				return nil, err
			}
		}

		s.printf("\nPreview:\n%s\n", raw)
		ok, err := s.confirm("Submit this codex32 string?")
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		share, perr := codex32.Parse(raw)
		if perr == nil {
			return share, nil
		}
		s.printf("Error: %v\n", perr)

		corrected, err := s.offerCorrection(ctx, raw)
		if err != nil {
			return nil, err
		}
		if corrected == "" {
			continue
		}
		share, perr = codex32.Parse(corrected)
		if perr != nil {
			s.printf("Error: correction still invalid, please re-enter.\n")
			continue
		}
		return share, nil
	}
}

// offerCorrection runs the bounded substitution search over a string
// that failed validation and walks the user through the candidates.
// An empty result with a nil error means no correction was accepted.
func (s *Shell) offerCorrection(ctx context.Context, raw string) (string, error) {
	ok, err := s.confirm("Search for corrections?")
	if err != nil || !ok {
		return "", err
	}

	opts := repair.Options{
		MaxErrors:   s.cfg.Repair.MaxErrors,
		StopOnFirst: s.cfg.Repair.StopOnFirst,
		Workers:     s.cfg.Repair.Workers,
		Log:         &s.log,
	}
	s.printf("Searching with up to %d substitution errors...\n", opts.MaxErrors)
	res, err := repair.Search(ctx, raw, opts)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		s.printf("Error: %v\n", err)
		return "", nil
	}
	if !res.Found() {
		s.printf("No correction found: %s.\n", res.Message)
		return "", nil
	}

	cand, err := s.chooseCandidate(res.Candidates)
	if err != nil || cand == nil {
		return "", err
	}
	return cand.Corrected, nil
}

// chooseCandidate presents the found corrections. A single candidate
// asks for a yes/no; several ask for a pick by number first.
func (s *Shell) chooseCandidate(cands []repair.Candidate) (*repair.Candidate, error) {
	if len(cands) == 1 {
		c := &cands[0]
		s.showCandidate(c)
		ok, err := s.confirm("Accept this correction?")
		if err != nil || !ok {
			return nil, err
		}
		return c, nil
	}

	s.printf("\n%d correction candidates found:\n", len(cands))
	for i := range cands {
		s.printf("  [%d] %s (errors: %d)\n", i+1, cands[i].Corrected, cands[i].ErrorCount)
	}
	for {
		line, err := s.readLine(fmt.Sprintf("Choose 1-%d (or press Enter to skip): ", len(cands)))
		if err != nil {
			return nil, err
		}
		if line == "" {
			return nil, nil
		}
		n, aerr := strconv.Atoi(line)
		if aerr != nil || n < 1 || n > len(cands) {
			s.printf("Error: enter a number between 1 and %d.\n", len(cands))
			continue
		}
		c := &cands[n-1]
		s.showCandidate(c)
		ok, err := s.confirm("Accept this correction?")
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		return c, nil
	}
}

// showCandidate prints the original and corrected strings with the
// changed positions marked.
func (s *Shell) showCandidate(c *repair.Candidate) {
	s.printf("\nCorrection candidate:\n")
	s.printf("Original:  %s\n", c.Original)
	s.printf("Corrected: %s\n", c.Corrected)
	if len(c.Changes) > 0 {
		marks := make([]byte, len(c.Corrected))
		for i := range marks {
			marks[i] = ' '
		}
		for _, ch := range c.Changes {
			if ch.Position < len(marks) {
				marks[ch.Position] = '^'
			}
		}
		s.printf("           %s\n", strings.TrimRight(string(marks), " "))
	}
}
