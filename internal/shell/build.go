package shell

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/FractalEncrypt/Seedsigner-Codex32/pkg/codex32"
	"github.com/FractalEncrypt/Seedsigner-Codex32/pkg/gf32"
)

// confusables maps characters commonly misread from printed shares to
// their charset counterparts. Anything else outside the charset
// becomes '0'.
var confusables = map[byte]byte{
	'b': '8',
	'o': '0',
	'i': 'f',
	'1': 'g',
}

type substitution struct {
	from, to byte
}

// BuildOptions presets answers for parts of the building flow. Zero
// values are asked interactively.
type BuildOptions struct {
	Threshold int    // 2-9
	Ident     string // four bech32 characters
}

// payloadLength returns the payload symbol count for a total share
// length: header (prefix, threshold, identifier, index) and the
// 13-symbol checksum removed.
func payloadLength(totalLen int) int {
	return totalLen - 9 - 13
}

// Build drives the interactive share-building flow: threshold,
// identifier, and payload entry, then derivation and printing of the
// full share set.
func (s *Shell) Build(opts BuildOptions) error {
	s.printf("codex32 share builder\n")

	totalLen, err := s.chooseLength()
	if err != nil {
		return err
	}
	threshold := opts.Threshold
	if threshold == 0 {
		if threshold, err = s.promptThreshold(); err != nil {
			return err
		}
	} else if threshold < 2 || threshold > 9 {
		return fmt.Errorf("shell: threshold must be between 2 and 9, got %d", threshold)
	}
	count, err := s.promptCount(threshold)
	if err != nil {
		return err
	}
	ident := strings.ToLower(codex32.Sanitize(opts.Ident))
	if ident == "" {
		if ident, err = s.promptIdent(); err != nil {
			return err
		}
	} else if len(ident) != codex32.IdentLength || outsideCharset(ident) != "" {
		return fmt.Errorf("shell: identifier must be %d bech32 characters, got %q", codex32.IdentLength, opts.Ident)
	}
	payload, err := s.promptPayload("payload", payloadLength(totalLen))
	if err != nil {
		return err
	}

	symbols := make([]gf32.Elem, len(payload))
	for i := 0; i < len(payload); i++ {
		symbols[i] = gf32.Elem(strings.IndexByte(codex32.Charset, payload[i]))
	}
	secret, err := codex32.Build(threshold, ident, codex32.SecretIndex, symbols, s.cfg.Entry.Uppercase)
	if err != nil {
		return fmt.Errorf("shell: build secret: %w", err)
	}
	shares, err := codex32.Split(secret, count, nil)
	if err != nil {
		return fmt.Errorf("shell: split secret: %w", err)
	}

	s.printf("\nGenerated shares (any %d of %d recover the secret):\n", threshold, count)
	for _, share := range shares {
		s.printf("Share %c: %s\n", displayIndex(share), share.String())
	}
	s.printf("\nSecret (index 's', keep offline): %s\n", secret.String())
	s.log.Info().Int("threshold", threshold).Int("count", count).Msg("share set generated")
	return nil
}

func (s *Shell) promptThreshold() (int, error) {
	for {
		line, err := s.readLine("Threshold k, the number of shares needed to recover (2-9): ")
		if err != nil {
			return 0, err
		}
		k, aerr := strconv.Atoi(line)
		if aerr == nil && k >= 2 && k <= 9 {
			return k, nil
		}
		s.printf("Error: threshold must be a number between 2 and 9.\n")
	}
}

func (s *Shell) promptCount(threshold int) (int, error) {
	limit := len(codex32.ShareIndexes)
	for {
		line, err := s.readLine(fmt.Sprintf("Number of shares to generate (%d-%d) [default: %d]: ", threshold, limit, threshold))
		if err != nil {
			return 0, err
		}
		if line == "" {
			return threshold, nil
		}
		n, aerr := strconv.Atoi(line)
		if aerr == nil && n >= threshold && n <= limit {
			return n, nil
		}
		s.printf("Error: count must be between %d and %d.\n", threshold, limit)
	}
}

func (s *Shell) promptIdent() (string, error) {
	for {
		line, err := s.readLine("Four character identifier: ")
		if err != nil {
			return "", err
		}
		ident := strings.ToLower(codex32.Sanitize(line))
		if len(ident) != codex32.IdentLength {
			s.printf("Error: identifier must be exactly %d characters.\n", codex32.IdentLength)
			continue
		}
		if bad := outsideCharset(ident); bad != "" {
			s.printf("Error: identifier must use bech32 characters (%s); invalid: %s\n", codex32.Charset, bad)
			continue
		}
		return ident, nil
	}
}

// promptPayload collects payload characters in chunks until length is
// reached, mapping confusable characters into the charset and
// reporting every substitution made.
func (s *Shell) promptPayload(label string, length int) (string, error) {
	var payload strings.Builder
	var subs []substitution
	for payload.Len() < length {
		var prompt string
		if payload.Len() == 0 {
			prompt = fmt.Sprintf("Enter %s (%d chars): ", label, length)
		} else {
			prompt = fmt.Sprintf("Enter %s (%d chars remaining): ", label, length-payload.Len())
		}
		chunk, err := s.readLine(prompt)
		if err != nil {
			return "", err
		}
		clean, chunkSubs := normalizePayload(codex32.Sanitize(chunk))
		payload.WriteString(clean)
		subs = append(subs, chunkSubs...)
	}

	out := payload.String()
	if len(out) > length {
		out = out[:length]
		s.printf("Payload truncated to %d characters.\n", length)
	}
	if len(subs) > 0 {
		parts := make([]string, len(subs))
		for i, sub := range subs {
			parts[i] = fmt.Sprintf("%c->%c", sub.from, sub.to)
		}
		s.printf("Substituted characters outside the charset: %s\n", strings.Join(parts, ", "))
	}
	return out, nil
}

// normalizePayload lowercases a chunk and maps characters outside the
// bech32 charset into it, returning the substitutions made.
func normalizePayload(chunk string) (string, []substitution) {
	lower := strings.ToLower(chunk)
	var subs []substitution
	var sb strings.Builder
	sb.Grow(len(lower))
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if strings.IndexByte(codex32.Charset, c) >= 0 {
			sb.WriteByte(c)
			continue
		}
		r, ok := confusables[c]
		if !ok {
			r = '0'
		}
		sb.WriteByte(r)
		subs = append(subs, substitution{from: c, to: r})
	}
	return sb.String(), subs
}

// outsideCharset returns the distinct characters of s that are not in
// the bech32 charset, sorted.
func outsideCharset(s string) string {
	seen := map[byte]bool{}
	var bad []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(codex32.Charset, c) < 0 && !seen[c] {
			seen[c] = true
			bad = append(bad, c)
		}
	}
	sort.Slice(bad, func(i, j int) bool { return bad[i] < bad[j] })
	return string(bad)
}

// displayIndex returns the share index in the share's display case.
func displayIndex(share *codex32.Share) byte {
	idx := share.Index()
	if share.IsUpper() && idx >= 'a' && idx <= 'z' {
		idx -= 'a' - 'A'
	}
	return idx
}
