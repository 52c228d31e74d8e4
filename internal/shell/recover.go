package shell

import (
	"context"
	"encoding/hex"
	"strings"

	"github.com/FractalEncrypt/Seedsigner-Codex32/config"
	"github.com/FractalEncrypt/Seedsigner-Codex32/internal/wallet"
	"github.com/FractalEncrypt/Seedsigner-Codex32/pkg/codex32"
)

// Recover drives the interactive recovery flow: enter one share; a
// master secret displays its seed material immediately, anything else
// starts collecting shares until the threshold is met and the secret
// is interpolated.
func (s *Shell) Recover(ctx context.Context) error {
	s.welcome()

	totalLen := Len128
	if s.cfg.Entry.Mode == config.EntryBox {
		n, err := s.chooseLength()
		if err != nil {
			return err
		}
		totalLen = n
	} else if s.cfg.Entry.SeedBits == 256 {
		totalLen = Len256
	}

	for {
		first, err := s.collectShare(ctx, Prefix, totalLen, 1, 1)
		if err != nil {
			return err
		}

		if first.IsSecret() {
			if s.showSecret(first, false) {
				return nil
			}
			continue
		}

		secret, err := s.collectRemaining(ctx, first)
		if err != nil {
			return err
		}
		if secret == nil {
			continue
		}
		if s.showSecret(secret, true) {
			return nil
		}
	}
}

func (s *Shell) welcome() {
	s.printf("codex32 share entry\n")
	if s.cfg.Entry.Mode == config.EntryFull {
		s.printf("Paste full shares (%d or %d characters).\n", Len128, Len256)
	} else {
		s.printf("Enter characters one box at a time. The %q prefix is pre-filled.\n", Prefix)
		s.printf("Use '<' or an empty line to step back.\n")
	}
}

// collectRemaining gathers shares two through threshold, holding the
// header and length of the first share fixed, then interpolates the
// secret. A nil share with a nil error means recovery failed and the
// flow should restart.
func (s *Shell) collectRemaining(ctx context.Context, first *codex32.Share) (*codex32.Share, error) {
	threshold := first.Threshold()
	prefix := first.String()[:8] // hrp + threshold + identifier, original case
	shares := []*codex32.Share{first}
	seen := map[byte]bool{first.Index(): true}

	for len(shares) < threshold {
		cand, err := s.collectShare(ctx, prefix, first.Len(), len(shares)+1, threshold)
		if err != nil {
			return nil, err
		}
		if cand.Threshold() != first.Threshold() || cand.Ident() != first.Ident() {
			s.printf("Error: share header mismatch (threshold/identifier).\n")
			continue
		}
		if cand.Len() != first.Len() {
			s.printf("Error: share length %d does not match the first share (%d).\n", cand.Len(), first.Len())
			continue
		}
		if seen[cand.Index()] {
			s.printf("Error: duplicate share index %q.\n", cand.Index())
			continue
		}
		shares = append(shares, cand)
		seen[cand.Index()] = true
	}

	secret, err := codex32.RecoverSecret(shares)
	if err != nil {
		s.printf("Error: %v\n", err)
		return nil, nil
	}
	return secret, nil
}

// showSecret prints the recovered seed material: hex seed, BIP-39
// mnemonic, and the BIP-32 master fingerprint. Returns false when the
// payload falls outside the 16/32-byte seed profile so the flow can
// restart.
func (s *Shell) showSecret(secret *codex32.Share, recovered bool) bool {
	seed, err := wallet.SeedFromShare(secret)
	if err != nil {
		s.printf("Error: %v\n", err)
		return false
	}
	mnemonic, err := wallet.MnemonicFromSeed(seed)
	if err != nil {
		s.printf("Error: %v\n", err)
		return false
	}
	master, err := wallet.NewMasterKey(seed)
	if err != nil {
		s.printf("Error: %v\n", err)
		return false
	}

	s.printf("\nCodex32 secret accepted (%d-bit seed).\n", len(seed)*8)
	s.printf("Seed (hex): %s\n", hex.EncodeToString(seed))
	if recovered {
		s.printf("Recovered secret share: %s\n", secret.String())
	}
	s.printf("BIP39 mnemonic (%d words): %s\n", len(strings.Fields(mnemonic)), mnemonic)
	s.printf("Master fingerprint: %s\n", hex.EncodeToString(master.Fingerprint()))
	s.printf("Note: the mnemonic is a display encoding of the BIP32 seed; no PBKDF2 is used.\n")
	s.log.Info().Int("seed_bits", len(seed)*8).Bool("interpolated", recovered).Msg("secret recovered")
	return true
}
