// Package shell implements the interactive terminal flows: guided
// share entry (box-by-box or full paste), secret recovery, and share
// building.
//
// All input comes from an injected reader and all output goes to an
// injected writer, so a terminal and a test pipe drive the flows the
// same way.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/FractalEncrypt/Seedsigner-Codex32/config"
	"github.com/FractalEncrypt/Seedsigner-Codex32/internal/log"
)

// Prefix is the fixed part every codex32 string starts with; entry
// flows pre-fill it.
const Prefix = "MS1"

// Total share lengths for the two seed profiles.
const (
	Len128 = 48
	Len256 = 74
)

// ErrCancelled reports that the user ended the flow before completing
// it (end of input).
var ErrCancelled = errors.New("shell: entry cancelled")

// Shell drives the interactive flows.
type Shell struct {
	in  *bufio.Scanner
	out io.Writer
	cfg *config.Config
	log zerolog.Logger
}

// New creates a shell reading from in and writing to out.
func New(in io.Reader, out io.Writer, cfg *config.Config) *Shell {
	return &Shell{
		in:  bufio.NewScanner(in),
		out: out,
		cfg: cfg,
		log: log.Shell,
	}
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// readLine prints the prompt and returns the next input line, leading
// and trailing whitespace removed. End of input surfaces as
// ErrCancelled.
func (s *Shell) readLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", fmt.Errorf("shell: read input: %w", err)
		}
		fmt.Fprintln(s.out)
		return "", ErrCancelled
	}
	return strings.TrimSpace(s.in.Text()), nil
}

// confirm asks a yes/no question; only "y" and "yes" accept.
func (s *Shell) confirm(prompt string) (bool, error) {
	line, err := s.readLine(prompt + " [y/N]: ")
	if err != nil {
		return false, err
	}
	line = strings.ToLower(line)
	return line == "y" || line == "yes", nil
}

// chooseLength asks which seed profile to enter. The configured size
// is the default.
func (s *Shell) chooseLength() (int, error) {
	def := "1"
	if s.cfg.Entry.SeedBits == 256 {
		def = "2"
	}
	s.printf("\nSelect seed size:\n")
	s.printf("  [1] 128-bit (%d characters, 12-word mnemonic)\n", Len128)
	s.printf("  [2] 256-bit (%d characters, 24-word mnemonic)\n", Len256)
	for {
		choice, err := s.readLine(fmt.Sprintf("Enter 1 or 2 [default: %s]: ", def))
		if err != nil {
			return 0, err
		}
		if choice == "" {
			choice = def
		}
		switch choice {
		case "1":
			return Len128, nil
		case "2":
			return Len256, nil
		}
		s.printf("Invalid choice. Enter 1 or 2.\n")
	}
}
