// codex32 is the command-line tool for codex32 (BIP-93) seed backups:
// splitting a master seed into shares, validating and correcting
// damaged strings, and recovering the seed with its mnemonic and
// wallet fingerprint.
package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/FractalEncrypt/Seedsigner-Codex32/config"
	"github.com/FractalEncrypt/Seedsigner-Codex32/internal/log"
	"github.com/FractalEncrypt/Seedsigner-Codex32/internal/shell"
	"github.com/FractalEncrypt/Seedsigner-Codex32/internal/wallet"
	"github.com/FractalEncrypt/Seedsigner-Codex32/pkg/codex32"
	"github.com/FractalEncrypt/Seedsigner-Codex32/pkg/repair"
	"golang.org/x/term"
)

// version is stamped by the release build.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	// Parse global flags that appear before the subcommand.
	configPath := ""
	quiet := false
	var overrides config.Overrides

	// Scan for --config, --log-level, --log-file, --log-json, and
	// --quiet before the subcommand.
	args := os.Args[1:]
	for len(args) > 0 {
		switch {
		case args[0] == "--config" && len(args) > 1:
			configPath = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--config="):
			configPath = args[0][len("--config="):]
			args = args[1:]
		case args[0] == "--log-level" && len(args) > 1:
			overrides.LogLevel = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--log-level="):
			overrides.LogLevel = args[0][len("--log-level="):]
			args = args[1:]
		case args[0] == "--log-file" && len(args) > 1:
			overrides.LogFile = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--log-file="):
			overrides.LogFile = args[0][len("--log-file="):]
			args = args[1:]
		case args[0] == "--log-json":
			overrides.LogJSON = true
			overrides.SetLogJSON = true
			args = args[1:]
		case args[0] == "--quiet":
			quiet = true
			args = args[1:]
		default:
			goto dispatch
		}
	}

dispatch:
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	cmd := args[0]
	cmdArgs := args[1:]

	// help and version must work without touching the data dir.
	switch cmd {
	case "help", "--help", "-h":
		usage()
		return
	case "version":
		fmt.Printf("codex32 %s\n", version)
		return
	}

	cfg, err := config.Load(configPath, &overrides)
	if err != nil {
		fatal("%v", err)
	}
	if quiet {
		cfg.Log.Level = "error"
	}
	if err := log.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		fatal("open log file: %v", err)
	}
	log.CLI.Debug().Str("command", cmd).Msg("dispatch")

	switch cmd {
	case "enter":
		cmdEnter(cfg, cmdArgs)
	case "build":
		cmdBuild(cfg, cmdArgs)
	case "split":
		cmdSplit(cfg, cmdArgs)
	case "validate":
		cmdValidate(cmdArgs)
	case "correct":
		cmdCorrect(cfg, cmdArgs)
	case "recover":
		cmdRecover(cmdArgs)
	case "seed":
		cmdSeed(cmdArgs)
	case "wallet":
		cmdWallet(cfg, cmdArgs)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: codex32 [global flags] <command> [flags]

An air-gapped tool for codex32 (BIP-93) seed backups: split a master
seed into shares, validate and correct damaged strings, and recover
the seed with its BIP-39 mnemonic and wallet fingerprint.

Global flags:
  --config <path>     Config file (default: ~/.codex32/codex32.conf)
  --log-level <lvl>   debug, info, warn, or error (default: info)
  --log-file <path>   Also write JSON logs to a file
  --log-json          JSON log output on the console
  --quiet             Errors only

Commands:
  enter [--mode box|full] [--bits 128|256]
                                  Interactive share entry and recovery
  build [--threshold <k>] [--ident <name>]
                                  Interactive share-set builder
  split --ident <name> [--threshold <k>] [--count <n>] [--seed <hex>|-]
                                  Split a master seed into shares
  validate <string>               Check a codex32 string and show its header
  correct [--max-errors <n>] [--first] [--erasures <p,p>] [--algebraic] <string>
                                  Search for checksum corrections
  recover <share> [<share>...]    Recover the secret from enough shares
  seed [--mnemonic] <share>       Show the master seed of an s-index share
  wallet [--path <m/...>] [--network <net>] <share>
                                  Show fingerprint and extended public key
  version                         Show version
  help                            Show this help
`)
}

// ── interactive flows ───────────────────────────────────────────────────

func cmdEnter(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("enter", flag.ExitOnError)
	mode := fs.String("mode", string(cfg.Entry.Mode), "Entry mode: box or full")
	bits := fs.Int("bits", cfg.Entry.SeedBits, "Seed size in bits (128 or 256)")
	fs.Parse(args)

	cfg.Entry.Mode = config.EntryMode(*mode)
	cfg.Entry.SeedBits = *bits
	if err := config.Validate(cfg); err != nil {
		fatal("%v", err)
	}

	ctx, cancel := interruptContext()
	defer cancel()

	sh := shell.New(os.Stdin, os.Stdout, cfg)
	exitShell(sh.Recover(ctx))
}

func cmdBuild(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	threshold := fs.Int("threshold", 0, "Preset recovery threshold (2-9)")
	ident := fs.String("ident", "", "Preset four-character identifier")
	fs.Parse(args)

	sh := shell.New(os.Stdin, os.Stdout, cfg)
	exitShell(sh.Build(shell.BuildOptions{Threshold: *threshold, Ident: *ident}))
}

// exitShell maps a shell flow result to an exit status. Cancelled
// entry is not an error worth a stack of context, just a note.
func exitShell(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, shell.ErrCancelled) {
		fmt.Fprintln(os.Stderr, "Cancelled.")
		os.Exit(1)
	}
	fatal("%v", err)
}

// ── split ───────────────────────────────────────────────────────────────

func cmdSplit(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("split", flag.ExitOnError)
	threshold := fs.Int("threshold", 2, "Recovery threshold k (2-9)")
	ident := fs.String("ident", "", "Four-character bech32 identifier (required)")
	count := fs.Int("count", 0, "Number of shares to generate (default: threshold)")
	seedFlag := fs.String("seed", "-", "Master seed as hex or a BIP-39 mnemonic; - prompts for it")
	fs.Parse(args)

	if *ident == "" {
		fatal("Usage: codex32 split --ident <name> [--threshold <k>] [--count <n>] [--seed <hex>|-]")
	}
	if *threshold < 2 || *threshold > 9 {
		fatal("threshold must be between 2 and 9, got %d", *threshold)
	}
	if *count == 0 {
		*count = *threshold
	}

	seed, err := seedMaterial(*seedFlag)
	if err != nil {
		fatal("read seed: %v", err)
	}
	if !wallet.ValidSeedSize(len(seed)) {
		fatal("seed must be 16 or 32 bytes, got %d", len(seed))
	}

	secret, err := codex32.FromSeed(seed, *threshold, strings.ToLower(*ident), codex32.SecretIndex, cfg.Entry.Uppercase)
	if err != nil {
		fatal("%v", err)
	}
	shares, err := codex32.Split(secret, *count, nil)
	if err != nil {
		fatal("%v", err)
	}
	log.CLI.Debug().Int("threshold", *threshold).Int("count", *count).Msg("share set generated")

	fmt.Printf("Generated shares (any %d of %d recover the secret):\n", *threshold, *count)
	for _, share := range shares {
		fmt.Printf("Share %c: %s\n", displayIndex(share), share.String())
	}
	fmt.Printf("\nSecret (index 's', keep offline): %s\n", secret.String())
}

// seedMaterial turns the --seed value into seed bytes: "-" prompts
// (hidden when stdin is a terminal), otherwise the value is decoded as
// hex first and as a BIP-39 mnemonic second.
func seedMaterial(v string) ([]byte, error) {
	if v == "-" {
		entered, err := readSecret("Master seed (hex or mnemonic): ")
		if err != nil {
			return nil, err
		}
		v = string(entered)
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, fmt.Errorf("empty seed")
	}
	if seed, err := hex.DecodeString(v); err == nil {
		return seed, nil
	}
	return wallet.EntropyFromMnemonic(v)
}

// ── validate ────────────────────────────────────────────────────────────

func cmdValidate(args []string) {
	if len(args) < 1 {
		fatal("Usage: codex32 validate <string>")
	}

	share, err := codex32.Parse(codex32.Sanitize(args[0]))
	if err != nil {
		fatal("%v", err)
	}

	role := "share"
	if share.IsSecret() {
		role = "master secret"
	}
	fmt.Printf("Valid codex32 %s.\n", role)
	if share.Threshold() == 0 {
		fmt.Printf("Threshold:   0 (no secret splitting)\n")
	} else {
		fmt.Printf("Threshold:   %d\n", share.Threshold())
	}
	fmt.Printf("Identifier:  %s\n", share.Ident())
	fmt.Printf("Share index: %c\n", share.Index())
	fmt.Printf("Length:      %d characters (%s)\n", share.Len(), describePayload(share))
}

func describePayload(share *codex32.Share) string {
	n := len(share.Seed())
	if wallet.ValidSeedSize(n) {
		return fmt.Sprintf("%d-bit seed", n*8)
	}
	return fmt.Sprintf("%d-byte payload", n)
}

// ── correct ─────────────────────────────────────────────────────────────

func cmdCorrect(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("correct", flag.ExitOnError)
	maxErrors := fs.Int("max-errors", cfg.Repair.MaxErrors, "Substitution search depth (1-4)")
	first := fs.Bool("first", cfg.Repair.StopOnFirst, "Stop at the first valid candidate")
	erasures := fs.String("erasures", "", "Comma-separated damaged positions (erasure correction)")
	algebraic := fs.Bool("algebraic", false, "Use the algebraic BCH decoder instead of the search")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fatal("Usage: codex32 correct [flags] <string>")
	}
	if *algebraic && *erasures != "" {
		fatal("--algebraic and --erasures are mutually exclusive")
	}
	input := fs.Arg(0)

	opts := repair.Options{
		MaxErrors:   *maxErrors,
		StopOnFirst: *first,
		Workers:     cfg.Repair.Workers,
		Log:         &log.Repair,
	}

	ctx, cancel := interruptContext()
	defer cancel()

	done := log.Benchmark("correct")
	var res *repair.Result
	var err error
	switch {
	case *algebraic:
		res, err = repair.Algebraic(input, opts)
	case *erasures != "":
		positions, perr := parsePositions(*erasures)
		if perr != nil {
			fatal("%v", perr)
		}
		res, err = repair.SearchErasures(ctx, input, positions, opts)
	default:
		res, err = repair.Search(ctx, input, opts)
	}
	done()

	if err != nil {
		fatal("%v", err)
	}
	if !res.Found() {
		fmt.Println(res.Message)
		os.Exit(1)
	}

	fmt.Printf("Damaged:  %s\n", res.Candidates[0].Original)
	for i, c := range res.Candidates {
		fmt.Printf("\nCandidate %d (errors: %d):\n", i+1, c.ErrorCount)
		fmt.Printf("  %s\n", c.Corrected)
		if line := marks(c.Changes, len(c.Corrected)); line != "" {
			fmt.Printf("  %s\n", line)
		}
	}
}

func parsePositions(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	positions := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("bad erasure position %q", part)
		}
		positions = append(positions, n)
	}
	return positions, nil
}

// marks renders a caret line flagging each changed position.
func marks(changes []repair.Change, length int) string {
	line := make([]byte, length)
	for i := range line {
		line[i] = ' '
	}
	for _, ch := range changes {
		if ch.Position >= 0 && ch.Position < length {
			line[ch.Position] = '^'
		}
	}
	return strings.TrimRight(string(line), " ")
}

// ── recover ─────────────────────────────────────────────────────────────

func cmdRecover(args []string) {
	if len(args) < 1 {
		fatal("Usage: codex32 recover <share> [<share>...]")
	}

	shares := make([]*codex32.Share, 0, len(args))
	for i, arg := range args {
		share, err := codex32.Parse(codex32.Sanitize(arg))
		if err != nil {
			fatal("share %d: %v", i+1, err)
		}
		shares = append(shares, share)
	}

	secret, err := codex32.RecoverSecret(shares)
	if err != nil {
		fatal("%v", err)
	}

	fmt.Printf("Secret:     %s\n", secret.String())
	if seed, err := wallet.SeedFromShare(secret); err == nil {
		fmt.Printf("Seed (hex): %s\n", hex.EncodeToString(seed))
	}
}

// ── seed ────────────────────────────────────────────────────────────────

func cmdSeed(args []string) {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	mnemonic := fs.Bool("mnemonic", false, "Also print the seed as a BIP-39 mnemonic")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fatal("Usage: codex32 seed [--mnemonic] <share>")
	}

	share, err := codex32.Parse(codex32.Sanitize(fs.Arg(0)))
	if err != nil {
		fatal("%v", err)
	}
	seed, err := wallet.SeedFromShare(share)
	if err != nil {
		fatal("%v", err)
	}

	fmt.Printf("Seed (hex): %s\n", hex.EncodeToString(seed))
	if *mnemonic {
		words, err := wallet.MnemonicFromSeed(seed)
		if err != nil {
			fatal("%v", err)
		}
		fmt.Printf("Mnemonic:   %s\n", words)
	}
}

// ── wallet ──────────────────────────────────────────────────────────────

func cmdWallet(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("wallet", flag.ExitOnError)
	path := fs.String("path", cfg.Wallet.Path, "BIP-32 derivation path for the extended public key")
	networkFlag := fs.String("network", cfg.Wallet.Network, "mainnet or testnet")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fatal("Usage: codex32 wallet [--path <m/...>] [--network <net>] <share>")
	}

	share, err := codex32.Parse(codex32.Sanitize(fs.Arg(0)))
	if err != nil {
		fatal("%v", err)
	}
	seed, err := wallet.SeedFromShare(share)
	if err != nil {
		fatal("%v", err)
	}
	network, err := wallet.ParseNetwork(*networkFlag)
	if err != nil {
		fatal("%v", err)
	}
	indices, err := wallet.ParsePath(*path)
	if err != nil {
		fatal("%v", err)
	}

	master, err := wallet.NewMasterKey(seed)
	if err != nil {
		fatal("%v", err)
	}
	derived, err := master.DerivePath(indices...)
	if err != nil {
		fatal("%v", err)
	}

	fmt.Printf("Network:     %s\n", network)
	fmt.Printf("Fingerprint: %x\n", master.Fingerprint())
	fmt.Printf("Path:        %s\n", *path)
	fmt.Printf("Public key:  %s\n", derived.ExtendedPublicKey(network))
}

// ── helpers ─────────────────────────────────────────────────────────────

func displayIndex(share *codex32.Share) byte {
	c := share.Index()
	if share.IsUpper() && c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

// interruptContext returns a context cancelled on the first SIGINT or
// SIGTERM. A second signal exits immediately.
func interruptContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
		<-sigCh
		os.Exit(130)
	}()
	return ctx, cancel
}

// readSecret reads a line without echo when stdin is a terminal, so
// seed material stays out of the scrollback. Piped input is read as a
// plain line.
func readSecret(prompt string) ([]byte, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		fmt.Fprint(os.Stderr, prompt)
		secret, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr) // newline after hidden input
		return secret, err
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return nil, err
	}
	return []byte(strings.TrimSpace(line)), nil
}

// ── Error helper ────────────────────────────────────────────────────────

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
