// derive_shares.go prints the share set a seed and salt deterministically
// produce, for regenerating reference fixtures.
// Usage: go run scripts/derive_shares.go <seed-hex> <threshold> <ident> <count> <salt-hex>
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"

	"github.com/FractalEncrypt/Seedsigner-Codex32/pkg/codex32"
)

func main() {
	if len(os.Args) < 6 {
		fmt.Fprintln(os.Stderr, "usage: derive_shares <seed-hex> <threshold> <ident> <count> <salt-hex>")
		os.Exit(1)
	}
	seed, err := hex.DecodeString(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	threshold, err := strconv.Atoi(os.Args[2])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	count, err := strconv.Atoi(os.Args[4])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	salt, err := hex.DecodeString(os.Args[5])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	secret, err := codex32.FromSeed(seed, threshold, os.Args[3], codex32.SecretIndex, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	shares, err := codex32.Split(secret, count, salt)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("secret=%s\n", secret.String())
	for _, share := range shares {
		fmt.Printf("share_%c=%s\n", share.Index(), share.String())
	}
}
