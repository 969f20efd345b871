package cli

import (
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Davincible/rijndael/internal/validation"
	"github.com/Davincible/rijndael/pkg/crypto/keys"
	"github.com/Davincible/rijndael/pkg/secure"
)

type KeyResult struct {
	KeyBits   int      `json:"key_bits"`
	Key       string   `json:"key"`
	Mnemonic  string   `json:"mnemonic"`
	Path      string   `json:"path,omitempty"`
	Shares    []string `json:"shares,omitempty"`
	Threshold int      `json:"threshold,omitempty"`
}

func NewKeygenCommand() *cobra.Command {
	var (
		bits  int
		split string
	)

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a random cipher key",
		Long: `Generate a random 128, 192 or 256-bit key. The key is printed as hex and
as a BIP-39 mnemonic of 12, 18 or 24 words, either of which the encrypt and
decrypt commands accept.

With --split the key is also split into Shamir escrow shares; any
threshold of them rebuild the key with 'combine-key'.`,
		Example: `  # 256-bit key
  rijndael keygen

  # 128-bit key split into 5 shares, any 3 of which recover it
  rijndael keygen --bits 128 --split 5/3

  # JSON output
  rijndael keygen --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := settings(cmd)
			if bits == 0 {
				bits = cfg.Defaults.KeyBits
			}
			if err := validation.ValidateKeyBits(bits); err != nil {
				return err
			}

			km, err := secure.GenerateKey(bits)
			if err != nil {
				return fmt.Errorf("failed to generate key: %w", err)
			}
			defer km.Destroy()
			if km.Bits() != bits {
				return fmt.Errorf("generated a %d-bit key, wanted %d", km.Bits(), bits)
			}

			key := km.Bytes()
			defer secure.Zero(key)

			result, err := newKeyResult(key)
			if err != nil {
				return err
			}

			if split != "" {
				parts, threshold, err := validation.ParseSplitSpec(split)
				if err != nil {
					return err
				}
				if err := addShares(result, km, parts, threshold); err != nil {
					return err
				}
			}
			slog.Debug("Generated key", "key_bits", bits, "shares", len(result.Shares))

			if jsonOutput(cmd) {
				return printJSON(cmd, result)
			}
			printKeyResult(cmd, "NEW KEY", result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&bits, "bits", "b", 0, "Key size: 128, 192 or 256 (default from config)")
	cmd.Flags().StringVar(&split, "split", "", "Split into escrow shares, as PARTS/THRESHOLD (e.g. 5/3)")

	return cmd
}

func newKeyResult(key []byte) (*KeyResult, error) {
	words, err := keys.ToMnemonic(key)
	if err != nil {
		return nil, fmt.Errorf("failed to encode mnemonic: %w", err)
	}
	return &KeyResult{
		KeyBits:  len(key) * 8,
		Key:      keys.ToHex(key),
		Mnemonic: words,
	}, nil
}

// addShares splits the key and checks that threshold shares rebuild it
// before any share is printed
func addShares(result *KeyResult, km *secure.KeyMaterial, parts, threshold int) error {
	key := km.Bytes()
	defer secure.Zero(key)

	shares, err := keys.SplitKey(key, keys.EscrowConfig{Parts: parts, Threshold: threshold})
	if err != nil {
		return err
	}
	defer func() {
		for _, share := range shares {
			secure.Zero(share)
		}
	}()

	if err := verifyShares(km, shares, threshold); err != nil {
		return err
	}

	for _, share := range shares {
		result.Shares = append(result.Shares, hex.EncodeToString(share))
	}
	result.Threshold = threshold
	return nil
}

func verifyShares(km *secure.KeyMaterial, shares [][]byte, threshold int) error {
	if len(shares) < threshold {
		return fmt.Errorf("have %d shares, threshold is %d", len(shares), threshold)
	}

	recovered, err := keys.CombineKey(shares[len(shares)-threshold:])
	if err != nil {
		return fmt.Errorf("escrow shares do not combine: %w", err)
	}
	defer secure.Zero(recovered)

	rebuilt, err := secure.NewKeyMaterial(recovered)
	if err != nil {
		return fmt.Errorf("escrow shares do not combine: %w", err)
	}
	defer rebuilt.Destroy()

	if !km.Equal(rebuilt) {
		return fmt.Errorf("escrow shares do not rebuild the key")
	}
	return nil
}

func printKeyResult(cmd *cobra.Command, title string, result *KeyResult) {
	w := cmd.OutOrStdout()
	green := color.New(color.FgGreen, color.Bold)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed, color.Bold)

	fmt.Fprintln(w)
	green.Fprintf(w, "=== %s (%d-bit) ===\n", title, result.KeyBits)
	fmt.Fprintln(w)

	if result.Path != "" {
		yellow.Fprintln(w, "Derivation Path:")
		fmt.Fprintf(w, "  %s\n\n", result.Path)
	}

	yellow.Fprintln(w, "Key (hex):")
	fmt.Fprintf(w, "  %s\n\n", result.Key)

	yellow.Fprintln(w, "Key (mnemonic):")
	printWords(w, result.Mnemonic)
	fmt.Fprintln(w)

	if len(result.Shares) > 0 {
		yellow.Fprintf(w, "Escrow shares (any %d of %d):\n", result.Threshold, len(result.Shares))
		for i, share := range result.Shares {
			fmt.Fprintf(w, "  %d: %s\n", i+1, share)
		}
		fmt.Fprintln(w)
	}

	red.Fprintln(w, "⚠️  Anyone holding this key can decrypt your data. Store it offline.")
}
