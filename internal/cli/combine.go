package cli

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Davincible/rijndael/internal/validation"
	"github.com/Davincible/rijndael/pkg/crypto/keys"
	"github.com/Davincible/rijndael/pkg/secure"
)

func NewCombineKeyCommand() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "combine-key [share...]",
		Short: "Rebuild a key from escrow shares",
		Long: `Rebuild a cipher key from the hex escrow shares printed by 'keygen --split'.
Shares are given as arguments or one per line in a file. Fewer shares than
the threshold produce a wrong key without any error.`,
		Example: `  # Combine shares given on the command line
  rijndael combine-key 3c5f... 9a01... e7d2...

  # Combine shares from a file
  rijndael combine-key -i shares.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			shareStrs := args
			if input != "" {
				data, err := os.ReadFile(input)
				if err != nil {
					return fmt.Errorf("failed to read shares file: %w", err)
				}
				for _, line := range strings.Split(validation.SanitizeInput(string(data)), "\n") {
					if line != "" {
						shareStrs = append(shareStrs, line)
					}
				}
			}
			if len(shareStrs) < 2 {
				return fmt.Errorf("at least 2 shares are required, got %d", len(shareStrs))
			}

			shares := make([][]byte, 0, len(shareStrs))
			for i, s := range shareStrs {
				if err := validation.ValidateShare(s); err != nil {
					return fmt.Errorf("share %d: %w", i+1, err)
				}
				share, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
				if err != nil {
					return fmt.Errorf("share %d: %w", i+1, err)
				}
				shares = append(shares, share)
			}

			key, err := keys.CombineKey(shares)
			if err != nil {
				return err
			}
			defer secure.Zero(key)
			slog.Debug("Combined key", "shares", len(shares), "key_bits", len(key)*8)

			result, err := newKeyResult(key)
			if err != nil {
				return err
			}

			if jsonOutput(cmd) {
				return printJSON(cmd, result)
			}
			printKeyResult(cmd, "RECOVERED KEY", result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "File with one hex share per line")

	return cmd
}
