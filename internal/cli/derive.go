package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Davincible/rijndael/internal/validation"
	"github.com/Davincible/rijndael/pkg/crypto/keys"
	"github.com/Davincible/rijndael/pkg/secure"
)

func NewDeriveCommand() *cobra.Command {
	var (
		mnemonicStr string
		passphrase  string
		path        string
		bits        int
	)

	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive a cipher key from a mnemonic along a BIP-32 path",
		Long: `Derive a cipher key from the BIP-39 seed of a mnemonic phrase. The seed is
walked along a BIP-32 path and the private key at the end, truncated to the
key size, becomes the cipher key. The same mnemonic, passphrase and path
always give the same key, so one backed-up phrase can stand for many keys.`,
		Example: `  # Derive a 256-bit key at the default path
  rijndael derive --mnemonic "abandon abandon ... about"

  # A separate 128-bit key for another purpose
  rijndael derive --path "m/0'/7'" --bits 128`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := settings(cmd)
			if bits == 0 {
				bits = cfg.Defaults.KeyBits
			}
			if err := validation.ValidateKeyBits(bits); err != nil {
				return err
			}
			if err := validation.ValidateDerivationPath(path); err != nil {
				return err
			}

			if mnemonicStr == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Enter mnemonic phrase: ")
				line, err := readLine(cmd)
				if err != nil {
					return fmt.Errorf("failed to read mnemonic: %w", err)
				}
				mnemonicStr = line
			}
			words := validation.SanitizeInput(mnemonicStr)

			key, err := keys.DeriveFromMnemonic(words, passphrase, path, bits)
			if err != nil {
				return fmt.Errorf("failed to derive key: %w", err)
			}
			defer secure.Zero(key)
			slog.Debug("Derived key", "path", path, "key_bits", bits)

			result, err := newKeyResult(key)
			if err != nil {
				return err
			}
			result.Path = path

			if jsonOutput(cmd) {
				return printJSON(cmd, result)
			}
			printKeyResult(cmd, "DERIVED KEY", result)
			return nil
		},
	}

	cmd.Flags().StringVar(&mnemonicStr, "mnemonic", "", "BIP-39 mnemonic phrase (prompted if empty)")
	cmd.Flags().StringVar(&passphrase, "bip39-passphrase", "", "Optional BIP-39 passphrase")
	cmd.Flags().StringVarP(&path, "path", "p", keys.DefaultPath, "BIP-32 derivation path")
	cmd.Flags().IntVarP(&bits, "bits", "b", 0, "Key size: 128, 192 or 256 (default from config)")

	return cmd
}
