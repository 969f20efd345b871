package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Davincible/rijndael/pkg/crypto/chain"
	"github.com/Davincible/rijndael/pkg/secure"
)

func NewEncryptCommand() *cobra.Command {
	var (
		ks     keySource
		input  string
		output string
		text   string
		armor  bool
	)

	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt a file or text",
		Long: `Encrypt a file, text or stdin with the Rijndael cipher.

The output is a random 16-byte IV followed by the padded message in
cipher-block-chaining order. It is 25 to 40 bytes longer than the input.
The key is given as hex, as a mnemonic, or derived from a passphrase.`,
		Example: `  # Encrypt a file with a hex key
  rijndael encrypt -k 000102030405060708090a0b0c0d0e0f -i notes.txt -o notes.enc

  # Encrypt text with a passphrase, base64 output
  rijndael encrypt --passphrase "correct horse" --text "my secret" --armor

  # Encrypt stdin; the passphrase must then come from a flag
  echo "secret message" | rijndael encrypt --passphrase "correct horse" --bits 128 --armor

  # Prompt for the passphrase, message from a file
  rijndael encrypt -i notes.txt -o notes.enc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := settings(cmd)
			if !cmd.Flags().Changed("armor") {
				armor = cfg.Defaults.Armor
			}

			key, bits, err := ks.resolve(cmd, cfg, usesStdin(text, input))
			if err != nil {
				return err
			}
			defer secure.Zero(key)

			plaintext, err := readInput(cmd, text, input)
			if err != nil {
				return err
			}

			ciphertext, err := chain.Encrypt(plaintext, key, bits)
			if err != nil {
				return fmt.Errorf("encryption failed: %w", err)
			}
			slog.Debug("Encrypted message", "key_bits", bits, "plaintext_bytes", len(plaintext), "ciphertext_bytes", len(ciphertext))

			if armor {
				ciphertext = armorEncode(ciphertext)
			}
			return writeOutput(cmd, output, ciphertext)
		},
	}

	ks.addFlags(cmd)
	cmd.Flags().StringVarP(&input, "input", "i", "", "Input file to encrypt (default stdin)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file for encrypted data (default stdout)")
	cmd.Flags().StringVar(&text, "text", "", "Text to encrypt directly")
	cmd.Flags().BoolVar(&armor, "armor", false, "Output as base64 encoded text")

	return cmd
}

func NewDecryptCommand() *cobra.Command {
	var (
		ks     keySource
		input  string
		output string
		armor  bool
	)

	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt a file or text",
		Long: `Decrypt data produced by the 'encrypt' command. The same key and key
size must be used. A wrong key is usually reported as corrupt padding, but
the format has no MAC and cannot detect tampering.`,
		Example: `  # Decrypt a file
  rijndael decrypt -k 000102030405060708090a0b0c0d0e0f -i notes.enc -o notes.txt

  # Decrypt base64 from stdin
  cat secret.txt | rijndael decrypt --passphrase "correct horse" --armor`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := settings(cmd)
			if !cmd.Flags().Changed("armor") {
				armor = cfg.Defaults.Armor
			}

			key, bits, err := ks.resolve(cmd, cfg, usesStdin("", input))
			if err != nil {
				return err
			}
			defer secure.Zero(key)

			ciphertext, err := readInput(cmd, "", input)
			if err != nil {
				return err
			}
			if armor {
				if ciphertext, err = armorDecode(ciphertext); err != nil {
					return err
				}
			}

			plaintext, err := chain.Decrypt(ciphertext, key, bits)
			if err != nil {
				if errors.Is(err, chain.ErrCorruptPadding) {
					return fmt.Errorf("decryption failed, wrong key or corrupted data: %w", err)
				}
				return fmt.Errorf("decryption failed: %w", err)
			}
			slog.Debug("Decrypted message", "key_bits", bits, "ciphertext_bytes", len(ciphertext), "plaintext_bytes", len(plaintext))

			return writeOutput(cmd, output, plaintext)
		},
	}

	ks.addFlags(cmd)
	cmd.Flags().StringVarP(&input, "input", "i", "", "Input file to decrypt (default stdin)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file for decrypted data (default stdout)")
	cmd.Flags().BoolVar(&armor, "armor", false, "Input is base64 encoded text")

	return cmd
}
