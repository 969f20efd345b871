package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Davincible/rijndael/internal/validation"
	"github.com/Davincible/rijndael/pkg/storage"
)

func NewSealCommand() *cobra.Command {
	var (
		input      string
		output     string
		text       string
		passphrase string
		bits       int
	)

	cmd := &cobra.Command{
		Use:   "seal",
		Short: "Encrypt data into a passphrase-protected file",
		Long: `Seal data into a JSON file protected by a passphrase. Each file gets its own
random salt, and the key is derived with PBKDF2-SHA256. The salt and
iteration count are stored in the file, so only the passphrase is needed to
unseal it.`,
		Example: `  # Seal a file
  rijndael seal -i wallet.txt -o wallet.sealed

  # Seal text with a 128-bit key
  rijndael seal --text "my secret" -o secret.sealed --bits 128`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := settings(cmd)
			if output == "" {
				return fmt.Errorf("an output file is required (-o)")
			}
			if bits == 0 {
				bits = cfg.Defaults.KeyBits
			}
			if err := validation.ValidateKeyBits(bits); err != nil {
				return err
			}

			if passphrase == "" {
				if err := checkPrompt(cmd, usesStdin(text, input)); err != nil {
					return err
				}
				var err error
				if passphrase, err = readNewPassphrase(cmd); err != nil {
					return err
				}
			}

			data, err := readInput(cmd, text, input)
			if err != nil {
				return err
			}
			if err := validation.ValidatePassphrase(passphrase); err != nil {
				return err
			}

			store := storage.NewSecureStorage(output, storage.Options{
				KeyBits:    bits,
				Iterations: cfg.KDF.Iterations,
				SaltSize:   cfg.KDF.SaltSize,
			})
			if err := store.Save(data, []byte(passphrase)); err != nil {
				return fmt.Errorf("failed to seal: %w", err)
			}
			slog.Debug("Sealed file", "path", output, "key_bits", bits, "bytes", len(data))

			fmt.Fprintf(cmd.ErrOrStderr(), "✅ Sealed %d bytes to: %s\n", len(data), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Input file to seal (default stdin)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Sealed output file")
	cmd.Flags().StringVar(&text, "text", "", "Text to seal directly")
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "Passphrase (prompted if empty)")
	cmd.Flags().IntVarP(&bits, "bits", "b", 0, "Key size: 128, 192 or 256 (default from config)")

	return cmd
}

func NewUnsealCommand() *cobra.Command {
	var (
		input      string
		output     string
		passphrase string
	)

	cmd := &cobra.Command{
		Use:   "unseal",
		Short: "Decrypt a passphrase-protected file",
		Example: `  rijndael unseal -i wallet.sealed -o wallet.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" {
				return fmt.Errorf("an input file is required (-i)")
			}

			store := storage.NewSecureStorage(input, storage.Options{})
			if !store.Exists() {
				return fmt.Errorf("sealed file not found: %s", input)
			}

			var err error
			if passphrase == "" {
				if passphrase, err = readPassphrase(cmd, "Enter passphrase: "); err != nil {
					return err
				}
			}

			data, err := store.Load([]byte(passphrase))
			if err != nil {
				if errors.Is(err, storage.ErrWrongPassphrase) {
					return err
				}
				return fmt.Errorf("failed to unseal: %w", err)
			}
			slog.Debug("Unsealed file", "path", input, "bytes", len(data))

			return writeOutput(cmd, output, data)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Sealed file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "Passphrase (prompted if empty)")

	return cmd
}
