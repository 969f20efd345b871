package cli

import (
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Davincible/rijndael/internal/validation"
	"github.com/Davincible/rijndael/pkg/crypto/chain"
	"github.com/Davincible/rijndael/pkg/crypto/keys"
	"github.com/Davincible/rijndael/pkg/secure"
)

func NewSelfTestCommand() *cobra.Command {
	var (
		sizes  []int
		maxLen int
		trace  bool
	)

	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Round-trip random messages through the cipher",
		Long: `For each key size, encrypt and decrypt random messages of every length from
1 to --max bytes, each under a fresh random key, and report how many round
trips came back unchanged. With --trace every message is printed.`,
		Example: `  # Default run over all key sizes
  rijndael selftest

  # Short run with every message shown
  rijndael selftest --bits 128 --max 20 --trace`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := settings(cmd)
			if maxLen == 0 {
				maxLen = cfg.SelfTest.MaxMessageSize
			}
			for _, bits := range sizes {
				if err := validation.ValidateKeyBits(bits); err != nil {
					return err
				}
			}

			w := cmd.OutOrStdout()
			green := color.New(color.FgGreen, color.Bold)
			red := color.New(color.FgRed, color.Bold)

			var observe func(chain.Trial)
			if trace {
				observe = func(t chain.Trial) {
					fmt.Fprintf(w, "Message length: %d\n", t.Length)
					fmt.Fprintf(w, "Key: %s\n", keys.ToHex(t.Key))
					fmt.Fprintf(w, "Plaintext:\n%s\n", chain.FormatMessage(t.Plaintext))
					fmt.Fprintf(w, "Ciphertext:\n%s\n", chain.FormatMessage(t.Ciphertext))
					fmt.Fprintf(w, "Decrypted:\n%s\n", chain.FormatMessage(t.Decrypted))
					if t.Err != nil {
						fmt.Fprintf(w, "Error: %v\n", t.Err)
					}
					fmt.Fprintln(w)
				}
			}

			var reports []*chain.Report
			failed := 0
			for _, bits := range sizes {
				report, err := chain.SelfTest(secure.Reader, bits, maxLen, observe)
				if err != nil {
					return fmt.Errorf("self test with %d-bit keys: %w", bits, err)
				}
				slog.Debug("Self test finished", "key_bits", bits, "total", report.Total, "failed", report.Failed)
				reports = append(reports, report)
				failed += report.Failed
			}

			if jsonOutput(cmd) {
				if err := printJSON(cmd, reports); err != nil {
					return err
				}
			} else {
				for _, r := range reports {
					printer := green
					if r.Failed > 0 {
						printer = red
					}
					printer.Fprintf(w, "%d-bit keys: %d/%d round trips passed\n", r.KeyBits, r.Passed, r.Total)
					if r.Failed > 0 {
						fmt.Fprintf(w, "  failed lengths: %v\n", r.Failures)
					}
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d round trips failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().IntSliceVarP(&sizes, "bits", "b", []int{128, 192, 256}, "Key sizes to test")
	cmd.Flags().IntVar(&maxLen, "max", 0, "Longest message in bytes (default from config)")
	cmd.Flags().BoolVar(&trace, "trace", false, "Print every message, key and ciphertext")

	return cmd
}
