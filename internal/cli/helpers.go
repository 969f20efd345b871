package cli

import (
	"bufio"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Davincible/rijndael/internal/validation"
	"github.com/Davincible/rijndael/pkg/config"
	"github.com/Davincible/rijndael/pkg/crypto/keys"
	"github.com/Davincible/rijndael/pkg/secure"
)

// terminalInput returns the descriptor of the command's stdin when it is
// an interactive terminal
func terminalInput(cmd *cobra.Command) (int, bool) {
	f, ok := cmd.InOrStdin().(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())
	return fd, term.IsTerminal(fd)
}

// readPassphrase reads a passphrase without echo. Off a terminal it reads
// one line from stdin.
func readPassphrase(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)

	if fd, ok := terminalInput(cmd); ok {
		passBytes, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		return string(passBytes), nil
	}

	return readLine(cmd)
}

// readNewPassphrase asks twice on a terminal
func readNewPassphrase(cmd *cobra.Command) (string, error) {
	pass, err := readPassphrase(cmd, "Enter passphrase: ")
	if err != nil {
		return "", err
	}
	if err := validation.ValidatePassphrase(pass); err != nil {
		return "", err
	}

	if _, ok := terminalInput(cmd); ok {
		confirm, err := readPassphrase(cmd, "Confirm passphrase: ")
		if err != nil {
			return "", err
		}
		if !secure.ConstantTimeCompare([]byte(confirm), []byte(pass)) {
			return "", fmt.Errorf("passphrases do not match")
		}
	}
	return pass, nil
}

func readLine(cmd *cobra.Command) (string, error) {
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// keySource collects the ways a command can be given a cipher key
type keySource struct {
	hex        string
	mnemonic   string
	passphrase string
	bits       int
}

func (ks *keySource) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&ks.hex, "key", "k", "", "Key as hex (32, 48 or 64 characters)")
	cmd.Flags().StringVar(&ks.mnemonic, "mnemonic", "", "Key as a BIP-39 mnemonic (12, 18 or 24 words)")
	cmd.Flags().StringVar(&ks.passphrase, "passphrase", "", "Derive the key from a passphrase (prompted when no key is given)")
	cmd.Flags().IntVarP(&ks.bits, "bits", "b", 0, "Key size: 128, 192 or 256 (default from key or config)")
}

// ErrPassphraseFromPipe is returned when a passphrase prompt would read the
// same piped stdin that carries the data
var ErrPassphraseFromPipe = errors.New("stdin carries the data and is not a terminal; pass the passphrase with --passphrase, or the key with --key or --mnemonic")

// usesStdin reports whether readInput will read the data from stdin
func usesStdin(text, input string) bool {
	return text == "" && (input == "" || input == "-")
}

// checkPrompt refuses to prompt on a pipe that also carries the data
func checkPrompt(cmd *cobra.Command, dataFromStdin bool) error {
	if _, ok := terminalInput(cmd); !ok && dataFromStdin {
		return ErrPassphraseFromPipe
	}
	return nil
}

// resolve returns the key and its size in bits. The size comes from --bits,
// then from the key itself, then from the config. dataFromStdin is set when
// the command reads its data from stdin after the key.
func (ks *keySource) resolve(cmd *cobra.Command, cfg *config.Config, dataFromStdin bool) ([]byte, int, error) {
	given := 0
	for _, s := range []string{ks.hex, ks.mnemonic, ks.passphrase} {
		if s != "" {
			given++
		}
	}
	if given > 1 {
		return nil, 0, fmt.Errorf("use only one of --key, --mnemonic or --passphrase")
	}

	bits := ks.bits
	if bits != 0 {
		if err := validation.ValidateKeyBits(bits); err != nil {
			return nil, 0, err
		}
	}

	switch {
	case ks.hex != "":
		if bits == 0 {
			bits = len(strings.TrimPrefix(strings.TrimSpace(ks.hex), "0x")) * 4
		}
		if err := validation.ValidateKeyHex(ks.hex, bits); err != nil {
			return nil, 0, err
		}
		key, err := keys.FromHex(ks.hex, bits)
		return key, bits, err

	case ks.mnemonic != "":
		words := validation.SanitizeInput(ks.mnemonic)
		if err := validation.ValidateMnemonic(words); err != nil {
			return nil, 0, err
		}
		if bits == 0 {
			bits = len(strings.Fields(words)) * 32 / 3
		}
		key, err := keys.FromMnemonic(words, bits)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid mnemonic: %w", err)
		}
		return key, bits, nil
	}

	pass := ks.passphrase
	if pass == "" {
		if err := checkPrompt(cmd, dataFromStdin); err != nil {
			return nil, 0, err
		}
		var err error
		pass, err = readPassphrase(cmd, "Enter passphrase: ")
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read passphrase: %w", err)
		}
	}
	if err := validation.ValidatePassphrase(pass); err != nil {
		return nil, 0, err
	}
	if bits == 0 {
		bits = cfg.Defaults.KeyBits
	}

	key, err := keys.FromPassphrase([]byte(pass), []byte(keys.DefaultSalt), cfg.KDF.Iterations, bits)
	return key, bits, err
}

// readInput returns --text, the --input file, or all of stdin
func readInput(cmd *cobra.Command, text, input string) ([]byte, error) {
	switch {
	case text != "":
		return []byte(text), nil
	case input != "" && input != "-":
		data, err := os.ReadFile(input)
		if err != nil {
			return nil, fmt.Errorf("failed to read input file: %w", err)
		}
		return data, nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("failed to read from stdin: %w", err)
	}
	return data, nil
}

// writeOutput writes data to the --output file, or stdout
func writeOutput(cmd *cobra.Command, output string, data []byte) error {
	if output == "" || output == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	if err := os.WriteFile(output, data, 0600); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	green := color.New(color.FgGreen, color.Bold)
	green.Fprintf(cmd.ErrOrStderr(), "✅ Wrote %d bytes to: %s\n", len(data), output)
	return nil
}

func armorEncode(data []byte) []byte {
	return []byte(base64.StdEncoding.EncodeToString(data) + "\n")
}

func armorDecode(data []byte) ([]byte, error) {
	compact := strings.Join(strings.Fields(string(data)), "")
	decoded, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 input: %w", err)
	}
	return decoded, nil
}

func jsonOutput(cmd *cobra.Command) bool {
	asJSON, _ := cmd.Flags().GetBool("json")
	return asJSON
}

func printJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// printWords prints a mnemonic four words per line
func printWords(w io.Writer, words string) {
	list := strings.Fields(words)
	for i := 0; i < len(list); i += 4 {
		end := i + 4
		if end > len(list) {
			end = len(list)
		}
		fmt.Fprintf(w, "  %s\n", strings.Join(list[i:end], " "))
	}
}
