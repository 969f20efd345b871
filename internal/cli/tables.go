package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Davincible/rijndael/internal/validation"
	"github.com/Davincible/rijndael/pkg/crypto/keys"
	"github.com/Davincible/rijndael/pkg/crypto/rijndael"
	"github.com/Davincible/rijndael/pkg/secure"
)

func NewTablesCommand() *cobra.Command {
	var (
		cols     int
		keyHex   string
		stateHex string
		noTables bool
	)

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Print the field tables, S-boxes, key schedules and states",
		Long: `Print the GF(2^8) log, anti-log and inverse tables and the forward and
inverse S-boxes. With --key the forward and inverse round keys of that key
are listed as well. With --state a 16-byte block is shown as a 4x4 state,
and encrypted under --key when one is given.`,
		Example: `  # Field and S-box tables, 16 per line
  rijndael tables

  # Round keys of the FIPS-197 example key
  rijndael tables --no-tables --key 000102030405060708090a0b0c0d0e0f

  # One block through the cipher
  rijndael tables --no-tables --key 000102030405060708090a0b0c0d0e0f --state 00112233445566778899aabbccddeeff`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := settings(cmd)
			if cols == 0 {
				cols = cfg.Defaults.TableColumns
			}
			if err := validation.ValidateColumns(cols); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			cyan := color.New(color.FgCyan, color.Bold)

			if !noTables {
				fmt.Fprint(w, rijndael.LogTables(cols))
				fmt.Fprintln(w)
				fmt.Fprint(w, rijndael.SBoxTables(cols))
			}

			var schedule *rijndael.Schedule
			if keyHex != "" {
				bits := len(strings.TrimPrefix(strings.TrimSpace(keyHex), "0x")) * 4
				if err := validation.ValidateKeyHex(keyHex, bits); err != nil {
					return err
				}
				key, err := keys.FromHex(keyHex, bits)
				if err != nil {
					return err
				}
				defer secure.Zero(key)

				schedule, err = rijndael.NewSchedule(key, bits)
				if err != nil {
					return err
				}

				fmt.Fprintln(w)
				cyan.Fprintf(w, "Round keys (%d-bit key, %d rounds):\n", bits, schedule.Rounds())
				fmt.Fprint(w, schedule.String())
				fmt.Fprintln(w)
				cyan.Fprintln(w, "Inverse round keys:")
				fmt.Fprint(w, schedule.InverseString())
			}

			if stateHex != "" {
				if err := validation.ValidateKeyHex(stateHex, 128); err != nil {
					return fmt.Errorf("state must be one 16-byte block: %w", err)
				}
				block, err := keys.FromHex(stateHex, 128)
				if err != nil {
					return err
				}
				state, err := rijndael.LoadState(block)
				if err != nil {
					return err
				}

				fmt.Fprintln(w)
				cyan.Fprintln(w, "State:")
				fmt.Fprint(w, state.String())

				if schedule != nil {
					out := schedule.EncryptState(state)
					fmt.Fprintln(w)
					cyan.Fprintln(w, "Encrypted state:")
					fmt.Fprint(w, out.String())
					fmt.Fprintf(w, "%s\n", out.Hex())
				}
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&cols, "cols", 0, "Table entries per line (default from config)")
	cmd.Flags().StringVarP(&keyHex, "key", "k", "", "Print the round keys of this hex key")
	cmd.Flags().StringVar(&stateHex, "state", "", "Print this 16-byte hex block as a state")
	cmd.Flags().BoolVar(&noTables, "no-tables", false, "Skip the field and S-box tables")

	return cmd
}
