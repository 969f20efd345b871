package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Davincible/rijndael/pkg/config"
)

func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, err := configManager(cmd)
			if err != nil {
				return err
			}
			if _, err := os.Stat(cm.Path()); err == nil && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", cm.Path())
			}

			cm.SetConfig(config.DefaultConfig())
			if err := cm.SaveConfig(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✅ Wrote config to: %s\n", cm.Path())
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the configuration in effect",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, settings(cmd))
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, err := configManager(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cm.Path())
			return nil
		},
	}

	cmd.AddCommand(initCmd, showCmd, pathCmd)
	return cmd
}
