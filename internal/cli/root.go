package cli

import (
	"context"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Davincible/rijndael/pkg/config"
)

type configKey struct{}

// NewRootCommand builds the rijndael command tree
func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rijndael",
		Short: "Rijndael block cipher with a chained-block message format",
		Long: `Rijndael implements the Rijndael (AES) block cipher from first principles:
GF(2^8) arithmetic, generated S-boxes, key expansion for 128, 192 and 256-bit
keys, and a chained-block message format with length padding.

Messages are stored as a clear random IV followed by the padded message in
cipher-block-chaining order. The format carries no MAC: a wrong key is
usually reported, tampering is not.

Keys can be given as hex, as a BIP-39 mnemonic, or derived from a
passphrase with PBKDF2. Keys can be split into Shamir escrow shares.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				slog.SetDefault(slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cfg.UI.UseColor {
				color.NoColor = true
			}
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
	}

	rootCmd.AddCommand(
		NewEncryptCommand(),
		NewDecryptCommand(),
		NewKeygenCommand(),
		NewDeriveCommand(),
		NewCombineKeyCommand(),
		NewTablesCommand(),
		NewSealCommand(),
		NewUnsealCommand(),
		NewSelfTestCommand(),
		NewConfigCommand(),
	)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().String("config", "", "Config file (default $"+config.EnvConfigPath+" or ~/.config/rijndael/config.json)")

	return rootCmd
}

// configManager resolves the config file from --config or the environment
func configManager(cmd *cobra.Command) (*config.ConfigManager, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return config.NewConfigManagerAt(path), nil
	}
	return config.NewConfigManager()
}

// loadConfig falls back to defaults when the config file is unusable. A
// file named with --config must load, except for 'config init' which may
// be replacing it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cm, err := configManager(cmd)
	if err != nil {
		slog.Debug("Using default config", "error", err)
		return config.DefaultConfig(), nil
	}

	if err := cm.LoadError(); err != nil {
		explicit, _ := cmd.Flags().GetString("config")
		if explicit != "" && cmd.CommandPath() != "rijndael config init" {
			return nil, err
		}
		slog.Warn("Ignoring config file, using defaults", "path", cm.Path(), "error", err)
		return cm.GetConfig(), nil
	}

	slog.Debug("Loaded config", "path", cm.Path())
	return cm.GetConfig(), nil
}

// settings returns the config loaded by the root command
func settings(cmd *cobra.Command) *config.Config {
	if ctx := cmd.Context(); ctx != nil {
		if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
			return cfg
		}
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}
