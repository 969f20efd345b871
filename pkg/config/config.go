// Package config provides configuration management for the rijndael CLI tool
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Davincible/rijndael/pkg/crypto/keys"
)

// EnvConfigPath overrides the config file location
const EnvConfigPath = "RIJNDAEL_CONFIG"

// Config represents the main configuration structure
type Config struct {
	Version  string          `json:"version"`
	Defaults DefaultSettings `json:"defaults"`
	KDF      KDFConfig       `json:"kdf"`
	Escrow   EscrowConfig    `json:"escrow"`
	UI       UIConfig        `json:"ui"`
	SelfTest SelfTestConfig  `json:"selftest"`
}

// DefaultSettings contains default values for common operations
type DefaultSettings struct {
	KeyBits      int  `json:"key_bits"`      // Default: 256
	Armor        bool `json:"armor"`         // Base64 output
	TableColumns int  `json:"table_columns"` // Default: 16
}

// KDFConfig controls passphrase key derivation
type KDFConfig struct {
	Iterations int `json:"iterations"`
	SaltSize   int `json:"salt_size"`
}

type EscrowConfig struct {
	Parts     int `json:"parts"`
	Threshold int `json:"threshold"`
}

type UIConfig struct {
	UseColor bool `json:"use_color"`
}

type SelfTestConfig struct {
	MaxMessageSize int `json:"max_message_size"` // Default: 1000
}

// ConfigManager manages configuration loading and saving
type ConfigManager struct {
	config     *Config
	configPath string
	loadErr    error
}

// NewConfigManager resolves the config path and loads it. A missing or
// unreadable file leaves the defaults in place; nothing is written.
func NewConfigManager() (*ConfigManager, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return NewConfigManagerAt(configPath), nil
}

// NewConfigManagerAt is NewConfigManager with an explicit path. A file that
// exists but cannot be used is reported by LoadError.
func NewConfigManagerAt(configPath string) *ConfigManager {
	cm := &ConfigManager{configPath: configPath}
	if err := cm.LoadConfig(); err != nil {
		cm.config = DefaultConfig()
		if !errors.Is(err, fs.ErrNotExist) {
			cm.loadErr = err
		}
	}
	return cm
}

// LoadError returns why an existing config file was ignored, or nil
func (cm *ConfigManager) LoadError() error {
	return cm.loadErr
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0.0",
		Defaults: DefaultSettings{
			KeyBits:      256,
			Armor:        false,
			TableColumns: 16,
		},
		KDF: KDFConfig{
			Iterations: keys.DefaultIterations,
			SaltSize:   32,
		},
		Escrow: EscrowConfig{
			Parts:     5,
			Threshold: 3,
		},
		UI: UIConfig{
			UseColor: true,
		},
		SelfTest: SelfTestConfig{
			MaxMessageSize: 1000,
		},
	}
}

// Validate rejects values the commands cannot work with
func (c *Config) Validate() error {
	if !keys.ValidBits(c.Defaults.KeyBits) {
		return fmt.Errorf("defaults.key_bits must be 128, 192 or 256, got %d", c.Defaults.KeyBits)
	}
	if c.Defaults.TableColumns < 1 || c.Defaults.TableColumns > 256 {
		return fmt.Errorf("defaults.table_columns must be between 1 and 256, got %d", c.Defaults.TableColumns)
	}
	if c.KDF.Iterations < 1000 {
		return fmt.Errorf("kdf.iterations must be at least 1000, got %d", c.KDF.Iterations)
	}
	if c.KDF.SaltSize < 16 {
		return fmt.Errorf("kdf.salt_size must be at least 16, got %d", c.KDF.SaltSize)
	}
	escrow := keys.EscrowConfig{Parts: c.Escrow.Parts, Threshold: c.Escrow.Threshold}
	if err := escrow.Validate(); err != nil {
		return fmt.Errorf("escrow: %w", err)
	}
	if c.SelfTest.MaxMessageSize < 1 {
		return fmt.Errorf("selftest.max_message_size must be positive, got %d", c.SelfTest.MaxMessageSize)
	}
	return nil
}

// LoadConfig loads the configuration from disk. Fields missing from the
// file keep their default values.
func (cm *ConfigManager) LoadConfig() error {
	data, err := os.ReadFile(cm.configPath)
	if err != nil {
		return err
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", cm.configPath, err)
	}

	cm.config = config
	return nil
}

// SaveConfig saves the configuration to disk
func (cm *ConfigManager) SaveConfig() error {
	if err := cm.config.Validate(); err != nil {
		return err
	}

	configDir := filepath.Dir(cm.configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cm.config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(cm.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// GetConfig returns the current configuration
func (cm *ConfigManager) GetConfig() *Config {
	return cm.config
}

func (cm *ConfigManager) SetConfig(config *Config) {
	cm.config = config
}

// Path returns the config file location
func (cm *ConfigManager) Path() string {
	return cm.configPath
}

// getConfigPath returns the configuration file path
func getConfigPath() (string, error) {
	if customPath := os.Getenv(EnvConfigPath); customPath != "" {
		return customPath, nil
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "rijndael", "config.json"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "rijndael", "config.json"), nil
}
