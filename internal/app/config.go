package app

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"zebra/internal/bip39"
	"zebra/internal/keychain"
	"zebra/internal/state"
	"zebra/internal/store"
)

const (
	configFile = "config.yaml"

	EnvHome          = "ZEBRA_HOME"
	EnvLogLevel      = "ZEBRA_LOG_LEVEL"
	EnvStorageDriver = "ZEBRA_STORAGE_DRIVER"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home     string         `yaml:"-"` // config directory, e.g. $HOME/.zebra
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
	Vault    VaultConfig    `yaml:"vault"`
	Mnemonic MnemonicConfig `yaml:"mnemonic"`
}

// StorageConfig selects the backend. An empty Dir means Home.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Dir    string `yaml:"dir,omitempty"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// VaultConfig seeds the cipher settings of newly created vaults. Existing
// vaults keep the settings stored with them.
type VaultConfig struct {
	Difficulty uint32               `yaml:"difficulty"`
	Ciphers    keychain.CipherOrder `yaml:"ciphers"`
}

type MnemonicConfig struct {
	Language bip39.Language `yaml:"language"`
	Words    int            `yaml:"words"`
}

// DefaultHome returns $HOME/.zebra, or .zebra when the home directory is
// unknown.
func DefaultHome() string {
	if h := os.Getenv(EnvHome); h != "" {
		return h
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return ".zebra"
	}
	return filepath.Join(dir, ".zebra")
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig(home string) *Config {
	return &Config{
		Home:    home,
		Storage: StorageConfig{Driver: store.DriverBolt},
		Log:     LogConfig{Level: "warn", Format: "text"},
		Vault: VaultConfig{
			Difficulty: state.DefaultDifficulty,
			Ciphers:    keychain.DefaultOrder(),
		},
		Mnemonic: MnemonicConfig{Language: bip39.English, Words: 24},
	}
}

// Path is the config file location.
func (c *Config) Path() string { return filepath.Join(c.Home, configFile) }

// StorageDir is where the storage backend keeps its files.
func (c *Config) StorageDir() string {
	if c.Storage.Dir != "" {
		return c.Storage.Dir
	}
	return c.Home
}

// CipherSettings converts the vault defaults for vault.InitParams.
func (c *Config) CipherSettings() *state.CipherSettings {
	return &state.CipherSettings{
		Difficulty: c.Vault.Difficulty,
		Orders:     append(keychain.CipherOrder(nil), c.Vault.Ciphers...),
	}
}

// Load reads <home>/config.yaml over the defaults and applies environment
// overrides. A missing file is not an error.
func Load(home string) (*Config, error) {
	if home == "" {
		home = DefaultHome()
	}
	cfg := DefaultConfig(home)

	data, err := os.ReadFile(cfg.Path())
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvStorageDriver); v != "" {
		c.Storage.Driver = v
	}
}

// Validate rejects values the app cannot run with.
func (c *Config) Validate() error {
	known := false
	for _, d := range store.Drivers() {
		if c.Storage.Driver == d {
			known = true
		}
	}
	if !known {
		return fmt.Errorf("config: %w: %q", store.ErrUnknownDriver, c.Storage.Driver)
	}
	if c.Vault.Difficulty == 0 {
		return fmt.Errorf("config: %w", keychain.ErrBadDifficulty)
	}
	if err := c.Vault.Ciphers.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if !bip39.ValidWordCount(c.Mnemonic.Words) {
		return fmt.Errorf("config: %w: %d", bip39.ErrBadWordCount, c.Mnemonic.Words)
	}
	return nil
}

// Save writes the config atomically, creating Home if needed.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.Home, 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := store.WriteFileAtomic(c.Path(), data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
