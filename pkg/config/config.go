/*
Package config manages the TOML config for typeahead.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/typeahead/internal/utils"
	"github.com/bastiangx/typeahead/pkg/autocomplete"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Autocomplete autocomplete.Config `toml:"autocomplete"`
	Server       ServerConfig        `toml:"server"`
	Dict         DictConfig          `toml:"dict"`
	CLI          CliConfig           `toml:"cli"`
}

// ServerConfig has resolver and IPC options.
type ServerConfig struct {
	MaxLimit     int  `toml:"max_limit"`
	MinPrefix    int  `toml:"min_prefix"`
	MaxPrefix    int  `toml:"max_prefix"`
	EnableFilter bool `toml:"enable_filter"`
	CacheSize    int  `toml:"cache_size"`
}

// DictConfig holds dictionary options.
type DictConfig struct {
	MaxWords           int  `toml:"max_words"`
	MinFreqThreshold   int  `toml:"min_frequency_threshold"`
	MinFreqShortPrefix int  `toml:"min_frequency_short_prefix"`
	Fuzzy              bool `toml:"fuzzy"`
}

// CliConfig holds options of the interactive front ends.
type CliConfig struct {
	DefaultLimit int  `toml:"default_limit"`
	EchoInput    bool `toml:"echo_input"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Autocomplete: autocomplete.DefaultConfig(),
		Server: ServerConfig{
			MaxLimit:     64,
			MinPrefix:    1,
			MaxPrefix:    60,
			EnableFilter: true,
			CacheSize:    256,
		},
		Dict: DictConfig{
			MaxWords:           50000,
			MinFreqThreshold:   20,
			MinFreqShortPrefix: 24,
			Fuzzy:              true,
		},
		CLI: CliConfig{
			DefaultLimit: 10,
			EchoInput:    false,
		},
	}
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/typeahead
// 2. ~/Library/Application Support/typeahead (macOS)
// 3. the executable's dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primary := filepath.Join(homeDir, ".config", "typeahead")
	if result := utils.CheckDirStatus(primary); result.Writable {
		return primary, nil
	}
	macOS := filepath.Join(homeDir, "Library", "Application Support", "typeahead")
	if result := utils.CheckDirStatus(macOS); result.Writable {
		return macOS, nil
	}
	return utils.GetExecutableDir()
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. custom path from -config
// 2. default path, created when missing
// 3. builtin defaults
// It also returns the path the config came from, empty for builtin defaults.
func LoadConfigWithPriority(customPath string) (*Config, string, error) {
	if customPath != "" {
		if _, err := os.Stat(customPath); err == nil {
			cfg, err := LoadConfig(customPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customPath)
				return cfg, customPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customPath, err)
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customPath, err)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using builtin defaults...", err)
		return DefaultConfig(), "", nil
	}
	cfg, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return cfg, defaultPath, nil
}

// InitConfig loads config from file or creates it with defaults if missing.
func InitConfig(configPath string) (*Config, error) {
	if err := utils.EnsureDir(filepath.Dir(configPath)); err != nil {
		log.Warnf("Failed to create config directory for %s: %v. Using builtin defaults...", configPath, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		cfg := DefaultConfig()
		if err := SaveConfig(cfg, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using builtin defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return cfg, nil
	}
	return LoadConfig(configPath)
}

// LoadConfig loads a TOML file over the defaults. When the file does not
// decode cleanly, every section that can be read is still applied.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, cfg); err != nil {
		return tryPartialParse(configPath), nil
	}
	return cfg, nil
}

func tryPartialParse(configPath string) *Config {
	cfg := DefaultConfig()

	raw, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return cfg
	}

	if section, ok := utils.ExtractSection(raw, "autocomplete"); ok {
		extractAutocompleteConfig(section, &cfg.Autocomplete)
	}
	if section, ok := utils.ExtractSection(raw, "server"); ok {
		extractServerConfig(section, &cfg.Server)
	}
	if section, ok := utils.ExtractSection(raw, "dict"); ok {
		extractDictConfig(section, &cfg.Dict)
	}
	if section, ok := utils.ExtractSection(raw, "cli"); ok {
		extractCliConfig(section, &cfg.CLI)
	}
	return cfg
}

func extractAutocompleteConfig(data map[string]any, ac *autocomplete.Config) {
	if val, ok := utils.ExtractBool(data, "auto_resolve"); ok {
		ac.AutoResolve = val
	}
	if val, ok := utils.ExtractBool(data, "multi_select"); ok {
		ac.MultiSelect = val
	}
	if val, ok := utils.ExtractBool(data, "show_selected"); ok {
		ac.ShowSelected = val
	}
	if val, ok := utils.ExtractInt(data, "min_trigger_length"); ok {
		ac.MinTriggerLength = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt(data, "min_prefix"); ok {
		server.MinPrefix = val
	}
	if val, ok := utils.ExtractInt(data, "max_prefix"); ok {
		server.MaxPrefix = val
	}
	if val, ok := utils.ExtractBool(data, "enable_filter"); ok {
		server.EnableFilter = val
	}
	if val, ok := utils.ExtractInt(data, "cache_size"); ok {
		server.CacheSize = val
	}
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractInt(data, "max_words"); ok {
		dict.MaxWords = val
	}
	if val, ok := utils.ExtractInt(data, "min_frequency_threshold"); ok {
		dict.MinFreqThreshold = val
	}
	if val, ok := utils.ExtractInt(data, "min_frequency_short_prefix"); ok {
		dict.MinFreqShortPrefix = val
	}
	if val, ok := utils.ExtractBool(data, "fuzzy"); ok {
		dict.Fuzzy = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractBool(data, "echo_input"); ok {
		cli.EchoInput = val
	}
}

// GetActiveConfigPath returns the absolute path of the loaded config file.
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return "builtin defaults"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(cfg *Config, configPath string) error {
	return utils.SaveTOMLFile(cfg, configPath)
}
