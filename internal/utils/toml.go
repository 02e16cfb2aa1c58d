package utils

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// LoadTOMLFile decodes a TOML file into v.
func LoadTOMLFile(path string, v any) error {
	if _, err := toml.DecodeFile(path, v); err != nil {
		log.Warnf("TOML parsing error in %s: %v. Attempting partial recovery...", path, err)
		return err
	}
	return nil
}

// SaveTOMLFile encodes v into path, replacing any existing file.
func SaveTOMLFile(v any, path string) error {
	file, err := os.Create(path)
	if err != nil {
		log.Errorf("Failed to create file: %v", err)
		return err
	}
	defer file.Close()
	return toml.NewEncoder(file).Encode(v)
}

// ParseTOMLWithRecovery decodes path into a generic map so that valid
// sections survive a type error elsewhere in the file.
func ParseTOMLWithRecovery(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any)
	if _, err := toml.Decode(string(data), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ExtractSection returns a table from parsed TOML data.
func ExtractSection(data map[string]any, name string) (map[string]any, bool) {
	section, ok := data[name].(map[string]any)
	return section, ok
}

// ExtractInt returns an integer key. TOML integers decode as int64.
func ExtractInt(data map[string]any, key string) (int, bool) {
	if val, ok := data[key].(int64); ok {
		return int(val), true
	}
	return 0, false
}

// ExtractBool returns a boolean key.
func ExtractBool(data map[string]any, key string) (bool, bool) {
	val, ok := data[key].(bool)
	return val, ok
}
