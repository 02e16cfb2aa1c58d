package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.Autocomplete.AutoResolve)
	assert.False(t, cfg.Autocomplete.MultiSelect)
	assert.Equal(t, 3, cfg.Autocomplete.MinTriggerLength)
	assert.Equal(t, 64, cfg.Server.MaxLimit)
	assert.True(t, cfg.Dict.Fuzzy)
}

func TestInitConfigCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
[autocomplete]
auto_resolve = false
multi_select = true
min_trigger_length = 1

[server]
max_limit = 5
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.False(t, cfg.Autocomplete.AutoResolve)
	assert.True(t, cfg.Autocomplete.MultiSelect)
	assert.Equal(t, 1, cfg.Autocomplete.MinTriggerLength)
	assert.Equal(t, 5, cfg.Server.MaxLimit)
	// untouched keys keep their defaults
	assert.Equal(t, 60, cfg.Server.MaxPrefix)
	assert.Equal(t, 50000, cfg.Dict.MaxWords)
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
[autocomplete]
multi_select = true

[server]
max_limit = "lots"
cache_size = 8
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.Autocomplete.MultiSelect)
	assert.Equal(t, 64, cfg.Server.MaxLimit)
	assert.Equal(t, 8, cfg.Server.CacheSize)
}

func TestLoadConfigGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "this is [not toml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, path, "[cli]\necho_input = true\n")

	cfg, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.True(t, cfg.CLI.EchoInput)
}

func TestGetActiveConfigPath(t *testing.T) {
	assert.Equal(t, "builtin defaults", GetActiveConfigPath(""))
	assert.True(t, filepath.IsAbs(GetActiveConfigPath("config.toml")))
}
