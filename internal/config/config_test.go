package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATA_DIR", "")
	t.Setenv("FACTORS_PATH", "")
	t.Setenv("REFRESH_TIMEOUT", "")

	cfg := Load()

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, ":5001", cfg.Addr())
	assert.Equal(t, filepath.Join("data", DefaultFactorsFile), cfg.FactorsPath)
	assert.Equal(t, 15*time.Second, cfg.Refresh.Timeout)
	assert.Equal(t, DefaultRefreshAPIURL, cfg.Refresh.APIURL)
}

func TestLoadPortOverride(t *testing.T) {
	t.Setenv("PORT", "8088")
	cfg := Load()
	assert.Equal(t, ":8088", cfg.Addr())
}

func TestLoadRefreshTimeoutSeconds(t *testing.T) {
	t.Setenv("REFRESH_TIMEOUT", "30")
	assert.Equal(t, 30*time.Second, Load().Refresh.Timeout)

	t.Setenv("REFRESH_TIMEOUT", "2m")
	assert.Equal(t, 2*time.Minute, Load().Refresh.Timeout)
}

func TestLoadAliasesDefaultsWhenFileMissing(t *testing.T) {
	aliases, err := LoadAliases(Config{DataDir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, DefaultAliases(), aliases)
}

func TestLoadAliasesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aliases.yml")
	content := "upstream:\n  name: [\"ItemName\", \"Name\"]\n  default_unit: \"未知\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	aliases, err := LoadAliases(Config{AliasesFile: path})
	require.NoError(t, err)

	assert.Equal(t, []string{"ItemName", "Name"}, aliases.Upstream.Name)
	assert.Equal(t, "未知", aliases.Upstream.DefaultUnit)
	assert.Equal(t, DefaultAliases().Upstream.Factor, aliases.Upstream.Factor)
	assert.Equal(t, DefaultAliases().Dataset, aliases.Dataset)
}

func TestLoadAliasesRejectsEmptyName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aliases.yml")
	require.NoError(t, os.WriteFile(path, []byte("dataset:\n  name: [\" \"]\n"), 0o644))

	_, err := LoadAliases(Config{AliasesFile: path})
	assert.Error(t, err)
}
