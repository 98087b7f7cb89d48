package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileKeepsDefaults(t *testing.T) {
	t.Setenv("MANGA_TRACKER_URL", "")
	require.NoError(t, LoadConfig(filepath.Join(t.TempDir(), "missing.toml")))
	assert.Equal(t, DefaultBaseURL, AppConfig.Server.BaseURL)
	assert.Equal(t, DefaultAPIPrefix, AppConfig.Server.APIPrefix)
	assert.Equal(t, DefaultTimeout, AppConfig.Server.Timeout.Duration)
}

func TestLoadConfigParsesFile(t *testing.T) {
	t.Setenv("MANGA_TRACKER_URL", "")
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
base_url = "https://mml.example.org/"
timeout = "3s"

[ui]
language = "zh"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	require.NoError(t, LoadConfig(path))

	assert.Equal(t, "https://mml.example.org", AppConfig.Server.BaseURL)
	assert.Equal(t, DefaultAPIPrefix, AppConfig.Server.APIPrefix)
	assert.Equal(t, 3*time.Second, AppConfig.Server.Timeout.Duration)
	assert.Equal(t, "zh", AppConfig.UI.Language)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("MANGA_TRACKER_URL", "http://10.0.0.2:5000")
	require.NoError(t, LoadConfig(filepath.Join(t.TempDir(), "missing.toml")))
	assert.Equal(t, "http://10.0.0.2:5000", AppConfig.Server.BaseURL)
}

func TestLoadConfigBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\ntimeout = \"soon\"\n"), 0644))
	assert.Error(t, LoadConfig(path))
}

func TestSaveConfigRoundTrip(t *testing.T) {
	t.Setenv("MANGA_TRACKER_URL", "")
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, LoadConfig(path))
	AppConfig.UI.Language = "zh"
	require.NoError(t, SaveConfig())

	require.NoError(t, LoadConfig(path))
	assert.Equal(t, "zh", AppConfig.UI.Language)
	assert.Equal(t, DefaultTimeout, AppConfig.Server.Timeout.Duration)
}
