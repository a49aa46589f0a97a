package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFailsWithoutCredentials(t *testing.T) {
	t.Setenv(twitterTokenEnv, "")
	t.Setenv(botUsernameEnv, "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bearer token")
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv(twitterTokenEnv, "token-123")
	t.Setenv(botUsernameEnv, "medbot")
	t.Setenv(logLevelEnv, "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "token-123", cfg.Twitter.BearerToken)
	assert.Equal(t, "medbot", cfg.Twitter.Username)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.NotEmpty(t, cfg.Bot.Topics)
	assert.Equal(t, 5, cfg.Bot.TopicsPerPass)
}

func TestLoadMergesYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
twitter:
  username: filebot
bot:
  dailyCap: 3
  topics:
    - prions
personality:
  name: Dr. File
  vocabulary:
    opening:
      - "From the file:"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	t.Setenv(configPathEnv, path)
	t.Setenv(twitterTokenEnv, "token-123")
	t.Setenv(botUsernameEnv, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "filebot", cfg.Twitter.Username)
	assert.Equal(t, 3, cfg.Bot.DailyCap)
	assert.Equal(t, []string{"prions"}, cfg.Bot.Topics)
	assert.Equal(t, "Dr. File", cfg.Personality.Name)
}

func TestLoadRejectsUnreadableFile(t *testing.T) {
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv(twitterTokenEnv, "token-123")
	t.Setenv(botUsernameEnv, "medbot")

	_, err := Load()
	assert.Error(t, err)
}
