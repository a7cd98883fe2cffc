package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setValidEnv(t *testing.T) {
	t.Helper()
	t.Setenv("API_TOKEN", "token")
	t.Setenv("BASE_URL", "https://api.clockify.me/api/")
	t.Setenv("WORKSPACE_ID", "ws1")
	t.Setenv("MY_USER_ID", "u1")
	t.Setenv("PROJECT_ID", "p1")
	t.Setenv("COMPANY_NETWORK", "")
	t.Setenv("LOCK_DIR", t.TempDir())
	t.Setenv("HTTP_TIMEOUT", "")
	t.Setenv("COMMAND_TIMEOUT", "")
	t.Setenv("NOTIFY_WAIT", "")
	t.Setenv("TRACKER_URL", "")
	t.Setenv("NOTIFIER_PATH", "")
	t.Setenv("NOTIFY_ICON", "")
}

func TestFromEnv_Valid(t *testing.T) {
	setValidEnv(t)
	t.Setenv("COMPANY_NETWORK", "Office")
	t.Setenv("HTTP_TIMEOUT", "3s")

	cfg, err := FromEnv(Config{})
	require.NoError(t, err)
	assert.Equal(t, "token", cfg.Clockify.APIToken)
	assert.Equal(t, "https://api.clockify.me/api", cfg.Clockify.BaseURL)
	assert.Equal(t, "ws1", cfg.Clockify.WorkspaceID)
	assert.Equal(t, "u1", cfg.Clockify.UserID)
	assert.Equal(t, "p1", cfg.Clockify.ProjectID)
	assert.Equal(t, DefaultTrackerURL, cfg.Clockify.TrackerURL)
	assert.Equal(t, 3*time.Second, cfg.Clockify.HTTPTimeout)
	assert.Equal(t, defaultCommandTimeout, cfg.Network.CommandTimeout)
	assert.Equal(t, "Office", cfg.Network.CompanyNetwork)
}

func TestFromEnv_NotifierSettings(t *testing.T) {
	setValidEnv(t)

	cfg, err := FromEnv(Config{})
	require.NoError(t, err)
	assert.Equal(t, "terminal-notifier", cfg.Notify.Binary)
	assert.Equal(t, defaultNotifyIcon, cfg.Notify.Icon)
	assert.Equal(t, DefaultTrackerURL, cfg.Clockify.TrackerURL)

	t.Setenv("NOTIFIER_PATH", "/opt/tn/terminal-notifier")
	t.Setenv("NOTIFY_ICON", "/tmp/clock.png")
	cfg, err = FromEnv(Config{})
	require.NoError(t, err)
	assert.Equal(t, "/opt/tn/terminal-notifier", cfg.Notify.Binary)
	assert.Equal(t, "/tmp/clock.png", cfg.Notify.Icon)
}

func TestFromEnv_AllMissingListsEveryKey(t *testing.T) {
	for _, k := range requiredKeys {
		t.Setenv(k, "")
	}

	_, err := FromEnv(Config{})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"API_TOKEN", "WORKSPACE_ID", "MY_USER_ID", "PROJECT_ID", "BASE_URL"}, verr.Missing)
	assert.Contains(t, verr.Error(), "Missing required environment variables: API_TOKEN, WORKSPACE_ID, MY_USER_ID, PROJECT_ID, BASE_URL")
}

func TestFromEnv_BlankCountsAsMissing(t *testing.T) {
	setValidEnv(t)
	t.Setenv("PROJECT_ID", "   ")

	_, err := FromEnv(Config{})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"PROJECT_ID"}, verr.Missing)
}

func TestFromEnv_InvalidBaseURL(t *testing.T) {
	setValidEnv(t)
	t.Setenv("BASE_URL", "api.clockify.me")

	_, err := FromEnv(Config{})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Empty(t, verr.Missing)
	assert.Contains(t, verr.Error(), "Current value: api.clockify.me")
}

func TestFromEnv_InvalidDuration(t *testing.T) {
	setValidEnv(t)
	t.Setenv("COMMAND_TIMEOUT", "soon")

	_, err := FromEnv(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COMMAND_TIMEOUT")
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	setValidEnv(t)
	t.Setenv("PROJECT_ID", "")
	os.Unsetenv("PROJECT_ID")

	path := filepath.Join(t.TempDir(), "clockify.env")
	require.NoError(t, os.WriteFile(path, []byte("PROJECT_ID=from-file\nAPI_TOKEN=ignored\n"), 0o600))
	t.Setenv("CLOCKIFY_ENV_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, path, cfg.EnvFile)
	assert.Equal(t, "from-file", cfg.Clockify.ProjectID)
	// existing variables are not overridden
	assert.Equal(t, "token", cfg.Clockify.APIToken)
}

func TestLoad_MalformedEnvFileKeepsPath(t *testing.T) {
	setValidEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PROJECT_ID=p1\nAPI_TOKEN=\"unterminated\n"), 0o600))
	t.Setenv("CLOCKIFY_ENV_FILE", path)

	cfg, err := Load()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, err.Error(), path)
	assert.Equal(t, path, cfg.EnvFile)
}

func TestFindUpward(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), nil, 0o600))

	assert.Equal(t, filepath.Join(root, ".env"), FindUpward(nested, ".env"))
	assert.Equal(t, "", FindUpward(nested, ".missing"))
}
