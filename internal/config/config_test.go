package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aliuyar1234/studioinvite/internal/apperrors"
	"github.com/aliuyar1234/studioinvite/internal/studio"
)

var envKeys = []string{
	"EDGEIMPULSE_API_URL",
	"EDGEIMPULSE_USERNAME",
	"EDGEIMPULSE_PASSWORD",
	"EDGEIMPULSE_ORG_ID",
	"EDGEIMPULSE_PROJECT_ID",
	"EDGEIMPULSE_LOG_LEVEL",
	"EDGEIMPULSE_HTTP_TIMEOUT_MS",
	"EDGEIMPULSE_SECRETS_FILE",
	"EDGEIMPULSE_AUDIT_LOG",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
	t.Setenv("EDGEIMPULSE_SECRETS_FILE", filepath.Join(t.TempDir(), "missing.json"))
}

func writeSecrets(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "secrets.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, studio.DefaultBaseURL, cfg.APIURL)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, 30000, cfg.HTTPTimeoutMS)
	require.Empty(t, cfg.Username)
	require.False(t, cfg.SecretsLoaded)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("EDGEIMPULSE_API_URL", "http://localhost:4800/")
	t.Setenv("EDGEIMPULSE_USERNAME", "jan")
	t.Setenv("EDGEIMPULSE_PASSWORD", "secret")
	t.Setenv("EDGEIMPULSE_ORG_ID", "7")
	t.Setenv("EDGEIMPULSE_PROJECT_ID", "42")
	t.Setenv("EDGEIMPULSE_HTTP_TIMEOUT_MS", "1500")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:4800", cfg.APIURL)
	require.Equal(t, "jan", cfg.Username)
	require.Equal(t, "secret", cfg.Password)
	require.Equal(t, "7", cfg.OrganizationID)
	require.Equal(t, "42", cfg.ProjectID)
	require.Equal(t, 1500, cfg.HTTPTimeoutMS)
	require.Equal(t, "[REDACTED]", cfg.RedactedValues()["EDGEIMPULSE_PASSWORD"])
}

func TestLoad_SecretsFileFillsGaps(t *testing.T) {
	clearEnv(t)
	t.Setenv("EDGEIMPULSE_USERNAME", "from-env")
	t.Setenv("EDGEIMPULSE_SECRETS_FILE", writeSecrets(t, `{
		"username": "from-file",
		"EDGEIMPULSE_PASSWORD": "pw",
		"organization_id": "8",
		"project_id": "99"
	}`))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.Username)
	require.Equal(t, "pw", cfg.Password)
	require.Equal(t, "8", cfg.OrganizationID)
	require.Empty(t, cfg.ProjectID)
	require.True(t, cfg.SecretsLoaded)
}

func TestLoad_BrokenSecretsFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("EDGEIMPULSE_USERNAME", "jan")
	t.Setenv("EDGEIMPULSE_SECRETS_FILE", writeSecrets(t, `{not json`))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "jan", cfg.Username)
	require.Empty(t, cfg.Password)
	require.False(t, cfg.SecretsLoaded)
}

func TestLoadWith_OverridesSkipSecretsFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("EDGEIMPULSE_USERNAME", "jan")
	t.Setenv("EDGEIMPULSE_PASSWORD", "secret")
	t.Setenv("EDGEIMPULSE_ORG_ID", "7")
	t.Setenv("EDGEIMPULSE_SECRETS_FILE", writeSecrets(t, `{"organization_id": "8", "password": "file-pw"}`))

	cfg, err := LoadWith(Overrides{OrganizationID: "42", ProjectID: " 9 ", AuditLogPath: "audit.jsonl"})
	require.NoError(t, err)
	require.Equal(t, "42", cfg.OrganizationID)
	require.Equal(t, "9", cfg.ProjectID)
	require.Equal(t, "audit.jsonl", cfg.AuditLogPath)
	require.Equal(t, "secret", cfg.Password)
	require.False(t, cfg.SecretsLoaded)
}

func TestLoadWith_OrgOverrideStillFillsCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("EDGEIMPULSE_SECRETS_FILE", writeSecrets(t, `{"username": "u", "password": "p", "organization_id": "8"}`))

	cfg, err := LoadWith(Overrides{OrganizationID: "42"})
	require.NoError(t, err)
	require.Equal(t, "42", cfg.OrganizationID)
	require.Equal(t, "u", cfg.Username)
	require.Equal(t, "p", cfg.Password)
	require.True(t, cfg.SecretsLoaded)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"log level", "EDGEIMPULSE_LOG_LEVEL", "verbose"},
		{"timeout not int", "EDGEIMPULSE_HTTP_TIMEOUT_MS", "soon"},
		{"timeout range", "EDGEIMPULSE_HTTP_TIMEOUT_MS", "0"},
		{"api url", "EDGEIMPULSE_API_URL", "studio.edgeimpulse.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.ErrorIs(t, err, apperrors.ErrInvalidConfig)
		})
	}
}

func TestLoadLogLevel(t *testing.T) {
	clearEnv(t)
	level, err := LoadLogLevel()
	require.NoError(t, err)
	require.Equal(t, "info", level)

	t.Setenv("EDGEIMPULSE_LOG_LEVEL", "warn")
	level, err = LoadLogLevel()
	require.NoError(t, err)
	require.Equal(t, "warn", level)

	t.Setenv("EDGEIMPULSE_LOG_LEVEL", "loud")
	_, err = LoadLogLevel()
	require.ErrorIs(t, err, apperrors.ErrInvalidConfig)
}
