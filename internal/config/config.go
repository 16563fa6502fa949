package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/aliuyar1234/studioinvite/internal/apperrors"
	"github.com/aliuyar1234/studioinvite/internal/studio"
	"github.com/aliuyar1234/studioinvite/internal/validation"
)

// Config holds everything a command needs before it starts prompting.
// Empty credential and target fields are asked for interactively.
type Config struct {
	APIURL string

	Username       string
	Password       string
	OrganizationID string
	ProjectID      string

	LogLevel      string
	HTTPTimeoutMS int

	SecretsFile  string
	AuditLogPath string

	// SecretsLoaded is set when any value came from the secrets file.
	SecretsLoaded bool
}

// Overrides are values given on the command line. Non-empty fields win over
// the environment and are applied before the secrets file is consulted.
type Overrides struct {
	OrganizationID string
	ProjectID      string
	AuditLogPath   string
}

// Load reads configuration from environment variables, then fills missing
// credentials and the organization from the secrets file, if present. The
// project is never taken from the secrets file.
func Load() (*Config, error) {
	return LoadWith(Overrides{})
}

// LoadWith is Load with command-line overrides applied.
func LoadWith(o Overrides) (*Config, error) {
	cfg := &Config{}

	cfg.APIURL = strings.TrimRight(getEnvOrDefault("EDGEIMPULSE_API_URL", studio.DefaultBaseURL), "/")
	if err := validation.ValidateBaseURL(cfg.APIURL); err != nil {
		return nil, fmt.Errorf("%w: EDGEIMPULSE_API_URL: %v", apperrors.ErrInvalidConfig, err)
	}

	cfg.Username = strings.TrimSpace(os.Getenv("EDGEIMPULSE_USERNAME"))
	cfg.Password = os.Getenv("EDGEIMPULSE_PASSWORD")
	cfg.OrganizationID = strings.TrimSpace(os.Getenv("EDGEIMPULSE_ORG_ID"))
	cfg.ProjectID = strings.TrimSpace(os.Getenv("EDGEIMPULSE_PROJECT_ID"))

	var err error
	if cfg.LogLevel, err = LoadLogLevel(); err != nil {
		return nil, err
	}

	cfg.HTTPTimeoutMS, err = getEnvIntOrDefault("EDGEIMPULSE_HTTP_TIMEOUT_MS", 30000)
	if err != nil {
		return nil, err
	}
	if cfg.HTTPTimeoutMS <= 0 || cfg.HTTPTimeoutMS > 300000 {
		return nil, fmt.Errorf("%w: EDGEIMPULSE_HTTP_TIMEOUT_MS must be between 1 and 300000 (got: %d)", apperrors.ErrInvalidConfig, cfg.HTTPTimeoutMS)
	}

	cfg.SecretsFile = getEnvOrDefault("EDGEIMPULSE_SECRETS_FILE", "secrets.json")
	cfg.AuditLogPath = strings.TrimSpace(os.Getenv("EDGEIMPULSE_AUDIT_LOG"))

	if v := strings.TrimSpace(o.OrganizationID); v != "" {
		cfg.OrganizationID = v
	}
	if v := strings.TrimSpace(o.ProjectID); v != "" {
		cfg.ProjectID = v
	}
	if v := strings.TrimSpace(o.AuditLogPath); v != "" {
		cfg.AuditLogPath = v
	}

	if cfg.needsSecrets() {
		cfg.loadSecretsFile()
	}

	return cfg, nil
}

// LoadLogLevel reads only EDGEIMPULSE_LOG_LEVEL, for commands that never talk
// to the platform.
func LoadLogLevel() (string, error) {
	level := getEnvOrDefault("EDGEIMPULSE_LOG_LEVEL", "info")
	switch level {
	case "debug", "info", "warn", "error":
		return level, nil
	default:
		return "", fmt.Errorf("%w: EDGEIMPULSE_LOG_LEVEL must be one of: debug, info, warn, error (got: %s)", apperrors.ErrInvalidConfig, level)
	}
}

func (c *Config) needsSecrets() bool {
	return c.Username == "" || c.Password == "" || c.OrganizationID == ""
}

// loadSecretsFile fills empty fields from a JSON file that may use either
// snake_case keys or the environment variable names. A missing or unreadable
// file leaves the fields empty so they are prompted for.
func (c *Config) loadSecretsFile() {
	if c.SecretsFile == "" {
		return
	}
	if _, err := os.Stat(c.SecretsFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("file", c.SecretsFile).Msg("Could not read secrets file")
		}
		return
	}

	v := viper.New()
	v.SetConfigFile(c.SecretsFile)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		log.Warn().Err(err).Str("file", c.SecretsFile).Msg("Could not read secrets file")
		return
	}

	fill := func(dst *string, keys ...string) {
		if *dst != "" {
			return
		}
		for _, k := range keys {
			if val := strings.TrimSpace(v.GetString(k)); val != "" {
				*dst = val
				c.SecretsLoaded = true
				return
			}
		}
	}
	fill(&c.Username, "username", "EDGEIMPULSE_USERNAME")
	fill(&c.Password, "password", "EDGEIMPULSE_PASSWORD")
	fill(&c.OrganizationID, "organization_id", "EDGEIMPULSE_ORG_ID")

	if c.SecretsLoaded {
		log.Warn().Str("file", c.SecretsFile).Msg("Loaded secrets from file, make sure it is not committed")
	}
}

// RedactedValues returns a map of config values with secrets redacted.
func (c *Config) RedactedValues() map[string]string {
	return map[string]string{
		"EDGEIMPULSE_API_URL":         c.APIURL,
		"EDGEIMPULSE_USERNAME":        c.Username,
		"EDGEIMPULSE_PASSWORD":        redact(c.Password),
		"EDGEIMPULSE_ORG_ID":          c.OrganizationID,
		"EDGEIMPULSE_PROJECT_ID":      c.ProjectID,
		"EDGEIMPULSE_LOG_LEVEL":       c.LogLevel,
		"EDGEIMPULSE_HTTP_TIMEOUT_MS": fmt.Sprintf("%d", c.HTTPTimeoutMS),
		"EDGEIMPULSE_SECRETS_FILE":    c.SecretsFile,
		"EDGEIMPULSE_AUDIT_LOG":       c.AuditLogPath,
	}
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	return "[REDACTED]"
}

func getEnvOrDefault(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer (got: %q)", apperrors.ErrInvalidConfig, key, value)
	}
	return parsed, nil
}
