package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aliuyar1234/studioinvite/internal/apperrors"
	"github.com/aliuyar1234/studioinvite/internal/audit"
	"github.com/aliuyar1234/studioinvite/internal/config"
	"github.com/aliuyar1234/studioinvite/internal/studio"
)

// Asker supplies values the configuration left empty.
type Asker interface {
	Default(value, label string) (string, error)
	Secret(label string) (string, error)
	TOTP(ctx context.Context) (string, error)
}

// App holds the state shared by one command run.
type App struct {
	Config *config.Config
	Client *studio.Client
	RunID  uuid.UUID
	Audit  *audit.Writer

	auditFile io.Closer
}

// New creates and initializes a new application instance
func New(cfg *config.Config) (*App, error) {
	runID := uuid.New()
	SetupLogger(cfg.LogLevel, os.Stderr)
	log.Logger = log.With().Str("run_id", runID.String()).Logger()

	log.Debug().Interface("config", cfg.RedactedValues()).Msg("Configuration loaded")

	a := &App{
		Config: cfg,
		Client: studio.NewClient(cfg.APIURL, cfg.HTTPTimeoutMS),
		RunID:  runID,
	}

	var out io.Writer
	if cfg.AuditLogPath != "" {
		f, err := os.OpenFile(cfg.AuditLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to open audit log: %v", apperrors.ErrInvalidConfig, err)
		}
		log.Info().Str("path", cfg.AuditLogPath).Msg("Writing audit log")
		a.auditFile = f
		out = f
	}
	a.Audit = audit.NewWriter(runID, out)

	return a, nil
}

// Login fills in missing credentials through ask and authenticates once.
// The returned session is reused for the rest of the run.
func (a *App) Login(ctx context.Context, ask Asker) (studio.Session, error) {
	username, err := ask.Default(a.Config.Username, "Edge Impulse username or email: ")
	if err != nil {
		return studio.Session{}, fmt.Errorf("%w: %v", apperrors.ErrAuthFailure, err)
	}
	password := a.Config.Password
	if password == "" {
		if password, err = ask.Secret("Edge Impulse password: "); err != nil {
			return studio.Session{}, fmt.Errorf("%w: %v", apperrors.ErrAuthFailure, err)
		}
	}

	return a.Client.Login(ctx, studio.Credentials{Username: username, Password: password}, ask.TOTP)
}

// Close flushes and closes the audit log, if one was opened.
func (a *App) Close() {
	if a.auditFile == nil {
		return
	}
	if err := a.auditFile.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close audit log")
	}
}

// SetupLogger configures the global logger
func SetupLogger(level string, out io.Writer) {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	log.Debug().Str("level", level).Msg("Logger configured")
}
