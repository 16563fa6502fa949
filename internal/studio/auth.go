package studio

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/aliuyar1234/studioinvite/internal/apperrors"
)

const (
	loginPath = "/v1/api-login"

	// totpRequired is the error text the platform returns when the account
	// has a second factor enabled.
	totpRequired = "ERR_TOTP_TOKEN IS REQUIRED"
)

// Credentials identify the Studio user running the tool.
type Credentials struct {
	Username string
	Password string
}

// TOTPPrompter asks the operator for a one-time second-factor token.
type TOTPPrompter func(ctx context.Context) (string, error)

type loginRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	UUID      string `json:"uuid"`
	SSOType   string `json:"ssoType"`
	TOTPToken string `json:"totpToken,omitempty"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Token   string `json:"token"`
}

// Login authenticates against the login endpoint. If the account needs a
// second factor and promptTOTP is set, the operator is asked once and the
// request is resubmitted. Every failure wraps apperrors.ErrAuthFailure.
func (c *Client) Login(ctx context.Context, creds Credentials, promptTOTP TOTPPrompter) (Session, error) {
	payload := loginRequest{
		Username: creds.Username,
		Password: creds.Password,
		UUID:     "",
		SSOType:  "cli",
	}

	data, err := c.login(ctx, payload)
	if err != nil {
		return Session{}, err
	}

	if !data.Success && strings.Contains(data.Error, totpRequired) && promptTOTP != nil {
		log.Debug().Str("username", creds.Username).Msg("Second factor required")
		token, err := promptTOTP(ctx)
		if err != nil {
			return Session{}, fmt.Errorf("%w: reading TOTP token: %v", apperrors.ErrAuthFailure, err)
		}
		payload.TOTPToken = strings.TrimSpace(token)
		data, err = c.login(ctx, payload)
		if err != nil {
			return Session{}, err
		}
	}

	if !data.Success {
		msg := data.Error
		if msg == "" {
			msg = "Unknown error"
		}
		return Session{}, fmt.Errorf("%w: %s", apperrors.ErrAuthFailure, msg)
	}
	if data.Token == "" {
		return Session{}, fmt.Errorf("%w: login response carried no token", apperrors.ErrAuthFailure)
	}

	sess := NewSession(data.Token)
	evt := log.Info().Str("username", creds.Username)
	if exp, ok := sess.ExpiresAt(); ok {
		evt = evt.Time("expires_at", exp)
	}
	evt.Msg("Login successful")

	return sess, nil
}

func (c *Client) login(ctx context.Context, payload loginRequest) (*loginResponse, error) {
	resp, err := c.post(ctx, nil, loginPath, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrAuthFailure, err)
	}

	var data loginResponse
	if err := json.Unmarshal(resp.Body, &data); err != nil {
		return nil, fmt.Errorf("%w: unreadable login response (status %d)", apperrors.ErrAuthFailure, resp.StatusCode)
	}
	return &data, nil
}
