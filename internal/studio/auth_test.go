package studio

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/aliuyar1234/studioinvite/internal/apperrors"
)

func loginServer(t *testing.T, handle func(req loginRequest) loginResponse) (*httptest.Server, *[]loginRequest) {
	t.Helper()

	var seen []loginRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, loginPath, r.URL.Path)
		require.Empty(t, r.Header.Get(TokenHeader))

		var req loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		seen = append(seen, req)

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(handle(req)))
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestLogin_Success(t *testing.T) {
	srv, seen := loginServer(t, func(req loginRequest) loginResponse {
		return loginResponse{Success: true, Token: "abc"}
	})

	sess, err := NewClient(srv.URL, 1000).Login(context.Background(), Credentials{Username: "u", Password: "p"}, nil)
	require.NoError(t, err)
	require.Equal(t, "abc", sess.Token())
	require.Len(t, *seen, 1)
	require.Equal(t, "cli", (*seen)[0].SSOType)
	require.Equal(t, "", (*seen)[0].UUID)
	require.Empty(t, (*seen)[0].TOTPToken)
}

func TestLogin_TOTPRequired(t *testing.T) {
	srv, seen := loginServer(t, func(req loginRequest) loginResponse {
		if req.TOTPToken == "" {
			return loginResponse{Success: false, Error: "ERR_TOTP_TOKEN IS REQUIRED"}
		}
		if req.TOTPToken != "123456" {
			return loginResponse{Success: false, Error: "bad totp"}
		}
		return loginResponse{Success: true, Token: "mfa-token"}
	})

	prompted := 0
	prompt := func(ctx context.Context) (string, error) {
		prompted++
		return " 123456\n", nil
	}

	sess, err := NewClient(srv.URL, 1000).Login(context.Background(), Credentials{Username: "u", Password: "p"}, prompt)
	require.NoError(t, err)
	require.Equal(t, "mfa-token", sess.Token())
	require.Equal(t, 1, prompted)
	require.Len(t, *seen, 2)
	require.Equal(t, "123456", (*seen)[1].TOTPToken)
}

func TestLogin_Failure(t *testing.T) {
	srv, _ := loginServer(t, func(req loginRequest) loginResponse {
		return loginResponse{Success: false, Error: "Invalid credentials"}
	})

	_, err := NewClient(srv.URL, 1000).Login(context.Background(), Credentials{Username: "u", Password: "nope"}, nil)
	require.ErrorIs(t, err, apperrors.ErrAuthFailure)
	require.Contains(t, err.Error(), "Invalid credentials")
}

func TestLogin_UnknownError(t *testing.T) {
	srv, _ := loginServer(t, func(req loginRequest) loginResponse {
		return loginResponse{}
	})

	_, err := NewClient(srv.URL, 1000).Login(context.Background(), Credentials{}, nil)
	require.ErrorIs(t, err, apperrors.ErrAuthFailure)
	require.Contains(t, err.Error(), "Unknown error")
}

func TestLogin_PromptError(t *testing.T) {
	srv, _ := loginServer(t, func(req loginRequest) loginResponse {
		return loginResponse{Success: false, Error: "ERR_TOTP_TOKEN IS REQUIRED"}
	})

	prompt := func(ctx context.Context) (string, error) { return "", errors.New("eof") }
	_, err := NewClient(srv.URL, 1000).Login(context.Background(), Credentials{}, prompt)
	require.ErrorIs(t, err, apperrors.ErrAuthFailure)
}

func TestLogin_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, 1000).Login(context.Background(), Credentials{}, nil)
	require.ErrorIs(t, err, apperrors.ErrAuthFailure)
}

func TestNewSession_ReadsJWTClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("unknown-to-us"))
	require.NoError(t, err)

	sess := NewSession(token)
	require.True(t, sess.Valid())
	require.Equal(t, "42", sess.Subject())
	got, ok := sess.ExpiresAt()
	require.True(t, ok)
	require.True(t, exp.Equal(got))
}

func TestNewSession_OpaqueToken(t *testing.T) {
	sess := NewSession("not-a-jwt")
	require.Equal(t, "not-a-jwt", sess.Token())
	_, ok := sess.ExpiresAt()
	require.False(t, ok)
	require.Empty(t, sess.Subject())
}
