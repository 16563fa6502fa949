package studio

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the authenticated context of one run. It is created once at
// login and passed by value to every call; nothing mutates it afterwards.
type Session struct {
	token     string
	subject   string
	expiresAt time.Time
}

// NewSession wraps a token returned by the login endpoint. When the token is
// a JWT its registered claims are read without verification, for logging
// only; opaque tokens are accepted as-is.
func NewSession(token string) Session {
	sess := Session{token: token}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return sess
	}
	sess.subject = claims.Subject
	if claims.ExpiresAt != nil {
		sess.expiresAt = claims.ExpiresAt.Time
	}
	return sess
}

// Token returns the raw session token.
func (s Session) Token() string {
	return s.token
}

// Valid reports whether the session carries a token at all.
func (s Session) Valid() bool {
	return s.token != ""
}

// Subject returns the token subject, if the token exposed one.
func (s Session) Subject() string {
	return s.subject
}

// ExpiresAt returns the token expiry when the token declares one.
func (s Session) ExpiresAt() (time.Time, bool) {
	return s.expiresAt, !s.expiresAt.IsZero()
}

func (s Session) authorize(req *http.Request) {
	if s.token != "" {
		req.Header.Set(TokenHeader, s.token)
	}
}
