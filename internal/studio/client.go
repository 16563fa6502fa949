package studio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is the public Studio API.
	DefaultBaseURL = "https://studio.edgeimpulse.com"

	// TokenHeader carries the session token on every authorized call.
	TokenHeader = "x-jwt-token"

	maxBodyBytes   = 8 * 1024 * 1024
	snippetLength  = 200
	defaultTimeout = 30 * time.Second
)

// ErrNonJSON is returned when a 200 response body cannot be decoded.
var ErrNonJSON = errors.New("non-json response")

// StatusError reports a non-200 response to a GET.
type StatusError struct {
	StatusCode int
	Snippet    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Snippet)
}

// Response is the raw outcome of a POST. Non-200 statuses are not errors at
// this level; the caller decides what counts as success.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the platform accepted the request.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode == http.StatusOK
}

// Text returns the body for display, trimmed to a short snippet.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return snippet(r.Body)
}

// Client talks to the Studio REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
}

// NewClient creates a client for baseURL with the given per-request timeout.
// A non-positive timeout falls back to 30s.
func NewClient(baseURL string, timeoutMS int) *Client {
	timeout := time.Duration(timeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
	}
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetJSON issues one authorized GET and decodes the body into generic JSON
// values. Numbers decode as json.Number so identifiers keep their precision.
func (c *Client) GetJSON(ctx context.Context, sess Session, path string) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	sess.authorize(req)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Snippet: snippet(body)}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("%w from %s", ErrNonJSON, path)
	}
	if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w from %s: trailing data after JSON value", ErrNonJSON, path)
	}
	return data, nil
}

// PostJSON issues one authorized POST with a JSON body. Only transport and
// encoding failures are returned as errors.
func (c *Client) PostJSON(ctx context.Context, sess Session, path string, payload any) (*Response, error) {
	return c.post(ctx, &sess, path, payload)
}

func (c *Client) post(ctx context.Context, sess *Session, path string, payload any) (*Response, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if sess != nil {
		sess.authorize(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == nil && isTimeoutError(err) {
			log.Warn().
				Err(err).
				Dur("timeout", c.timeout).
				Str("path", path).
				Msg("Studio request timed out")
		}
		return nil, fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// snippet shortens body for logs, cutting on a rune boundary.
func snippet(body []byte) string {
	s := strings.ToValidUTF8(strings.TrimSpace(string(body)), "\uFFFD")
	if len(s) <= snippetLength {
		return s
	}
	n := snippetLength
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isTimeoutError(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
