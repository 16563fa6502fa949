package validation

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

var (
	// ErrIDRequired is returned when an organization or project ID is empty
	ErrIDRequired = errors.New("id is required")

	// ErrInvalidID is returned when an ID contains characters that cannot
	// appear in a Studio URL segment
	ErrInvalidID = errors.New("invalid id format")

	// idRegex accepts the identifiers Studio shows in its URLs: digits, or
	// slug-like tokens of letters, digits, '-' and '_'.
	idRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)
)

// NormalizeID trims whitespace and a copied trailing slash.
func NormalizeID(id string) string {
	return strings.Trim(strings.TrimSpace(id), "/")
}

// ValidateID checks an organization or project ID after normalization.
func ValidateID(id string) error {
	id = NormalizeID(id)
	if id == "" {
		return ErrIDRequired
	}
	if !idRegex.MatchString(id) {
		return ErrInvalidID
	}
	return nil
}

// ValidateBaseURL validates the API root URL.
func ValidateBaseURL(raw string) error {
	if raw == "" {
		return errors.New("API URL is required")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return errors.New("API URL is not a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("API URL must start with http:// or https://")
	}
	if u.Host == "" {
		return errors.New("API URL must include a host")
	}

	return nil
}
