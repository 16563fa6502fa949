// Package resolve locates data across endpoints whose response shapes are
// not consistent. Candidates are tried strictly in order and the first one
// whose body matches one of its extractors wins.
package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/aliuyar1234/studioinvite/internal/apperrors"
	"github.com/aliuyar1234/studioinvite/internal/studio"
)

var (
	// ErrCandidateExhausted is matched by every ExhaustedError.
	ErrCandidateExhausted = apperrors.ErrCandidateExhausted

	// ErrNoMatch is recorded when a candidate answered but none of its
	// extractors found usable data.
	ErrNoMatch = errors.New("no extractor matched the response")
)

// Fetcher performs one authorized GET and returns the parsed JSON body.
type Fetcher interface {
	GetJSON(ctx context.Context, sess studio.Session, path string) (any, error)
}

// Candidate is one request variant plus the shapes to look for in its body.
type Candidate struct {
	Path       string
	Extractors []Extractor
}

// ExhaustedError is returned when no candidate produced data.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	if e.Last == nil {
		return fmt.Sprintf("%s after %d attempts", ErrCandidateExhausted, e.Attempts)
	}
	return fmt.Sprintf("%s after %d attempts: %v", ErrCandidateExhausted, e.Attempts, e.Last)
}

func (e *ExhaustedError) Is(target error) bool {
	return target == ErrCandidateExhausted
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// Resolve walks candidates in order, one attempt each. Per-candidate
// failures are recorded and never stop the walk; only context cancellation
// does. Later candidates are not requested once one has matched.
func Resolve[T any](ctx context.Context, f Fetcher, sess studio.Session, candidates []Candidate, decode Decoder[T]) (T, error) {
	var zero T
	var lastErr error

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		body, err := f.GetJSON(ctx, sess, c.Path)
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", c.Path, err)
			log.Debug().Err(err).Str("path", c.Path).Msg("Candidate failed")
			continue
		}

		for _, ex := range c.Extractors {
			v, ok := ex.Locate(body)
			if !ok {
				continue
			}
			if out, ok := decode(v); ok {
				log.Debug().
					Str("path", c.Path).
					Str("extractor", ex.String()).
					Msg("Candidate matched")
				return out, nil
			}
		}

		lastErr = fmt.Errorf("%s: %w", c.Path, ErrNoMatch)
		log.Debug().Str("path", c.Path).Msg("Candidate answered without usable data")
	}

	return zero, &ExhaustedError{Attempts: len(candidates), Last: lastErr}
}
