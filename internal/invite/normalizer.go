package invite

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/aliuyar1234/studioinvite/internal/apperrors"
	"github.com/aliuyar1234/studioinvite/internal/resolve"
	"github.com/aliuyar1234/studioinvite/internal/studio"
)

// ErrRecordSkipped is returned by Normalize when no email or username can
// be determined for a record.
var ErrRecordSkipped = apperrors.ErrRecordSkipped

// Normalizer turns heterogeneous records into invite payloads.
type Normalizer struct {
	users  resolve.Fetcher
	target Target
}

// NewNormalizer creates a normalizer for target. users is used to look up
// emails for records that only carry an id; nil disables the lookup.
func NewNormalizer(users resolve.Fetcher, target Target) *Normalizer {
	return &Normalizer{users: users, target: target}
}

// Normalize resolves rec into both payload variants. It returns an error
// wrapping ErrRecordSkipped when the record cannot be addressed; context
// errors are returned as-is.
func (n *Normalizer) Normalize(ctx context.Context, sess studio.Session, rec Record) (Normalized, error) {
	userID := rec.UserID()
	email := rec.Email()
	resolution := StateResolvedByEmail

	if email == "" && userID != "" && n.users != nil {
		found, err := resolve.UserEmail(ctx, n.users, sess, userID, n.target.OrgID)
		switch {
		case err == nil:
			email = found
			resolution = StateResolvedByLookup
		case ctx.Err() != nil:
			return Normalized{}, ctx.Err()
		case errors.Is(err, resolve.ErrCandidateExhausted):
			log.Warn().Err(err).Str("user_id", userID).Msg("Could not fetch email for user")
		default:
			return Normalized{}, err
		}
	}

	if email == "" {
		return Normalized{Label: rec.Label(), Resolution: StateSkipped},
			fmt.Errorf("%w: no email available for %s", ErrRecordSkipped, rec.Label())
	}

	role := rec.Role()
	org := Payload{
		Role:     role,
		Datasets: rec.Datasets(),
		Email:    email,
		UserID:   userID,
	}
	if n.target.ProjectID != "" {
		org.Projects = []string{n.target.ProjectID}
	}

	project := Payload{
		Role:            role,
		Datasets:        rec.Datasets(),
		Email:           email,
		UserID:          userID,
		UsernameOrEmail: email,
	}

	return Normalized{
		Label:      email,
		Resolution: resolution,
		Org:        org,
		Project:    project,
	}, nil
}
