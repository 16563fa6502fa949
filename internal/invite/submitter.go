package invite

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/aliuyar1234/studioinvite/internal/apperrors"
	"github.com/aliuyar1234/studioinvite/internal/studio"
)

// ErrSubmitFailed wraps every submission that no endpoint accepted.
var ErrSubmitFailed = apperrors.ErrSubmitFailed

// Poster performs one authorized JSON POST.
type Poster interface {
	PostJSON(ctx context.Context, sess studio.Session, path string, payload any) (*studio.Response, error)
}

// ProjectCollaboratorPath is the project-scope add-collaborator endpoint.
func ProjectCollaboratorPath(projectID string) string {
	return fmt.Sprintf("/v1/api/%s/collaborators/add", url.PathEscape(projectID))
}

// OrgInvitePath is the organization-scope invite endpoint.
func OrgInvitePath(orgID string) string {
	return fmt.Sprintf("/v1/api/organizations/%s/members/invite", url.PathEscape(orgID))
}

// Result describes the final submission attempt for a record.
type Result struct {
	State      State
	Endpoint   string
	StatusCode int
	Response   string
}

// Submitter sends normalized records to the platform. With a project target
// the project endpoint is tried first and the organization endpoint is the
// fallback; without one only the organization endpoint is used. Attempts are
// sequential.
type Submitter struct {
	poster Poster
	target Target
}

func NewSubmitter(poster Poster, target Target) *Submitter {
	return &Submitter{poster: poster, target: target}
}

// Submit returns the terminal state for n. The error wraps ErrSubmitFailed
// when every endpoint refused or was unreachable, and ErrRecordSkipped when
// neither payload names a user, in which case nothing is sent.
func (s *Submitter) Submit(ctx context.Context, sess studio.Session, n Normalized) (Result, error) {
	if !n.Org.Addressable() || !n.Project.Addressable() {
		return Result{State: StateSkipped},
			fmt.Errorf("%w: %s: payload has no email", ErrRecordSkipped, n.Label)
	}

	fallback := false

	if s.target.ProjectID != "" {
		path := ProjectCollaboratorPath(s.target.ProjectID)
		resp, err := s.poster.PostJSON(ctx, sess, path, n.Project)
		if err == nil && resp.OK() {
			return Result{
				State:      StateSubmittedProject,
				Endpoint:   path,
				StatusCode: resp.StatusCode,
				Response:   resp.Text(),
			}, nil
		}
		if ctx.Err() != nil {
			return Result{State: StateSubmitFailed, Endpoint: path}, ctx.Err()
		}

		evt := log.Warn().Str("record", n.Label).Str("endpoint", path)
		if err != nil {
			evt = evt.Err(err)
		} else {
			evt = evt.Int("status_code", resp.StatusCode).Str("response", resp.Text())
		}
		evt.Msg("Project endpoint refused invite, falling back to organization invite")
		fallback = true
	}

	if s.target.OrgID == "" {
		return Result{State: StateSubmitFailed},
			fmt.Errorf("%w: %s: no organization to fall back to", ErrSubmitFailed, n.Label)
	}

	path := OrgInvitePath(s.target.OrgID)
	resp, err := s.poster.PostJSON(ctx, sess, path, n.Org)
	if err != nil {
		if ctx.Err() != nil {
			return Result{State: StateSubmitFailed, Endpoint: path}, ctx.Err()
		}
		return Result{State: StateSubmitFailed, Endpoint: path},
			fmt.Errorf("%w: %s: %v", ErrSubmitFailed, n.Label, err)
	}
	if !resp.OK() {
		return Result{
				State:      StateSubmitFailed,
				Endpoint:   path,
				StatusCode: resp.StatusCode,
				Response:   resp.Text(),
			},
			fmt.Errorf("%w: %s: status %d", ErrSubmitFailed, n.Label, resp.StatusCode)
	}

	state := StateSubmittedOrg
	if fallback {
		state = StateSubmittedOrgFallback
	}
	return Result{
		State:      state,
		Endpoint:   path,
		StatusCode: resp.StatusCode,
		Response:   resp.Text(),
	}, nil
}
