package resolve

import (
	"context"
	"fmt"
	"net/url"

	"github.com/aliuyar1234/studioinvite/internal/studio"
)

var (
	listKeys       = []string{"members", "users", "data", "results"}
	emailKeys      = []string{"email", "mail"}
	userObjectKeys = []string{"user", "data", "result"}
)

// MemberExtractors covers the member-listing shapes seen so far: a bare
// list, a list under a synonym key, or one level deeper under
// "organization".
func MemberExtractors() []Extractor {
	out := []Extractor{List()}
	for _, k := range listKeys {
		out = append(out, Keyed(k))
	}
	for _, k := range []string{"members", "users"} {
		out = append(out, Nested("organization", k))
	}
	return out
}

// EmailExtractors covers the user-lookup shapes: a top-level email field, a
// nested user object, or the first element of a list.
func EmailExtractors() []Extractor {
	out := []Extractor{Keyed("email"), Keyed("mail"), Keyed("user_email")}
	for _, outer := range userObjectKeys {
		for _, k := range emailKeys {
			out = append(out, Nested(outer, k))
		}
	}
	for _, lk := range listKeys {
		for _, k := range emailKeys {
			out = append(out, First(lk, k))
		}
	}
	for _, k := range emailKeys {
		out = append(out, First("", k))
	}
	return out
}

// MemberCandidates lists the endpoints that may enumerate an organization's
// members, most specific first.
func MemberCandidates(orgID string) []Candidate {
	org := url.PathEscape(orgID)
	ex := MemberExtractors()
	return []Candidate{
		{Path: fmt.Sprintf("/v1/api/organizations/%s/members", org), Extractors: ex},
		{Path: fmt.Sprintf("/v1/api/organizations/%s", org), Extractors: ex},
		{Path: fmt.Sprintf("/v1/api/organizations/%s/users", org), Extractors: ex},
		{Path: "/v1/api/organizations", Extractors: ex},
	}
}

// UserEmailCandidates lists the endpoints that may reveal a user's email.
// The organization-scoped ones are only tried when orgID is known.
func UserEmailCandidates(userID, orgID string) []Candidate {
	user := url.PathEscape(userID)
	ex := EmailExtractors()

	out := []Candidate{{Path: fmt.Sprintf("/v1/api/users/%s", user), Extractors: ex}}
	if orgID != "" {
		org := url.PathEscape(orgID)
		out = append(out,
			Candidate{Path: fmt.Sprintf("/v1/api/organizations/%s/members/%s", org, user), Extractors: ex},
			Candidate{Path: fmt.Sprintf("/v1/api/organizations/%s/users/%s", org, user), Extractors: ex},
		)
	}
	out = append(out, Candidate{Path: "/v1/api/users?id=" + url.QueryEscape(userID), Extractors: ex})
	return out
}

// Members resolves the member list of an organization.
func Members(ctx context.Context, f Fetcher, sess studio.Session, orgID string) ([]map[string]any, error) {
	return Resolve[[]map[string]any](ctx, f, sess, MemberCandidates(orgID), Records)
}

// UserEmail resolves the email address of a user.
func UserEmail(ctx context.Context, f Fetcher, sess studio.Session, userID, orgID string) (string, error) {
	return Resolve[string](ctx, f, sess, UserEmailCandidates(userID, orgID), Email)
}
