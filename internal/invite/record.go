package invite

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultRole is used when a record names no role.
const DefaultRole = "member"

// Record is one row of invite data: a CSV line or an organization member as
// returned by the API. Keys are not guaranteed to be present.
type Record map[string]any

// Email returns the first non-blank of email, mail.
func (r Record) Email() string {
	return r.firstString("email", "mail")
}

// UserID returns the first non-blank of id, userId, user_id.
func (r Record) UserID() string {
	return r.firstString("id", "userId", "user_id")
}

// Role returns role, then roles (a string or the first non-blank entry of a
// list), else DefaultRole.
func (r Record) Role() string {
	if role := r.firstString("role"); role != "" {
		return role
	}
	switch roles := r["roles"].(type) {
	case []any:
		for _, v := range roles {
			if s := stringify(v); s != "" {
				return s
			}
		}
	case []string:
		for _, s := range roles {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	default:
		if s := stringify(roles); s != "" {
			return s
		}
	}
	return DefaultRole
}

// Datasets returns the record's datasets as an ordered list. A string is
// split on ';'. Entries are trimmed and blanks dropped. Never nil.
func (r Record) Datasets() []string {
	out := []string{}
	switch v := r["datasets"].(type) {
	case nil:
	case string:
		out = appendNonBlank(out, strings.Split(v, ";")...)
	case []string:
		out = appendNonBlank(out, v...)
	case []any:
		for _, item := range v {
			out = appendNonBlank(out, stringify(item))
		}
	default:
		out = appendNonBlank(out, stringify(v))
	}
	return out
}

// Label names the record in logs.
func (r Record) Label() string {
	if email := r.Email(); email != "" {
		return email
	}
	if id := r.UserID(); id != "" {
		return "user:" + id
	}
	return "<unidentified>"
}

func (r Record) firstString(keys ...string) string {
	for _, k := range keys {
		if s := stringify(r[k]); s != "" {
			return s
		}
	}
	return ""
}

func appendNonBlank(out []string, items ...string) []string {
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// stringify renders scalar JSON values. Objects and lists render empty.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case fmt.Stringer:
		return strings.TrimSpace(t.String())
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		if t {
			return "true"
		}
		return ""
	default:
		return ""
	}
}
