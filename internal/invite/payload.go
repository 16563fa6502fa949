package invite

// Payload is the canonical invite body. Datasets is always sent, even when
// empty.
type Payload struct {
	Role            string   `json:"role"`
	Projects        []string `json:"projects,omitempty"`
	Datasets        []string `json:"datasets"`
	Email           string   `json:"email,omitempty"`
	UserID          string   `json:"userId,omitempty"`
	UsernameOrEmail string   `json:"usernameOrEmail,omitempty"`
}

// Addressable reports whether the payload can reach a user at all.
func (p Payload) Addressable() bool {
	return p.Email != "" || p.UsernameOrEmail != ""
}

// Target is where records are invited. ProjectID is empty for a plain
// organization invite.
type Target struct {
	OrgID     string
	ProjectID string
}

// Normalized is one record resolved into both payload variants.
type Normalized struct {
	Label      string
	Resolution State

	// Org is the organization-scope body, carrying the projects array.
	Org Payload
	// Project is the project-scope body: usernameOrEmail, no projects.
	Project Payload
}
