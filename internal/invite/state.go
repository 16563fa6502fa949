package invite

// State is where a record stands in its lifecycle:
//
//	Unresolved -> ResolvedByEmail | ResolvedByLookup | Skipped
//	Resolved*  -> SubmittedProject | SubmittedOrgFallback | SubmittedOrg | SubmitFailed
type State int

const (
	StateUnresolved State = iota
	StateResolvedByEmail
	StateResolvedByLookup
	StateSkipped
	StateSubmittedProject
	StateSubmittedOrgFallback
	StateSubmittedOrg
	StateSubmitFailed
)

func (s State) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateResolvedByEmail:
		return "resolved_by_email"
	case StateResolvedByLookup:
		return "resolved_by_lookup"
	case StateSkipped:
		return "skipped"
	case StateSubmittedProject:
		return "submitted_project"
	case StateSubmittedOrgFallback:
		return "submitted_org_fallback"
	case StateSubmittedOrg:
		return "submitted_org"
	case StateSubmitFailed:
		return "submit_failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	switch s {
	case StateSkipped, StateSubmittedProject, StateSubmittedOrgFallback, StateSubmittedOrg, StateSubmitFailed:
		return true
	default:
		return false
	}
}

// Submitted reports whether the platform accepted the invite.
func (s State) Submitted() bool {
	return s == StateSubmittedProject || s == StateSubmittedOrgFallback || s == StateSubmittedOrg
}
