package types

import "strings"

// Role is the closed set of user roles. Values received from the backend that
// are not one of the known roles are kept verbatim and reported as unknown.
type Role string

const (
	RoleAnonymous Role = ""
	RolePassenger Role = "passenger"
	RoleRider     Role = "rider"
	RoleAdmin     Role = "admin"
)

func (r Role) String() string {
	if r == RoleAnonymous {
		return "anonymous"
	}
	return string(r)
}

// Known reports whether r is one of passenger, rider or admin.
func (r Role) Known() bool {
	switch r {
	case RolePassenger, RoleRider, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole normalizes a role string coming from the backend or a form.
// The bool is false when the value is not a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Known()
}
