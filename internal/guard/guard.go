// Package guard decides whether a screen may be rendered for the current
// session, and builds the navigation menu for it.
package guard

import (
	"slices"

	"github.com/Temutjin2k/safebike-web/internal/domain/types"
)

const (
	LoginPath     = "/auth/login"
	HomePath      = "/"
	PassengerPath = "/passenger"
	RiderPath     = "/rider"
	AdminPath     = "/admin"
)

// Session is the part of the session store the guard looks at.
type Session interface {
	IsAuthenticated() bool
	Role() types.Role
}

// Decision is the outcome for one screen: render it, or redirect.
type Decision struct {
	Redirect string
}

// Render reports whether the screen may be shown.
func (d Decision) Render() bool {
	return d.Redirect == ""
}

// Decide checks s against the roles allowed on a screen.
// Unauthenticated sessions go to the login screen; authenticated sessions
// with the wrong role go to their own dashboard.
func Decide(s Session, allowed ...types.Role) Decision {
	if s == nil || !s.IsAuthenticated() {
		return Decision{Redirect: LoginPath}
	}

	role := s.Role()
	if role.Known() && slices.Contains(allowed, role) {
		return Decision{}
	}

	return Decision{Redirect: HomeFor(role)}
}

// HomeFor returns the dashboard path of a role, or "/" for anonymous and
// unrecognized roles.
func HomeFor(role types.Role) string {
	switch role {
	case types.RolePassenger:
		return PassengerPath
	case types.RoleRider:
		return RiderPath
	case types.RoleAdmin:
		return AdminPath
	case types.RoleAnonymous:
		return HomePath
	default:
		return HomePath
	}
}
