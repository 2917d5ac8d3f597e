package guard

import "github.com/Temutjin2k/safebike-web/internal/domain/types"

type Link struct {
	Label  string
	Path   string
	Active bool
}

var (
	passengerLinks = []Link{
		{Label: "Dashboard", Path: PassengerPath},
		{Label: "New Package", Path: "/passenger/packages/new"},
		{Label: "My Packages", Path: "/passenger/packages"},
	}
	riderLinks = []Link{
		{Label: "Dashboard", Path: RiderPath},
		{Label: "Available Packages", Path: "/rider/packages/available"},
		{Label: "My Deliveries", Path: "/rider/deliveries"},
	}
	adminLinks = []Link{
		{Label: "Dashboard", Path: AdminPath},
		{Label: "Manage Packages", Path: "/admin/packages"},
		{Label: "Manage Users", Path: "/admin/users"},
	}
	anonymousLinks = []Link{
		{Label: "Login", Path: LoginPath},
		{Label: "Register as Passenger", Path: "/auth/register/passenger"},
		{Label: "Register as Rider", Path: "/auth/register/rider"},
	}
)

// Menu returns the navigation links for a session, marking the one matching current.
func Menu(s Session, current string) []Link {
	links := []Link{{Label: "Home", Path: HomePath}}

	role := types.RoleAnonymous
	if s != nil && s.IsAuthenticated() {
		role = s.Role()
	}

	switch role {
	case types.RolePassenger:
		links = append(links, passengerLinks...)
	case types.RoleRider:
		links = append(links, riderLinks...)
	case types.RoleAdmin:
		links = append(links, adminLinks...)
	case types.RoleAnonymous:
		links = append(links, anonymousLinks...)
	default:
		// authenticated with an unrecognized role: home only
	}

	for i := range links {
		links[i].Active = links[i].Path == current
	}
	return links
}
