package types

// TabEvent is the kind of notice pushed to open browser tabs.
type TabEvent string

func (s TabEvent) String() string {
	return string(s)
}

const (
	// EventSessionChanged tells the tabs of one session that it logged in or out.
	EventSessionChanged TabEvent = "session_changed"
	// EventPackagesChanged tells tabs that a package list they show may be stale.
	EventPackagesChanged TabEvent = "packages_changed"
)
