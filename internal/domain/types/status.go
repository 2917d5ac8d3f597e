package types

// PackageStatus is the backend-owned lifecycle state of a delivery request.
type PackageStatus string

func (s PackageStatus) String() string {
	return string(s)
}

const (
	StatusPending   PackageStatus = "PENDING"
	StatusAccepted  PackageStatus = "ACCEPTED"
	StatusPickedUp  PackageStatus = "PICKED_UP"
	StatusInTransit PackageStatus = "IN_TRANSIT"
	StatusDelivered PackageStatus = "DELIVERED"
	StatusCanceled  PackageStatus = "CANCELED"
)

// AllStatuses lists the statuses in lifecycle order.
var AllStatuses = []PackageStatus{
	StatusPending,
	StatusAccepted,
	StatusPickedUp,
	StatusInTransit,
	StatusDelivered,
	StatusCanceled,
}

// Active reports whether the package is still on its way.
func (s PackageStatus) Active() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusPickedUp, StatusInTransit:
		return true
	default:
		return false
	}
}

// Color is the badge color used by the screens.
func (s PackageStatus) Color() string {
	switch s {
	case StatusPending:
		return "yellow"
	case StatusAccepted:
		return "blue"
	case StatusPickedUp:
		return "purple"
	case StatusInTransit:
		return "orange"
	case StatusDelivered:
		return "green"
	case StatusCanceled:
		return "red"
	default:
		return "gray"
	}
}
