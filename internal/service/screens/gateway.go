package screens

import (
	"context"

	"github.com/Temutjin2k/safebike-web/internal/domain/models"
)

// TokenSource is the session the gateway calls are made for.
type TokenSource interface {
	Token() string
}

// sessionKey is the tab group of sess, empty when sess does not carry one.
func sessionKey(sess TokenSource) string {
	if k, ok := sess.(interface{ Key() string }); ok {
		return k.Key()
	}
	return ""
}

type AuthGateway interface {
	Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error)
	RegisterPassenger(ctx context.Context, req models.RegisterPassengerRequest) error
	RegisterRider(ctx context.Context, req models.RegisterRiderRequest) error
}

type PassengerGateway interface {
	CreatePackage(ctx context.Context, req models.CreatePackageRequest) (models.DeliveryRequest, error)
	GetPackage(ctx context.Context, id string) (models.DeliveryRequest, error)
	ListMyPackages(ctx context.Context) ([]models.DeliveryRequest, error)
	CancelPackage(ctx context.Context, id string) error
	ConfirmReceipt(ctx context.Context, id string) error
}

type RiderGateway interface {
	ListAvailablePackages(ctx context.Context) ([]models.DeliveryRequest, error)
	ListRiderPackages(ctx context.Context) ([]models.DeliveryRequest, error)
	AssignPackage(ctx context.Context, id string, req models.AssignPackageRequest) error
	ConfirmPickup(ctx context.Context, id string) error
	ConfirmDelivery(ctx context.Context, id string) error
}

type AdminGateway interface {
	ListAllPackages(ctx context.Context) ([]models.DeliveryRequest, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

// Gateway is every backend operation a screen may call.
type Gateway interface {
	AuthGateway
	PassengerGateway
	RiderGateway
	AdminGateway
}

// Binder returns a gateway that authenticates as the given session.
type Binder func(TokenSource) Gateway

// Notifier tells the open tabs that something they show has changed.
type Notifier interface {
	Notify(ctx context.Context, msg models.TabMessage)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, models.TabMessage) {}
