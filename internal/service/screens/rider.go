package screens

import (
	"context"
	"time"

	"github.com/Temutjin2k/safebike-web/internal/domain/models"
	"github.com/Temutjin2k/safebike-web/internal/domain/types"
	"github.com/Temutjin2k/safebike-web/pkg/logger"
	wrap "github.com/Temutjin2k/safebike-web/pkg/logger/wrapper"
)

type Rider struct {
	bind     Binder
	notifier Notifier
	log      logger.Logger
}

func NewRider(bind Binder, notifier Notifier, log logger.Logger) *Rider {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Rider{
		bind:     bind,
		notifier: notifier,
		log:      log,
	}
}

func (r *Rider) Dashboard(ctx context.Context, sess TokenSource) (State[models.RiderStats], error) {
	gw := r.bind(sess)
	return readOnce(ctx, func(ctx context.Context) (models.RiderStats, error) {
		list, err := gw.ListRiderPackages(ctx)
		if err != nil {
			return models.RiderStats{}, err
		}
		return RiderStats(list), nil
	})
}

func (r *Rider) Available(ctx context.Context, sess TokenSource) (State[[]models.DeliveryRequest], error) {
	return readOnce(ctx, r.bind(sess).ListAvailablePackages)
}

func (r *Rider) Deliveries(ctx context.Context, sess TokenSource) (State[[]models.DeliveryRequest], error) {
	return readOnce(ctx, r.bind(sess).ListRiderPackages)
}

// Accept assigns an available package to the rider's plate number, then
// reloads the available list.
func (r *Rider) Accept(ctx context.Context, sess TokenSource, form AssignForm) (State[[]models.DeliveryRequest], error) {
	if fields, err := validate(form.Validate); err != nil {
		return State[[]models.DeliveryRequest]{FieldErrors: fields, Err: err}, nil
	}

	gw := r.bind(sess)
	st, err := writeThenRefetch(ctx,
		func(ctx context.Context) error {
			return gw.AssignPackage(ctx, form.PackageID, models.AssignPackageRequest{PlateNumber: form.PlateNumber})
		},
		gw.ListAvailablePackages,
		func() { r.changed(ctx, sess, form.PackageID, "package accepted") },
		"Package accepted",
	)
	return st, err
}

func (r *Rider) ConfirmPickup(ctx context.Context, sess TokenSource, id string) (State[[]models.DeliveryRequest], error) {
	gw := r.bind(sess)
	st, err := writeThenRefetch(ctx,
		func(ctx context.Context) error { return gw.ConfirmPickup(ctx, id) },
		gw.ListRiderPackages,
		func() { r.changed(ctx, sess, id, "pickup confirmed") },
		"Pickup confirmed",
	)
	return st, err
}

func (r *Rider) ConfirmDelivery(ctx context.Context, sess TokenSource, id string) (State[[]models.DeliveryRequest], error) {
	gw := r.bind(sess)
	st, err := writeThenRefetch(ctx,
		func(ctx context.Context) error { return gw.ConfirmDelivery(ctx, id) },
		gw.ListRiderPackages,
		func() { r.changed(ctx, sess, id, "delivery confirmed") },
		"Delivery confirmed",
	)
	return st, err
}

// changed reaches every signed-in role: the package owner's session is not
// known here, so passengers learn only that a list may be stale.
func (r *Rider) changed(ctx context.Context, sess TokenSource, id, what string) {
	ctx = wrap.WithPackageID(ctx, id)
	r.log.Info(ctx, what)
	r.notifier.Notify(ctx, models.TabMessage{
		Type:       types.EventPackagesChanged,
		SessionKey: sessionKey(sess),
		Audience:   []types.Role{types.RolePassenger, types.RoleRider, types.RoleAdmin},
		PackageID:  id,
		At:         time.Now(),
	})
}

// RiderStats counts assigned, in-progress and delivered packages.
func RiderStats(list []models.DeliveryRequest) models.RiderStats {
	stats := models.RiderStats{Assigned: len(list)}
	for _, pkg := range list {
		switch pkg.Status {
		case types.StatusAccepted, types.StatusPickedUp, types.StatusInTransit:
			stats.InProgress++
		case types.StatusDelivered:
			stats.Delivered++
		}
	}
	return stats
}
