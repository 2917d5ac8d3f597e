package screens

import (
	"context"
	"time"

	"github.com/Temutjin2k/safebike-web/internal/domain/models"
	"github.com/Temutjin2k/safebike-web/internal/domain/types"
	"github.com/Temutjin2k/safebike-web/pkg/logger"
	wrap "github.com/Temutjin2k/safebike-web/pkg/logger/wrapper"
)

// CreateResult is the new package screen: the submitted form, and after a
// successful create the new package and the refreshed list.
type CreateResult struct {
	Form     PackageForm
	Created  models.DeliveryRequest
	Packages []models.DeliveryRequest
}

type Passenger struct {
	bind     Binder
	notifier Notifier
	log      logger.Logger
}

func NewPassenger(bind Binder, notifier Notifier, log logger.Logger) *Passenger {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Passenger{
		bind:     bind,
		notifier: notifier,
		log:      log,
	}
}

// Dashboard counts the passenger's packages by lifecycle stage.
func (p *Passenger) Dashboard(ctx context.Context, sess TokenSource) (State[models.PassengerStats], error) {
	gw := p.bind(sess)
	return readOnce(ctx, func(ctx context.Context) (models.PassengerStats, error) {
		list, err := gw.ListMyPackages(ctx)
		if err != nil {
			return models.PassengerStats{}, err
		}
		return PassengerStats(list), nil
	})
}

func (p *Passenger) Packages(ctx context.Context, sess TokenSource) (State[[]models.DeliveryRequest], error) {
	return readOnce(ctx, p.bind(sess).ListMyPackages)
}

func (p *Passenger) Package(ctx context.Context, sess TokenSource, id string) (State[models.DeliveryRequest], error) {
	gw := p.bind(sess)
	return readOnce(ctx, func(ctx context.Context) (models.DeliveryRequest, error) {
		return gw.GetPackage(ctx, id)
	})
}

// Create validates the form and submits it. Nothing is sent when the form is
// invalid; after a failed create the list is left untouched.
func (p *Passenger) Create(ctx context.Context, sess TokenSource, form PackageForm) (State[CreateResult], error) {
	st := State[CreateResult]{Data: CreateResult{Form: form}}
	if fields, err := validate(form.Validate); err != nil {
		st.FieldErrors, st.Err = fields, err
		return st, nil
	}

	gw := p.bind(sess)
	var (
		created models.DeliveryRequest
		wrote   bool
	)
	list, err := writeThenRefetch(ctx,
		func(ctx context.Context) error {
			var err error
			created, err = gw.CreatePackage(ctx, form.Request())
			wrote = err == nil
			return err
		},
		gw.ListMyPackages,
		func() { p.changed(ctx, sess, string(created.ID)) },
		"Package created",
	)
	if err != nil {
		return st, err
	}

	st.Err, st.Notice = list.Err, list.Notice
	if wrote {
		st.Data.Created = created
		st.Data.Packages = list.Data
	}
	return st, nil
}

func (p *Passenger) Cancel(ctx context.Context, sess TokenSource, id string) (State[[]models.DeliveryRequest], error) {
	gw := p.bind(sess)
	st, err := writeThenRefetch(ctx,
		func(ctx context.Context) error { return gw.CancelPackage(ctx, id) },
		gw.ListMyPackages,
		func() { p.changed(ctx, sess, id) },
		"Package canceled",
	)
	return st, err
}

func (p *Passenger) ConfirmReceipt(ctx context.Context, sess TokenSource, id string) (State[[]models.DeliveryRequest], error) {
	gw := p.bind(sess)
	st, err := writeThenRefetch(ctx,
		func(ctx context.Context) error { return gw.ConfirmReceipt(ctx, id) },
		gw.ListMyPackages,
		func() { p.changed(ctx, sess, id) },
		"Receipt confirmed",
	)
	return st, err
}

// changed reaches the passenger's own tabs and the roles that list every
// pending package; other passengers never see it.
func (p *Passenger) changed(ctx context.Context, sess TokenSource, id string) {
	ctx = wrap.WithPackageID(ctx, id)
	p.log.Info(ctx, "package changed by passenger")
	p.notifier.Notify(ctx, models.TabMessage{
		Type:       types.EventPackagesChanged,
		SessionKey: sessionKey(sess),
		Audience:   []types.Role{types.RoleRider, types.RoleAdmin},
		PackageID:  id,
		At:         time.Now(),
	})
}

// PassengerStats counts total, active and delivered packages.
func PassengerStats(list []models.DeliveryRequest) models.PassengerStats {
	stats := models.PassengerStats{Total: len(list)}
	for _, pkg := range list {
		if pkg.Status.Active() {
			stats.Active++
		}
		if pkg.Status == types.StatusDelivered {
			stats.Delivered++
		}
	}
	return stats
}
