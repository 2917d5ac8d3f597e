package handler

import (
	"context"
	"net/http"

	"github.com/Temutjin2k/safebike-web/internal/domain/models"
	"github.com/Temutjin2k/safebike-web/internal/service/screens"
	"github.com/Temutjin2k/safebike-web/internal/session"
	wrap "github.com/Temutjin2k/safebike-web/pkg/logger/wrapper"
)

type RiderScreens interface {
	Dashboard(ctx context.Context, sess screens.TokenSource) (screens.State[models.RiderStats], error)
	Available(ctx context.Context, sess screens.TokenSource) (screens.State[[]models.DeliveryRequest], error)
	Deliveries(ctx context.Context, sess screens.TokenSource) (screens.State[[]models.DeliveryRequest], error)
	Accept(ctx context.Context, sess screens.TokenSource, form screens.AssignForm) (screens.State[[]models.DeliveryRequest], error)
	ConfirmPickup(ctx context.Context, sess screens.TokenSource, id string) (screens.State[[]models.DeliveryRequest], error)
	ConfirmDelivery(ctx context.Context, sess screens.TokenSource, id string) (screens.State[[]models.DeliveryRequest], error)
}

const (
	availablePath  = "/rider/packages/available"
	deliveriesPath = "/rider/deliveries"
)

type Rider struct {
	*Base
	screens RiderScreens
}

func NewRider(base *Base, s RiderScreens) *Rider {
	return &Rider{
		Base:    base,
		screens: s,
	}
}

type availableView struct {
	Items       []models.DeliveryRequest
	PlateNumber string
}

func (h *Rider) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "rider_dashboard")

	st, err := h.screens.Dashboard(ctx, session.FromContext(ctx))
	renderRead(h.Base, w, r, "Rider dashboard", "rider_dashboard.html", st, err, asIs)
}

func (h *Rider) Available(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "rider_available")

	st, err := h.screens.Available(ctx, session.FromContext(ctx))
	renderRead(h.Base, w, r, "Available packages", "rider_available.html", st, err,
		func(items []models.DeliveryRequest) any { return availableView{Items: items} },
	)
}

func (h *Rider) Deliveries(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "rider_deliveries")

	st, err := h.screens.Deliveries(ctx, session.FromContext(ctx))
	renderRead(h.Base, w, r, "My deliveries", "rider_deliveries.html", st, err, asIs)
}

func (h *Rider) Accept(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ctx := wrap.WithPackageID(wrap.WithAction(r.Context(), "accept_package"), id)
	r = r.WithContext(ctx)
	sess := session.FromContext(ctx)

	if err := readForm(w, r); err != nil {
		h.l.Warn(ctx, "failed to read accept form", "error", err.Error())
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	form := screens.AssignForm{
		PackageID:   id,
		PlateNumber: r.PostForm.Get("plateNumber"),
	}

	st, err := h.screens.Accept(ctx, sess, form)
	renderAfterWrite(h.Base, w, r, "Available packages", "rider_available.html", st, err,
		func() (screens.State[[]models.DeliveryRequest], error) { return h.screens.Available(ctx, sess) },
		func(items []models.DeliveryRequest) any {
			return availableView{Items: items, PlateNumber: form.PlateNumber}
		},
		doneURL(availablePath, "accepted"),
	)
}

func (h *Rider) ConfirmPickup(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ctx := wrap.WithPackageID(wrap.WithAction(r.Context(), "confirm_pickup"), id)
	sess := session.FromContext(ctx)

	st, err := h.screens.ConfirmPickup(ctx, sess, id)
	renderAfterWrite(h.Base, w, r, "My deliveries", "rider_deliveries.html", st, err,
		func() (screens.State[[]models.DeliveryRequest], error) { return h.screens.Deliveries(ctx, sess) },
		asIs,
		doneURL(deliveriesPath, "picked-up"),
	)
}

func (h *Rider) ConfirmDelivery(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ctx := wrap.WithPackageID(wrap.WithAction(r.Context(), "confirm_delivery"), id)
	sess := session.FromContext(ctx)

	st, err := h.screens.ConfirmDelivery(ctx, sess, id)
	renderAfterWrite(h.Base, w, r, "My deliveries", "rider_deliveries.html", st, err,
		func() (screens.State[[]models.DeliveryRequest], error) { return h.screens.Deliveries(ctx, sess) },
		asIs,
		doneURL(deliveriesPath, "delivered"),
	)
}
