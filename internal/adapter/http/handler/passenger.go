package handler

import (
	"context"
	"net/http"

	"github.com/Temutjin2k/safebike-web/internal/domain/models"
	"github.com/Temutjin2k/safebike-web/internal/service/screens"
	"github.com/Temutjin2k/safebike-web/internal/session"
	wrap "github.com/Temutjin2k/safebike-web/pkg/logger/wrapper"
)

type PassengerScreens interface {
	Dashboard(ctx context.Context, sess screens.TokenSource) (screens.State[models.PassengerStats], error)
	Packages(ctx context.Context, sess screens.TokenSource) (screens.State[[]models.DeliveryRequest], error)
	Package(ctx context.Context, sess screens.TokenSource, id string) (screens.State[models.DeliveryRequest], error)
	Create(ctx context.Context, sess screens.TokenSource, form screens.PackageForm) (screens.State[screens.CreateResult], error)
	Cancel(ctx context.Context, sess screens.TokenSource, id string) (screens.State[[]models.DeliveryRequest], error)
	ConfirmReceipt(ctx context.Context, sess screens.TokenSource, id string) (screens.State[[]models.DeliveryRequest], error)
}

const packagesPath = "/passenger/packages"

type Passenger struct {
	*Base
	screens PassengerScreens
}

func NewPassenger(base *Base, s PassengerScreens) *Passenger {
	return &Passenger{
		Base:    base,
		screens: s,
	}
}

func (h *Passenger) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "passenger_dashboard")

	st, err := h.screens.Dashboard(ctx, session.FromContext(ctx))
	renderRead(h.Base, w, r, "Passenger dashboard", "passenger_dashboard.html", st, err, asIs)
}

func (h *Passenger) Packages(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "passenger_packages")

	st, err := h.screens.Packages(ctx, session.FromContext(ctx))
	renderRead(h.Base, w, r, "My packages", "passenger_packages.html", st, err, asIs)
}

func (h *Passenger) Package(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ctx := wrap.WithPackageID(wrap.WithAction(r.Context(), "passenger_package"), id)

	st, err := h.screens.Package(ctx, session.FromContext(ctx), id)
	renderRead(h.Base, w, r, "Package", "passenger_package.html", st, err, asIs)
}

func (h *Passenger) NewPackageForm(w http.ResponseWriter, r *http.Request) {
	p := h.page(r, "Send a package")
	p.Data = screens.PackageForm{}
	h.render(w, r, http.StatusOK, "package_new.html", p)
}

func (h *Passenger) CreatePackage(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "create_package")
	r = r.WithContext(ctx)

	if err := readForm(w, r); err != nil {
		h.l.Warn(ctx, "failed to read package form", "error", err.Error())
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	form := screens.PackageForm{
		RecipientName:    r.PostForm.Get("recipientName"),
		RecipientPhone:   r.PostForm.Get("recipientPhone"),
		RecipientEmail:   r.PostForm.Get("recipientEmail"),
		PickupLocation:   r.PostForm.Get("pickupLocation"),
		DeliveryLocation: r.PostForm.Get("deliveryLocation"),
		Description:      r.PostForm.Get("description"),
		EstimatedValue:   r.PostForm.Get("estimatedValue"),
	}

	st, err := h.screens.Create(ctx, session.FromContext(ctx), form)
	if h.settle(w, r, st.Err, err) {
		return
	}

	if st.Notice != "" {
		http.Redirect(w, r, doneURL(packagesPath, "created"), http.StatusSeeOther)
		return
	}

	p := h.page(r, "Send a package")
	p.Data = st.Data.Form
	p.Fields = st.FieldErrors
	p.Error = st.Message()
	h.render(w, r, statusFor(st.Err), "package_new.html", p)
}

func (h *Passenger) Cancel(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ctx := wrap.WithPackageID(wrap.WithAction(r.Context(), "cancel_package"), id)
	sess := session.FromContext(ctx)

	st, err := h.screens.Cancel(ctx, sess, id)
	renderAfterWrite(h.Base, w, r, "My packages", "passenger_packages.html", st, err,
		func() (screens.State[[]models.DeliveryRequest], error) { return h.screens.Packages(ctx, sess) },
		asIs,
		doneURL(packagesPath, "canceled"),
	)
}

func (h *Passenger) ConfirmReceipt(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ctx := wrap.WithPackageID(wrap.WithAction(r.Context(), "confirm_receipt"), id)
	sess := session.FromContext(ctx)

	st, err := h.screens.ConfirmReceipt(ctx, sess, id)
	renderAfterWrite(h.Base, w, r, "My packages", "passenger_packages.html", st, err,
		func() (screens.State[[]models.DeliveryRequest], error) { return h.screens.Packages(ctx, sess) },
		asIs,
		doneURL(packagesPath, "received"),
	)
}
