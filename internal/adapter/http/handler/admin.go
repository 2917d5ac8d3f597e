package handler

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Temutjin2k/safebike-web/internal/domain/models"
	"github.com/Temutjin2k/safebike-web/internal/domain/types"
	"github.com/Temutjin2k/safebike-web/internal/service/screens"
	"github.com/Temutjin2k/safebike-web/internal/session"
	wrap "github.com/Temutjin2k/safebike-web/pkg/logger/wrapper"
	"github.com/Temutjin2k/safebike-web/pkg/validator"
)

const defaultPageSize = 20

type AdminScreens interface {
	Dashboard(ctx context.Context, sess screens.TokenSource) (screens.State[models.AdminStats], error)
	Packages(ctx context.Context, sess screens.TokenSource, filters models.Filters, status types.PackageStatus) (screens.State[screens.PackagePage], error)
	Users(ctx context.Context, sess screens.TokenSource, filters models.Filters, role types.Role) (screens.State[screens.UserPage], error)
}

type Admin struct {
	*Base
	screens AdminScreens
}

func NewAdmin(base *Base, s AdminScreens) *Admin {
	return &Admin{
		Base:    base,
		screens: s,
	}
}

type pager struct {
	Meta    models.Metadata
	PrevURL string
	NextURL string
}

type packageListView struct {
	pager
	Page        screens.PackagePage
	SortOptions []string
}

type userListView struct {
	pager
	Page        screens.UserPage
	Roles       []types.Role
	SortOptions []string
}

func (h *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "admin_dashboard")

	st, err := h.screens.Dashboard(ctx, session.FromContext(ctx))
	renderRead(h.Base, w, r, "Admin dashboard", "admin_dashboard.html", st, err, asIs)
}

func (h *Admin) Packages(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "admin_packages")
	qs := r.URL.Query()

	v := validator.New()
	filters := readFilters(qs, screens.PackageSortSafelist, v)
	status := screens.ParseStatusFilter(v, qs.Get("status"))

	var (
		st  screens.State[screens.PackagePage]
		err error
	)
	if v.Valid() {
		st, err = h.screens.Packages(ctx, session.FromContext(ctx), filters, status)
	} else {
		st = screens.State[screens.PackagePage]{Err: types.ErrValidation, FieldErrors: v.Errors}
	}

	renderRead(h.Base, w, r, "Manage packages", "admin_packages.html", st, err,
		func(page screens.PackagePage) any {
			return packageListView{
				pager:       newPager(r.URL, page.Metadata),
				Page:        page,
				SortOptions: screens.PackageSortSafelist,
			}
		},
	)
}

func (h *Admin) Users(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "admin_users")
	qs := r.URL.Query()

	v := validator.New()
	filters := readFilters(qs, screens.UserSortSafelist, v)

	role, ok := types.ParseRole(qs.Get("role"))
	v.Check(ok || role == types.RoleAnonymous, "role", "invalid role")

	var (
		st  screens.State[screens.UserPage]
		err error
	)
	if v.Valid() {
		st, err = h.screens.Users(ctx, session.FromContext(ctx), filters, role)
	} else {
		st = screens.State[screens.UserPage]{Err: types.ErrValidation, FieldErrors: v.Errors}
	}

	renderRead(h.Base, w, r, "Manage users", "admin_users.html", st, err,
		func(page screens.UserPage) any {
			return userListView{
				pager:       newPager(r.URL, page.Metadata),
				Page:        page,
				Roles:       []types.Role{types.RolePassenger, types.RoleRider, types.RoleAdmin},
				SortOptions: screens.UserSortSafelist,
			}
		},
	)
}

func readFilters(qs url.Values, safelist []string, v *validator.Validator) models.Filters {
	return models.Filters{
		Page:         readInt(qs, "page", 1, v),
		PageSize:     readInt(qs, "page_size", defaultPageSize, v),
		Sort:         readString(qs, "sort", safelist[0]),
		SortSafelist: safelist,
	}
}

// newPager links the neighbouring pages, keeping the other query values.
func newPager(u *url.URL, meta models.Metadata) pager {
	link := func(page int) string {
		qs := u.Query()
		qs.Set("page", strconv.Itoa(page))
		return u.Path + "?" + qs.Encode()
	}

	p := pager{Meta: meta}
	if meta.HasPrev() {
		p.PrevURL = link(meta.CurrentPage - 1)
	}
	if meta.HasNext() {
		p.NextURL = link(meta.CurrentPage + 1)
	}
	return p
}
