package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/csrf"

	"github.com/Temutjin2k/safebike-web/internal/guard"
	"github.com/Temutjin2k/safebike-web/internal/service/screens"
	"github.com/Temutjin2k/safebike-web/internal/session"
	"github.com/Temutjin2k/safebike-web/pkg/logger"
	wrap "github.com/Temutjin2k/safebike-web/pkg/logger/wrapper"
)

type AuthScreens interface {
	Login(ctx context.Context, store *session.Store, form screens.LoginForm) (screens.State[screens.LoginResult], error)
	Logout(ctx context.Context, store *session.Store) error
	Expire(ctx context.Context, store *session.Store) error
	RegisterPassenger(ctx context.Context, form screens.RegisterForm) (screens.State[screens.RegisterResult], error)
	RegisterRider(ctx context.Context, form screens.RegisterForm) (screens.State[screens.RegisterResult], error)
}

// Base is shared by the HTML handlers: templates, the session-ending
// auth controller and the logger.
type Base struct {
	views *Views
	auth  AuthScreens
	l     logger.Logger
}

func NewBase(views *Views, auth AuthScreens, l logger.Logger) *Base {
	return &Base{
		views: views,
		auth:  auth,
		l:     l,
	}
}

// page fills the layout data of the current request.
func (b *Base) page(r *http.Request, title string) page {
	store := session.FromContext(r.Context())

	p := page{
		Title: title,
		Menu:  guard.Menu(store, r.URL.Path),
		CSRF:  csrf.TemplateField(r),
	}
	if identity, ok := store.Identity(); ok {
		p.User = &identity
	}
	return p
}

func (b *Base) render(w http.ResponseWriter, r *http.Request, status int, name string, p page) {
	if err := b.views.Render(w, status, name, p); err != nil {
		b.l.Error(wrap.ErrorCtx(r.Context(), err), "failed to render page", err, "template", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// renderError shows the error page for err.
func (b *Base) renderError(w http.ResponseWriter, r *http.Request, err error) {
	p := b.page(r, "Error")
	p.Error = screens.UserMessage(err)
	b.render(w, r, GetCode(err), "error.html", p)
}
