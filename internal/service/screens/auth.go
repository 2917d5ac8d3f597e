package screens

import (
	"context"
	"fmt"
	"time"

	"github.com/Temutjin2k/safebike-web/internal/domain/models"
	"github.com/Temutjin2k/safebike-web/internal/domain/types"
	"github.com/Temutjin2k/safebike-web/internal/guard"
	"github.com/Temutjin2k/safebike-web/internal/session"
	"github.com/Temutjin2k/safebike-web/pkg/logger"
	wrap "github.com/Temutjin2k/safebike-web/pkg/logger/wrapper"
	"github.com/Temutjin2k/safebike-web/pkg/metrics"
	"github.com/Temutjin2k/safebike-web/pkg/validator"
)

// LoginResult is where the browser goes after logging in.
type LoginResult struct {
	Form     LoginForm
	Identity models.Identity
	Redirect string
}

type RegisterResult struct {
	Form     RegisterForm
	Redirect string
}

type Auth struct {
	bind     Binder
	notifier Notifier
	log      logger.Logger
}

func NewAuth(bind Binder, notifier Notifier, log logger.Logger) *Auth {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Auth{
		bind:     bind,
		notifier: notifier,
		log:      log,
	}
}

// Login validates the form, authenticates against the backend and records
// the session. The password never leaves this call.
func (a *Auth) Login(ctx context.Context, store *session.Store, form LoginForm) (State[LoginResult], error) {
	const op = "Auth.Login"

	st := State[LoginResult]{Data: LoginResult{Form: LoginForm{Email: form.Email, UserType: form.UserType}}}
	if fields, err := validate(form.Validate); err != nil {
		st.FieldErrors, st.Err = fields, err
		return st, nil
	}

	resp, err := a.bind(store).Login(ctx, form.Request())
	if ctx.Err() != nil {
		return st, types.ErrDetached
	}
	if err != nil {
		st.Err = err
		return st, nil
	}

	identity := resp.User
	if identity.Role == types.RoleAnonymous {
		identity.Role, _ = types.ParseRole(form.UserType)
	}

	// tabs still listen under the key the browser had before login
	prev := store.Key()
	if err := store.Login(ctx, identity, resp.Token); err != nil {
		a.log.Error(wrap.ErrorCtx(ctx, err), "failed to persist session", err)
		st.Err = fmt.Errorf("%s: %w", op, err)
		return st, nil
	}

	ctx = wrap.WithUserID(ctx, string(identity.ID))
	a.log.Info(ctx, "user logged in", "role", identity.Role.String())
	metrics.RecordSessionEvent("login", identity.Role.String())
	a.notifier.Notify(ctx, models.TabMessage{Type: types.EventSessionChanged, SessionKey: prev, At: time.Now()})

	st.Data.Identity = identity
	st.Data.Redirect = guard.HomeFor(identity.Role)
	return st, nil
}

// Logout clears the session and tells the session's other tabs.
func (a *Auth) Logout(ctx context.Context, store *session.Store) error {
	return a.end(ctx, store, "logout")
}

// Expire ends a session the backend no longer accepts.
func (a *Auth) Expire(ctx context.Context, store *session.Store) error {
	return a.end(ctx, store, "invalidate")
}

func (a *Auth) end(ctx context.Context, store *session.Store, event string) error {
	role, prev := store.Role(), store.Key()
	err := store.Logout(ctx)

	metrics.RecordSessionEvent(event, role.String())
	a.notifier.Notify(ctx, models.TabMessage{Type: types.EventSessionChanged, SessionKey: prev, At: time.Now()})
	return err
}

// RegisterPassenger creates a passenger account; the user logs in afterwards.
func (a *Auth) RegisterPassenger(ctx context.Context, form RegisterForm) (State[RegisterResult], error) {
	return a.register(ctx, form, false)
}

// RegisterRider creates a rider account with its plate number.
func (a *Auth) RegisterRider(ctx context.Context, form RegisterForm) (State[RegisterResult], error) {
	return a.register(ctx, form, true)
}

func (a *Auth) register(ctx context.Context, form RegisterForm, rider bool) (State[RegisterResult], error) {
	safe := form
	safe.Password, safe.ConfirmPassword = "", ""
	st := State[RegisterResult]{Data: RegisterResult{Form: safe}}

	if fields, err := validate(func(v *validator.Validator) { form.Validate(v, rider) }); err != nil {
		st.FieldErrors, st.Err = fields, err
		return st, nil
	}

	gw := a.bind(session.Anonymous())
	var err error
	if rider {
		err = gw.RegisterRider(ctx, form.RiderRequest())
	} else {
		err = gw.RegisterPassenger(ctx, form.PassengerRequest())
	}
	if ctx.Err() != nil {
		return st, types.ErrDetached
	}
	if err != nil {
		st.Err = err
		return st, nil
	}

	st.Notice = "Registration successful. Please log in."
	st.Data.Redirect = guard.LoginPath
	return st, nil
}
