package handler

import (
	"net/http"

	"github.com/Temutjin2k/safebike-web/internal/guard"
	"github.com/Temutjin2k/safebike-web/internal/service/screens"
	"github.com/Temutjin2k/safebike-web/internal/session"
	wrap "github.com/Temutjin2k/safebike-web/pkg/logger/wrapper"
)

type Auth struct {
	*Base
}

func NewAuth(base *Base) *Auth {
	return &Auth{Base: base}
}

// LoginForm shows the login screen; signed-in users go to their dashboard.
func (h *Auth) LoginForm(w http.ResponseWriter, r *http.Request) {
	store := session.FromContext(r.Context())
	if store.IsAuthenticated() {
		http.Redirect(w, r, guard.HomeFor(store.Role()), http.StatusSeeOther)
		return
	}

	p := h.page(r, "Log in")
	p.Data = screens.LoginForm{UserType: r.URL.Query().Get("userType")}
	if r.URL.Query().Has("registered") {
		p.Notice = "Registration successful. Please log in."
	}
	h.render(w, r, http.StatusOK, "login.html", p)
}

func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "login")
	r = r.WithContext(ctx)

	if err := readForm(w, r); err != nil {
		h.l.Warn(ctx, "failed to read login form", "error", err.Error())
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	form := screens.LoginForm{
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
		UserType: r.PostForm.Get("userType"),
	}

	st, err := h.auth.Login(ctx, session.FromContext(ctx), form)
	if err != nil {
		h.settle(w, r, nil, err)
		return
	}
	if st.Err == nil {
		http.Redirect(w, r, st.Data.Redirect, http.StatusSeeOther)
		return
	}

	p := h.page(r, "Log in")
	p.Data = st.Data.Form
	p.Fields = st.FieldErrors
	p.Error = st.Message()
	// a 401 on login is a wrong password, not an expired session
	if GetCode(st.Err) == http.StatusUnauthorized {
		p.Error = "Invalid email or password."
	} else {
		h.settle(w, r, st.Err, nil)
	}
	h.render(w, r, statusFor(st.Err), "login.html", p)
}

func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "logout")

	if err := h.auth.Logout(ctx, session.FromContext(ctx)); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to clear session", err)
	}
	http.Redirect(w, r, guard.LoginPath, http.StatusSeeOther)
}

func (h *Auth) RegisterPassengerForm(w http.ResponseWriter, r *http.Request) {
	h.registerForm(w, r, false)
}

func (h *Auth) RegisterRiderForm(w http.ResponseWriter, r *http.Request) {
	h.registerForm(w, r, true)
}

func (h *Auth) RegisterPassenger(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, false)
}

func (h *Auth) RegisterRider(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, true)
}

type registerView struct {
	Action string
	Rider  bool
	Form   screens.RegisterForm
}

func registerPage(rider bool) (title, action string) {
	if rider {
		return "Register as Rider", "/auth/register/rider"
	}
	return "Register as Passenger", "/auth/register/passenger"
}

func (h *Auth) registerForm(w http.ResponseWriter, r *http.Request, rider bool) {
	store := session.FromContext(r.Context())
	if store.IsAuthenticated() {
		http.Redirect(w, r, guard.HomeFor(store.Role()), http.StatusSeeOther)
		return
	}

	title, action := registerPage(rider)
	p := h.page(r, title)
	p.Data = registerView{Action: action, Rider: rider}
	h.render(w, r, http.StatusOK, "register.html", p)
}

func (h *Auth) register(w http.ResponseWriter, r *http.Request, rider bool) {
	ctx := wrap.WithAction(r.Context(), "register")
	r = r.WithContext(ctx)

	if err := readForm(w, r); err != nil {
		h.l.Warn(ctx, "failed to read registration form", "error", err.Error())
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	form := screens.RegisterForm{
		FirstName:        r.PostForm.Get("firstName"),
		LastName:         r.PostForm.Get("lastName"),
		Email:            r.PostForm.Get("email"),
		PhoneNumber:      r.PostForm.Get("phoneNumber"),
		ResidencyAddress: r.PostForm.Get("residencyAddress"),
		PlateNumber:      r.PostForm.Get("plateNumber"),
		Password:         r.PostForm.Get("password"),
		ConfirmPassword:  r.PostForm.Get("confirmPassword"),
	}

	var (
		st  screens.State[screens.RegisterResult]
		err error
	)
	if rider {
		st, err = h.auth.RegisterRider(ctx, form)
	} else {
		st, err = h.auth.RegisterPassenger(ctx, form)
	}
	if h.settle(w, r, st.Err, err) {
		return
	}
	if st.Err == nil {
		http.Redirect(w, r, st.Data.Redirect+"?registered=1", http.StatusSeeOther)
		return
	}

	title, action := registerPage(rider)
	p := h.page(r, title)
	p.Data = registerView{Action: action, Rider: rider, Form: st.Data.Form}
	p.Fields = st.FieldErrors
	p.Error = st.Message()
	h.render(w, r, statusFor(st.Err), "register.html", p)
}
