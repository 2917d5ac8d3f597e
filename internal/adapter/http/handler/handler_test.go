package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Temutjin2k/safebike-web/internal/domain/models"
	"github.com/Temutjin2k/safebike-web/internal/domain/types"
	"github.com/Temutjin2k/safebike-web/internal/service/screens"
	"github.com/Temutjin2k/safebike-web/internal/session"
	"github.com/Temutjin2k/safebike-web/pkg/logger"
)

type fakeAuth struct {
	login   screens.State[screens.LoginResult]
	expired int
}

func (f *fakeAuth) Login(ctx context.Context, store *session.Store, form screens.LoginForm) (screens.State[screens.LoginResult], error) {
	st := f.login
	st.Data.Form = form
	return st, nil
}

func (f *fakeAuth) Logout(ctx context.Context, store *session.Store) error {
	return store.Logout(ctx)
}

func (f *fakeAuth) Expire(ctx context.Context, store *session.Store) error {
	f.expired++
	return store.Logout(ctx)
}

func (f *fakeAuth) RegisterPassenger(ctx context.Context, form screens.RegisterForm) (screens.State[screens.RegisterResult], error) {
	return screens.State[screens.RegisterResult]{Data: screens.RegisterResult{Form: form, Redirect: "/auth/login"}}, nil
}

func (f *fakeAuth) RegisterRider(ctx context.Context, form screens.RegisterForm) (screens.State[screens.RegisterResult], error) {
	return f.RegisterPassenger(ctx, form)
}

type fakePassenger struct {
	PassengerScreens
	packages screens.State[[]models.DeliveryRequest]
	write    screens.State[[]models.DeliveryRequest]
	create   screens.State[screens.CreateResult]
	err      error
	calls    []string
}

func (f *fakePassenger) Packages(ctx context.Context, sess screens.TokenSource) (screens.State[[]models.DeliveryRequest], error) {
	f.calls = append(f.calls, "Packages")
	return f.packages, f.err
}

func (f *fakePassenger) Create(ctx context.Context, sess screens.TokenSource, form screens.PackageForm) (screens.State[screens.CreateResult], error) {
	f.calls = append(f.calls, "Create")
	st := f.create
	st.Data.Form = form
	return st, nil
}

func (f *fakePassenger) Cancel(ctx context.Context, sess screens.TokenSource, id string) (screens.State[[]models.DeliveryRequest], error) {
	f.calls = append(f.calls, "Cancel:"+id)
	return f.write, nil
}

func (f *fakePassenger) ConfirmReceipt(ctx context.Context, sess screens.TokenSource, id string) (screens.State[[]models.DeliveryRequest], error) {
	f.calls = append(f.calls, "ConfirmReceipt:"+id)
	return f.write, nil
}

func newTestBase(t *testing.T, auth AuthScreens) *Base {
	t.Helper()
	views, err := NewViews()
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}
	return NewBase(views, auth, logger.Discard())
}

// withSession attaches a session to r, signed in when role is not anonymous.
func withSession(t *testing.T, r *http.Request, role types.Role) (*http.Request, *session.MemoryStorage) {
	t.Helper()
	ctx := context.Background()
	storage := session.NewMemoryStorage(time.Hour)

	store := session.Hydrate(ctx, storage, "cookie-value", logger.Discard())
	if role != types.RoleAnonymous {
		identity := models.Identity{ID: "7", FirstName: "Ada", Email: "ada@example.com", Role: role}
		if err := store.Login(ctx, identity, "T1"); err != nil {
			t.Fatalf("login: %v", err)
		}
	}
	return r.WithContext(session.WithStore(r.Context(), store)), storage
}

func postForm(path string, values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestNewViews(t *testing.T) {
	views, err := NewViews()
	if err != nil {
		t.Fatalf("NewViews: %v", err)
	}

	rec := httptest.NewRecorder()
	if err := views.Render(rec, http.StatusTeapot, "not_found.html", page{Title: "Not found"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if rec.Code != http.StatusTeapot || !strings.Contains(rec.Body.String(), "Page not found") {
		t.Fatalf("unexpected render: %d %s", rec.Code, rec.Body.String())
	}

	if err := views.Render(httptest.NewRecorder(), http.StatusOK, "missing.html", page{}); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name         string
		state        screens.State[screens.LoginResult]
		wantStatus   int
		wantLocation string
		wantBody     string
	}{
		{
			name:         "success redirects to dashboard",
			state:        screens.State[screens.LoginResult]{Data: screens.LoginResult{Redirect: "/passenger"}},
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/passenger",
		},
		{
			name: "validation errors stay on the form",
			state: screens.State[screens.LoginResult]{
				Err:         fmt.Errorf("login: %w", types.ErrValidation),
				FieldErrors: map[string]string{"email": "must be a valid email address"},
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "must be a valid email address",
		},
		{
			name:       "rejected credentials",
			state:      screens.State[screens.LoginResult]{Err: fmt.Errorf("login: %w", types.ErrUnauthorized)},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Invalid email or password.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuth{login: tt.state}
			h := NewAuth(newTestBase(t, auth))

			form := url.Values{"email": {"ada@example.com"}, "password": {"secret123"}, "userType": {"passenger"}}
			r, _ := withSession(t, postForm("/auth/login", form), types.RoleAnonymous)
			rec := httptest.NewRecorder()
			h.Login(rec, r)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantLocation != "" && rec.Header().Get("Location") != tt.wantLocation {
				t.Fatalf("location = %q", rec.Header().Get("Location"))
			}
			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Fatalf("body does not contain %q", tt.wantBody)
			}
			if auth.expired != 0 {
				t.Fatal("login must never expire the session")
			}
		})
	}
}

func TestLoginForm_RedirectsSignedInUser(t *testing.T) {
	h := NewAuth(newTestBase(t, &fakeAuth{}))

	r, _ := withSession(t, httptest.NewRequest(http.MethodGet, "/auth/login", nil), types.RoleRider)
	rec := httptest.NewRecorder()
	h.LoginForm(rec, r)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/rider" {
		t.Fatalf("got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestPassengerPackages(t *testing.T) {
	tests := []struct {
		name         string
		screen       *fakePassenger
		wantStatus   int
		wantLocation string
		wantBody     string
		wantExpired  bool
	}{
		{
			name:       "empty list",
			screen:     &fakePassenger{},
			wantStatus: http.StatusOK,
			wantBody:   "You have not sent any packages yet.",
		},
		{
			name:         "backend rejects the token",
			screen:       &fakePassenger{packages: screens.State[[]models.DeliveryRequest]{Err: fmt.Errorf("list: %w", types.ErrUnauthorized)}},
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/auth/login",
			wantExpired:  true,
		},
		{
			name:       "backend unreachable",
			screen:     &fakePassenger{packages: screens.State[[]models.DeliveryRequest]{Err: fmt.Errorf("list: %w", types.ErrBackendUnavailable)}},
			wantStatus: http.StatusBadGateway,
			wantBody:   "The service is unreachable right now.",
		},
		{
			name:       "request finished first",
			screen:     &fakePassenger{err: types.ErrDetached},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuth{}
			h := NewPassenger(newTestBase(t, auth), tt.screen)

			r, storage := withSession(t, httptest.NewRequest(http.MethodGet, "/passenger/packages", nil), types.RolePassenger)
			rec := httptest.NewRecorder()
			h.Packages(rec, r)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantLocation != "" && rec.Header().Get("Location") != tt.wantLocation {
				t.Fatalf("location = %q", rec.Header().Get("Location"))
			}
			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Fatalf("body does not contain %q:\n%s", tt.wantBody, rec.Body.String())
			}
			if (auth.expired == 1) != tt.wantExpired {
				t.Fatalf("expired = %d", auth.expired)
			}

			if tt.wantExpired {
				if storage.Len() != 0 {
					t.Fatal("expired session must be cleared from storage")
				}
			}
		})
	}
}

func TestSessionCurrent(t *testing.T) {
	tests := []struct {
		name     string
		role     types.Role
		wantRole string
		wantHome string
		wantUser bool
	}{
		{name: "anonymous", role: types.RoleAnonymous, wantRole: "anonymous", wantHome: "/"},
		{name: "passenger", role: types.RolePassenger, wantRole: "passenger", wantHome: "/passenger", wantUser: true},
		{name: "admin", role: types.RoleAdmin, wantRole: "admin", wantHome: "/admin", wantUser: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSession(logger.Discard())

			r, _ := withSession(t, httptest.NewRequest(http.MethodGet, "/api/session", nil), tt.role)
			rec := httptest.NewRecorder()
			h.Current(rec, r)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}

			var body struct {
				Session SessionSummary `json:"session"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			got := body.Session
			if got.Role != tt.wantRole || got.Home != tt.wantHome || got.Authenticated != tt.wantUser {
				t.Fatalf("unexpected summary %+v", got)
			}
			if (got.User != nil) != tt.wantUser {
				t.Fatalf("user = %+v", got.User)
			}
			if strings.Contains(rec.Body.String(), "T1") {
				t.Fatal("token must not be exposed")
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	h := NewPages(newTestBase(t, &fakeAuth{}))

	r, _ := withSession(t, httptest.NewRequest(http.MethodGet, "/nowhere", nil), types.RoleAnonymous)
	rec := httptest.NewRecorder()
	h.NotFound(rec, r)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", types.ErrValidation), http.StatusUnprocessableEntity},
		{fmt.Errorf("x: %w", types.ErrUnauthorized), http.StatusUnauthorized},
		{fmt.Errorf("x: %w", types.ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("x: %w", types.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("x: %w", types.ErrBackendUnavailable), http.StatusBadGateway},
		{fmt.Errorf("something else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := GetCode(tt.err); got != tt.want {
			t.Errorf("GetCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
