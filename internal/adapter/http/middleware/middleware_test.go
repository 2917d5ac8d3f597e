package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/safebike-web/internal/domain/models"
	"github.com/Temutjin2k/safebike-web/internal/domain/types"
	"github.com/Temutjin2k/safebike-web/internal/session"
	"github.com/Temutjin2k/safebike-web/pkg/logger"
	wrap "github.com/Temutjin2k/safebike-web/pkg/logger/wrapper"
)

const cookieName = "safebike_session"

func newTestMiddleware(storage session.Storage) *Middleware {
	return NewMiddleware(storage, SessionOptions{CookieName: cookieName, TTL: time.Hour}, logger.Discard())
}

// signIn logs identity in and returns the cookie the session moved to.
func signIn(t *testing.T, storage session.Storage, identity models.Identity) string {
	t.Helper()
	store := session.Hydrate(context.Background(), storage, uuid.NewString(), logger.Discard())

	var cookie string
	store.OnRotate(func(v string) { cookie = v })
	if err := store.Login(context.Background(), identity, "T1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	return cookie
}

func TestSession_IssuesCookie(t *testing.T) {
	m := newTestMiddleware(session.NewMemoryStorage(time.Hour))

	var authenticated bool
	h := m.Session(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authenticated = session.FromContext(r.Context()).IsAuthenticated()
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != cookieName || !cookies[0].HttpOnly {
		t.Fatalf("expected one HttpOnly session cookie, got %+v", cookies)
	}
	if authenticated {
		t.Fatal("fresh session must be anonymous")
	}
}

func TestSession_HydratesExistingCookie(t *testing.T) {
	storage := session.NewMemoryStorage(time.Hour)
	m := newTestMiddleware(storage)

	cookieValue := signIn(t, storage, models.Identity{ID: "42", Email: "a@x.com", Role: types.RolePassenger})

	var (
		role   types.Role
		userID string
	)
	h := m.Session(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role = session.FromContext(r.Context()).Role()
		userID = wrap.FromContext(r.Context()).UserID
	}))

	req := httptest.NewRequest(http.MethodGet, "/passenger", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: cookieValue})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("existing cookie must not be reissued")
	}
	if role != types.RolePassenger || userID != "42" {
		t.Fatalf("got role %q user %q", role, userID)
	}
}

func TestSession_RotationReplacesCookie(t *testing.T) {
	storage := session.NewMemoryStorage(time.Hour)
	m := newTestMiddleware(storage)

	var key string
	h := m.Session(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store := session.FromContext(r.Context())
		if err := store.Login(r.Context(), models.Identity{ID: "5", Role: types.RoleRider}, "T5"); err != nil {
			t.Errorf("login: %v", err)
		}
		key = store.Key()
	}))

	tests := []struct {
		name   string
		cookie string
	}{
		{name: "browser without cookie", cookie: ""},
		{name: "planted cookie", cookie: "11111111-2222-3333-4444-555555555555"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: cookieName, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			cookies := rec.Result().Cookies()
			if len(cookies) != 1 {
				t.Fatalf("want exactly one session cookie, got %d", len(cookies))
			}
			if cookies[0].Value == tt.cookie || session.Key(cookies[0].Value) != key {
				t.Fatalf("cookie %q does not name the signed-in session", cookies[0].Value)
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	storage := session.NewMemoryStorage(time.Hour)
	m := newTestMiddleware(storage)

	cookieValue := signIn(t, storage, models.Identity{ID: "1", Role: types.RolePassenger})

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name     string
		cookie   bool
		roles    []types.Role
		status   int
		location string
	}{
		{name: "anonymous goes to login", cookie: false, roles: []types.Role{types.RolePassenger}, status: http.StatusSeeOther, location: "/auth/login"},
		{name: "wrong role goes home", cookie: true, roles: []types.Role{types.RoleRider}, status: http.StatusSeeOther, location: "/passenger"},
		{name: "allowed role renders", cookie: true, roles: []types.Role{types.RolePassenger}, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := m.Session(m.RequireRoles(ok, tt.roles...))

			req := httptest.NewRequest(http.MethodGet, "/screen", nil)
			if tt.cookie {
				req.AddCookie(&http.Cookie{Name: cookieName, Value: cookieValue})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if got := rec.Header().Get("Location"); got != tt.location {
				t.Fatalf("location = %q, want %q", got, tt.location)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	m := newTestMiddleware(nil)

	var seen string
	h := m.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = wrap.FromContext(r.Context()).RequestID
	}))

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "not-a-uuid")
		h.ServeHTTP(rec, req)

		if seen == "" || seen == "not-a-uuid" || rec.Header().Get(RequestIDHeader) != seen {
			t.Fatalf("unexpected request id %q", seen)
		}
	})

	t.Run("propagated", func(t *testing.T) {
		const id = "5d3c2f0e-8a4b-4e7e-9d8c-1b2a3c4d5e6f"
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, id)
		h.ServeHTTP(rec, req)

		if seen != id {
			t.Fatalf("request id = %q, want %q", seen, id)
		}
	})
}

func TestRecover(t *testing.T) {
	m := newTestMiddleware(nil)
	h := m.Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/session", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
}

func TestRouteLabel(t *testing.T) {
	tests := map[string]string{
		"/passenger/packages":                       "/passenger/packages",
		"/packages/42/cancel":                       "/packages/:id/cancel",
		"/x/5d3c2f0e-8a4b-4e7e-9d8c-1b2a3c4d5e6f/y": "/x/:id/y",
		"/swagger/index.html":                       "/swagger/",
	}
	for in, want := range tests {
		if got := routeLabel(in); got != want {
			t.Errorf("routeLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
