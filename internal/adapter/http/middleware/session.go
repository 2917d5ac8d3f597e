package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Temutjin2k/safebike-web/internal/session"
	wrap "github.com/Temutjin2k/safebike-web/pkg/logger/wrapper"
)

// Session hydrates the request's session store from the session cookie,
// issuing a fresh cookie to browsers that have none. When the store rotates
// its key (login, logout, expiry) the response carries the new cookie.
func (m *Middleware) Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		value := ""
		if c, err := r.Cookie(m.opts.CookieName); err == nil {
			value = c.Value
		}
		if _, err := uuid.Parse(value); err != nil {
			value = uuid.NewString()
			m.setCookie(w, value)
		}

		ctx := r.Context()
		store := session.Hydrate(ctx, m.storage, value, m.log)
		store.OnRotate(func(v string) { m.setCookie(w, v) })

		ctx = session.WithStore(ctx, store)
		ctx = wrap.WithSessionKey(ctx, logKey(store.Key()))
		if identity, ok := store.Identity(); ok {
			ctx = wrap.WithUserID(ctx, identity.ID.String())
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// setCookie replaces any session cookie already queued on w.
func (m *Middleware) setCookie(w http.ResponseWriter, value string) {
	prefix := m.opts.CookieName + "="
	var kept []string
	for _, c := range w.Header().Values("Set-Cookie") {
		if !strings.HasPrefix(c, prefix) {
			kept = append(kept, c)
		}
	}
	w.Header().Del("Set-Cookie")
	for _, c := range kept {
		w.Header().Add("Set-Cookie", c)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(m.opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func logKey(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}
