package middleware

import (
	"net/http"

	"github.com/Temutjin2k/safebike-web/internal/domain/types"
	"github.com/Temutjin2k/safebike-web/internal/guard"
	"github.com/Temutjin2k/safebike-web/internal/session"
)

// RequireRoles renders next only for sessions holding one of roles;
// everyone else is redirected where guard.Decide says.
func (m *Middleware) RequireRoles(next http.Handler, roles ...types.Role) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store := session.FromContext(r.Context())

		d := guard.Decide(store, roles...)
		if !d.Render() {
			m.log.Debug(r.Context(), "screen guarded", "URL", r.URL.Path, "role", store.Role().String(), "redirect", d.Redirect)
			http.Redirect(w, r, d.Redirect, http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}
