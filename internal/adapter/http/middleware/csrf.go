package middleware

import (
	"net/http"

	"github.com/gorilla/csrf"
)

// CSRFFieldName is the form field carrying the CSRF token.
const CSRFFieldName = "csrf_token"

// CSRF protects every unsafe method with a gorilla/csrf token.
func (m *Middleware) CSRF(authKey []byte, secure bool) func(http.Handler) http.Handler {
	return csrf.Protect(
		authKey,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.FieldName(CSRFFieldName),
		csrf.ErrorHandler(http.HandlerFunc(m.csrfFailed)),
	)
}

func (m *Middleware) csrfFailed(w http.ResponseWriter, r *http.Request) {
	reason := "unknown"
	if err := csrf.FailureReason(r); err != nil {
		reason = err.Error()
	}
	m.log.Warn(r.Context(), "csrf check failed", "reason", reason, "URL", r.URL.Path)

	if wantsJSON(r) {
		errorResponse(w, http.StatusForbidden, "invalid csrf token")
		return
	}
	http.Error(w, "Your form has expired. Go back, reload the page and try again.", http.StatusForbidden)
}
