package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
)

func (app *Middleware) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				if p == http.ErrAbortHandler {
					panic(p)
				}

				err := fmt.Errorf("panic: %v", p)
				app.log.Error(r.Context(), "recovered from panic", err, "stack", string(debug.Stack()))

				w.Header().Set("Connection", "close")
				if wantsJSON(r) {
					errorResponse(w, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
					return
				}
				http.Error(w, "Something went wrong. Please try again.", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// wantsJSON reports whether the request targets one of the JSON endpoints.
func wantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/") ||
		r.URL.Path == "/health" ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}
