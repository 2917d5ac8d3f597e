package handler

import (
	"errors"
	"net/http"

	"github.com/Temutjin2k/safebike-web/internal/domain/types"
	"github.com/Temutjin2k/safebike-web/internal/guard"
	"github.com/Temutjin2k/safebike-web/internal/session"
	wrap "github.com/Temutjin2k/safebike-web/pkg/logger/wrapper"
)

func errorResponse(w http.ResponseWriter, status int, message any) {
	if err := writeJSON(w, status, envelope{"error": message}, nil); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// settle applies the outcomes every screen treats the same way and reports
// whether the response is done.
//
// A detached request gets no response at all. A 401 from the backend ends the
// session and sends the browser to the login screen. Any other error from
// the controller itself renders the error page.
func (b *Base) settle(w http.ResponseWriter, r *http.Request, stateErr, err error) bool {
	ctx := r.Context()

	switch {
	case errors.Is(err, types.ErrDetached):
		b.l.Debug(ctx, "result dropped, request already finished")
		return true
	case err != nil:
		b.l.Error(wrap.ErrorCtx(ctx, err), "screen failed", err)
		b.renderError(w, r, err)
		return true
	case errors.Is(stateErr, types.ErrUnauthorized):
		b.expire(w, r)
		return true
	case stateErr == nil, errors.Is(stateErr, types.ErrValidation):
		return false
	}

	if GetCode(stateErr) >= http.StatusInternalServerError {
		b.l.Error(wrap.ErrorCtx(ctx, stateErr), "backend call failed", stateErr)
	} else {
		b.l.Warn(ctx, "backend rejected request", "error", stateErr.Error())
	}
	return false
}

// expire clears the session the backend no longer accepts and redirects to login.
func (b *Base) expire(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "session_expired")

	if err := b.auth.Expire(ctx, session.FromContext(ctx)); err != nil {
		b.l.Error(wrap.ErrorCtx(ctx, err), "failed to clear expired session", err)
	}
	http.Redirect(w, r, guard.LoginPath, http.StatusSeeOther)
}

// statusFor is the HTTP status of a screen rendered with err.
func statusFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return GetCode(err)
}
