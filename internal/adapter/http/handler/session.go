package handler

import (
	"net/http"

	"github.com/Temutjin2k/safebike-web/internal/domain/models"
	"github.com/Temutjin2k/safebike-web/internal/guard"
	"github.com/Temutjin2k/safebike-web/internal/session"
	"github.com/Temutjin2k/safebike-web/pkg/logger"
	wrap "github.com/Temutjin2k/safebike-web/pkg/logger/wrapper"
)

type Session struct {
	log logger.Logger
}

func NewSession(log logger.Logger) *Session {
	return &Session{log: log}
}

// SessionSummary is the current browser session as seen by this web client.
type SessionSummary struct {
	Authenticated bool             `json:"authenticated"`
	Role          string           `json:"role"`
	Home          string           `json:"home"`
	User          *models.Identity `json:"user,omitempty"`
}

// Current godoc
// @Summary      Current session
// @Description  Returns whether the browser session is signed in, its role and the dashboard it lands on. The bearer token is never returned.
// @Tags         Session
// @Produce      json
// @Success      200  {object}  handler.SessionSummary
// @Router       /api/session [get]
func (h *Session) Current(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "session_summary")
	store := session.FromContext(ctx)

	summary := SessionSummary{
		Authenticated: store.IsAuthenticated(),
		Role:          store.Role().String(),
		Home:          guard.HomeFor(store.Role()),
	}
	if identity, ok := store.Identity(); ok {
		summary.User = &identity
	}

	if err := writeJSON(w, http.StatusOK, envelope{"session": summary}, nil); err != nil {
		h.log.Error(ctx, "failed to write session summary", err)
		errorResponse(w, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
	}
}
