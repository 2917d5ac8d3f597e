package handler

import (
	"net/http"

	"github.com/Temutjin2k/safebike-web/internal/guard"
	"github.com/Temutjin2k/safebike-web/internal/session"
)

type Pages struct {
	*Base
}

func NewPages(base *Base) *Pages {
	return &Pages{Base: base}
}

func (h *Pages) Home(w http.ResponseWriter, r *http.Request) {
	p := h.page(r, "Home")
	p.Data = guard.HomeFor(session.FromContext(r.Context()).Role())
	h.render(w, r, http.StatusOK, "home.html", p)
}

// NotFound is the catch-all screen.
func (h *Pages) NotFound(w http.ResponseWriter, r *http.Request) {
	h.l.Debug(r.Context(), "page not found", "URL", r.URL.Path)
	h.render(w, r, http.StatusNotFound, "not_found.html", h.page(r, "Not found"))
}
