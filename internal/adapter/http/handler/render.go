package handler

import (
	"net/http"

	"github.com/Temutjin2k/safebike-web/internal/service/screens"
)

func asIs[T any](v T) any { return v }

// notices are shown by a list screen after one of its writes redirected to it.
var notices = map[string]string{
	"created":   "Package created",
	"canceled":  "Package canceled",
	"received":  "Receipt confirmed",
	"accepted":  "Package accepted",
	"picked-up": "Pickup confirmed",
	"delivered": "Delivery confirmed",
}

// doneURL is where a successful write sends the browser.
func doneURL(path, notice string) string {
	return path + "?done=" + notice
}

// renderRead renders the result of a screen's entry reads.
func renderRead[T any](b *Base, w http.ResponseWriter, r *http.Request, title, name string, st screens.State[T], err error, view func(T) any) {
	if b.settle(w, r, st.Err, err) {
		return
	}

	p := b.page(r, title)
	p.Notice = st.Notice
	if p.Notice == "" {
		p.Notice = notices[r.URL.Query().Get("done")]
	}
	p.Error = st.Message()
	p.Fields = st.FieldErrors
	p.Data = view(st.Data)
	b.render(w, r, statusFor(st.Err), name, p)
}

// renderAfterWrite finishes one of a list screen's actions. A write that went
// through redirects to next, so reloading the page never repeats it. A failed
// write leaves no data behind, so the list is read again to show the error
// next to what the backend currently holds.
func renderAfterWrite[T any](b *Base, w http.ResponseWriter, r *http.Request, title, name string, st screens.State[T], err error, reread func() (screens.State[T], error), view func(T) any, next string) {
	if b.settle(w, r, st.Err, err) {
		return
	}
	if st.Notice != "" {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}

	if st.Err != nil {
		list, err := reread()
		if b.settle(w, r, list.Err, err) {
			return
		}
		st.Data = list.Data
	}

	p := b.page(r, title)
	p.Notice = st.Notice
	p.Error = st.Message()
	p.Fields = st.FieldErrors
	p.Data = view(st.Data)
	b.render(w, r, statusFor(st.Err), name, p)
}
