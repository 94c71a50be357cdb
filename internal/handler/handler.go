package handler

import (
	"errors"
	"net/http"

	"github.com/jobos/frontend/internal/middleware"
	"github.com/jobos/frontend/internal/session"
	"github.com/jobos/frontend/internal/ui"
	"github.com/jobos/frontend/internal/ui/pages"
)

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// sessionLost reports whether err means the client is no longer signed in. If so the
// stale cookie is dropped and the browser is sent to /signin.
func sessionLost(w http.ResponseWriter, r *http.Request, store *session.CookieStore, err error) bool {
	if !errors.Is(err, session.ErrNoSession) && !errors.Is(err, session.ErrExpired) && !errors.Is(err, session.ErrMalformed) {
		return false
	}
	store.Clear(w)
	middleware.Redirect(w, r, "/signin")
	return true
}

// showDashboardError puts msg into the dashboard error banner and tells htmx to leave
// the request's own target untouched.
func showDashboardError(w http.ResponseWriter, r *http.Request, msg string) {
	w.Header().Set("HX-Reswap", "none")
	ui.RenderOOB(w, r, pages.DashboardError(msg), "innerHTML:#"+pages.DashboardErrorID)
}
