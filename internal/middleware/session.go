package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jobos/frontend/internal/ctxkeys"
	"github.com/jobos/frontend/internal/session"
)

// SessionMiddleware resolves the token cookie into a *session.Session on the context.
// A token that is expired or cannot be decoded is cleared from the browser right away,
// so the next visit does not have to re-check it.
func SessionMiddleware(store *session.CookieStore, now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := store.Read(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := session.Resolve(token, now())
			if err != nil {
				if errors.Is(err, session.ErrExpired) {
					slog.Debug("session token expired, clearing", "path", r.URL.Path)
				} else {
					slog.Warn("session token unreadable, clearing", "error", err, "path", r.URL.Path)
				}
				store.Clear(w)
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithSession(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession sends visitors without a usable session to /signin before the handler runs.
func RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.Session(r.Context()) == nil {
			Redirect(w, r, "/signin")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// Redirect navigates the browser to target. htmx requests get an HX-Redirect
// header so the whole page moves instead of swapping the response into a fragment.
func Redirect(w http.ResponseWriter, r *http.Request, target string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
