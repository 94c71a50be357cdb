package middleware

import (
	"net/http"

	"github.com/jobos/frontend/internal/ctxkeys"
)

// WithURLPath records the request path so the layout can mark the current page.
func WithURLPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := ctxkeys.WithURLPath(r.Context(), r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
