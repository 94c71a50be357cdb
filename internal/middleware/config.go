package middleware

import (
	"net/http"

	"github.com/jobos/frontend/internal/config"
	"github.com/jobos/frontend/internal/ctxkeys"
)

// Config puts the sanitized configuration on every request context for templates and middleware.
func Config(cfg *config.Config) func(http.Handler) http.Handler {
	safe := cfg.Sanitized()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := ctxkeys.WithConfig(r.Context(), safe)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
