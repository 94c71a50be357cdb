package middleware

import (
	"fmt"
	"net/http"
)

// HTMXOrigin serves the htmx script referenced by the layout.
const HTMXOrigin = "https://unpkg.com"

// SecurityHeaders sets a nonce-based CSP and the usual hardening headers.
// Must run after NonceMiddleware.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nonce := GetNonce(r.Context())

		scriptSrc := "'self' " + HTMXOrigin
		styleSrc := "'self'"
		if nonce != "" {
			scriptSrc += fmt.Sprintf(" 'nonce-%s'", nonce)
			styleSrc += fmt.Sprintf(" 'nonce-%s'", nonce)
		}

		h := w.Header()
		h.Set("Content-Security-Policy", fmt.Sprintf(
			"default-src 'self'; script-src %s; style-src %s; img-src 'self' data:; connect-src 'self'; form-action 'self'; frame-ancestors 'none'; base-uri 'self'",
			scriptSrc, styleSrc,
		))
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}
