package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jobos/frontend/internal/ctxkeys"
)

const (
	csrfCookieName = "csrf_token"
	csrfFormField  = "csrf_token"
	csrfHeader     = "X-CSRF-Token"
	csrfTokenLen   = 32

	csrfFormMemory = 8 << 20
)

// tooLargeRedirect is where a plain form post lands when its body went over the
// cap before the token field could be read. The dashboard shows it as "Upload failed".
const tooLargeRedirect = "/dashboard?error=upload"

// csrfExempt lists routes that skip the check. A forged sign-out can only sign
// the user out, and a stale page must still be able to clear the token.
var csrfExempt = map[string]bool{
	"POST /signout": true,
}

// CSRFProtection issues a double-submit token on every request and validates it on
// state-changing ones. htmx sends it as a header (set on <body>); plain forms as a field.
// A rejected htmx request is told to reload, which picks up a fresh token.
func CSRFProtection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := getOrGenerateCSRFToken(w, r)
		ctx := ctxkeys.WithCSRFToken(r.Context(), token)

		if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		if csrfExempt[r.Method+" "+r.URL.Path] {
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		submitted, err := submittedCSRFToken(r)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				slog.Warn("request body too large to read csrf token",
					"path", r.URL.Path,
					"limit", maxErr.Limit,
				)
				http.Redirect(w, r, tooLargeRedirect, http.StatusSeeOther)
				return
			}
			slog.Warn("failed to parse form for csrf token", "path", r.URL.Path, "error", err)
		}

		if !validCSRFToken(token, submitted) {
			slog.Warn("csrf validation failed",
				"path", r.URL.Path,
				"method", r.Method,
				"ip", getClientIP(r),
			)
			if r.Header.Get("HX-Request") == "true" {
				w.Header().Set("HX-Refresh", "true")
			}
			http.Error(w, "Invalid CSRF token", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// submittedCSRFToken prefers the header and falls back to the form field. The
// parse error is returned so an oversized body is not mistaken for a missing token.
func submittedCSRFToken(r *http.Request) (string, error) {
	if token := r.Header.Get(csrfHeader); token != "" {
		return token, nil
	}

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(csrfFormMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return "", err
	}
	return r.PostFormValue(csrfFormField), nil
}

func getOrGenerateCSRFToken(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(csrfCookieName)
	if err == nil && len(cookie.Value) == base64.RawURLEncoding.EncodedLen(csrfTokenLen) {
		return cookie.Value
	}

	token := generateCSRFToken()

	cfg := ctxkeys.Config(r.Context())
	secure := cfg != nil && cfg.SecureCookies

	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7, // 7 days
	})

	return token
}

func generateCSRFToken() string {
	b := make([]byte, csrfTokenLen)
	_, err := rand.Read(b)
	if err != nil {
		panic("failed to generate csrf token: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// validCSRFToken compares in constant time.
func validCSRFToken(expected, actual string) bool {
	if expected == "" || actual == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) == 1
}
