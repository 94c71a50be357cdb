package session

import (
	"net/http"
	"time"
)

// CookieStore keeps the token in a single browser cookie.
type CookieStore struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

func NewCookieStore(name string, maxAge time.Duration, secure bool) *CookieStore {
	return &CookieStore{Name: name, MaxAge: maxAge, Secure: secure}
}

// Read returns the stored token, or "" when there is none.
func (s *CookieStore) Read(r *http.Request) string {
	cookie, err := r.Cookie(s.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Write replaces the stored token.
func (s *CookieStore) Write(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.Name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.MaxAge.Seconds()),
	})
}

// Clear deletes the stored token.
func (s *CookieStore) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.Name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
