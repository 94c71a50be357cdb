package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/jobos/frontend/internal/apiclient"
	"github.com/jobos/frontend/internal/middleware"
	"github.com/jobos/frontend/internal/model"
	"github.com/jobos/frontend/internal/service"
	"github.com/jobos/frontend/internal/session"
	"github.com/jobos/frontend/internal/ui"
	"github.com/jobos/frontend/internal/ui/pages"
)

const msgUnexpected = "An unexpected error occurred"

type AuthHandler struct {
	authService *service.AuthService
	store       *session.CookieStore
}

func NewAuthHandler(authService *service.AuthService, store *session.CookieStore) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		store:       store,
	}
}

func (h *AuthHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.Signup(model.SignupForm{}, ""))
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	form := model.SignupForm{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}

	err := h.authService.Signup(r.Context(), form)
	if err != nil {
		slog.Warn("signup failed", "error", err, "form", form.Redacted())
		msg := authFailureMessage(err, "Signup failed")
		if isHTMX(r) {
			ui.Render(w, r, pages.SignupCard(form, msg))
			return
		}
		ui.Render(w, r, pages.Signup(form, msg))
		return
	}

	slog.Info("user signed up", "email", form.Email)
	middleware.Redirect(w, r, "/signin")
}

func (h *AuthHandler) SigninPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.Signin(model.SigninForm{}, ""))
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	form := model.SigninForm{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}

	token, err := h.authService.Signin(r.Context(), form)
	if err != nil {
		slog.Warn("signin failed", "error", err, "form", form.Redacted())
		msg := authFailureMessage(err, "Signin failed")
		var c templ.Component = pages.Signin(form, msg)
		if isHTMX(r) {
			c = pages.SigninCard(form, msg)
		}
		ui.Render(w, r, c)
		return
	}

	h.store.Write(w, token)
	slog.Info("user signed in", "email", form.Email)
	middleware.Redirect(w, r, "/dashboard")
}

// Signout only forgets the token locally; the API keeps no session to end.
func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	h.store.Clear(w)
	middleware.Redirect(w, r, "/signin")
}

// authFailureMessage picks what the user sees: the API's own message when it answered,
// the action fallback when it answered without one, and a generic line otherwise.
func authFailureMessage(err error, fallback string) string {
	switch {
	case errors.Is(err, service.ErrMissingFields):
		return "All fields are required"
	case apiclient.IsKind(err, apiclient.KindStatus):
		return apiclient.MessageOr(err, fallback)
	default:
		return msgUnexpected
	}
}
