package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jobos/frontend/internal/apiclient"
	"github.com/jobos/frontend/internal/service"
	"github.com/jobos/frontend/internal/session"
	"github.com/stretchr/testify/assert"
)

func TestAuthFailureMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"api message", fmt.Errorf("signin: %w", &apiclient.Error{Kind: apiclient.KindStatus, Status: 401, Message: "Invalid credentials"}), "Invalid credentials"},
		{"status without message", &apiclient.Error{Kind: apiclient.KindStatus, Status: 500}, "Signin failed"},
		{"network", &apiclient.Error{Kind: apiclient.KindNetwork, Err: errors.New("refused")}, msgUnexpected},
		{"decode", &apiclient.Error{Kind: apiclient.KindDecode, Status: 200}, msgUnexpected},
		{"missing fields", service.ErrMissingFields, "All fields are required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, authFailureMessage(tt.err, "Signin failed"))
		})
	}
}

func TestSessionLost(t *testing.T) {
	store := session.NewCookieStore("token", 0, false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	assert.True(t, sessionLost(rec, req, store, fmt.Errorf("list: %w", session.ErrExpired)))
	assert.Equal(t, "/signin", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	assert.False(t, sessionLost(rec, req, store, errors.New("boom")))
	assert.Empty(t, rec.Result().Cookies())
}
