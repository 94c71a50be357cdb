package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jobos/frontend/internal/apiclient"
	"github.com/jobos/frontend/internal/model"
	"github.com/jobos/frontend/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeAPI(t *testing.T, h http.HandlerFunc) (*apiclient.Client, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return apiclient.New(srv.URL), &calls
}

func TestSignupRequiresFields(t *testing.T) {
	api, calls := fakeAPI(t, func(w http.ResponseWriter, r *http.Request) {})
	svc := NewAuthService(api)

	err := svc.Signup(context.Background(), model.SignupForm{Name: " ", Email: "ada@example.com", Password: "pw"})

	assert.ErrorIs(t, err, ErrMissingFields)
	assert.Zero(t, calls.Load())
}

func TestSignupSendsFieldsAsTyped(t *testing.T) {
	var body string
	api, _ := fakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusCreated)
	})
	svc := NewAuthService(api)

	err := svc.Signup(context.Background(), model.SignupForm{Name: " Ada ", Email: "ada@example.com ", Password: " pw"})

	require.NoError(t, err)
	assert.Contains(t, body, `"name":" Ada "`)
	assert.Contains(t, body, `"email":"ada@example.com "`)
	assert.Contains(t, body, `"password":" pw"`)
}

func TestSignupWrapsAPIError(t *testing.T) {
	api, _ := fakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"message":"User exists"}`)
	})
	svc := NewAuthService(api)

	err := svc.Signup(context.Background(), model.SignupForm{Name: "Ada", Email: "ada@example.com", Password: "pw"})

	require.Error(t, err)
	assert.True(t, apiclient.IsKind(err, apiclient.KindStatus))
	assert.Equal(t, "User exists", apiclient.MessageOr(err, "Signup failed"))
}

func TestSigninSendsEmailAsTypedAndReturnsToken(t *testing.T) {
	var email string
	api, _ := fakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		email = string(b)
		_, _ = io.WriteString(w, `{"token":"tok"}`)
	})
	svc := NewAuthService(api)

	token, err := svc.Signin(context.Background(), model.SigninForm{Email: " ada@example.com ", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.Contains(t, email, `"email":" ada@example.com "`, "whitespace is only ignored for the presence check")
}

func TestUploadServiceRejectsUnusableSessions(t *testing.T) {
	api, calls := fakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"uploads":[]}`)
	})
	svc := NewUploadService(api)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	expired := &session.Session{Token: "tok", ExpiresAt: now.Add(-time.Minute)}

	_, err := svc.List(context.Background(), nil)
	assert.ErrorIs(t, err, session.ErrNoSession)

	_, err = svc.List(context.Background(), expired)
	assert.ErrorIs(t, err, session.ErrExpired)

	err = svc.Upload(context.Background(), expired, apiclient.File{Name: "cv.pdf", Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, session.ErrExpired)

	err = svc.Delete(context.Background(), expired, 1)
	assert.ErrorIs(t, err, session.ErrExpired)

	assert.Zero(t, calls.Load(), "no request leaves without a usable session")
}

func TestUploadServiceCalls(t *testing.T) {
	var seen []string
	api, _ := fakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path+" "+r.Header.Get("Authorization"))
		switch {
		case r.Method == http.MethodGet:
			_, _ = io.WriteString(w, `{"uploads":[{"id":1,"fileName":"cv.pdf"},{"id":2,"fileName":"letter.pdf"}]}`)
		case r.Method == http.MethodPost:
			_, _ = io.Copy(io.Discard, r.Body)
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	svc := NewUploadService(api)
	sess := &session.Session{Token: "tok"}

	uploads, err := svc.List(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, []int{uploads[0].ID, uploads[1].ID})

	require.NoError(t, svc.Upload(context.Background(), sess, apiclient.File{Name: "cv.pdf", Body: strings.NewReader("x")}))

	err = svc.Delete(context.Background(), sess, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete upload 2")
	assert.True(t, apiclient.IsKind(err, apiclient.KindStatus))

	assert.Equal(t, []string{
		"GET /upload Bearer tok",
		"POST /upload Bearer tok",
		"DELETE /upload/2 Bearer tok",
	}, seen)
}
