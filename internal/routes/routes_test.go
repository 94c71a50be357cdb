package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jobos/frontend/internal/app"
	"github.com/jobos/frontend/internal/config"
	"github.com/jobos/frontend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// csrfToken has the length of a real token so the middleware accepts it from the cookie.
var csrfToken = strings.Repeat("c", 43)

// fakeAPI stands in for the remote API and records every call it receives.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	uploads      []model.Upload
	listStatus   int
	signinStatus int
	signinBody   string
	signupStatus int
	signupBody   string
	uploadStatus int
	uploadBody   string
	deleteStatus int

	gotFileName    string
	gotFileContent string
	gotAuth        string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
	f.gotAuth = r.Header.Get("Authorization")

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/auth/signup":
		writeFake(w, f.signupStatus, f.signupBody)
	case r.Method == http.MethodPost && r.URL.Path == "/auth/signin":
		writeFake(w, f.signinStatus, f.signinBody)
	case r.Method == http.MethodGet && r.URL.Path == "/upload":
		if f.listStatus != 0 && f.listStatus != http.StatusOK {
			writeFake(w, f.listStatus, "")
			return
		}
		body, _ := json.Marshal(map[string]any{"uploads": f.uploads})
		writeFake(w, http.StatusOK, string(body))
	case r.Method == http.MethodPost && r.URL.Path == "/upload":
		file, header, err := r.FormFile("file")
		if err == nil {
			content, _ := io.ReadAll(file)
			f.gotFileName = header.Filename
			f.gotFileContent = string(content)
			file.Close()
		}
		writeFake(w, f.uploadStatus, f.uploadBody)
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/upload/"):
		writeFake(w, f.deleteStatus, "")
	default:
		http.NotFound(w, r)
	}
}

func writeFake(w http.ResponseWriter, status int, body string) {
	if status == 0 {
		status = http.StatusOK
	}
	if strings.HasPrefix(body, "{") {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// received returns what the last request carried.
func (f *fakeAPI) received() (auth, fileName, fileContent string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gotAuth, f.gotFileName, f.gotFileContent
}

func (f *fakeAPI) Count(call string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

type testEnv struct {
	api     *fakeAPI
	handler http.Handler
	cfg     *config.Config
}

func newEnv(t *testing.T, api *fakeAPI) *testEnv {
	t.Helper()
	ts := httptest.NewServer(api)
	t.Cleanup(ts.Close)

	cfg := &config.Config{
		AppName:           "JOB OS",
		AppEnv:            "development",
		Port:              "8090",
		APIURL:            ts.URL,
		SessionCookieName: "token",
		SessionMaxAge:     time.Hour,
		MaxUploadSize:     1 << 20,
		AuthRateLimit:     100,
		AuthRateWindow:    time.Minute,
	}
	return &testEnv{api: api, cfg: cfg, handler: SetupRoutes(app.New(cfg))}
}

func (e *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: csrfToken})
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func validToken(t *testing.T) string {
	return tokenExpiring(t, time.Now().Add(time.Hour))
}

func tokenExpiring(t *testing.T, exp time.Time) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}

func withToken(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	return req
}

func htmx(req *http.Request) *http.Request {
	req.Header.Set("HX-Request", "true")
	req.Header.Set("X-CSRF-Token", csrfToken)
	return req
}

func formRequest(method, target string, values url.Values) *http.Request {
	values.Set("csrf_token", csrfToken)
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("csrf_token", csrfToken))
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = io.WriteString(part, content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/dashboard/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func tokenCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	return nil
}

func TestDashboardWithoutUsableTokenRedirects(t *testing.T) {
	tests := []struct {
		name        string
		token       string
		wantCleared bool
	}{
		{"missing", "", false},
		{"expired", tokenExpiring(t, time.Now().Add(-time.Minute)), true},
		{"malformed", "not-a-jwt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t, &fakeAPI{})
			req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
			if tt.token != "" {
				withToken(req, tt.token)
			}

			rec := env.serve(req)

			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/signin", rec.Header().Get("Location"))
			assert.Zero(t, env.api.Count("GET /upload"))
			if tt.wantCleared {
				c := tokenCookie(rec)
				require.NotNil(t, c)
				assert.Negative(t, c.MaxAge)
			}
		})
	}
}

func TestDashboardListsUploadsInServerOrder(t *testing.T) {
	env := newEnv(t, &fakeAPI{uploads: []model.Upload{
		{ID: 2, FileName: "second.pdf", FileType: "pdf", FileURL: "https://files.test/2"},
		{ID: 1, FileName: "first.docx", FileType: "docx", FileURL: "https://files.test/1"},
	}})
	token := validToken(t)

	rec := env.serve(withToken(httptest.NewRequest(http.MethodGet, "/dashboard", nil), token))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Less(t, strings.Index(body, "second.pdf"), strings.Index(body, "first.docx"))
	assert.Equal(t, 1, env.api.Count("GET /upload"))
	auth, _, _ := env.api.received()
	assert.Equal(t, "Bearer "+token, auth)
	assert.NotContains(t, body, "Failed to fetch uploads")
}

func TestDashboardListFailure(t *testing.T) {
	env := newEnv(t, &fakeAPI{listStatus: http.StatusInternalServerError})

	rec := env.serve(withToken(httptest.NewRequest(http.MethodGet, "/dashboard", nil), validToken(t)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to fetch uploads")
	assert.Contains(t, rec.Body.String(), `<ul class="upload-list" id="upload-list"></ul>`)
}

func TestDeleteRemovesRowWithoutRefetch(t *testing.T) {
	env := newEnv(t, &fakeAPI{uploads: []model.Upload{{ID: 1}, {ID: 2}}})

	req := htmx(withToken(httptest.NewRequest(http.MethodDelete, "/dashboard/uploads/1", nil), validToken(t)))
	rec := env.serve(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<li")
	assert.Empty(t, rec.Header().Get("HX-Reswap"))
	assert.Equal(t, []string{"DELETE /upload/1"}, env.api.Calls())
}

func TestDeleteFailureKeepsRow(t *testing.T) {
	env := newEnv(t, &fakeAPI{deleteStatus: http.StatusInternalServerError})

	req := htmx(withToken(httptest.NewRequest(http.MethodDelete, "/dashboard/uploads/1", nil), validToken(t)))
	rec := env.serve(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "none", rec.Header().Get("HX-Reswap"))
	assert.Contains(t, rec.Body.String(), `hx-swap-oob="innerHTML:#dashboard-error"`)
	assert.Contains(t, rec.Body.String(), "Failed to delete file")
	assert.Zero(t, env.api.Count("GET /upload"))
}

func TestDeleteInvalidIDIsNotFound(t *testing.T) {
	env := newEnv(t, &fakeAPI{})

	req := htmx(withToken(httptest.NewRequest(http.MethodDelete, "/dashboard/uploads/abc", nil), validToken(t)))
	rec := env.serve(req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, env.api.Calls())
}

func TestDeleteWithoutJavaScript(t *testing.T) {
	env := newEnv(t, &fakeAPI{})

	req := withToken(formRequest(http.MethodPost, "/dashboard/uploads/5/delete", url.Values{}), validToken(t))
	rec := env.serve(req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	assert.Equal(t, []string{"DELETE /upload/5"}, env.api.Calls())
}

func TestSigninStoresTokenAndRedirects(t *testing.T) {
	env := newEnv(t, &fakeAPI{signinBody: `{"token":"abc.def.ghi"}`})

	t.Run("htmx", func(t *testing.T) {
		req := htmx(formRequest(http.MethodPost, "/signin", url.Values{"email": {"a@b.c"}, "password": {"pw"}}))
		rec := env.serve(req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "/dashboard", rec.Header().Get("HX-Redirect"))
		c := tokenCookie(rec)
		require.NotNil(t, c)
		assert.Equal(t, "abc.def.ghi", c.Value)
		assert.True(t, c.HttpOnly)
	})

	t.Run("plain form", func(t *testing.T) {
		rec := env.serve(formRequest(http.MethodPost, "/signin", url.Values{"email": {"a@b.c"}, "password": {"pw"}}))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
		require.NotNil(t, tokenCookie(rec))
	})
}

func TestSigninInvalidCredentials(t *testing.T) {
	env := newEnv(t, &fakeAPI{signinStatus: http.StatusUnauthorized, signinBody: `{"message":"Invalid credentials"}`})

	req := htmx(formRequest(http.MethodPost, "/signin", url.Values{"email": {"a@b.c"}, "password": {"secret-pw"}}))
	rec := env.serve(req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Invalid credentials")
	assert.Contains(t, body, `value="a@b.c"`)
	assert.NotContains(t, body, "secret-pw")
	assert.Empty(t, rec.Header().Get("HX-Redirect"))
	assert.Nil(t, tokenCookie(rec))
}

func TestSigninAPIUnreachable(t *testing.T) {
	env := newEnv(t, &fakeAPI{})
	// Point the app at an address nothing listens on.
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()
	env.cfg.APIURL = deadURL
	env.handler = SetupRoutes(app.New(env.cfg))

	rec := env.serve(htmx(formRequest(http.MethodPost, "/signin", url.Values{"email": {"a@b.c"}, "password": {"pw"}})))

	assert.Contains(t, rec.Body.String(), "An unexpected error occurred")
	assert.Nil(t, tokenCookie(rec))
}

func TestSignup(t *testing.T) {
	t.Run("success goes to signin", func(t *testing.T) {
		env := newEnv(t, &fakeAPI{signupStatus: http.StatusCreated})
		rec := env.serve(htmx(formRequest(http.MethodPost, "/signup", url.Values{
			"name": {"Ada"}, "email": {"ada@example.com"}, "password": {"pw"},
		})))

		assert.Equal(t, "/signin", rec.Header().Get("HX-Redirect"))
		assert.Equal(t, 1, env.api.Count("POST /auth/signup"))
	})

	t.Run("failure without message uses fallback", func(t *testing.T) {
		env := newEnv(t, &fakeAPI{signupStatus: http.StatusBadRequest})
		rec := env.serve(htmx(formRequest(http.MethodPost, "/signup", url.Values{
			"name": {"Ada"}, "email": {"ada@example.com"}, "password": {"hunter2"},
		})))

		body := rec.Body.String()
		assert.Contains(t, body, "Signup failed")
		assert.Contains(t, body, `id="signup-card"`)
		assert.Contains(t, body, `value="Ada"`)
		assert.NotContains(t, body, "hunter2")
		assert.Empty(t, rec.Header().Get("HX-Redirect"))
	})

	t.Run("missing fields never reach the API", func(t *testing.T) {
		env := newEnv(t, &fakeAPI{})
		rec := env.serve(htmx(formRequest(http.MethodPost, "/signup", url.Values{"name": {"Ada"}})))

		assert.Contains(t, rec.Body.String(), "All fields are required")
		assert.Empty(t, env.api.Calls())
	})
}

func TestSignoutAlwaysClearsToken(t *testing.T) {
	env := newEnv(t, &fakeAPI{})

	for _, token := range []string{"", validToken(t)} {
		req := formRequest(http.MethodPost, "/signout", url.Values{})
		if token != "" {
			withToken(req, token)
		}
		rec := env.serve(req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/signin", rec.Header().Get("Location"))
		c := tokenCookie(rec)
		require.NotNil(t, c)
		assert.Negative(t, c.MaxAge)
	}
	assert.Empty(t, env.api.Calls())
}

func TestSignoutWithStalePageStillClearsToken(t *testing.T) {
	env := newEnv(t, &fakeAPI{})

	// The dashboard outlived its csrf cookie: the header carries the old token
	// and the browser sends no csrf cookie at all.
	req := httptest.NewRequest(http.MethodPost, "/signout", nil)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("X-CSRF-Token", csrfToken)
	withToken(req, validToken(t))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/signin", rec.Header().Get("HX-Redirect"))
	c := tokenCookie(rec)
	require.NotNil(t, c)
	assert.Negative(t, c.MaxAge)
}

func TestStaleCSRFTokenReloadsHTMXPage(t *testing.T) {
	env := newEnv(t, &fakeAPI{})

	req := htmx(withToken(httptest.NewRequest(http.MethodDelete, "/dashboard/uploads/3", nil), validToken(t)))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "true", rec.Header().Get("HX-Refresh"))
	assert.Nil(t, tokenCookie(rec), "the session is left alone")
	assert.Empty(t, env.api.Calls())
}

func TestUploadWithoutFileNeverCallsAPI(t *testing.T) {
	env := newEnv(t, &fakeAPI{})

	rec := env.serve(htmx(withToken(uploadRequest(t, "", ""), validToken(t))))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, env.api.Calls())
}

func TestUploadRefreshesList(t *testing.T) {
	api := &fakeAPI{uploads: []model.Upload{{ID: 9, FileName: "cv.pdf", FileType: "pdf"}}}
	env := newEnv(t, api)

	rec := env.serve(htmx(withToken(uploadRequest(t, "cv.pdf", "%PDF-1.4"), validToken(t))))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, `<ul class="upload-list" id="upload-list">`))
	assert.Contains(t, body, "cv.pdf (pdf)")
	assert.Contains(t, body, `hx-swap-oob="innerHTML:#upload-slot"`)
	assert.Equal(t, []string{"POST /upload", "GET /upload"}, api.Calls())
	_, name, content := api.received()
	assert.Equal(t, "cv.pdf", name)
	assert.Equal(t, "%PDF-1.4", content)
}

func TestUploadFailureShowsAPIMessage(t *testing.T) {
	env := newEnv(t, &fakeAPI{uploadStatus: http.StatusBadRequest, uploadBody: `{"message":"Only PDF files are allowed"}`})

	rec := env.serve(htmx(withToken(uploadRequest(t, "cv.exe", "MZ"), validToken(t))))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "none", rec.Header().Get("HX-Reswap"))
	assert.Contains(t, rec.Body.String(), "Only PDF files are allowed")
	assert.NotContains(t, rec.Body.String(), "upload-slot")
	assert.Zero(t, env.api.Count("GET /upload"))
}

func TestUploadTooLargeIsRejectedLocally(t *testing.T) {
	env := newEnv(t, &fakeAPI{})
	env.cfg.MaxUploadSize = 16
	env.handler = SetupRoutes(app.New(env.cfg))

	rec := env.serve(htmx(withToken(uploadRequest(t, "big.pdf", strings.Repeat("x", 64)), validToken(t))))

	assert.Contains(t, rec.Body.String(), "Upload failed")
	assert.Empty(t, env.api.Calls())
}

func TestUploadOverBodyCapWithoutJavaScript(t *testing.T) {
	env := newEnv(t, &fakeAPI{})
	env.cfg.MaxUploadSize = 16
	env.handler = SetupRoutes(app.New(env.cfg))

	rec := env.serve(withToken(uploadRequest(t, "big.pdf", strings.Repeat("x", 2<<20)), validToken(t)))

	require.Equal(t, http.StatusSeeOther, rec.Code, "not the csrf 403")
	location := rec.Header().Get("Location")
	assert.Empty(t, env.api.Calls())

	rec = env.serve(withToken(httptest.NewRequest(http.MethodGet, location, nil), validToken(t)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Upload failed")
}

func TestPublicRoutes(t *testing.T) {
	env := newEnv(t, &fakeAPI{})

	rec := env.serve(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	rec = env.serve(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, "ok", rec.Body.String())

	rec = env.serve(httptest.NewRequest(http.MethodGet, "/no/such/page", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "/no/such/page")

	rec = env.serve(httptest.NewRequest(http.MethodGet, "/signin", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Sign In</h1>")
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "nonce-")
}
