package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jobos/frontend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/")
}

func TestSignupSendsJSON(t *testing.T) {
	var got model.SignupForm
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/signup", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	})

	err := c.Signup(context.Background(), model.SignupForm{Name: "Ada", Email: "ada@example.com", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, model.SignupForm{Name: "Ada", Email: "ada@example.com", Password: "pw"}, got)
}

func TestSignupFailureCarriesMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"message":"Email already registered"}`)
	})

	err := c.Signup(context.Background(), model.SignupForm{Name: "Ada", Email: "ada@example.com", Password: "pw"})

	require.Error(t, err)
	assert.True(t, IsKind(err, KindStatus))
	assert.Equal(t, "Email already registered", MessageOr(err, "Signup failed"))

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "signup", apiErr.Op)
}

func TestSigninReturnsToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/signin", r.URL.Path)
		_, _ = io.WriteString(w, `{"token":"abc.def.ghi"}`)
	})

	token, err := c.Signin(context.Background(), model.SigninForm{Email: "ada@example.com", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)
}

func TestSigninFailures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		kind     Kind
		message  string
		fallback string
	}{
		{"invalid credentials", http.StatusUnauthorized, `{"message":"Invalid credentials"}`, KindStatus, "Invalid credentials", "Signin failed"},
		{"status without json", http.StatusBadGateway, `<html>bad gateway</html>`, KindStatus, "Signin failed", "Signin failed"},
		{"status without message", http.StatusBadRequest, `{}`, KindStatus, "Signin failed", "Signin failed"},
		{"ok without token", http.StatusOK, `{}`, KindDecode, "Signin failed", "Signin failed"},
		{"ok not json", http.StatusOK, `token`, KindDecode, "Signin failed", "Signin failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			token, err := c.Signin(context.Background(), model.SigninForm{Email: "a@b.c", Password: "x"})

			require.Error(t, err)
			assert.Empty(t, token)
			assert.True(t, IsKind(err, tt.kind), "got %v", err)
			assert.Equal(t, tt.message, MessageOr(err, tt.fallback))
		})
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := New(srv.URL)

	_, err := c.ListUploads(context.Background(), "tok")

	require.Error(t, err)
	assert.True(t, IsKind(err, KindNetwork))
	assert.Equal(t, "Failed to fetch uploads", MessageOr(err, "Failed to fetch uploads"))
}

func TestListUploadsPreservesOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/upload", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"uploads":[
			{"id":7,"fileUrl":"https://f/7.pdf","fileName":"cv.pdf","fileType":"application/pdf","uploaded_at":"2025-01-02T03:04:05Z"},
			{"id":3,"fileUrl":"https://f/3.docx","fileName":"letter.docx","fileType":"docx","uploaded_at":"2025-01-01T00:00:00Z"}
		]}`)
	})

	uploads, err := c.ListUploads(context.Background(), "tok")

	require.NoError(t, err)
	require.Len(t, uploads, 2)
	assert.Equal(t, 7, uploads[0].ID)
	assert.Equal(t, "cv.pdf", uploads[0].FileName)
	assert.Equal(t, 3, uploads[1].ID)
	assert.Equal(t, "2025-01-01T00:00:00Z", uploads[1].UploadedAt)
}

func TestListUploadsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})

	uploads, err := c.ListUploads(context.Background(), "tok")

	require.NoError(t, err)
	assert.NotNil(t, uploads)
	assert.Empty(t, uploads)
}

func TestUploadSendsSingleFilePart(t *testing.T) {
	type received struct {
		auth        string
		values      int
		fields      int
		parts       int
		filename    string
		contentType string
		content     string
	}
	var got received

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got.auth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		got.values = len(r.MultipartForm.Value)
		got.fields = len(r.MultipartForm.File)
		got.parts = len(r.MultipartForm.File["file"])
		if got.parts == 1 {
			fh := r.MultipartForm.File["file"][0]
			got.filename = fh.Filename
			got.contentType = fh.Header.Get("Content-Type")
			if f, err := fh.Open(); err == nil {
				b, _ := io.ReadAll(f)
				got.content = string(b)
				_ = f.Close()
			}
		}
		w.WriteHeader(http.StatusCreated)
	})

	err := c.Upload(context.Background(), "tok", File{
		Name:        `my "cv".pdf`,
		ContentType: "application/pdf",
		Body:        strings.NewReader("%PDF-1.7"),
	})

	require.NoError(t, err)
	assert.Equal(t, received{
		auth:        "Bearer tok",
		values:      0,
		fields:      1,
		parts:       1,
		filename:    `my "cv".pdf`,
		contentType: "application/pdf",
		content:     "%PDF-1.7",
	}, got)
}

func TestUploadDefaultsContentType(t *testing.T) {
	var contentType string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, fh, err := r.FormFile("file")
		if err == nil {
			contentType = fh.Header.Get("Content-Type")
		}
	})

	require.NoError(t, c.Upload(context.Background(), "tok", File{Name: "notes", Body: strings.NewReader("hi")}))
	assert.Equal(t, "application/octet-stream", contentType)
}

func TestUploadFailureMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		_, _ = io.WriteString(w, `{"message":"File too large"}`)
	})

	err := c.Upload(context.Background(), "tok", File{Name: "big.pdf", Body: strings.NewReader("x")})

	require.Error(t, err)
	assert.Equal(t, "File too large", MessageOr(err, "Upload failed"))
}

func TestDeleteUpload(t *testing.T) {
	var path, method string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path, method = r.URL.Path, r.Method
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.DeleteUpload(context.Background(), "tok", 42))
	assert.Equal(t, "/upload/42", path)
	assert.Equal(t, http.MethodDelete, method)
}

func TestDeleteUploadNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	err := c.DeleteUpload(context.Background(), "tok", 1)

	require.Error(t, err)
	assert.True(t, IsKind(err, KindStatus))
	assert.Equal(t, "Failed to delete file", MessageOr(err, "Failed to delete file"))
}

func TestWithTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(srv.URL, WithTimeout(20*time.Millisecond))

	_, err := c.ListUploads(context.Background(), "tok")

	require.Error(t, err)
	assert.True(t, IsKind(err, KindNetwork))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "signin: status 401: Invalid credentials",
		(&Error{Op: "signin", Kind: KindStatus, Status: 401, Message: "Invalid credentials"}).Error())
	assert.Equal(t, "delete upload: status 500",
		(&Error{Op: "delete upload", Kind: KindStatus, Status: 500}).Error())
	assert.Equal(t, "list uploads: network: boom",
		(&Error{Op: "list uploads", Kind: KindNetwork, Err: errors.New("boom")}).Error())
}
