package handler

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/jobos/frontend/internal/apiclient"
	"github.com/jobos/frontend/internal/ctxkeys"
	"github.com/jobos/frontend/internal/middleware"
	"github.com/jobos/frontend/internal/service"
	"github.com/jobos/frontend/internal/session"
	"github.com/jobos/frontend/internal/ui"
	"github.com/jobos/frontend/internal/ui/pages"
	"github.com/jobos/frontend/internal/validation"
)

const (
	msgListFailed   = "Failed to fetch uploads"
	msgUploadFailed = "Upload failed"
	msgDeleteFailed = "Failed to delete file"

	multipartMemory = 8 << 20
)

// dashboardNotices maps the ?error= codes other layers redirect with.
var dashboardNotices = map[string]string{
	"upload": msgUploadFailed,
}

type DashboardHandler struct {
	uploadService *service.UploadService
	store         *session.CookieStore
	maxUploadSize int64
}

func NewDashboardHandler(uploadService *service.UploadService, store *session.CookieStore, maxUploadSize int64) *DashboardHandler {
	return &DashboardHandler{
		uploadService: uploadService,
		store:         store,
		maxUploadSize: maxUploadSize,
	}
}

func (h *DashboardHandler) DashboardPage(w http.ResponseWriter, r *http.Request) {
	h.renderDashboard(w, r, dashboardNotices[r.URL.Query().Get("error")])
}

// renderDashboard fetches the list once and renders the full page. errMsg, when set,
// is shown above the list; a failed fetch replaces it.
func (h *DashboardHandler) renderDashboard(w http.ResponseWriter, r *http.Request, errMsg string) {
	sess := ctxkeys.Session(r.Context())

	uploads, err := h.uploadService.List(r.Context(), sess)
	if err != nil {
		if sessionLost(w, r, h.store, err) {
			return
		}
		slog.Warn("failed to list uploads", "error", err)
		errMsg = msgListFailed
	}

	ui.Render(w, r, pages.Dashboard(uploads, errMsg))
}

func (h *DashboardHandler) Upload(w http.ResponseWriter, r *http.Request) {
	sess := ctxkeys.Session(r.Context())

	err := r.ParseMultipartForm(multipartMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			slog.Warn("upload rejected, request body too large", "limit", maxErr.Limit)
		} else {
			slog.Warn("failed to parse upload form", "error", err)
		}
		h.uploadFailed(w, r, msgUploadFailed)
		return
	}
	var headers []*multipart.FileHeader
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
		headers = r.MultipartForm.File["file"]
	}

	header, err := validation.UploadFile(headers, h.maxUploadSize)
	if errors.Is(err, validation.ErrNoFile) {
		// Nothing selected: nothing to do.
		if isHTMX(r) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		middleware.Redirect(w, r, "/dashboard")
		return
	}
	if err != nil {
		slog.Warn("upload rejected", "error", err, "size", headers[0].Size)
		h.uploadFailed(w, r, msgUploadFailed)
		return
	}

	file, err := header.Open()
	if err != nil {
		slog.Error("failed to open uploaded file", "error", err)
		h.uploadFailed(w, r, msgUploadFailed)
		return
	}
	defer file.Close()

	err = h.uploadService.Upload(r.Context(), sess, apiclient.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		if sessionLost(w, r, h.store, err) {
			return
		}
		slog.Warn("upload failed", "error", err, "file", header.Filename)
		h.uploadFailed(w, r, apiclient.MessageOr(err, msgUploadFailed))
		return
	}

	slog.Info("file uploaded", "file", header.Filename, "size", header.Size)

	if !isHTMX(r) {
		middleware.Redirect(w, r, "/dashboard")
		return
	}

	uploads, err := h.uploadService.List(r.Context(), sess)
	if err != nil {
		if sessionLost(w, r, h.store, err) {
			return
		}
		slog.Warn("failed to refresh uploads after upload", "error", err)
		showDashboardError(w, r, msgListFailed)
		ui.RenderOOB(w, r, pages.UploadForm(), "innerHTML:#"+pages.UploadSlotID)
		return
	}

	ui.Render(w, r, pages.UploadList(uploads))
	ui.RenderOOB(w, r, pages.UploadForm(), "innerHTML:#"+pages.UploadSlotID)
	ui.RenderOOB(w, r, pages.DashboardError(""), "innerHTML:#"+pages.DashboardErrorID)
}

func (h *DashboardHandler) uploadFailed(w http.ResponseWriter, r *http.Request, msg string) {
	if isHTMX(r) {
		showDashboardError(w, r, msg)
		return
	}
	h.renderDashboard(w, r, msg)
}

// Delete removes one upload. htmx swaps the empty response over the row, so
// the list is never re-fetched.
func (h *DashboardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess := ctxkeys.Session(r.Context())

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		ui.RenderStatus(w, r, http.StatusNotFound, pages.NotFound())
		return
	}

	err = h.uploadService.Delete(r.Context(), sess, id)
	if err != nil {
		if sessionLost(w, r, h.store, err) {
			return
		}
		slog.Warn("failed to delete upload", "error", err, "upload_id", id)
		if isHTMX(r) {
			showDashboardError(w, r, msgDeleteFailed)
			return
		}
		h.renderDashboard(w, r, msgDeleteFailed)
		return
	}

	slog.Info("upload deleted", "upload_id", id)

	if !isHTMX(r) {
		middleware.Redirect(w, r, "/dashboard")
		return
	}
	ui.RenderOOB(w, r, pages.DashboardError(""), "innerHTML:#"+pages.DashboardErrorID)
}
