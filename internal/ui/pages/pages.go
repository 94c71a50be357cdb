package pages

import (
	"strconv"

	"github.com/a-h/templ"
	"github.com/jobos/frontend/internal/model"
)

// Element ids htmx swaps target.
const (
	SigninCardID     = "signin-card"
	SignupCardID     = "signup-card"
	DashboardErrorID = "dashboard-error"
	UploadListID     = "upload-list"
	UploadFormID     = "upload-form"
	UploadSlotID     = "upload-slot"
)

// busyIndicator marks the dashboard error banner as in flight along with the element
// that made the request, so a stale error is hidden until the response replaces it.
func busyIndicator(id string) string {
	return "#" + DashboardErrorID + ", #" + id
}

func deleteURL(u model.Upload) string {
	return "/dashboard/uploads/" + strconv.Itoa(u.ID)
}

func uploadRowID(u model.Upload) string {
	return "upload-" + strconv.Itoa(u.ID)
}

func deleteButtonID(u model.Upload) string {
	return "delete-upload-" + strconv.Itoa(u.ID)
}

func deleteButtonAttrs(u model.Upload) templ.Attributes {
	return templ.Attributes{
		"id":              deleteButtonID(u),
		"hx-delete":       deleteURL(u),
		"hx-target":       "closest li",
		"hx-swap":         "outerHTML",
		"hx-disabled-elt": "this",
		"hx-indicator":    busyIndicator(deleteButtonID(u)),
	}
}
