package model

import (
	"time"
)

// Upload is one document stored by the remote API on behalf of the user.
type Upload struct {
	ID         int    `json:"id"`
	FileURL    string `json:"fileUrl"`
	FileName   string `json:"fileName"`
	FileType   string `json:"fileType"`
	UploadedAt string `json:"uploaded_at"` // Verbatim from the API
}

// uploadedAtLayouts are the timestamp shapes the API has been seen to emit.
var uploadedAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02 15:04:05",
}

// UploadedTime parses UploadedAt for display. ok is false when the value is not a known layout.
func (u Upload) UploadedTime() (t time.Time, ok bool) {
	for _, layout := range uploadedAtLayouts {
		parsed, err := time.Parse(layout, u.UploadedAt)
		if err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// DownloadURL asks the file host to serve the file as an attachment.
func (u Upload) DownloadURL() string {
	return u.FileURL + "?fl_attachment=true"
}
