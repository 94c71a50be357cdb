package apiclient

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/jobos/frontend/internal/model"
)

// File is the single document sent by Upload.
type File struct {
	Name        string
	ContentType string // empty means application/octet-stream
	Body        io.Reader
}

// ListUploads returns the user's uploads in server order.
func (c *Client) ListUploads(ctx context.Context, token string) ([]model.Upload, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := c.newJSONRequest(ctx, http.MethodGet, "/upload", nil)
	if err != nil {
		return nil, &Error{Op: "list uploads", Kind: KindNetwork, Err: err}
	}
	bearer(req, token)

	var out struct {
		Uploads []model.Upload `json:"uploads"`
	}
	err = c.do("list uploads", req, &out)
	if err != nil {
		return nil, err
	}
	if out.Uploads == nil {
		out.Uploads = []model.Upload{}
	}
	return out.Uploads, nil
}

// Upload streams f as the only "file" field of a multipart body.
func (c *Client) Upload(ctx context.Context, token string, f File) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreatePart(filePartHeader(f))
		if err == nil {
			_, err = io.Copy(part, f.Body)
		}
		if err == nil {
			err = mw.Close()
		}
		_ = pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", pr)
	if err != nil {
		_ = pr.CloseWithError(err)
		return &Error{Op: "upload", Kind: KindNetwork, Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	bearer(req, token)

	return c.do("upload", req, nil)
}

// DeleteUpload removes one upload by id.
func (c *Client) DeleteUpload(ctx context.Context, token string, id int) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := c.newJSONRequest(ctx, http.MethodDelete, "/upload/"+strconv.Itoa(id), nil)
	if err != nil {
		return &Error{Op: "delete upload", Kind: KindNetwork, Err: err}
	}
	bearer(req, token)

	return c.do("delete upload", req, nil)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func filePartHeader(f File) textproto.MIMEHeader {
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(f.Name)))
	h.Set("Content-Type", contentType)
	return h
}
