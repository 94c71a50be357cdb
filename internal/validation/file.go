package validation

import (
	"errors"
	"fmt"
	"mime/multipart"
)

var (
	ErrNoFile       = errors.New("no file selected")
	ErrFileTooLarge = errors.New("file too large")
)

// UploadFile checks that exactly one non-empty file was selected and that it
// fits in maxSize bytes (0 disables the size check). Type is left to the API.
func UploadFile(headers []*multipart.FileHeader, maxSize int64) (*multipart.FileHeader, error) {
	if len(headers) != 1 {
		return nil, ErrNoFile
	}

	header := headers[0]
	if header == nil || header.Filename == "" || header.Size == 0 {
		return nil, ErrNoFile
	}

	if maxSize > 0 && header.Size > maxSize {
		return nil, fmt.Errorf("%w: maximum size is %d MB", ErrFileTooLarge, maxSize/(1<<20))
	}

	return header, nil
}
