package validation

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequired(t *testing.T) {
	assert.NoError(t, Required("Ada", "ada@example.com", "pw"))
	assert.NoError(t, Required(), "nothing to check")
	assert.ErrorIs(t, Required("Ada", "", "pw"), ErrRequired)
	assert.ErrorIs(t, Required("  "), ErrRequired)
	assert.NoError(t, Required("not-an-email"), "format is not checked")
}

func TestUploadFile(t *testing.T) {
	cv := &multipart.FileHeader{Filename: "cv.pdf", Size: 1024}

	tests := []struct {
		name    string
		headers []*multipart.FileHeader
		max     int64
		wantErr error
	}{
		{"one file", []*multipart.FileHeader{cv}, 10 << 20, nil},
		{"no limit", []*multipart.FileHeader{{Filename: "huge.pdf", Size: 1 << 40}}, 0, nil},
		{"none", nil, 10 << 20, ErrNoFile},
		{"two files", []*multipart.FileHeader{cv, cv}, 10 << 20, ErrNoFile},
		{"empty name", []*multipart.FileHeader{{Filename: "", Size: 10}}, 10 << 20, ErrNoFile},
		{"empty file", []*multipart.FileHeader{{Filename: "cv.pdf", Size: 0}}, 10 << 20, ErrNoFile},
		{"too large", []*multipart.FileHeader{{Filename: "cv.pdf", Size: 11 << 20}}, 10 << 20, ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header, err := UploadFile(tt.headers, tt.max)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, header)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.headers[0], header)
		})
	}
}
