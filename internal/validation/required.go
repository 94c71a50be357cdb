package validation

import (
	"errors"
	"strings"
)

var ErrRequired = errors.New("value is required")

// Required fails when any value is empty or whitespace only.
// This mirrors the browser's `required` attribute; no format checks are applied.
func Required(values ...string) error {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return ErrRequired
		}
	}
	return nil
}
