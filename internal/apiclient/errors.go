package apiclient

import (
	"errors"
	"fmt"
)

// Kind classifies why a call to the remote API failed.
type Kind int

const (
	// KindNetwork: the request never produced a response (DNS, refused, reset, canceled).
	KindNetwork Kind = iota + 1
	// KindStatus: the API answered with a non-2xx status.
	KindStatus
	// KindDecode: the API answered 2xx but the body was not what the contract promises.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is returned by every Client method on failure.
type Error struct {
	Op      string // "signup", "signin", "list uploads", ...
	Kind    Kind
	Status  int    // HTTP status, 0 for network failures
	Message string // API supplied "message", empty when absent or not JSON
	Err     error  // underlying transport or decode error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindStatus && e.Message != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
	case e.Kind == KindStatus:
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// MessageOr returns the API supplied message carried by err, or fallback.
func MessageOr(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
