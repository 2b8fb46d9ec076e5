package translate

import (
	"errors"
	"fmt"
)

// ErrorKind classifies backend failures.
type ErrorKind string

const (
	// KindNetwork covers connection failures and timeouts.
	KindNetwork ErrorKind = "network"
	// KindHTTPStatus covers non-2xx responses from the API endpoint.
	KindHTTPStatus ErrorKind = "http-status"
	// KindDecode covers malformed response bodies.
	KindDecode ErrorKind = "decode"
	// KindModelMissing means no offline model is installed for the pair.
	KindModelMissing ErrorKind = "model-missing"
)

// BackendError tags a translation failure with its kind and origin backend.
type BackendError struct {
	Kind       ErrorKind
	Backend    string
	StatusCode int // set for http-status errors
	Err        error
}

func (e *BackendError) Error() string {
	if e.Kind == KindHTTPStatus && e.StatusCode > 0 {
		return fmt.Sprintf("%s backend: %s %d: %v", e.Backend, e.Kind, e.StatusCode, e.Err)
	}
	if e.Err == nil {
		return fmt.Sprintf("%s backend: %s", e.Backend, e.Kind)
	}
	return fmt.Sprintf("%s backend: %s: %v", e.Backend, e.Kind, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// ErrorKindOf extracts the backend error kind, or empty string when err is
// not a BackendError.
func ErrorKindOf(err error) ErrorKind {
	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		return backendErr.Kind
	}
	return ""
}

// IsModelMissing reports whether err is a model-missing backend failure.
func IsModelMissing(err error) bool {
	return ErrorKindOf(err) == KindModelMissing
}
