package service

import (
	"errors"
	"fmt"
)

// Kind tags every failure crossing the service boundary. Callers (CLI,
// HTTP handlers) map kinds to their own user-visible representation.
type Kind string

const (
	KindNotFound            Kind = "not_found"
	KindUnsupportedFormat   Kind = "unsupported_format"
	KindPreprocessingFailed Kind = "preprocessing_failed"
	KindModelNotLoaded      Kind = "model_not_loaded"
	KindInferenceError      Kind = "inference_error"
	KindNetworkError        Kind = "network_error"
)

// Error is the tagged failure result of a transcription request.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the failure kind from any error returned by the
// service; unknown errors report as inference errors.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInferenceError
}
