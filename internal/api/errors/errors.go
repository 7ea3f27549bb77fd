package errors

import (
	"net/http"

	"github.com/yyyxi18/Whisper-Taiwaness/internal/app/service"
)

// ErrorKind represents different types of API errors
type ErrorKind string

const (
	KindBadRequest         ErrorKind = "bad_request"
	KindNotFound           ErrorKind = "not_found"
	KindUnsupportedMedia   ErrorKind = "unsupported_media"
	KindValidation         ErrorKind = "validation"
	KindServiceUnavailable ErrorKind = "service_unavailable"
	KindInternal           ErrorKind = "internal"
)

// APIError is the JSON error body. The `error` field is the stable
// contract with clients; the rest is diagnostic.
type APIError struct {
	Message   string            `json:"error"`
	Kind      ErrorKind         `json:"kind"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

func (e *APIError) Error() string { return e.Message }

// HTTPStatus returns the status code for the error kind.
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindBadRequest, KindNotFound, KindUnsupportedMedia, KindValidation:
		return http.StatusBadRequest
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func NewBadRequestError(message string) *APIError {
	return &APIError{Kind: KindBadRequest, Message: message}
}

func NewValidationError(message string, fields map[string]string) *APIError {
	return &APIError{Kind: KindValidation, Message: message, Details: fields}
}

func NewInternalError(message string) *APIError {
	return &APIError{Kind: KindInternal, Message: message}
}

// FromService maps a service failure to the HTTP error contract: input
// problems are the client's fault, everything else is a 500.
func FromService(err error) *APIError {
	kind := service.KindOf(err)
	switch kind {
	case service.KindNotFound:
		return &APIError{Kind: KindNotFound, Message: err.Error()}
	case service.KindUnsupportedFormat:
		return &APIError{Kind: KindUnsupportedMedia, Message: err.Error()}
	case service.KindNetworkError:
		return &APIError{Kind: KindBadRequest, Message: err.Error()}
	case service.KindModelNotLoaded:
		return &APIError{Kind: KindServiceUnavailable, Message: err.Error()}
	default:
		return &APIError{Kind: KindInternal, Message: err.Error()}
	}
}
