package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidQuery     = errors.New("invalid_query")
	ErrUpstreamFetch    = errors.New("upstream_fetch_error")
	ErrStoreUnavailable = errors.New("store_unavailable")
	ErrDictionaryLookup = errors.New("dictionary_lookup_inconclusive")
	ErrNotFound         = errors.New("not_found")
	ErrTimeout          = errors.New("operation timed out")
	ErrInternal         = errors.New("internal_error")
)

type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    message,
		StatusCode: statusCode,
	}
}

func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: statusCode,
	}
}

// Kind returns the stable machine-readable code for err, suitable for the
// "error" field of a JSON error body.
func Kind(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Err.Error()
	}
	switch {
	case errors.Is(err, ErrInvalidQuery):
		return ErrInvalidQuery.Error()
	case errors.Is(err, ErrUpstreamFetch):
		return ErrUpstreamFetch.Error()
	case errors.Is(err, ErrStoreUnavailable):
		return ErrStoreUnavailable.Error()
	case errors.Is(err, ErrNotFound):
		return ErrNotFound.Error()
	default:
		return ErrInternal.Error()
	}
}

func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrInvalidQuery):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUpstreamFetch):
		return http.StatusBadGateway
	case errors.Is(err, ErrStoreUnavailable), errors.Is(err, ErrTimeout):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
